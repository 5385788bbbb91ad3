package ui

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/app"
	"todo/internal/config"
	"todo/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type field int

const (
	fieldText field = iota
	fieldDue
)

// changedMsg carries an app change event into the Bubble Tea loop.
type changedMsg struct {
	ev app.Event
}

type Model struct {
	app        *app.App
	cfg        config.Config
	styles     Styles
	tasks      []task.Task
	cursor     int
	mode       mode
	text       textinput.Model
	due        textinput.Model
	focus      field
	editID     int64
	filter     task.Filter
	sort       task.Sort
	status     string
	statusErr  bool
	pendingDel *task.Task
	changes    <-chan app.Event
}

// New builds the model with the filter and sort named in cfg.
func New(a *app.App, cfg config.Config) (Model, error) {
	filter, err := task.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		return Model{}, err
	}
	sort, err := task.ParseSort(cfg.DefaultSort)
	if err != nil {
		return Model{}, err
	}

	text := textinput.New()
	text.Placeholder = "What do you need to do?"
	text.CharLimit = 256
	text.Width = 40

	due := textinput.New()
	due.Placeholder = task.DateLayout
	due.CharLimit = len(task.DateLayout)
	due.Width = 12

	m := Model{
		app:    a,
		cfg:    cfg,
		styles: NewStyles(a.IsDark()),
		text:   text,
		due:    due,
		mode:   modeList,
		filter: filter,
		sort:   sort,
		status: fmt.Sprintf("Press '%s' to add a task.", cfg.Keys.Add),
	}
	m.refresh()
	return m, nil
}

// Run subscribes to app changes and blocks until the program exits.
func Run(a *app.App, cfg config.Config) error {
	m, err := New(a, cfg)
	if err != nil {
		return err
	}

	changes := make(chan app.Event, 16)
	var mu sync.Mutex
	closed := false
	unsubscribe := a.Subscribe(func(ev app.Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case changes <- ev:
		default:
		}
	})
	m.changes = changes

	program := tea.NewProgram(m)
	_, err = program.Run()

	unsubscribe()
	mu.Lock()
	closed = true
	close(changes)
	mu.Unlock()
	return err
}

// waitForChange blocks for the next change event. It yields no message
// once ch is closed.
func waitForChange(ch <-chan app.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return changedMsg{ev: ev}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, waitForChange(m.changes)
	case tea.KeyMsg:
		switch m.mode {
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		case modeForm:
			return m.updateFormMode(msg.String(), msg)
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		m.text.Width = max(msg.Width-30, 10)
	}
	return m, nil
}

// refresh re-derives the visible list from the app.
func (m *Model) refresh() {
	m.styles = NewStyles(m.app.IsDark())
	tasks, err := m.app.Project(m.filter, m.sort)
	if err != nil {
		m.setError(fmt.Sprintf("reload failed: %v", err))
		return
	}
	m.tasks = tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m Model) selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

func (m *Model) selectID(id int64) {
	for i, t := range m.tasks {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		t, ok := m.selected()
		if !ok {
			m.setStatus("No tasks to edit")
			return m, nil
		}
		return m.startForm(&t)
	case m.cfg.Keys.Toggle:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		toggled, err := m.app.ToggleTaskDone(t.ID)
		if err != nil {
			m.setError(fmt.Sprintf("toggle failed: %v", err))
			return m, nil
		}
		m.refresh()
		m.selectID(toggled.ID)
		m.setStatus(fmt.Sprintf("Marked %q %s", toggled.Text, humanDone(toggled.Done)))
	case m.cfg.Keys.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDel = &t
		m.setStatus(fmt.Sprintf("Delete %q? y/n", t.Text))
	case m.cfg.Keys.Filter:
		m.filter = m.filter.Next()
		m.refresh()
		m.setStatus("Filter: " + m.filter.String())
	case m.cfg.Keys.Sort:
		m.sort = m.sort.Next()
		m.refresh()
		m.setStatus("Sort: " + m.sort.String())
	case m.cfg.Keys.Theme:
		dark := m.app.ToggleTheme()
		m.refresh()
		if dark {
			m.setStatus("Dark mode on")
		} else {
			m.setStatus("Dark mode off")
		}
	}
	return m, nil
}

// startForm opens the add form, or the edit form pre-filled from t.
func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	m.mode = modeForm
	m.focus = fieldText
	m.editID = 0
	m.text.SetValue("")
	m.due.SetValue("")
	if t != nil {
		m.editID = t.ID
		m.text.SetValue(t.Text)
		m.due.SetValue(task.FormatDue(t.Due))
		m.setStatus("Edit task: enter to save, esc to cancel")
	} else {
		m.setStatus("Add task: enter to save, esc to cancel")
	}
	m.due.Blur()
	return m, m.text.Focus()
}

func (m *Model) closeForm() {
	m.mode = modeList
	m.editID = 0
	m.text.SetValue("")
	m.due.SetValue("")
	m.text.Blur()
	m.due.Blur()
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.closeForm()
		m.setStatus("Cancelled")
		return m, nil
	case m.cfg.Keys.NextField, "shift+tab":
		if m.focus == fieldText {
			m.focus = fieldDue
			m.text.Blur()
			return m, m.due.Focus()
		}
		m.focus = fieldText
		m.due.Blur()
		return m, m.text.Focus()
	case m.cfg.Keys.Confirm:
		return m.submitForm()
	}

	var cmd tea.Cmd
	if m.focus == fieldDue {
		m.due, cmd = m.due.Update(msg)
	} else {
		m.text, cmd = m.text.Update(msg)
	}
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.text.Value())
	if text == "" || strings.TrimSpace(m.due.Value()) == "" {
		m.setError("Enter a task and a due date")
		return m, nil
	}
	due, err := task.ParseDue(m.due.Value())
	if err != nil {
		m.setError(fmt.Sprintf("Due date must look like %s", task.DateLayout))
		return m, nil
	}

	var saved task.Task
	var done string
	if m.editID != 0 {
		saved, err = m.app.EditTask(m.editID, text, due)
		done = "Task edited successfully!"
	} else {
		saved, err = m.app.CreateTask(text, due)
		done = "Task added successfully!"
	}
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			m.closeForm()
			m.refresh()
		}
		m.setError(fmt.Sprintf("save failed: %v", err))
		return m, nil
	}

	m.closeForm()
	m.refresh()
	m.selectID(saved.ID)
	m.setStatus(done)
	return m, nil
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.mode = modeList
		m.pendingDel = nil
		m.setStatus("Delete cancelled")
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.mode = modeList
			m.setStatus("Nothing to delete")
			return m, nil
		}
		id := m.pendingDel.ID
		m.mode = modeList
		m.pendingDel = nil
		removed, err := m.app.DeleteTask(id)
		if err != nil {
			m.setError(fmt.Sprintf("delete failed: %v", err))
			return m, nil
		}
		m.refresh()
		if removed {
			m.setStatus("Task deleted successfully!")
		} else {
			m.setStatus("Task was already gone")
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	themeLabel := "light"
	if s.Dark {
		themeLabel = "dark"
	}
	b.WriteString(s.Title.Render("Todo List"))
	b.WriteString(s.Bar.Render(fmt.Sprintf("  [%s]", themeLabel)))
	b.WriteString("\n")
	b.WriteString(s.Bar.Render(fmt.Sprintf("Filter: %s • Sort: %s", m.filter, m.sort)))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(s.Item.Render(m.emptyText()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	if m.mode == modeForm {
		b.WriteString("\n")
		title := "Add Task"
		if m.editID != 0 {
			title = "Edit Task"
		}
		b.WriteString(s.Title.Render(title))
		b.WriteString("\n")
		b.WriteString(s.Label.Render("Task: "))
		b.WriteString(m.text.View())
		b.WriteString("\n")
		b.WriteString(s.Label.Render("Due:  "))
		b.WriteString(m.due.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.statusErr {
		b.WriteString(s.Error.Render(m.status))
	} else {
		b.WriteString(s.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(s.Help.Render(renderHelp(m.cfg.Keys)))

	return s.App.Render(b.String())
}

func (m Model) emptyText() string {
	if m.filter != task.FilterAll {
		return fmt.Sprintf("No %s tasks.", strings.ToLower(m.filter.String()))
	}
	return fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		if t.Done {
			checkbox = "[x]"
		}

		line := fmt.Sprintf("%s %s %s", cursor, checkbox, t.Text)
		switch {
		case m.cursor == i:
			line = m.styles.Selected.Render(line)
		case t.Done:
			line = m.styles.Done.Render(line)
		default:
			line = m.styles.Item.Render(line)
		}
		b.WriteString(line)
		b.WriteString(m.styles.Due.Render(fmt.Sprintf("  (due %s)", task.FormatDue(t.Due))))
		b.WriteString("\n")
	}
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s toggle • %s delete • %s filter • %s sort • %s theme • %s quit",
		k.Up, k.Down, k.Add, k.Edit, keyLabel(k.Toggle), k.Delete, k.Filter, k.Sort, k.Theme, k.Quit)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
