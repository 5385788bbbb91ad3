// Package cli provides the command-line entry point for todo.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"todo/internal/app"
	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/storage"
	"todo/internal/task"
	"todo/internal/theme"
	"todo/internal/ui"
)

// runUIFunc starts the terminal UI. Tests replace it.
var runUIFunc = ui.Run

type options struct {
	configPath string
	backend    string
	filter     string
	sort       string
}

// NewRootCommand creates the root command. Running it without a
// subcommand opens the task list.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Terminal task list",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $TODO_CONFIG or the user config dir)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "task store: memory or sqlite")
	root.PersistentFlags().StringVar(&opts.filter, "filter", "", "initial filter: all, completed or pending")
	root.PersistentFlags().StringVar(&opts.sort, "sort", "", "initial sort: added, date, completed-first or pending-first")

	root.AddCommand(newConfigCommand(opts))
	return root
}

func newConfigCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", opts.resolvedPath())
			_, err = out.Write(data)
			return err
		},
	}
}

func (o *options) resolvedPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ResolveConfigPath()
}

// load reads the config file and applies flag overrides.
func (o *options) load() (config.Config, error) {
	cfg, err := config.LoadOrCreate(o.resolvedPath())
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.filter != "" {
		cfg.DefaultFilter = o.filter
	}
	if o.sort != "" {
		cfg.DefaultSort = o.sort
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	log, logCloser, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	repo, closeRepo, err := openRepo(cfg.Backend)
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer closeRepo.Close()

	log.Info("starting", "backend", cfg.Backend, "filter", cfg.DefaultFilter, "sort", cfg.DefaultSort)
	a := app.New(repo, theme.New(), log)
	if err := runUIFunc(a, cfg); err != nil {
		log.Error("ui exited", "error", err)
		return err
	}
	log.Info("exiting")
	return nil
}

// openRepo builds the session task store for backend.
func openRepo(backend string) (task.Repo, io.Closer, error) {
	ids := task.NewIDSource(nil)
	switch backend {
	case config.BackendSQLite:
		s, err := storage.Open(ids)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendMemory, "":
		return task.NewMemoryStore(ids), closerFunc(func() error { return nil }), nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
