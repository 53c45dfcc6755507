// Package cli implements the cmdref command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"cmdref/config"
	"cmdref/logger"
	"cmdref/store"
	"cmdref/ui"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// app carries what every subcommand needs once the root has run.
type app struct {
	// flags
	file     string
	backend  string
	logLevel string
	jsonOut  bool

	// loadConfig is swapped out in tests.
	loadConfig func() (*config.Config, error)

	cfg   *config.Config
	log   logger.Logger
	store *store.Store
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, config.Load)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, loadConfig func() (*config.Config, error)) int {
	a := &app{loadConfig: loadConfig}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err == nil {
		return ExitSuccess
	}

	code := exitCode(err)
	if a.jsonOut {
		_ = outputJSON(stdout, ErrorResponse{Error: err.Error(), Code: code})
	} else {
		fmt.Fprintln(stderr, ui.RenderError(err.Error()))
	}
	return code
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cmdref",
		Short: "Personal reference of shell commands",
		Long: `cmdref keeps the shell commands you keep forgetting, with a description
and tags, in a single JSON file.

Each listing is identified by the SHA-256 of its trimmed command, so the same
command can only be stored once. Ids can be shortened to any unique prefix of
at least four characters.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&a.file, "file", "f", "", "store file (default from config, ~/.cmdref/listings.json)")
	flags.StringVar(&a.backend, "backend", "", "store backend: json or sqlite")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.jsonOut, "json", false, "print JSON instead of human-readable output")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.getCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.searchCmd(),
		a.tagsCmd(),
		a.runCmd(),
		a.browseCmd(),
	)
	return root
}

// setup resolves configuration, builds the logger and opens the store.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return &configError{err}
	}

	if a.backend != "" && a.backend != cfg.Backend {
		cfg.Backend = a.backend
		if a.file == "" {
			cfg.StorePath = config.ExpandTilde(config.DefaultStorePath(cfg.Backend))
		}
	}
	if a.file != "" {
		cfg.StorePath = config.ExpandTilde(a.file)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return &configError{err}
	}
	a.cfg = cfg

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: cfg.PrettyLog, File: cfg.LogFile})
	if err != nil {
		return &configError{fmt.Errorf("building logger: %w", err)}
	}
	a.log = log

	backend, err := store.BackendFor(cfg.Backend, cfg.StorePath)
	if err != nil {
		return &configError{err}
	}
	s, err := store.Open(backend, store.WithLogger(log))
	if err != nil {
		return err
	}
	a.store = s
	log.Debug("store opened", logger.String("path", cfg.StorePath), logger.String("backend", cfg.Backend))
	return nil
}
