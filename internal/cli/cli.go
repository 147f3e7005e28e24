package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/nissyi-gh/guide/internal/bot"
	"github.com/nissyi-gh/guide/internal/config"
	"github.com/nissyi-gh/guide/internal/logging"
	"github.com/nissyi-gh/guide/internal/session"
	"github.com/nissyi-gh/guide/internal/store"
	"github.com/nissyi-gh/guide/internal/ui"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitLocked   = 3
	ExitInternal = 10
)

type flags struct {
	configPath string
	dataFile   string
	dbFile     string
	backend    string
	logFile    string
	plain      bool
	verbose    bool
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, store.ErrLocked):
		return ExitLocked
	case errors.Is(err, errUsage):
		return ExitUsage
	default:
		return ExitInternal
	}
}

var errUsage = errors.New("usage")

// NewRootCmd builds `guide` and its subcommands.
func NewRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "guide",
		Short:        "AdventureGuide: a chat-style task tracker",
		Long:         "Track to-dos, deadlines and events by typing commands such as\n  todo <desc>\n  deadline <desc> /by <d/M/yyyy HHmm>\n  event <desc> /from <d/M/yyyy HHmm> /to <d/M/yyyy HHmm>\n  list, find, mark, unmark, delete, tag, untag, bye",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, f)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/guide/config.yaml)")
	pf.StringVar(&f.dataFile, "data", "", "task file for the file backend (default data/tasks.txt or GUIDE_DATA)")
	pf.StringVar(&f.dbFile, "db", "", "database for the sqlite backend (default data/tasks.db)")
	pf.StringVar(&f.backend, "backend", "", "storage backend: file or sqlite")
	pf.StringVar(&f.logFile, "log-file", "", "log file (default data/guide.log)")
	pf.BoolVar(&f.verbose, "verbose", false, "log debug records")
	root.Flags().BoolVar(&f.plain, "plain", false, "read commands line by line from stdin instead of opening the chat window")

	root.AddCommand(newImportCmd(f), newPromptCmd(f))
	return root
}

func (f *flags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("data") {
		cfg.DataFile = f.dataFile
	}
	if changed("db") {
		cfg.DBFile = f.dbFile
	}
	if changed("backend") {
		cfg.Backend = f.backend
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}
	if changed("plain") && f.plain {
		cfg.UI = config.UIPlain
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	return cfg, nil
}

func openBackend(cfg config.Config, logger *slog.Logger) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.DBFile, logger)
	default:
		return store.OpenFile(cfg.DataFile, logger)
	}
}

// setup loads configuration and opens the logger and backend. Records carry
// a per-run id.
// The returned cleanup closes the logger.
func setup(cmd *cobra.Command, f *flags) (config.Config, *slog.Logger, store.Backend, func(), error) {
	cfg, err := f.resolve(cmd)
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	logger, logCloser, err := logging.New(logging.Config{Path: cfg.LogFile, Verbose: cfg.Verbose})
	if err != nil {
		return cfg, nil, nil, nil, err
	}
	logger = logger.With("run", ulid.Make().String(), "cmd", cmd.Name())
	backend, err := openBackend(cfg, logger)
	if err != nil {
		logCloser.Close()
		return cfg, nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	logger.Info("store opened", "backend", cfg.Backend)
	return cfg, logger, backend, func() { logCloser.Close() }, nil
}

func useChat(cfg config.Config, in io.Reader, out io.Writer) bool {
	switch cfg.UI {
	case config.UIChat:
		return true
	case config.UIPlain:
		return false
	}
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runSession(cmd *cobra.Command, f *flags) error {
	cfg, logger, backend, cleanup, err := setup(cmd, f)
	if err != nil {
		return err
	}
	defer cleanup()

	b := bot.New(backend, logger)
	defer b.Close()

	if useChat(cfg, cmd.InOrStdin(), cmd.OutOrStdout()) {
		p := tea.NewProgram(ui.NewModel(b, b.LoadError()), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run chat window: %w", err)
		}
		return nil
	}
	s := session.New(session.NewLineReader(cmd.InOrStdin()), cmd.OutOrStdout(), b, b.LoadError())
	return s.Run()
}
