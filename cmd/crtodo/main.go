package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abatilo/crtodo/internal/config"
	todoerrors "github.com/abatilo/crtodo/internal/errors"
	"github.com/abatilo/crtodo/internal/export"
	"github.com/abatilo/crtodo/internal/logging"
	"github.com/abatilo/crtodo/internal/output"
	"github.com/abatilo/crtodo/internal/storage"
	"github.com/abatilo/crtodo/internal/task"
	"github.com/abatilo/crtodo/internal/todo"
)

//nolint:gochecknoglobals // overridden at build time with -ldflags
var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app holds the per-invocation CLI state.
type app struct {
	jsonOutput bool
	configFile string
	dbPath     string
	logLevel   string
	logFormat  string

	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	formatter output.Formatter
	logger    *log.Logger
}

// run executes one command and returns the process exit code, which is the
// status code of the outcome.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		formatter: output.NewHumanFormatter(stdout),
		logger:    logging.New(stderr, "", ""),
	}

	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		// Argument validation runs before PersistentPreRun.
		if a.jsonOutput {
			a.formatter = output.NewJSONFormatter()
		}
		a.printError(err)
		return int(todoerrors.Code(err))
	}
	return int(todoerrors.Success)
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "A minimal, file-based to-do list manager",
		Long:          "crtodo - Add, list, complete and remove to-dos stored in a local JSON file.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.jsonOutput {
				a.formatter = output.NewJSONFormatter()
			} else {
				a.formatter = output.NewHumanFormatter(a.stdout)
			}
			a.logger = logging.New(a.stderr, a.logLevel, a.logFormat)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&a.configFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/crtodo/config.yaml)")
	flags.StringVar(&a.dbPath, "db", "", "To-do database file (overrides the config file)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (text, json, logfmt)")

	rootCmd.AddCommand(
		a.initCmd(),
		a.addCmd(),
		a.listCmd(),
		a.completeCmd(),
		a.removeCmd(),
		a.clearCmd(),
		a.exportCmd(),
	)
	return rootCmd
}

func (a *app) printOutput(s string) {
	_, _ = io.WriteString(a.stdout, s)
}

func (a *app) printError(err error) {
	_, _ = io.WriteString(a.stdout, a.formatter.FormatError(err))
}

// loadConfig resolves the configuration. Flags override the config file and
// the environment. A missing config file or config directory is only fatal
// when no database path was given explicitly.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configFile)
	if cfg == nil {
		return nil, err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	a.logger = logging.New(a.stderr, cfg.LogLevel, cfg.LogFormat)

	if a.dbPath != "" {
		cfg.DatabasePath = config.ExpandPath(a.dbPath)
	}

	var notInit todoerrors.NotInitializedError
	var dirErr todoerrors.ConfigDirError
	explicit := a.dbPath != "" || config.DatabaseFromEnv()
	if explicit && (errors.As(err, &notInit) || errors.As(err, &dirErr)) {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) manager() (*todo.Manager, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("using database", "path", cfg.DatabasePath)
	return todo.NewManager(storage.NewStore(cfg.DatabasePath), a.logger), nil
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.stderr, "%s [y/N]: ", question)
	line, _ := bufio.NewReader(a.stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func parsePosition(arg string) (int, error) {
	position, err := strconv.Atoi(arg)
	if err != nil {
		return 0, todoerrors.InvalidPositionError{Value: arg}
	}
	return position, nil
}

// initCmd implements 'crtodo init'.
func (a *app) initCmd() *cobra.Command {
	var dbPath string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the to-do database",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			file := a.configFile
			if file == "" {
				var err error
				if file, err = config.DefaultFile(); err != nil {
					return todoerrors.ConfigDirError{Path: "user config directory", Err: err}
				}
			}
			file = config.ExpandPath(file)

			if _, err := os.Stat(file); err == nil && !force {
				return todoerrors.AlreadyInitializedError{ConfigPath: file}
			}

			cfg, err := config.Default()
			if err != nil {
				return todoerrors.ConfigDirError{Path: file, Err: err}
			}
			switch {
			case dbPath != "":
				cfg.DatabasePath = dbPath
			case a.dbPath != "":
				cfg.DatabasePath = a.dbPath
			case os.Getenv(config.EnvDatabase) != "":
				cfg.DatabasePath = os.Getenv(config.EnvDatabase)
			}
			cfg.DatabasePath = config.ExpandPath(cfg.DatabasePath)

			if err = config.Save(file, cfg); err != nil {
				return err
			}
			a.logger.Debug("wrote config", "path", file)

			if err = storage.NewStore(cfg.DatabasePath).Init(); err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatMessage(fmt.Sprintf("The to-do database is %s", cfg.DatabasePath)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dbPath, "db-path", "d", "", "To-do database location (default ~/.<user>_todo.json)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

// addCmd implements 'crtodo add'.
func (a *app) addCmd() *cobra.Command {
	var priority int
	cmd := &cobra.Command{
		Use:   "add <description>...",
		Short: "Add a new to-do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if !task.IsValidPriority(priority) {
				return todoerrors.InvalidPriorityError{Value: priority}
			}

			m, err := a.manager()
			if err != nil {
				return err
			}

			entry, err := m.Add(args, priority)
			if err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatTask(entry.Position, entry.Task))
			return nil
		},
	}
	cmd.Flags().IntVarP(&priority, "priority", "p", task.DefaultPriority, "Priority (1, 2, 3)")
	return cmd
}

// listCmd implements 'crtodo list'.
func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all to-dos",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}

			tasks, err := m.List()
			if err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatTaskList(tasks))
			return nil
		},
	}
}

// completeCmd implements 'crtodo complete'.
func (a *app) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <position>",
		Short: "Mark a to-do as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			position, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			m, err := a.manager()
			if err != nil {
				return err
			}

			entry, err := m.Complete(position)
			if err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatTask(entry.Position, entry.Task))
			return nil
		},
	}
}

// removeCmd implements 'crtodo remove'.
func (a *app) removeCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "remove <position>",
		Short: "Remove a to-do",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			position, err := parsePosition(args[0])
			if err != nil {
				return err
			}

			m, err := a.manager()
			if err != nil {
				return err
			}

			if !force {
				entry, getErr := m.Get(position)
				if getErr != nil {
					return getErr
				}
				if !a.confirm(fmt.Sprintf("Delete to-do # %d: %s?", entry.Position, entry.Task.Description)) {
					a.printOutput(a.formatter.FormatMessage("Operation canceled"))
					return nil
				}
			}

			entry, err := m.Remove(position)
			if err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatMessage(
				fmt.Sprintf("to-do # %d: %q was removed", entry.Position, entry.Task.Description),
			))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove without confirmation")
	return cmd
}

// clearCmd implements 'crtodo clear'.
func (a *app) clearCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all to-dos",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}

			if !force && !a.confirm("Delete all to-dos?") {
				a.printOutput(a.formatter.FormatMessage("Operation canceled"))
				return nil
			}

			if err = m.RemoveAll(); err != nil {
				return err
			}
			a.printOutput(a.formatter.FormatMessage("All to-dos were removed"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove without confirmation")
	return cmd
}

// exportCmd implements 'crtodo export'.
func (a *app) exportCmd() *cobra.Command {
	var format, outFile string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the to-do list as JSON, CSV or PDF",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			m, err := a.manager()
			if err != nil {
				return err
			}

			tasks, err := m.List()
			if err != nil {
				return err
			}

			if outFile == "" {
				return export.Write(a.stdout, tasks, format)
			}

			var buf bytes.Buffer
			if err = export.Write(&buf, tasks, format); err != nil {
				return err
			}
			//nolint:gosec // G306: exports are user documents
			if err = os.WriteFile(outFile, buf.Bytes(), 0o644); err != nil {
				return todoerrors.ExportError{Path: outFile, Err: err}
			}
			a.logger.Debug("exported tasks", "path", outFile, "format", format, "count", len(tasks))
			a.printOutput(a.formatter.FormatMessage(fmt.Sprintf("Exported %d to-dos to %s", len(tasks), outFile)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "F", export.FormatJSON, "Export format (json, csv, pdf)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
