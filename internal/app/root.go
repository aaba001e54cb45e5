package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andyballingall/prettygo/internal/config"
	"github.com/andyballingall/prettygo/internal/fsh"
	"github.com/andyballingall/prettygo/internal/reformat"
	"github.com/andyballingall/prettygo/internal/walker"
)

// Version is the current version of prettygo, set at build time.
var Version = "dev"

const InitCmdName = "init"

var LongDescription = `
prettygo rewrites Go source files in their canonical form.

Given a file, it formats that file. Given a directory (by default the current
one), it formats every .go file below it, following symlinks. A file that
cannot be parsed does not stop the run: the others are still formatted and
every failure is reported at the end.
`

// rootFlags holds the values of the flags that shape a format run.
type rootFlags struct {
	path       pathValue
	configPath pathValue
	logFile    pathValue
	output     formatValue
	formatter  formatterValue
	extension  extensionValue
	exclude    []string
	verbose    bool
	debug      bool
	check      bool
	gitignore  bool
	watch      bool
	noColour   bool
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer, envProvider fsh.EnvProvider) *cobra.Command {
	f := &rootFlags{output: OutputText}
	pathResolver := fsh.NewPathResolver()
	var logCloser io.Closer

	rootCmd := &cobra.Command{
		Use:   "prettygo [path]",
		Short: "Format Go source files in place",
		Long:  LongDescription,
		Example: `
prettygo                      formats the current directory
prettygo ./internal           formats a directory tree
prettygo -p main.go -v        formats one file and prints the sizes
prettygo --check -o json      reports unformatted files without writing`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help, completion and init commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}

			// 1. Setup Logging
			if f.verbose || f.debug {
				ll.Set(slog.LevelDebug)
			}

			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			logger, closer, err := setupLogger(stderr, ll, logPath(string(f.logFile), envProvider))
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			logCloser = closer

			// 2. Build Dependencies
			root, err := resolveRoot(pathResolver, f, args)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd, f, root)
			if err != nil {
				return err
			}

			r, err := reformat.New(cfg.Formatter, cfg.ReformatOptions())
			if err != nil {
				return err
			}

			w, err := walker.New(r, walker.Options{
				Extension: cfg.Extension,
				Check:     f.check,
				Exclude:   cfg.Exclude,
				Gitignore: cfg.Gitignore,
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			logger.Debug("configured", "formatter", r.Name(), "config", cfg.Path)

			// 3. Hydrate the Lazy Wrapper
			lazy.SetInner(NewCLIManager(logger, w, stdout))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolveRoot(pathResolver, f, args)
			if err != nil {
				return err
			}
			opts := RunOptions{
				Output:    f.output.String(),
				Verbose:   f.verbose,
				UseColour: !f.noColour && isTerminal(stdout),
			}
			if f.watch {
				err := lazy.Watch(cmd.Context(), root, opts, nil)
				if errors.Is(err, context.Canceled) && cmd.Context().Err() != nil {
					return &WatchStoppedError{Err: err}
				}
				return err
			}
			return lazy.Format(cmd.Context(), root, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.VarP(&f.path, "path", "p", "file or directory to format (default: current directory)")
	flags.VarP(&f.configPath, "config", "C", "config file (default: "+config.FileName+" in the root directory)")
	flags.VarP(&f.output, "output", "o", "Output format (text, json)")
	flags.VarP(&f.formatter, "formatter", "f", fmt.Sprintf("formatter to use %v (default %s)", reformat.Names(), reformat.Default))
	flags.VarP(&f.extension, "extension", "e", "extension of eligible files (default .go)")
	flags.StringSliceVarP(&f.exclude, "exclude", "x", nil, "base name glob of entries to skip (repeatable)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Print per-file sizes and a final summary")
	flags.BoolVar(&f.check, "check", false, "Report files that need formatting without writing them")
	flags.BoolVar(&f.gitignore, "gitignore", false, "Skip entries matched by the root .gitignore")
	flags.BoolVarP(&f.watch, "watch", "w", false, "Keep formatting files as they change")

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&f.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().Var(&f.logFile, "log-file", "also write JSON logs to this file (env "+LogEnvVar+")")

	rootCmd.PersistentFlags().BoolVarP(&f.noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&f.noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&f.noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&f.noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewInitCmd(pathResolver))

	return rootCmd
}

// resolveRoot picks the root from --path, then the positional argument, then
// the canonical working directory. A given path is made absolute but its
// symlinks are kept.
func resolveRoot(pathResolver fsh.PathResolver, f *rootFlags, args []string) (string, error) {
	switch {
	case f.path != "" && len(args) > 0:
		return "", fmt.Errorf("give the path either with --path or as an argument, not both")
	case f.path != "":
		return pathResolver.Abs(string(f.path))
	case len(args) > 0:
		return pathResolver.Abs(args[0])
	default:
		return pathResolver.DefaultRoot()
	}
}

// loadConfig reads the config file and applies the flags the user set on top.
func loadConfig(cmd *cobra.Command, f *rootFlags, root string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if f.configPath != "" {
		cfg, err = config.Load(string(f.configPath))
	} else {
		cfg, err = config.Discover(configDir(root))
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("formatter") {
		cfg.Formatter = reformat.Name(f.formatter)
	}
	if flags.Changed("extension") {
		cfg.Extension = string(f.extension)
	}
	if flags.Changed("gitignore") {
		cfg.Gitignore = f.gitignore
	}
	cfg.Exclude = append(cfg.Exclude, f.exclude...)
	return cfg, nil
}

// configDir is the directory searched for the config file: root itself, or
// the directory holding it when root is not a directory.
func configDir(root string) string {
	if info, err := os.Stat(root); err == nil && info.IsDir() {
		return root
	}
	return filepath.Dir(root)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
