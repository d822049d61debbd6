package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/splice/internal/boundary"
	"github.com/zjrosen/splice/internal/config"
	"github.com/zjrosen/splice/internal/flags"
	"github.com/zjrosen/splice/internal/log"
	"github.com/zjrosen/splice/internal/tracing"
)

var version = "dev"

// localConfigPath is read before the user config and is where config
// commands write when no config file was loaded.
const localConfigPath = ".splice/config.yaml"

// options is the state shared by every command of one invocation.
type options struct {
	cfgFile string
	debug   bool
	diff    bool
	atomic  bool
	undo    bool
	color   string
	within  string

	cfg        config.Config
	configPath string
	tracer     trace.Tracer
	finder     *boundary.Finder
	flags      *flags.Registry
	styles     *styles
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "splice",
		Short: "Grapheme-safe text edits on fixture strings",
		Long: `splice applies word, line and edit-set operations to a fixture string and
prints the result in the same markup: ‸ marks the caret, « and » bracket a
selection. Offsets are UTF-16 code units and edits never split a character.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "config", "c", "",
		"config file (default: ~/.config/splice/config.yaml)")
	pf.BoolVar(&opts.debug, "debug", false, "write debug logs to stderr")
	pf.BoolVar(&opts.diff, "diff", false, "print a diff of the fixture before and after")
	pf.BoolVar(&opts.atomic, "atomic", false, "revert every edit of a command that fails")
	pf.BoolVar(&opts.undo, "undo", false, "undo and redo the command, printing both states")
	pf.StringVar(&opts.color, "color", colorAuto, "color diffs and underlines: auto, always, never")

	root.AddCommand(
		newWordCmd(opts),
		newLineCmd(opts),
		newWrapCmd(opts),
		newInsertCmd(opts),
		newDeleteCmd(opts),
		newShowCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// loadConfig reads the config file and environment into o.cfg.
//
// Lookup order:
//  1. --config
//  2. .splice/config.yaml (current directory)
//  3. ~/.config/splice/config.yaml (user config)
func (o *options) loadConfig() error {
	v := viper.New()

	defaults := config.Defaults()
	v.SetDefault("log.debug", defaults.Log.Debug)
	v.SetDefault("log.path", defaults.Log.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("undo.max_levels", defaults.Undo.MaxLevels)
	v.SetDefault("boundary.cache_ttl", defaults.Boundary.CacheTTL)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	for name, enabled := range defaults.Flags {
		v.SetDefault("flags."+name, enabled)
	}

	// SPLICE_FLAGS_STEP_SPANS sets flags.step-spans.
	v.SetEnvPrefix("splice")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	switch {
	case o.cfgFile != "":
		v.SetConfigFile(o.cfgFile)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "splice"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	o.cfg = config.Defaults()
	if err := v.Unmarshal(&o.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(o.cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	o.configPath = v.ConfigFileUsed()
	if o.configPath == "" {
		o.configPath = localConfigPath
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setupLogging routes logs to stderr for --debug, to the configured file
// when log.debug is set, and nowhere otherwise.
func (o *options) setupLogging(cmd *cobra.Command) (func(), error) {
	switch {
	case o.debug:
		log.InitWriter(cmd.ErrOrStderr())
	case o.cfg.Log.Debug:
		closeLog, err := log.Init(o.cfg.Log.Path)
		if err != nil {
			return nil, err
		}
		log.SetMinLevel(log.ParseLevel(o.cfg.Log.Level))
		return closeLog, nil
	default:
		log.SetEnabled(false)
		return func() {}, nil
	}
	log.SetMinLevel(log.ParseLevel(o.cfg.Log.Level))
	return func() {}, nil
}

// run loads configuration, sets up logging and tracing, and runs fn under a
// command span. Tracing is flushed before run returns.
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context) error) (err error) {
	if err := o.loadConfig(); err != nil {
		return err
	}

	closeLog, err := o.setupLogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := tracing.NewProvider(o.cfg.Tracing, tracing.WithStdoutWriter(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		if shutdownErr := provider.Shutdown(context.WithoutCancel(cmd.Context())); err == nil {
			err = shutdownErr
		}
	}()

	o.tracer = provider.Tracer()
	o.finder = boundary.NewFinder(o.cfg.Boundary.CacheTTL)
	o.flags = flags.New(o.cfg.Flags)
	if o.styles, err = newStyles(cmd.OutOrStdout(), o.color); err != nil {
		return err
	}

	log.Debug(log.CatCLI, "Running command", "command", cmd.Name(), "config", o.configPath)
	err = tracing.Command(cmd.Context(), o.tracer, cmd.Name(), fn)
	if err != nil {
		log.ErrorErr(log.CatCLI, "Command failed", err, "command", cmd.Name())
	}
	return err
}

// Execute runs the root command.
func Execute() error {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
