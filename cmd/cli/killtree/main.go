package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/core-tools/hsu-killtree/pkg/config"
	"github.com/core-tools/hsu-killtree/pkg/killtree"
	"github.com/core-tools/hsu-killtree/pkg/logging"
	"github.com/core-tools/hsu-killtree/pkg/process"
	"github.com/core-tools/hsu-killtree/pkg/processstate"

	"github.com/fatih/color"
	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	ConfigFile      string        `long:"config" short:"c" description:"path to a YAML configuration file"`
	PIDFile         string        `long:"pid-file" short:"p" description:"read the root process id from a PID file"`
	NoIncludeTarget bool          `long:"no-include-target" description:"kill only the descendants of PID"`
	Signal          string        `long:"signal" short:"s" description:"signal to send on POSIX systems (default SIGTERM)"`
	Mode            string        `long:"mode" choice:"blocking" choice:"concurrent" description:"execution mode"`
	Format          string        `long:"format" short:"f" choice:"table" choice:"plain" choice:"json" description:"output format"`
	Quiet           bool          `long:"quiet" short:"q" description:"print nothing on success"`
	NoColor         bool          `long:"no-color" description:"disable coloured output"`
	Wait            time.Duration `long:"wait" description:"after killing, wait up to this long for the killed processes to exit"`
	LogLevel        string        `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"log level"`

	Args struct {
		PID string `positional-arg-name:"PID" description:"id of the root process to kill"`
	} `positional-args:"yes"`
}

// app is the command wired to a platform, so tests can swap the platform.
type app struct {
	platform func(logger logging.Logger) process.Platform
	stdout   io.Writer
	stderr   io.Writer
}

func main() {
	a := &app{
		platform: func(logger logging.Logger) process.Platform {
			return process.NewNativePlatform(logger)
		},
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	os.Exit(a.run(os.Args[1:]))
}

func (a *app) run(argv []string) int {
	var opts flagOptions
	parser := flags.NewParser(&opts, flags.HelpFlag)
	parser.Usage = "[OPTIONS] PID | --pid-file FILE"
	if _, err := parser.ParseArgs(argv); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(a.stdout, err)
			return 0
		}
		fmt.Fprintf(a.stderr, "Command line flags parsing failed: %v\n", err)
		return 2
	}

	processID, err := targetProcessID(opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "killtree: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(a.stderr, "killtree: %v\n", err)
		return 2
	}

	zapLogger, err := logging.NewZapLogger(cfg.ZapConfig())
	if err != nil {
		fmt.Fprintf(a.stderr, "killtree: failed to create logger: %v\n", err)
		return 2
	}
	defer zapLogger.Sync()
	logger := logging.WithPrefix(zapLogger, "module: killtree , ")

	logger.Debugf("opts: %+v", opts)

	killer := killtree.New(a.platform(logger), logger)

	var outputs killtree.Outputs
	switch cfg.Mode {
	case config.ModeConcurrent:
		outputs, err = killer.KillTreeContext(context.Background(), processID, cfg.KillTreeConfig())
	default:
		outputs, err = killer.KillTree(processID, cfg.KillTreeConfig())
	}
	if err != nil {
		logger.Errorf("Kill tree failed, process id: %d, error: %v", processID, err)
		fmt.Fprintf(a.stderr, "killtree: %v\n", err)
		return 1
	}

	r := newRenderer(a.stdout, cfg.Output)
	if err := r.renderOutputs(outputs); err != nil {
		fmt.Fprintf(a.stderr, "killtree: %v\n", err)
		return 1
	}

	if cfg.WaitTimeout > 0 {
		waitOpts := processstate.DefaultWaitOptions()
		waitOpts.Timeout = cfg.WaitTimeout
		survivors := processstate.WaitForExit(context.Background(), outputs.KilledProcessIDs(), waitOpts, logger)
		if len(survivors) > 0 {
			r.renderSurvivors(a.stderr, survivors)
			return 1
		}
	}
	return 0
}

// targetProcessID takes the root id either from the positional argument or
// from --pid-file, never both.
func targetProcessID(opts flagOptions) (process.ProcessID, error) {
	switch {
	case opts.PIDFile != "" && opts.Args.PID != "":
		return 0, fmt.Errorf("PID and --pid-file are mutually exclusive")
	case opts.PIDFile != "":
		return process.ReadPIDFile(opts.PIDFile)
	case opts.Args.PID != "":
		return process.ParseProcessID(opts.Args.PID)
	default:
		return 0, fmt.Errorf("the required argument `PID` was not provided")
	}
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(opts flagOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.LoadConfigFromFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	if opts.NoIncludeTarget {
		includeTarget := false
		cfg.IncludeTarget = &includeTarget
	}
	if opts.Signal != "" {
		cfg.Signal = opts.Signal
	}
	if opts.Mode != "" {
		cfg.Mode = config.Mode(opts.Mode)
	}
	if opts.Format != "" {
		cfg.Output.Format = config.OutputFormat(opts.Format)
	}
	if opts.Quiet {
		cfg.Output.Quiet = true
	}
	if opts.NoColor {
		noColor := false
		cfg.Output.Color = &noColor
	}
	if opts.Wait != 0 {
		cfg.WaitTimeout = opts.Wait
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if cfg.Output.Color == nil {
		auto := !color.NoColor
		cfg.Output.Color = &auto
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
