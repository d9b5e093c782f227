package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	tcv "github.com/bft-labs/turingcv"
	"github.com/bft-labs/turingcv/internal/adapters/clock"
	"github.com/bft-labs/turingcv/internal/adapters/dac"
	"github.com/bft-labs/turingcv/internal/adapters/fs"
	"github.com/bft-labs/turingcv/internal/adapters/keys"
	"github.com/bft-labs/turingcv/internal/cliconfig"
	"github.com/bft-labs/turingcv/internal/ports"
	"github.com/bft-labs/turingcv/pkg/log"
	"github.com/bft-labs/turingcv/pkg/turingcv"
	"github.com/bft-labs/turingcv/plugins/panelwatcher"
)

const helpBanner = `
 _             _
| |_ _  _ _ _ (_)_ _  __ _ __ __ __
|  _| || | '_|| | ' \/ _' / _|\ V /
 \__|\_,_|_|  |_|_||_\__, \__| \_/
                     |___/
`

const helpDescription = `
A "Turing Machine" sequencer core: an 8-bit shift register that loops,
mutates or locks on every clock edge and drives a 12-bit DAC.

Highlights:
  - Probability knob, force-high and force-low buttons, internal or external feedback.
  - Clock from an internal ticker or one edge per line on stdin.
  - DAC output to the log, a WAV trace or MCP4921 SPI command words.
  - Play it live from the keyboard or a hot-reloaded panel file.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  turingcv --seed 178 --probability 256 --interval 125ms
  turingcv --dac log,wav --wav-file cv.wav --edges 64 --force-high
  yes | head -16 | turingcv --clock stdin --keys
  turingcv status --status-dir /tmp/turingcv
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// versionString reports the binary version, the library module versions and
// the platform.
func versionString() string {
	modules := turingcv.ModuleVersions()
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+modules[name])
	}
	return fmt.Sprintf("%s (%s) %s/%s", getVersion(), strings.Join(parts, ", "), runtime.GOOS, runtime.GOARCH)
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var statusFormat string

	logger := tcv.Logger()

	root := &cobra.Command{
		Use:          "turingcv",
		Short:        "Turing Machine style random looping sequencer core",
		Long:         longHelp,
		Example:      exampleUsage,
		Version:      versionString(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}
			tcv.SetLogLevel(cfg.LogLevel)
			logger = tcv.Logger()
			logger.Info().Interface("config", cfg).Msg("configuration")
			return run(cfg, logger)
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the last saved status snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, cfgPath, &cfg); err != nil {
				return err
			}
			return printStatus(cmd.Context(), cmd.OutOrStdout(), cfg.StatusDir, statusFormat)
		},
	}

	// Flags
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.turingcv/config.toml)")
	root.PersistentFlags().StringVar(&cfg.StatusDir, "status-dir", cfg.StatusDir, "directory for status.json (empty disables)")

	root.Flags().IntVar(&cfg.Seed, "seed", cfg.Seed, "initial register value (0-255)")
	root.Flags().StringVar(&cfg.Encoder, "encoder", cfg.Encoder, "register to voltage profile: "+strings.Join(turingcv.EncoderNames(), ", "))
	root.Flags().StringVar(&cfg.Feedback, "feedback", cfg.Feedback, "feedback bit source: internal or external")
	root.Flags().IntVar(&cfg.Probability, "probability", cfg.Probability, "probability threshold (0-1023) of flipping the feedback bit")
	root.Flags().BoolVar(&cfg.ForceHigh, "force-high", cfg.ForceHigh, "hold the force-high button")
	root.Flags().BoolVar(&cfg.ForceLow, "force-low", cfg.ForceLow, "hold the force-low button")
	root.Flags().Int64Var(&cfg.RandomSeed, "random-seed", cfg.RandomSeed, "random source seed (0 seeds from time)")
	root.Flags().IntVar(&cfg.Vref, "vref", cfg.Vref, "DAC reference in millivolts")

	root.Flags().StringVar(&cfg.Clock, "clock", cfg.Clock, "clock source: internal or stdin (one edge per line)")
	root.Flags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "internal clock period")
	root.Flags().IntVar(&cfg.Edges, "edges", cfg.Edges, "stop after this many edges (0 runs forever)")

	root.Flags().StringSliceVar(&cfg.DACs, "dac", cfg.DACs, "DAC sinks: log, wav, mcp4921")
	root.Flags().StringVar(&cfg.WAVFile, "wav-file", cfg.WAVFile, "WAV trace output path")
	root.Flags().IntVar(&cfg.WAVRate, "wav-rate", cfg.WAVRate, "WAV sample rate in Hz")
	root.Flags().DurationVar(&cfg.WAVHold, "wav-hold", cfg.WAVHold, "how long each code lasts in the WAV trace (default: interval; required with --clock stdin)")
	root.Flags().StringVar(&cfg.SPIDevice, "spi-device", cfg.SPIDevice, "device or capture file for MCP4921 command words")

	root.Flags().StringVar(&cfg.PanelFile, "panel-file", cfg.PanelFile, "TOML panel file with probability and force buttons, reloaded on change")
	root.Flags().BoolVar(&cfg.Keys, "keys", cfg.Keys, "play the panel from the keyboard (h, l, [ and ])")

	root.Flags().DurationVar(&cfg.StatusInterval, "status-interval", cfg.StatusInterval, "status snapshot save interval")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	status.Flags().StringVarP(&statusFormat, "output", "o", fs.FormatJSON, "output format: json or yaml")

	root.AddCommand(status)

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("turingcv")
		os.Exit(1)
	}
}

// loadConfig applies the config file and environment under the flags that
// were set explicitly, then validates.
func loadConfig(cmd *cobra.Command, cfgPath string, cfg *cliconfig.Config) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	// Environment overrides the file; changed flags override both.
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

func run(cfg cliconfig.Config, zl zerolog.Logger) error {
	logger := log.NewZerologAdapterWithLogger(zl)

	if cfg.PanelFile != "" && cfg.Keys {
		return errors.New("panel-file and keys cannot be used together")
	}

	sink, closers, err := buildDAC(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				zl.Error().Err(err).Msg("close dac")
			}
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := []turingcv.Option{
		turingcv.WithLogger(logger),
		turingcv.WithDAC(sink),
	}

	if cfg.Clock == cliconfig.ClockStdin {
		opts = append(opts, turingcv.WithClock(clock.NewLines(os.Stdin)))
	}

	if cfg.PanelFile != "" {
		opts = append(opts, panelwatcher.WithPanelWatcher(panelwatcher.DefaultConfig(cfg.PanelFile)))
	}

	if cfg.Keys {
		panel := keys.NewPanel(cfg.Probability, logger)
		if err := panel.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = panel.Stop() }()
		opts = append(opts, turingcv.WithProbabilitySource(panel), turingcv.WithForceInputs(panel))
	}

	tm, err := turingcv.New(cfg.Library(), opts...)
	if err != nil {
		return fmt.Errorf("create turingcv: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := tm.Start(ctx); err != nil {
		return fmt.Errorf("start turingcv: %w", err)
	}

	select {
	case <-sigCh:
		zl.Info().Msg("received signal, stopping...")
	case <-tm.Done():
		if tm.Status() == turingcv.StateCrashed {
			zl.Error().Msg("turingcv crashed")
		}
	}

	if err := tm.Stop(); err != nil && !errors.Is(err, turingcv.ErrNotRunning) {
		return fmt.Errorf("stop turingcv: %w", err)
	}

	snap := tm.Snapshot()
	zl.Info().
		Uint64("edges", snap.Edges).
		Uint64("dropped", snap.Dropped).
		Str("register", snap.Bits).
		Uint16("code", snap.Code).
		Msg("stopped")
	return nil
}

// buildDAC creates the configured sinks, fanned out when there are several.
func buildDAC(cfg cliconfig.Config, logger ports.Logger) (turingcv.DAC, []io.Closer, error) {
	var sinks []ports.DAC
	var closers []io.Closer

	fail := func(err error) (turingcv.DAC, []io.Closer, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, nil, err
	}

	for _, name := range cfg.DACs {
		switch name {
		case cliconfig.DACLog:
			sinks = append(sinks, dac.NewLog(logger, cfg.Vref))
		case cliconfig.DACWAV:
			w, err := dac.NewWAV(cfg.WAVFile, cfg.WAVRate, holdSamples(cfg))
			if err != nil {
				return fail(err)
			}
			sinks = append(sinks, w)
			closers = append(closers, w)
		case cliconfig.DACMCP4921:
			f, err := os.OpenFile(cfg.SPIDevice, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
			if err != nil {
				return fail(fmt.Errorf("open spi device: %w", err))
			}
			m := dac.NewMCP4921(f)
			sinks = append(sinks, m)
			closers = append(closers, m)
		}
	}

	if len(sinks) == 1 {
		return sinks[0], closers, nil
	}
	return dac.NewTee(sinks...), closers, nil
}

// holdSamples is how many WAV samples each code lasts.
func holdSamples(cfg cliconfig.Config) int {
	n := int(math.Round(cfg.WAVHoldDuration().Seconds() * float64(cfg.WAVRate)))
	if n < 1 {
		return 1
	}
	return n
}

func printStatus(ctx context.Context, w io.Writer, dir, format string) error {
	if dir == "" {
		return errors.New("status-dir is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := fs.NewStatusFileRepository(dir).Load(ctx)
	if err != nil {
		return fmt.Errorf("load status: %w", err)
	}

	return fs.WriteStatus(w, st, format)
}
