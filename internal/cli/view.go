package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveen/wattwise/internal/config"
	"github.com/naveen/wattwise/internal/logger"
	"github.com/naveen/wattwise/internal/monitor"
	"github.com/naveen/wattwise/internal/source"
	"github.com/naveen/wattwise/internal/store"
	"github.com/naveen/wattwise/internal/ui"
)

// runView is the root command action: one-shot reading, raw output, or
// the live dashboard.
func runView() error {
	if intervalFlag < 1 || intervalFlag > 60 {
		return fmt.Errorf("interval must be between 1 and 60 seconds, got %d", intervalFlag)
	}
	if minutesFlag < 1 || minutesFlag > 60 {
		return fmt.Errorf("minutes must be between 1 and 60, got %d", minutesFlag)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if !rootCmd.PersistentFlags().Changed("log-level") {
		logger.Initialize(cfg.Logging.Level)
	}
	// The dashboard owns stdout; raw mode needs it clean too.
	if watchFlag || rawFlag {
		logger.SetOutput(os.Stderr)
	}

	src, err := selectSource(cfg)
	if err != nil {
		return err
	}

	session := monitor.NewSession(src, monitor.Config{
		Capacity:    cfg.History.Capacity,
		ShowCurrent: currentFlag,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Validate(ctx); err != nil {
		return fmt.Errorf("source %q failed validation: %w", session.SourceName(), err)
	}

	interval := time.Duration(intervalFlag) * time.Second

	switch {
	case rawFlag && watchFlag:
		return session.RunRaw(ctx, os.Stdout, interval)
	case rawFlag:
		return session.RawOnce(ctx, os.Stdout)
	case watchFlag:
		return runWatch(ctx, session, cfg, interval)
	default:
		return runOnce(ctx, session)
	}
}

// runOnce fetches and prints a single reading.
func runOnce(ctx context.Context, session *monitor.Session) error {
	sample, err := session.Poll(ctx)
	if err != nil {
		return fmt.Errorf("read from %q: %w", session.SourceName(), err)
	}
	fmt.Printf("Power: %.1f W\n", sample.Watts)
	if sample.HasAmps {
		fmt.Printf("Current: %.2f A\n", sample.Amps)
	}
	return nil
}

// runWatch seeds history, runs the dashboard, and persists history on
// the way out.
func runWatch(ctx context.Context, session *monitor.Session, cfg *config.Config, interval time.Duration) error {
	path := historyPath(cfg)

	// Seeding only makes sense against a real device: mock sessions would
	// graft simulated readings onto genuine ones.
	if !mockFlag {
		if snap, err := store.Load(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("could not load history, starting fresh")
		} else {
			session.Seed(snap.Power, snap.Current)
		}
	}

	uiCfg := ui.Config{
		Session:      session,
		Interval:     interval,
		TrendMinutes: minutesFlag,
		Thresholds: ui.Thresholds{
			Warning:  cfg.Display.Thresholds.Warning,
			Critical: cfg.Display.Thresholds.Critical,
		},
		MaxScale:   cfg.Display.MaxScale,
		ChartWidth: ui.DefaultChartWidth,
	}

	p := tea.NewProgram(ui.NewModel(uiCfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if runErr != nil && ctx.Err() != nil {
		// Interrupted via signal: still a clean shutdown.
		runErr = nil
	}

	if !mockFlag && session.PowerHistory().Len() > 0 {
		snap := store.Snapshot{
			Power:   session.PowerHistory().Snapshot(),
			Current: session.CurrentHistory().Snapshot(),
		}
		if err := store.Save(path, snap); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("could not save history")
		}
	}

	return runErr
}

// selectSource picks the telemetry source from flags and configuration.
func selectSource(cfg *config.Config) (source.Source, error) {
	if mockFlag {
		return source.NewMock(rand.Int63()), nil
	}

	switch sourceFlag {
	case "homeassistant":
		return homeAssistantSource(cfg)
	case "kasa":
		return kasaSource(cfg)
	case "":
		// Prefer the hub; fall back to a directly configured plug.
		if cfg.HomeAssistant.Configured() {
			return homeAssistantSource(cfg)
		}
		if cfg.Kasa.Configured() {
			return kasaSource(cfg)
		}
		return nil, fmt.Errorf("no source configured: set homeassistant or kasa in the config, or run with --mock")
	default:
		return nil, fmt.Errorf("unknown source %q: expected homeassistant or kasa", sourceFlag)
	}
}

func homeAssistantSource(cfg *config.Config) (source.Source, error) {
	if !cfg.HomeAssistant.Configured() {
		return nil, fmt.Errorf("home assistant is not configured: set homeassistant.host and a token")
	}
	if cfg.HomeAssistant.EntityID == "" {
		return nil, fmt.Errorf("home assistant is missing an entity: set homeassistant.entity_id or device_name")
	}
	return source.NewHomeAssistant(source.HomeAssistantConfig{
		Host:            cfg.HomeAssistant.Host,
		Token:           cfg.HomeAssistant.Token,
		EntityID:        cfg.HomeAssistant.EntityID,
		CurrentEntityID: cfg.HomeAssistant.CurrentEntityID,
	}), nil
}

func kasaSource(cfg *config.Config) (source.Source, error) {
	if !cfg.Kasa.Configured() {
		return nil, fmt.Errorf("kasa is not configured: set kasa.device_ip")
	}
	return source.NewKasa(cfg.Kasa.DeviceIP, cfg.Kasa.Alias), nil
}

// historyPath resolves where session history is persisted.
func historyPath(cfg *config.Config) string {
	if cfg.History.File != "" {
		return cfg.History.File
	}
	path, err := store.DefaultPath()
	if err != nil {
		logger.Warn().Err(err).Msg("could not resolve history path, using working directory")
		return "wattwise-history.json"
	}
	return path
}
