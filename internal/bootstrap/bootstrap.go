package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	cataloginadapter "stillness/internal/modules/catalog/adapter/in"
	catalogoutadapter "stillness/internal/modules/catalog/adapter/out"
	catalogservice "stillness/internal/modules/catalog/service"
	catalogusecase "stillness/internal/modules/catalog/usecase"
	historyinadapter "stillness/internal/modules/history/adapter/in"
	historyoutadapter "stillness/internal/modules/history/adapter/out"
	historyservice "stillness/internal/modules/history/service"
	historyusecase "stillness/internal/modules/history/usecase"
	hooksinadapter "stillness/internal/modules/hooks/adapter/in"
	hooksoutadapter "stillness/internal/modules/hooks/adapter/out"
	hooksservice "stillness/internal/modules/hooks/service"
	hooksusecase "stillness/internal/modules/hooks/usecase"
	practiceinadapter "stillness/internal/modules/practice/adapter/in"
	practiceoutadapter "stillness/internal/modules/practice/adapter/out"
	practiceusecase "stillness/internal/modules/practice/usecase"
	settingsinadapter "stillness/internal/modules/settings/adapter/in"
	settingsoutadapter "stillness/internal/modules/settings/adapter/out"
	settingsdomain "stillness/internal/modules/settings/domain"
	settingsdto "stillness/internal/modules/settings/dto"
	settingsservice "stillness/internal/modules/settings/service"
	settingsusecase "stillness/internal/modules/settings/usecase"
	statsinadapter "stillness/internal/modules/stats/adapter/in"
	statsoutadapter "stillness/internal/modules/stats/adapter/out"
	statsservice "stillness/internal/modules/stats/service"
	statsusecase "stillness/internal/modules/stats/usecase"
	"stillness/internal/platform/clock"
	"stillness/internal/platform/config"
	"stillness/internal/platform/id"
	"stillness/internal/platform/logging"
	"stillness/internal/platform/tx"
	uiapp "stillness/internal/ui/app"
	"stillness/internal/ui/theme"
)

type Options struct {
	// TUI routes logs to cfg.TUILogFile() since stderr belongs to the screen.
	TUI bool
	// Bell receives BEL cues for sessions started with cues on. Nil disables them.
	Bell io.Writer
}

type App struct {
	Logger hclog.Logger

	PracticeCLI practiceinadapter.CLIHandler
	PracticeTUI practiceinadapter.TUIHandler
	HistoryCLI  historyinadapter.CLIHandler
	StatsCLI    statsinadapter.CLIHandler
	CatalogCLI  cataloginadapter.CLIHandler
	SettingsCLI settingsinadapter.CLIHandler
	HooksCLI    hooksinadapter.CLIHandler

	closers []io.Closer
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logPath := cfg.LogFile
	if opts.TUI {
		logPath = cfg.TUILogFile()
	}
	logger, logCloser, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return nil, err
	}
	app := &App{Logger: logger, closers: []io.Closer{logCloser}}

	clk := clock.SystemClock{}
	ids := id.UUID{}

	sessionIndex, err := historyoutadapter.NewSQLiteSessionIndex(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new session index: %w", err)
	}
	app.closers = append(app.closers, sessionIndex)
	historyUC := historyusecase.NewInteractor(historyservice.NewHistoryService(
		clk,
		ids,
		historyoutadapter.NewVaultSessionStore(cfg.DataDir, cfg.Location),
		sessionIndex,
		&tx.SerialManager{},
		cfg.Location,
		logger.Named("history"),
	))

	statsUC := statsusecase.NewInteractor(statsservice.NewStatsService(
		clk,
		statsoutadapter.NewHistorySourceAdapter(historyUC),
		statsoutadapter.NewFileSnapshotCache(cfg.CachePath),
		cfg.Location,
		logger.Named("stats"),
	))

	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(
		catalogoutadapter.NewYAMLCatalogStore(cfg.CatalogPath),
		clk,
		id.UUID{},
		logger.Named("catalog"),
	))

	settingsUC := settingsusecase.NewInteractor(settingsservice.NewSettingsService(
		settingsoutadapter.NewTOMLPreferenceStore(cfg.SettingsPath),
		logger.Named("settings"),
	))

	hookHost := hooksoutadapter.NewGRPCHost(logger)
	app.closers = append(app.closers, hookHost)
	hooksUC := hooksusecase.NewInteractor(hooksservice.NewHookService(
		clk,
		hooksoutadapter.NewFileManifestStore(cfg.HooksPath),
		hookHost,
		logger.Named("hooks"),
	))

	deps := practiceusecase.Dependencies{
		Clock:        clock.MonotonicClock{},
		Scheduler:    practiceoutadapter.NewTickerScheduler(),
		Recorder:     practiceoutadapter.NewHistoryRecorder(historyUC, statsUC, logger),
		Hooks:        practiceoutadapter.NewHookNotifier(hooksUC, logger),
		Preferences:  practiceoutadapter.NewSettingsPreferences(settingsUC),
		Meditations:  practiceoutadapter.NewCatalogLookup(catalogUC),
		Logger:       logger,
		TickInterval: cfg.TickInterval,
		Epsilon:      cfg.Epsilon,
	}
	if opts.Bell != nil {
		deps.Cues = practiceoutadapter.NewTerminalBell(opts.Bell)
	}
	practiceUC, err := practiceusecase.NewInteractor(ctx, deps)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new practice interactor: %w", err)
	}

	app.PracticeCLI = practiceinadapter.NewCLIHandler(practiceUC)
	app.PracticeTUI = practiceinadapter.NewTUIHandler(practiceUC)
	app.HistoryCLI = historyinadapter.NewCLIHandler(historyUC)
	app.StatsCLI = statsinadapter.NewCLIHandler(statsUC)
	app.CatalogCLI = cataloginadapter.NewCLIHandler(catalogUC)
	app.SettingsCLI = settingsinadapter.NewCLIHandler(settingsUC)
	app.HooksCLI = hooksinadapter.NewCLIHandler(hooksUC)
	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type themeSetting interface {
	Get(ctx context.Context, key string) (settingsdto.SettingOutput, error)
}

// ApplyTheme selects the UI flavour from the theme preference, falling back
// to dark when it cannot be read.
func ApplyTheme(ctx context.Context, settings themeSetting, logger hclog.Logger) theme.Flavour {
	setting, err := settings.Get(ctx, settingsdomain.KeyTheme)
	if err != nil {
		logging.OrNull(logger).Warn("theme preference unavailable, using dark", "error", err)
		return theme.Use(theme.Mocha.Name)
	}
	return theme.Use(setting.Value)
}

func RunTUI(ctx context.Context, app *App) error {
	ApplyTheme(ctx, app.SettingsCLI, app.Logger)
	model, stop := uiapp.NewModel(app.PracticeTUI, app.StatsCLI, app.CatalogCLI, app.HistoryCLI)
	defer stop()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
