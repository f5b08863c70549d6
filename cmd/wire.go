package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/bnema/checkin-bot/internal/adapters/piggycell"
	statusadapter "github.com/bnema/checkin-bot/internal/adapters/render/status"
	"github.com/bnema/checkin-bot/internal/adapters/repo/accountfile"
	"github.com/bnema/checkin-bot/internal/adapters/useragent"
	"github.com/bnema/checkin-bot/internal/application"
	"github.com/bnema/checkin-bot/internal/config"
	"github.com/bnema/checkin-bot/internal/domain"
	"github.com/bnema/checkin-bot/internal/logging"
	"github.com/bnema/checkin-bot/internal/metrics"
	"github.com/bnema/checkin-bot/internal/ports"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const dotEnvFile = ".env"

type wireOptions struct {
	console io.Writer
	// seed of zero means seeded from the clock.
	seed int64
	// jitter overrides the pause between accounts.
	jitter func() time.Duration
}

// app is the runtime context built once per process.
type app struct {
	cfg       config.RunConfig
	logger    *zap.Logger
	closeLog  func() error
	repo      *accountfile.Repository
	rt        *application.Runtime
	validator *application.TokenValidator
	runner    *application.Runner
	scheduler *application.Scheduler
	metrics   *metrics.Recorder
	renderer  func([]statusadapter.AccountRow, statusadapter.RenderOptions) (string, error)
}

func wireApp(opts wireOptions) (*app, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	dir := config.ResolveDir()
	if err := loadDotEnv(filepath.Join(dir, dotEnvFile)); err != nil {
		return nil, err
	}

	cfg, err := config.Load(viper.New(), dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
		Console:  opts.console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	repo, err := accountfile.NewRepository(cfg.AccountsFile)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	recorder := metrics.NewRecorder()
	rt := &application.Runtime{
		Logger:     logger,
		Clock:      ports.SystemClock{},
		Sleeper:    ports.SystemClock{},
		UserAgents: useragent.NewGenerator(seed),
		Proxies: application.NewProxyPool(loadProxies(cfg.ProxyFile, logger), func(n int) int {
			return faker.Number(0, n-1)
		}),
		Observer: recorder,
	}

	client := &piggycell.Client{
		CheckInURL:     cfg.APIURL,
		ProbeURL:       cfg.ProbeURL,
		CheckInTimeout: cfg.CheckInTimeout,
		ProbeTimeout:   cfg.ProbeTimeout,
		Logger:         logger,
	}
	profile := application.RequestProfile{
		BaseHeaders:       cfg.Headers,
		SessionCookieName: cfg.SessionCookieName,
	}

	validator := application.NewTokenValidator(rt, profile, client)
	executor := application.NewCheckInExecutor(rt, profile, client, application.RetryPolicy{
		Times: cfg.RetryTimes,
		Delay: cfg.RetryDelay,
	})
	jitter := opts.jitter
	if jitter == nil {
		jitter = accountJitter(faker)
	}
	runner := application.NewRunner(rt, loadAccounts(repo, repo.Path(), logger), validator, executor, application.WithJitter(jitter))

	return &app{
		cfg:       cfg,
		logger:    logger,
		closeLog:  closeLog,
		repo:      repo,
		rt:        rt,
		validator: validator,
		runner:    runner,
		scheduler: application.NewScheduler(rt, runner, cfg.SignInTime),
		metrics:   recorder,
		renderer:  statusadapter.Render,
	}, nil
}

// accountJitter draws the pause between accounts uniformly from the default range.
func accountJitter(faker *gofakeit.Faker) func() time.Duration {
	return application.UniformJitter(application.DefaultJitterMin, application.DefaultJitterMax, func() float64 {
		return faker.Float64Range(0, 1)
	})
}

func (a *app) runOnce(ctx context.Context) domain.RunResult {
	return a.runner.RunOnce(ctx)
}

func (a *app) runScheduled(ctx context.Context) error {
	if a.cfg.MetricsAddr != "" {
		go func() {
			a.logger.Info("Serving metrics", zap.String("addr", a.cfg.MetricsAddr))
			if err := a.metrics.Serve(ctx, a.cfg.MetricsAddr); err != nil {
				a.logger.Error("Metrics listener stopped", zap.Error(err))
			}
		}()
	}

	return a.scheduler.Run(ctx)
}

func (a *app) close() {
	_ = a.closeLog()
}

// loadAccounts degrades to an empty list; the runner then reports "No accounts found".
func loadAccounts(source ports.AccountSource, path string, logger *zap.Logger) []domain.Account {
	accounts, err := source.List(context.Background())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Error("Accounts file not found: " + path)
		} else {
			logger.Error("Failed to load accounts", zap.String("path", path), zap.Error(err))
		}
		return nil
	}

	logger.Info(fmt.Sprintf("Loaded %d accounts", len(accounts)))
	return accounts
}

func loadProxies(path string, logger *zap.Logger) []domain.Proxy {
	proxies, skipped, err := accountfile.LoadProxies(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Proxy file not found, will use direct connection")
		} else {
			logger.Warn("Failed to load proxies, will use direct connection", zap.Error(err))
		}
		return nil
	}

	for _, line := range skipped {
		logger.Warn("Skipping invalid proxy", zap.Int("line", line.Line), zap.String("reason", line.Reason))
	}
	logger.Info(fmt.Sprintf("Loaded %d proxies", len(proxies)))

	return proxies
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
