package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	httpapi "github.com/shestoi/GoBigTech/gamestore/internal/api/http"
	"github.com/shestoi/GoBigTech/gamestore/internal/config"
	"github.com/shestoi/GoBigTech/gamestore/internal/console"
	eventkafka "github.com/shestoi/GoBigTech/gamestore/internal/event/kafka"
	"github.com/shestoi/GoBigTech/gamestore/internal/repository/memory"
	"github.com/shestoi/GoBigTech/gamestore/internal/service"
	platformlogging "github.com/shestoi/GoBigTech/gamestore/platform/logging"
	platformobservability "github.com/shestoi/GoBigTech/gamestore/platform/observability"
	platformshutdown "github.com/shestoi/GoBigTech/gamestore/platform/shutdown"
)

// Mode - способ, которым приложение общается с пользователем
type Mode string

const (
	// ModeConsole - интерактивное меню в терминале
	ModeConsole Mode = "console"
	// ModeAPI - HTTP/JSON API
	ModeAPI Mode = "api"
	// ModeEvents - чтение событий магазина из Kafka
	ModeEvents Mode = "events"
)

func (m Mode) serviceName() string {
	switch m {
	case ModeAPI:
		return "gamestore-api"
	case ModeEvents:
		return "gamestore-events"
	default:
		return "gamestore"
	}
}

// App содержит все зависимости для запуска и корректного shutdown GameStore
type App struct {
	mode        Mode
	logger      *zap.Logger
	store       *service.StoreService
	httpServer  *http.Server
	menu        *console.Menu
	consumers   []*eventkafka.Consumer
	shutdownMgr *platformshutdown.Manager
	readiness   func() bool
	wg          sync.WaitGroup
}

// Build создаёт и настраивает все зависимости GameStore
// В режиме консоли меню читает os.Stdin и пишет в os.Stdout
func Build(cfg config.Config, mode Mode) (*App, error) {
	return build(cfg, mode, os.Stdin, os.Stdout)
}

func build(cfg config.Config, mode Mode, in io.Reader, out io.Writer) (*App, error) {
	const op = "app.Build"

	if mode != ModeConsole && mode != ModeAPI && mode != ModeEvents {
		return nil, fmt.Errorf("%s: unknown mode %q", op, mode)
	}

	// Консольное меню не должно тонуть в info-логах
	level := cfg.LogLevel
	if level == "" && mode == ModeConsole {
		level = "warn"
	}

	// Создаём logger
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: mode.serviceName(),
		Env:         string(cfg.AppEnv),
		Level:       level,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return nil, err
	}
	cfg.Log(logger)

	// OpenTelemetry: traces + metrics (noop если OTEL_ENABLED=false)
	otelShutdown, err := platformobservability.Init(context.Background(), platformobservability.Config{
		Enabled:               cfg.OTelEnabled,
		OTLPEndpoint:          cfg.OTelEndpoint,
		SamplingRatio:         cfg.OTelSamplingRatio,
		ServiceName:           mode.serviceName(),
		DeploymentEnvironment: string(cfg.AppEnv),
	})
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.String("op", op))

	// Создаём shutdown manager
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)

	// Регистрируем shutdown: otel последним, чтобы успели записаться spans/metrics
	shutdownMgr.Add("otel", otelShutdown)

	if mode == ModeEvents {
		return buildEvents(cfg, logger, shutdownMgr, out)
	}

	// Начальное состояние магазина
	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		shutdownMgr.Shutdown()
		return nil, err
	}
	logger.Info("Seed loaded",
		zap.Int("inventory_items", len(seed.Inventory)),
		zap.Int("providers", len(seed.Providers)),
		zap.String("balance", seed.Balance.StringFixed(2)),
	)

	catalogRepo := memory.NewCatalogRepository(seed.CatalogProviders())
	inventoryRepo := memory.NewInventoryRepository(seed.InventoryItems())
	treasuryRepo := memory.NewTreasuryRepository(seed.Balance)

	// Kafka publisher для доменных событий; при EVENTS_ENABLED=false - noop
	var publisher service.EventPublisher = service.NoopPublisher{}
	if cfg.Kafka.Enabled {
		logger.Info("Kafka events enabled",
			zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
			zap.String("purchase_topic", cfg.PurchaseCompletedTopic),
			zap.String("day_closed_topic", cfg.DayClosedTopic),
		)
		kafkaPublisher := eventkafka.NewPublisher(logger, cfg.Kafka, cfg.PurchaseCompletedTopic, cfg.DayClosedTopic)
		shutdownMgr.Add("kafka_publisher", platformshutdown.Close(kafkaPublisher))
		publisher = kafkaPublisher
	}

	// Метрики магазина; при отключённом OTEL - nil
	var metrics service.MetricsRecorder
	if cfg.OTelEnabled {
		metrics, err = newStoreMetricsRecorder(otel.Meter(mode.serviceName()))
		if err != nil {
			shutdownMgr.Shutdown()
			return nil, err
		}
	}

	// Создаём service слой
	storeService := service.NewStoreService(logger, catalogRepo, inventoryRepo, treasuryRepo, publisher, metrics)

	a := &App{
		mode:        mode,
		logger:      logger,
		store:       storeService,
		shutdownMgr: shutdownMgr,
	}

	switch mode {
	case ModeAPI:
		// Функция readiness для health check: касса должна читаться
		a.readiness = func() bool {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_, err := storeService.GetBalance(ctx)
			return err == nil
		}

		handler := httpapi.NewHandler(storeService, logger)
		router := httpapi.NewRouter(handler, a.readiness, logger)

		a.httpServer = &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(a.httpServer))
	case ModeConsole:
		a.menu = console.NewMenu(storeService, in, out)
	}

	return a, nil
}

// Run запускает приложение и блокируется до shutdown
// Консоль завершается также выбором пункта 0 или концом ввода
func (a *App) Run() error {
	defer platformlogging.Sync(a.logger)

	switch a.mode {
	case ModeConsole:
		return a.runConsole()
	case ModeEvents:
		return a.runEvents()
	default:
		return a.runAPI()
	}
}

func (a *App) runAPI() error {
	a.logger.Info("Starting GameStore API", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait()

	a.wg.Wait()
	a.logger.Info("GameStore API stopped")
	return nil
}

func (a *App) runConsole() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.menu.Run(ctx)
		cancel()
	}()

	// Завершаемся по сигналу или когда меню закончило работу
	a.shutdownMgr.WaitContext(ctx)

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("Console menu stopped with error", zap.Error(err))
		}
		return err
	default:
		// меню всё ещё ждёт ввода, выходим по сигналу
		return nil
	}
}
