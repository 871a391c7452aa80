package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/Ramsey-B/reed/config"
	"github.com/Ramsey-B/reed/internal/repositories/referencecase"
	"github.com/Ramsey-B/reed/pkg/database"
	"github.com/Ramsey-B/reed/pkg/events"
	"github.com/Ramsey-B/reed/pkg/extractor"
	"github.com/Ramsey-B/reed/pkg/kafka"
	"github.com/Ramsey-B/reed/pkg/knowledge"
	"github.com/Ramsey-B/reed/pkg/matchcontext"
	"github.com/Ramsey-B/reed/pkg/matching"
	"github.com/Ramsey-B/reed/pkg/metrics"
	"github.com/Ramsey-B/reed/pkg/middleware"
	"github.com/Ramsey-B/reed/pkg/redis"
	"github.com/Ramsey-B/reed/pkg/routes/health"
	"github.com/Ramsey-B/reed/pkg/routes/references"
	"github.com/Ramsey-B/reed/pkg/tracing"
	"github.com/Ramsey-B/reed/pkg/tracing/exporters"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: cfg.TracingEndpoint,
			Protocol: cfg.TracingProtocol,
			Insecure: true,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			logger.WithError(err).Error("Failed to create trace exporter")
			os.Exit(1)
		}

		tp := tracing.Init(cfg.AppName, exporter)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("Failed to shut down tracer provider")
			}
		}()
	}

	var db *sqlx.DB
	var source knowledge.Source
	var caseRepo *referencecase.Repository
	switch cfg.KnowledgeSource {
	case "postgres":
		var err error
		db, err = database.Connect(database.Config{
			Host:            cfg.DatabaseHost,
			Port:            cfg.DatabasePort,
			Name:            cfg.DatabaseName,
			Username:        cfg.DatabaseUserName,
			Password:        cfg.DatabasePassword,
			SSLMode:         cfg.DatabaseSSLMode,
			MaxOpenConns:    cfg.DatabaseMaxOpenConns,
			MaxIdleConns:    cfg.DatabaseMaxIdleConns,
			ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
		}, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to database")
			os.Exit(1)
		}
		defer db.Close()

		driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
		if err != nil {
			logger.WithError(err).Error("Failed to create migration driver")
			os.Exit(1)
		}

		migrations := database.NewMigrationService(logger, cfg.DatabaseMigrationFolderPath)
		if err := migrations.Migrate(cfg.DatabaseName, driver); err != nil {
			logger.WithError(err).Error("Failed to run migrations")
			os.Exit(1)
		}

		caseRepo = referencecase.NewRepository(db, logger)
		source = caseRepo
	default:
		source = knowledge.NewFileSource(cfg.KnowledgeFilePath)
	}

	loader := knowledge.NewLoader(source, logger)
	if err := loader.Reload(ctx); err != nil {
		// the service degrades to fallback responses until a reload succeeds
		logger.WithError(err).Warn("Knowledge base unavailable at startup")
	} else if cases, err := loader.Corpus(ctx); err == nil {
		metrics.CorpusSize.Set(float64(len(cases)))
	}

	var store matchcontext.Store = matchcontext.NewMemoryStore(cfg.MatchContextTTL)
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		var err error
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
		defer redisClient.Close()

		store = matchcontext.NewRedisStore(redisClient, cfg.MatchContextTTL)
	}

	var publisher events.Publisher
	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()
		publisher = producer
	}
	emitter := events.NewEmitter(publisher, logger)

	scorer := matching.NewScorer(matching.Weights{
		Semantic:    cfg.SemanticScoreWeight,
		Contaminant: cfg.ContaminantScoreWeight,
		Flow:        cfg.FlowScoreWeight,
	})
	engine := matching.NewEngine(loader, scorer, matching.CacheConfig{
		MaxSize: cfg.MatchCacheSize,
		TTL:     5 * time.Minute,
	}, logger)
	service := matching.NewService(logger, extractor.New(logger), engine, emitter, store, matching.ServiceConfig{
		TopN: cfg.MatchTopN,
	})

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		logger.WithError(err).Error("Failed to create DI container")
		os.Exit(1)
	}
	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		logger.WithError(err).Error("Failed to register logger")
		os.Exit(1)
	}
	if err := ectoinject.RegisterInstance[*matching.Service](container, service); err != nil {
		logger.WithError(err).Error("Failed to register matching service")
		os.Exit(1)
	}
	if err := ectoinject.RegisterInstance[*knowledge.Loader](container, loader); err != nil {
		logger.WithError(err).Error("Failed to register knowledge loader")
		os.Exit(1)
	}
	if err := ectoinject.RegisterInstance[*matching.Engine](container, engine); err != nil {
		logger.WithError(err).Error("Failed to register matching engine")
		os.Exit(1)
	}
	if caseRepo != nil {
		if err := ectoinject.RegisterInstance[*referencecase.Repository](container, caseRepo); err != nil {
			logger.WithError(err).Error("Failed to register case repository")
			os.Exit(1)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	api := e.Group("/api/v1")
	refs := api.Group("/references")
	references.Register(refs)
	if caseRepo != nil {
		references.RegisterAdmin(refs)
	}

	var redisPing interface{ Ping(ctx context.Context) error }
	if redisClient != nil {
		redisPing = redisClient
	}
	checker := health.NewChecker(db, redisPing, loader, version)
	checker.RegisterRoutes(e)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	go func() {
		logger.Infof("Starting %s on port %d", cfg.AppName, cfg.Port)
		checker.SetReady(true)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down server gracefully")
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	zapCfg := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}

	zapLogger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}
