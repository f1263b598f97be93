package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/participa-df/ouvidoria/internal/config"
	"github.com/participa-df/ouvidoria/internal/infra/database"
	"github.com/participa-df/ouvidoria/internal/infra/gateway"
	"github.com/participa-df/ouvidoria/internal/infra/repository"
	"github.com/participa-df/ouvidoria/internal/infra/storage"
	"github.com/participa-df/ouvidoria/internal/present/rest"
	restmw "github.com/participa-df/ouvidoria/internal/present/rest/middleware"
	"github.com/participa-df/ouvidoria/internal/service"
	"github.com/participa-df/ouvidoria/internal/usecase"
)

func main() {
	godotenv.Load()

	configPath := os.Getenv("OUVIDORIA_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	conf, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("Failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigratePostgres(db)
	if err != nil {
		slog.Error("Failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	mc := database.NewMemcached(conf.Server.MemcachedAddr)

	if conf.Server.EnableTrace {
		shutdown, err := service.SetupTracing(context.Background(), conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("Failed to setup tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	store := storage.NewFilesystemStore(conf.Server.UploadDir)

	var dispatcher usecase.Dispatcher
	if len(conf.Server.KafkaBrokers) > 0 {
		kafkaDispatcher := gateway.NewKafkaDispatcher(conf.Server.KafkaBrokers, conf.Server.KafkaTopic)
		defer kafkaDispatcher.Close()
		dispatcher = kafkaDispatcher
	}

	signal := service.NewSignalService(rdb)

	manifestationRepo := repository.NewCachedManifestationRepository(
		repository.NewManifestationRepository(db),
		rdb,
	)
	anexoRepo := repository.NewAnexoRepository(db, mc)

	manifestationUsecase := usecase.NewManifestationUsecase(manifestationRepo, store, dispatcher, signal)
	anexoUsecase := usecase.NewAnexoUsecase(anexoRepo, store)

	handler := rest.NewHandler(manifestationUsecase, anexoUsecase, signal)
	identity := restmw.NewIdentityMiddleware()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("64M"))
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(conf.Portal.Name))
	}
	e.Use(identity.IdentifyCidadao)

	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}
