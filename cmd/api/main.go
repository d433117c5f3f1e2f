package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/client-intake/internal/application/address"
	"github.com/jhoicas/client-intake/internal/application/intake"
	"github.com/jhoicas/client-intake/internal/infrastructure/cache"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore/memstore"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore/mongostore"
	"github.com/jhoicas/client-intake/internal/infrastructure/docstore/pgstore"
	"github.com/jhoicas/client-intake/internal/infrastructure/tiny"
	"github.com/jhoicas/client-intake/internal/infrastructure/viacep"
	httpRouter "github.com/jhoicas/client-intake/internal/interfaces/http"
	"github.com/jhoicas/client-intake/internal/observability/metrics"
	"github.com/jhoicas/client-intake/pkg/config"
	"github.com/jhoicas/client-intake/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Almacén de documentos: pending_clients y logs
	conn, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	clientRepo := docstore.NewClientRepository(conn, log.Component("docstore"))
	logRepo := docstore.NewLogRepository(conn, log.Component("docstore"))

	// API externa de contatos. Sin token el servicio arranca igual: cada envío falla
	// antes de tocar la red y queda registrado en logs.
	tinyClient := tiny.NewClient(cfg.Tiny.BaseURL, cfg.Tiny.Token, nil)
	if !tinyClient.Configured() {
		log.Error().Msg("TINY_API_TOKEN no configurado: los envíos a la API externa fallarán")
	}
	dispatcher := tiny.NewDispatcher(tinyClient)

	reg := prometheus.NewRegistry()
	intakeMetrics := metrics.NewIntakeMetrics(reg)
	pipeline := intake.NewPipeline(clientRepo, logRepo, dispatcher, intakeMetrics, log.Component("intake"))

	// Consulta de CEP con caché opcional en Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis no disponible, consulta de CEP sin caché")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	var addrCache address.Cache
	if c := cache.NewAddressCache(redisClient, cfg.Redis.CEPCacheTTL); c != nil {
		addrCache = c
	}
	addressSvc := address.NewService(viacep.NewClient(cfg.ViaCEP.BaseURL, nil), addrCache, log.Component("address"))

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:     cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, log.Component("http"))

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "Client Intake API",
		}))
	} else {
		log.Warn().Str("path", cfg.HTTP.DocsPath).Msg("OpenAPI no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Intake:  pipeline,
		Address: addressSvc,
		Metrics: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
		Service: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore elige el almacén según STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (docstore.Connector, func()) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		if err := pgstore.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("crear tablas de documentos")
		}
		return pgstore.NewConnector(pool), pool.Close
	case config.StoreMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los cadastros no sobreviven a un reinicio")
		return memstore.New(), func() {}
	default:
		// Mongo: una conexión por operación, nada que cerrar al apagar.
		log.Info().Str("database", cfg.Mongo.Database).Msg("almacén de documentos: MongoDB")
		return mongostore.NewConnector(cfg.Mongo.URI, cfg.Mongo.Database), func() {}
	}
}
