package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"logintel-backend/config"
	"logintel-backend/database"
	_ "logintel-backend/docs" // swagger docs generated by swag
	"logintel-backend/internal/controller"
	"logintel-backend/internal/dsl"
	"logintel-backend/internal/elasticsearch"
	"logintel-backend/internal/kafka"
	"logintel-backend/internal/kibana"
	"logintel-backend/internal/mysql"
	"logintel-backend/internal/nlu"
	"logintel-backend/internal/scheduler"
	"logintel-backend/internal/schema"
	"logintel-backend/internal/service"
	"logintel-backend/internal/store"
	"logintel-backend/internal/timerange"
	"logintel-backend/internal/timescaledb"
)

// @title           LogIntel API
// @version         1.0
// @description     Natural-language querying for banking activity logs. Ask a counting question in plain English and get back the count with channel/outcome breakdowns, the generated Elasticsearch query, and Kibana deep links for drill-down.

// @contact.name   LogIntel Team

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         translate
// @tag.description  Natural language to query translation

// @tag.name         schema
// @tag.description  Log schema and synonym dictionary

// @tag.name         stats
// @tag.description  Usage statistics over translate calls

// @tag.name         health
// @tag.description  API health check operations

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			database.NewDB,
			NewGinEngine,
			NewRedisClient,
			NewTimeRangeResolver,
			NewInterpreter,
			dsl.NewBuilder,
			kibana.NewBuilder,
			elasticsearch.NewEventStore,
			elasticsearch.NewSchemaLoader,
			elasticsearch.NewQueryExecutor,
			schema.NewProvider,
			mysql.NewTranslationRepository,
			timescaledb.ProvideTimescaleDBPool,
			timescaledb.NewUsageRepository,
			store.NewInMemoryConversationStore,
			kafka.NewKafkaEventConsumer,
			service.NewAnswerFormatter,
			service.NewTranslationService,
			service.NewUsageQueryService,
			service.NewIngestService,
			controller.NewTranslateController,
			controller.NewSchemaController,
			controller.NewStatsController,
			controller.NewHealthController,
		),
		fx.Invoke(RegisterAPIRoutes,
			RegisterScheduler,
			func(lc fx.Lifecycle, ingestService service.IngestService) { // Invoker to start consumer
				startIngestConsumer(lc, &wg, ingestService)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second) // Timeout for startup
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	// Initiate shutdown
	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second) // Timeout for graceful shutdown
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	// Wait for background goroutines (like the consumer) to finish
	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait() // Wait for consumer goroutine to complete
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Add your frontend URLs
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	translateController *controller.TranslateController,
	schemaController *controller.SchemaController,
	statsController *controller.StatsController,
	healthController *controller.HealthController,
) {
	controller.RegisterTranslateRoutes(router, translateController)
	controller.RegisterSchemaRoutes(router, schemaController)
	controller.RegisterStatsRoutes(router, statsController)
	controller.RegisterHealthRoutes(router, healthController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Factory Functions ---

func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("Redis not configured, interpretation cache disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
}

func NewTimeRangeResolver(cfg *config.Config) (*timerange.Resolver, error) {
	return timerange.NewResolver(cfg.Query.Timezone, timerange.ParseFallbackPolicy(cfg.Query.TimeFallback), nil)
}

func NewInterpreter(cfg *config.Config, schemas schema.Provider, rdb *redis.Client) nlu.Interpreter {
	return nlu.NewCachedInterpreter(nlu.NewGeminiInterpreter(cfg, schemas), rdb, cfg.Redis.CacheTTL)
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, schemas schema.Provider) {
	scheduler.NewScheduler(lc, cfg, schemas)
}

// startIngestConsumer starts the IngestService in a goroutine managed by fx lifecycle
func startIngestConsumer(lc fx.Lifecycle, wg *sync.WaitGroup, ingestService service.IngestService) {
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background()) // Create cancellable context

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting Event Ingest goroutine")
			go ingestService.Run(ctx, wg) // Run in goroutine with cancellable context
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling Event Ingest goroutine to stop...")
			cancel()   // Cancel the context to signal the consumer loop to exit
			return nil // Return immediately, main WaitGroup handles the actual wait
		},
	})
}
