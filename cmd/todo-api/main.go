package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"todo-api/configs"
	"todo-api/docs"
	"todo-api/internal/application/controller"
	"todo-api/internal/application/middleware"
	"todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/gateway/queue"
	"todo-api/internal/domain/gateway/session"
	"todo-api/internal/domain/usecase/health"
	"todo-api/internal/domain/usecase/todo"
	"todo-api/internal/infra/aws"
	"todo-api/internal/infra/database/gorm"
	"todo-api/internal/infra/database/migrations"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"
	"todo-api/pkg/redis"
	"todo-api/pkg/resource"
	"todo-api/pkg/sqs"
)

// @title Todo API
// @version 1.0
// @description Owner-scoped todo service with priorities, due dates, tags and live statistics.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := resource.Init(configs.Env.PropertiesPath); err != nil {
		log.Fatal(msg.GetMessage("app.config-fail", err), zap.Error(err))
	}
	if err := msg.Init(configs.Env.MessagesPath); err != nil {
		log.Fatal("Failed to load messages", zap.Error(err))
	}
	defer log.Sync()

	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init infra
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	middleware.SetupRequestLogger(e)

	contextPath := resource.GetString("app.server.context-path")
	docs.SwaggerInfo.BasePath = contextPath
	api := e.Group(contextPath)

	redisClient, err := redis.NewClient(redis.NewRedisConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database")))
	if err != nil {
		log.Fatal(msg.GetMessage("redis.connect-fail", err), zap.Error(err))
	}
	defer redisClient.Close()

	// Init Gateways
	todoGateway, dbHealthGateway := newTodoGateways()
	sessionGateway := session.NewRedisSessionGateway(redisClient, resource.GetString("app.session.prefix"))
	cacheHealthGateway := cache.NewRedisHealthGateway(redis.NewHealthChecker(redisClient))
	eventSender, queueHealthGateway := newEventGateways(ctx)

	// Init UseCase
	healthUseCase := health.NewHealthUseCase(dbHealthGateway, cacheHealthGateway, queueHealthGateway)
	todoUseCase := todo.NewTodoUseCase(todoGateway, eventSender)

	// Init Controller
	healthController := controller.NewHealthController(api, healthUseCase)
	todoController := controller.NewTodoController(api, todoUseCase)

	// Init Routes
	todoMiddlewares := []echo.MiddlewareFunc{middleware.RequireOwner(sessionGateway)}
	if resource.GetBool("app.rate-limit.enabled") {
		todoMiddlewares = append(todoMiddlewares, middleware.RateLimit(newRateLimiter(redisClient)))
	}
	healthController.InitHealthRoutes()
	todoController.InitTodoRoutes(todoMiddlewares...)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	log.Infow(msg.GetMessage("app.wiring"),
		"db_driver", resource.GetStringOrDefault("app.db.driver", "postgres"),
		"events_enabled", resource.GetBool("app.events.enabled"),
		"rate_limit_enabled", resource.GetBool("app.rate-limit.enabled"),
		"context_path", contextPath,
	)

	// Start Routes
	port := resource.GetString("app.server.port")
	go func() {
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err.Error(), zap.Error(err))
		}
	}()
	log.Info(msg.GetMessage("app.started", port))

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stop"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout())
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(err.Error(), zap.Error(err))
	}
}

// newTodoGateways selects the storage backend from app.db.driver.
func newTodoGateways() (db.TodoGateway, db.HealthDBGateway) {
	if resource.GetStringOrDefault("app.db.driver", "postgres") == "memory" {
		log.Warn(msg.GetMessage("db.memory"))
		return db.NewMemoryTodoGateway(), db.MemoryHealthDBGateway{}
	}

	if resource.GetBool("app.db.migrate") {
		log.Info(msg.GetMessage("db.migrate-start"))
		if err := migrations.Up(gorm.DSN()); err != nil {
			log.Fatal(msg.GetMessage("db.migrate-fail", err), zap.Error(err))
		}
	}

	database, err := gorm.Open()
	if err != nil {
		log.Fatal(msg.GetMessage("db.connect-fail", err), zap.Error(err))
	}
	return db.NewGormTodoGateway(database), db.NewGormHealthDBGateway(database)
}

// newEventGateways wires SQS publishing when app.events.enabled is set.
func newEventGateways(ctx context.Context) (queue.TodoEventSender, queue.HealthGateway) {
	queueName := resource.GetString("app.events.queue-name")
	if !resource.GetBool("app.events.enabled") {
		return queue.NoopTodoEventSender{}, queue.NewQueueHealthGateway(nil, queueName)
	}

	awsConfig, err := aws.LoadConfig(ctx)
	if err != nil {
		log.Fatal(err.Error(), zap.Error(err))
	}
	sender := sqs.NewSender(aws.NewSqsClient(awsConfig))
	return aws.NewSQSEventAdapter(sender, queueName), queue.NewQueueHealthGateway(sender, queueName)
}

func newRateLimiter(client *redis.Client) *redis.RateLimiter {
	limiter, err := redis.NewRateLimiter(client, "todos", redis.NewRateLimiterOptions().
		WithNamespace(resource.GetString("app.name")).
		WithCacheName("http").
		WithMaxTransactionsPerSecond(resource.GetInt("app.rate-limit.max-tps")).
		WithMaxActiveTransactions(resource.GetInt("app.rate-limit.max-active")))
	if err != nil {
		log.Fatal(err.Error(), zap.Error(err))
	}
	return limiter
}

func shutdownTimeout() time.Duration {
	if timeout := resource.GetDuration("app.server.shutdown-timeout"); timeout > 0 {
		return timeout
	}
	return 10 * time.Second
}
