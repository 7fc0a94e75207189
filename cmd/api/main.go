// @title Users API
// @version 1.0
// @description API сервиса пользователей
// @BasePath /

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"usersapi/config"
	"usersapi/internal/db"
	"usersapi/internal/handlers"
	"usersapi/internal/services"
	"usersapi/internal/telemetry"

	docs "usersapi/docs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Загружаем конфиг из .env / окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	// 1.1 Определяем режим запуска (dev/prod)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	shutdownTracing, err := telemetry.Init(ctx, cfg)
	if err != nil {
		log.Fatalf("telemetry init failed: %v", err)
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	// 2. Открываем GORM-подключение и создаём схему
	if cfg.Ephemeral() {
		log.Println("using ephemeral in-memory SQLite database")
	}
	gormDB, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	users := services.NewUserService(gormDB)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := handlers.NewMetrics(reg)

	docs.SwaggerInfo.BasePath = "/"

	// 3. Создаём Gin-роутер и регистрируем маршруты
	r := gin.Default()
	r.Use(handlers.RequestID(), metrics.Middleware(), handlers.CORS(cfg.CORSOrigins))
	r.GET("/healthz", handlers.Healthz())
	r.GET("/readyz", handlers.Ready(gormDB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/users", handlers.CreateUser(users))
	api.GET("/users", handlers.ListUsers(users))
	api.GET("/users/:id", handlers.GetUser(users))
	api.PUT("/users/:id", handlers.UpdateUser(users))
	api.DELETE("/users/:id", handlers.DeleteUser(users))

	// 4. Запускаем сервер
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("listening on %s …", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(c); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
}
