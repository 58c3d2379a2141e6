package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workforce-analytics-go/internal/config"
	appHTTP "github.com/cmlabs-hris/workforce-analytics-go/internal/handler/http"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/pubsub"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/pkg/sse"
	"github.com/cmlabs-hris/workforce-analytics-go/internal/repository/postgresql"
	analyticsService "github.com/cmlabs-hris/workforce-analytics-go/internal/service/analytics"
	attendanceService "github.com/cmlabs-hris/workforce-analytics-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/workforce-analytics-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/workforce-analytics-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/workforce-analytics-go/internal/service/leave"
	taskService "github.com/cmlabs-hris/workforce-analytics-go/internal/service/task"
	"github.com/go-chi/httplog/v3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	txManager := postgresql.NewTxManager(db)

	appMetrics := metrics.New()
	hub := sse.NewHub(sse.WithSubscriberObserver(appMetrics.SetSSESubscribers))

	var publisher pubsub.Publisher = pubsub.NewHubPublisher(hub)
	if cfg.Redis.Enabled() {
		redisClient, err := pubsub.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("Error connecting to redis", "addr", cfg.Redis.Addr(), "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		publisher = pubsub.NewRedisPublisher(redisClient, cfg.Redis.Channel)
		go func() {
			if err := pubsub.Relay(ctx, redisClient, cfg.Redis.Channel, hub); err != nil {
				slog.Error("Change relay stopped", "error", err)
			}
		}()
	}

	loc := cfg.Analytics.Location
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authSvc := serviceAuth.NewAuthService(employeeRepo, taskRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(txManager, employeeRepo, taskRepo, publisher)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, publisher, loc)
	leaveSvc := leaveService.NewLeaveRequestService(leaveRequestRepo, publisher, loc)
	taskSvc := taskService.NewTaskService(taskRepo, employeeRepo, publisher, loc)
	analyticsSvc := analyticsService.NewAnalyticsService(
		analyticsService.NewRepositorySnapshotLoader(employeeRepo, attendanceRepo, leaveRequestRepo, taskRepo),
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		taskRepo,
		loc,
		analyticsService.WithMetrics(appMetrics),
	)

	scheduler := cron.NewScheduler(ctx)
	cron.NewAnalyticsJobs(analyticsSvc, cfg.Analytics.DigestInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Task:       appHTTP.NewTaskHandler(taskSvc),
		Analytics:  appHTTP.NewAnalyticsHandler(analyticsSvc),
		Events:     appHTTP.NewEventsHandler(hub, JWTService),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        appMetrics,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String(), "redis", cfg.Redis.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.App.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-analytics"),
		slog.String("env", cfg.App.Env),
	)
}
