package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"github.com/staffhub-id/hr-backend-go/internal/config"
	appHTTP "github.com/staffhub-id/hr-backend-go/internal/handler/http"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/database"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/jwt"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/sse"
	"github.com/staffhub-id/hr-backend-go/internal/repository/postgresql"
	leaveService "github.com/staffhub-id/hr-backend-go/internal/service/leave"
	notificationService "github.com/staffhub-id/hr-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-backend"),
		slog.String("env", cfg.App.Env),
	)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.NewPostgreSQLDB(connectCtx, cfg.Database)
	connectCancel()
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	hub := sse.NewHub()
	notifService := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{}, logger)
	leaveSvc := leaveService.NewService(leaveRequestRepo, leaveBalanceRepo, employeeRepo, notifService, cfg.Leave, logger)

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	notifHandler := appHTTP.NewNotificationHandler(notifService, jwtService)

	router := appHTTP.NewRouter(logger, jwtService, leaveHandler, notifHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server started", slog.Int("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down server", slog.Any("error", err))
	}

	// Flush queued notifications before exit.
	notifService.Stop()
}
