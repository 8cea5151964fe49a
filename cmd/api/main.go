package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/officehub-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/officehub-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/officehub-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/officehub-backend-go/internal/repository/postgresql"
	meetingService "github.com/cmlabs-hris/officehub-backend-go/internal/service/meeting"
	notificationService "github.com/cmlabs-hris/officehub-backend-go/internal/service/notification"
	overtimeService "github.com/cmlabs-hris/officehub-backend-go/internal/service/overtime"
	roomService "github.com/cmlabs-hris/officehub-backend-go/internal/service/room"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "officehub:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.App.LogLevel, err)
	}
	logger := appHTTP.NewLogger(os.Stdout, appHTTP.LoggerOptions{
		App:     "officehub",
		Version: cfg.App.Version,
		Env:     cfg.App.Env,
		Level:   level,
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	roomRepo := postgresql.NewRoomRepository(db)
	meetingRepo := postgresql.NewMeetingRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	transactor := postgresql.NewTransactor(db)

	hub := sse.NewHub()
	defer hub.Close()

	notifService := notificationService.NewNotificationService(notificationRepo, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.Workers,
	})
	defer notifService.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	roomSvc := roomService.NewRoomService(roomRepo)
	meetingSvc := meetingService.NewMeetingService(transactor, meetingRepo, roomRepo, notifService, meetingService.Config{
		Location:          cfg.Report.Timezone,
		OfficeHoursPerDay: cfg.Report.OfficeHoursPerDay,
		ReminderLead:      cfg.Meeting.ReminderLead,
	})
	overtimeSvc := overtimeService.NewOvertimeService(transactor, overtimeRepo, notifService, cfg.Report.Timezone)

	router := appHTTP.NewRouter(logger, cfg.AllowedOrigins(), JWTService, appHTTP.Handlers{
		Room:         appHTTP.NewRoomHandler(roomSvc, meetingSvc),
		Meeting:      appHTTP.NewMeetingHandler(meetingSvc),
		Overtime:     appHTTP.NewOvertimeHandler(overtimeSvc),
		Notification: appHTTP.NewNotificationHandler(notifService, JWTService),
	})

	scheduler := cron.NewScheduler(logger)
	cron.NewMeetingJobs(meetingSvc, logger).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "timezone", cfg.Report.Timezone.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// The hub is closed before Shutdown so open SSE streams return
	hub.Close()
	return server.Shutdown(shutdownCtx)
}
