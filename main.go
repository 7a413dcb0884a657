package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/taskDigest/internal/api"
	"github.com/pathakanu/taskDigest/internal/config"
	"github.com/pathakanu/taskDigest/internal/database"
	"github.com/pathakanu/taskDigest/internal/digest"
	"github.com/pathakanu/taskDigest/internal/lease"
	"github.com/pathakanu/taskDigest/internal/logging"
	"github.com/pathakanu/taskDigest/internal/mail"
	"github.com/pathakanu/taskDigest/internal/reminder"
	"github.com/pathakanu/taskDigest/internal/store"
	"github.com/pathakanu/taskDigest/internal/twilio"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.New(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalw("database init failed", "error", err)
	}

	repo := reminder.NewRepository(store.New(db, logger), logger)

	sender, err := newMailSender(cfg, logger)
	if err != nil {
		logger.Fatalw("mail init failed", "error", err)
	}

	locker, err := newLocker(cfg, db)
	if err != nil {
		logger.Fatalw("lease init failed", "error", err)
	}

	opts := []digest.Option{digest.WithLocker(locker, cfg.LeaseTTL)}
	if cfg.AlertsEnabled() {
		opts = append(opts, digest.WithAlerter(twilio.New(
			cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, cfg.AlertWhatsAppNumber, logger,
		)))
	}
	dispatcher := digest.NewDispatcher(repo, sender, logger, opts...)

	scheduler := digest.NewScheduler(cfg.DigestSchedule, dispatcher, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatalw("scheduler start failed", "error", err)
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.New(repo, dispatcher, logger).Router(),
	}

	go func() {
		logger.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server error", "error", err)
		}
	}()

	waitForShutdown(server, scheduler, locker, logger)
}

func newMailSender(cfg *config.Config, logger *zap.SugaredLogger) (mail.Sender, error) {
	switch cfg.MailProvider {
	case config.MailProviderSMTP:
		if cfg.EmailPassword == "" {
			return nil, fmt.Errorf("EMAIL_PASSWORD is required for the smtp provider")
		}
		return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.EmailPassword), nil
	case config.MailProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.SenderEmail, cfg.SenderName), nil
	case config.MailProviderLog:
		logger.Warn("mail: using log sender, digests will not be delivered")
		return mail.NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
}

func newLocker(cfg *config.Config, db *gorm.DB) (lease.Locker, error) {
	if cfg.RedisURL != "" {
		return lease.NewRedisLocker(cfg.RedisURL)
	}
	return lease.NewDBLocker(db), nil
}

// closeLocker releases any connection the locker holds.
func closeLocker(l lease.Locker) error {
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func waitForShutdown(server *http.Server, scheduler *digest.Scheduler, locker lease.Locker, logger *zap.SugaredLogger) {
	stopCtx := make(chan os.Signal, 1)
	signal.Notify(stopCtx, syscall.SIGINT, syscall.SIGTERM)
	<-stopCtx
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("server shutdown error", "error", err)
	}
	scheduler.Stop()
	if err := closeLocker(locker); err != nil {
		logger.Errorw("lease close error", "error", err)
	}
}
