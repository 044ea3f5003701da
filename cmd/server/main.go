package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/riztech/portfolio-api/internal/audit"
	"github.com/riztech/portfolio-api/internal/config"
	"github.com/riztech/portfolio-api/internal/handlers"
	"github.com/riztech/portfolio-api/internal/logger"
	"github.com/riztech/portfolio-api/internal/mail"
	"github.com/riztech/portfolio-api/internal/middleware"
	"github.com/riztech/portfolio-api/internal/ratelimit"
	"github.com/riztech/portfolio-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("recipient", cfg.Policy.RecipientEmail),
		zap.Bool("rate_limit_enabled", cfg.Policy.RateLimit.Enabled),
		zap.Bool("smtp_configured", cfg.SMTPHost != ""),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Tracing is optional; the relay runs fine without a collector.
	var otelShutdown func(context.Context) error
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			shutdown, err := telemetry.Setup(context.Background(), cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				otelShutdown = shutdown
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := otelShutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Rate-limit window store: Redis when configured, in-process otherwise.
	// The in-process store loses its windows on restart, which is acceptable
	// for a single-instance deployment.
	var (
		windowStore ratelimit.Store
		redisClient *redis.Client
		storePinger handlers.Pinger
	)
	if cfg.RedisURL != "" {
		redisStore, err := ratelimit.NewRedisStore(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		windowStore = redisStore
		redisClient = redisStore.Client()
		storePinger = redisStore
		zapLogger.Info("connected_to_redis")
	} else {
		windowStore = ratelimit.NewMemoryStore()
		zapLogger.Info("using_in_memory_rate_limit_store")
	}

	limiter := ratelimit.NewLimiter(
		windowStore,
		cfg.Policy.RateLimit.MaxRequests,
		cfg.Policy.RateLimit.Window(),
		cfg.Policy.RateLimit.Enabled,
		zapLogger,
	)

	// Audit trail: a rotated file when a path is configured, stdout otherwise.
	var auditLog *audit.Log
	if cfg.AuditLogPath != "" {
		auditLog, err = audit.New(cfg.AuditLogPath)
		if err != nil {
			zapLogger.Fatal("failed_to_open_audit_log", zap.Error(err))
		}
	} else {
		auditLog = audit.NewWithWriter(os.Stdout)
		zapLogger.Info("audit_log_writing_to_stdout")
	}
	defer func() {
		if err := auditLog.Close(); err != nil {
			zapLogger.Warn("failed_to_close_audit_log", zap.Error(err))
		}
	}()

	// Mail delivery: real SMTP when configured, log-only in development.
	var sender mail.Sender
	if cfg.SMTPHost != "" {
		sender, err = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			zapLogger.Fatal("failed_to_configure_smtp_sender", zap.Error(err))
		}
		zapLogger.Info("smtp_sender_configured",
			zap.String("host", cfg.SMTPHost),
			zap.Int("port", cfg.SMTPPort),
		)
	} else {
		sender = mail.NewLogSender(zapLogger)
		zapLogger.Warn("smtp_not_configured_messages_will_only_be_logged")
	}

	sendTimeout := time.Duration(cfg.MailTimeoutSecs) * time.Second
	contactHandler, err := handlers.NewContactHandler(cfg.Policy, limiter, sender, auditLog, zapLogger, sendTimeout)
	if err != nil {
		zapLogger.Fatal("failed_to_build_contact_handler", zap.Error(err))
	}
	healthChecker := handlers.NewHealthChecker(storePinger)

	r := mux.NewRouter()

	// Middleware registered first wraps outermost.
	if cfg.OTELEnabled && otelShutdown != nil {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.FrontendURL))
	burstMW, err := middleware.BurstLimit(redisClient, cfg.BurstRate)
	if err != nil {
		zapLogger.Fatal("failed_to_create_burst_limiter", zap.Error(err))
	}
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Audit(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods(http.MethodGet)

	// The burst limiter guards the contact endpoint only; health checks and
	// static assets stay cheap and unthrottled.
	r.Handle("/contact.php", burstMW(http.HandlerFunc(contactHandler.Submit)))

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(handlers.NewStaticHandler(cfg.StaticDir))
		zapLogger.Info("serving_static_site", zap.String("dir", cfg.StaticDir))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
