package main // Entry point package

import (
	"log"      // startup logging
	"log/slog" // structured logging for request-time components
	"os"

	"github.com/joho/godotenv"    // loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/kashmirakothariai/Foundee/internal/authn"
	"github.com/kashmirakothariai/Foundee/internal/config"
	"github.com/kashmirakothariai/Foundee/internal/database"
	"github.com/kashmirakothariai/Foundee/internal/handler"
	"github.com/kashmirakothariai/Foundee/internal/mailer"
	"github.com/kashmirakothariai/Foundee/internal/middleware"
	"github.com/kashmirakothariai/Foundee/internal/queue"
	"github.com/kashmirakothariai/Foundee/internal/repository"
	"github.com/kashmirakothariai/Foundee/internal/router"
	queue_publisher "github.com/kashmirakothariai/Foundee/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	profiles := repository.NewProfileRepo(db)
	qrs := repository.NewQRRepo(db)
	scans := repository.NewScanRepo(db)

	verifier := authn.NewGoogleVerifier(cfg.GoogleClientID)

	authH := handler.NewAuthHandler(cfg, users, verifier, logger)
	userH := handler.NewUserHandler(users, profiles, logger)
	qrH := handler.NewQRHandler(users, profiles, qrs, scans, queue_publisher.PublishQRScanned, logger)

	// Alert consumer: drains qr.scanned and emails owners.  It runs its
	// own reconnect loop for the life of the process.
	smtp := mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, logger)
	go func() {
		if err := queue.StartScanAlertConsumer(queue_publisher.BrokerURL(), smtp, logger); err != nil {
			logger.Error("scan alert consumer stopped", "err", err)
		}
	}()

	// Rate limiting on the public scan endpoint; nil Redis disables it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, scan rate limiting disabled")
	}
	scanLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterUser(e, userH, cfg.JWTSecret)
	router.RegisterQR(e, qrH, cfg.JWTSecret, scanLimiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
