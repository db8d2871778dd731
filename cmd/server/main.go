package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/media-review-api/internal/auth"
	"github.com/iliyamo/media-review-api/internal/config"
	"github.com/iliyamo/media-review-api/internal/database"
	"github.com/iliyamo/media-review-api/internal/handler"
	"github.com/iliyamo/media-review-api/internal/mailer"
	"github.com/iliyamo/media-review-api/internal/queue"
	"github.com/iliyamo/media-review-api/internal/repository"
	"github.com/iliyamo/media-review-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// Redis backs the response cache and the auth rate limiter; both
	// degrade to pass-through when it is unreachable.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	commentRepo := repository.NewCommentRepo(db)

	codes := auth.NewCodeService([]byte(cfg.CodeSecret),
		time.Duration(cfg.CodeWindowMin)*time.Minute, cfg.CodeSkew)

	var mail mailer.Dispatcher = mailer.LogDispatcher{}
	if os.Getenv("RABBITMQ_URL") != "" || os.Getenv("AMQP_URL") != "" {
		mail = mailer.NewAMQPDispatcher()
		go func() {
			if err := queue.StartEmailConsumer(); err != nil {
				log.Printf("email consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("no broker configured, confirmation codes go to the process log")
	}

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, codes, mail), rdb)
	router.RegisterUsers(e, handler.NewUserHandler(userRepo), cfg.JWTSecret)
	router.RegisterCatalog(e,
		handler.NewCategoryHandler(categoryRepo),
		handler.NewGenreHandler(genreRepo),
		handler.NewTitleHandler(titleRepo, categoryRepo, genreRepo),
		cfg.JWTSecret, rdb)
	router.RegisterContent(e,
		handler.NewReviewHandler(titleRepo, reviewRepo),
		handler.NewCommentHandler(reviewRepo, commentRepo),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
