package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/dkoroteev/auth-service/internal/audit"
	"github.com/dkoroteev/auth-service/internal/auth"
	"github.com/dkoroteev/auth-service/internal/config"
	"github.com/dkoroteev/auth-service/internal/database"
	"github.com/dkoroteev/auth-service/internal/handler"
	"github.com/dkoroteev/auth-service/internal/queue"
	"github.com/dkoroteev/auth-service/internal/repository"
	"github.com/dkoroteev/auth-service/internal/router"
	"github.com/dkoroteev/auth-service/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis and Mongo are optional collaborators: a nil client disables the
	// session cache / audit trail without affecting the auth flows.
	redisClient := config.NewRedisClient()
	if redisClient == nil {
		log.Println("redis unavailable; session cache disabled")
	}
	mongoClient := config.NewMongoClient()
	if mongoClient == nil {
		log.Println("mongodb unavailable; audit trail disabled")
	}

	users := repository.NewUserRepo(db)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	sessions := service.NewSessionStore(redisClient, time.Duration(cfg.RefreshTTLSec)*time.Second)
	recorder := audit.NewRecorder(mongoClient)
	identity := service.NewIdentity(cfg.JWTSecret, cfg.AccessTTLSec, cfg.RefreshTTLSec, hasher, users, sessions, recorder)

	// Drain user.registered events in the background; the consumer keeps
	// reconnecting on broker outages.
	go func() {
		if err := queue.StartRegistrationConsumer(); err != nil {
			log.Printf("registration consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e, handler.NewAuthHandler(identity), handler.NewUserHandler(users, identity), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
