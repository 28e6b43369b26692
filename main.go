package main

import (
	"log"
	"os"
	"time"

	"Cywala/config"
	"Cywala/migrations"
	"Cywala/routes"

	db "github.com/KanapuramVaishnavi/Core/config/db"
	coreredis "github.com/KanapuramVaishnavi/Core/config/redis"
	server "github.com/KanapuramVaishnavi/Core/server"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	startServer = server.Start
	isTest      = false
)

func main() {
	run()
}

func run() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error in loading the ENV")
	}

	cfg := config.Load()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: os.Getenv("APP_ENV"),
		}); err != nil {
			log.Println("Sentry init failed:", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := &application{
		cfg:        cfg,
		database:   func() *mongo.Database { return db.DB },
		redis:      func() *redis.Client { return coreredis.Rdb },
		migrations: migrations.Run,
	}

	defaultopts := server.GetDefaultOptions()

	options := server.Options{
		CacheEnabled:     defaultopts.CacheEnabled,
		MongoEnabled:     defaultopts.MongoEnabled,
		WebServerEnabled: defaultopts.WebServerEnabled,
		WebServerPort:    defaultopts.WebServerPort,

		JobsEnabled: !isTest,
		JobsHandler: func() {
			if isTest {
				return
			}
			app.startJobs()
		},

		WebServerPreHandler: func(r *gin.Engine) {
			if isTest {
				return
			}
			r.Use(cors.New(cors.Config{
				AllowOrigins:     cfg.CorsOrigins,
				AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
				AllowCredentials: true,
			}))
			if cfg.SentryDSN != "" {
				r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
			}
			_, handler, err := app.get()
			if err != nil {
				return
			}
			routes.Routes(r, handler)
		},

		MigrationEnabled: !isTest,
		MigrationHandler: func() {
			if isTest {
				return
			}
			app.migrate()
		},
	}
	startServer(options)
}
