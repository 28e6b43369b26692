package main

import (
	"context"
	"log"
	"sync"
	"time"

	"Cywala/assistant"
	"Cywala/auth"
	"Cywala/cache"
	"Cywala/config"
	"Cywala/controllers"
	"Cywala/jobs"
	"Cywala/notify"
	"Cywala/payments"
	"Cywala/role"
	"Cywala/services"
	"Cywala/storage"
	"Cywala/store"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
)

// application is built once, on the first Core hook that needs it, because
// the Mongo and Redis handles only exist after Core has connected.
type application struct {
	cfg        *config.Config
	database   func() *mongo.Database
	redis      func() *redis.Client
	migrations func(ctx context.Context, database *mongo.Database) error

	migrateOnce sync.Once

	once    sync.Once
	err     error
	svc     *services.Service
	handler *controllers.Handler
}

/*
* Open every collaborator from config
* Build the service and the HTTP handler on top of them
 */
func (a *application) build() {
	cfg := a.cfg
	ctx := context.Background()

	objects, err := storage.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.BucketName)
	if err != nil {
		a.err = err
		return
	}
	enforcer, err := auth.NewEnforcer(role.Privileges)
	if err != nil {
		a.err = err
		return
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.svc = services.New(services.Deps{
		Stores:      store.NewMongoStores(a.database()),
		Gateway:     payments.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		Objects:     objects,
		Mailer:      notify.NewMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.FromName, cfg.Mail.FromEmail),
		Assistant:   assistant.NewGeminiAssistant(cfg.Gemini.APIKey, cfg.Gemini.Model),
		DoctorCache: cache.NewDoctorCache(a.redis(), cfg.Redis.TTL),
		Tokens:      tokens,
		Config:      cfg,
	})
	a.handler = controllers.NewHandler(a.svc, tokens, enforcer)
}

func (a *application) get() (*services.Service, *controllers.Handler, error) {
	a.once.Do(a.build)
	if a.err != nil {
		log.Println("Error building application:", a.err)
	}
	return a.svc, a.handler, a.err
}

// migrate runs the migrations once, whichever Core hook gets there first.
func (a *application) migrate() {
	a.migrateOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := a.migrations(ctx, a.database()); err != nil {
			log.Println("Error running migrations:", err)
		}
	})
}

/*
* Core calls the jobs hook before the migrations hook
* Migrate first so seeding never shadows a legacy settings document
* Then seed the settings and start the scheduler
 */
func (a *application) startJobs() *cron.Cron {
	a.migrate()
	svc, _, err := a.get()
	if err != nil {
		return nil
	}
	jobs.SeedSettings(svc)
	return jobs.StartDailyScheduler(svc)
}
