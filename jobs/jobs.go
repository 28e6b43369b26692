package jobs

import (
	"context"
	"log"
	"time"

	"Cywala/models"

	"github.com/robfig/cron/v3"
)

// PayoutSchedule is the slice of the service the jobs drive.
type PayoutSchedule interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	IsPayoutDay(ctx context.Context) (bool, error)
	SendPayoutReport(ctx context.Context) (string, error)
}

const DailySpec = "5 0 * * *"

// SeedSettings makes sure the settings singleton exists before the first request.
func SeedSettings(svc PayoutSchedule) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	settings, err := svc.GetSettings(ctx)
	if err != nil {
		log.Println("Error seeding settings:", err)
		return
	}
	log.Printf("Settings ready: payoutInterestPercentage=%v", settings.PayoutInterestPercentage)
}

func StartDailyScheduler(svc PayoutSchedule) *cron.Cron {
	c := cron.New()

	// Runs every day at 00:05 AM
	_, err := c.AddFunc(DailySpec, func() {
		log.Println("Running Daily Payout Report Scheduler...")
		if _, err := RunPayoutDay(context.Background(), svc); err != nil {
			log.Println("Error from RunPayoutDay:", err)
		}
	})
	if err != nil {
		log.Println("Error scheduling payout report:", err)
	}

	c.Start()
	return c
}

/*
* Do nothing unless today is the configured payout date
* Otherwise build, archive and mail the monthly report
 */
func RunPayoutDay(ctx context.Context, svc PayoutSchedule) (bool, error) {
	ok, err := svc.IsPayoutDay(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	url, err := svc.SendPayoutReport(ctx)
	if err != nil {
		return false, err
	}
	log.Println("Payout report sent:", url)
	return true, nil
}
