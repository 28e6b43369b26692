package services

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"Cywala/models"
	"Cywala/util"
)

/*
* Find the singleton or create it with the default percentage
* Callers always get a document back
 */
func (s *Service) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.stores.Settings.FindOrCreate(ctx, models.DefaultSettings(s.now()))
	if err != nil {
		log.Println("Error from FindOrCreate settings:", err)
		return nil, util.Internal(err)
	}
	return settings, nil
}

func ValidatePercentage(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 100 {
		return util.BadRequest(util.INVALID_PERCENTAGE)
	}
	return nil
}

// ParsePayoutDate accepts RFC 3339 or YYYY-MM-DD. An empty string means "keep the stored date".
func ParsePayoutDate(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return nil, util.BadRequest(util.INVALID_PAYOUT_DATE)
	}
	return &t, nil
}

func (s *Service) UpdateSettings(ctx context.Context, percentage float64, payoutDate *time.Time) (*models.Settings, error) {
	if err := ValidatePercentage(percentage); err != nil {
		return nil, err
	}
	settings, err := s.stores.Settings.Update(ctx, models.SettingsUpdate{
		PayoutInterestPercentage: percentage,
		PayoutDate:               payoutDate,
	}, s.now())
	if err != nil {
		log.Println("Error from Update settings:", err)
		return nil, util.Internal(err)
	}
	log.Printf("Settings updated: payoutInterestPercentage=%v", settings.PayoutInterestPercentage)
	return settings, nil
}
