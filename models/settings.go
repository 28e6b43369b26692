package models

import "time"

// DefaultPayoutInterestPercentage is the platform cut applied when no admin value exists yet.
const DefaultPayoutInterestPercentage = 30.0

// SettingsKey is the fixed _id of the one settings document.
const SettingsKey = "global"

type Settings struct {
	ID                       string     `json:"_id" bson:"_id"`
	PayoutInterestPercentage float64    `json:"payoutInterestPercentage" bson:"payoutInterestPercentage"`
	PayoutDate               *time.Time `json:"payoutDate" bson:"payoutDate"`
	CreatedAt                time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// DefaultSettings returns the document written on first access.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		ID:                       SettingsKey,
		PayoutInterestPercentage: DefaultPayoutInterestPercentage,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

type SettingsUpdate struct {
	PayoutInterestPercentage float64
	PayoutDate               *time.Time
}
