package migrations

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
)

type migration struct {
	name  string
	apply func(ctx context.Context, database *mongo.Database) error
}

var all = []migration{
	{name: "001_canonical_bank_fields", apply: CanonicalBankFields},
	{name: "002_settings_singleton_key", apply: SettingsSingletonKey},
	{name: "003_email_indexes", apply: EmailIndexes},
}

// Run applies every migration in order and stops at the first failure.
// Each step is idempotent so reruns on boot are safe.
func Run(ctx context.Context, database *mongo.Database) error {
	for _, m := range all {
		if err := m.apply(ctx, database); err != nil {
			log.Printf("Migration %s failed: %v", m.name, err)
			return err
		}
		log.Printf("Migration %s applied", m.name)
	}
	return nil
}
