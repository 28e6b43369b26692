package migrations

import (
	"context"
	"errors"
	"log"

	"Cywala/models"
	"Cywala/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// rekeySettings copies a legacy settings document under the singleton key.
func rekeySettings(doc bson.M) bson.M {
	out := bson.M{}
	for k, v := range doc {
		out[k] = v
	}
	out["_id"] = models.SettingsKey
	return out
}

// untouchedSeed reports whether the keyed document is still the boot default,
// never updated by an admin.
func untouchedSeed(keyed bson.M) bool {
	if keyed["payoutDate"] != nil {
		return false
	}
	if p, ok := keyed["payoutInterestPercentage"].(float64); !ok || p != models.DefaultPayoutInterestPercentage {
		return false
	}
	created, ok := keyed["createdAt"]
	return ok && created == keyed["updatedAt"]
}

/*
* Keep the keyed document once an admin has written it
* Otherwise move the most recently updated legacy document onto the key
* Remove the legacy document
 */
func SettingsSingletonKey(ctx context.Context, database *mongo.Database) error {
	coll := database.Collection(store.SettingsCollection)

	var keyed bson.M
	err := coll.FindOne(ctx, bson.M{"_id": models.SettingsKey}).Decode(&keyed)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	exists := err == nil
	if exists && !untouchedSeed(keyed) {
		return nil
	}

	var legacy bson.M
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	err = coll.FindOne(ctx, bson.M{"_id": bson.M{"$ne": models.SettingsKey}}, opts).Decode(&legacy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return err
	}

	if exists {
		_, err = coll.ReplaceOne(ctx, bson.M{"_id": models.SettingsKey}, rekeySettings(legacy))
	} else {
		_, err = coll.InsertOne(ctx, rekeySettings(legacy))
	}
	if err != nil {
		return err
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": legacy["_id"]}); err != nil {
		return err
	}
	log.Printf("Migration applied: settings %v re-keyed to %q\n", legacy["_id"], models.SettingsKey)
	return nil
}
