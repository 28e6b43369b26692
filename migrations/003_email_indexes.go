package migrations

import (
	"context"
	"log"

	"Cywala/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func emailIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}
}

func EmailIndexes(ctx context.Context, database *mongo.Database) error {
	for _, name := range []string{store.DoctorCollection, store.UserCollection} {
		index, err := database.Collection(name).Indexes().CreateOne(ctx, emailIndex())
		if err != nil {
			return err
		}
		log.Printf("Migration applied: index %s on %s\n", index, name)
	}
	return nil
}
