package migrations

import (
	"context"
	"log"

	"Cywala/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Older doctor documents kept bank details as flat top-level fields.
var legacyBankFields = []string{
	"accountHolderName", "accountNo", "ifscNo", "bankName", "branchName", "razorpayAccountId",
}

func bankFieldsFilter() bson.M {
	return bson.M{"payment.bankAccount": bson.M{"$exists": false}}
}

func orEmpty(field string) bson.M {
	return bson.M{"$ifNull": bson.A{"$" + field, ""}}
}

/*
* Copy the flat fields into payment.bankAccount
* Missing values become empty strings
* Drop the flat fields afterwards
 */
func bankFieldsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"payment.bankAccount": bson.M{
				"accountHolderName": orEmpty("accountHolderName"),
				"accountNumber":     orEmpty("accountNo"),
				"ifscCode":          orEmpty("ifscNo"),
				"bankName":          orEmpty("bankName"),
				"branchName":        orEmpty("branchName"),
			},
			"payment.razorpay.accountId": bson.M{"$ifNull": bson.A{"$payment.razorpay.accountId", orEmpty("razorpayAccountId")}},
			"payment.razorpay.keyId":     bson.M{"$ifNull": bson.A{"$payment.razorpay.keyId", ""}},
		}}},
		{{Key: "$unset", Value: legacyBankFields}},
	}
}

func CanonicalBankFields(ctx context.Context, database *mongo.Database) error {
	result, err := database.Collection(store.DoctorCollection).UpdateMany(ctx, bankFieldsFilter(), bankFieldsPipeline())
	if err != nil {
		return err
	}
	log.Printf("Migration applied: %d doctor documents updated\n", result.ModifiedCount)
	return nil
}
