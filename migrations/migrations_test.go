package migrations

import (
	"testing"
	"time"

	"Cywala/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBankFieldsPipeline(t *testing.T) {
	assert.Equal(t, bson.M{"payment.bankAccount": bson.M{"$exists": false}}, bankFieldsFilter())

	pipeline := bankFieldsPipeline()
	require.Len(t, pipeline, 2)

	set := pipeline[0][0]
	assert.Equal(t, "$set", set.Key)
	account := set.Value.(bson.M)["payment.bankAccount"].(bson.M)
	assert.Equal(t, bson.M{"$ifNull": bson.A{"$accountNo", ""}}, account["accountNumber"])
	assert.Equal(t, bson.M{"$ifNull": bson.A{"$ifscNo", ""}}, account["ifscCode"])
	assert.Len(t, account, 5)

	unset := pipeline[1][0]
	assert.Equal(t, "$unset", unset.Key)
	assert.Contains(t, unset.Value, "accountNo")
}

func TestRekeySettings(t *testing.T) {
	legacyID := primitive.NewObjectID()
	legacy := bson.M{"_id": legacyID, "payoutInterestPercentage": 25.0}

	out := rekeySettings(legacy)
	assert.Equal(t, models.SettingsKey, out["_id"])
	assert.Equal(t, 25.0, out["payoutInterestPercentage"])
	assert.Equal(t, legacyID, legacy["_id"], "source document must stay untouched")
}

func TestEmailIndex(t *testing.T) {
	index := emailIndex()
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, index.Keys)
	require.NotNil(t, index.Options.Unique)
	assert.True(t, *index.Options.Unique)
	assert.Equal(t, "email_unique", *index.Options.Name)
}

func TestRunOrder(t *testing.T) {
	var names []string
	for _, m := range all {
		names = append(names, m.name)
	}
	assert.Equal(t, []string{"001_canonical_bank_fields", "002_settings_singleton_key", "003_email_indexes"}, names)
}

func TestUntouchedSeed(t *testing.T) {
	at := primitive.NewDateTimeFromTime(time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC))
	later := primitive.NewDateTimeFromTime(time.Date(2025, time.January, 16, 10, 0, 0, 0, time.UTC))
	seed := bson.M{
		"_id":                      models.SettingsKey,
		"payoutInterestPercentage": models.DefaultPayoutInterestPercentage,
		"payoutDate":               nil,
		"createdAt":                at,
		"updatedAt":                at,
	}
	assert.True(t, untouchedSeed(seed))

	edited := rekeySettings(seed)
	edited["updatedAt"] = later
	assert.False(t, untouchedSeed(edited))

	custom := rekeySettings(seed)
	custom["payoutInterestPercentage"] = 25.0
	assert.False(t, untouchedSeed(custom))

	dated := rekeySettings(seed)
	dated["payoutDate"] = later
	assert.False(t, untouchedSeed(dated))
}
