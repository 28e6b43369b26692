package services

import (
	"context"
	"math"
	"net/http"
	"testing"
	"time"

	"Cywala/models"
	"Cywala/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_CreatesDefaultOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPayoutInterestPercentage, first.PayoutInterestPercentage)
	assert.Nil(t, first.PayoutDate)

	f.now = f.now.Add(time.Hour)
	second, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, models.SettingsKey, second.ID)
}

func TestUpdateSettings_RejectsOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, p := range []float64{150, -5, math.NaN(), math.Inf(1)} {
		_, err := f.svc.UpdateSettings(ctx, p, nil)
		require.Error(t, err, "percentage %v", p)
		assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
		assert.Equal(t, util.INVALID_PERCENTAGE, util.MessageOf(err))
	}

	settings, err := f.svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.0, settings.PayoutInterestPercentage)
}

func TestUpdateSettings_BoundsAndDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	settings, err := f.svc.UpdateSettings(ctx, 0, &date)
	require.NoError(t, err)
	assert.Equal(t, 0.0, settings.PayoutInterestPercentage)

	settings, err = f.svc.UpdateSettings(ctx, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, settings.PayoutInterestPercentage)
	require.NotNil(t, settings.PayoutDate)
	assert.True(t, date.Equal(*settings.PayoutDate))
}

func TestParsePayoutDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	d, err := ParsePayoutDate("", loc)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParsePayoutDate("2025-02-28", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, loc), *d)

	d, err = ParsePayoutDate("2025-02-28T10:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParsePayoutDate("28/02/2025", loc)
	assert.Equal(t, util.INVALID_PAYOUT_DATE, util.MessageOf(err))
}
