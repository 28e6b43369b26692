package jobs

import (
	"context"
	"errors"
	"testing"

	"Cywala/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchedule struct {
	payoutDay   bool
	dayErr      error
	reports     int
	settingsHit int
}

func (f *fakeSchedule) GetSettings(context.Context) (*models.Settings, error) {
	f.settingsHit++
	return &models.Settings{PayoutInterestPercentage: models.DefaultPayoutInterestPercentage}, nil
}

func (f *fakeSchedule) IsPayoutDay(context.Context) (bool, error) {
	return f.payoutDay, f.dayErr
}

func (f *fakeSchedule) SendPayoutReport(context.Context) (string, error) {
	f.reports++
	return "https://objects.test/reports/payouts-2025-01.xlsx", nil
}

func TestRunPayoutDay(t *testing.T) {
	ctx := context.Background()

	idle := &fakeSchedule{}
	sent, err := RunPayoutDay(ctx, idle)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, 0, idle.reports)

	due := &fakeSchedule{payoutDay: true}
	sent, err = RunPayoutDay(ctx, due)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, 1, due.reports)

	broken := &fakeSchedule{dayErr: errors.New("db down")}
	_, err = RunPayoutDay(ctx, broken)
	assert.Error(t, err)
	assert.Equal(t, 0, broken.reports)
}

func TestSeedSettingsAndScheduler(t *testing.T) {
	f := &fakeSchedule{}
	SeedSettings(f)
	assert.Equal(t, 1, f.settingsHit)

	c := StartDailyScheduler(f)
	defer c.Stop()
	assert.Len(t, c.Entries(), 1)
}
