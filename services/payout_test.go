package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"Cywala/models"
	"Cywala/store"
	"Cywala/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCalculatePayout_Properties(t *testing.T) {
	amounts := []float64{0, 1, 99.99, 500, 1000, 2000, 12345.67}
	percentages := []float64{0, 1, 12.5, 30, 33.33, 99, 100}
	for _, a := range amounts {
		for _, p := range percentages {
			fee, net := CalculatePayout(a, p)
			assert.GreaterOrEqual(t, net, 0.0, "a=%v p=%v", a, p)
			assert.LessOrEqual(t, net, a, "a=%v p=%v", a, p)
			assert.InDelta(t, a, fee+net, 0.001, "a=%v p=%v", a, p)
			assert.InDelta(t, a-a*p/100, net, 0.01, "a=%v p=%v", a, p)
		}
	}

	fee, net := CalculatePayout(1000, 30)
	assert.Equal(t, 300.0, fee)
	assert.Equal(t, 700.0, net)
}

func TestMonthWindow(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	start, end := MonthWindow(time.Date(2024, time.February, 20, 15, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 59, 59, 999999999, loc), end)
}

func TestClampPercentage(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercentage(-10))
	assert.Equal(t, 100.0, ClampPercentage(140))
	assert.Equal(t, 45.5, ClampPercentage(45.5))
}

func TestComputeMonthlyPayouts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.seedUser(t, "patient")

	zara := f.seedDoctor(t, "Zara", func(d *models.Doctor) {
		d.Payment.BankAccount.AccountNumber = "12345"
	})
	anil := f.seedDoctor(t, "Anil", nil)
	idle := f.seedDoctor(t, "Idle", nil)
	gone := primitive.NewObjectID()

	start, _ := MonthWindow(f.now)
	f.seedConsultation(t, zara.ID, patient.ID, 1000, true, start)
	f.seedConsultation(t, anil.ID, patient.ID, 500, true, f.now)
	f.seedConsultation(t, anil.ID, patient.ID, 250, true, f.now)
	f.seedConsultation(t, anil.ID, patient.ID, 900, false, f.now)
	f.seedConsultation(t, idle.ID, patient.ID, 700, true, start.Add(-time.Nanosecond))
	f.seedConsultation(t, gone, patient.ID, 400, true, f.now)

	report, err := f.svc.ComputeMonthlyPayouts(ctx)
	require.NoError(t, err)

	assert.Equal(t, "January 2025", report.Month)
	require.Len(t, report.Payments, 2)
	assert.Equal(t, 2, report.TotalDoctors)

	first := report.Payments[0]
	assert.Equal(t, "Anil", first.Name)
	assert.Equal(t, 2, first.TotalConsultations)
	assert.Equal(t, 750.0, first.GrossAmount)
	assert.Equal(t, 225.0, first.PlatformFee)
	assert.Equal(t, 525.0, first.NetPayout)
	assert.Equal(t, "", first.Payment.BankAccount.IfscCode)

	second := report.Payments[1]
	assert.Equal(t, "Zara", second.Name)
	assert.Equal(t, 1000.0, second.GrossAmount)
	assert.Equal(t, 300.0, second.PlatformFee)
	assert.Equal(t, 700.0, second.NetPayout)
	assert.Equal(t, 30.0, second.PlatformFeePercentage)
	assert.Equal(t, "12345", second.Payment.BankAccount.AccountNumber)

	assert.Equal(t, 1750.0, report.TotalGrossAmount)
	assert.Equal(t, 1225.0, report.TotalNetPayout)
}

func TestComputeMonthlyPayouts_UsesCurrentPercentage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", nil)
	f.seedConsultation(t, doctor.ID, primitive.NewObjectID(), 2000, true, f.now)

	_, err := f.svc.UpdateSettings(ctx, 10, nil)
	require.NoError(t, err)

	report, err := f.svc.ComputeMonthlyPayouts(ctx)
	require.NoError(t, err)
	require.Len(t, report.Payments, 1)
	assert.Equal(t, 200.0, report.Payments[0].PlatformFee)
	assert.Equal(t, 1800.0, report.Payments[0].NetPayout)
}

func TestComputeMonthlyPayouts_Empty(t *testing.T) {
	f := newFixture(t)
	report, err := f.svc.ComputeMonthlyPayouts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Payments)
	assert.Equal(t, 0, report.TotalDoctors)
}

func TestPreviewPayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", nil)
	patient := f.seedUser(t, "Ravi")
	c := f.seedConsultation(t, doctor.ID, patient.ID, 1000, true, f.now)

	preview, err := f.svc.PreviewPayout(ctx, c.ID.Hex(), nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, preview.Percentage)
	assert.Equal(t, 700.0, preview.AmountAfterDeduction)
	require.NotNil(t, preview.Consultation.Doctor)
	assert.Equal(t, "Asha", preview.Consultation.Doctor.Name)
	require.NotNil(t, preview.Consultation.Settings)

	over := 150.0
	preview, err = f.svc.PreviewPayout(ctx, c.ID.Hex(), &over)
	require.NoError(t, err)
	assert.Equal(t, 100.0, preview.Percentage)
	assert.Equal(t, 0.0, preview.AmountAfterDeduction)

	_, err = f.svc.PreviewPayout(ctx, primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
	_, err = f.svc.PreviewPayout(ctx, "nope", nil)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}

func TestProcessPayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", func(d *models.Doctor) {
		d.Payment.Razorpay.AccountID = "acc_123"
	})
	c := f.seedConsultation(t, doctor.ID, primitive.NewObjectID(), 1000, true, f.now)

	result, err := f.svc.ProcessPayout(ctx, c.ID.Hex(), doctor.ID.Hex(), nil)
	require.NoError(t, err)
	assert.Equal(t, "trf_1", result.TransactionID)
	assert.Equal(t, 700.0, result.Amount)
	require.Len(t, f.gateway.transfers, 1)
	assert.Equal(t, transferCall{account: "acc_123", paise: 70000}, f.gateway.transfers[0])

	saved, err := f.stores.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.Payout)
	assert.Equal(t, "trf_1", saved.Payout.TransactionID)
	assert.Equal(t, models.PayoutCompleted, saved.Payout.Status)

	_, err = f.svc.ProcessPayout(ctx, c.ID.Hex(), doctor.ID.Hex(), nil)
	assert.Equal(t, util.PAYOUT_ALREADY_DONE, util.MessageOf(err))
	assert.Len(t, f.gateway.transfers, 1)
}

func TestProcessPayout_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	withAccount := func(d *models.Doctor) { d.Payment.Razorpay.AccountID = "acc_1" }
	doctor := f.seedDoctor(t, "Asha", withAccount)
	other := f.seedDoctor(t, "Other", withAccount)
	noAccount := f.seedDoctor(t, "NoAccount", nil)
	paid := f.seedConsultation(t, doctor.ID, primitive.NewObjectID(), 1000, true, f.now)
	unpaid := f.seedConsultation(t, doctor.ID, primitive.NewObjectID(), 1000, false, f.now)
	noAccountPaid := f.seedConsultation(t, noAccount.ID, primitive.NewObjectID(), 1000, true, f.now)
	full := 100.0
	bad := 120.0

	tests := []struct {
		name       string
		cid, did   string
		percentage *float64
		message    string
	}{
		{"wrong doctor", paid.ID.Hex(), other.ID.Hex(), nil, util.PAYOUT_DOCTOR_MISMATCH},
		{"unpaid", unpaid.ID.Hex(), doctor.ID.Hex(), nil, util.CONSULTATION_NOT_PAID},
		{"no account", noAccountPaid.ID.Hex(), noAccount.ID.Hex(), nil, util.PAYOUT_ACCOUNT_MISSING},
		{"nothing left", paid.ID.Hex(), doctor.ID.Hex(), &full, util.PAYOUT_AMOUNT_ZERO},
		{"bad percentage", paid.ID.Hex(), doctor.ID.Hex(), &bad, util.INVALID_PERCENTAGE},
		{"bad id", "x", doctor.ID.Hex(), nil, util.INVALID_ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ProcessPayout(ctx, tt.cid, tt.did, tt.percentage)
			require.Error(t, err)
			assert.Equal(t, tt.message, util.MessageOf(err))
		})
	}
	assert.Empty(t, f.gateway.transfers)
}

func TestProcessPayout_GatewayFailureIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", func(d *models.Doctor) { d.Payment.Razorpay.AccountID = "acc_1" })
	c := f.seedConsultation(t, doctor.ID, primitive.NewObjectID(), 1000, true, f.now)
	f.gateway.transferErr = errBoom

	_, err := f.svc.ProcessPayout(ctx, c.ID.Hex(), doctor.ID.Hex(), nil)
	assert.Equal(t, http.StatusBadGateway, util.StatusOf(err))
	assert.Equal(t, util.PAYOUT_FAILED, util.MessageOf(err))

	saved, err := f.stores.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, saved.Payout)

	f.gateway.transferErr = nil
	result, err := f.svc.ProcessPayout(ctx, c.ID.Hex(), doctor.ID.Hex(), nil)
	require.NoError(t, err)
	assert.Equal(t, "trf_1", result.TransactionID)
}

func TestProcessPayout_ConcurrentRequestsTransferOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", func(d *models.Doctor) { d.Payment.Razorpay.AccountID = "acc_1" })
	c := f.seedConsultation(t, doctor.ID, primitive.NewObjectID(), 1000, true, f.now)

	release := make(chan struct{})
	f.gateway.onTransfer = func() { <-release }

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.svc.ProcessPayout(ctx, c.ID.Hex(), doctor.ID.Hex(), nil)
			results <- err
		}()
	}

	// The winner waits inside Transfer, so the first result is the loser.
	lost := <-results
	close(release)
	won := <-results

	require.NoError(t, won)
	assert.Equal(t, util.PAYOUT_ALREADY_DONE, util.MessageOf(lost))
	require.Len(t, f.gateway.transfers, 1)

	saved, err := f.stores.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.Payout)
	assert.Equal(t, models.PayoutCompleted, saved.Payout.Status)
	assert.Equal(t, "trf_1", saved.Payout.TransactionID)
}

type failingCompletion struct {
	store.ConsultationStore
}

func (failingCompletion) CompletePayout(context.Context, primitive.ObjectID, models.PayoutRecord) error {
	return errBoom
}

func TestProcessPayout_UnrecordedTransferBlocksRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", func(d *models.Doctor) { d.Payment.Razorpay.AccountID = "acc_1" })
	c := f.seedConsultation(t, doctor.ID, primitive.NewObjectID(), 1000, true, f.now)
	f.stores.Consultations = failingCompletion{f.stores.Consultations}

	_, err := f.svc.ProcessPayout(ctx, c.ID.Hex(), doctor.ID.Hex(), nil)
	assert.Equal(t, http.StatusInternalServerError, util.StatusOf(err))

	_, err = f.svc.ProcessPayout(ctx, c.ID.Hex(), doctor.ID.Hex(), nil)
	assert.Equal(t, util.PAYOUT_ALREADY_DONE, util.MessageOf(err))
	assert.Len(t, f.gateway.transfers, 1)

	saved, err := f.stores.Consultations.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, saved.Payout)
	assert.Equal(t, models.PayoutPending, saved.Payout.Status)
}
