package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"Cywala/models"
	"Cywala/payments"
	"Cywala/role"
	"Cywala/store"
	"Cywala/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLoginUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.svc.RegisterUser(ctx, "Ravi", "ravi@mail.com", "password1")
	require.NoError(t, err)
	claims, err := f.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, role.User, claims.Role)

	_, err = f.svc.RegisterUser(ctx, "Ravi", "RAVI@mail.com", "password1")
	assert.Equal(t, util.USER_EMAIL_EXISTS, util.MessageOf(err))

	_, err = f.svc.LoginUser(ctx, "ravi@mail.com", "password1")
	assert.NoError(t, err)
	_, err = f.svc.LoginUser(ctx, "ravi@mail.com", "nope-nope")
	assert.Equal(t, http.StatusUnauthorized, util.StatusOf(err))
}

func TestBookAndPayConsultation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", func(d *models.Doctor) { d.Fees = 2000 })
	patient := f.seedUser(t, "Ravi")

	consultation, order, err := f.svc.BookConsultation(ctx, patient.ID.Hex(), doctor.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2000.0, consultation.Amount)
	assert.False(t, consultation.PaymentStatus)
	assert.Nil(t, consultation.ExpiresAt)
	assert.Equal(t, "order_1", order.OrderID)
	assert.Equal(t, int64(200000), order.Amount)
	assert.Equal(t, "rzp_key", order.KeyID)

	_, err = f.svc.SendUserMessage(ctx, patient.ID.Hex(), consultation.ID.Hex(), "hello")
	assert.Equal(t, util.CONSULTATION_NOT_PAID, util.MessageOf(err))

	bad := models.PaymentVerification{ConsultationID: consultation.ID.Hex(), OrderID: "order_1", PaymentID: "pay_1", Signature: "forged"}
	_, err = f.svc.VerifyPayment(ctx, patient.ID.Hex(), bad)
	assert.Equal(t, util.INVALID_PAYMENT, util.MessageOf(err))

	good := bad
	good.Signature = payments.Sign(testSecret, "order_1", "pay_1")
	paid, err := f.svc.VerifyPayment(ctx, patient.ID.Hex(), good)
	require.NoError(t, err)
	assert.True(t, paid.PaymentStatus)
	require.NotNil(t, paid.ExpiresAt)
	assert.Equal(t, f.now.Add(72*time.Hour), *paid.ExpiresAt)
	assert.True(t, paid.IsActive(f.now))

	_, err = f.svc.VerifyPayment(ctx, patient.ID.Hex(), good)
	assert.Equal(t, util.PAYMENT_ALREADY_DONE, util.MessageOf(err))

	updated, err := f.svc.SendUserMessage(ctx, patient.ID.Hex(), consultation.ID.Hex(), "hello doctor")
	require.NoError(t, err)
	require.Len(t, updated.Messages, 1)
	assert.Equal(t, models.SenderUser, updated.Messages[0].Sender)

	// Expiry is informational: messaging stays open after the window.
	f.now = f.now.Add(100 * time.Hour)
	_, err = f.svc.SendUserMessage(ctx, patient.ID.Hex(), consultation.ID.Hex(), "still there?")
	assert.NoError(t, err)
}

func TestVerifyPayment_RejectsForeignOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", nil)
	patient := f.seedUser(t, "Ravi")
	intruder := f.seedUser(t, "Mallory")
	consultation, _, err := f.svc.BookConsultation(ctx, patient.ID.Hex(), doctor.ID.Hex())
	require.NoError(t, err)

	req := models.PaymentVerification{
		ConsultationID: consultation.ID.Hex(),
		OrderID:        "order_other",
		PaymentID:      "pay_1",
		Signature:      payments.Sign(testSecret, "order_other", "pay_1"),
	}
	_, err = f.svc.VerifyPayment(ctx, patient.ID.Hex(), req)
	assert.Equal(t, util.INVALID_PAYMENT, util.MessageOf(err))

	req.OrderID = "order_1"
	req.Signature = payments.Sign(testSecret, "order_1", "pay_1")
	_, err = f.svc.VerifyPayment(ctx, intruder.ID.Hex(), req)
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
}

func TestBookConsultation_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.seedUser(t, "Ravi")
	unavailable := f.seedDoctor(t, "Busy", func(d *models.Doctor) { d.Available = false })
	unverified := f.seedDoctor(t, "New", func(d *models.Doctor) { d.IsVerified = false })
	open := f.seedDoctor(t, "Open", nil)

	_, _, err := f.svc.BookConsultation(ctx, patient.ID.Hex(), unavailable.ID.Hex())
	assert.Equal(t, util.DOCTOR_UNAVAILABLE, util.MessageOf(err))
	_, _, err = f.svc.BookConsultation(ctx, patient.ID.Hex(), unverified.ID.Hex())
	assert.Equal(t, util.DOCTOR_NOT_VERIFIED, util.MessageOf(err))

	f.gateway.orderErr = errBoom
	_, _, err = f.svc.BookConsultation(ctx, patient.ID.Hex(), open.ID.Hex())
	assert.Equal(t, http.StatusBadGateway, util.StatusOf(err))
	count, err := f.stores.Consultations.Count(ctx, store.ConsultationFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestUserConsultations_PopulatesAndToleratesDeletedDoctor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", nil)
	patient := f.seedUser(t, "Ravi")
	c := f.seedConsultation(t, doctor.ID, patient.ID, 500, true, f.now)

	_, err := f.svc.DeleteDoctor(ctx, doctor.ID.Hex())
	require.NoError(t, err)

	views, err := f.svc.UserConsultations(ctx, patient.ID.Hex())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Doctor)
	require.NotNil(t, views[0].User)

	view, err := f.svc.UserConsultation(ctx, patient.ID.Hex(), c.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, c.ID, view.ID)
}

func TestUpdateUserProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patient := f.seedUser(t, "Ravi")
	phone := "9999999999"

	updated, err := f.svc.UpdateUserProfile(ctx, patient.ID.Hex(), models.UserProfileUpdate{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "Ravi", updated.Name)
}
