package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"Cywala/auth"
	"Cywala/config"
	"Cywala/models"
	"Cywala/notify"
	"Cywala/payments"
	"Cywala/store"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "rzp_secret"

type transferCall struct {
	account string
	paise   int64
}

type fakeGateway struct {
	mu          sync.Mutex
	orders      int
	transfers   []transferCall
	orderErr    error
	transferErr error
	onTransfer  func()
}

func (g *fakeGateway) CreateOrder(_ context.Context, _ int64, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.orderErr != nil {
		return "", g.orderErr
	}
	g.orders++
	return fmt.Sprintf("order_%d", g.orders), nil
}

func (g *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return payments.VerifySignature(testSecret, orderID, paymentID, signature)
}

func (g *fakeGateway) Transfer(_ context.Context, account string, paise int64, _ map[string]interface{}) (string, error) {
	if g.onTransfer != nil {
		g.onTransfer()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.transferErr != nil {
		return "", g.transferErr
	}
	g.transfers = append(g.transfers, transferCall{account: account, paise: paise})
	return fmt.Sprintf("trf_%d", len(g.transfers)), nil
}

type fakeObjects struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	deleted   []string
	deleteErr error
	uploadErr error
}

func (o *fakeObjects) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if o.uploadErr != nil {
		return "", o.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.uploads[key] = data
	return "https://objects.test/" + key, nil
}

func (o *fakeObjects) Delete(_ context.Context, url string) error {
	if o.deleteErr != nil {
		return o.deleteErr
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted = append(o.deleted, url)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type fakeAssistant struct {
	reply string
	err   error
}

func (a *fakeAssistant) Reply(context.Context, string) (string, error) {
	return a.reply, a.err
}

type fixture struct {
	svc       *Service
	stores    *store.Stores
	gateway   *fakeGateway
	objects   *fakeObjects
	mailer    *fakeMailer
	assistant *fakeAssistant
	tokens    *auth.TokenIssuer
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		stores:    store.NewMemoryStores(),
		gateway:   &fakeGateway{},
		objects:   &fakeObjects{uploads: map[string][]byte{}},
		mailer:    &fakeMailer{},
		assistant: &fakeAssistant{reply: "Hello!"},
		tokens:    auth.NewTokenIssuer("jwt_secret", time.Hour),
		now:       time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC),
	}
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "jwt_secret",
			TokenTTL:      time.Hour,
			AdminEmail:    "admin@cywala.com",
			AdminPassword: "adminpass",
		},
		Razorpay:           config.RazorpayConfig{KeyID: "rzp_key", KeySecret: testSecret},
		ConsultationWindow: 72 * time.Hour,
		OTPTTL:             10 * time.Minute,
		PayoutReportEmail:  "reports@cywala.com",
	}
	f.svc = New(Deps{
		Stores:      f.stores,
		Gateway:     f.gateway,
		Objects:     f.objects,
		Mailer:      f.mailer,
		Assistant:   f.assistant,
		Tokens:      f.tokens,
		Config:      cfg,
		Now:         func() time.Time { return f.now },
		GenerateOTP: func() string { return "123456" },
	})
	return f
}

func (f *fixture) seedDoctor(t *testing.T, name string, mutate func(*models.Doctor)) *models.Doctor {
	t.Helper()
	d := &models.Doctor{
		Name:          name,
		Email:         fmt.Sprintf("%s-%s@cywala.com", name, primitive.NewObjectID().Hex()),
		Available:     true,
		IsVerified:    true,
		Fees:          1000,
		ProfileStatus: models.ProfileIncomplete,
		CreatedAt:     f.now,
		UpdatedAt:     f.now,
	}
	if mutate != nil {
		mutate(d)
	}
	require.NoError(t, f.stores.Doctors.Create(context.Background(), d))
	return d
}

func (f *fixture) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:      name,
		Email:     fmt.Sprintf("%s-%s@mail.com", name, primitive.NewObjectID().Hex()),
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	require.NoError(t, f.stores.Users.Create(context.Background(), u))
	return u
}

func (f *fixture) seedConsultation(t *testing.T, doctorID, userID primitive.ObjectID, amount float64, paid bool, createdAt time.Time) *models.Consultation {
	t.Helper()
	c := &models.Consultation{
		DoctorID:      doctorID,
		UserID:        userID,
		Amount:        amount,
		PaymentStatus: paid,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if paid {
		expires := createdAt.Add(72 * time.Hour)
		c.ExpiresAt = &expires
	}
	require.NoError(t, f.stores.Consultations.Create(context.Background(), c))
	return c
}

var errBoom = errors.New("boom")
