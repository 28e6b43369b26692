package services

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"Cywala/assistant"
	"Cywala/auth"
	"Cywala/cache"
	"Cywala/config"
	"Cywala/notify"
	"Cywala/payments"
	"Cywala/storage"
	"Cywala/store"
	"Cywala/util"

	common "github.com/KanapuramVaishnavi/Core/coreServices"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Deps are the collaborators a Service is built from. Now and GenerateOTP
// default to the wall clock and the Core OTP generator.
type Deps struct {
	Stores      *store.Stores
	Gateway     payments.Gateway
	Objects     storage.ObjectStore
	Mailer      notify.Mailer
	Assistant   assistant.Assistant
	DoctorCache cache.DoctorCache
	Tokens      *auth.TokenIssuer
	Config      *config.Config
	Now         func() time.Time
	GenerateOTP func() string
}

type Service struct {
	stores      *store.Stores
	gateway     payments.Gateway
	objects     storage.ObjectStore
	mailer      notify.Mailer
	assistant   assistant.Assistant
	doctorCache cache.DoctorCache
	tokens      *auth.TokenIssuer
	cfg         *config.Config
	now         func() time.Time
	generateOTP func() string
}

func New(d Deps) *Service {
	s := &Service{
		stores:      d.Stores,
		gateway:     d.Gateway,
		objects:     d.Objects,
		mailer:      d.Mailer,
		assistant:   d.Assistant,
		doctorCache: d.DoctorCache,
		tokens:      d.Tokens,
		cfg:         d.Config,
		now:         d.Now,
		generateOTP: d.GenerateOTP,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generateOTP == nil {
		s.generateOTP = common.GenerateOTP
	}
	if s.doctorCache == nil {
		s.doctorCache = cache.NoopDoctorCache{}
	}
	if s.cfg == nil {
		s.cfg = &config.Config{}
	}
	return s
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, util.BadRequest(util.INVALID_ID)
	}
	return id, nil
}

// lookupError turns a store miss into a 404 with msg, anything else into a 500.
func lookupError(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return util.NotFound(msg)
	}
	return util.Internal(err)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// normalizeEmail trims before Core lowercases; Core keeps surrounding spaces.
func normalizeEmail(email string) string {
	return common.NormalizeEmail(strings.TrimSpace(email))
}

/*
* Name, email and password must all be present
* Email must parse and the password needs 8 characters
 */
func validateSignup(name, email, password string) error {
	if strings.TrimSpace(name) == "" || email == "" || password == "" {
		return util.BadRequest(util.NAME_EMAIL_PASSWORD_REQUIRED)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return util.BadRequest(util.INVALID_EMAIL)
	}
	if len(password) < 8 {
		return util.BadRequest(util.PASSWORD_TOO_SHORT)
	}
	return nil
}

// deleteImage removes an object best effort and reports a warning on failure.
func (s *Service) deleteImage(ctx context.Context, url string) string {
	if url == "" || s.objects == nil {
		return ""
	}
	if err := s.objects.Delete(ctx, url); err != nil {
		log.Println("Error from Delete image:", err)
		return util.IMAGE_DELETE_FAILED
	}
	return ""
}
