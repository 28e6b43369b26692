package store

import (
	"context"
	"errors"
	"time"

	"Cywala/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrConflict     = errors.New("document changed concurrently")
)

const (
	SettingsCollection     = "settings"
	DoctorCollection       = "doctors"
	UserCollection         = "users"
	ConsultationCollection = "consultations"
)

type SettingsStore interface {
	// FindOrCreate returns the singleton, inserting defaults when it does not exist.
	FindOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error)
	// Update upserts the singleton. A nil PayoutDate keeps the stored date.
	Update(ctx context.Context, update models.SettingsUpdate, now time.Time) (*models.Settings, error)
}

type DoctorStore interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	FindByEmail(ctx context.Context, email string) (*models.Doctor, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Doctor, error)
	List(ctx context.Context, verifiedOnly bool) ([]models.Doctor, error)
	Save(ctx context.Context, doctor *models.Doctor) error
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error)
	Count(ctx context.Context) (int64, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

const (
	SortByCreated = "createdAt"
	SortByUpdated = "updatedAt"
)

// ConsultationFilter selects consultations. Zero values mean "no constraint";
// results are always newest first on SortBy (createdAt when empty).
type ConsultationFilter struct {
	DoctorID *primitive.ObjectID
	UserID   *primitive.ObjectID
	PaidOnly bool
	ActiveAt *time.Time
	SortBy   string
	Limit    int64
}

type ConsultationStore interface {
	Create(ctx context.Context, consultation *models.Consultation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error)
	Save(ctx context.Context, consultation *models.Consultation) error
	AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message) (*models.Consultation, error)
	// ClaimPayout stores a pending payout only when the consultation has none.
	// ErrConflict means another payout already holds it.
	ClaimPayout(ctx context.Context, id primitive.ObjectID, claim models.PayoutRecord) error
	// CompletePayout replaces the pending claim with the final record.
	CompletePayout(ctx context.Context, id primitive.ObjectID, record models.PayoutRecord) error
	// ReleasePayout drops a pending claim so the payout can be retried.
	ReleasePayout(ctx context.Context, id primitive.ObjectID, now time.Time) error
	List(ctx context.Context, filter ConsultationFilter) ([]models.Consultation, error)
	Count(ctx context.Context, filter ConsultationFilter) (int64, error)
	// RevenueByDoctor groups paid consultations created in [start, end] by doctor.
	RevenueByDoctor(ctx context.Context, start, end time.Time) ([]models.DoctorRevenue, error)
}

type Stores struct {
	Settings      SettingsStore
	Doctors       DoctorStore
	Users         UserStore
	Consultations ConsultationStore
}
