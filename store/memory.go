package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"Cywala/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewMemoryStores keeps every collection in process memory. It mirrors the
// Mongo semantics closely enough for service and handler tests.
func NewMemoryStores() *Stores {
	return &Stores{
		Settings:      &memorySettings{},
		Doctors:       &memoryDoctors{byID: map[primitive.ObjectID]models.Doctor{}},
		Users:         &memoryUsers{byID: map[primitive.ObjectID]models.User{}},
		Consultations: &memoryConsultations{byID: map[primitive.ObjectID]models.Consultation{}},
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type memorySettings struct {
	mu       sync.Mutex
	settings *models.Settings
}

func (s *memorySettings) FindOrCreate(_ context.Context, defaults models.Settings) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		created := defaults
		created.ID = models.SettingsKey
		created.PayoutDate = copyTime(defaults.PayoutDate)
		s.settings = &created
	}
	out := *s.settings
	out.PayoutDate = copyTime(s.settings.PayoutDate)
	return &out, nil
}

func (s *memorySettings) Update(_ context.Context, upd models.SettingsUpdate, now time.Time) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		s.settings = &models.Settings{ID: models.SettingsKey, CreatedAt: now}
	}
	s.settings.PayoutInterestPercentage = upd.PayoutInterestPercentage
	if upd.PayoutDate != nil {
		s.settings.PayoutDate = copyTime(upd.PayoutDate)
	}
	s.settings.UpdatedAt = now
	out := *s.settings
	out.PayoutDate = copyTime(s.settings.PayoutDate)
	return &out, nil
}

type memoryDoctors struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Doctor
}

func (s *memoryDoctors) Create(_ context.Context, doctor *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.byID {
		if d.Email == doctor.Email {
			return ErrDuplicateKey
		}
	}
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	if _, ok := s.byID[doctor.ID]; ok {
		return ErrDuplicateKey
	}
	s.byID[doctor.ID] = *doctor
	return nil
}

func (s *memoryDoctors) FindByID(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (s *memoryDoctors) FindByEmail(_ context.Context, email string) (*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.byID {
		if d.Email == email {
			out := d
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryDoctors) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[primitive.ObjectID]*models.Doctor, len(ids))
	for _, id := range ids {
		if d, ok := s.byID[id]; ok {
			out[id] = &d
		}
	}
	return out, nil
}

func (s *memoryDoctors) List(_ context.Context, verifiedOnly bool) ([]models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doctors := []models.Doctor{}
	for _, d := range s.byID {
		if verifiedOnly && !d.IsVerified {
			continue
		}
		doctors = append(doctors, d)
	}
	sort.Slice(doctors, func(i, j int) bool {
		return doctors[i].CreatedAt.After(doctors[j].CreatedAt)
	})
	return doctors, nil
}

func (s *memoryDoctors) Save(_ context.Context, doctor *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[doctor.ID]; !ok {
		return ErrNotFound
	}
	for id, d := range s.byID {
		if id != doctor.ID && d.Email == doctor.Email {
			return ErrDuplicateKey
		}
	}
	s.byID[doctor.ID] = *doctor
	return nil
}

func (s *memoryDoctors) Delete(_ context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.byID, id)
	return &d, nil
}

func (s *memoryDoctors) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

type memoryUsers struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.User
}

func (s *memoryUsers) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == user.Email {
			return ErrDuplicateKey
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.byID[user.ID] = *user
	return nil
}

func (s *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.byID[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (s *memoryUsers) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, u := range s.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (s *memoryUsers) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[user.ID]; !ok {
		return ErrNotFound
	}
	s.byID[user.ID] = *user
	return nil
}

func (s *memoryUsers) Delete(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.byID, id)
	return &u, nil
}

func (s *memoryUsers) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}

type memoryConsultations struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]models.Consultation
}

func cloneConsultation(c models.Consultation) models.Consultation {
	out := c
	out.Messages = append([]models.Message{}, c.Messages...)
	out.ExpiresAt = copyTime(c.ExpiresAt)
	if c.Payout != nil {
		p := *c.Payout
		out.Payout = &p
	}
	return out
}

func (s *memoryConsultations) Create(_ context.Context, consultation *models.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if consultation.ID.IsZero() {
		consultation.ID = primitive.NewObjectID()
	}
	if _, ok := s.byID[consultation.ID]; ok {
		return ErrDuplicateKey
	}
	if consultation.Messages == nil {
		consultation.Messages = []models.Message{}
	}
	s.byID[consultation.ID] = cloneConsultation(*consultation)
	return nil
}

func (s *memoryConsultations) FindByID(_ context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneConsultation(c)
	return &out, nil
}

func (s *memoryConsultations) Save(_ context.Context, consultation *models.Consultation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[consultation.ID]; !ok {
		return ErrNotFound
	}
	s.byID[consultation.ID] = cloneConsultation(*consultation)
	return nil
}

func (s *memoryConsultations) AppendMessage(_ context.Context, id primitive.ObjectID, msg models.Message) (*models.Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = cloneConsultation(c)
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.CreatedAt
	s.byID[id] = c
	out := cloneConsultation(c)
	return &out, nil
}

func (s *memoryConsultations) ClaimPayout(_ context.Context, id primitive.ObjectID, claim models.PayoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if c.Payout != nil {
		return ErrConflict
	}
	claim.Status = models.PayoutPending
	c = cloneConsultation(c)
	c.Payout = &claim
	c.UpdatedAt = claim.ProcessedAt
	s.byID[id] = c
	return nil
}

func (s *memoryConsultations) CompletePayout(_ context.Context, id primitive.ObjectID, record models.PayoutRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if c.Payout == nil || c.Payout.Status != models.PayoutPending {
		return ErrConflict
	}
	record.Status = models.PayoutCompleted
	c = cloneConsultation(c)
	c.Payout = &record
	c.UpdatedAt = record.ProcessedAt
	s.byID[id] = c
	return nil
}

func (s *memoryConsultations) ReleasePayout(_ context.Context, id primitive.ObjectID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if c.Payout == nil || c.Payout.Status != models.PayoutPending {
		return ErrConflict
	}
	c = cloneConsultation(c)
	c.Payout = nil
	c.UpdatedAt = now
	s.byID[id] = c
	return nil
}

func (s *memoryConsultations) matching(f ConsultationFilter) []models.Consultation {
	out := []models.Consultation{}
	for _, c := range s.byID {
		if f.DoctorID != nil && c.DoctorID != *f.DoctorID {
			continue
		}
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.PaidOnly && !c.PaymentStatus {
			continue
		}
		if f.ActiveAt != nil && (c.ExpiresAt == nil || !c.ExpiresAt.After(*f.ActiveAt)) {
			continue
		}
		out = append(out, cloneConsultation(c))
	}
	return out
}

func (s *memoryConsultations) List(_ context.Context, f ConsultationFilter) ([]models.Consultation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.matching(f)
	byUpdated := sortField(f) == SortByUpdated
	sort.Slice(out, func(i, j int) bool {
		if byUpdated {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *memoryConsultations) Count(_ context.Context, f ConsultationFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matching(f))), nil
}

func (s *memoryConsultations) RevenueByDoctor(_ context.Context, start, end time.Time) ([]models.DoctorRevenue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := map[primitive.ObjectID]*models.DoctorRevenue{}
	for _, c := range s.byID {
		if !c.PaymentStatus || c.CreatedAt.Before(start) || c.CreatedAt.After(end) {
			continue
		}
		row, ok := totals[c.DoctorID]
		if !ok {
			row = &models.DoctorRevenue{DoctorID: c.DoctorID}
			totals[c.DoctorID] = row
		}
		row.TotalConsultations++
		row.TotalAmount += c.Amount
	}
	rows := make([]models.DoctorRevenue, 0, len(totals))
	for _, row := range totals {
		rows = append(rows, *row)
	}
	return rows, nil
}
