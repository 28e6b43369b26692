package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"strings"

	"Cywala/models"
	"Cywala/role"
	"Cywala/store"
	"Cywala/util"
)

func (s *Service) LoginAdmin(email, password string) (string, error) {
	admin := s.cfg.Auth
	if admin.AdminEmail == "" || admin.AdminPassword == "" {
		return "", util.Unauthorized(util.INVALID_ADMIN_CREDENTIALS)
	}
	emailOK := subtle.ConstantTimeCompare([]byte(normalizeEmail(email)), []byte(normalizeEmail(admin.AdminEmail))) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(admin.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		return "", util.Unauthorized(util.INVALID_ADMIN_CREDENTIALS)
	}
	return s.issue(normalizeEmail(admin.AdminEmail), role.Admin)
}

/*
* Admin onboarded doctors skip the OTP step
* They start verified with an incomplete profile
 */
func (s *Service) AddDoctor(ctx context.Context, name, email, password string) (*models.Doctor, error) {
	email = normalizeEmail(email)
	if err := validateSignup(name, email, password); err != nil {
		return nil, err
	}
	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Println("Error from HashPassword:", err)
		return nil, util.Internal(err)
	}
	now := s.now()
	doctor := &models.Doctor{
		Name:          strings.TrimSpace(name),
		Email:         email,
		Password:      hashedPassword,
		Available:     true,
		IsVerified:    true,
		ProfileStatus: models.ProfileIncomplete,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.stores.Doctors.Create(ctx, doctor); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, util.BadRequest(util.DOCTOR_EMAIL_EXISTS)
		}
		log.Println("Error from Create doctor:", err)
		return nil, util.Internal(err)
	}
	s.doctorCache.Invalidate(ctx)
	return doctor, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.stores.Doctors.List(ctx, false)
	if err != nil {
		log.Println("Error from List doctors:", err)
		return nil, util.Internal(err)
	}
	return doctors, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.stores.Users.List(ctx)
	if err != nil {
		log.Println("Error from List users:", err)
		return nil, util.Internal(err)
	}
	return users, nil
}

// DeleteDoctor removes the record; consultations keep their now dangling reference.
func (s *Service) DeleteDoctor(ctx context.Context, doctorID string) (string, error) {
	id, err := parseID(doctorID)
	if err != nil {
		return "", err
	}
	doctor, err := s.stores.Doctors.Delete(ctx, id)
	if err != nil {
		log.Println("Error from Delete doctor:", err)
		return "", lookupError(err, util.DOCTOR_NOT_FOUND)
	}
	s.doctorCache.Invalidate(ctx)
	return s.deleteImage(ctx, doctor.Image), nil
}

func (s *Service) DeleteUser(ctx context.Context, userID string) (string, error) {
	id, err := parseID(userID)
	if err != nil {
		return "", err
	}
	user, err := s.stores.Users.Delete(ctx, id)
	if err != nil {
		log.Println("Error from Delete user:", err)
		return "", lookupError(err, util.USER_NOT_FOUND)
	}
	return s.deleteImage(ctx, user.Image), nil
}

func (s *Service) SetUserBlocked(ctx context.Context, userID string, blocked bool) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsBlocked = blocked
	user.UpdatedAt = s.now()
	if err := s.stores.Users.Save(ctx, user); err != nil {
		log.Println("Error saving user block flag:", err)
		return nil, lookupError(err, util.USER_NOT_FOUND)
	}
	return user, nil
}

func (s *Service) AllConsultations(ctx context.Context) ([]models.ConsultationView, error) {
	consultations, err := s.stores.Consultations.List(ctx, store.ConsultationFilter{})
	if err != nil {
		log.Println("Error from List consultations:", err)
		return nil, util.Internal(err)
	}
	return s.populate(ctx, consultations)
}
