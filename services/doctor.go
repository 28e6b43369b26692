package services

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"Cywala/models"
	"Cywala/notify"
	"Cywala/role"
	"Cywala/storage"
	"Cywala/store"
	"Cywala/util"
)

func (s *Service) otpTTL() time.Duration {
	if s.cfg.OTPTTL > 0 {
		return s.cfg.OTPTTL
	}
	return 10 * time.Minute
}

/*
* Reject emails that already belong to a verified doctor
* Create or refresh the unverified record with a hashed password and OTP
* Mail the plain OTP, the record stays even when mailing fails
 */
func (s *Service) RequestRegistrationOTP(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if err := validateSignup(name, email, password); err != nil {
		return err
	}

	existing, err := s.stores.Doctors.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Println("Error from FindByEmail doctor:", err)
		return util.Internal(err)
	}
	if existing != nil && existing.IsVerified {
		return util.BadRequest(util.VERIFIED_DOCTOR_EXISTS)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Println("Error from HashPassword:", err)
		return util.Internal(err)
	}
	otp := s.generateOTP()
	hashedOTP, err := HashPassword(otp)
	if err != nil {
		log.Println("Error from HashPassword otp:", err)
		return util.Internal(err)
	}
	now := s.now()
	expires := now.Add(s.otpTTL())

	if existing != nil {
		existing.Name = strings.TrimSpace(name)
		existing.Password = hashedPassword
		existing.OTP = hashedOTP
		existing.OTPExpires = &expires
		existing.UpdatedAt = now
		err = s.stores.Doctors.Save(ctx, existing)
	} else {
		err = s.stores.Doctors.Create(ctx, &models.Doctor{
			Name:          strings.TrimSpace(name),
			Email:         email,
			Password:      hashedPassword,
			Available:     true,
			OTP:           hashedOTP,
			OTPExpires:    &expires,
			ProfileStatus: models.ProfileIncomplete,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	if errors.Is(err, store.ErrDuplicateKey) {
		return util.BadRequest(util.DOCTOR_EMAIL_EXISTS)
	}
	if err != nil {
		log.Println("Error saving doctor signup:", err)
		return util.Internal(err)
	}

	if err := s.mailer.Send(ctx, notify.OTPMessage(name, email, otp, s.otpTTL())); err != nil {
		log.Println("OTP email failed:", err)
		return util.NewAppError(http.StatusInternalServerError, util.FAILED_TO_SEND_OTP, err)
	}
	return nil
}

/*
* Already verified, missing signup, expired and wrong codes are all rejected
* A match verifies the doctor and clears the OTP
 */
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) error {
	email = normalizeEmail(email)
	doctor, err := s.stores.Doctors.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return util.BadRequest(util.SIGNUP_NOT_INITIATED)
	}
	if err != nil {
		log.Println("Error from FindByEmail doctor:", err)
		return util.Internal(err)
	}
	if doctor.IsVerified {
		return util.BadRequest(util.EMAIL_ALREADY_VERIFIED)
	}
	if doctor.OTP == "" || doctor.OTPExpires == nil {
		return util.BadRequest(util.SIGNUP_NOT_INITIATED)
	}
	if s.now().After(*doctor.OTPExpires) {
		return util.BadRequest(util.OTP_EXPIRED)
	}
	if !CheckPasswordHash(strings.TrimSpace(otp), doctor.OTP) {
		return util.BadRequest(util.INVALID_OTP)
	}

	doctor.IsVerified = true
	doctor.OTP = ""
	doctor.OTPExpires = nil
	doctor.UpdatedAt = s.now()
	if err := s.stores.Doctors.Save(ctx, doctor); err != nil {
		log.Println("Error saving verified doctor:", err)
		return util.Internal(err)
	}
	s.doctorCache.Invalidate(ctx)
	return nil
}

func (s *Service) LoginDoctor(ctx context.Context, email, password string) (string, string, error) {
	doctor, err := s.stores.Doctors.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", "", util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	if err != nil {
		log.Println("Error from FindByEmail doctor:", err)
		return "", "", util.Internal(err)
	}
	if !CheckPasswordHash(password, doctor.Password) {
		return "", "", util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	if !doctor.IsVerified {
		return "", "", util.Forbidden(util.EMAIL_NOT_VERIFIED)
	}
	token, err := s.tokens.Issue(doctor.ID.Hex(), role.Doctor)
	if err != nil {
		log.Println("Error from Issue token:", err)
		return "", "", util.Internal(err)
	}
	return token, doctor.ProfileStatus, nil
}

// ListPublicDoctors serves the patient-facing list from the cache when it can.
func (s *Service) ListPublicDoctors(ctx context.Context) ([]models.Doctor, error) {
	if doctors, ok := s.doctorCache.GetList(ctx); ok {
		return doctors, nil
	}
	doctors, err := s.stores.Doctors.List(ctx, true)
	if err != nil {
		log.Println("Error from List doctors:", err)
		return nil, util.Internal(err)
	}
	public := make([]models.Doctor, 0, len(doctors))
	for _, d := range doctors {
		public = append(public, d.PublicView())
	}
	s.doctorCache.SetList(ctx, public)
	return public, nil
}

func (s *Service) GetDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	id, err := parseID(doctorID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.stores.Doctors.FindByID(ctx, id)
	if err != nil {
		log.Println("Error from FindByID doctor:", err)
		return nil, lookupError(err, util.DOCTOR_NOT_FOUND)
	}
	return doctor, nil
}

// UpdateDoctorProfile applies the update. A self update also marks the profile complete.
func (s *Service) UpdateDoctorProfile(ctx context.Context, doctorID string, update models.DoctorProfileUpdate, self bool) (*models.Doctor, error) {
	doctor, err := s.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if update.Fees != nil && *update.Fees < 0 {
		return nil, util.BadRequest(util.INVALID_REQUEST_BODY)
	}
	update.Apply(doctor)
	if self {
		doctor.ProfileStatus = models.ProfileComplete
	}
	doctor.UpdatedAt = s.now()
	if err := s.stores.Doctors.Save(ctx, doctor); err != nil {
		log.Println("Error saving doctor profile:", err)
		return nil, lookupError(err, util.DOCTOR_NOT_FOUND)
	}
	s.doctorCache.Invalidate(ctx)
	return doctor, nil
}

/*
* Upload the new image before touching the record
* The old image is removed afterwards, a failure there is only a warning
 */
func (s *Service) UpdateDoctorImage(ctx context.Context, doctorID, filename, contentType string, body io.Reader) (*models.Doctor, string, error) {
	doctor, err := s.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, "", err
	}
	url, err := s.objects.Upload(ctx, storage.ImageKey("doctors", doctor.ID.Hex(), filename), body, contentType)
	if err != nil {
		log.Println("Error from Upload image:", err)
		return nil, "", util.BadGateway(util.IMAGE_UPLOAD_FAILED, err)
	}
	old := doctor.Image
	doctor.Image = url
	doctor.UpdatedAt = s.now()
	if err := s.stores.Doctors.Save(ctx, doctor); err != nil {
		log.Println("Error saving doctor image:", err)
		return nil, "", lookupError(err, util.DOCTOR_NOT_FOUND)
	}
	s.doctorCache.Invalidate(ctx)
	return doctor, s.deleteImage(ctx, old), nil
}

func (s *Service) ToggleDoctorAvailability(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, err := s.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	doctor.Available = !doctor.Available
	doctor.UpdatedAt = s.now()
	if err := s.stores.Doctors.Save(ctx, doctor); err != nil {
		log.Println("Error saving doctor availability:", err)
		return nil, lookupError(err, util.DOCTOR_NOT_FOUND)
	}
	s.doctorCache.Invalidate(ctx)
	return doctor, nil
}

func (s *Service) DoctorChats(ctx context.Context, doctorID string) ([]models.ConsultationView, error) {
	id, err := parseID(doctorID)
	if err != nil {
		return nil, err
	}
	chats, err := s.stores.Consultations.List(ctx, store.ConsultationFilter{DoctorID: &id, PaidOnly: true, SortBy: store.SortByUpdated})
	if err != nil {
		log.Println("Error from List consultations:", err)
		return nil, util.Internal(err)
	}
	return s.populate(ctx, chats)
}

func (s *Service) ownedByDoctor(ctx context.Context, doctorID, chatID string) (*models.Consultation, error) {
	did, err := parseID(doctorID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(chatID)
	if err != nil {
		return nil, err
	}
	chat, err := s.stores.Consultations.FindByID(ctx, cid)
	if err != nil {
		log.Println("Error from FindByID consultation:", err)
		return nil, lookupError(err, util.CONSULTATION_NOT_FOUND)
	}
	if chat.DoctorID != did {
		return nil, util.NotFound(util.CONSULTATION_NOT_FOUND)
	}
	return chat, nil
}

func (s *Service) DoctorChat(ctx context.Context, doctorID, chatID string) (*models.ConsultationView, error) {
	chat, err := s.ownedByDoctor(ctx, doctorID, chatID)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, []models.Consultation{*chat})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) DoctorReply(ctx context.Context, doctorID, chatID, text string) (*models.Consultation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.BadRequest(util.EMPTY_MESSAGE)
	}
	chat, err := s.ownedByDoctor(ctx, doctorID, chatID)
	if err != nil {
		return nil, err
	}
	updated, err := s.stores.Consultations.AppendMessage(ctx, chat.ID, models.Message{
		Sender:    models.SenderDoctor,
		Text:      text,
		CreatedAt: s.now(),
	})
	if err != nil {
		log.Println("Error from AppendMessage:", err)
		return nil, lookupError(err, util.CONSULTATION_NOT_FOUND)
	}
	return updated, nil
}
