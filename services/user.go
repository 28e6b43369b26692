package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"Cywala/models"
	"Cywala/payments"
	"Cywala/role"
	"Cywala/storage"
	"Cywala/store"
	"Cywala/util"

	"github.com/google/uuid"
)

func (s *Service) consultationWindow() time.Duration {
	if s.cfg.ConsultationWindow > 0 {
		return s.cfg.ConsultationWindow
	}
	return 72 * time.Hour
}

func (s *Service) RegisterUser(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)
	if err := validateSignup(name, email, password); err != nil {
		return "", err
	}
	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Println("Error from HashPassword:", err)
		return "", util.Internal(err)
	}
	now := s.now()
	user := &models.User{
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.stores.Users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return "", util.BadRequest(util.USER_EMAIL_EXISTS)
		}
		log.Println("Error from Create user:", err)
		return "", util.Internal(err)
	}
	return s.issue(user.ID.Hex(), role.User)
}

func (s *Service) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.stores.Users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	if err != nil {
		log.Println("Error from FindByEmail user:", err)
		return "", util.Internal(err)
	}
	if !CheckPasswordHash(password, user.Password) {
		return "", util.Unauthorized(util.INVALID_CREDENTIALS)
	}
	return s.issue(user.ID.Hex(), role.User)
}

func (s *Service) issue(subject, roleName string) (string, error) {
	token, err := s.tokens.Issue(subject, roleName)
	if err != nil {
		log.Println("Error from Issue token:", err)
		return "", util.Internal(err)
	}
	return token, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	id, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	user, err := s.stores.Users.FindByID(ctx, id)
	if err != nil {
		log.Println("Error from FindByID user:", err)
		return nil, lookupError(err, util.USER_NOT_FOUND)
	}
	return user, nil
}

func (s *Service) UpdateUserProfile(ctx context.Context, userID string, update models.UserProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	update.Apply(user)
	user.UpdatedAt = s.now()
	if err := s.stores.Users.Save(ctx, user); err != nil {
		log.Println("Error saving user profile:", err)
		return nil, lookupError(err, util.USER_NOT_FOUND)
	}
	return user, nil
}

func (s *Service) UpdateUserImage(ctx context.Context, userID, filename, contentType string, body io.Reader) (*models.User, string, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	url, err := s.objects.Upload(ctx, storage.ImageKey("users", user.ID.Hex(), filename), body, contentType)
	if err != nil {
		log.Println("Error from Upload image:", err)
		return nil, "", util.BadGateway(util.IMAGE_UPLOAD_FAILED, err)
	}
	old := user.Image
	user.Image = url
	user.UpdatedAt = s.now()
	if err := s.stores.Users.Save(ctx, user); err != nil {
		log.Println("Error saving user image:", err)
		return nil, "", lookupError(err, util.USER_NOT_FOUND)
	}
	return user, s.deleteImage(ctx, old), nil
}

/*
* The doctor must exist, be verified and available
* Create the gateway order for the doctor's fee and store its id
 */
func (s *Service) BookConsultation(ctx context.Context, userID, doctorID string) (*models.Consultation, *models.CheckoutOrder, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, nil, err
	}
	doctor, err := s.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, nil, err
	}
	if !doctor.IsVerified {
		return nil, nil, util.BadRequest(util.DOCTOR_NOT_VERIFIED)
	}
	if !doctor.Available {
		return nil, nil, util.BadRequest(util.DOCTOR_UNAVAILABLE)
	}

	amount := round2(doctor.Fees)
	paise := payments.ToPaise(amount)
	orderID, err := s.gateway.CreateOrder(ctx, paise, uuid.NewString())
	if err != nil {
		log.Println("Error from CreateOrder:", err)
		return nil, nil, util.BadGateway(util.PAYMENT_ORDER_FAILED, err)
	}

	now := s.now()
	consultation := &models.Consultation{
		UserID:         uid,
		DoctorID:       doctor.ID,
		Amount:         amount,
		PaymentDetails: models.PaymentDetails{OrderID: orderID},
		Messages:       []models.Message{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.stores.Consultations.Create(ctx, consultation); err != nil {
		log.Println("Error from Create consultation:", err)
		return nil, nil, util.Internal(err)
	}
	return consultation, &models.CheckoutOrder{
		OrderID:  orderID,
		Amount:   paise,
		Currency: payments.Currency,
		KeyID:    s.cfg.Razorpay.KeyID,
	}, nil
}

func (s *Service) ownedByUser(ctx context.Context, userID, consultationID string) (*models.Consultation, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	cid, err := parseID(consultationID)
	if err != nil {
		return nil, err
	}
	consultation, err := s.stores.Consultations.FindByID(ctx, cid)
	if err != nil {
		log.Println("Error from FindByID consultation:", err)
		return nil, lookupError(err, util.CONSULTATION_NOT_FOUND)
	}
	if consultation.UserID != uid {
		return nil, util.NotFound(util.CONSULTATION_NOT_FOUND)
	}
	return consultation, nil
}

/*
* The order must be the one created for this consultation
* A valid signature marks it paid and opens the consultation window
 */
func (s *Service) VerifyPayment(ctx context.Context, userID string, req models.PaymentVerification) (*models.Consultation, error) {
	consultation, err := s.ownedByUser(ctx, userID, req.ConsultationID)
	if err != nil {
		return nil, err
	}
	if consultation.PaymentStatus {
		return nil, util.BadRequest(util.PAYMENT_ALREADY_DONE)
	}
	if req.OrderID == "" || req.OrderID != consultation.PaymentDetails.OrderID {
		return nil, util.BadRequest(util.INVALID_PAYMENT)
	}
	if !s.gateway.VerifyPaymentSignature(req.OrderID, req.PaymentID, req.Signature) {
		log.Println("Payment signature mismatch for order", req.OrderID)
		return nil, util.BadRequest(util.INVALID_PAYMENT)
	}

	now := s.now()
	expires := now.Add(s.consultationWindow())
	consultation.PaymentStatus = true
	consultation.PaymentDetails = models.PaymentDetails{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	}
	consultation.ExpiresAt = &expires
	consultation.UpdatedAt = now
	if err := s.stores.Consultations.Save(ctx, consultation); err != nil {
		log.Println("Error saving paid consultation:", err)
		return nil, util.Internal(err)
	}
	return consultation, nil
}

func (s *Service) UserConsultations(ctx context.Context, userID string) ([]models.ConsultationView, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	consultations, err := s.stores.Consultations.List(ctx, store.ConsultationFilter{UserID: &uid})
	if err != nil {
		log.Println("Error from List consultations:", err)
		return nil, util.Internal(err)
	}
	return s.populate(ctx, consultations)
}

func (s *Service) UserConsultation(ctx context.Context, userID, consultationID string) (*models.ConsultationView, error) {
	consultation, err := s.ownedByUser(ctx, userID, consultationID)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, []models.Consultation{*consultation})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) SendUserMessage(ctx context.Context, userID, consultationID, text string) (*models.Consultation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.BadRequest(util.EMPTY_CHAT_MESSAGE)
	}
	consultation, err := s.ownedByUser(ctx, userID, consultationID)
	if err != nil {
		return nil, err
	}
	if !consultation.PaymentStatus {
		return nil, util.BadRequest(util.CONSULTATION_NOT_PAID)
	}
	updated, err := s.stores.Consultations.AppendMessage(ctx, consultation.ID, models.Message{
		Sender:    models.SenderUser,
		Text:      text,
		CreatedAt: s.now(),
	})
	if err != nil {
		log.Println("Error from AppendMessage:", err)
		return nil, lookupError(err, util.CONSULTATION_NOT_FOUND)
	}
	return updated, nil
}
