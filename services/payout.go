package services

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"time"

	"Cywala/models"
	"Cywala/payments"
	"Cywala/store"
	"Cywala/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MonthLayout = "January 2006"

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculatePayout splits gross into the platform fee and the doctor's net share.
// Fee and net always add back up to the rounded gross.
func CalculatePayout(gross, percentage float64) (fee, net float64) {
	gross = round2(gross)
	fee = round2(gross * percentage / 100)
	net = round2(gross - fee)
	return fee, net
}

// MonthWindow returns the first and last instant of now's calendar month in now's location.
func MonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func ClampPercentage(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

/*
* Group this month's paid consultations by doctor
* Fetch the doctors and apply the current platform percentage
* Doctors that no longer exist are skipped
 */
func (s *Service) ComputeMonthlyPayouts(ctx context.Context) (*models.MonthlyPayouts, error) {
	start, end := MonthWindow(s.now())

	rows, err := s.stores.Consultations.RevenueByDoctor(ctx, start, end)
	if err != nil {
		log.Println("Error from RevenueByDoctor:", err)
		return nil, util.Internal(err)
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.DoctorID)
	}
	doctors, err := s.stores.Doctors.FindByIDs(ctx, ids)
	if err != nil {
		log.Println("Error from FindByIDs doctors:", err)
		return nil, util.Internal(err)
	}

	p := settings.PayoutInterestPercentage
	report := &models.MonthlyPayouts{
		Month:    start.Format(MonthLayout),
		Start:    start,
		Payments: []models.DoctorPayout{},
	}
	for _, r := range rows {
		doctor, ok := doctors[r.DoctorID]
		if !ok {
			log.Println("Skipping payout for missing doctor:", r.DoctorID.Hex())
			continue
		}
		if r.TotalConsultations == 0 {
			continue
		}
		gross := round2(r.TotalAmount)
		fee, net := CalculatePayout(gross, p)
		report.Payments = append(report.Payments, models.DoctorPayout{
			DoctorID:              doctor.ID,
			Name:                  doctor.Name,
			Email:                 doctor.Email,
			Speciality:            doctor.Speciality,
			TotalConsultations:    r.TotalConsultations,
			GrossAmount:           gross,
			PlatformFeePercentage: p,
			PlatformFee:           fee,
			NetPayout:             net,
			Payment:               doctor.Payment,
		})
		report.TotalGrossAmount += gross
		report.TotalNetPayout += net
	}
	sort.Slice(report.Payments, func(i, j int) bool {
		a, b := report.Payments[i], report.Payments[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.DoctorID.Hex() < b.DoctorID.Hex()
	})
	report.TotalDoctors = len(report.Payments)
	report.TotalGrossAmount = round2(report.TotalGrossAmount)
	report.TotalNetPayout = round2(report.TotalNetPayout)
	return report, nil
}

/*
* Load the consultation with its references
* Use the given percentage or the settings value, clamped to 0..100
 */
func (s *Service) PreviewPayout(ctx context.Context, consultationID string, percentage *float64) (*models.PayoutPreview, error) {
	id, err := parseID(consultationID)
	if err != nil {
		return nil, err
	}
	consultation, err := s.stores.Consultations.FindByID(ctx, id)
	if err != nil {
		log.Println("Error from FindByID consultation:", err)
		return nil, lookupError(err, util.CONSULTATION_NOT_FOUND)
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, []models.Consultation{*consultation})
	if err != nil {
		return nil, err
	}

	p := settings.PayoutInterestPercentage
	if percentage != nil {
		p = *percentage
	}
	p = ClampPercentage(p)
	_, net := CalculatePayout(consultation.Amount, p)

	view := views[0]
	view.Settings = settings
	return &models.PayoutPreview{
		Consultation:         view,
		Percentage:           p,
		Amount:               round2(consultation.Amount),
		AmountAfterDeduction: math.Max(0, net),
	}, nil
}

/*
* Check the consultation is paid, belongs to the doctor and has no payout yet
* Claim the payout atomically so a second request cannot transfer again
* Transfer the net share, then complete the claim or release it on failure
 */
func (s *Service) ProcessPayout(ctx context.Context, consultationID, doctorID string, percentage *float64) (*models.PayoutResult, error) {
	cid, err := parseID(consultationID)
	if err != nil {
		return nil, err
	}
	did, err := parseID(doctorID)
	if err != nil {
		return nil, err
	}

	consultation, err := s.stores.Consultations.FindByID(ctx, cid)
	if err != nil {
		log.Println("Error from FindByID consultation:", err)
		return nil, lookupError(err, util.CONSULTATION_NOT_FOUND)
	}
	if consultation.DoctorID != did {
		return nil, util.BadRequest(util.PAYOUT_DOCTOR_MISMATCH)
	}
	if !consultation.PaymentStatus {
		return nil, util.BadRequest(util.CONSULTATION_NOT_PAID)
	}
	if consultation.Payout != nil {
		return nil, util.BadRequest(util.PAYOUT_ALREADY_DONE)
	}

	doctor, err := s.stores.Doctors.FindByID(ctx, did)
	if err != nil {
		log.Println("Error from FindByID doctor:", err)
		return nil, lookupError(err, util.DOCTOR_NOT_FOUND)
	}
	if doctor.Payment.Razorpay.AccountID == "" {
		return nil, util.BadRequest(util.PAYOUT_ACCOUNT_MISSING)
	}

	var p float64
	if percentage != nil {
		if err := ValidatePercentage(*percentage); err != nil {
			return nil, err
		}
		p = *percentage
	} else {
		settings, err := s.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		p = settings.PayoutInterestPercentage
	}
	_, net := CalculatePayout(consultation.Amount, p)
	if net <= 0 {
		return nil, util.BadRequest(util.PAYOUT_AMOUNT_ZERO)
	}

	now := s.now()
	claim := models.PayoutRecord{Percentage: p, Amount: net, ProcessedAt: now}
	if err := s.stores.Consultations.ClaimPayout(ctx, consultation.ID, claim); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, util.BadRequest(util.PAYOUT_ALREADY_DONE)
		}
		log.Println("Error from ClaimPayout:", err)
		return nil, lookupError(err, util.CONSULTATION_NOT_FOUND)
	}

	transactionID, err := s.gateway.Transfer(ctx, doctor.Payment.Razorpay.AccountID, payments.ToPaise(net), map[string]interface{}{
		"consultationId": consultation.ID.Hex(),
		"doctorId":       doctor.ID.Hex(),
	})
	if err != nil {
		log.Println("Error from Transfer:", err)
		if relErr := s.stores.Consultations.ReleasePayout(ctx, consultation.ID, s.now()); relErr != nil {
			log.Println("Error from ReleasePayout, consultation stays claimed:", consultation.ID.Hex(), relErr)
		}
		return nil, util.BadGateway(util.PAYOUT_FAILED, err)
	}

	claim.TransactionID = transactionID
	claim.ProcessedAt = s.now()
	if err := s.stores.Consultations.CompletePayout(ctx, consultation.ID, claim); err != nil {
		// The money has moved; the pending claim blocks any retry until reconciled.
		log.Println("Error recording payout", transactionID, "for consultation", consultation.ID.Hex(), ":", err)
		return nil, util.Internal(err)
	}
	log.Printf("Payout %s of %.2f sent for consultation %s", transactionID, net, consultation.ID.Hex())
	return &models.PayoutResult{TransactionID: transactionID, Amount: net, Percentage: p}, nil
}
