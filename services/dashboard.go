package services

import (
	"context"
	"log"

	"Cywala/models"
	"Cywala/store"
	"Cywala/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const latestLimit = 5

/*
* Count doctors, patients and consultations
* Attach the five newest consultations, each carrying the settings snapshot
 */
func (s *Service) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	doctors, err := s.stores.Doctors.Count(ctx)
	if err != nil {
		log.Println("Error from Count doctors:", err)
		return nil, util.Internal(err)
	}
	patients, err := s.stores.Users.Count(ctx)
	if err != nil {
		log.Println("Error from Count users:", err)
		return nil, util.Internal(err)
	}
	consultations, err := s.stores.Consultations.Count(ctx, store.ConsultationFilter{})
	if err != nil {
		log.Println("Error from Count consultations:", err)
		return nil, util.Internal(err)
	}
	latest, err := s.stores.Consultations.List(ctx, store.ConsultationFilter{Limit: latestLimit})
	if err != nil {
		log.Println("Error from List consultations:", err)
		return nil, util.Internal(err)
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, latest)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Settings = settings
	}
	return &models.AdminDashboard{
		Doctors:             doctors,
		Patients:            patients,
		Consultations:       consultations,
		LatestConsultations: views,
		Settings:            *settings,
	}, nil
}

func (s *Service) DoctorDashboard(ctx context.Context, doctorID string) (*models.DoctorDashboard, error) {
	id, err := parseID(doctorID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	paid, err := s.stores.Consultations.List(ctx, store.ConsultationFilter{DoctorID: &id, PaidOnly: true, SortBy: store.SortByUpdated})
	if err != nil {
		log.Println("Error from List consultations:", err)
		return nil, util.Internal(err)
	}
	active, err := s.stores.Consultations.Count(ctx, store.ConsultationFilter{DoctorID: &id, PaidOnly: true, ActiveAt: &now})
	if err != nil {
		log.Println("Error from Count consultations:", err)
		return nil, util.Internal(err)
	}

	var earnings float64
	patients := map[primitive.ObjectID]struct{}{}
	for _, c := range paid {
		earnings += c.Amount
		patients[c.UserID] = struct{}{}
	}

	latest := paid
	if len(latest) > latestLimit {
		latest = latest[:latestLimit]
	}
	views, err := s.populate(ctx, latest)
	if err != nil {
		return nil, err
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DoctorDashboard{
		Earnings:      round2(earnings),
		ActiveChats:   active,
		TotalPatients: len(patients),
		LatestChats:   views,
		Settings:      *settings,
	}, nil
}
