package services

import (
	"context"
	"log"

	"Cywala/models"
	"Cywala/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

/*
* Batch load the doctors and users the consultations point at
* A deleted reference populates as nil
 */
func (s *Service) populate(ctx context.Context, consultations []models.Consultation) ([]models.ConsultationView, error) {
	doctorIDs := make([]primitive.ObjectID, 0, len(consultations))
	userIDs := make([]primitive.ObjectID, 0, len(consultations))
	for _, c := range consultations {
		doctorIDs = append(doctorIDs, c.DoctorID)
		userIDs = append(userIDs, c.UserID)
	}
	doctors, err := s.stores.Doctors.FindByIDs(ctx, doctorIDs)
	if err != nil {
		log.Println("Error from FindByIDs doctors:", err)
		return nil, util.Internal(err)
	}
	users, err := s.stores.Users.FindByIDs(ctx, userIDs)
	if err != nil {
		log.Println("Error from FindByIDs users:", err)
		return nil, util.Internal(err)
	}

	views := make([]models.ConsultationView, 0, len(consultations))
	for _, c := range consultations {
		views = append(views, models.ConsultationView{
			Consultation: c,
			Doctor:       doctors[c.DoctorID].Summary(),
			User:         users[c.UserID].Summary(),
		})
	}
	return views, nil
}
