package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdminDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", nil)
	patient := f.seedUser(t, "Ravi")
	for i := 0; i < 6; i++ {
		f.seedConsultation(t, doctor.ID, patient.ID, 100, true, f.now.Add(time.Duration(i)*time.Minute))
	}
	newest := f.seedConsultation(t, primitive.NewObjectID(), patient.ID, 100, true, f.now.Add(time.Hour))

	dash, err := f.svc.AdminDashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dash.Doctors)
	assert.EqualValues(t, 1, dash.Patients)
	assert.EqualValues(t, 7, dash.Consultations)
	require.Len(t, dash.LatestConsultations, 5)

	first := dash.LatestConsultations[0]
	assert.Equal(t, newest.ID, first.ID)
	assert.Nil(t, first.Doctor)
	require.NotNil(t, first.User)
	assert.Equal(t, "Ravi", first.User.Name)
	assert.Equal(t, "Asha", dash.LatestConsultations[1].Doctor.Name)
	assert.Equal(t, 30.0, dash.Settings.PayoutInterestPercentage)
	for _, item := range dash.LatestConsultations {
		require.NotNil(t, item.Settings)
		assert.Equal(t, 30.0, item.Settings.PayoutInterestPercentage)
	}
}

func TestDoctorDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doctor := f.seedDoctor(t, "Asha", nil)
	p1 := f.seedUser(t, "Ravi")
	p2 := f.seedUser(t, "Meera")

	f.seedConsultation(t, doctor.ID, p1.ID, 500, true, f.now)
	f.seedConsultation(t, doctor.ID, p1.ID, 500, true, f.now.Add(-96*time.Hour))
	f.seedConsultation(t, doctor.ID, p2.ID, 250.5, true, f.now)
	f.seedConsultation(t, doctor.ID, p2.ID, 900, false, f.now)

	dash, err := f.svc.DoctorDashboard(ctx, doctor.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1250.5, dash.Earnings)
	assert.EqualValues(t, 2, dash.ActiveChats)
	assert.Equal(t, 2, dash.TotalPatients)
	assert.Len(t, dash.LatestChats, 3)
}
