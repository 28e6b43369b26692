package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DoctorRevenue is one $group row of the monthly aggregation.
type DoctorRevenue struct {
	DoctorID           primitive.ObjectID `bson:"_id"`
	TotalConsultations int                `bson:"totalConsultations"`
	TotalAmount        float64            `bson:"totalAmount"`
}

type DoctorPayout struct {
	DoctorID              primitive.ObjectID `json:"doctorId"`
	Name                  string             `json:"name"`
	Email                 string             `json:"email"`
	Speciality            string             `json:"speciality"`
	TotalConsultations    int                `json:"totalConsultations"`
	GrossAmount           float64            `json:"grossAmount"`
	PlatformFeePercentage float64            `json:"platformFeePercentage"`
	PlatformFee           float64            `json:"platformFee"`
	NetPayout             float64            `json:"netPayout"`
	Payment               PaymentInfo        `json:"payment"`
}

type MonthlyPayouts struct {
	Month            string         `json:"month"`
	Start            time.Time      `json:"-"`
	Payments         []DoctorPayout `json:"payments"`
	TotalDoctors     int            `json:"totalDoctors"`
	TotalGrossAmount float64        `json:"totalGrossAmount"`
	TotalNetPayout   float64        `json:"totalNetPayout"`
}

type PayoutPreview struct {
	Consultation         ConsultationView `json:"consultation"`
	Percentage           float64          `json:"percentage"`
	Amount               float64          `json:"amount"`
	AmountAfterDeduction float64          `json:"amountAfterDeduction"`
}

type PayoutResult struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Percentage    float64 `json:"percentage"`
}
