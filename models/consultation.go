package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SenderUser   = "user"
	SenderDoctor = "doctor"
)

type PaymentDetails struct {
	OrderID   string `json:"orderId" bson:"orderId"`
	PaymentID string `json:"paymentId" bson:"paymentId"`
	Signature string `json:"signature" bson:"signature"`
}

type Message struct {
	Sender    string    `json:"sender" bson:"sender"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

const (
	PayoutPending   = "pending"
	PayoutCompleted = "completed"
)

// PayoutRecord claims the consultation as pending before the transfer and
// carries the transaction id once the doctor's share has been sent.
type PayoutRecord struct {
	Status        string    `json:"status" bson:"status"`
	TransactionID string    `json:"transactionId" bson:"transactionId"`
	Percentage    float64   `json:"percentage" bson:"percentage"`
	Amount        float64   `json:"amount" bson:"amount"`
	ProcessedAt   time.Time `json:"processedAt" bson:"processedAt"`
}

type Consultation struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	DoctorID       primitive.ObjectID `json:"doctorId" bson:"doctorId"`
	Amount         float64            `json:"amount" bson:"amount"`
	PaymentStatus  bool               `json:"paymentStatus" bson:"paymentStatus"`
	PaymentDetails PaymentDetails     `json:"paymentDetails" bson:"paymentDetails"`
	Messages       []Message          `json:"messages" bson:"messages"`
	Payout         *PayoutRecord      `json:"payout,omitempty" bson:"payout,omitempty"`
	ExpiresAt      *time.Time         `json:"expiresAt" bson:"expiresAt"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsActive reports whether the consultation window is still open at now.
// Expiry is informational; nothing blocks messaging after it.
func (c Consultation) IsActive(now time.Time) bool {
	return c.PaymentStatus && c.ExpiresAt != nil && c.ExpiresAt.After(now)
}

// ConsultationView is a consultation with its references populated.
// A nil Doctor or User means the referenced record has been deleted.
type ConsultationView struct {
	Consultation `bson:",inline"`
	Doctor       *DoctorSummary `json:"doctor"`
	User         *UserSummary   `json:"user"`
	Settings     *Settings      `json:"settings,omitempty"`
}

// CheckoutOrder is what the client needs to open the payment checkout.
type CheckoutOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type PaymentVerification struct {
	ConsultationID string `json:"consultationId"`
	OrderID        string `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}
