package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProfileIncomplete = "incomplete"
	ProfileComplete   = "complete"
)

// BankAccount fields are never absent: a missing value is always "".
type BankAccount struct {
	AccountHolderName string `json:"accountHolderName" bson:"accountHolderName"`
	AccountNumber     string `json:"accountNumber" bson:"accountNumber"`
	IfscCode          string `json:"ifscCode" bson:"ifscCode"`
	BankName          string `json:"bankName" bson:"bankName"`
	BranchName        string `json:"branchName" bson:"branchName"`
}

type RazorpayAccount struct {
	AccountID string `json:"accountId" bson:"accountId"`
	KeyID     string `json:"keyId" bson:"keyId"`
}

type PaymentInfo struct {
	BankAccount BankAccount     `json:"bankAccount" bson:"bankAccount"`
	Razorpay    RazorpayAccount `json:"razorpay" bson:"razorpay"`
}

type Doctor struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Email         string             `json:"email,omitempty" bson:"email"`
	Password      string             `json:"-" bson:"password"`
	Image         string             `json:"image" bson:"image"`
	Speciality    string             `json:"speciality" bson:"speciality"`
	Degree        string             `json:"degree" bson:"degree"`
	Experience    string             `json:"experience" bson:"experience"`
	About         string             `json:"about" bson:"about"`
	Available     bool               `json:"available" bson:"available"`
	Fees          float64            `json:"fees" bson:"fees"`
	IsVerified    bool               `json:"isVerified" bson:"isVerified"`
	OTP           string             `json:"-" bson:"otp,omitempty"`
	OTPExpires    *time.Time         `json:"-" bson:"otpExpires,omitempty"`
	ProfileStatus string             `json:"profileStatus" bson:"profileStatus"`
	MobileNumber  string             `json:"mobileNumber" bson:"mobileNumber"`
	Address       string             `json:"address" bson:"address"`
	Payment       PaymentInfo        `json:"payment" bson:"payment"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PublicView hides the contact email for the patient-facing doctor list.
func (d Doctor) PublicView() Doctor {
	d.Email = ""
	d.Payment = PaymentInfo{}
	return d
}

// DoctorSummary is the populated form of a consultation's doctor reference.
type DoctorSummary struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	Speciality string             `json:"speciality,omitempty"`
	Image      string             `json:"image,omitempty"`
}

func (d *Doctor) Summary() *DoctorSummary {
	if d == nil {
		return nil
	}
	return &DoctorSummary{ID: d.ID, Name: d.Name, Speciality: d.Speciality, Image: d.Image}
}

// DoctorProfileUpdate carries the editable profile fields; nil leaves a field unchanged.
type DoctorProfileUpdate struct {
	Name         *string      `json:"name"`
	Speciality   *string      `json:"speciality"`
	Degree       *string      `json:"degree"`
	Experience   *string      `json:"experience"`
	About        *string      `json:"about"`
	Fees         *float64     `json:"fees"`
	Available    *bool        `json:"available"`
	MobileNumber *string      `json:"mobileNumber"`
	Address      *string      `json:"address"`
	Payment      *PaymentInfo `json:"payment"`
}

func (u DoctorProfileUpdate) Apply(d *Doctor) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Speciality != nil {
		d.Speciality = *u.Speciality
	}
	if u.Degree != nil {
		d.Degree = *u.Degree
	}
	if u.Experience != nil {
		d.Experience = *u.Experience
	}
	if u.About != nil {
		d.About = *u.About
	}
	if u.Fees != nil {
		d.Fees = *u.Fees
	}
	if u.Available != nil {
		d.Available = *u.Available
	}
	if u.MobileNumber != nil {
		d.MobileNumber = *u.MobileNumber
	}
	if u.Address != nil {
		d.Address = *u.Address
	}
	if u.Payment != nil {
		d.Payment = *u.Payment
	}
}
