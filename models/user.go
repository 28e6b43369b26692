package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Image     string             `json:"image" bson:"image"`
	Phone     string             `json:"phone" bson:"phone"`
	Address   string             `json:"address" bson:"address"`
	Gender    string             `json:"gender" bson:"gender"`
	DOB       string             `json:"dob" bson:"dob"`
	IsBlocked bool               `json:"isBlocked" bson:"isBlocked"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type UserSummary struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
	Image string             `json:"image,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

type UserProfileUpdate struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Gender  *string `json:"gender"`
	DOB     *string `json:"dob"`
}

func (u UserProfileUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
	if u.Gender != nil {
		user.Gender = *u.Gender
	}
	if u.DOB != nil {
		user.DOB = *u.DOB
	}
}
