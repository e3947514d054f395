// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conventional member statuses. Status is free text; these are only the
// values the UI offers by default.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Member is one person in the directory as exchanged with the members API.
//
// ID is assigned by the backend and is opaque to the UI. It is omitted from
// create payloads.
type Member struct {
	ID           string `json:"_id,omitempty"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Role         string `json:"role"`
	Email        string `json:"email"`
	Teams        string `json:"teams"`
	WorkEmail    string `json:"workEmail,omitempty"`
	DOB          string `json:"dob,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Nationality  string `json:"nationality,omitempty"`
	ContactNo    string `json:"contactNo,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// MemberDoc is the stored form of a Member in the reference backend.
type MemberDoc struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	NameCI       string             `bson:"name_ci"` // folded, for sorting
	Status       string             `bson:"status"`
	Role         string             `bson:"role"`
	Email        string             `bson:"email"`
	Teams        string             `bson:"teams"`
	WorkEmail    string             `bson:"work_email,omitempty"`
	DOB          string             `bson:"dob,omitempty"`
	Gender       string             `bson:"gender,omitempty"`
	Nationality  string             `bson:"nationality,omitempty"`
	ContactNo    string             `bson:"contact_no,omitempty"`
	ProfilePhoto string             `bson:"profile_photo,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Member converts the stored document to its wire form.
func (d MemberDoc) Member() Member {
	return Member{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Status:       d.Status,
		Role:         d.Role,
		Email:        d.Email,
		Teams:        d.Teams,
		WorkEmail:    d.WorkEmail,
		DOB:          d.DOB,
		Gender:       d.Gender,
		Nationality:  d.Nationality,
		ContactNo:    d.ContactNo,
		ProfilePhoto: d.ProfilePhoto,
	}
}
