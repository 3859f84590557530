package models

import (
	"strings"
	"time"
)

// NewID is the id a client sends for an entity that has not been saved yet.
const NewID = "new"

// ExternalIDPrefix marks appointments imported from the external calendar.
const ExternalIDPrefix = "outlook-"

type Attachment struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	Type string `bson:"type" json:"type"` // MIME type
	Data string `bson:"data" json:"data"` // data URL
}

type Appointment struct {
	ID             string       `bson:"_id" json:"id"`
	PatientName    string       `bson:"patientName" json:"patientName"`
	PhoneNumber    string       `bson:"phoneNumber" json:"phoneNumber"`
	DateTime       time.Time    `bson:"dateTime" json:"dateTime"`
	ChiefComplaint string       `bson:"chiefComplaint" json:"chiefComplaint"`
	WorkDone       string       `bson:"workDone" json:"workDone"`
	PaymentDone    float64      `bson:"paymentDone" json:"paymentDone"`
	PaymentDue     float64      `bson:"paymentDue" json:"paymentDue"`
	IsPaid         bool         `bson:"isPaid" json:"isPaid"`
	Notes          string       `bson:"notes" json:"notes"`
	SelectedTeeth  []int        `bson:"selectedTeeth" json:"selectedTeeth"`
	XrayImageURL   string       `bson:"xrayImageUrl" json:"xrayImageUrl"`
	Attachments    []Attachment `bson:"attachments" json:"attachments"`
}

// IsNew reports whether the appointment still needs an id.
func (a Appointment) IsNew() bool {
	return a.ID == "" || a.ID == NewID
}

// IsExternal reports whether the appointment came from the external calendar.
func (a Appointment) IsExternal() bool {
	return strings.HasPrefix(a.ID, ExternalIDPrefix)
}
