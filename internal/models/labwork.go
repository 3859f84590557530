package models

import "time"

type LabWorkStatus string

const (
	LabWorkSent     LabWorkStatus = "Sent"
	LabWorkReceived LabWorkStatus = "Received"
	LabWorkFitted   LabWorkStatus = "Fitted"
)

func (s LabWorkStatus) Valid() bool {
	switch s {
	case LabWorkSent, LabWorkReceived, LabWorkFitted:
		return true
	}
	return false
}

type LabWork struct {
	ID          string        `bson:"_id" json:"id"`
	PatientName string        `bson:"patientName" json:"patientName"`
	LabName     string        `bson:"labName" json:"labName"`
	TypeOfWork  string        `bson:"typeOfWork" json:"typeOfWork"`
	DateSent    time.Time     `bson:"dateSent" json:"dateSent"`
	DateDue     time.Time     `bson:"dateDue" json:"dateDue"`
	Status      LabWorkStatus `bson:"status" json:"status"`
	Cost        float64       `bson:"cost" json:"cost"`
}
