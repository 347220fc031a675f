package model

import (
	"errors"
	"time"
)

// ComplaintStatus is the triage state of a complaint.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

// ErrUnknownStatus is returned by ParseStatus for values outside the enum.
var ErrUnknownStatus = errors.New("unknown complaint status")

// Statuses lists every valid status in display order.
func Statuses() []ComplaintStatus {
	return []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved}
}

// ParseStatus converts raw input into a ComplaintStatus. Matching is exact.
func ParseStatus(raw string) (ComplaintStatus, error) {
	for _, s := range Statuses() {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", ErrUnknownStatus
}

// Complaint is a facility complaint filed by a student.
//
// Name, RollNumber and Branch are a snapshot of the submitting student taken at
// submission time. They are never re-derived from the students table, so a
// roll-number lookup keeps returning the complaint even if the student changes.
type Complaint struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	StudentID          uint            `json:"student_id" gorm:"not null;index"`
	Name               string          `json:"name" gorm:"size:255;not null"`
	RollNumber         string          `json:"roll_number" gorm:"size:64;not null;index"`
	Branch             string          `json:"branch" gorm:"size:100;not null;index"`
	ComplaintType      string          `json:"complaint_type" gorm:"size:100;not null;index"`
	Location           string          `json:"location" gorm:"size:255;not null"`
	SpecificItem       *string         `json:"specific_item" gorm:"size:255"`
	ProblemDescription string          `json:"problem_description" gorm:"type:text;not null"`
	Suggestions        *string         `json:"suggestions" gorm:"type:text"`
	Status             ComplaintStatus `json:"status" gorm:"size:20;not null;default:'Pending';index"`
	CreatedAt          time.Time       `json:"created_at" gorm:"index"`

	Student *Student `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}
