package model

import "time"

// Student is a registered student account. Complaints are filed on behalf of a student.
type Student struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RollNumber   string    `json:"roll_number" gorm:"size:64;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Branch       string    `json:"branch" gorm:"size:100;not null"`
	Year         int       `json:"year" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}
