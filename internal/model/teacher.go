package model

import "time"

// Teacher is a faculty account with read access to every complaint.
type Teacher struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TeacherID    string    `json:"teacher_id" gorm:"size:64;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Department   string    `json:"department" gorm:"size:100;not null"`
	Designation  string    `json:"designation" gorm:"size:100;not null"`
	CreatedAt    time.Time `json:"created_at"`
}
