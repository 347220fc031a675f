package repository

import (
	"context"

	"gorm.io/gorm"

	"complaintdesk/internal/model"
)

// StudentRepository defines student persistence operations.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id uint) (*model.Student, error)
	FindByRollNumber(ctx context.Context, rollNumber string) (*model.Student, error)
	// FindByRollNumberOrEmail returns a student holding either unique key,
	// preferring the roll number holder.
	FindByRollNumberOrEmail(ctx context.Context, rollNumber, email string) (*model.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return translate(r.db.WithContext(ctx).Create(student).Error)
}

func (r *studentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, translate(err)
	}
	return &student, nil
}

func (r *studentRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("roll_number = ?", rollNumber).First(&student).Error; err != nil {
		return nil, translate(err)
	}
	return &student, nil
}

func (r *studentRepository) FindByRollNumberOrEmail(ctx context.Context, rollNumber, email string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("roll_number = ? OR email = ?", rollNumber, email).
		Order(matchFirst("roll_number", rollNumber)).
		Take(&student).Error
	if err != nil {
		return nil, translate(err)
	}
	return &student, nil
}
