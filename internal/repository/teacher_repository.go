package repository

import (
	"context"

	"gorm.io/gorm"

	"complaintdesk/internal/model"
)

// TeacherRepository defines teacher persistence operations.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	FindByID(ctx context.Context, id uint) (*model.Teacher, error)
	FindByTeacherID(ctx context.Context, teacherID string) (*model.Teacher, error)
	FindByTeacherIDOrEmail(ctx context.Context, teacherID, email string) (*model.Teacher, error)
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository creates a new teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	return translate(r.db.WithContext(ctx).Create(teacher).Error)
}

func (r *teacherRepository) FindByID(ctx context.Context, id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return nil, translate(err)
	}
	return &teacher, nil
}

func (r *teacherRepository) FindByTeacherID(ctx context.Context, teacherID string) (*model.Teacher, error) {
	var teacher model.Teacher
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).First(&teacher).Error; err != nil {
		return nil, translate(err)
	}
	return &teacher, nil
}

func (r *teacherRepository) FindByTeacherIDOrEmail(ctx context.Context, teacherID, email string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? OR email = ?", teacherID, email).
		Order(matchFirst("teacher_id", teacherID)).
		Take(&teacher).Error
	if err != nil {
		return nil, translate(err)
	}
	return &teacher, nil
}
