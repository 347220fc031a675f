package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"complaintdesk/internal/model"
)

const newestFirst = "created_at DESC, id DESC"

// ComplaintFilter narrows an unscoped listing. Empty fields are ignored.
// Exact-match fields are combined with AND; Search matches a case-insensitive
// substring of name, roll number, description or location (OR across columns).
type ComplaintFilter struct {
	Branch        string
	Status        model.ComplaintStatus
	ComplaintType string
	Search        string
}

// ComplaintRepository defines complaint persistence and aggregate operations.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	FindByID(ctx context.Context, id uint) (*model.Complaint, error)
	FindByIDForStudent(ctx context.Context, id, studentID uint) (*model.Complaint, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.Complaint, error)
	ListByRollNumber(ctx context.Context, rollNumber string) ([]model.Complaint, error)
	ListFiltered(ctx context.Context, filter ComplaintFilter) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id uint, status model.ComplaintStatus) error
	UpdateStatusForStudent(ctx context.Context, id, studentID uint, status model.ComplaintStatus) error

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
	CountByType(ctx context.Context) ([]model.TypeCount, error)
	CountByBranch(ctx context.Context) ([]model.BranchCount, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new complaint repository.
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	return translate(r.db.WithContext(ctx).Omit("Student").Create(complaint).Error)
}

func (r *complaintRepository) FindByID(ctx context.Context, id uint) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, id).Error; err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

// FindByIDForStudent folds ownership into the query: a complaint owned by
// someone else is reported exactly like a missing one.
func (r *complaintRepository) FindByIDForStudent(ctx context.Context, id, studentID uint) (*model.Complaint, error) {
	var complaint model.Complaint
	err := r.db.WithContext(ctx).
		Where("id = ? AND student_id = ?", id, studentID).
		First(&complaint).Error
	if err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Complaint, error) {
	complaints := []model.Complaint{}
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order(newestFirst).
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ListByRollNumber(ctx context.Context, rollNumber string) ([]model.Complaint, error) {
	complaints := []model.Complaint{}
	err := r.db.WithContext(ctx).
		Where("roll_number = ?", rollNumber).
		Order(newestFirst).
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ListFiltered(ctx context.Context, filter ComplaintFilter) ([]model.Complaint, error) {
	q := r.db.WithContext(ctx).Model(&model.Complaint{})
	if filter.Branch != "" {
		q = q.Where("branch = ?", filter.Branch)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ComplaintType != "" {
		q = q.Where("complaint_type = ?", filter.ComplaintType)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"(LOWER(name) LIKE ? OR LOWER(roll_number) LIKE ? OR LOWER(problem_description) LIKE ? OR LOWER(location) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}

	complaints := []model.Complaint{}
	err := q.Order(newestFirst).Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id uint, status model.ComplaintStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ?", id).
		Update("status", status)
	return affected(res)
}

func (r *complaintRepository) UpdateStatusForStudent(ctx context.Context, id, studentID uint, status model.ComplaintStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ? AND student_id = ?", id, studentID).
		Update("status", status)
	return affected(res)
}

func (r *complaintRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).Count(&count).Error
	return count, err
}

func (r *complaintRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	rows := []model.StatusCount{}
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

func (r *complaintRepository) CountByType(ctx context.Context) ([]model.TypeCount, error) {
	rows := []model.TypeCount{}
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("complaint_type, COUNT(*) AS count").
		Group("complaint_type").
		Order("complaint_type").
		Scan(&rows).Error
	return rows, err
}

func (r *complaintRepository) CountByBranch(ctx context.Context) ([]model.BranchCount, error) {
	rows := []model.BranchCount{}
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Select("branch, COUNT(*) AS count").
		Group("branch").
		Order("branch").
		Scan(&rows).Error
	return rows, err
}

func (r *complaintRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("created_at >= ?", since.UTC()).
		Count(&count).Error
	return count, err
}

// affected reports ErrNotFound when an update matched no rows.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
