package repository

import (
	"context"

	"gorm.io/gorm"

	"complaintdesk/internal/model"
)

// AdminRepository defines admin persistence operations.
type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	FindByID(ctx context.Context, id uint) (*model.Admin, error)
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.Admin, error)
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return translate(r.db.WithContext(ctx).Create(admin).Error)
}

func (r *adminRepository) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

func (r *adminRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		Order(matchFirst("username", username)).
		Take(&admin).Error
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// Count returns the number of admin accounts.
func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Admin{}).Count(&count).Error
	return count, err
}
