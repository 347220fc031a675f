package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"complaintdesk/internal/model"
	"complaintdesk/internal/repository"
)

// MockStudentRepository is a mock implementation of StudentRepository.
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *model.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uint) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*model.Student, error) {
	args := m.Called(ctx, rollNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByRollNumberOrEmail(ctx context.Context, rollNumber, email string) (*model.Student, error) {
	args := m.Called(ctx, rollNumber, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

// MockTeacherRepository is a mock implementation of TeacherRepository.
type MockTeacherRepository struct {
	mock.Mock
}

func (m *MockTeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	args := m.Called(ctx, teacher)
	return args.Error(0)
}

func (m *MockTeacherRepository) FindByID(ctx context.Context, id uint) (*model.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) FindByTeacherID(ctx context.Context, teacherID string) (*model.Teacher, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Teacher), args.Error(1)
}

func (m *MockTeacherRepository) FindByTeacherIDOrEmail(ctx context.Context, teacherID, email string) (*model.Teacher, error) {
	args := m.Called(ctx, teacherID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Teacher), args.Error(1)
}

// MockAdminRepository is a mock implementation of AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.Admin, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockComplaintRepository is a mock implementation of ComplaintRepository.
type MockComplaintRepository struct {
	mock.Mock
}

func (m *MockComplaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	args := m.Called(ctx, complaint)
	return args.Error(0)
}

func (m *MockComplaintRepository) FindByID(ctx context.Context, id uint) (*model.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) FindByIDForStudent(ctx context.Context, id, studentID uint) (*model.Complaint, error) {
	args := m.Called(ctx, id, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Complaint, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) ListByRollNumber(ctx context.Context, rollNumber string) ([]model.Complaint, error) {
	args := m.Called(ctx, rollNumber)
	return args.Get(0).([]model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) ListFiltered(ctx context.Context, filter repository.ComplaintFilter) ([]model.Complaint, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Complaint), args.Error(1)
}

func (m *MockComplaintRepository) UpdateStatus(ctx context.Context, id uint, status model.ComplaintStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockComplaintRepository) UpdateStatusForStudent(ctx context.Context, id, studentID uint, status model.ComplaintStatus) error {
	args := m.Called(ctx, id, studentID, status)
	return args.Error(0)
}

func (m *MockComplaintRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockComplaintRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.StatusCount), args.Error(1)
}

func (m *MockComplaintRepository) CountByType(ctx context.Context) ([]model.TypeCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.TypeCount), args.Error(1)
}

func (m *MockComplaintRepository) CountByBranch(ctx context.Context) ([]model.BranchCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.BranchCount), args.Error(1)
}

func (m *MockComplaintRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockSnapshotCache is a mock implementation of SnapshotCache.
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockSnapshotCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockSnapshotCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}
