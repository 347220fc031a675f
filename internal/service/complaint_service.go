package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"complaintdesk/internal/model"
	"complaintdesk/internal/repository"
)

// NewComplaint is the student-supplied part of a complaint. SpecificItem and
// Suggestions are optional; blanks are stored as NULL.
type NewComplaint struct {
	ComplaintType      string
	Location           string
	SpecificItem       string
	ProblemDescription string
	Suggestions        string
}

// ListFilter is the raw query of the teacher/admin listing.
type ListFilter struct {
	Branch        string
	Status        string
	ComplaintType string
	Search        string
}

// ComplaintService exposes complaint operations for students, teachers and admins.
type ComplaintService interface {
	Submit(ctx context.Context, studentID uint, in NewComplaint) (*model.Complaint, error)
	ListForStudent(ctx context.Context, studentID uint) ([]model.Complaint, error)
	ListByRollNumber(ctx context.Context, rollNumber string) ([]model.Complaint, error)
	GetForStudent(ctx context.Context, id, studentID uint) (*model.Complaint, error)
	List(ctx context.Context, filter ListFilter) ([]model.Complaint, error)
	UpdateStatusForStudent(ctx context.Context, id, studentID uint, status string) error
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type complaintService struct {
	students   repository.StudentRepository
	complaints repository.ComplaintRepository
	cache      SnapshotCache
}

// NewComplaintService creates a complaint service. Writes retire the cached
// statistics snapshot held in cache, which may be nil.
func NewComplaintService(students repository.StudentRepository, complaints repository.ComplaintRepository, cache SnapshotCache) ComplaintService {
	return &complaintService{students: students, complaints: complaints, cache: cache}
}

// Submit files a complaint for studentID, copying the student's current name,
// roll number and branch onto the row.
func (s *complaintService) Submit(ctx context.Context, studentID uint, in NewComplaint) (*model.Complaint, error) {
	if err := requireFields(
		"complaint_type", in.ComplaintType, "location", in.Location,
		"problem_description", in.ProblemDescription,
	); err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, studentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}

	complaint := &model.Complaint{
		StudentID:          student.ID,
		Name:               student.Name,
		RollNumber:         student.RollNumber,
		Branch:             student.Branch,
		ComplaintType:      in.ComplaintType,
		Location:           in.Location,
		SpecificItem:       optional(in.SpecificItem),
		ProblemDescription: in.ProblemDescription,
		Suggestions:        optional(in.Suggestions),
		Status:             model.StatusPending,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	s.invalidateStatistics(ctx)

	created, err := s.complaints.FindByID(ctx, complaint.ID)
	if err != nil {
		return nil, fmt.Errorf("read back complaint %d: %w", complaint.ID, err)
	}
	return created, nil
}

func (s *complaintService) ListForStudent(ctx context.Context, studentID uint) ([]model.Complaint, error) {
	return s.complaints.ListByStudent(ctx, studentID)
}

func (s *complaintService) ListByRollNumber(ctx context.Context, rollNumber string) ([]model.Complaint, error) {
	return s.complaints.ListByRollNumber(ctx, rollNumber)
}

func (s *complaintService) GetForStudent(ctx context.Context, id, studentID uint) (*model.Complaint, error) {
	complaint, err := s.complaints.FindByIDForStudent(ctx, id, studentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrComplaintNotFound
	}
	return complaint, err
}

func (s *complaintService) List(ctx context.Context, filter ListFilter) ([]model.Complaint, error) {
	f := repository.ComplaintFilter{
		Branch:        strings.TrimSpace(filter.Branch),
		ComplaintType: strings.TrimSpace(filter.ComplaintType),
		Search:        strings.TrimSpace(filter.Search),
	}
	if filter.Status != "" {
		status, err := model.ParseStatus(filter.Status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		f.Status = status
	}
	return s.complaints.ListFiltered(ctx, f)
}

// UpdateStatusForStudent only touches a complaint owned by studentID; any other
// id is reported as ErrComplaintNotFound.
func (s *complaintService) UpdateStatusForStudent(ctx context.Context, id, studentID uint, raw string) error {
	status, err := model.ParseStatus(raw)
	if err != nil {
		return ErrInvalidStatus
	}
	if err := s.complaints.UpdateStatusForStudent(ctx, id, studentID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("update complaint %d: %w", id, err)
	}
	s.invalidateStatistics(ctx)
	return nil
}

// UpdateStatus changes any complaint regardless of owner. Any status may
// follow any other.
func (s *complaintService) UpdateStatus(ctx context.Context, id uint, raw string) error {
	status, err := model.ParseStatus(raw)
	if err != nil {
		return ErrInvalidStatus
	}
	if err := s.complaints.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("update complaint %d: %w", id, err)
	}
	s.invalidateStatistics(ctx)
	return nil
}

// invalidateStatistics moves readers to a new snapshot generation and drops
// the previous generation's snapshot.
func (s *complaintService) invalidateStatistics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	generation, _ := s.cache.Incr(ctx, statisticsGenerationKey)
	if generation > 0 {
		_ = s.cache.Delete(ctx, statisticsCacheKey(generation-1))
	}
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
