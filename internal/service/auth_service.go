package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"complaintdesk/internal/auth"
	"complaintdesk/internal/model"
	"complaintdesk/internal/repository"
)

// StudentRegistration is the input for RegisterStudent.
type StudentRegistration struct {
	RollNumber string
	Name       string
	Email      string
	Password   string
	Branch     string
	Year       int
}

// TeacherRegistration is the input for RegisterTeacher.
type TeacherRegistration struct {
	TeacherID   string
	Name        string
	Email       string
	Password    string
	Department  string
	Designation string
}

// AdminRegistration is the input for RegisterAdmin and CreateAdmin.
type AdminRegistration struct {
	Username string
	Name     string
	Email    string
	Password string
}

// LoginResult is a signed token plus the sanitized account it was issued for.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  auth.Identity
	User      interface{}
}

// AuthService handles registration, login and profile lookups for all account kinds.
type AuthService interface {
	RegisterStudent(ctx context.Context, in StudentRegistration) (*model.Student, error)
	RegisterTeacher(ctx context.Context, in TeacherRegistration) (*model.Teacher, error)
	// RegisterAdmin is the HTTP path: it applies the registration gate.
	RegisterAdmin(ctx context.Context, in AdminRegistration, registrationKey string) (*model.Admin, error)
	// CreateAdmin skips the gate. It is meant for operator tooling only.
	CreateAdmin(ctx context.Context, in AdminRegistration) (*model.Admin, error)

	LoginStudent(ctx context.Context, rollNumber, password string) (*LoginResult, error)
	LoginTeacher(ctx context.Context, teacherID, password string) (*LoginResult, error)
	LoginAdmin(ctx context.Context, username, password string) (*LoginResult, error)

	StudentProfile(ctx context.Context, id uint) (*model.Student, error)
	TeacherProfile(ctx context.Context, id uint) (*model.Teacher, error)
	AdminProfile(ctx context.Context, id uint) (*model.Admin, error)
}

type authService struct {
	students repository.StudentRepository
	teachers repository.TeacherRepository
	admins   repository.AdminRepository
	tokens   *auth.TokenService
	hasher   *auth.PasswordHasher

	adminKey string
	// dummyHash is compared against when the identifier is unknown so that a
	// miss costs the same bcrypt work as a wrong password.
	dummyHash string
}

// NewAuthService creates a new authentication service. adminRegistrationKey
// may be empty, in which case admin registration is open only until the first
// admin exists.
func NewAuthService(
	students repository.StudentRepository,
	teachers repository.TeacherRepository,
	admins repository.AdminRepository,
	tokens *auth.TokenService,
	hasher *auth.PasswordHasher,
	adminRegistrationKey string,
) AuthService {
	dummy, _ := hasher.Hash("placeholder-password")
	return &authService{
		students:  students,
		teachers:  teachers,
		admins:    admins,
		tokens:    tokens,
		hasher:    hasher,
		adminKey:  adminRegistrationKey,
		dummyHash: dummy,
	}
}

func (s *authService) RegisterStudent(ctx context.Context, in StudentRegistration) (*model.Student, error) {
	if err := requireFields(
		"roll_number", in.RollNumber, "name", in.Name, "email", in.Email,
		"password", in.Password, "branch", in.Branch,
	); err != nil {
		return nil, err
	}
	if in.Year <= 0 {
		return nil, invalid("year must be a positive number")
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, invalid("%s", err.Error())
	}

	if err := s.studentConflict(ctx, in.RollNumber, in.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		RollNumber:   in.RollNumber,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Branch:       in.Branch,
		Year:         in.Year,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			if conflict := s.studentConflict(ctx, in.RollNumber, in.Email); conflict != nil {
				return nil, conflict
			}
		}
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

func (s *authService) studentConflict(ctx context.Context, rollNumber, email string) error {
	existing, err := s.students.FindByRollNumberOrEmail(ctx, rollNumber, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check student existence: %w", err)
	}
	if existing.RollNumber == rollNumber {
		return &ConflictError{Field: "roll_number"}
	}
	return &ConflictError{Field: "email"}
}

func (s *authService) RegisterTeacher(ctx context.Context, in TeacherRegistration) (*model.Teacher, error) {
	if err := requireFields(
		"teacher_id", in.TeacherID, "name", in.Name, "email", in.Email, "password", in.Password,
		"department", in.Department, "designation", in.Designation,
	); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, invalid("%s", err.Error())
	}

	if err := s.teacherConflict(ctx, in.TeacherID, in.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	teacher := &model.Teacher{
		TeacherID:    in.TeacherID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Department:   in.Department,
		Designation:  in.Designation,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if conflict := s.teacherConflict(ctx, in.TeacherID, in.Email); conflict != nil {
				return nil, conflict
			}
		}
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	return teacher, nil
}

func (s *authService) teacherConflict(ctx context.Context, teacherID, email string) error {
	existing, err := s.teachers.FindByTeacherIDOrEmail(ctx, teacherID, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check teacher existence: %w", err)
	}
	if existing.TeacherID == teacherID {
		return &ConflictError{Field: "teacher_id"}
	}
	return &ConflictError{Field: "email"}
}

func (s *authService) RegisterAdmin(ctx context.Context, in AdminRegistration, registrationKey string) (*model.Admin, error) {
	if s.adminKey != "" {
		if subtle.ConstantTimeCompare([]byte(registrationKey), []byte(s.adminKey)) != 1 {
			return nil, ErrRegistrationClosed
		}
	} else {
		count, err := s.admins.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count admins: %w", err)
		}
		if count > 0 {
			return nil, ErrRegistrationClosed
		}
	}
	return s.CreateAdmin(ctx, in)
}

func (s *authService) CreateAdmin(ctx context.Context, in AdminRegistration) (*model.Admin, error) {
	if err := requireFields(
		"username", in.Username, "name", in.Name, "email", in.Email, "password", in.Password,
	); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, invalid("%s", err.Error())
	}

	if err := s.adminConflict(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if conflict := s.adminConflict(ctx, in.Username, in.Email); conflict != nil {
				return nil, conflict
			}
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

func (s *authService) adminConflict(ctx context.Context, username, email string) error {
	existing, err := s.admins.FindByUsernameOrEmail(ctx, username, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check admin existence: %w", err)
	}
	if existing.Username == username {
		return &ConflictError{Field: "username"}
	}
	return &ConflictError{Field: "email"}
}

func (s *authService) LoginStudent(ctx context.Context, rollNumber, password string) (*LoginResult, error) {
	student, err := s.students.FindByRollNumber(ctx, rollNumber)
	if err != nil {
		return nil, s.loginMiss(err, password)
	}
	if err := s.hasher.Compare(student.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(auth.Identity{
		Kind:       auth.KindStudent,
		ID:         student.ID,
		Identifier: student.RollNumber,
		Name:       student.Name,
	}, student)
}

func (s *authService) LoginTeacher(ctx context.Context, teacherID, password string) (*LoginResult, error) {
	teacher, err := s.teachers.FindByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, s.loginMiss(err, password)
	}
	if err := s.hasher.Compare(teacher.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(auth.Identity{
		Kind:       auth.KindTeacher,
		ID:         teacher.ID,
		Identifier: teacher.TeacherID,
		Name:       teacher.Name,
	}, teacher)
}

func (s *authService) LoginAdmin(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		return nil, s.loginMiss(err, password)
	}
	if err := s.hasher.Compare(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(auth.Identity{
		Kind:       auth.KindAdmin,
		ID:         admin.ID,
		Identifier: admin.Username,
		Name:       admin.Name,
	}, admin)
}

// loginMiss turns a failed account lookup into ErrInvalidCredentials, spending
// the same hashing work as a password mismatch. Storage errors pass through.
func (s *authService) loginMiss(err error, password string) error {
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("find account: %w", err)
	}
	_ = s.hasher.Compare(s.dummyHash, password)
	return ErrInvalidCredentials
}

func (s *authService) issue(identity auth.Identity, user interface{}) (*LoginResult, error) {
	token, expiresAt, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Identity: identity, User: user}, nil
}

func (s *authService) StudentProfile(ctx context.Context, id uint) (*model.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStudentNotFound
	}
	return student, err
}

func (s *authService) TeacherProfile(ctx context.Context, id uint) (*model.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTeacherNotFound
	}
	return teacher, err
}

func (s *authService) AdminProfile(ctx context.Context, id uint) (*model.Admin, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	return admin, err
}

// requireFields takes name/value pairs and reports the first blank one.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return invalid("%s is required", pairs[i])
		}
	}
	return nil
}
