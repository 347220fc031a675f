package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"complaintdesk/internal/auth"
	"complaintdesk/internal/model"
	"complaintdesk/internal/repository"
)

type authFixture struct {
	students *MockStudentRepository
	teachers *MockTeacherRepository
	admins   *MockAdminRepository
	tokens   *auth.TokenService
	hasher   *auth.PasswordHasher
}

func newAuthFixture() *authFixture {
	return &authFixture{
		students: new(MockStudentRepository),
		teachers: new(MockTeacherRepository),
		admins:   new(MockAdminRepository),
		tokens:   auth.NewTokenService("test-secret", "test", time.Hour),
		hasher:   auth.NewPasswordHasher(bcrypt.MinCost),
	}
}

func (f *authFixture) service(adminKey string) AuthService {
	return NewAuthService(f.students, f.teachers, f.admins, f.tokens, f.hasher, adminKey)
}

func (f *authFixture) assertExpectations(t *testing.T) {
	f.students.AssertExpectations(t)
	f.teachers.AssertExpectations(t)
	f.admins.AssertExpectations(t)
}

func validStudent() StudentRegistration {
	return StudentRegistration{
		RollNumber: "R100", Name: "Asha", Email: "asha@college.edu",
		Password: "secret1", Branch: "CSE", Year: 2,
	}
}

func TestAuthService_RegisterStudent(t *testing.T) {
	tests := []struct {
		name          string
		input         StudentRegistration
		setupMock     func(*MockStudentRepository)
		expectedField string
		expectInvalid bool
	}{
		{
			name:  "successful registration",
			input: validStudent(),
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRollNumberOrEmail", mock.Anything, "R100", "asha@college.edu").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Student")).Return(nil)
			},
		},
		{
			name:  "roll number already exists",
			input: validStudent(),
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRollNumberOrEmail", mock.Anything, "R100", "asha@college.edu").
					Return(&model.Student{RollNumber: "R100", Email: "other@college.edu"}, nil)
			},
			expectedField: "roll_number",
		},
		{
			name:  "email already exists",
			input: validStudent(),
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRollNumberOrEmail", mock.Anything, "R100", "asha@college.edu").
					Return(&model.Student{RollNumber: "R999", Email: "asha@college.edu"}, nil)
			},
			expectedField: "email",
		},
		{
			name: "short password",
			input: func() StudentRegistration {
				in := validStudent()
				in.Password = "12345"
				return in
			}(),
			setupMock:     func(*MockStudentRepository) {},
			expectInvalid: true,
		},
		{
			name: "missing branch",
			input: func() StudentRegistration {
				in := validStudent()
				in.Branch = "  "
				return in
			}(),
			setupMock:     func(*MockStudentRepository) {},
			expectInvalid: true,
		},
		{
			name: "non-positive year",
			input: func() StudentRegistration {
				in := validStudent()
				in.Year = 0
				return in
			}(),
			setupMock:     func(*MockStudentRepository) {},
			expectInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setupMock(f.students)

			student, err := f.service("").RegisterStudent(context.Background(), tt.input)

			switch {
			case tt.expectedField != "":
				var conflict *ConflictError
				require.ErrorAs(t, err, &conflict)
				assert.Equal(t, tt.expectedField, conflict.Field)
				assert.Nil(t, student)
			case tt.expectInvalid:
				var invalidErr *ValidationError
				assert.ErrorAs(t, err, &invalidErr)
				assert.Nil(t, student)
			default:
				require.NoError(t, err)
				assert.Equal(t, "R100", student.RollNumber)
				assert.NotEqual(t, tt.input.Password, student.PasswordHash)
				assert.NoError(t, f.hasher.Compare(student.PasswordHash, tt.input.Password))
			}
			f.assertExpectations(t)
		})
	}
}

func TestAuthService_RegisterStudentLostRace(t *testing.T) {
	f := newAuthFixture()
	f.students.On("FindByRollNumberOrEmail", mock.Anything, "R100", "asha@college.edu").
		Return(nil, repository.ErrNotFound).Once()
	f.students.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
	f.students.On("FindByRollNumberOrEmail", mock.Anything, "R100", "asha@college.edu").
		Return(&model.Student{RollNumber: "R100"}, nil).Once()

	_, err := f.service("").RegisterStudent(context.Background(), validStudent())

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "roll_number", conflict.Field)
	f.assertExpectations(t)
}

func TestAuthService_RegisterTeacherConflict(t *testing.T) {
	f := newAuthFixture()
	f.teachers.On("FindByTeacherIDOrEmail", mock.Anything, "T1", "rao@college.edu").
		Return(&model.Teacher{TeacherID: "T1"}, nil)

	_, err := f.service("").RegisterTeacher(context.Background(), TeacherRegistration{
		TeacherID: "T1", Name: "Rao", Email: "rao@college.edu", Password: "secret1",
		Department: "CSE", Designation: "Professor",
	})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "teacher_id", conflict.Field)
	assert.Equal(t, "teacher_id already exists", conflict.Error())
	f.assertExpectations(t)
}

func TestAuthService_RegisterAdminGate(t *testing.T) {
	admin := AdminRegistration{Username: "root", Name: "Root", Email: "root@college.edu", Password: "secret1"}

	t.Run("bootstrap allowed while no admin exists", func(t *testing.T) {
		f := newAuthFixture()
		f.admins.On("Count", mock.Anything).Return(int64(0), nil)
		f.admins.On("FindByUsernameOrEmail", mock.Anything, "root", "root@college.edu").Return(nil, repository.ErrNotFound)
		f.admins.On("Create", mock.Anything, mock.AnythingOfType("*model.Admin")).Return(nil)

		created, err := f.service("").RegisterAdmin(context.Background(), admin, "")
		require.NoError(t, err)
		assert.Equal(t, "root", created.Username)
		f.assertExpectations(t)
	})

	t.Run("bootstrap closed once an admin exists", func(t *testing.T) {
		f := newAuthFixture()
		f.admins.On("Count", mock.Anything).Return(int64(1), nil)

		_, err := f.service("").RegisterAdmin(context.Background(), admin, "")
		assert.ErrorIs(t, err, ErrRegistrationClosed)
		f.assertExpectations(t)
	})

	t.Run("configured key must match", func(t *testing.T) {
		f := newAuthFixture()

		_, err := f.service("s3cret").RegisterAdmin(context.Background(), admin, "guess")
		assert.ErrorIs(t, err, ErrRegistrationClosed)
		f.admins.AssertNotCalled(t, "Count", mock.Anything)
	})

	t.Run("configured key accepted regardless of existing admins", func(t *testing.T) {
		f := newAuthFixture()
		f.admins.On("FindByUsernameOrEmail", mock.Anything, "root", "root@college.edu").Return(nil, repository.ErrNotFound)
		f.admins.On("Create", mock.Anything, mock.AnythingOfType("*model.Admin")).Return(nil)

		_, err := f.service("s3cret").RegisterAdmin(context.Background(), admin, "s3cret")
		require.NoError(t, err)
		f.assertExpectations(t)
	})
}

func TestAuthService_LoginStudent(t *testing.T) {
	f := newAuthFixture()
	hash, err := f.hasher.Hash("secret1")
	require.NoError(t, err)
	stored := &model.Student{ID: 7, RollNumber: "R100", Name: "Asha", PasswordHash: hash}

	tests := []struct {
		name          string
		roll          string
		password      string
		setupMock     func(*MockStudentRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			roll:     "R100",
			password: "secret1",
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRollNumber", mock.Anything, "R100").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			roll:     "R100",
			password: "wrong-password",
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRollNumber", mock.Anything, "R100").Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "unknown roll number",
			roll:     "R404",
			password: "secret1",
			setupMock: func(m *MockStudentRepository) {
				m.On("FindByRollNumber", mock.Anything, "R404").Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := new(MockStudentRepository)
			tt.setupMock(students)
			f.students = students

			result, err := f.service("").LoginStudent(context.Background(), tt.roll, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, result.Token)
				assert.Equal(t, auth.Identity{Kind: auth.KindStudent, ID: 7, Identifier: "R100", Name: "Asha"}, result.Identity)

				identity, err := f.tokens.Verify(result.Token)
				require.NoError(t, err)
				assert.Equal(t, result.Identity, identity)
			}
			students.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginMessagesDoNotLeakExistence(t *testing.T) {
	f := newAuthFixture()
	hash, err := f.hasher.Hash("secret1")
	require.NoError(t, err)
	f.teachers.On("FindByTeacherID", mock.Anything, "T1").Return(&model.Teacher{ID: 1, TeacherID: "T1", PasswordHash: hash}, nil)
	f.teachers.On("FindByTeacherID", mock.Anything, "T2").Return(nil, repository.ErrNotFound)

	svc := f.service("")
	_, wrongPassword := svc.LoginTeacher(context.Background(), "T1", "nope!!")
	_, unknownUser := svc.LoginTeacher(context.Background(), "T2", "nope!!")

	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthService_LoginAdminStorageError(t *testing.T) {
	f := newAuthFixture()
	boom := errors.New("disk on fire")
	f.admins.On("FindByUsername", mock.Anything, "root").Return(nil, boom)

	_, err := f.service("").LoginAdmin(context.Background(), "root", "secret1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Profiles(t *testing.T) {
	f := newAuthFixture()
	f.students.On("FindByID", mock.Anything, uint(1)).Return(&model.Student{ID: 1}, nil)
	f.students.On("FindByID", mock.Anything, uint(2)).Return(nil, repository.ErrNotFound)
	f.teachers.On("FindByID", mock.Anything, uint(2)).Return(nil, repository.ErrNotFound)
	f.admins.On("FindByID", mock.Anything, uint(2)).Return(nil, repository.ErrNotFound)

	svc := f.service("")
	student, err := svc.StudentProfile(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, student.ID)

	_, err = svc.StudentProfile(context.Background(), 2)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	_, err = svc.TeacherProfile(context.Background(), 2)
	assert.ErrorIs(t, err, ErrTeacherNotFound)
	_, err = svc.AdminProfile(context.Background(), 2)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}
