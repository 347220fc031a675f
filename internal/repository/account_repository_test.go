package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintdesk/internal/db/dbtest"
	"complaintdesk/internal/model"
	"complaintdesk/internal/repository"
)

func TestStudentRepository(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewStudentRepository(gormDB)
	ctx := context.Background()

	s := &model.Student{RollNumber: "R100", Name: "Alice", Email: "alice@college.edu", PasswordHash: "h", Branch: "CSE", Year: 3}
	require.NoError(t, repo.Create(ctx, s))
	require.NotZero(t, s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "R100", byID.RollNumber)

	byRoll, err := repo.FindByRollNumber(ctx, "R100")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byRoll.ID)

	_, err = repo.FindByRollNumber(ctx, "R404")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	clash, err := repo.FindByRollNumberOrEmail(ctx, "R999", "alice@college.edu")
	require.NoError(t, err)
	assert.Equal(t, s.ID, clash.ID)

	dup := &model.Student{RollNumber: "R100", Name: "Eve", Email: "eve@college.edu", PasswordHash: "h", Branch: "CSE", Year: 1}
	assert.ErrorIs(t, repo.Create(ctx, dup), repository.ErrDuplicate)
}

func TestTeacherRepository(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewTeacherRepository(gormDB)
	ctx := context.Background()

	teacher := &model.Teacher{TeacherID: "T1", Name: "Dr. Rao", Email: "rao@college.edu", PasswordHash: "h", Department: "CSE", Designation: "Professor"}
	require.NoError(t, repo.Create(ctx, teacher))

	got, err := repo.FindByTeacherID(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, got.ID)

	_, err = repo.FindByID(ctx, teacher.ID+1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.FindByTeacherIDOrEmail(ctx, "T2", "other@college.edu")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdminRepository(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewAdminRepository(gormDB)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	admin := &model.Admin{Username: "root", Name: "Root", Email: "root@college.edu", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, admin))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	got, err := repo.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	clash, err := repo.FindByUsernameOrEmail(ctx, "someone", "root@college.edu")
	require.NoError(t, err)
	assert.Equal(t, "root", clash.Username)
}

func TestConflictLookupsPreferTheIdentifier(t *testing.T) {
	gormDB := dbtest.Open(t)
	ctx := context.Background()

	students := repository.NewStudentRepository(gormDB)
	older := &model.Student{RollNumber: "R1", Name: "Older", Email: "r1@college.edu", PasswordHash: "h", Branch: "CSE", Year: 1}
	newer := &model.Student{RollNumber: "R2", Name: "Newer", Email: "r2@college.edu", PasswordHash: "h", Branch: "CSE", Year: 1}
	require.NoError(t, students.Create(ctx, older))
	require.NoError(t, students.Create(ctx, newer))

	student, err := students.FindByRollNumberOrEmail(ctx, "R2", "r1@college.edu")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, student.ID)

	teachers := repository.NewTeacherRepository(gormDB)
	t1 := &model.Teacher{TeacherID: "T1", Name: "A", Email: "t1@college.edu", PasswordHash: "h", Department: "CSE", Designation: "Lecturer"}
	t2 := &model.Teacher{TeacherID: "T2", Name: "B", Email: "t2@college.edu", PasswordHash: "h", Department: "CSE", Designation: "Lecturer"}
	require.NoError(t, teachers.Create(ctx, t1))
	require.NoError(t, teachers.Create(ctx, t2))

	teacher, err := teachers.FindByTeacherIDOrEmail(ctx, "T2", "t1@college.edu")
	require.NoError(t, err)
	assert.Equal(t, t2.ID, teacher.ID)

	admins := repository.NewAdminRepository(gormDB)
	a1 := &model.Admin{Username: "first", Name: "A", Email: "a1@college.edu", PasswordHash: "h"}
	a2 := &model.Admin{Username: "second", Name: "B", Email: "a2@college.edu", PasswordHash: "h"}
	require.NoError(t, admins.Create(ctx, a1))
	require.NoError(t, admins.Create(ctx, a2))

	admin, err := admins.FindByUsernameOrEmail(ctx, "second", "a1@college.edu")
	require.NoError(t, err)
	assert.Equal(t, a2.ID, admin.ID)
}
