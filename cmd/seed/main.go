package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"complaintdesk/internal/auth"
	"complaintdesk/internal/cache"
	"complaintdesk/internal/config"
	"complaintdesk/internal/db"
	"complaintdesk/internal/logger"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/service"
)

// SeedData is the JSON document accepted by -data.
type SeedData struct {
	Students   []SeedStudent   `json:"students"`
	Teachers   []SeedTeacher   `json:"teachers"`
	Complaints []SeedComplaint `json:"complaints"`
}

// SeedStudent is one student account to register.
type SeedStudent struct {
	RollNumber string `json:"roll_number"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Branch     string `json:"branch"`
	Year       int    `json:"year"`
}

// SeedTeacher is one teacher account to register.
type SeedTeacher struct {
	TeacherID   string `json:"teacher_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// SeedComplaint is filed on behalf of the student owning RollNumber.
type SeedComplaint struct {
	RollNumber         string `json:"roll_number"`
	ComplaintType      string `json:"complaint_type"`
	Location           string `json:"location"`
	SpecificItem       string `json:"specific_item"`
	ProblemDescription string `json:"problem_description"`
	Suggestions        string `json:"suggestions"`
	Status             string `json:"status"`
}

// Report counts what a seed run did.
type Report struct {
	StudentsCreated   int
	StudentsSkipped   int
	TeachersCreated   int
	TeachersSkipped   int
	ComplaintsCreated int
}

type seeder struct {
	auth       service.AuthService
	complaints service.ComplaintService
	students   repository.StudentRepository
}

func main() {
	var (
		adminUsername = flag.String("admin-username", "", "create an admin with this username")
		adminPassword = flag.String("admin-password", "", "password for -admin-username")
		adminName     = flag.String("admin-name", "Administrator", "display name for -admin-username")
		adminEmail    = flag.String("admin-email", "", "email for -admin-username")
		dataSource    = flag.String("data", "", "path or http(s) URL of a JSON seed document")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: true})

	if *adminUsername == "" && *dataSource == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -admin-username and/or -data")
		flag.Usage()
		os.Exit(2)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close(gormDB)
	logger.Info().Str("driver", cfg.DBDriver).Msg("connected to database")

	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seeded complaints must retire a statistics snapshot cached by a
	// running server.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	var snapshots service.SnapshotCache
	if cacheClient != nil {
		snapshots = cacheClient
	}

	studentRepo := repository.NewStudentRepository(gormDB)
	complaintRepo := repository.NewComplaintRepository(gormDB)
	authService := service.NewAuthService(
		studentRepo,
		repository.NewTeacherRepository(gormDB),
		repository.NewAdminRepository(gormDB),
		auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL),
		auth.NewPasswordHasher(cfg.BcryptCost),
		cfg.AdminRegistrationKey,
	)
	s := &seeder{
		auth:       authService,
		complaints: service.NewComplaintService(studentRepo, complaintRepo, snapshots),
		students:   studentRepo,
	}

	ctx := context.Background()

	if *adminUsername != "" {
		admin, err := authService.CreateAdmin(ctx, service.AdminRegistration{
			Username: *adminUsername,
			Name:     *adminName,
			Email:    *adminEmail,
			Password: *adminPassword,
		})
		if err != nil {
			logger.Fatal().Err(err).Str("username", *adminUsername).Msg("failed to create admin")
		}
		logger.Info().Uint("id", admin.ID).Str("username", admin.Username).Msg("admin created")
	}

	if *dataSource != "" {
		logger.Info().Str("source", *dataSource).Msg("loading seed data")
		data, err := loadSeedData(ctx, *dataSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load seed data")
		}

		report, err := s.seed(ctx, data)
		if err != nil {
			logger.Fatal().Err(err).Msg("seed failed")
		}
		logger.Info().
			Int("students_created", report.StudentsCreated).
			Int("students_skipped", report.StudentsSkipped).
			Int("teachers_created", report.TeachersCreated).
			Int("teachers_skipped", report.TeachersSkipped).
			Int("complaints_created", report.ComplaintsCreated).
			Msg("seed completed")
	}
}

// loadSeedData reads the seed document from a file or an http(s) URL.
func loadSeedData(ctx context.Context, source string) (*SeedData, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch seed data: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		body = f
	}
	defer body.Close()

	var data SeedData
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &data, nil
}

// seed registers accounts and files complaints. Accounts whose unique keys
// already exist are skipped, so a document can be applied more than once.
// Complaints are not deduplicated.
func (s *seeder) seed(ctx context.Context, data *SeedData) (Report, error) {
	var report Report

	for _, st := range data.Students {
		_, err := s.auth.RegisterStudent(ctx, service.StudentRegistration{
			RollNumber: st.RollNumber,
			Name:       st.Name,
			Email:      st.Email,
			Password:   st.Password,
			Branch:     st.Branch,
			Year:       st.Year,
		})
		var conflict *service.ConflictError
		switch {
		case err == nil:
			report.StudentsCreated++
		case errors.As(err, &conflict):
			logger.Debug().Str("roll_number", st.RollNumber).Str("field", conflict.Field).Msg("student exists, skipping")
			report.StudentsSkipped++
		default:
			return report, fmt.Errorf("student %s: %w", st.RollNumber, err)
		}
	}

	for _, te := range data.Teachers {
		_, err := s.auth.RegisterTeacher(ctx, service.TeacherRegistration{
			TeacherID:   te.TeacherID,
			Name:        te.Name,
			Email:       te.Email,
			Password:    te.Password,
			Department:  te.Department,
			Designation: te.Designation,
		})
		var conflict *service.ConflictError
		switch {
		case err == nil:
			report.TeachersCreated++
		case errors.As(err, &conflict):
			logger.Debug().Str("teacher_id", te.TeacherID).Str("field", conflict.Field).Msg("teacher exists, skipping")
			report.TeachersSkipped++
		default:
			return report, fmt.Errorf("teacher %s: %w", te.TeacherID, err)
		}
	}

	for i, c := range data.Complaints {
		student, err := s.students.FindByRollNumber(ctx, c.RollNumber)
		if err != nil {
			return report, fmt.Errorf("complaint %d: student %s: %w", i, c.RollNumber, err)
		}
		created, err := s.complaints.Submit(ctx, student.ID, service.NewComplaint{
			ComplaintType:      c.ComplaintType,
			Location:           c.Location,
			SpecificItem:       c.SpecificItem,
			ProblemDescription: c.ProblemDescription,
			Suggestions:        c.Suggestions,
		})
		if err != nil {
			return report, fmt.Errorf("complaint %d: %w", i, err)
		}
		if c.Status != "" && c.Status != string(created.Status) {
			if err := s.complaints.UpdateStatus(ctx, created.ID, c.Status); err != nil {
				return report, fmt.Errorf("complaint %d: set status %q: %w", i, c.Status, err)
			}
		}
		report.ComplaintsCreated++
	}

	return report, nil
}
