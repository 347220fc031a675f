package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"complaintdesk/internal/auth"
	"complaintdesk/internal/config"
	"complaintdesk/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens *auth.TokenService,
	studentHandler *handler.StudentHandler,
	teacherHandler *handler.TeacherHandler,
	adminHandler *handler.AdminHandler,
	complaintHandler *handler.ComplaintHandler,
) {
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewValidator()

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			handler.AdminRegistrationKeyHeader,
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authenticated := Authenticate(tokens)
	asStudent := []echo.MiddlewareFunc{authenticated, RequireKind(auth.KindStudent)}
	asTeacher := []echo.MiddlewareFunc{authenticated, RequireKind(auth.KindTeacher)}
	asAdmin := []echo.MiddlewareFunc{authenticated, RequireKind(auth.KindAdmin)}

	api := e.Group("/api")

	// Students
	api.POST("/students/register", studentHandler.Register)
	api.POST("/students/login", studentHandler.Login)
	api.GET("/students/me", studentHandler.Me, asStudent...)

	// Teachers
	api.POST("/teachers/register", teacherHandler.Register)
	api.POST("/teachers/login", teacherHandler.Login)
	api.GET("/teachers/me", teacherHandler.Me, asTeacher...)
	api.GET("/teachers/complaints", teacherHandler.ListComplaints, asTeacher...)

	// Admin
	api.POST("/admin/register", adminHandler.Register)
	api.POST("/admin/login", adminHandler.Login)
	api.GET("/admin/me", adminHandler.Me, asAdmin...)
	api.GET("/admin/complaints", adminHandler.ListComplaints, asAdmin...)
	api.PATCH("/admin/complaints/:id/status", adminHandler.UpdateComplaintStatus, asAdmin...)
	api.GET("/admin/statistics", adminHandler.Statistics, asAdmin...)

	// Complaints. The roll number lookup is public.
	api.GET("/complaints/by-roll-number/:roll_number", complaintHandler.ListByRollNumber)
	api.POST("/complaints", complaintHandler.Create, asStudent...)
	api.GET("/complaints", complaintHandler.List, asStudent...)
	api.GET("/complaints/:id", complaintHandler.Get, asStudent...)
	api.PATCH("/complaints/:id/status", complaintHandler.UpdateStatus, asStudent...)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
