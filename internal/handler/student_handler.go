package handler

import (
	"github.com/labstack/echo/v4"

	"complaintdesk/internal/errors"
	"complaintdesk/internal/service"
)

// StudentHandler handles student account endpoints.
type StudentHandler struct {
	authService service.AuthService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(authService service.AuthService) *StudentHandler {
	return &StudentHandler{authService: authService}
}

// StudentRegisterRequest represents a student registration request.
type StudentRegisterRequest struct {
	RollNumber string      `json:"roll_number" validate:"required" example:"R100"`
	Name       string      `json:"name" validate:"required" example:"Asha Verma"`
	Email      string      `json:"email" validate:"required,email" example:"asha@college.edu"`
	Password   string      `json:"password" validate:"required,min=6" example:"secret1"`
	Branch     string      `json:"branch" validate:"required" example:"CSE"`
	Year       flexibleInt `json:"year" validate:"required,gt=0" swaggertype:"integer" example:"2"`
}

// StudentLoginRequest represents a student login request.
type StudentLoginRequest struct {
	RollNumber string `json:"roll_number" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new student
// @Tags students
// @Accept json
// @Produce json
// @Param request body StudentRegisterRequest true "Registration data"
// @Success 201 {object} errors.Response{data=model.Student}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students/register [post]
func (h *StudentHandler) Register(c echo.Context) error {
	var req StudentRegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	student, err := h.authService.RegisterStudent(c.Request().Context(), service.StudentRegistration{
		RollNumber: req.RollNumber,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Branch:     req.Branch,
		Year:       int(req.Year),
	})
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return created(c, "student registered successfully", student)
}

// Login godoc
// @Summary Login as a student
// @Tags students
// @Accept json
// @Produce json
// @Param request body StudentLoginRequest true "Login credentials"
// @Success 200 {object} errors.Response{data=LoginResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /students/login [post]
func (h *StudentHandler) Login(c echo.Context) error {
	var req StudentLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.LoginStudent(c.Request().Context(), req.RollNumber, req.Password)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "login successful", loginResponse(result.Token, result.ExpiresAt, result.User))
}

// Me godoc
// @Summary Get the authenticated student's profile
// @Tags students
// @Produce json
// @Success 200 {object} errors.Response{data=model.Student}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /students/me [get]
func (h *StudentHandler) Me(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	student, err := h.authService.StudentProfile(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "", student)
}
