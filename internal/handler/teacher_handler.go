package handler

import (
	"github.com/labstack/echo/v4"

	"complaintdesk/internal/errors"
	"complaintdesk/internal/service"
)

// TeacherHandler handles teacher account endpoints and the teacher complaint view.
type TeacherHandler struct {
	authService      service.AuthService
	complaintService service.ComplaintService
}

// NewTeacherHandler creates a new teacher handler.
func NewTeacherHandler(authService service.AuthService, complaintService service.ComplaintService) *TeacherHandler {
	return &TeacherHandler{authService: authService, complaintService: complaintService}
}

// TeacherRegisterRequest represents a teacher registration request.
type TeacherRegisterRequest struct {
	TeacherID   string `json:"teacher_id" validate:"required" example:"T042"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Department  string `json:"department" validate:"required" example:"CSE"`
	Designation string `json:"designation" validate:"required" example:"Assistant Professor"`
}

// TeacherLoginRequest represents a teacher login request.
type TeacherLoginRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param request body TeacherRegisterRequest true "Registration data"
// @Success 201 {object} errors.Response{data=model.Teacher}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /teachers/register [post]
func (h *TeacherHandler) Register(c echo.Context) error {
	var req TeacherRegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	teacher, err := h.authService.RegisterTeacher(c.Request().Context(), service.TeacherRegistration{
		TeacherID:   req.TeacherID,
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Department:  req.Department,
		Designation: req.Designation,
	})
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return created(c, "teacher registered successfully", teacher)
}

// Login godoc
// @Summary Login as a teacher
// @Tags teachers
// @Accept json
// @Produce json
// @Param request body TeacherLoginRequest true "Login credentials"
// @Success 200 {object} errors.Response{data=LoginResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /teachers/login [post]
func (h *TeacherHandler) Login(c echo.Context) error {
	var req TeacherLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.LoginTeacher(c.Request().Context(), req.TeacherID, req.Password)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "login successful", loginResponse(result.Token, result.ExpiresAt, result.User))
}

// Me godoc
// @Summary Get the authenticated teacher's profile
// @Tags teachers
// @Produce json
// @Success 200 {object} errors.Response{data=model.Teacher}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /teachers/me [get]
func (h *TeacherHandler) Me(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	teacher, err := h.authService.TeacherProfile(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "", teacher)
}

// ListComplaints godoc
// @Summary List all complaints with optional filters
// @Tags teachers
// @Produce json
// @Param branch query string false "Exact branch"
// @Param status query string false "Pending, In Progress or Resolved"
// @Param complaint_type query string false "Exact complaint type"
// @Param search query string false "Case-insensitive substring of name, roll number, description or location"
// @Success 200 {object} errors.Response{data=[]model.Complaint}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /teachers/complaints [get]
func (h *TeacherHandler) ListComplaints(c echo.Context) error {
	return listFiltered(c, h.complaintService)
}

func listFiltered(c echo.Context, complaints service.ComplaintService) error {
	list, err := complaints.List(c.Request().Context(), service.ListFilter{
		Branch:        c.QueryParam("branch"),
		Status:        c.QueryParam("status"),
		ComplaintType: c.QueryParam("complaint_type"),
		Search:        c.QueryParam("search"),
	})
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}
	return ok(c, "", list)
}
