package handler

import (
	"github.com/labstack/echo/v4"

	"complaintdesk/internal/errors"
	"complaintdesk/internal/service"
)

// AdminRegistrationKeyHeader carries the admin registration key when one is configured.
const AdminRegistrationKeyHeader = "X-Admin-Registration-Key"

// AdminHandler handles admin account, triage and statistics endpoints.
type AdminHandler struct {
	authService       service.AuthService
	complaintService  service.ComplaintService
	statisticsService service.StatisticsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	authService service.AuthService,
	complaintService service.ComplaintService,
	statisticsService service.StatisticsService,
) *AdminHandler {
	return &AdminHandler{
		authService:       authService,
		complaintService:  complaintService,
		statisticsService: statisticsService,
	}
}

// AdminRegisterRequest represents an admin registration request.
type AdminRegisterRequest struct {
	Username string `json:"username" validate:"required" example:"warden"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AdminLoginRequest represents an admin login request.
type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register an admin
// @Description Requires the X-Admin-Registration-Key header when a key is configured. Without a key only the first admin can register.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Admin-Registration-Key header string false "Admin registration key"
// @Param request body AdminRegisterRequest true "Registration data"
// @Success 201 {object} errors.Response{data=model.Admin}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/register [post]
func (h *AdminHandler) Register(c echo.Context) error {
	var req AdminRegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.authService.RegisterAdmin(c.Request().Context(), service.AdminRegistration{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, c.Request().Header.Get(AdminRegistrationKeyHeader))
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return created(c, "admin registered successfully", admin)
}

// Login godoc
// @Summary Login as an admin
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Login credentials"
// @Success 200 {object} errors.Response{data=LoginResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.LoginAdmin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "login successful", loginResponse(result.Token, result.ExpiresAt, result.User))
}

// Me godoc
// @Summary Get the authenticated admin's profile
// @Tags admin
// @Produce json
// @Success 200 {object} errors.Response{data=model.Admin}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/me [get]
func (h *AdminHandler) Me(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	admin, err := h.authService.AdminProfile(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "", admin)
}

// ListComplaints godoc
// @Summary List all complaints with optional filters
// @Tags admin
// @Produce json
// @Param branch query string false "Exact branch"
// @Param status query string false "Pending, In Progress or Resolved"
// @Param complaint_type query string false "Exact complaint type"
// @Param search query string false "Case-insensitive substring of name, roll number, description or location"
// @Success 200 {object} errors.Response{data=[]model.Complaint}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/complaints [get]
func (h *AdminHandler) ListComplaints(c echo.Context) error {
	return listFiltered(c, h.complaintService)
}

// UpdateComplaintStatus godoc
// @Summary Update the status of any complaint
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param request body StatusUpdateRequest true "New status"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/complaints/{id}/status [patch]
func (h *AdminHandler) UpdateComplaintStatus(c echo.Context) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	var req StatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.complaintService.UpdateStatus(c.Request().Context(), id, req.Status); err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "complaint status updated successfully", nil)
}

// Statistics godoc
// @Summary Complaint statistics for the admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} errors.Response{data=model.Statistics}
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/statistics [get]
func (h *AdminHandler) Statistics(c echo.Context) error {
	stats, err := h.statisticsService.Compute(c.Request().Context())
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}
	return ok(c, "", stats)
}
