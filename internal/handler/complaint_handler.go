package handler

import (
	"github.com/labstack/echo/v4"

	"complaintdesk/internal/errors"
	"complaintdesk/internal/service"
)

// ComplaintHandler handles the student-owned complaint endpoints and the public roll number lookup.
type ComplaintHandler struct {
	complaintService service.ComplaintService
}

// NewComplaintHandler creates a new complaint handler.
func NewComplaintHandler(complaintService service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// CreateComplaintRequest represents a complaint submission.
type CreateComplaintRequest struct {
	ComplaintType      string `json:"complaint_type" validate:"required" example:"Fans"`
	Location           string `json:"location" validate:"required" example:"Hostel B, Room 214"`
	SpecificItem       string `json:"specific_item" example:"Ceiling fan"`
	ProblemDescription string `json:"problem_description" validate:"required" example:"Fan does not start"`
	Suggestions        string `json:"suggestions"`
}

// Create godoc
// @Summary Submit a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param request body CreateComplaintRequest true "Complaint"
// @Success 201 {object} errors.Response{data=model.Complaint}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /complaints [post]
func (h *ComplaintHandler) Create(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req CreateComplaintRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaintService.Submit(c.Request().Context(), identity.ID, service.NewComplaint{
		ComplaintType:      req.ComplaintType,
		Location:           req.Location,
		SpecificItem:       req.SpecificItem,
		ProblemDescription: req.ProblemDescription,
		Suggestions:        req.Suggestions,
	})
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return created(c, "complaint submitted successfully", complaint)
}

// List godoc
// @Summary List the authenticated student's complaints
// @Tags complaints
// @Produce json
// @Success 200 {object} errors.Response{data=[]model.Complaint}
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /complaints [get]
func (h *ComplaintHandler) List(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}

	list, err := h.complaintService.ListForStudent(c.Request().Context(), identity.ID)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}
	return ok(c, "", list)
}

// ListByRollNumber godoc
// @Summary List complaints filed under a roll number
// @Description Public lookup, no token required.
// @Tags complaints
// @Produce json
// @Param roll_number path string true "Roll number"
// @Success 200 {object} errors.Response{data=[]model.Complaint}
// @Router /complaints/by-roll-number/{roll_number} [get]
func (h *ComplaintHandler) ListByRollNumber(c echo.Context) error {
	list, err := h.complaintService.ListByRollNumber(c.Request().Context(), c.Param("roll_number"))
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}
	return ok(c, "", list)
}

// Get godoc
// @Summary Get one of the authenticated student's complaints
// @Tags complaints
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} errors.Response{data=model.Complaint}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) Get(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := complaintID(c)
	if err != nil {
		return err
	}

	complaint, err := h.complaintService.GetForStudent(c.Request().Context(), id, identity.ID)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}
	return ok(c, "", complaint)
}

// UpdateStatus godoc
// @Summary Update the status of one of the authenticated student's complaints
// @Tags complaints
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param request body StatusUpdateRequest true "New status"
// @Success 200 {object} errors.Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /complaints/{id}/status [patch]
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	identity, err := identityFrom(c)
	if err != nil {
		return err
	}
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	var req StatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.complaintService.UpdateStatusForStudent(c.Request().Context(), id, identity.ID, req.Status); err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return ok(c, "complaint status updated successfully", nil)
}
