package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"complaintdesk/internal/auth"
	"complaintdesk/internal/errors"
)

// IdentityContextKey is where the authentication middleware stores the caller's auth.Identity.
const IdentityContextKey = "identity"

// LoginResponse is the data part of a successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      interface{} `json:"user"`
}

// StatusUpdateRequest is the body of both status update endpoints.
type StatusUpdateRequest struct {
	Status string `json:"status" example:"In Progress"`
}

// flexibleInt decodes from a JSON number or a numeric string such as "2".
// null and "" leave it zero so the required rule reports the field.
type flexibleInt int

func (n *flexibleInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*n = 0
			return nil
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	*n = flexibleInt(v)
	return nil
}

func identityFrom(c echo.Context) (auth.Identity, error) {
	identity, ok := c.Get(IdentityContextKey).(auth.Identity)
	if !ok {
		return auth.Identity{}, errors.NewHTTPError(http.StatusUnauthorized, "access denied, no token provided", errors.CodeTokenMissing)
	}
	return identity, nil
}

func complaintID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewHTTPError(http.StatusBadRequest, "invalid complaint id", errors.CodeInvalidID)
	}
	return uint(id), nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body", errors.CodeValidation)
	}
	if err := c.Validate(req); err != nil {
		return validationFailure(err)
	}
	return nil
}

// validationFailure reports the first failed rule. Field names are the JSON
// names when the validator was built with a json tag name func.
func validationFailure(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.NewHTTPError(http.StatusBadRequest, err.Error(), errors.CodeValidation)
	}

	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "email":
		msg = fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		msg = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}

	httpErr := errors.NewHTTPError(http.StatusBadRequest, msg, errors.CodeValidation)
	httpErr.Field = fe.Field()
	return httpErr
}

func ok(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, errors.Success(message, data))
}

func created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, errors.Success(message, data))
}

func loginResponse(token string, expiresAt time.Time, user interface{}) LoginResponse {
	return LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}
}
