package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintdesk/internal/auth"
	"complaintdesk/internal/errors"
)

func newContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestComplaintID(t *testing.T) {
	tests := []struct {
		raw     string
		want    uint
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c := newContext(t)
			c.SetParamNames("id")
			c.SetParamValues(tt.raw)

			id, err := complaintID(c)
			if tt.wantErr {
				var httpErr *errors.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
				assert.Equal(t, errors.CodeInvalidID, httpErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestIdentityFrom(t *testing.T) {
	c := newContext(t)
	_, err := identityFrom(c)
	var httpErr *errors.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)

	want := auth.Identity{Kind: auth.KindStudent, ID: 3, Identifier: "R100"}
	c.Set(IdentityContextKey, want)
	got, err := identityFrom(c)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidationFailureMessages(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		input   interface{}
		message string
		field   string
	}{
		{
			name:    "required",
			input:   &StudentLoginRequest{Password: "x"},
			message: "RollNumber is required",
			field:   "RollNumber",
		},
		{
			name:    "min length",
			input:   &AdminRegisterRequest{Username: "a", Name: "b", Email: "a@b.co", Password: "123"},
			message: "Password must be at least 6 characters",
			field:   "Password",
		},
		{
			name:    "email",
			input:   &AdminRegisterRequest{Username: "a", Name: "b", Email: "nope", Password: "123456"},
			message: "Email must be a valid email address",
			field:   "Email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validationFailure(v.Struct(tt.input))

			var httpErr *errors.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.Equal(t, tt.field, httpErr.Field)
		})
	}
}

func TestFlexibleIntDecoding(t *testing.T) {
	tests := []struct {
		body    string
		want    flexibleInt
		wantErr bool
	}{
		{body: `{"year":2}`, want: 2},
		{body: `{"year":"1"}`, want: 1},
		{body: `{"year":" 3 "}`, want: 3},
		{body: `{"year":""}`, want: 0},
		{body: `{"year":null}`, want: 0},
		{body: `{}`, want: 0},
		{body: `{"year":"first"}`, wantErr: true},
		{body: `{"year":1.5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req struct {
				Year flexibleInt `json:"year"`
			}
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Year)
		})
	}
}
