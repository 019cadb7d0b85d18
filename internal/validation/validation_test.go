package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var testValidate = validator.New()

type createPayload struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Email string `json:"email" validate:"required,email"`
}

func (p *createPayload) Validate() error {
	return testValidate.Struct(p)
}

func newTestContext(t *testing.T, body string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestBindAndValidateSuccess(t *testing.T) {
	t.Parallel()

	c := newTestContext(t, `{"name":"Acme","email":"ops@acme.test"}`)

	payload := &createPayload{}
	if err := BindAndValidate(c, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "Acme" {
		t.Fatalf("payload not bound: %+v", payload)
	}
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	t.Parallel()

	c := newTestContext(t, `{"name":`)

	err := BindAndValidate(c, &createPayload{})
	if err == nil {
		t.Fatal("expected error for malformed body")
	}

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", httpErr.Status)
	}
	if httpErr.Message != "Malformed request body" {
		t.Fatalf("unexpected message: %q", httpErr.Message)
	}
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	t.Parallel()

	c := newTestContext(t, `{"email":"not-an-email"}`)

	err := BindAndValidate(c, &createPayload{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if len(httpErr.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", httpErr.Errors)
	}

	byField := map[string]string{}
	for _, fe := range httpErr.Errors {
		byField[fe.Field] = fe.Error
	}
	if byField["name"] != "is required" {
		t.Fatalf("unexpected name error: %q", byField["name"])
	}
	if byField["email"] != "must be a valid email address" {
		t.Fatalf("unexpected email error: %q", byField["email"])
	}
}

func TestIsValidUUID(t *testing.T) {
	t.Parallel()

	if !IsValidUUID("7a9f8c34-1c1d-4a2e-9b1f-5d6e7f8a9b0c") {
		t.Fatal("expected valid UUID to pass")
	}
	if IsValidUUID("not-a-uuid") {
		t.Fatal("expected invalid UUID to fail")
	}
	if IsValidUUID("") {
		t.Fatal("expected empty string to fail")
	}
}
