package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/types"
)

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return body
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("payload = %v, want hello=world", body.Data)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	typed := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, typed)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("code = %s, want %s", body.Error.Code, pkgerrors.CodeValidation)
	}
	if body.Error.Details == nil {
		t.Fatal("validation details should reach the client")
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("code = %s, want %s", body.Error.Code, pkgerrors.CodeInternal)
	}
	// "boom" must never surface.
	if body.Error.Message != "internal server error" {
		t.Fatalf("raw error message leaked: %s", body.Error.Message)
	}
	if body.Error.Details != nil {
		t.Fatal("details should be omitted for internal errors")
	}
}

func TestWriteErrorHidesStateConflictDetailsWhenAbsent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, pkgerrors.New(pkgerrors.CodeStateConflict, "only in-progress orders can be cancelled"))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	body := decodeErrorBody(t, w)
	if body.Error.Message != "only in-progress orders can be cancelled" {
		t.Fatalf("message = %q, want the typed message to pass through", body.Error.Message)
	}
}
