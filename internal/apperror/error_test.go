package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIs_MatchesByCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load: %w", NewSupplierLoadFailure("HITACHI", errors.New("open failed")))
	if !errors.Is(err, ErrSupplierLoadFailure) {
		t.Fatalf("expected supplier load failure, got %v", err)
	}
	if errors.Is(err, ErrNoInputData) {
		t.Fatalf("unexpected match with NO_INPUT_DATA")
	}

	e, ok := As(err)
	if !ok {
		t.Fatalf("expected *Error in chain")
	}
	if e.Details["supplier"] != "HITACHI" {
		t.Fatalf("supplier detail want=HITACHI got=%v", e.Details["supplier"])
	}
	if e.Unwrap() == nil || e.Unwrap().Error() != "open failed" {
		t.Fatalf("cause lost: %v", e.Unwrap())
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(NewNoInputData()); got != http.StatusUnprocessableEntity {
		t.Fatalf("NO_INPUT_DATA want=%d got=%d", http.StatusUnprocessableEntity, got)
	}
	if got := HTTPStatus(NewInvalidConfig("bad month")); got != http.StatusBadRequest {
		t.Fatalf("INVALID_CONFIG want=%d got=%d", http.StatusBadRequest, got)
	}
	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("plain error want=%d got=%d", http.StatusInternalServerError, got)
	}
}
