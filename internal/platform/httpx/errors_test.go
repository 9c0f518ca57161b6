package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minimart-pos/minimart-pos/internal/platform/db"
	"github.com/minimart-pos/minimart-pos/internal/shared"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("orders: %w", shared.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("orders: %w", shared.ErrValidation), http.StatusBadRequest},
		{"insufficient stock", fmt.Errorf("%w: product 1", shared.ErrInsufficientStock), http.StatusConflict},
		{"conflict", shared.ErrConflict, http.StatusConflict},
		{"tx conflict", fmt.Errorf("%w: could not serialize access", db.ErrTxConflict), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			require.Equal(t, tc.want, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestTxConflictIsConflict(t *testing.T) {
	require.ErrorIs(t, db.ErrTxConflict, shared.ErrConflict)
}
