package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("reports healthy when the database responds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(db)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response["status"] != "ok" {
			t.Errorf("Expected ok status, got %q", response["status"])
		}
	})

	t.Run("reports degraded when the database is gone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(db)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}
	})
}
