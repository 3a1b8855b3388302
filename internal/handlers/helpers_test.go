package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dajer93/lunchplanner-api/internal/config"
	"github.com/dajer93/lunchplanner-api/internal/server"
	"github.com/dajer93/lunchplanner-api/internal/testutil"
)

// newTestServer wires the full router against an in-memory database so
// handler tests go through routing, auth middleware and JSON encoding
// exactly as production requests do.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.NewTestDatabase(t)
	cfg := config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		Port:      "0",
	}
	return server.New(db, cfg).Handler()
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()

	if err := json.NewDecoder(recorder.Body).Decode(target); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, handler http.Handler, email string) string {
	t.Helper()

	recorder := doRequest(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
		"name":     "Test User",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("registering %s: expected 201, got %d: %s", email, recorder.Code, recorder.Body.String())
	}

	var response struct {
		Token string `json:"token"`
	}
	decodeBody(t, recorder, &response)
	if response.Token == "" {
		t.Fatal("expected a token on registration")
	}
	return response.Token
}

// createMeal creates a meal through the API and returns its id.
func createMeal(t *testing.T, handler http.Handler, token, title string, ingredients []map[string]string) string {
	t.Helper()

	recorder := doRequest(t, handler, http.MethodPost, "/api/meals", token, map[string]interface{}{
		"title":       title,
		"ingredients": ingredients,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("creating meal '%s': expected 201, got %d: %s", title, recorder.Code, recorder.Body.String())
	}

	var response struct {
		Meal struct {
			ID string `json:"mealId"`
		} `json:"meal"`
	}
	decodeBody(t, recorder, &response)
	if response.Meal.ID == "" {
		t.Fatal("expected a meal id")
	}
	return response.Meal.ID
}

func planDayPath(date string) string {
	return fmt.Sprintf("/api/plans/%s", date)
}
