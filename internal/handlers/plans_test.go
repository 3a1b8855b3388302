package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestSetPlanDay(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	mealID := createMeal(t, handler, token, "Pasta", []map[string]string{
		{"ingredientId": "ing-1", "quantity": "200g"},
	})

	recorder := doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), token, map[string]interface{}{
		"meals": []string{mealID},
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		PlanDay struct {
			Date  string   `json:"date"`
			Meals []string `json:"meals"`
		} `json:"planDay"`
	}
	decodeBody(t, recorder, &response)
	if response.PlanDay.Date != "2025-06-15" {
		t.Errorf("expected date '2025-06-15', got '%s'", response.PlanDay.Date)
	}
	if len(response.PlanDay.Meals) != 1 || response.PlanDay.Meals[0] != mealID {
		t.Errorf("expected the meal id on the day, got %v", response.PlanDay.Meals)
	}
}

func TestSetPlanDay_InvalidDate(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	recorder := doRequest(t, handler, http.MethodPut, planDayPath("june-15"), token, map[string]interface{}{
		"meals": []string{},
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed date, got %d", recorder.Code)
	}
}

func TestSetPlanDay_MissingMealsField(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	// A body without a meals field is rejected, an explicit empty list
	// is not.
	recorder := doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), token, map[string]interface{}{})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a missing meals field, got %d", recorder.Code)
	}

	recorder = doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), token, map[string]interface{}{
		"meals": []string{},
	})
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 for an explicitly empty list, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestSetPlanDay_RejectsInaccessibleMeals(t *testing.T) {
	handler := newTestServer(t)
	aliceToken := registerUser(t, handler, "alice@example.com")
	bobToken := registerUser(t, handler, "bob@example.com")

	bobMealID := createMeal(t, handler, bobToken, "Burger", []map[string]string{
		{"ingredientId": "ing-2", "quantity": "1"},
	})

	recorder := doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), aliceToken, map[string]interface{}{
		"meals": []string{"missing-id"},
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown meal id, got %d", recorder.Code)
	}

	recorder = doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), aliceToken, map[string]interface{}{
		"meals": []string{bobMealID},
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for another user's meal id, got %d", recorder.Code)
	}
}

func TestGetPlanDay_MissingIsEmpty(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	recorder := doRequest(t, handler, http.MethodGet, planDayPath("2025-06-15"), token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200 for an unplanned day, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		PlanDay struct {
			Date  string   `json:"date"`
			Meals []string `json:"meals"`
		} `json:"planDay"`
	}
	decodeBody(t, recorder, &response)
	if response.PlanDay.Date != "2025-06-15" {
		t.Errorf("expected the requested date, got '%s'", response.PlanDay.Date)
	}
	if response.PlanDay.Meals == nil || len(response.PlanDay.Meals) != 0 {
		t.Errorf("expected an empty meal list, got %v", response.PlanDay.Meals)
	}
}

func TestGetPlan(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	mealID := createMeal(t, handler, token, "Pasta", []map[string]string{
		{"ingredientId": "ing-1", "quantity": "200g"},
	})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-14"), token, map[string]interface{}{"meals": []string{mealID}})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), token, map[string]interface{}{"meals": []string{mealID}})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-16"), token, map[string]interface{}{"meals": []string{mealID}})

	recorder := doRequest(t, handler, http.MethodGet, "/api/plans", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		PlanDays []struct {
			Date string `json:"date"`
		} `json:"planDays"`
	}
	decodeBody(t, recorder, &response)
	if len(response.PlanDays) != 3 {
		t.Fatalf("expected 3 days, got %d", len(response.PlanDays))
	}

	// Both bounds present narrows the result to the inclusive range.
	recorder = doRequest(t, handler, http.MethodGet, "/api/plans?startDate=2025-06-15&endDate=2025-06-16", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	decodeBody(t, recorder, &response)
	if len(response.PlanDays) != 2 {
		t.Errorf("expected 2 days in range, got %d", len(response.PlanDays))
	}
}

func TestDeletePlanDayAndClearPlan(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	mealID := createMeal(t, handler, token, "Pasta", []map[string]string{
		{"ingredientId": "ing-1", "quantity": "200g"},
	})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), token, map[string]interface{}{"meals": []string{mealID}})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-16"), token, map[string]interface{}{"meals": []string{mealID}})

	recorder := doRequest(t, handler, http.MethodDelete, planDayPath("2025-06-15"), token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, handler, http.MethodDelete, "/api/plans", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, handler, http.MethodGet, "/api/plans", token, nil)
	var response struct {
		PlanDays []interface{} `json:"planDays"`
	}
	decodeBody(t, recorder, &response)
	if len(response.PlanDays) != 0 {
		t.Errorf("expected no days after clearing, got %d", len(response.PlanDays))
	}
}

func TestShoppingListEndpoint(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	pastaID := createMeal(t, handler, token, "Pasta", []map[string]string{
		{"ingredientId": "ing-a", "name": "Tomato", "quantity": "200g"},
	})
	soupID := createMeal(t, handler, token, "Soup", []map[string]string{
		{"ingredientId": "ing-a", "name": "Tomato", "quantity": "1 cup"},
		{"ingredientId": "ing-b", "name": "Carrot", "quantity": "3"},
	})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), token, map[string]interface{}{"meals": []string{pastaID}})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-16"), token, map[string]interface{}{"meals": []string{soupID}})

	recorder := doRequest(t, handler, http.MethodGet, "/api/plans/shopping-list", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		ShoppingList []struct {
			IngredientID string   `json:"ingredientId"`
			Name         string   `json:"name"`
			Quantities   []string `json:"quantities"`
			Quantity     string   `json:"quantity"`
		} `json:"shoppingList"`
	}
	decodeBody(t, recorder, &response)

	if len(response.ShoppingList) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(response.ShoppingList))
	}
	tomato := response.ShoppingList[0]
	if tomato.IngredientID != "ing-a" || tomato.Quantity != "200g, 1 cup" {
		t.Errorf("expected merged tomato row, got %+v", tomato)
	}
}

func TestICalFeed(t *testing.T) {
	handler := newTestServer(t)
	token := registerUser(t, handler, "alice@example.com")

	mealID := createMeal(t, handler, token, "Pasta", []map[string]string{
		{"ingredientId": "ing-1", "quantity": "200g"},
	})
	doRequest(t, handler, http.MethodPut, planDayPath("2025-06-15"), token, map[string]interface{}{"meals": []string{mealID}})

	recorder := doRequest(t, handler, http.MethodGet, "/api/plans/ical", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if contentType := recorder.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/calendar") {
		t.Errorf("expected a text/calendar response, got '%s'", contentType)
	}

	body := recorder.Body.String()
	if !strings.Contains(body, "BEGIN:VCALENDAR") {
		t.Error("expected a VCALENDAR envelope")
	}
	if !strings.Contains(body, "SUMMARY:Pasta") {
		t.Errorf("expected the meal title as the event summary, got:\n%s", body)
	}
}
