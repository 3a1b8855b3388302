package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dajer93/lunchplanner-api/internal/middleware"
	"github.com/dajer93/lunchplanner-api/internal/models"
	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/dajer93/lunchplanner-api/internal/services"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type PlanHandler struct {
	planRepo     repository.PlanRepository
	mealRepo     repository.MealRepository
	shoppingList *services.ShoppingListService
}

func NewPlanHandler(planRepo repository.PlanRepository, mealRepo repository.MealRepository, shoppingList *services.ShoppingListService) *PlanHandler {
	return &PlanHandler{
		planRepo:     planRepo,
		mealRepo:     mealRepo,
		shoppingList: shoppingList,
	}
}

// findDays resolves the requested slice of the plan: the inclusive
// date range when both bounds are present, the whole plan otherwise.
func (handler *PlanHandler) findDays(r *http.Request, userID string) ([]models.PlanDay, error) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	if startDate != "" && endDate != "" {
		return handler.planRepo.FindRange(r.Context(), userID, startDate, endDate)
	}
	return handler.planRepo.FindAll(r.Context(), userID)
}

func (handler *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	days, err := handler.findDays(r, identity.UserID)
	if err != nil {
		slog.Error("loading plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load plan")
		return
	}
	if days == nil {
		days = []models.PlanDay{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"planDays": days})
}

// GetDay never reports a missing row: a day with nothing planned is an
// empty day, not an error.
func (handler *PlanHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	date := chi.URLParam(r, "date")

	if !datePattern.MatchString(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	day, err := handler.planRepo.FindDay(r.Context(), identity.UserID, date)
	if errors.Is(err, repository.ErrNotFound) {
		day = models.PlanDay{UserID: identity.UserID, Date: date, Meals: []string{}}
	} else if err != nil {
		slog.Error("loading plan day", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load plan day")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"planDay": day})
}

type setDayRequest struct {
	// Pointer so a body without a meals field is told apart from an
	// explicitly empty list; only the latter is valid.
	Meals *[]string `json:"meals"`
}

func (handler *PlanHandler) SetDay(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	date := chi.URLParam(r, "date")

	if !datePattern.MatchString(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	var request setDayRequest
	if err := decodeJSON(r, &request); err != nil || request.Meals == nil {
		writeError(w, http.StatusBadRequest, "meals must be an array of meal ids")
		return
	}
	mealIDs := *request.Meals

	// Every referenced meal must resolve and belong to the caller,
	// otherwise the whole day update is rejected. The lookups fan out
	// concurrently and the check fails once all have finished.
	var group errgroup.Group
	for _, mealID := range mealIDs {
		mealID := mealID
		group.Go(func() error {
			_, err := handler.mealRepo.Find(r.Context(), mealID, identity.UserID)
			return err
		})
	}
	if err := group.Wait(); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrForbidden) {
			writeError(w, http.StatusBadRequest, "one or more meal ids are invalid or not accessible")
			return
		}
		slog.Error("verifying plan meals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update plan day")
		return
	}

	day, err := handler.planRepo.SetDay(r.Context(), identity.UserID, date, mealIDs)
	if err != nil {
		slog.Error("updating plan day", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update plan day")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "plan day updated successfully",
		"planDay": day,
	})
}

func (handler *PlanHandler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	date := chi.URLParam(r, "date")

	if !datePattern.MatchString(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return
	}

	if err := handler.planRepo.DeleteDay(r.Context(), identity.UserID, date); err != nil {
		slog.Error("deleting plan day", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete plan day")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "plan day deleted successfully"})
}

func (handler *PlanHandler) ClearPlan(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	if err := handler.planRepo.ClearAll(r.Context(), identity.UserID); err != nil {
		slog.Error("clearing plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear plan")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "plan cleared successfully"})
}

func (handler *PlanHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")

	items, err := handler.shoppingList.Build(r.Context(), identity.UserID, startDate, endDate)
	if err != nil {
		slog.Error("building shopping list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build shopping list")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"shoppingList": items})
}

// ICalFeed renders the plan as a calendar of all-day events, one per
// planned day, so the plan can be subscribed to from a calendar app.
// Meal ids that no longer resolve are skipped, the same policy the
// shopping list applies.
func (handler *PlanHandler) ICalFeed(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	days, err := handler.findDays(r, identity.UserID)
	if err != nil {
		slog.Error("loading plan for ical", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load plan")
		return
	}

	titles := make(map[string]string)
	for _, day := range days {
		for _, mealID := range day.Meals {
			if _, ok := titles[mealID]; ok {
				continue
			}
			meal, err := handler.mealRepo.FindByID(r.Context(), mealID)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				slog.Error("resolving meal for ical", "error", err)
				writeError(w, http.StatusInternalServerError, "failed to build calendar")
				return
			}
			titles[meal.ID] = meal.Title
		}
	}

	calendar := ical.NewCalendar()
	calendar.SetMethod(ical.MethodPublish)
	calendar.SetProductId("-//Lunch Planner//EN")

	for _, day := range days {
		var dayTitles []string
		for _, mealID := range day.Meals {
			if title, ok := titles[mealID]; ok {
				dayTitles = append(dayTitles, title)
			}
		}
		if len(dayTitles) == 0 {
			continue
		}

		start, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}

		event := calendar.AddEvent(fmt.Sprintf("plan-%s@lunchplanner", day.Date))
		event.SetDtStampTime(day.UpdatedAt)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		event.SetSummary(strings.Join(dayTitles, ", "))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=lunch-plan.ics")
	if err := calendar.SerializeTo(w); err != nil {
		slog.Error("serializing calendar", "error", err)
	}
}
