package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dajer93/lunchplanner-api/internal/config"
	"github.com/dajer93/lunchplanner-api/internal/handlers"
	"github.com/dajer93/lunchplanner-api/internal/middleware"
	"github.com/dajer93/lunchplanner-api/internal/repository"
	"github.com/dajer93/lunchplanner-api/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config) *Server {
	userRepo := repository.NewUserRepository(database)
	ingredientRepo := repository.NewIngredientRepository(database)
	mealRepo := repository.NewMealRepository(database)
	planRepo := repository.NewPlanRepository(database)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	shoppingListService := services.NewShoppingListService(planRepo, mealRepo)

	authHandler := handlers.NewAuthHandler(authService, userRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo)
	mealHandler := handlers.NewMealHandler(mealRepo)
	planHandler := handlers.NewPlanHandler(planRepo, mealRepo, shoppingListService)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP"}`))
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authService))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/password", authHandler.ChangePassword)

			r.Get("/users/me", userHandler.Profile)
			r.Put("/users/me", userHandler.UpdateProfile)
			r.Delete("/users/me", userHandler.DeleteAccount)

			r.Get("/ingredients", ingredientHandler.List)
			r.Post("/ingredients", ingredientHandler.Create)
			r.Get("/ingredients/{id}", ingredientHandler.Get)
			r.Put("/ingredients/{id}", ingredientHandler.Update)
			r.Delete("/ingredients/{id}", ingredientHandler.Delete)

			r.Get("/meals", mealHandler.List)
			r.Post("/meals", mealHandler.Create)
			r.Get("/meals/{id}", mealHandler.Get)
			r.Put("/meals/{id}", mealHandler.Update)
			r.Delete("/meals/{id}", mealHandler.Delete)

			r.Get("/plans", planHandler.GetPlan)
			r.Delete("/plans", planHandler.ClearPlan)
			r.Get("/plans/shopping-list", planHandler.ShoppingList)
			r.Get("/plans/ical", planHandler.ICalFeed)
			r.Get("/plans/{date}", planHandler.GetDay)
			r.Put("/plans/{date}", planHandler.SetDay)
			r.Delete("/plans/{date}", planHandler.DeleteDay)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"resource not found"}`))
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
