package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/littlelemon/api/internal/config"
	"github.com/littlelemon/api/internal/database"
	"github.com/littlelemon/api/internal/enum"
	"github.com/littlelemon/api/internal/handler"
	mw "github.com/littlelemon/api/internal/middleware"
	"github.com/littlelemon/api/internal/service"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.Refresh)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Categories
		categoryHandler := handler.NewCategoryHandler(queries)
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Get("/{id}", categoryHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleManager))
				r.Post("/", categoryHandler.Create)
				r.Put("/{id}", categoryHandler.Update)
				r.Delete("/{id}", categoryHandler.Delete)
			})
		})

		// Menu items
		menuItemHandler := handler.NewMenuItemHandler(queries)
		r.Route("/menu-items", func(r chi.Router) {
			r.Get("/", menuItemHandler.List)
			r.Get("/{id}", menuItemHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleManager))
				r.Post("/", menuItemHandler.Create)
				r.Put("/{id}", menuItemHandler.Update)
				r.Delete("/{id}", menuItemHandler.Delete)
				r.Patch("/{id}/item-of-the-day", menuItemHandler.PromoteItemOfTheDay)
			})
		})

		// Ratings
		ratingHandler := handler.NewRatingHandler(queries)
		r.Route("/ratings", func(r chi.Router) {
			r.Get("/", ratingHandler.List)
			r.Post("/", ratingHandler.Create)
		})

		// Cart
		cartService := service.NewCartService(queries)
		cartHandler := handler.NewCartHandler(queries, cartService)
		r.Route("/cart/menu-items", func(r chi.Router) {
			r.Get("/", cartHandler.List)
			r.Post("/", cartHandler.Add)
			r.Delete("/", cartHandler.Clear)
			r.Delete("/{id}", cartHandler.DeleteItem)
		})

		// Orders
		newOrderStore := func(db database.DBTX) service.OrderStore {
			return database.New(db)
		}
		orderService := service.NewOrderService(pool, newOrderStore)
		orderMutator := service.NewOrderMutator(queries)
		orderHandler := handler.NewOrderHandler(queries, orderService, orderMutator)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Post("/", orderHandler.Place)
			r.Get("/{id}", orderHandler.Get)
			r.Patch("/{id}", orderHandler.Update)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.RoleManager))
				r.Delete("/{id}", orderHandler.Delete)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
