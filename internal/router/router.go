package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-tourplan-recommender/internal/api/itinerary"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	ItineraryHandler *itinerary.ItineraryHandler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied in main
// before this router is mounted.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/health", cfg.ItineraryHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/itinerary", cfg.ItineraryHandler.GenerateItinerary)
		r.Get("/itinerary/quick", cfg.ItineraryHandler.QuickItinerary)
		r.Get("/locations", cfg.ItineraryHandler.GetLocations)
		r.Get("/themes", cfg.ItineraryHandler.GetThemes)
	})

	return r
}
