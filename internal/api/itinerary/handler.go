package itinerary

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourplan-recommender/internal/api"
	"github.com/FACorreiaa/go-tourplan-recommender/internal/types"
)

const (
	defaultPlanSize  = 6
	defaultStartTime = "09:00"
	defaultEndTime   = "22:00"
)

type ItineraryHandler struct {
	itineraryService Service
	maxPlanSize      int
	logger           *slog.Logger
}

func NewItineraryHandler(itineraryService Service, maxPlanSize int, logger *slog.Logger) *ItineraryHandler {
	if maxPlanSize <= 0 {
		maxPlanSize = 20
	}
	return &ItineraryHandler{
		itineraryService: itineraryService,
		maxPlanSize:      maxPlanSize,
		logger:           logger,
	}
}

// itineraryPayload is the wire form of an itinerary request.
type itineraryPayload struct {
	City      string `json:"city"`
	Country   string `json:"country"`
	Theme     string `json:"theme"`
	PlanSize  int    `json:"plan_size"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Language  string `json:"language"`
}

// GenerateItinerary handles POST /itinerary.
func (h *ItineraryHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	var payload itineraryPayload
	if err := api.DecodeJSONBody(w, r, &payload); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	req, errMsg := h.validate(payload)
	if errMsg != "" {
		l.WarnContext(ctx, "Invalid itinerary request", slog.String("reason", errMsg))
		api.ErrorResponse(w, r, http.StatusBadRequest, errMsg)
		return
	}

	itin, err := h.itineraryService.GenerateItinerary(ctx, req)
	if err != nil {
		h.writeGenerationError(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Generated " + strconv.Itoa(len(itin.Slots)) + " slots for " + itin.City,
		"data":    itin,
	})
}

// QuickItinerary handles GET /itinerary/quick with query parameters only.
func (h *ItineraryHandler) QuickItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "QuickItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/quick"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "QuickItinerary"))

	q := r.URL.Query()
	planSize := 0
	if raw := q.Get("plan_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "plan_size must be an integer")
			return
		}
		planSize = n
	}

	theme := q.Get("theme")
	if theme == "" {
		theme = types.ThemeCultural.String()
	}

	payload := itineraryPayload{
		City:      q.Get("city"),
		Country:   q.Get("country"),
		Theme:     theme,
		PlanSize:  planSize,
		StartTime: q.Get("start_time"),
		EndTime:   q.Get("end_time"),
		Language:  q.Get("language"),
	}

	req, errMsg := h.validate(payload)
	if errMsg != "" {
		l.WarnContext(ctx, "Invalid quick itinerary request", slog.String("reason", errMsg))
		api.ErrorResponse(w, r, http.StatusBadRequest, errMsg)
		return
	}

	itin, err := h.itineraryService.GenerateItinerary(ctx, req)
	if err != nil {
		h.writeGenerationError(w, r, l, err)
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Generated " + strconv.Itoa(len(itin.Slots)) + " slots for " + itin.City,
		"data":    itin,
	})
}

// GetLocations handles GET /locations.
func (h *ItineraryHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GetLocations")
	defer span.End()

	locations, err := h.itineraryService.GetAvailableLocations(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list locations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load location data")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"locations": locations,
	})
}

// GetThemes handles GET /themes.
func (h *ItineraryHandler) GetThemes(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"themes":  h.itineraryService.Themes(),
	})
}

// Health handles GET /health, pinging the catalog.
func (h *ItineraryHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.itineraryService.CatalogSize(r.Context())
	status := "healthy"
	dbStatus := "connected (" + strconv.Itoa(count) + " POIs)"
	if err != nil {
		status = "unhealthy"
		dbStatus = "disconnected"
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"status":          status,
		"database_status": dbStatus,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// validate normalizes a payload into a domain request, returning a
// human-readable reason when the payload is invalid.
func (h *ItineraryHandler) validate(p itineraryPayload) (types.ItineraryRequest, string) {
	if p.City == "" || p.Country == "" {
		return types.ItineraryRequest{}, "city and country are required"
	}

	theme, err := types.ParseTheme(p.Theme)
	if err != nil {
		return types.ItineraryRequest{}, err.Error()
	}

	planSize := p.PlanSize
	if planSize == 0 {
		planSize = defaultPlanSize
	}
	if planSize < 1 || planSize > h.maxPlanSize {
		return types.ItineraryRequest{}, "plan_size must be between 1 and " + strconv.Itoa(h.maxPlanSize)
	}

	startTime := p.StartTime
	if startTime == "" {
		startTime = defaultStartTime
	}
	endTime := p.EndTime
	if endTime == "" {
		endTime = defaultEndTime
	}
	startMin, err := types.ParseClock(startTime)
	if err != nil {
		return types.ItineraryRequest{}, err.Error()
	}
	endMin, err := types.ParseClock(endTime)
	if err != nil {
		return types.ItineraryRequest{}, err.Error()
	}
	if startMin >= endMin {
		return types.ItineraryRequest{}, "start_time must be before end_time"
	}

	lang := p.Language
	if lang == "" {
		lang = "en"
	}
	if len(lang) < 2 || len(lang) > 5 {
		return types.ItineraryRequest{}, "language must be a 2-5 character code"
	}

	return types.ItineraryRequest{
		City:      p.City,
		Country:   p.Country,
		Theme:     theme,
		PlanSize:  planSize,
		StartTime: startTime,
		EndTime:   endTime,
		Language:  lang,
	}, ""
}

// writeGenerationError maps the failure taxonomy onto HTTP status codes.
func (h *ItineraryHandler) writeGenerationError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, types.ErrNoPOIsFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "No places found for the requested location")
	case errors.Is(err, types.ErrNoHotelAvailable):
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "No hotel available for the requested location")
	case errors.Is(err, types.ErrInsufficientCandidates):
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "Not enough activities available to build an itinerary")
	case errors.Is(err, types.ErrInvalidWindow):
		api.ErrorResponse(w, r, http.StatusBadRequest, "start_time must be before end_time")
	default:
		l.ErrorContext(r.Context(), "Itinerary generation failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
	}
}
