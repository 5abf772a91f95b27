package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourplan-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-tourplan-recommender/internal/api/catalog"
	"github.com/FACorreiaa/go-tourplan-recommender/internal/api/relevance"
	"github.com/FACorreiaa/go-tourplan-recommender/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the business logic contract for itinerary generation.
type Service interface {
	GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.Itinerary, error)
	GetAvailableLocations(ctx context.Context) ([]types.LocationSummary, error)
	Themes() []ThemeInfo
	CatalogSize(ctx context.Context) (int, error)
}

// ThemeInfo describes one supported theme for the themes listing.
type ThemeInfo struct {
	Theme    types.Theme `json:"theme"`
	Keywords []string    `json:"keywords"`
}

type ServiceImpl struct {
	logger         *slog.Logger
	catalogRepo    catalog.Repository
	candidateLimit int
	// Read-through cache for theme descriptor embeddings, keyed by theme.
	// Scores themselves are recomputed per request; they are cheap and pure.
	themeVecCache *cache.Cache
}

func NewServiceImpl(catalogRepo catalog.Repository, candidateLimit int, logger *slog.Logger) *ServiceImpl {
	if candidateLimit <= 0 {
		candidateLimit = 200
	}
	return &ServiceImpl{
		logger:         logger,
		catalogRepo:    catalogRepo,
		candidateLimit: candidateLimit,
		themeVecCache:  cache.New(24*time.Hour, 1*time.Hour),
	}
}

// GenerateItinerary builds a single-day itinerary: one hotel plus a diverse
// set of theme-ranked activities, tiled over the requested time window.
// Deterministic for identical inputs and an unchanged catalog; it either
// returns a valid itinerary or a classified failure, never a partial result.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, req types.ItineraryRequest) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("itinerary.city", req.City),
		attribute.String("itinerary.country", req.Country),
		attribute.String("itinerary.theme", req.Theme.String()),
		attribute.Int("itinerary.plan_size", req.PlanSize),
	))
	defer span.End()

	start := time.Now()
	metrics.Get().ItineraryRequestsTotal.Add(ctx, 1)

	itin, err := s.generate(ctx, req)
	if err != nil {
		metrics.Get().ItineraryFailuresTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "itinerary generation failed")
		return nil, err
	}

	metrics.Get().ItineraryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	metrics.Get().ScheduledSlotsPerRequest.Record(ctx, int64(len(itin.Slots)))
	span.SetAttributes(attribute.Int("itinerary.slot_count", len(itin.Slots)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	return itin, nil
}

func (s *ServiceImpl) generate(ctx context.Context, req types.ItineraryRequest) (*types.Itinerary, error) {
	// Defensive window re-check; upstream validation should already have caught this.
	startMin, err := types.ParseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrInvalidWindow)
	}
	endMin, err := types.ParseClock(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrInvalidWindow)
	}
	if startMin >= endMin {
		return nil, fmt.Errorf("start %s is not before end %s: %w",
			req.StartTime, req.EndTime, types.ErrInvalidWindow)
	}

	lang := req.Language
	if lang == "" {
		lang = catalog.DefaultLanguage
	}

	pois, err := s.catalogRepo.GetPOIsByLocation(ctx, req.City, req.Country, lang, s.candidateLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Catalog lookup failed", slog.Any("error", err))
		return nil, fmt.Errorf("catalog lookup failed: %w", err)
	}
	if len(pois) == 0 {
		return nil, fmt.Errorf("catalog has no entries for %s, %s: %w",
			req.City, req.Country, types.ErrNoPOIsFound)
	}

	themeVector := s.themeEmbedding(ctx, req.Theme)

	candidates := make([]Candidate, 0, len(pois))
	for _, poi := range pois {
		candidates = append(candidates, Candidate{
			POI:   poi,
			Score: relevance.Score(poi, req.Theme, themeVector),
		})
	}

	selected, err := selectCandidates(candidates, req.PlanSize)
	if err != nil {
		return nil, err
	}

	bounds, err := buildSlots(startMin, endMin, len(selected))
	if err != nil {
		return nil, err
	}

	slots := make([]types.ScheduledSlot, len(selected))
	for i, c := range selected {
		slots[i] = types.ScheduledSlot{
			StartTime: types.FormatClock(bounds[i].start),
			EndTime:   types.FormatClock(bounds[i].end),
			POI: types.POIReference{
				ID:       c.POI.ID,
				Name:     c.POI.Name,
				Category: c.POI.Category,
			},
			RelevanceScore: c.Score,
		}
	}

	itin := &types.Itinerary{
		City:      req.City,
		Country:   req.Country,
		Theme:     req.Theme,
		StartTime: types.FormatClock(startMin),
		EndTime:   types.FormatClock(endMin),
		Slots:     slots,
	}

	if err := validateItinerary(itin, startMin, endMin); err != nil {
		// Always a bug, never expected in normal operation.
		s.logger.ErrorContext(ctx, "Generated itinerary violates invariants",
			slog.Any("error", err),
			slog.String("city", req.City),
			slog.Int("slot_count", len(itin.Slots)),
		)
		return nil, err
	}
	return itin, nil
}

// themeEmbedding fetches the theme descriptor embedding through an explicit
// keyed cache. A missing or failing lookup degrades to keyword scoring.
func (s *ServiceImpl) themeEmbedding(ctx context.Context, theme types.Theme) []float32 {
	key := "theme_embedding:" + theme.String()
	if cached, found := s.themeVecCache.Get(key); found {
		return cached.([]float32)
	}

	vec, err := s.catalogRepo.GetThemeEmbedding(ctx, theme)
	if err != nil {
		s.logger.WarnContext(ctx, "Theme embedding lookup failed, falling back to keyword scoring",
			slog.String("theme", theme.String()),
			slog.Any("error", err),
		)
		return nil
	}
	s.themeVecCache.Set(key, vec, cache.DefaultExpiration)
	return vec
}

// validateItinerary enforces the global invariants: exactly one hotel in the
// first slot, slots contiguous and gap-free, full window coverage.
func validateItinerary(itin *types.Itinerary, startMin, endMin int) error {
	if len(itin.Slots) == 0 {
		return fmt.Errorf("itinerary has no slots: %w", types.ErrSchedulingInvariant)
	}

	hotels := 0
	for _, slot := range itin.Slots {
		if slot.POI.Category == types.CategoryHotel {
			hotels++
		}
	}
	if hotels != 1 {
		return fmt.Errorf("itinerary has %d hotel slots, want exactly 1: %w", hotels, types.ErrSchedulingInvariant)
	}
	if itin.Slots[0].POI.Category != types.CategoryHotel {
		return fmt.Errorf("hotel is not in the first slot: %w", types.ErrSchedulingInvariant)
	}

	prev := startMin
	for i, slot := range itin.Slots {
		slotStart, err := types.ParseClock(slot.StartTime)
		if err != nil {
			return fmt.Errorf("slot %d has malformed start: %w", i, types.ErrSchedulingInvariant)
		}
		slotEnd, err := types.ParseClock(slot.EndTime)
		if err != nil {
			return fmt.Errorf("slot %d has malformed end: %w", i, types.ErrSchedulingInvariant)
		}
		if slotStart != prev {
			return fmt.Errorf("slot %d starts at %s, want %s: %w",
				i, slot.StartTime, types.FormatClock(prev), types.ErrSchedulingInvariant)
		}
		if slotEnd < slotStart {
			return fmt.Errorf("slot %d ends before it starts: %w", i, types.ErrSchedulingInvariant)
		}
		prev = slotEnd
	}
	if prev != endMin {
		return fmt.Errorf("last slot ends at %s, want %s: %w",
			types.FormatClock(prev), types.FormatClock(endMin), types.ErrSchedulingInvariant)
	}
	return nil
}

func (s *ServiceImpl) GetAvailableLocations(ctx context.Context) ([]types.LocationSummary, error) {
	locations, err := s.catalogRepo.GetAvailableLocations(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get available locations", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get available locations: %w", err)
	}
	return locations, nil
}

// Themes lists every supported theme with its descriptor keywords.
func (s *ServiceImpl) Themes() []ThemeInfo {
	themes := types.Themes()
	out := make([]ThemeInfo, len(themes))
	for i, t := range themes {
		out[i] = ThemeInfo{Theme: t, Keywords: relevance.DescriptorFor(t).Keywords}
	}
	return out
}

// CatalogSize reports the catalog row count for the health endpoint.
func (s *ServiceImpl) CatalogSize(ctx context.Context) (int, error) {
	return s.catalogRepo.CountPOIs(ctx)
}
