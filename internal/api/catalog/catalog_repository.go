package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-tourplan-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-tourplan-recommender/internal/types"
)

// DefaultLanguage is the fallback when a POI has no text entry for the
// requested language.
const DefaultLanguage = "en"

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the read-only catalog access contract. The catalog is written
// by the offline ingestion pipeline; generation never mutates it, so concurrent
// requests can share one pool without coordination.
type Repository interface {
	GetPOIsByLocation(ctx context.Context, city, country, lang string, limit int) ([]types.POI, error)
	GetThemeEmbedding(ctx context.Context, theme types.Theme) ([]float32, error)
	GetAvailableLocations(ctx context.Context) ([]types.LocationSummary, error)
	CountPOIs(ctx context.Context) (int, error)
}

// PGX is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type PGX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGX
}

func NewRepository(pgpool PGX, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetPOIsByLocation returns every POI for (city, country) with text resolved
// to the requested language, falling back to the default language. City and
// country match case-insensitively. An empty result is a value, not an error.
func (r *RepositoryImpl) GetPOIsByLocation(ctx context.Context, city, country, lang string, limit int) ([]types.POI, error) {
	ctx, span := otel.Tracer("CatalogRepository").Start(ctx, "GetPOIsByLocation", trace.WithAttributes(
		attribute.String("catalog.city", city),
		attribute.String("catalog.country", country),
		attribute.String("catalog.lang", lang),
	))
	defer span.End()

	start := time.Now()
	query := `
        SELECT p.id,
               COALESCE(pt.name, dt.name, 'Unknown') AS name,
               COALESCE(p.type, '') AS type,
               COALESCE(pt.description, dt.description, '') AS description,
               p.city_name, p.country_name,
               COALESCE(pt.lang, dt.lang, $3) AS lang,
               p.embedding
        FROM pois p
        LEFT JOIN poi_texts pt ON pt.poi_id = p.id AND pt.lang = $3
        LEFT JOIN poi_texts dt ON dt.poi_id = p.id AND dt.lang = $4
        WHERE LOWER(p.city_name) = LOWER($1) AND LOWER(p.country_name) = LOWER($2)
        ORDER BY p.created_at, p.id
        LIMIT $5
    `
	rows, err := r.pgpool.Query(ctx, query, city, country, lang, DefaultLanguage, limit)
	if err != nil {
		metrics.Get().CatalogQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog query failed")
		return nil, fmt.Errorf("failed to query POIs for %s, %s: %w", city, country, err)
	}
	defer rows.Close()

	var pois []types.POI
	for rows.Next() {
		var p types.POI
		var embedding *pgvector.Vector
		if err := rows.Scan(&p.ID, &p.Name, &p.RawType, &p.Description,
			&p.City, &p.Country, &p.Language, &embedding); err != nil {
			metrics.Get().CatalogQueryErrorsTotal.Add(ctx, 1)
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan POI row: %w", err)
		}
		p.Category = types.NormalizeCategory(p.RawType)
		if embedding != nil {
			p.FeatureVector = embedding.Slice()
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		metrics.Get().CatalogQueryErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		return nil, fmt.Errorf("failed reading POI rows: %w", err)
	}

	metrics.Get().CatalogQueryDurationSecs.Record(ctx, time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("catalog.poi_count", len(pois)))
	span.SetStatus(codes.Ok, "POIs fetched")
	r.logger.DebugContext(ctx, "Fetched POIs for location",
		slog.String("city", city),
		slog.String("country", country),
		slog.Int("count", len(pois)),
	)
	return pois, nil
}

// GetThemeEmbedding returns the precomputed descriptor embedding for a theme,
// or nil when none was ingested. The scorer falls back to keyword matching in
// that case.
func (r *RepositoryImpl) GetThemeEmbedding(ctx context.Context, theme types.Theme) ([]float32, error) {
	query := `SELECT embedding FROM theme_embeddings WHERE theme = $1`

	var embedding pgvector.Vector
	err := r.pgpool.QueryRow(ctx, query, theme.String()).Scan(&embedding)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.Get().CatalogQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to query theme embedding for %s: %w", theme, err)
	}
	return embedding.Slice(), nil
}

// GetAvailableLocations lists every (city, country) pair in the catalog with
// its POI count, most populated first.
func (r *RepositoryImpl) GetAvailableLocations(ctx context.Context) ([]types.LocationSummary, error) {
	query := `
        SELECT city_name, country_name, COUNT(*) AS poi_count
        FROM pois
        GROUP BY city_name, country_name
        ORDER BY poi_count DESC, city_name
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		metrics.Get().CatalogQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to query available locations: %w", err)
	}
	defer rows.Close()

	var locations []types.LocationSummary
	for rows.Next() {
		var l types.LocationSummary
		if err := rows.Scan(&l.City, &l.Country, &l.POICount); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading location rows: %w", err)
	}
	return locations, nil
}

// CountPOIs reports the catalog size, used by the health endpoint.
func (r *RepositoryImpl) CountPOIs(ctx context.Context) (int, error) {
	var count int
	if err := r.pgpool.QueryRow(ctx, `SELECT COUNT(*) FROM pois`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count POIs: %w", err)
	}
	return count, nil
}
