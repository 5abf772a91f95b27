package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tourplan-recommender/internal/types"
)

// MockCatalogRepository is a mock implementation of catalog.Repository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetPOIsByLocation(ctx context.Context, city, country, lang string, limit int) ([]types.POI, error) {
	args := m.Called(ctx, city, country, lang, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.POI), args.Error(1)
}

func (m *MockCatalogRepository) GetThemeEmbedding(ctx context.Context, theme types.Theme) ([]float32, error) {
	args := m.Called(ctx, theme)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockCatalogRepository) GetAvailableLocations(ctx context.Context) ([]types.LocationSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LocationSummary), args.Error(1)
}

func (m *MockCatalogRepository) CountPOIs(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func catalogPOI(name, rawType, description string) types.POI {
	return types.POI{
		ID:          uuid.New(),
		Name:        name,
		RawType:     rawType,
		Category:    types.NormalizeCategory(rawType),
		Description: description,
		City:        "Cairo",
		Country:     "Egypt",
		Language:    "en",
	}
}

func cairoRequest(theme types.Theme, planSize int) types.ItineraryRequest {
	return types.ItineraryRequest{
		City:      "Cairo",
		Country:   "Egypt",
		Theme:     theme,
		PlanSize:  planSize,
		StartTime: "09:00",
		EndTime:   "22:00",
		Language:  "en",
	}
}

func cairoCatalog() []types.POI {
	return []types.POI{
		catalogPOI("Nile Grand Hotel", "hotel", "comfortable stay by the river"),
		catalogPOI("Egyptian Museum", "museum", "historic gallery of ancient heritage"),
		catalogPOI("Citadel of Saladin", "monument", "historic castle overlooking the city"),
		catalogPOI("Khan el-Khalili", "bazaar", "famous market street"),
		catalogPOI("Nile Dinner Cruise", "restaurant", "dinner with a scenic view"),
	}
}

func TestGenerateItineraryCairoCultural(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return(cairoCatalog(), nil)
	mockRepo.On("GetThemeEmbedding", mock.Anything, types.ThemeCultural).Return(nil, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	itin, err := svc.GenerateItinerary(context.Background(), cairoRequest(types.ThemeCultural, 3))
	require.NoError(t, err)
	require.Len(t, itin.Slots, 3)

	// hotel occupies the first slot, and only the first
	assert.Equal(t, types.CategoryHotel, itin.Slots[0].POI.Category)
	hotels := 0
	for _, s := range itin.Slots {
		if s.POI.Category == types.CategoryHotel {
			hotels++
		}
	}
	assert.Equal(t, 1, hotels)

	// 09:00 - 22:00 fully covered, contiguous, 780 minutes total
	assert.Equal(t, "09:00", itin.Slots[0].StartTime)
	assert.Equal(t, "22:00", itin.Slots[2].EndTime)
	total := 0
	for i, s := range itin.Slots {
		start, err := types.ParseClock(s.StartTime)
		require.NoError(t, err)
		end, err := types.ParseClock(s.EndTime)
		require.NoError(t, err)
		total += end - start
		if i > 0 {
			assert.Equal(t, itin.Slots[i-1].EndTime, s.StartTime, "slot %d not contiguous", i)
		}
	}
	assert.Equal(t, 780, total)

	// cultural POIs outrank the market for the activity slots
	assert.Equal(t, "Egyptian Museum", itin.Slots[1].POI.Name)
	mockRepo.AssertExpectations(t)
}

func TestGenerateItineraryIdempotent(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return(cairoCatalog(), nil)
	mockRepo.On("GetThemeEmbedding", mock.Anything, types.ThemeCultural).Return(nil, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	req := cairoRequest(types.ThemeCultural, 4)

	first, err := svc.GenerateItinerary(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.GenerateItinerary(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateItineraryAdventureFallback(t *testing.T) {
	// No adventure-tagged POIs at all: the backfill policy still returns
	// plan_size slots built from generic activities.
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return([]types.POI{
		catalogPOI("Nile Grand Hotel", "hotel", "comfortable stay"),
		catalogPOI("City Mall", "shopping mall", "large shopping center"),
		catalogPOI("Opera House", "entertainment", "evening shows"),
	}, nil)
	mockRepo.On("GetThemeEmbedding", mock.Anything, types.ThemeAdventure).Return(nil, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	itin, err := svc.GenerateItinerary(context.Background(), cairoRequest(types.ThemeAdventure, 3))
	require.NoError(t, err)
	require.Len(t, itin.Slots, 3)
	assert.Equal(t, types.CategoryHotel, itin.Slots[0].POI.Category)
}

func TestGenerateItineraryPlanSizeOne(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return(cairoCatalog(), nil)
	mockRepo.On("GetThemeEmbedding", mock.Anything, types.ThemeCultural).Return(nil, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	itin, err := svc.GenerateItinerary(context.Background(), cairoRequest(types.ThemeCultural, 1))
	require.NoError(t, err)
	require.Len(t, itin.Slots, 1)

	assert.Equal(t, types.CategoryHotel, itin.Slots[0].POI.Category)
	assert.Equal(t, "09:00", itin.Slots[0].StartTime)
	assert.Equal(t, "22:00", itin.Slots[0].EndTime)
}

func TestGenerateItineraryNoPOIsFound(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Atlantis", "Nowhere", "en", 200).Return([]types.POI{}, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	req := cairoRequest(types.ThemeCultural, 3)
	req.City = "Atlantis"
	req.Country = "Nowhere"

	_, err := svc.GenerateItinerary(context.Background(), req)
	assert.True(t, errors.Is(err, types.ErrNoPOIsFound))
}

func TestGenerateItineraryNoHotelAvailable(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return([]types.POI{
		catalogPOI("Egyptian Museum", "museum", "historic gallery"),
		catalogPOI("Khan el-Khalili", "bazaar", "famous market street"),
	}, nil)
	mockRepo.On("GetThemeEmbedding", mock.Anything, types.ThemeCultural).Return(nil, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	_, err := svc.GenerateItinerary(context.Background(), cairoRequest(types.ThemeCultural, 3))
	assert.True(t, errors.Is(err, types.ErrNoHotelAvailable))
}

func TestGenerateItineraryInvalidWindow(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := NewServiceImpl(mockRepo, 200, testLogger())

	req := cairoRequest(types.ThemeCultural, 3)
	req.StartTime = "22:00"
	req.EndTime = "09:00"

	_, err := svc.GenerateItinerary(context.Background(), req)
	assert.True(t, errors.Is(err, types.ErrInvalidWindow))
	mockRepo.AssertNotCalled(t, "GetPOIsByLocation")
}

func TestGenerateItineraryRepositoryError(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return(nil, errors.New("connection refused"))

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	_, err := svc.GenerateItinerary(context.Background(), cairoRequest(types.ThemeCultural, 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog lookup failed")
}

func TestGenerateItineraryUsesThemeEmbedding(t *testing.T) {
	hotel := catalogPOI("Nile Grand Hotel", "hotel", "comfortable stay")
	plain := catalogPOI("Plain Stop", "other", "nothing notable")
	plain.FeatureVector = []float32{0, 1, 0}
	aligned := catalogPOI("Hidden Gem", "other", "nothing notable either")
	aligned.FeatureVector = []float32{1, 0, 0}

	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return([]types.POI{hotel, plain, aligned}, nil)
	mockRepo.On("GetThemeEmbedding", mock.Anything, types.ThemeCouples).Return([]float32{1, 0, 0}, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	itin, err := svc.GenerateItinerary(context.Background(), cairoRequest(types.ThemeCouples, 2))
	require.NoError(t, err)
	require.Len(t, itin.Slots, 2)
	assert.Equal(t, "Hidden Gem", itin.Slots[1].POI.Name)
}

func TestThemeEmbeddingCached(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetPOIsByLocation", mock.Anything, "Cairo", "Egypt", "en", 200).Return(cairoCatalog(), nil)
	mockRepo.On("GetThemeEmbedding", mock.Anything, types.ThemeCultural).Return([]float32{1, 0}, nil).Once()

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	req := cairoRequest(types.ThemeCultural, 3)

	_, err := svc.GenerateItinerary(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.GenerateItinerary(context.Background(), req)
	require.NoError(t, err)

	mockRepo.AssertNumberOfCalls(t, "GetThemeEmbedding", 1)
}

func TestGetAvailableLocations(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	mockRepo.On("GetAvailableLocations", mock.Anything).Return([]types.LocationSummary{
		{City: "Cairo", Country: "Egypt", POICount: 42},
		{City: "Dahab", Country: "Egypt", POICount: 7},
	}, nil)

	svc := NewServiceImpl(mockRepo, 200, testLogger())
	locations, err := svc.GetAvailableLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Cairo", locations[0].City)
}

func TestThemesListing(t *testing.T) {
	svc := NewServiceImpl(new(MockCatalogRepository), 200, testLogger())
	themes := svc.Themes()
	require.Len(t, themes, 6)
	for _, info := range themes {
		assert.NotEmpty(t, info.Keywords, "theme %s has no keywords", info.Theme)
	}
}
