package types

import (
	"strings"

	"github.com/google/uuid"
)

// Category is the normalized POI category. The catalog stores free-form type
// strings coming from the upstream places API; NormalizeCategory folds them
// into this closed set.
type Category string

const (
	CategoryHotel         Category = "hotel"
	CategoryRestaurant    Category = "restaurant"
	CategoryShop          Category = "shop"
	CategoryTouristPlace  Category = "tourist place"
	CategoryEntertainment Category = "entertainment"
	CategoryPark          Category = "park"
	CategoryOther         Category = "other"
)

// categoryHints maps normalized categories to the substrings that identify
// them in raw catalog type strings. Order matters: the first match wins.
var categoryHints = []struct {
	category Category
	hints    []string
}{
	{CategoryHotel, []string{"hotel", "resort", "hostel", "inn", "lodg"}},
	{CategoryRestaurant, []string{"restaurant", "cafe", "bar", "pub", "food", "eat"}},
	{CategoryShop, []string{"shop", "mall", "market", "store", "boutique", "bazaar"}},
	{CategoryPark, []string{"park", "garden", "zoo", "aquarium", "playground"}},
	{CategoryTouristPlace, []string{"museum", "nature", "beach", "tourist", "monument", "landmark", "viewpoint", "temple", "mosque", "church", "castle"}},
	{CategoryEntertainment, []string{"club", "entertainment", "nightlife"}},
}

// NormalizeCategory folds a raw catalog type string into the closed category set.
func NormalizeCategory(raw string) Category {
	if raw == "" {
		return CategoryOther
	}
	t := strings.ToLower(raw)
	for _, c := range categoryHints {
		for _, hint := range c.hints {
			if strings.Contains(t, hint) {
				return c.category
			}
		}
	}
	return CategoryOther
}

func (c Category) String() string { return string(c) }

// POI is one row of the catalog, already resolved to the requested language.
// Catalog data is written by the offline ingestion pipeline and is read-only here.
type POI struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	RawType       string    `json:"-"`
	Category      Category  `json:"category"`
	Description   string    `json:"description,omitempty"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Language      string    `json:"language,omitempty"`
	FeatureVector []float32 `json:"-"` // precomputed embedding, may be nil
}

// LocationSummary is one (city, country) pair with its POI count.
type LocationSummary struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	POICount int    `json:"poi_count"`
}
