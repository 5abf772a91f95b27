package relevance

import "github.com/FACorreiaa/go-tourplan-recommender/internal/types"

// Descriptor is the canonical keyword profile of a theme. Boost is added on
// top of the base score when the POI text hits the theme at all, so themed
// POIs always outrank generic ones.
type Descriptor struct {
	Keywords []string
	Boost    float64
}

// descriptors is process-wide immutable configuration. Never mutated after
// init.
var descriptors = map[types.Theme]Descriptor{
	types.ThemeCultural: {
		Keywords: []string{"museum", "monument", "historic", "temple", "gallery", "heritage", "church", "mosque", "castle", "ruins"},
		Boost:    0.25,
	},
	types.ThemeAdventure: {
		Keywords: []string{"nature", "beach", "desert", "hiking", "diving", "snorkel", "quad", "safari", "kayak", "trail", "climb"},
		Boost:    0.25,
	},
	types.ThemeFoodies: {
		Keywords: []string{"restaurant", "cafe", "market", "street food", "bakery", "eatery", "diner"},
		Boost:    0.30,
	},
	types.ThemeFamily: {
		Keywords: []string{"park", "zoo", "aquarium", "children", "playground", "amusement", "family"},
		Boost:    0.20,
	},
	types.ThemeCouples: {
		Keywords: []string{"romantic", "sunset", "candlelight", "spa", "scenic", "viewpoint", "resort"},
		Boost:    0.25,
	},
	types.ThemeFriends: {
		Keywords: []string{"bar", "club", "sports", "fun", "nightlife", "escape room", "bowling"},
		Boost:    0.20,
	},
}

// DescriptorFor returns the keyword profile of a theme.
func DescriptorFor(theme types.Theme) Descriptor {
	return descriptors[theme]
}
