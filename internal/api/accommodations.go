package api

import (
	"fmt"
	"strings"

	"github.com/qualityslop/backend/internal/game"
)

// AccommodationOption is one entry of the housing catalog shown to players.
type AccommodationOption struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Quality          game.HousingQuality `json:"quality"`
	Location         game.LocationType   `json:"location"`
	LivingSpace      float64             `json:"living_space"`
	MonthlyRent      float64             `json:"monthly_rent"`
	MonthlyUtilities float64             `json:"monthly_utilities"`
	HasSauna         bool                `json:"has_sauna"`
}

var livingSpaces = []float64{30, 50, 70, 100}

var qualityNames = map[game.HousingQuality]string{
	game.HousingBudget:   "Budget",
	game.HousingStandard: "Standard",
	game.HousingPremium:  "Premium",
}

var locationNames = map[game.LocationType]string{
	game.LocationSuburbs:    "Suburbs",
	game.LocationCityCenter: "City Center",
	game.LocationRural:      "Countryside",
}

// AccommodationCatalog lists every quality, location and size combination a
// player can move into. IDs are stable and safe to persist client side.
func AccommodationCatalog() []AccommodationOption {
	var options []AccommodationOption
	for _, quality := range game.HousingQualities() {
		for _, location := range game.LocationTypes() {
			for _, space := range livingSpaces {
				acc := game.Accommodation{Quality: quality, Location: location, LivingSpace: space}
				options = append(options, AccommodationOption{
					ID:               accommodationID(quality, location, space),
					Name:             fmt.Sprintf("%s flat, %s, %.0f m²", qualityNames[quality], locationNames[location], space),
					Quality:          quality,
					Location:         location,
					LivingSpace:      space,
					MonthlyRent:      acc.MonthlyRent(),
					MonthlyUtilities: acc.MonthlyUtilities(),
					HasSauna:         acc.HasSauna(),
				})
			}
		}
	}
	return options
}

func accommodationID(q game.HousingQuality, l game.LocationType, space float64) string {
	return strings.Join([]string{string(q), string(l), fmt.Sprintf("%.0f", space)}, "_")
}

func lookupAccommodation(id string) (AccommodationOption, bool) {
	for _, option := range AccommodationCatalog() {
		if option.ID == id {
			return option, true
		}
	}
	return AccommodationOption{}, false
}
