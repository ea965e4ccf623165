package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/anantham/nutrilens-sub002/models"
)

// GeocodeService classifies meal coordinates into a location context
// ("restaurant", "home", …) via a Nominatim-style reverse geocoder. The
// classification is advisory: callers degrade to no context on any failure.
type GeocodeService struct {
	baseURL string
	client  *http.Client
}

func NewGeocodeService() *GeocodeService {
	base := os.Getenv("GEOCODE_BASE_URL")
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	return &GeocodeService{
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type reverseGeocodeResponse struct {
	Class       string `json:"class"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Amenity string `json:"amenity"`
		Shop    string `json:"shop"`
	} `json:"address"`
}

// ReverseGeocode resolves coordinates to a LocationContext.
func (s *GeocodeService) ReverseGeocode(ctx context.Context, lat, lon float64) (*models.LocationContext, error) {
	u := fmt.Sprintf("%s/reverse?format=jsonv2&lat=%s&lon=%s",
		s.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lon)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "nutrilens-backend")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call reverse geocoder: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read reverse geocode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocoder error %d: %s", resp.StatusCode, string(body))
	}

	var rr reverseGeocodeResponse
	if err := json.Unmarshal(body, &rr); err != nil {
		return nil, fmt.Errorf("failed to parse reverse geocode JSON: %w", err)
	}

	label := rr.Name
	if label == "" {
		label = rr.DisplayName
	}
	return &models.LocationContext{
		Type:  classifyPlace(rr.Class, rr.Type, rr.Address.Amenity, rr.Address.Shop),
		Label: label,
	}, nil
}

func classifyPlace(class, typ, amenity, shop string) string {
	if amenity == "" && class == "amenity" {
		amenity = typ
	}
	switch amenity {
	case "restaurant", "cafe", "fast_food", "food_court", "bar", "pub", "ice_cream":
		return models.LocationRestaurant
	}

	if shop == "" && class == "shop" {
		shop = typ
	}
	switch shop {
	case "supermarket", "convenience", "greengrocer", "bakery", "deli":
		return models.LocationGrocery
	}

	if class == "building" {
		switch typ {
		case "residential", "house", "apartments", "detached", "terrace", "semidetached_house":
			return models.LocationHome
		}
	}
	if class == "place" && (typ == "house" || typ == "houses") {
		return models.LocationHome
	}
	return models.LocationOther
}
