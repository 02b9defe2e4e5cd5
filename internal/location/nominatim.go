package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adityabima03/YuhuKopi/pkg/httpclient"
)

// NominatimGeocoder reverse-geocodes against an OSM Nominatim compatible
// endpoint.
type NominatimGeocoder struct {
	client   httpclient.Doer
	baseURL  string
	language string
}

// NewNominatimGeocoder creates a geocoder for baseURL (e.g.
// "https://nominatim.openstreetmap.org"). language sets Accept-Language
// when non-empty.
func NewNominatimGeocoder(client httpclient.Doer, baseURL, language string) *NominatimGeocoder {
	return &NominatimGeocoder{client: client, baseURL: baseURL, language: language}
}

type nominatimResponse struct {
	Error   string `json:"error"`
	Name    string `json:"name"`
	Address struct {
		Road         string `json:"road"`
		HouseNumber  string `json:"house_number"`
		Suburb       string `json:"suburb"`
		CityDistrict string `json:"city_district"`
		County       string `json:"county"`
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		State        string `json:"state"`
		Postcode     string `json:"postcode"`
		Country      string `json:"country"`
	} `json:"address"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *nominatimResponse) place() Place {
	a := r.Address
	return Place{
		Name:         r.Name,
		Street:       a.Road,
		StreetNumber: a.HouseNumber,
		District:     firstNonEmpty(a.Suburb, a.CityDistrict),
		Subregion:    a.County,
		City:         firstNonEmpty(a.City, a.Town, a.Village),
		Region:       a.State,
		PostalCode:   a.Postcode,
		Country:      a.Country,
	}
}

// Reverse looks up c. Nominatim answers "Unable to geocode" for open sea
// and the like; that maps to zero places.
func (g *NominatimGeocoder) Reverse(ctx context.Context, c Coordinate) ([]Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.language != "" {
		req.Header.Set("Accept-Language", g.language)
	}

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "geocoder")
	}
	defer func() { _ = resp.Body.Close() }()

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}
	if body.Error != "" {
		return nil, nil
	}
	return []Place{body.place()}, nil
}
