package location

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityabima03/YuhuKopi/pkg/httpclient"
)

func TestStaticPermission(t *testing.T) {
	st, err := StaticPermission{Granted: true}.RequestForegroundPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionGranted, st)

	st, err = StaticPermission{}.RequestForegroundPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PermissionDenied, st)
}

func TestStaticPositioner_RestampsStaleFix(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	p := NewStaticPositioner(&jakarta)
	p.now = func() time.Time { return now }

	first, err := p.CurrentPosition(context.Background(), DefaultPositionOptions)
	require.NoError(t, err)
	assert.Equal(t, jakarta, first.Coordinate)
	assert.Equal(t, now, first.Timestamp)

	now = now.Add(30 * time.Second)
	cached, err := p.CurrentPosition(context.Background(), DefaultPositionOptions)
	require.NoError(t, err)
	assert.Equal(t, first.Timestamp, cached.Timestamp)

	now = now.Add(time.Minute)
	fresh, err := p.CurrentPosition(context.Background(), DefaultPositionOptions)
	require.NoError(t, err)
	assert.Equal(t, now, fresh.Timestamp)
}

func TestStaticPositioner_NoFix(t *testing.T) {
	_, err := NewStaticPositioner(nil).CurrentPosition(context.Background(), DefaultPositionOptions)
	assert.ErrorIs(t, err, ErrNoFix)
}

func newTestGeocoder(t *testing.T, h http.HandlerFunc) *NominatimGeocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return NewNominatimGeocoder(httpclient.New(cfg), srv.URL, "id")
}

func TestNominatimGeocoder_MapsAddress(t *testing.T) {
	geo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "-6.2088", r.URL.Query().Get("lat"))
		assert.Equal(t, "106.8456", r.URL.Query().Get("lon"))
		assert.Equal(t, "id", r.Header.Get("Accept-Language"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"name": "Plaza Indonesia",
			"address": {
				"road": "Jalan M.H. Thamrin",
				"house_number": "28",
				"city_district": "Menteng",
				"county": "Jakarta Pusat",
				"town": "Jakarta",
				"state": "DKI Jakarta",
				"postcode": "10350",
				"country": "Indonesia"
			}
		}`)
	})

	places, err := geo.Reverse(context.Background(), jakarta)

	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, Place{
		Name:         "Plaza Indonesia",
		Street:       "Jalan M.H. Thamrin",
		StreetNumber: "28",
		District:     "Menteng",
		Subregion:    "Jakarta Pusat",
		City:         "Jakarta",
		Region:       "DKI Jakarta",
		PostalCode:   "10350",
		Country:      "Indonesia",
	}, places[0])
}

func TestNominatimGeocoder_UnableToGeocode(t *testing.T) {
	geo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Unable to geocode"}`)
	})

	places, err := geo.Reverse(context.Background(), Coordinate{})

	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestNominatimGeocoder_UpstreamError(t *testing.T) {
	geo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := geo.Reverse(context.Background(), jakarta)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
