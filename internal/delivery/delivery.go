// Package delivery builds the simulated delivery tracking view.
package delivery

import (
	"net/url"
	"strconv"

	"github.com/adityabima03/YuhuKopi/internal/location"
	"github.com/adityabima03/YuhuKopi/internal/store"
)

// Shop is where every order leaves from, and where the courier waits.
var Shop = location.Coordinate{Latitude: -6.2017561, Longitude: 106.7823984}

const (
	ShopName    = "Binus Anggrek"
	CourierName = "Tapir Terbang"
	ETALabel    = "10 minutes left"
	StatusLabel = "Delivered your order"

	routeStartOffset = 0.002
	regionSpan       = 0.008
)

// Region is a map viewport.
type Region struct {
	Center         location.Coordinate
	LatitudeDelta  float64
	LongitudeDelta float64
}

// View is everything the tracking screen renders.
type View struct {
	ETA         string
	Headline    string
	Status      string
	Courier     location.Coordinate
	CourierName string
	ShopName    string
	Destination location.Coordinate
	Route       []location.Coordinate
	Region      Region
	RouteURL    string
}

// Destination is the stored address position, or Shop when none is set.
func Destination(addresses *store.AddressStore) location.Coordinate {
	if a := addresses.Address(); a != nil {
		return location.Coordinate{Latitude: a.Latitude, Longitude: a.Longitude}
	}
	return Shop
}

// Route is the drawn polyline: a start point just south-west of the shop,
// the courier, then the destination.
func Route(dest location.Coordinate) []location.Coordinate {
	return []location.Coordinate{
		{Latitude: Shop.Latitude - routeStartOffset, Longitude: Shop.Longitude - routeStartOffset},
		Shop,
		dest,
	}
}

func formatCoord(c location.Coordinate) string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// MotorRouteURL is a Google Maps directions link using the two-wheeler
// travel mode.
func MotorRouteURL(origin, dest location.Coordinate) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("origin", formatCoord(origin))
	q.Set("destination", formatCoord(dest))
	q.Set("dirflg", "l")
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

// PinURL is a plain map link to c, used where no map can be embedded.
func PinURL(c location.Coordinate) string {
	return "https://www.google.com/maps?q=" + url.QueryEscape(formatCoord(c))
}

// Track assembles the view from the current address.
func Track(addresses *store.AddressStore) View {
	dest := Destination(addresses)
	return View{
		ETA:         ETALabel,
		Headline:    "Delivery to " + addresses.ShortAddress(),
		Status:      StatusLabel,
		Courier:     Shop,
		CourierName: CourierName,
		ShopName:    ShopName,
		Destination: dest,
		Route:       Route(dest),
		Region:      Region{Center: dest, LatitudeDelta: regionSpan, LongitudeDelta: regionSpan},
		RouteURL:    MotorRouteURL(Shop, dest),
	}
}
