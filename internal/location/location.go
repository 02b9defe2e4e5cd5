// Package location resolves the customer's delivery address from the device
// position and writes the outcome into the shared AddressStore.
package location

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adityabima03/YuhuKopi/internal/domain"
)

// PermissionStatus is the answer to a foreground location permission prompt.
type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// Accuracy is the requested position accuracy.
type Accuracy int

const (
	AccuracyLowest Accuracy = iota + 1
	AccuracyLow
	AccuracyBalanced
	AccuracyHigh
)

// PositionOptions tunes a position request. A cached fix no older than
// MaximumAge may be returned.
type PositionOptions struct {
	Accuracy   Accuracy
	MaximumAge time.Duration
}

// DefaultPositionOptions trades precision for speed: low accuracy, fixes up
// to a minute old.
var DefaultPositionOptions = PositionOptions{Accuracy: AccuracyLow, MaximumAge: 60 * time.Second}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Position is a coordinate fix and when it was taken.
type Position struct {
	Coordinate
	Timestamp time.Time
}

// Place is one reverse-geocoding result. Any field may be empty.
type Place struct {
	Name         string
	Street       string
	StreetNumber string
	District     string
	Subregion    string
	City         string
	Region       string
	PostalCode   string
	Country      string
}

// PermissionRequester asks the platform for foreground location access.
type PermissionRequester interface {
	RequestForegroundPermission(ctx context.Context) (PermissionStatus, error)
}

// Positioner returns the current device position.
type Positioner interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}

// Geocoder turns a coordinate into zero or more places, best match first.
type Geocoder interface {
	Reverse(ctx context.Context, c Coordinate) ([]Place, error)
}

// User-facing messages written into the address store.
const (
	MsgPermissionDenied = "Location permission denied"
	MsgResolveFailed    = "Failed to get location"
	MsgManualIncomplete = "Please fill in both street and full address."

	// FallbackStreet labels a fix whose place has neither street nor name.
	FallbackStreet = "Current Location"
)

var (
	ErrPermissionDenied = errors.New(MsgPermissionDenied)
	// ErrValidation is returned by SaveManual when either field is blank.
	ErrValidation = errors.New(MsgManualIncomplete)
)

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// StreetLabel is "street number", else the place name, else FallbackStreet.
func StreetLabel(p Place) string {
	if s := joinNonEmpty(" ", p.Street, p.StreetNumber); s != "" {
		return s
	}
	if p.Name != "" {
		return p.Name
	}
	return FallbackStreet
}

// FullAddress joins the non-empty address components with ", ", falling
// back to the street label.
func FullAddress(p Place) string {
	full := joinNonEmpty(", ",
		p.Street, p.StreetNumber, p.District, p.Subregion,
		p.City, p.Region, p.PostalCode, p.Country,
	)
	if full == "" {
		return StreetLabel(p)
	}
	return full
}

// Compose builds the delivery address for a geocoded place at c without
// touching any store.
func Compose(p Place, c Coordinate) domain.DeliveryAddress {
	return domain.DeliveryAddress{
		Street:      StreetLabel(p),
		FullAddress: FullAddress(p),
		City:        p.City,
		Region:      p.Region,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
	}
}
