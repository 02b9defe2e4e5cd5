// Package storefront bundles the per-user client state and flows into one
// session value.
package storefront

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/adityabima03/YuhuKopi/internal/apiclient"
	"github.com/adityabima03/YuhuKopi/internal/assets"
	"github.com/adityabima03/YuhuKopi/internal/checkout"
	"github.com/adityabima03/YuhuKopi/internal/config"
	"github.com/adityabima03/YuhuKopi/internal/delivery"
	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/location"
	"github.com/adityabima03/YuhuKopi/internal/store"
	"github.com/adityabima03/YuhuKopi/pkg/httpclient"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

// API is the backend surface a session needs.
type API interface {
	FetchCoffees(ctx context.Context) ([]domain.Coffee, error)
	FetchCoffeeByID(ctx context.Context, id string) (*domain.Coffee, error)
	checkout.OrderCreator
}

// Device supplies the location capabilities of the host.
type Device struct {
	Permission location.PermissionRequester
	Positioner location.Positioner
	Geocoder   location.Geocoder
}

// Session is one user's storefront state. Every store is owned by the
// session; nothing is shared between sessions.
type Session struct {
	id string

	Cart      *store.CartStore
	Favorites *store.FavoritesStore
	Addresses *store.AddressStore
	Location  *location.Flow
	Checkout  *checkout.Service

	api    API
	logger *slog.Logger
}

// NewSession wires fresh stores to api and device.
func NewSession(api API, device Device, logger *slog.Logger) *Session {
	if logger == nil {
		logger = applog.Discard()
	}
	id := uuid.NewString()
	logger = logger.With(slog.String("session_id", id))

	cart := store.NewCartStore(logger)
	addresses := store.NewAddressStore()

	return &Session{
		id:        id,
		Cart:      cart,
		Favorites: store.NewFavoritesStore(),
		Addresses: addresses,
		Location:  location.NewFlow(addresses, device.Permission, device.Positioner, device.Geocoder, logger),
		Checkout:  checkout.NewService(cart, addresses, api, logger),
		api:       api,
		logger:    logger,
	}
}

// NewFromConfig builds a session talking to the configured backend and
// geocoder, each behind its own circuit breaker.
func NewFromConfig(cfg *config.Storefront, logger *slog.Logger) *Session {
	if logger == nil {
		logger = applog.Discard()
	}

	apiHTTP := httpclient.NewCircuitBreakerClient(httpclient.New(cfg.HTTP),
		httpclient.DefaultCircuitBreakerConfig("coffee-api"), logger)
	geoHTTP := httpclient.NewCircuitBreakerClient(httpclient.New(cfg.HTTP),
		httpclient.DefaultCircuitBreakerConfig("geocoder"), logger)

	device := Device{
		Permission: location.StaticPermission{Granted: cfg.LocationGranted},
		Positioner: location.NewStaticPositioner(&location.Coordinate{
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
		}),
		Geocoder: location.NewNominatimGeocoder(geoHTTP, cfg.GeocoderURL, cfg.GeocoderLanguage),
	}

	return NewSession(apiclient.New(apiHTTP, cfg.APIBaseURL, logger), device, logger)
}

// ID identifies the session to the backend.
func (s *Session) ID() string { return s.id }

// Context tags ctx with the session id and a fresh correlation id for
// outgoing calls.
func (s *Session) Context(ctx context.Context) context.Context {
	ctx = applog.WithSessionID(ctx, s.id)
	return applog.WithCorrelationID(ctx, uuid.NewString())
}

func (s *Session) menuItem(c domain.Coffee) MenuItem {
	return MenuItem{
		Coffee:     c,
		ImageAsset: assets.Resolve(c.Image),
		Favorite:   s.Favorites.IsFavorite(c.ID),
	}
}

// Menu fetches the catalog and applies the home screen filters.
func (s *Session) Menu(ctx context.Context, category, query string) ([]MenuItem, error) {
	coffees, err := s.api.FetchCoffees(s.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	filtered := FilterMenu(coffees, category, query)
	items := make([]MenuItem, len(filtered))
	for i, c := range filtered {
		items[i] = s.menuItem(c)
	}
	return items, nil
}

// Coffee loads one coffee for the detail screen; (nil, nil) when the
// backend does not know the id.
func (s *Session) Coffee(ctx context.Context, id string) (*MenuItem, error) {
	c, err := s.api.FetchCoffeeByID(s.Context(ctx), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	item := s.menuItem(*c)
	return &item, nil
}

// FavoriteCoffees lists favorited coffees in menu order.
func (s *Session) FavoriteCoffees(ctx context.Context) ([]MenuItem, error) {
	coffees, err := s.api.FetchCoffees(s.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	favs := s.Favorites.Filter(coffees)
	items := make([]MenuItem, len(favs))
	for i, c := range favs {
		items[i] = s.menuItem(c)
	}
	return items, nil
}

// AddToCart puts one c in size into the cart.
func (s *Session) AddToCart(c domain.Coffee, size string) domain.CartLineItem {
	return s.Cart.AddItem(domain.SelectionFromCoffee(c, size))
}

// Summary prices the cart for t.
func (s *Session) Summary(t domain.DeliveryType) checkout.OrderSummary {
	return checkout.Summary(s.Cart, t)
}

// PlaceOrder submits the cart.
func (s *Session) PlaceOrder(ctx context.Context, t domain.DeliveryType) (*domain.OrderReceipt, error) {
	return s.Checkout.PlaceOrder(s.Context(ctx), t)
}

// Track returns the delivery tracking view for the current address.
func (s *Session) Track() delivery.View {
	return delivery.Track(s.Addresses)
}
