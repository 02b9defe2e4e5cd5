package storefront

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityabima03/YuhuKopi/internal/apiclient"
	"github.com/adityabima03/YuhuKopi/internal/checkout"
	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/event"
	handler "github.com/adityabima03/YuhuKopi/internal/handler/http"
	"github.com/adityabima03/YuhuKopi/internal/location"
	"github.com/adityabima03/YuhuKopi/internal/repository"
	"github.com/adityabima03/YuhuKopi/internal/repository/memory"
	redisrepo "github.com/adityabima03/YuhuKopi/internal/repository/redis"
	"github.com/adityabima03/YuhuKopi/internal/service"
	"github.com/adityabima03/YuhuKopi/pkg/health"
	"github.com/adityabima03/YuhuKopi/pkg/httpclient"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

type placeGeocoder struct {
	places []location.Place
}

func (g placeGeocoder) Reverse(context.Context, location.Coordinate) ([]location.Place, error) {
	return g.places, nil
}

var device = location.Coordinate{Latitude: -6.2001, Longitude: 106.7849}

// newBackedSession runs the real backend router over miniredis and returns a
// session pointed at it.
func newBackedSession(t *testing.T, granted bool) (*Session, *redisrepo.OrderRepository) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	orders := redisrepo.NewOrderRepository(client)

	router := handler.NewRouter(
		service.NewCatalogService(memory.NewCatalogRepository()),
		service.NewOrderService(orders, event.NoopProducer{}, nil),
		health.NewHandler(),
		applog.Discard(),
		handler.RouterOptions{},
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	api := apiclient.New(httpclient.New(httpclient.DefaultConfig()), srv.URL, nil)
	sess := NewSession(api, Device{
		Permission: location.StaticPermission{Granted: granted},
		Positioner: location.NewStaticPositioner(&device),
		Geocoder: placeGeocoder{places: []location.Place{{
			Street:       "Jl. Kyai H. Syahdan",
			StreetNumber: "9",
			City:         "Jakarta Barat",
			Region:       "DKI Jakarta",
		}}},
	}, nil)
	return sess, orders
}

func TestSession_OrderForDelivery(t *testing.T) {
	sess, orders := newBackedSession(t, true)
	ctx := context.Background()

	require.NoError(t, sess.Location.EnsureResolved(ctx))
	assert.Equal(t, "Jakarta Barat, DKI Jakarta", sess.Addresses.LocationDisplay())

	menu, err := sess.Menu(ctx, AllCategories, "")
	require.NoError(t, err)
	require.Len(t, menu, 4)
	assert.Equal(t, "assets/images/2.png", menu[0].ImageAsset)

	mocha, americano := menu[0].Coffee, menu[3].Coffee
	sess.AddToCart(mocha, domain.SizeMedium)
	sess.AddToCart(mocha, domain.SizeMedium)
	sess.AddToCart(americano, domain.SizeSmall)
	assert.Equal(t, 3, sess.Cart.ItemCount())

	summary := sess.Summary(domain.DeliveryTypeDeliver)
	assert.Equal(t, "12.05", domain.FormatMoney(summary.Subtotal))
	assert.Equal(t, "13.05", domain.FormatMoney(summary.Total))

	receipt, err := sess.PlaceOrder(ctx, domain.DeliveryTypeDeliver)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, domain.OrderStatusPending, receipt.Status)
	assert.Equal(t, "13.05", domain.FormatMoney(receipt.Total))
	assert.Zero(t, sess.Cart.Len())

	stored, err := orders.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Address)
	assert.Equal(t, "Jl. Kyai H. Syahdan 9", stored.Address.Street)
	assert.Equal(t, device.Latitude, stored.Address.Latitude)

	view := sess.Track()
	assert.Equal(t, "Delivery to Jl. Kyai H. Syahdan 9", view.Headline)
	assert.Equal(t, device, view.Destination)

	page, total, err := orders.List(ctx, repository.OrderFilter{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, page, 1)
}

func TestSession_DeliveryNeedsAddress(t *testing.T) {
	sess, _ := newBackedSession(t, false)
	ctx := context.Background()

	require.ErrorIs(t, sess.Location.EnsureResolved(ctx), location.ErrPermissionDenied)
	assert.Equal(t, location.MsgPermissionDenied, sess.Addresses.Err())

	menu, err := sess.Menu(ctx, "Latte", "")
	require.NoError(t, err)
	require.Len(t, menu, 2)
	sess.AddToCart(menu[0].Coffee, domain.SizeLarge)

	_, err = sess.PlaceOrder(ctx, domain.DeliveryTypeDeliver)
	require.ErrorIs(t, err, checkout.ErrAddressRequired)
	assert.Equal(t, 1, sess.Cart.Len())

	receipt, err := sess.PlaceOrder(ctx, domain.DeliveryTypePickup)
	require.NoError(t, err)
	assert.Equal(t, "3.53", domain.FormatMoney(receipt.Total))
}

func TestSession_ManualAddressAfterDenial(t *testing.T) {
	sess, _ := newBackedSession(t, false)
	ctx := context.Background()

	require.ErrorIs(t, sess.Location.EnsureResolved(ctx), location.ErrPermissionDenied)

	_, err := sess.Location.SaveManual("  ", "Somewhere")
	require.ErrorIs(t, err, location.ErrValidation)
	assert.Nil(t, sess.Addresses.Address())

	addr, err := sess.Location.SaveManual("Jl. Anggrek", "Jl. Anggrek 1, Kemanggisan")
	require.NoError(t, err)
	assert.Equal(t, "Jl. Anggrek", addr.Street)
	assert.Empty(t, sess.Addresses.Err())
	assert.Equal(t, "Delivery to Jl. Anggrek", sess.Track().Headline)
}

func TestSession_FavoritesAndDetail(t *testing.T) {
	sess, _ := newBackedSession(t, true)
	ctx := context.Background()

	assert.True(t, sess.Favorites.Toggle("2"))
	assert.True(t, sess.Favorites.Toggle("4"))

	favs, err := sess.FavoriteCoffees(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "Flat White", favs[0].Name)
	assert.True(t, favs[0].Favorite)

	item, err := sess.Coffee(ctx, "4")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.True(t, item.Favorite)
	assert.Equal(t, "assets/images/5.png", item.ImageAsset)

	missing, err := sess.Coffee(ctx, "99")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSession_ContextCarriesSessionID(t *testing.T) {
	sess := NewSession(nil, Device{}, nil)

	ctx := sess.Context(context.Background())

	assert.Equal(t, sess.ID(), applog.SessionIDFromContext(ctx))
	assert.NotEmpty(t, applog.CorrelationIDFromContext(ctx))
}
