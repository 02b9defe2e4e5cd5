package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/store"
	apperrors "github.com/adityabima03/YuhuKopi/pkg/errors"
	applog "github.com/adityabima03/YuhuKopi/pkg/logger"
)

type latchState int

const (
	latchNotAttempted latchState = iota
	latchInFlight
	latchAttempted
)

// lastFix is the most recent device resolution, reused by SaveManual.
// rev is the store revision current when the fix was taken.
type lastFix struct {
	coord  Coordinate
	city   string
	region string
	rev    uint64
}

// Flow drives address resolution: permission, position, reverse geocode,
// then a single write into the address store.
type Flow struct {
	store      *store.AddressStore
	permission PermissionRequester
	positioner Positioner
	geocoder   Geocoder
	options    PositionOptions
	logger     *slog.Logger

	mu    sync.Mutex
	latch latchState
	fix   *lastFix

	inFlight atomic.Int32
}

// NewFlow wires a Flow around st.
func NewFlow(st *store.AddressStore, perm PermissionRequester, pos Positioner, geo Geocoder, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Flow{
		store:      st,
		permission: perm,
		positioner: pos,
		geocoder:   geo,
		options:    DefaultPositionOptions,
		logger:     logger,
	}
}

// Resolve is Refresh; screens call it on first mount.
func (f *Flow) Resolve(ctx context.Context) error {
	return f.Refresh(ctx)
}

// EnsureResolved runs Resolve at most once per Flow, and only when the
// store has no address yet. Concurrent callers past the first return nil
// immediately.
func (f *Flow) EnsureResolved(ctx context.Context) error {
	return f.ensure(ctx, alwaysLive)
}

// Refresh always starts a new resolution attempt. The outcome is written
// into the store and the returned error mirrors what was recorded there.
// A geocoder with no result leaves the store untouched and returns nil.
// Overlapping attempts are not cancelled; whichever finishes last wins.
func (f *Flow) Refresh(ctx context.Context) error {
	return f.run(ctx, alwaysLive)
}

func (f *Flow) ensure(ctx context.Context, live func() bool) error {
	f.mu.Lock()
	if f.latch != latchNotAttempted || f.store.Address() != nil {
		f.mu.Unlock()
		return nil
	}
	f.latch = latchInFlight
	f.mu.Unlock()

	err := f.run(ctx, live)

	f.mu.Lock()
	f.latch = latchAttempted
	f.mu.Unlock()
	return err
}

func alwaysLive() bool { return true }

func (f *Flow) run(ctx context.Context, live func() bool) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	log := f.logger.With(slog.Int("in_flight", int(n)))
	log.DebugContext(ctx, "resolving delivery address")

	f.store.SetLoading(true)
	f.store.SetError("")
	defer f.store.SetLoading(false)

	addr, err := f.locate(ctx)
	switch {
	case err != nil:
		msg := userMessage(err)
		if !live() {
			log.DebugContext(ctx, "consumer closed, discarding resolution error", slog.String("error", msg))
			return err
		}
		f.store.SetError(msg)
		if errors.Is(err, ErrPermissionDenied) {
			log.InfoContext(ctx, "location permission denied")
		} else {
			log.WarnContext(ctx, "failed to resolve delivery address", slog.String("error", err.Error()))
		}
		return err
	case addr == nil:
		log.DebugContext(ctx, "no place for current position")
		return nil
	}

	if !live() {
		log.DebugContext(ctx, "consumer closed, discarding resolved address")
		return nil
	}
	f.store.SetAddress(*addr)
	log.InfoContext(ctx, "delivery address resolved",
		slog.String("city", addr.City),
		slog.String("region", addr.Region),
	)
	return nil
}

// userMessage picks the text shown to the customer: an AppError's message,
// else the innermost cause, else MsgResolveFailed.
func userMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	for next := errors.Unwrap(err); next != nil; next = errors.Unwrap(next) {
		err = next
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgResolveFailed
}

// locate performs the platform calls. A nil address with nil error means the
// geocoder had nothing for the position.
func (f *Flow) locate(ctx context.Context) (*domain.DeliveryAddress, error) {
	status, err := f.permission.RequestForegroundPermission(ctx)
	if err != nil {
		return nil, fmt.Errorf("request location permission: %w", err)
	}
	if status != PermissionGranted {
		return nil, ErrPermissionDenied
	}

	pos, err := f.positioner.CurrentPosition(ctx, f.options)
	if err != nil {
		return nil, fmt.Errorf("get current position: %w", err)
	}

	places, err := f.geocoder.Reverse(ctx, pos.Coordinate)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	addr := Compose(places[0], pos.Coordinate)
	f.remember(addr)
	return &addr, nil
}

func (f *Flow) remember(a domain.DeliveryAddress) {
	rev := f.store.Snapshot().Revision
	f.mu.Lock()
	f.fix = &lastFix{
		coord:  Coordinate{Latitude: a.Latitude, Longitude: a.Longitude},
		city:   a.City,
		region: a.Region,
		rev:    rev,
	}
	f.mu.Unlock()
}

// Preview resolves the current position into an address without writing
// it to the store. The edit screen uses it to prefill its form; the fix is
// still remembered for a later SaveManual.
func (f *Flow) Preview(ctx context.Context) (*domain.DeliveryAddress, error) {
	return f.locate(ctx)
}

// SaveManual stores a hand-entered address. Both fields are trimmed and
// must be non-empty. Coordinates, city and region come from whichever was
// resolved last: a device fix taken since the stored address was set wins,
// else the stored address, else zero.
func (f *Flow) SaveManual(street, fullAddress string) (domain.DeliveryAddress, error) {
	street = strings.TrimSpace(street)
	fullAddress = strings.TrimSpace(fullAddress)
	if street == "" || fullAddress == "" {
		return domain.DeliveryAddress{}, ErrValidation
	}

	addr := domain.DeliveryAddress{Street: street, FullAddress: fullAddress}
	st := f.store.Snapshot()
	f.mu.Lock()
	fix := f.fix
	f.mu.Unlock()
	switch {
	case fix != nil && fix.rev == st.Revision:
		addr.City, addr.Region = fix.city, fix.region
		addr.Latitude, addr.Longitude = fix.coord.Latitude, fix.coord.Longitude
	case st.Address != nil:
		addr.City, addr.Region = st.Address.City, st.Address.Region
		addr.Latitude, addr.Longitude = st.Address.Latitude, st.Address.Longitude
	}

	f.store.SetAddress(addr)
	f.logger.Info("delivery address saved manually")
	return addr, nil
}

// Consumer is a screen's handle on the flow. Once closed, resolutions it
// started still run to completion but no longer write address or error.
type Consumer struct {
	flow   *Flow
	closed atomic.Bool
}

// Consumer returns a new live handle.
func (f *Flow) Consumer() *Consumer {
	return &Consumer{flow: f}
}

func (c *Consumer) live() bool { return !c.closed.Load() }

// Close marks the consumer unmounted. Safe to call more than once.
func (c *Consumer) Close() { c.closed.Store(true) }

func (c *Consumer) Closed() bool { return c.closed.Load() }

func (c *Consumer) EnsureResolved(ctx context.Context) error {
	return c.flow.ensure(ctx, c.live)
}

func (c *Consumer) Refresh(ctx context.Context) error {
	return c.flow.run(ctx, c.live)
}
