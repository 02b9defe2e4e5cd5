package location

import (
	"context"
	"errors"
	"sync"
	"time"
)

// StaticPermission answers every prompt with the configured result.
type StaticPermission struct {
	Granted bool
}

func (p StaticPermission) RequestForegroundPermission(context.Context) (PermissionStatus, error) {
	if p.Granted {
		return PermissionGranted, nil
	}
	return PermissionDenied, nil
}

// ErrNoFix is returned by a StaticPositioner without a configured coordinate.
var ErrNoFix = errors.New("no position fix available")

// StaticPositioner reports a fixed coordinate. The fix is re-stamped when it
// is older than the caller's MaximumAge.
type StaticPositioner struct {
	mu    sync.Mutex
	coord *Coordinate
	taken time.Time
	now   func() time.Time
}

// NewStaticPositioner returns a positioner for c. A nil c yields ErrNoFix.
func NewStaticPositioner(c *Coordinate) *StaticPositioner {
	return &StaticPositioner{coord: c, now: time.Now}
}

func (p *StaticPositioner) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	if p.coord == nil {
		return Position{}, ErrNoFix
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.taken.IsZero() || now.Sub(p.taken) > opts.MaximumAge {
		p.taken = now
	}
	return Position{Coordinate: *p.coord, Timestamp: p.taken}, nil
}
