// Package jellyfish implements the box-jellyfish forecast source. Unlike
// the other adapters it makes no network call: the forecast is a pure
// function of the lunar cycle, computed in the domain package.
package jellyfish

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/mokulua/kilo-data-service/internal/domain"
	"github.com/mokulua/kilo-data-service/internal/source"
)

// Adapter implements source.Adapter[domain.JellyfishForecast].
type Adapter struct {
	clock clockwork.Clock
}

// New creates the adapter. Pass nil to use the real clock.
func New(clock clockwork.Clock) *Adapter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Adapter{clock: clock}
}

func (a *Adapter) Name() string { return "lunar-calendar" }

func (a *Adapter) Fetch(_ context.Context, q source.Query) ([]domain.Record[domain.JellyfishForecast], error) {
	forecast := domain.JellyfishOutlook(a.clock.Now(), q.Island)
	return []domain.Record[domain.JellyfishForecast]{{
		IdentityKey: domain.JellyfishIdentity(q.Island, forecast.WindowStart),
		SourceName:  a.Name(),
		Timestamp:   forecast.WindowStart,
		Payload:     forecast,
	}}, nil
}
