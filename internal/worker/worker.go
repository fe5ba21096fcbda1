package worker

import (
	"context"
	"time"

	"github.com/floraworks/floraorders/internal/logger"
	"go.uber.org/zap"
)

type LocationService interface {
	PruneStaleLocations(ctx context.Context) (int64, error)
}

// LocationPruner is worker removing stale courier location pings
type LocationPruner struct {
	svc LocationService
}

// NewLocationPruner creates new location pruner
func NewLocationPruner(svc LocationService) *LocationPruner {
	return &LocationPruner{svc: svc}
}

// Run prunes stale pings on a fixed interval until context is done
func (lp *LocationPruner) Run(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("location pruner is done")
			return
		case <-ticker.C:
			removed, err := lp.svc.PruneStaleLocations(ctx)
			if err != nil {
				logger.Log.Error("error pruning courier locations", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Log.Debug("pruned courier locations", zap.Int64("removed", removed))
			}
		}
	}
}
