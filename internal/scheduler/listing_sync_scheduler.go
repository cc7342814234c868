package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/usav/inventory-backend/config"
	"github.com/usav/inventory-backend/internal/app/model"
	"github.com/usav/inventory-backend/internal/app/service"
	"github.com/usav/inventory-backend/pkg/logger"
)

// Dispatcher pushes one listing to its platform and returns the
// platform-side reference id. Platform integrations implement this;
// the default just records the attempt.
type Dispatcher interface {
	Dispatch(listing *model.PlatformListing) (externalRefID *string, err error)
}

// logDispatcher is the stand-in used until a real platform client is
// configured. It accepts every listing so the sync state machine can
// be exercised end to end.
type logDispatcher struct{}

func (logDispatcher) Dispatch(listing *model.PlatformListing) (*string, error) {
	logger.Info("Dispatching listing", map[string]interface{}{
		"listing_id": listing.ID,
		"platform":   listing.Platform,
	})
	ref := fmt.Sprintf("local-%d", listing.ID)
	return &ref, nil
}

// ListingSyncScheduler periodically pushes PENDING listings to their
// platforms and retries ERROR listings on a slower cadence.
type ListingSyncScheduler struct {
	cron           *cron.Cron
	listingService service.ListingService
	dispatcher     Dispatcher
	cfg            config.SyncConfig
}

func NewListingSyncScheduler(listingService service.ListingService, dispatcher Dispatcher, cfg config.SyncConfig) *ListingSyncScheduler {
	if dispatcher == nil {
		dispatcher = logDispatcher{}
	}
	return &ListingSyncScheduler{
		cron:           cron.New(),
		listingService: listingService,
		dispatcher:     dispatcher,
		cfg:            cfg,
	}
}

func (s *ListingSyncScheduler) Start() error {
	if !s.cfg.Enabled {
		logger.Info("Listing sync scheduler disabled by configuration", nil)
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSpec, func() {
		s.runPass("pending", s.listingService.PendingByPlatform)
	}); err != nil {
		logger.Error("Failed to register pending sync job", err)
		return err
	}

	if _, err := s.cron.AddFunc(s.cfg.RetrySpec, func() {
		s.runPass("retry", s.listingService.FailedByPlatform)
	}); err != nil {
		logger.Error("Failed to register retry sync job", err)
		return err
	}

	s.cron.Start()
	logger.Info("Listing sync scheduler started", map[string]interface{}{
		"cron_spec":   s.cfg.CronSpec,
		"retry_spec":  s.cfg.RetrySpec,
		"batch_limit": s.cfg.BatchLimit,
	})
	return nil
}

func (s *ListingSyncScheduler) Stop() {
	logger.Info("Stopping listing sync scheduler...", nil)
	s.cron.Stop()
	logger.Info("Listing sync scheduler stopped", nil)
}

// runPass walks every platform, fetches a batch from the given queue
// and dispatches each listing, recording the outcome on the listing.
func (s *ListingSyncScheduler) runPass(kind string, fetch func(model.Platform, int) ([]model.PlatformListing, error)) {
	logger.Debug("Starting listing sync pass", map[string]interface{}{
		"kind": kind,
	})

	var dispatched, failed int
	for _, platform := range model.Platforms {
		listings, err := fetch(platform, s.cfg.BatchLimit)
		if err != nil {
			logger.Error("Failed to fetch listings for sync", err, map[string]interface{}{
				"platform": platform,
				"kind":     kind,
			})
			continue
		}

		for i := range listings {
			listing := &listings[i]
			refID, err := s.dispatcher.Dispatch(listing)
			if err != nil {
				failed++
				if _, markErr := s.listingService.MarkError(listing.ID, err.Error()); markErr != nil {
					logger.Error("Failed to record sync error", markErr, map[string]interface{}{
						"listing_id": listing.ID,
					})
				}
				continue
			}

			if _, markErr := s.listingService.MarkSynced(listing.ID, refID); markErr != nil {
				logger.Error("Failed to record sync success", markErr, map[string]interface{}{
					"listing_id": listing.ID,
				})
				continue
			}
			dispatched++
		}
	}

	logger.Info("Listing sync pass finished", map[string]interface{}{
		"kind":       kind,
		"dispatched": dispatched,
		"failed":     failed,
	})
}
