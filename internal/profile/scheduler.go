package profile

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"fld/internal/profile/interfaces"
	"fld/internal/providers"
	"fld/internal/structures"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	resolver ResolverInterface
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	refreshInterval := s.config.Scheduler.RefreshInterval
	persistInterval := s.config.Scheduler.PersistInterval

	s.cron.AddFunc(gron.Every(refreshInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.logger.Infof(providers.TypeApp, "Refreshing profile data...")
		s.resolver.Refresh(context.Background())
		s.logger.Infof(providers.TypeApp, "Profile data refreshed")
	})

	s.cron.AddFunc(gron.Every(persistInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.resolver.Persist(context.Background())
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Persisted profile snapshots")
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore warms the profile cache on startup by running the fallback chain
// once. The chain itself decides whether the data comes from the scraper, a
// backup file or the database.
func (s *Scheduler) Restore() error {
	profiles, tier, _ := s.resolver.Resolve(context.Background(), false)
	s.logger.Infof(providers.TypeApp, "Warmed profile cache with %d profiles (source: %s)", len(profiles), tier)
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting profile snapshots...")
	err := s.resolver.Persist(context.Background())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, resolver ResolverInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		resolver: resolver,
	}
}
