package monitor

import (
	"context"
	"github.com/roylee0704/gron"
	"igmond/internal/monitor/interfaces"
	"igmond/internal/providers"
	"igmond/internal/structures"
	"sync"
	"time"
)

// Scheduler drives the two repeating jobs: the check cycle and the
// persistence flush. opsMu serializes them — a new cycle can never start
// while the previous sweep or a flush is still running.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	checker     *Checker
	fileManager *FileManager
	metrics     providers.MetricsProviderInterface
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	saveInterval := s.config.Persistence.SaveInterval
	checkInterval := s.config.Monitor.Interval

	s.cron.AddFunc(gron.Every(saveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		started := time.Now()
		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(started))
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(checkInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.checker.RunCycle(context.Background())
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the persisted store. The caller decides whether a load
// error is fatal; the store keeps its empty defaults either way.
func (s *Scheduler) Restore() error {
	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting store to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, checker *Checker, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		checker:     checker,
		fileManager: fileManager,
		metrics:     metrics,
	}
}
