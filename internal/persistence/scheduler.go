package persistence

import (
	"minedash/internal/persistence/interfaces"
	"minedash/internal/providers"
	"minedash/internal/repository"
	"minedash/internal/structures"
	"sync"
	"time"
)

type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	fileManager *FileManager
	stop        chan struct{}
	done        chan struct{}
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	interval := s.config.Persistence.SaveInterval
	if interval <= 0 {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if err := s.Persist(); err == nil {
					s.logger.Debugf(providers.TypeApp, "Persisted ledger to file %s", s.config.Persistence.FilePath)
				}
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

// noopScheduler is used when the repository persists by itself (mysql).
type noopScheduler struct{}

func (n *noopScheduler) Init()          {}
func (n *noopScheduler) Stop()          {}
func (n *noopScheduler) Restore() error { return nil }
func (n *noopScheduler) Persist() error { return nil }

func NewScheduler(config *structures.Config, logger providers.Logger, repo repository.LedgerRepositoryInterface, compressor interfaces.CompressorInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	store, ok := repo.(repository.Snapshotter)
	if !ok {
		return &noopScheduler{}
	}
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		fileManager: NewFileManager(compressor, store, logger),
	}
}
