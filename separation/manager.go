package separation

import (
	"context"
	"sync"

	"github.com/skillsenselab/diarkit/logger"
	"github.com/skillsenselab/diarkit/resilience"
)

// Manager owns the shared separation backend. The backend is constructed
// on first use, shared read-only by all workers, and invoked through a
// bulkhead since separating one call can occupy the model for tens of
// seconds.
type Manager struct {
	mu      sync.Mutex
	factory func() (Provider, error)
	prov    Provider

	bulkhead *resilience.Bulkhead
	log      *logger.Logger
}

// NewManager creates a Manager around a backend factory. The factory runs
// lazily on the first Invoke, not at construction.
func NewManager(factory func() (Provider, error), bulkheadCfg resilience.BulkheadConfig, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Manager{
		factory:  factory,
		bulkhead: resilience.NewBulkhead(bulkheadCfg),
		log:      log.WithComponent("separation"),
	}
}

// Invoke separates the mono recording at inputPath into a stereo recording
// at outputPath. All failures, including backend construction failures,
// are logged and reported as false.
func (m *Manager) Invoke(ctx context.Context, inputPath, outputPath string) bool {
	prov, err := m.instance()
	if err != nil {
		m.log.WithError(err).Error("separation backend unavailable")
		return false
	}

	err = m.bulkhead.Execute(ctx, func() error {
		return prov.Separate(ctx, Request{InputPath: inputPath, OutputPath: outputPath})
	})
	if err != nil {
		m.log.WithError(err).WithFields(logger.Fields(
			logger.FieldAudioPath, inputPath,
		)).Error("source separation failed")
		return false
	}
	return true
}

// instance returns the shared backend, constructing it on first use. A
// failed construction is not cached; the next Invoke retries.
func (m *Manager) instance() (Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prov != nil {
		return m.prov, nil
	}
	prov, err := m.factory()
	if err != nil {
		return nil, err
	}
	m.prov = prov
	m.log.WithFields(logger.Fields("provider", prov.Name())).Info("separation backend initialized")
	return prov, nil
}

// Shutdown releases the backend instance. A later Invoke re-initializes.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prov = nil
}

// Reload drops the current backend so the next Invoke constructs a fresh
// one.
func (m *Manager) Reload() {
	m.Shutdown()
}

// Loaded reports whether the backend has been constructed.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prov != nil
}
