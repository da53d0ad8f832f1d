package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/infrastructure"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/events"
)

// Load triggers recorded in metrics and logs
const (
	TriggerStartup = "startup"
	TriggerReload  = "reload"
)

// BuildFunc produces a complete dataset or an error, never a partial one
type BuildFunc func(ctx context.Context) (*dataprocessing.Dataset, error)

// SourceBuild returns a BuildFunc that reads sources through reader
func SourceBuild(reader dataprocessing.TableReader, sources []dataprocessing.Source, parallelism int, logger *slog.Logger) BuildFunc {
	return func(ctx context.Context) (*dataprocessing.Dataset, error) {
		return dataprocessing.Build(ctx, reader, sources, parallelism, logger)
	}
}

// SwapHook runs after a new dataset is published. prev is nil on the
// first load.
type SwapHook func(ctx context.Context, prev, next *dataprocessing.Dataset)

// FailureHook runs after a build fails. The published dataset is unchanged.
type FailureHook func(ctx context.Context, err error)

// Broadcaster pushes a message to every connected client
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// DatasetStatus describes the published dataset and the last reload
type DatasetStatus struct {
	Loaded      bool      `json:"loaded"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Records     int       `json:"records"`
	Sources     int       `json:"sources"`
	BuiltAt     time.Time `json:"built_at,omitempty"`
	Reloading   bool      `json:"reloading"`
	LastError   string    `json:"last_error,omitempty"`
	LastErrorAt time.Time `json:"last_error_at,omitempty"`
}

type buildFailure struct {
	err error
	at  time.Time
}

// DatasetService owns the published dataset
type DatasetService struct {
	build     BuildFunc
	current   atomic.Pointer[dataprocessing.Dataset]
	reloading atomic.Bool
	lastFail  atomic.Pointer[buildFailure]

	mu        sync.RWMutex
	onSwap    []SwapHook
	onFailure []FailureHook

	metrics *infrastructure.DashboardMetrics
	logger  *slog.Logger
}

// NewDatasetService creates a service with nothing published yet
func NewDatasetService(build BuildFunc, metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		build:   build,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "dataset_service")),
	}
}

// OnSwap registers a hook run after every successful publish
func (s *DatasetService) OnSwap(hook SwapHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSwap = append(s.onSwap, hook)
}

// OnFailure registers a hook run after every failed build
func (s *DatasetService) OnFailure(hook FailureHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFailure = append(s.onFailure, hook)
}

// Current returns the published dataset, or nil before the first load
func (s *DatasetService) Current() *dataprocessing.Dataset {
	return s.current.Load()
}

// Load builds and publishes the initial dataset
func (s *DatasetService) Load(ctx context.Context) error {
	_, err := s.rebuild(ctx, TriggerStartup)
	return err
}

// Reload builds a new dataset and swaps it in. On failure the previously
// published dataset stays current. Concurrent calls fail fast with
// ErrReloadInProgress.
func (s *DatasetService) Reload(ctx context.Context) (*dataprocessing.Dataset, error) {
	return s.rebuild(ctx, TriggerReload)
}

func (s *DatasetService) rebuild(ctx context.Context, trigger string) (*dataprocessing.Dataset, error) {
	if !s.reloading.CompareAndSwap(false, true) {
		return nil, ErrReloadInProgress
	}
	defer s.reloading.Store(false)

	s.logger.InfoContext(ctx, "Building dataset", slog.String("trigger", trigger))

	start := time.Now()
	next, err := s.build(ctx)
	duration := time.Since(start)
	s.metrics.RecordDatasetLoad(ctx, trigger, duration, next.Len(), err)

	if err != nil {
		s.lastFail.Store(&buildFailure{err: err, at: time.Now().UTC()})
		s.logger.ErrorContext(ctx, "Dataset build failed",
			slog.String("trigger", trigger),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
			slog.Bool("previous_kept", s.current.Load() != nil))
		infrastructure.RecordError(ctx, err)

		for _, hook := range s.failureHooks() {
			hook(ctx, err)
		}
		return nil, err
	}

	prev := s.current.Swap(next)
	s.lastFail.Store(nil)
	infrastructure.AddSpanEvent(ctx, "dataset.swapped",
		attribute.String("trigger", trigger),
		attribute.String("fingerprint", next.Fingerprint()),
		attribute.Int("records", next.Len()))

	s.logger.InfoContext(ctx, "Dataset published",
		slog.String("trigger", trigger),
		slog.String("fingerprint", next.Fingerprint()),
		slog.Int("records", next.Len()),
		slog.Int("sources", next.Sources()),
		slog.Duration("duration", duration))

	for _, hook := range s.swapHooks() {
		hook(ctx, prev, next)
	}
	return next, nil
}

func (s *DatasetService) swapHooks() []SwapHook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SwapHook(nil), s.onSwap...)
}

func (s *DatasetService) failureHooks() []FailureHook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FailureHook(nil), s.onFailure...)
}

// Status reports the published dataset and the outcome of the last build
func (s *DatasetService) Status() DatasetStatus {
	ds := s.current.Load()
	st := DatasetStatus{
		Loaded:    ds != nil,
		Records:   ds.Len(),
		Sources:   ds.Sources(),
		Reloading: s.reloading.Load(),
	}
	if ds != nil {
		st.Fingerprint = ds.Fingerprint()
		st.BuiltAt = ds.BuiltAt()
	}
	if f := s.lastFail.Load(); f != nil {
		st.LastError = f.err.Error()
		st.LastErrorAt = f.at
	}
	return st
}

// Snapshot describes next for clients, noting the fingerprint it replaced
func Snapshot(prev, next *dataprocessing.Dataset) events.DatasetSnapshot {
	return events.DatasetSnapshot{
		Fingerprint: next.Fingerprint(),
		Records:     next.Len(),
		Sources:     next.Sources(),
		BuiltAt:     next.BuiltAt(),
		Previous:    prev.Fingerprint(),
	}
}

// BroadcastSwaps registers hooks that announce publishes and failed builds
// through b
func (s *DatasetService) BroadcastSwaps(b Broadcaster) {
	s.OnSwap(func(_ context.Context, prev, next *dataprocessing.Dataset) {
		b.Broadcast(string(events.MessageTypeDatasetReloaded), Snapshot(prev, next))
	})
	s.OnFailure(func(_ context.Context, err error) {
		current := s.Current()
		b.Broadcast(string(events.MessageTypeDatasetReloadError), events.DatasetSnapshot{
			Fingerprint: current.Fingerprint(),
			Records:     current.Len(),
			Sources:     current.Sources(),
			BuiltAt:     current.BuiltAt(),
			Error:       err.Error(),
		})
	})
}
