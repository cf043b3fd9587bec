package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"deliverypulse/internal/dataprocessing"
	apperrors "deliverypulse/internal/errors"
	"deliverypulse/internal/infrastructure"
	"deliverypulse/internal/validation"
	"deliverypulse/pkg/contracts/domain"
)

// FileUpload is one raw CSV payload submitted to a session.
type FileUpload struct {
	Name string
	Data []byte
}

// FileResult reports the outcome of normalizing one uploaded file. Schema
// rejections are per-file results, not batch failures.
type FileResult struct {
	File           string   `json:"file"`
	Accepted       bool     `json:"accepted"`
	Rows           int      `json:"rows"`
	Cached         bool     `json:"cached"`
	Error          string   `json:"error,omitempty"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// Snapshot is one full render pass over a session: the merged dataset, all
// six aggregate tables, spike alerts and headline metrics. Nothing in it is
// retained between calls.
type Snapshot struct {
	Records    []domain.TradeRecord                            `json:"records"`
	Tables     map[domain.Granularity][]domain.AggregateBucket `json:"tables"`
	Spikes     []domain.SpikeAlert                             `json:"spikes"`
	Summary    domain.SummaryMetrics                           `json:"summary"`
	Thresholds domain.Thresholds                               `json:"thresholds"`
}

// session holds one independent dataset: normalized batches in upload order
// plus the display thresholds. Batches are immutable once stored.
type session struct {
	batches    [][]domain.TradeRecord
	filenames  []string
	thresholds domain.Thresholds
}

// DashboardServiceConfig carries the dependencies of the dashboard service.
type DashboardServiceConfig struct {
	Cache    dataprocessing.Cache
	Metrics  *infrastructure.Metrics
	Defaults domain.Thresholds
	// MaxFileBytes caps a single uploaded payload. Zero disables the check.
	MaxFileBytes int64
}

// DashboardService manages session-scoped delivery datasets. Every read
// recomputes tables from the stored batches; the mutex only guards the
// session map, never a computation.
type DashboardService struct {
	logger     *slog.Logger
	normalizer *dataprocessing.Normalizer
	aggregator *dataprocessing.Aggregator
	cache      dataprocessing.Cache
	metrics    *infrastructure.Metrics
	validate   *validator.Validate
	uploads    *validation.UploadValidator
	defaults   domain.Thresholds

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(logger *slog.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = dataprocessing.NewMemoCache()
	}
	if cfg.Defaults == (domain.Thresholds{}) {
		cfg.Defaults = domain.DefaultThresholds()
	}

	return &DashboardService{
		logger:     logger,
		normalizer: dataprocessing.NewNormalizer(logger),
		aggregator: dataprocessing.NewAggregator(logger),
		cache:      cfg.Cache,
		metrics:    cfg.Metrics,
		validate:   validator.New(),
		uploads:    validation.NewUploadValidator(logger, cfg.MaxFileBytes),
		defaults:   cfg.Defaults,
		sessions:   make(map[string]*session),
	}
}

// CreateSession registers a new empty dataset and returns its ID.
func (s *DashboardService) CreateSession(ctx context.Context) string {
	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = &session{thresholds: s.defaults}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session created", "session_id", id)
	return id
}

// UploadFiles normalizes each payload and appends the surviving batches to
// the session in upload order. Schema-rejected files are reported in their
// result entry while the remaining files still contribute rows.
func (s *DashboardService) UploadFiles(ctx context.Context, sessionID string, uploads []FileUpload) ([]FileResult, error) {
	if _, err := s.view(sessionID); err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(uploads))
	for _, upload := range uploads {
		if err := s.uploads.ValidateUpload(upload.Name, upload.Data); err != nil {
			results = append(results, FileResult{File: upload.Name, Error: err.Error()})
			continue
		}

		computed := false
		records, err := s.cache.GetOrCompute(dataprocessing.ContentKey(upload.Data), func() ([]domain.TradeRecord, error) {
			computed = true
			return s.normalizer.Normalize(ctx, upload.Name, upload.Data)
		})
		if err != nil {
			result := FileResult{File: upload.Name, Error: err.Error()}
			if se, ok := apperrors.AsSchemaError(err); ok {
				result.MissingColumns = se.Missing
				s.countSchemaRejected()
			}
			results = append(results, result)
			continue
		}

		if !computed {
			s.countCacheHit()
			s.logger.InfoContext(ctx, "normalization served from cache",
				"session_id", sessionID,
				"file", upload.Name)
		} else {
			s.countNormalized(len(records))
		}

		if err := s.appendBatch(sessionID, upload.Name, records); err != nil {
			return nil, err
		}
		results = append(results, FileResult{
			File:     upload.Name,
			Accepted: true,
			Rows:     len(records),
			Cached:   !computed,
		})
	}

	return results, nil
}

// SetThresholds replaces the session's display thresholds after range
// validation.
func (s *DashboardService) SetThresholds(ctx context.Context, sessionID string, thresholds domain.Thresholds) error {
	if err := s.validate.Struct(thresholds); err != nil {
		return apperrors.NewAppValidationError("thresholds out of range").WithContext("cause", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	sess.thresholds = thresholds

	s.logger.InfoContext(ctx, "thresholds updated",
		"session_id", sessionID,
		"spike_threshold", thresholds.SpikeThreshold,
		"net_value_threshold", thresholds.NetValueThreshold)
	return nil
}

// Thresholds returns the session's current display thresholds.
func (s *DashboardService) Thresholds(sessionID string) (domain.Thresholds, error) {
	view, err := s.view(sessionID)
	if err != nil {
		return domain.Thresholds{}, err
	}
	return view.thresholds, nil
}

// Table recomputes and returns one granularity's aggregate table.
func (s *DashboardService) Table(ctx context.Context, sessionID string, granularity domain.Granularity) ([]domain.AggregateBucket, error) {
	view, err := s.view(sessionID)
	if err != nil {
		return nil, err
	}

	s.countRender(granularity)
	return s.aggregator.Aggregate(ctx, dataprocessing.Merge(view.batches...), granularity, view.thresholds)
}

// Spikes returns delivery-percentage alerts over the merged raw dataset.
func (s *DashboardService) Spikes(ctx context.Context, sessionID string) ([]domain.SpikeAlert, error) {
	view, err := s.view(sessionID)
	if err != nil {
		return nil, err
	}
	return dataprocessing.DeliverySpikes(dataprocessing.Merge(view.batches...), view.thresholds.SpikeThreshold), nil
}

// Summary returns the dataset-wide headline metrics.
func (s *DashboardService) Summary(ctx context.Context, sessionID string) (domain.SummaryMetrics, error) {
	view, err := s.view(sessionID)
	if err != nil {
		return domain.SummaryMetrics{}, err
	}
	return dataprocessing.Summarize(dataprocessing.Merge(view.batches...)), nil
}

// Snapshot performs one full render pass: merged records, all tables, spike
// alerts and summary metrics.
func (s *DashboardService) Snapshot(ctx context.Context, sessionID string) (*Snapshot, error) {
	view, err := s.view(sessionID)
	if err != nil {
		return nil, err
	}

	records := dataprocessing.Merge(view.batches...)
	tables := make(map[domain.Granularity][]domain.AggregateBucket, len(domain.Granularities))
	for _, granularity := range domain.Granularities {
		table, err := s.aggregator.Aggregate(ctx, records, granularity, view.thresholds)
		if err != nil {
			return nil, err
		}
		s.countRender(granularity)
		tables[granularity] = table
	}

	return &Snapshot{
		Records:    records,
		Tables:     tables,
		Spikes:     dataprocessing.DeliverySpikes(records, view.thresholds.SpikeThreshold),
		Summary:    dataprocessing.Summarize(records),
		Thresholds: view.thresholds,
	}, nil
}

// sessionView is a point-in-time copy of a session taken under the read
// lock. Batch slices are immutable after append, so sharing them is safe.
type sessionView struct {
	batches    [][]domain.TradeRecord
	thresholds domain.Thresholds
}

func (s *DashboardService) view(sessionID string) (sessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return sessionView{}, apperrors.ErrSessionNotFound
	}

	batches := make([][]domain.TradeRecord, len(sess.batches))
	copy(batches, sess.batches)
	return sessionView{batches: batches, thresholds: sess.thresholds}, nil
}

func (s *DashboardService) appendBatch(sessionID, filename string, records []domain.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	sess.batches = append(sess.batches, records)
	sess.filenames = append(sess.filenames, filename)
	return nil
}

func (s *DashboardService) countNormalized(rows int) {
	if s.metrics == nil {
		return
	}
	s.metrics.FilesNormalized.Inc()
	s.metrics.RowsKept.Add(float64(rows))
}

func (s *DashboardService) countSchemaRejected() {
	if s.metrics != nil {
		s.metrics.SchemaRejected.Inc()
	}
}

func (s *DashboardService) countCacheHit() {
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
}

func (s *DashboardService) countRender(granularity domain.Granularity) {
	if s.metrics != nil {
		s.metrics.RenderPasses.WithLabelValues(string(granularity)).Inc()
	}
}
