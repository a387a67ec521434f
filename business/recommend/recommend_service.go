package recommend

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"commonAssessment/business/model"
	"commonAssessment/domain"
	"commonAssessment/pkg/logger"
)

// ---- Collaborator interfaces ----

type ModelProvider interface {
	Current() (model.Predictor, domain.ModelInfo, error)
}

type ClientRepository interface {
	GetAttributes(ctx context.Context, clientID uint) (map[string]any, error)
}

type ResultRepository interface {
	SaveResult(ctx context.Context, log domain.RecommendationLog) error
}

type ResultCache interface {
	Get(ctx context.Context, key string) (domain.RecommendationResult, bool, error)
	Set(ctx context.Context, key string, res domain.RecommendationResult) error
}

// ---- Service ----

type Service struct {
	schema     Schema
	encoder    *Encoder
	mapper     *Mapper
	combos     []domain.FlagCombination
	models     ModelProvider
	clientRepo ClientRepository
	resultRepo ResultRepository
	cache      ResultCache
	cfg        Config
}

// NewService wires the engine. clientRepo, resultRepo and cache are optional.
func NewService(
	schema Schema,
	models ModelProvider,
	clientRepo ClientRepository,
	resultRepo ResultRepository,
	cache ResultCache,
	cfg Config,
) (*Service, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if models == nil {
		return nil, errors.New("model provider is required")
	}
	if cfg.Order == "" {
		cfg.Order = OrderAscending
	}

	combos := Combinations(len(schema.Interventions))
	if err := cfg.validate(len(combos)); err != nil {
		return nil, err
	}

	return &Service{
		schema:     schema,
		encoder:    NewEncoder(schema, cfg.StrictFeatures),
		mapper:     NewMapper(schema.Interventions),
		combos:     combos,
		models:     models,
		clientRepo: clientRepo,
		resultRepo: resultRepo,
		cache:      cache,
		cfg:        cfg,
	}, nil
}

// Recommend scores every intervention combination for one client record and
// returns the baseline and the top-K combinations.
func (s *Service) Recommend(ctx context.Context, record map[string]any) (domain.RecommendationResult, error) {
	res, _, err := s.recommend(ctx, record)
	return res, err
}

// RecommendForClient loads a stored client's attributes, recommends, and
// appends the result to the result log.
func (s *Service) RecommendForClient(ctx context.Context, clientID uint) (domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("context error: %w", err)
	}
	if s.clientRepo == nil {
		return domain.RecommendationResult{}, errors.New("client repository not configured")
	}

	attrs, err := s.clientRepo.GetAttributes(ctx, clientID)
	if err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("load client %d: %w", clientID, err)
	}

	res, info, err := s.recommend(ctx, attrs)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	if s.resultRepo != nil {
		payload, err := json.Marshal(res)
		if err != nil {
			return domain.RecommendationResult{}, fmt.Errorf("encode result: %w", err)
		}
		entry := domain.RecommendationLog{
			ID:            uuid.New(),
			ClientID:      clientID,
			ModelName:     info.Name,
			ModelVersion:  info.Version,
			SchemaVersion: s.schema.Version,
			Baseline:      res.Baseline,
			Result:        payload,
			TraceID:       TraceIDFromContext(ctx),
		}
		if err := s.resultRepo.SaveResult(ctx, entry); err != nil {
			return domain.RecommendationResult{}, fmt.Errorf("save recommendation: %w", err)
		}
	}

	return res, nil
}

func (s *Service) recommend(ctx context.Context, record map[string]any) (domain.RecommendationResult, domain.ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, domain.ModelInfo{}, fmt.Errorf("context error: %w", err)
	}

	vec, err := s.encoder.Encode(record)
	if err != nil {
		RecommendationsTotal.WithLabelValues("", outcomeFor(err)).Inc()
		return domain.RecommendationResult{}, domain.ModelInfo{}, err
	}

	// one handle for the whole request, so a concurrent switch cannot mix models
	predictor, info, err := s.models.Current()
	if err != nil {
		RecommendationsTotal.WithLabelValues("", outcomeFor(err)).Inc()
		return domain.RecommendationResult{}, domain.ModelInfo{}, err
	}

	tid := TraceIDFromContext(ctx)
	key := s.cacheKey(info, vec)
	if res, ok := s.cachedResult(ctx, key); ok {
		RecommendationsTotal.WithLabelValues(info.Name, outcomeOK).Inc()
		logger.Debug("recommend_cache_hit", "trace_id", tid, "model", info.Name)
		return res, info, nil
	}

	baseline, scores, err := s.scoreAll(predictor, info, vec)
	if err != nil {
		RecommendationsTotal.WithLabelValues(info.Name, outcomeFor(err)).Inc()
		return domain.RecommendationResult{}, domain.ModelInfo{}, err
	}

	ranked, err := Rank(s.combos, scores, s.cfg.TopK, s.cfg.Order)
	if err != nil {
		RecommendationsTotal.WithLabelValues(info.Name, outcomePredictionError).Inc()
		return domain.RecommendationResult{}, domain.ModelInfo{}, &domain.PredictionError{Model: info.Name, Reason: "rank scores", Err: err}
	}
	res := s.mapper.Result(baseline, ranked)

	logger.Debug("recommend",
		"trace_id", tid,
		"model", info.Name,
		"model_version", info.Version,
		"schema_version", s.schema.Version,
		"baseline", baseline,
		"top_k", s.cfg.TopK,
	)

	s.storeResult(ctx, key, res)
	RecommendationsTotal.WithLabelValues(info.Name, outcomeOK).Inc()
	return res, info, nil
}

// scoreAll predicts the baseline row and the full combination matrix.
func (s *Service) scoreAll(p model.Predictor, info domain.ModelInfo, vec FeatureVector) (float64, []float64, error) {
	baseline, err := s.predict(p, info, BaselineRow(vec, len(s.schema.Interventions)))
	if err != nil {
		return 0, nil, err
	}
	scores, err := s.predict(p, info, BuildMatrix(vec, s.combos))
	if err != nil {
		return 0, nil, err
	}
	return baseline[0], scores, nil
}

func (s *Service) predict(p model.Predictor, info domain.ModelInfo, x *mat.Dense) ([]float64, error) {
	rows, cols := x.Dims()
	if n := p.NumFeatures(); n != cols {
		return nil, &domain.PredictionError{
			Model:  info.Name,
			Reason: fmt.Sprintf("scoring rows have %d columns, model expects %d", cols, n),
		}
	}

	start := time.Now()
	out, err := p.Predict(x)
	PredictionDuration.WithLabelValues(info.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		var perr *domain.PredictionError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &domain.PredictionError{Model: info.Name, Reason: "predict", Err: err}
	}
	if len(out) != rows {
		return nil, &domain.PredictionError{
			Model:  info.Name,
			Reason: fmt.Sprintf("model returned %d scores for %d rows", len(out), rows),
		}
	}
	return out, nil
}

// ---- Cache ----

func (s *Service) cacheKey(info domain.ModelInfo, vec FeatureVector) string {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range vec {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	return fmt.Sprintf("reco:%s:%s:%s:%s:%d:%x",
		info.Name, info.Version, s.schema.Version, s.cfg.Order, s.cfg.TopK, h.Sum64())
}

func (s *Service) cachedResult(ctx context.Context, key string) (domain.RecommendationResult, bool) {
	if s.cache == nil {
		return domain.RecommendationResult{}, false
	}
	res, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("recommend_cache_get_failed", "key", key, "error", err)
		CacheLookupsTotal.WithLabelValues("error").Inc()
		return domain.RecommendationResult{}, false
	}
	if !ok {
		CacheLookupsTotal.WithLabelValues("miss").Inc()
		return domain.RecommendationResult{}, false
	}
	CacheLookupsTotal.WithLabelValues("hit").Inc()
	return res, true
}

func (s *Service) storeResult(ctx context.Context, key string, res domain.RecommendationResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, res); err != nil {
		logger.Warn("recommend_cache_set_failed", "key", key, "error", err)
	}
}
