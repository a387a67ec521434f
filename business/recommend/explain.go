package recommend

import (
	"context"
	"fmt"
	"slices"

	"commonAssessment/domain"
	"commonAssessment/pkg/logger"
)

// Explain scores a record like Recommend but returns every combination with
// its rank, plus the encoded features. It never reads or writes the cache.
func (s *Service) Explain(ctx context.Context, record map[string]any) (domain.RecommendationExplanation, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationExplanation{}, fmt.Errorf("context error: %w", err)
	}

	vec, err := s.encoder.Encode(record)
	if err != nil {
		return domain.RecommendationExplanation{}, err
	}

	predictor, info, err := s.models.Current()
	if err != nil {
		return domain.RecommendationExplanation{}, err
	}

	baseline, scores, err := s.scoreAll(predictor, info, vec)
	if err != nil {
		return domain.RecommendationExplanation{}, err
	}

	scored, err := Pair(s.combos, scores)
	if err != nil {
		return domain.RecommendationExplanation{}, &domain.PredictionError{Model: info.Name, Reason: "pair scores", Err: err}
	}
	SortAscending(scored)
	slices.Reverse(scored)

	combos := make([]domain.ScoredCombination, len(scored))
	for i, sc := range scored {
		combos[i] = domain.ScoredCombination{
			Flags: slices.Clone(sc.Flags),
			Names: s.mapper.Names(sc.Flags),
			Score: domain.Score(sc.Score),
			Rank:  i + 1,
		}
	}

	ranked, err := Rank(s.combos, scores, s.cfg.TopK, s.cfg.Order)
	if err != nil {
		return domain.RecommendationExplanation{}, &domain.PredictionError{Model: info.Name, Reason: "rank scores", Err: err}
	}

	logger.Debug("recommend_explain",
		"trace_id", TraceIDFromContext(ctx),
		"model", info.Name,
		"baseline", baseline,
	)

	return domain.RecommendationExplanation{
		Model:         info,
		SchemaVersion: s.schema.Version,
		Features:      s.encoder.Named(vec),
		Vector:        slices.Clone([]float64(vec)),
		Baseline:      domain.Score(baseline),
		Result:        s.mapper.Result(baseline, ranked),
		Combinations:  combos,
	}, nil
}

// Schema returns the schema the service encodes with.
func (s *Service) Schema() Schema {
	return s.schema
}
