package recommend

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"commonAssessment/domain"
)

const (
	outcomeOK               = "ok"
	outcomeInvalidInput     = "invalid_input"
	outcomeModelUnavailable = "model_unavailable"
	outcomePredictionError  = "prediction_error"
	outcomeError            = "error"
)

var (
	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervention_recommendations_total",
			Help: "Count of recommendation requests by model and outcome.",
		},
		[]string{"model", "outcome"},
	)

	PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intervention_prediction_duration_seconds",
			Help:    "Time spent in model prediction calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervention_recommendation_cache_total",
			Help: "Recommendation cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RecommendationsTotal, PredictionDuration, CacheLookupsTotal)
}

func outcomeFor(err error) string {
	var (
		verr *domain.ValidationError
		merr *domain.ModelUnavailableError
		perr *domain.PredictionError
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &verr):
		return outcomeInvalidInput
	case errors.As(err, &merr):
		return outcomeModelUnavailable
	case errors.As(err, &perr):
		return outcomePredictionError
	default:
		return outcomeError
	}
}
