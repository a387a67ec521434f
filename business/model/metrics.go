package model

import "github.com/prometheus/client_golang/prometheus"

var ModelSwitchesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "intervention_model_switches_total",
		Help: "Number of times each model was made active.",
	},
	[]string{"model"},
)

func init() {
	prometheus.MustRegister(ModelSwitchesTotal)
}
