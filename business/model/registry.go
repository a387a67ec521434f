package model

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"commonAssessment/domain"
)

type entry struct {
	info      domain.ModelInfo
	predictor Predictor
}

// Registry holds every loaded model and the one currently used for scoring.
// Writers (Register, Switch) are serialised; readers only load an atomic
// pointer, so a request either sees the old model or the new one.
type Registry struct {
	mu      sync.Mutex
	models  map[string]*entry
	current atomic.Pointer[entry]
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*entry)}
}

// Register adds or replaces a model. If it replaces the active model, the new
// instance becomes active.
func (r *Registry) Register(info domain.ModelInfo, p Predictor) error {
	if info.Name == "" {
		return fmt.Errorf("model name is required")
	}
	if p == nil {
		return fmt.Errorf("model %q: nil predictor", info.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := &entry{info: info, predictor: p}
	r.models[info.Name] = e
	if cur := r.current.Load(); cur != nil && cur.info.Name == info.Name {
		r.current.Store(e)
	}
	return nil
}

// Switch makes the named model active. On error the active model is unchanged.
func (r *Registry) Switch(name string) (domain.ModelInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.models[name]
	if !ok {
		return domain.ModelInfo{}, &domain.ModelUnavailableError{Model: name, Reason: "not registered"}
	}
	r.current.Store(e)
	ModelSwitchesTotal.WithLabelValues(name).Inc()
	return e.info, nil
}

// Current returns the active model.
func (r *Registry) Current() (Predictor, domain.ModelInfo, error) {
	e := r.current.Load()
	if e == nil {
		return nil, domain.ModelInfo{}, &domain.ModelUnavailableError{Reason: "no model loaded"}
	}
	return e.predictor, e.info, nil
}

// Available lists registered model names in sorted order.
func (r *Registry) Available() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.models))
	for n := range r.models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Models lists the info of every registered model, sorted by name.
func (r *Registry) Models() []domain.ModelInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ModelInfo, 0, len(r.models))
	for _, e := range r.models {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
