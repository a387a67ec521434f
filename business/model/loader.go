package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"commonAssessment/domain"
	"commonAssessment/pkg/logger"
)

// ArtifactStore lists the model artifacts available to the service.
type ArtifactStore interface {
	ListArtifacts(ctx context.Context) ([]domain.ModelArtifact, error)
}

// DirStore reads *.json artifacts from a directory. Each file holds a
// domain.ModelArtifact; the artifact name defaults to the file name.
type DirStore struct {
	Dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

func (s *DirStore) ListArtifacts(ctx context.Context) ([]domain.ModelArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list model dir: %w", err)
	}
	sort.Strings(paths)

	out := make([]domain.ModelArtifact, 0, len(paths))
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read model %s: %w", p, err)
		}
		var a domain.ModelArtifact
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode model %s: %w", p, err)
		}
		if a.Name == "" {
			a.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		out = append(out, a)
	}
	return out, nil
}

// LoadRegistry builds every artifact in the store into reg and activates
// defaultModel. Artifacts that fail to build are skipped and logged; a missing
// default model is an error because the service cannot score without it.
func LoadRegistry(ctx context.Context, reg *Registry, store ArtifactStore, defaultModel string) error {
	if _, err := registerArtifacts(ctx, reg, store); err != nil {
		return err
	}
	return activate(reg, defaultModel)
}

// CacheInvalidator drops results cached for a model.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, modelName string) (int, error)
}

// Loader re-reads the artifact store into a live registry.
type Loader struct {
	Registry     *Registry
	Store        ArtifactStore
	DefaultModel string
	Cache        CacheInvalidator // optional
}

// Reload registers every artifact again. The active model keeps its name and
// picks up the new artifact; with no active model the default is activated.
// Cached results of every reloaded model are dropped, since an artifact can
// change without a version bump.
func (l *Loader) Reload(ctx context.Context) ([]domain.ModelInfo, error) {
	loaded, err := registerArtifacts(ctx, l.Registry, l.Store)
	if err != nil {
		return nil, err
	}

	if _, _, err := l.Registry.Current(); err != nil {
		if err := activate(l.Registry, l.DefaultModel); err != nil {
			return loaded, err
		}
	}

	if l.Cache != nil {
		for _, info := range loaded {
			n, err := l.Cache.Invalidate(ctx, info.Name)
			if err != nil {
				logger.Warn("cache invalidation failed", "model", info.Name, "error", err)
				continue
			}
			logger.Debug("cache invalidated", "model", info.Name, "keys", n)
		}
	}
	return loaded, nil
}

func registerArtifacts(ctx context.Context, reg *Registry, store ArtifactStore) ([]domain.ModelInfo, error) {
	artifacts, err := store.ListArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model artifacts: %w", err)
	}

	loaded := make([]domain.ModelInfo, 0, len(artifacts))
	for _, a := range artifacts {
		p, err := Build(a)
		if err != nil {
			logger.Warn("skipping model artifact", "model", a.Name, "type", a.Type, "error", err)
			continue
		}
		info := domain.ModelInfo{Name: a.Name, Type: a.Type, Version: a.Version}
		if err := reg.Register(info, p); err != nil {
			return loaded, err
		}
		loaded = append(loaded, info)
		logger.Info("model loaded", "model", a.Name, "type", a.Type, "version", a.Version, "features", p.NumFeatures())
	}
	return loaded, nil
}

func activate(reg *Registry, name string) error {
	if name == "" {
		names := reg.Available()
		if len(names) == 0 {
			return &domain.ModelUnavailableError{Reason: "no model artifacts found"}
		}
		name = names[0]
	}

	if _, err := reg.Switch(name); err != nil {
		return err
	}
	return nil
}
