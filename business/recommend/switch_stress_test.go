//go:build !integration

package recommend

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonAssessment/business/model"
	"commonAssessment/domain"
)

// scenario params
const (
	stressModels   = 4
	stressReaders  = 16
	stressRequests = 50
	stressSwitches = 200
)

// Every model scores all rows with its own constant, so a response mixing two
// models would show up as a baseline that differs from its combination scores.
func TestRecommend_ConcurrentModelSwitch(t *testing.T) {
	reg := model.NewRegistry()
	for i := range stressModels {
		score := float64(100 * (i + 1))
		name := fmt.Sprintf("m%d", i)
		require.NoError(t, reg.Register(
			domain.ModelInfo{Name: name, Version: "1"},
			&scriptedModel{width: 31, score: func(int) float64 { return score }},
		))
	}
	_, err := reg.Switch("m0")
	require.NoError(t, err)

	svc, err := NewService(DefaultSchema(), reg, nil, nil, newMemCache(), DefaultConfig())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, stressReaders*stressRequests)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range stressSwitches {
			if _, err := reg.Switch(fmt.Sprintf("m%d", i%stressModels)); err != nil {
				errs <- err
				return
			}
		}
	}()

	for range stressReaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range stressRequests {
				res, err := svc.Recommend(context.Background(), goldenRecord())
				if err != nil {
					errs <- err
					return
				}
				for _, iv := range res.Interventions {
					if iv.Score != res.Baseline {
						errs <- fmt.Errorf("mixed models: baseline %v, combination %v", res.Baseline, iv.Score)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
