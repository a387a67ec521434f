package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"commonAssessment/business/model"
	"commonAssessment/pkg/logger"
)

var version = "dev"

type rootOptions struct {
	modelDir string
	debug    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cat-reco",
		Short: "Offline tools for the intervention recommendation engine",
		Long: `cat-reco scores client profiles against model artifacts without running
the API, and manages the artifacts the API loads.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.modelDir, "model-dir", "./models", "Directory holding *.json model artifacts")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if opts.debug {
			logger.Init("development")
			return
		}
		logger.Set(zap.NewNop())
	}

	cmd.AddCommand(newRecommendCommand(opts))
	cmd.AddCommand(newModelsCommand(opts))
	cmd.AddCommand(newTokenCommand())

	return cmd
}

// loadRegistry reads every artifact in the model directory and activates name,
// or the first artifact when name is empty.
func (o *rootOptions) loadRegistry(ctx context.Context, name string) (*model.Registry, error) {
	reg := model.NewRegistry()
	if err := model.LoadRegistry(ctx, reg, model.NewDirStore(o.modelDir), name); err != nil {
		return nil, err
	}
	return reg, nil
}
