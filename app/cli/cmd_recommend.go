package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"commonAssessment/business/recommend"
)

type recommendOptions struct {
	profile    string
	schemaPath string
	modelName  string
	topK       int
	order      string
	lenient    bool
	explain    bool
}

func newRecommendCommand(root *rootOptions) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Score one client profile and print the recommended interventions",
		Long: `Score one client profile read from a JSON file against a model artifact and
print the baseline and the top-K intervention combinations as JSON.

With --explain every one of the 128 combinations is printed with its rank.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.profile, "profile", "", "Path to the client profile JSON (required)")
	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "Feature schema YAML (default: built-in schema)")
	cmd.Flags().StringVar(&opts.modelName, "model", "", "Model to use (default: first artifact by name)")
	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 3, "Number of combinations to return")
	cmd.Flags().StringVar(&opts.order, "order", "asc", "Result order: asc or desc")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "Encode missing attributes as 0 instead of failing")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Print every scored combination")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func runRecommend(cmd *cobra.Command, root *rootOptions, opts *recommendOptions) error {
	raw, err := os.ReadFile(opts.profile)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return fmt.Errorf("parsing profile: %w", err)
	}

	schema, err := recommend.LoadSchemaFile(opts.schemaPath)
	if err != nil {
		return err
	}
	order, err := recommend.ParseOrder(opts.order)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	reg, err := root.loadRegistry(ctx, opts.modelName)
	if err != nil {
		return err
	}

	svc, err := recommend.NewService(schema, reg, nil, nil, nil, recommend.Config{
		TopK:           opts.topK,
		Order:          order,
		StrictFeatures: !opts.lenient,
	})
	if err != nil {
		return err
	}

	var out any
	if opts.explain {
		out, err = svc.Explain(ctx, record)
	} else {
		out, err = svc.Recommend(ctx, record)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
