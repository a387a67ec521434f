package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"commonAssessment/business/model"
	psqlRepo "commonAssessment/internal/repository/postgres"
	"commonAssessment/pkg/database"
)

func newModelsCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the model artifacts in the model directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd, root)
		},
	}

	cmd.AddCommand(newModelsPushCommand(root))

	return cmd
}

func listModels(cmd *cobra.Command, root *rootOptions) error {
	artifacts, err := model.NewDirStore(root.modelDir).ListArtifacts(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tVERSION\tFEATURES\tSTATUS")
	for _, a := range artifacts {
		p, err := model.Build(a)
		if err != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\tinvalid: %v\n", a.Name, a.Type, a.Version, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\tok\n", a.Name, a.Type, a.Version, p.NumFeatures())
	}
	return w.Flush()
}

func newModelsPushCommand(root *rootOptions) *cobra.Command {
	var (
		dsn     string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Copy valid artifacts from the model directory into Postgres",
		Long: `Copy every artifact in the model directory that builds into a working model
into the model_artifacts table, replacing artifacts with the same name. The API
loads them from there when MODEL_SOURCE=postgres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--dsn is required")
			}
			db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
			if err != nil {
				return fmt.Errorf("connecting to postgres: %w", err)
			}
			return pushToDB(cmd, root, db, migrate)
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN, e.g. host=localhost user=postgres dbname=common_assessment")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create the model_artifacts table if missing")

	return cmd
}

// pushToDB owns db and closes it before returning.
func pushToDB(cmd *cobra.Command, root *rootOptions, db *gorm.DB, migrate bool) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer sqlDB.Close()

	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	return pushModels(cmd, root, psqlRepo.NewModelArtifactRepository(db))
}

func pushModels(cmd *cobra.Command, root *rootOptions, repo *psqlRepo.ModelArtifactRepository) error {
	ctx := cmd.Context()
	artifacts, err := model.NewDirStore(root.modelDir).ListArtifacts(ctx)
	if err != nil {
		return err
	}

	pushed := 0
	for _, a := range artifacts {
		if _, err := model.Build(a); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", a.Name, err)
			continue
		}
		if err := repo.UpsertArtifact(ctx, a); err != nil {
			return fmt.Errorf("storing %s: %w", a.Name, err)
		}
		pushed++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d of %d artifacts\n", pushed, len(artifacts))
	return nil
}
