package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPushToDB_StoresValidArtifactsAndCloses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "linear.json", linearArtifact)
	writeFile(t, dir, "odd.json", `{"type": "decision_tree", "payload": {}}`)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "model_artifacts"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectClose()

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())

	require.NoError(t, pushToDB(cmd, &rootOptions{modelDir: dir}, db, false))
	assert.Contains(t, out.String(), "skipping odd")
	assert.Contains(t, out.String(), "Pushed 1 of 2 artifacts")
	assert.NoError(t, mock.ExpectationsWereMet(), "connection is closed after the push")
}
