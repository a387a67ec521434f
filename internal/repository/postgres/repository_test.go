package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"commonAssessment/business/recommend"
	"commonAssessment/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestClientRepository_GetAttributes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	rows := sqlmock.NewRows([]string{"id", "attributes"}).
		AddRow(7, []byte(`{"age":18,"gender":"M","canada_born":"true"}`))
	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1`).WillReturnRows(rows)

	attrs, err := repo.GetAttributes(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, json.Number("18"), attrs["age"])
	assert.Equal(t, "M", attrs["gender"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_StoredProfileEncodes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	stored := `{
		"age": 18, "gender": "M", "work_experience": 3, "canada_workex": 0, "dep_num": 1,
		"canada_born": "true", "citizen_status": "citizen", "level_of_schooling": "Grade 12 or equivalent",
		"fluent_english": "true", "reading_english_scale": 3, "speaking_english_scale": 1,
		"writing_english_scale": 3, "numeracy_scale": 0, "computer_scale": 2,
		"transportation_bool": "false", "caregiver_bool": "true", "housing": "Living with family/friend",
		"income_source": "No Source of Income", "felony_bool": "true", "attending_school": "false",
		"currently_employed": "true", "substance_use": "true", "time_unemployed": 1,
		"need_mental_health_support_bool": "false"
	}`
	mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "attributes"}).AddRow(7, []byte(stored)))

	attrs, err := repo.GetAttributes(context.Background(), 7)
	require.NoError(t, err)

	vec, err := recommend.NewEncoder(recommend.DefaultSchema(), true).Encode(attrs)
	require.NoError(t, err)
	assert.Equal(t, recommend.FeatureVector{18, 1, 3, 0, 1, 1, 0, 5, 1, 3, 1, 3, 0, 2, 0, 1, 5, 1, 1, 0, 1, 1, 1, 0}, vec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "clients"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "attributes"}))

	_, err := repo.GetAttributes(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "clients"`).WillReturnError(boom)

	_, err := repo.GetAttributes(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrClientNotFound)
}

func TestRecommendationRepository_SaveResult(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecommendationRepository(db)

	entry := domain.RecommendationLog{
		ID:            uuid.New(),
		ClientID:      7,
		ModelName:     "linear-v1",
		ModelVersion:  "1",
		SchemaVersion: "cat-v1",
		Baseline:      67.6,
		Result:        []byte(`{"baseline":67.6,"interventions":[]}`),
		TraceID:       "trace-1",
	}

	mock.ExpectExec(`INSERT INTO "recommendation_results"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SaveResult(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_ListByClient(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecommendationRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "client_id", "model_name", "model_version", "schema_version",
		"baseline", "result", "trace_id", "created_at",
	}).AddRow(id.String(), 7, "linear-v1", "1", "cat-v1", 67.6, []byte(`{}`), "t", now)

	mock.ExpectQuery(`SELECT \* FROM "recommendation_results" WHERE client_id = \$1 ORDER BY created_at DESC`).
		WillReturnRows(rows)

	logs, err := repo.ListByClient(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, id, logs[0].ID)
	assert.Equal(t, "linear-v1", logs[0].ModelName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelArtifactRepository_ListArtifacts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"name", "type", "version", "payload", "created_at", "updated_at"}).
		AddRow("forest", "random_forest", "3", []byte(`{"n_features":31,"trees":[]}`), now, now).
		AddRow("linear", "linear_regression", "1", []byte(`{"intercept":1,"coefficients":[1]}`), now, now)

	mock.ExpectQuery(`SELECT \* FROM "model_artifacts" ORDER BY name`).WillReturnRows(rows)

	arts, err := repo.ListArtifacts(context.Background())
	require.NoError(t, err)
	require.Len(t, arts, 2)
	assert.Equal(t, "forest", arts[0].Name)
	assert.Equal(t, "linear_regression", arts[1].Type)
	assert.JSONEq(t, `{"intercept":1,"coefficients":[1]}`, string(arts[1].Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelArtifactRepository_UpsertArtifact(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	mock.ExpectExec(`INSERT INTO "model_artifacts" .* ON CONFLICT \("name"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertArtifact(context.Background(), domain.ModelArtifact{
		Name:    "linear",
		Type:    "linear_regression",
		Version: "2",
		Payload: []byte(`{"intercept":0,"coefficients":[1,2]}`),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
