package recommend

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commonAssessment/domain"
)

func goldenRecord() map[string]any {
	return map[string]any{
		"age":                             18,
		"gender":                          "M",
		"work_experience":                 3,
		"canada_workex":                   0,
		"dep_num":                         1,
		"canada_born":                     "true",
		"citizen_status":                  "citizen",
		"level_of_schooling":              "Grade 12 or equivalent",
		"fluent_english":                  "true",
		"reading_english_scale":           3,
		"speaking_english_scale":          1,
		"writing_english_scale":           3,
		"numeracy_scale":                  0,
		"computer_scale":                  2,
		"transportation_bool":             "false",
		"caregiver_bool":                  "true",
		"housing":                         "Living with family/friend",
		"income_source":                   "No Source of Income",
		"felony_bool":                     "true",
		"attending_school":                "false",
		"currently_employed":              "true",
		"substance_use":                   "true",
		"time_unemployed":                 1,
		"need_mental_health_support_bool": "false",
	}
}

var goldenVector = FeatureVector{18, 1, 3, 0, 1, 1, 0, 5, 1, 3, 1, 3, 0, 2, 0, 1, 5, 1, 1, 0, 1, 1, 1, 0}

func TestEncode_GoldenProfile(t *testing.T) {
	enc := NewEncoder(DefaultSchema(), true)

	got, err := enc.Encode(goldenRecord())
	require.NoError(t, err)
	assert.Equal(t, goldenVector, got)
}

func TestEncode_JSONDecodedRecord(t *testing.T) {
	raw, err := json.Marshal(goldenRecord())
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(raw, &rec))

	got, err := NewEncoder(DefaultSchema(), true).Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, goldenVector, got)
}

func TestEncode_JSONNumber(t *testing.T) {
	rec := goldenRecord()
	rec["age"] = json.Number("42")

	got, err := NewEncoder(DefaultSchema(), true).Encode(rec)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got[0])
}

func TestEncode_StrictReportsEveryMissingField(t *testing.T) {
	rec := goldenRecord()
	delete(rec, "age")
	rec["housing"] = nil
	rec["gender"] = "   "

	_, err := NewEncoder(DefaultSchema(), true).Encode(rec)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"age", "gender", "housing"}, verr.Missing)
	assert.Empty(t, verr.Invalid)
}

func TestEncode_LenientDefaultsMissingToZero(t *testing.T) {
	rec := goldenRecord()
	delete(rec, "age")
	delete(rec, "housing")

	got, err := NewEncoder(DefaultSchema(), false).Encode(rec)
	require.NoError(t, err)

	want := append(FeatureVector(nil), goldenVector...)
	want[0] = 0
	want[16] = 0
	assert.Equal(t, want, got)
}

func TestEncode_InvalidValues(t *testing.T) {
	rec := goldenRecord()
	rec["gender"] = "X"
	rec["age"] = math.NaN()
	rec["dep_num"] = []int{1}

	// lenient mode still rejects values it cannot encode
	_, err := NewEncoder(DefaultSchema(), false).Encode(rec)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, verr.Missing)
	assert.Contains(t, verr.Invalid, "gender")
	assert.Contains(t, verr.Invalid, "age")
	assert.Contains(t, verr.Invalid, "dep_num")
}

func TestEncode_TextForms(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  float64
	}{
		{"boolean yes", "canada_born", "Yes", 1},
		{"boolean no", "felony_bool", "no", 0},
		{"native bool", "caregiver_bool", true, 1},
		{"numeric string", "age", " 31 ", 31},
		{"float", "numeracy_scale", 2.5, 2.5},
		{"category long form", "gender", "Female", 2},
		{"category trimmed", "housing", " Homeowner ", 4},
		{"ascii apostrophe", "level_of_schooling", "Bachelor's degree", 13},
		{"curly apostrophe", "level_of_schooling", "Bachelor\u2019s degree", 13},
	}

	schema := DefaultSchema()
	index := make(map[string]int, len(schema.Features))
	for i, f := range schema.Features {
		index[f] = i
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := goldenRecord()
			rec[tt.field] = tt.value

			got, err := NewEncoder(schema, true).Encode(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got[index[tt.field]])
		})
	}
}

func TestEncoder_Named(t *testing.T) {
	enc := NewEncoder(DefaultSchema(), true)
	named := enc.Named(goldenVector)

	assert.Len(t, named, 24)
	assert.Equal(t, 18.0, named["age"])
	assert.Equal(t, 5.0, named["level_of_schooling"])
}

func TestSchema_Validate(t *testing.T) {
	require.NoError(t, DefaultSchema().Validate())
	assert.Equal(t, 31, DefaultSchema().Width())

	short := DefaultSchema()
	short.Interventions = short.Interventions[:6]
	assert.Error(t, short.Validate())

	dup := DefaultSchema()
	dup.Features = append(dup.Features, "age")
	assert.Error(t, dup.Validate())

	orphan := DefaultSchema()
	orphan.Categories = map[string]map[string]float64{"colour": {"red": 1}}
	assert.Error(t, orphan.Validate())
}

func TestLoadSchemaFile(t *testing.T) {
	s, err := LoadSchemaFile("")
	require.NoError(t, err)
	assert.Equal(t, "cat-v1", s.Version)

	path := filepath.Join(t.TempDir(), "schema.yaml")
	doc := `version: test-v2
features: [age, gender]
categories:
  gender: {M: 1, F: 2}
interventions: [a, b, c, d, e, f, g]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err = LoadSchemaFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test-v2", s.Version)
	assert.Equal(t, []string{"age", "gender"}, s.Features)
	assert.Equal(t, 2.0, s.Categories["gender"]["F"])
	assert.Equal(t, 9, s.Width())

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: x\nfeatures: [a]\ninterventions: [a]\n"), 0o600))
	_, err = LoadSchemaFile(bad)
	assert.Error(t, err)

	_, err = LoadSchemaFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
