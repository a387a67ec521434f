package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema is the versioned contract between the encoder, the model and the
// result mapper: the feature order the model was trained on, the tables used
// to turn categorical answers into numbers, and the intervention catalog whose
// order defines the meaning of every flag bit.
type Schema struct {
	Version       string                        `yaml:"version"`
	Features      []string                      `yaml:"features"`
	Categories    map[string]map[string]float64 `yaml:"categories"`
	Interventions []string                      `yaml:"interventions"`
}

// InterventionCount is the catalog size the deployed models are trained with.
const InterventionCount = 7

// booleanWords applies to every feature after its own category table.
var booleanWords = map[string]float64{
	"true":  1,
	"yes":   1,
	"false": 0,
	"no":    0,
}

// DefaultSchema is the common assessment feature layout, v1.
func DefaultSchema() Schema {
	return Schema{
		Version: "cat-v1",
		Features: []string{
			"age",
			"gender",
			"work_experience",
			"canada_workex",
			"dep_num",
			"canada_born",
			"citizen_status",
			"level_of_schooling",
			"fluent_english",
			"reading_english_scale",
			"speaking_english_scale",
			"writing_english_scale",
			"numeracy_scale",
			"computer_scale",
			"transportation_bool",
			"caregiver_bool",
			"housing",
			"income_source",
			"felony_bool",
			"attending_school",
			"currently_employed",
			"substance_use",
			"time_unemployed",
			"need_mental_health_support_bool",
		},
		Categories: map[string]map[string]float64{
			"gender": {
				"M": 1, "Male": 1, "male": 1,
				"F": 2, "Female": 2, "female": 2,
			},
			"citizen_status": {
				"citizen":            0,
				"permanent_resident": 1,
				"convention_refugee": 2,
				"temporary_resident": 3,
			},
			"level_of_schooling": {
				"Grade 0-8":                     1,
				"Grade 9":                       2,
				"Grade 10":                      3,
				"Grade 11":                      4,
				"Grade 12 or equivalent":        5,
				"OAC or Grade 13":               6,
				"Some college":                  7,
				"Some university":               8,
				"Some apprenticeship":           9,
				"Certificate of Apprenticeship": 10,
				"Journeyperson":                 11,
				"Certificate/Diploma":           12,
				"Bachelor's degree":             13,
				"Post graduate":                 14,
			},
			"housing": {
				"Renting-private":            1,
				"Renting-subsidized":         2,
				"Boarding or lodging":        3,
				"Homeowner":                  4,
				"Living with family/friend":  5,
				"Institution":                6,
				"Temporary second residence": 7,
				"Emergency hostel":           8,
				"Homeless or transient":      9,
				"Other":                      10,
			},
			"income_source": {
				"No Source of Income":                  1,
				"Employment Insurance":                 2,
				"Workplace Safety and Insurance Board": 3,
				"Ontario Works applied or receiving":   4,
				"Ontario Disability Support Program applied or receiving": 5,
				"Dependent of someone receiving OW or ODSP":               6,
				"Crown Ward":      7,
				"Employment":      8,
				"Self-Employment": 9,
				"Other (specify)": 10,
			},
		},
		Interventions: []string{
			"Life Stabilization",
			"General Employment Assistance Services",
			"Retention Services",
			"Specialized Services",
			"Employment-Related Financial Supports for Job Seekers and Employers",
			"Employer Financial Supports",
			"Enhanced Referrals for Skills Development",
		},
	}
}

// Validate checks the structural invariants every schema must hold.
func (s Schema) Validate() error {
	if len(s.Features) == 0 {
		return fmt.Errorf("schema %q: no features", s.Version)
	}
	if len(s.Interventions) != InterventionCount {
		return fmt.Errorf("schema %q: intervention catalog has %d entries, want %d",
			s.Version, len(s.Interventions), InterventionCount)
	}
	seen := make(map[string]struct{}, len(s.Features))
	for _, f := range s.Features {
		if f == "" {
			return fmt.Errorf("schema %q: empty feature name", s.Version)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("schema %q: duplicate feature %q", s.Version, f)
		}
		seen[f] = struct{}{}
	}
	for f := range s.Categories {
		if _, ok := seen[f]; !ok {
			return fmt.Errorf("schema %q: category table for unknown feature %q", s.Version, f)
		}
	}
	names := make(map[string]struct{}, len(s.Interventions))
	for _, n := range s.Interventions {
		if _, dup := names[n]; dup || n == "" {
			return fmt.Errorf("schema %q: invalid or duplicate intervention %q", s.Version, n)
		}
		names[n] = struct{}{}
	}
	return nil
}

// Width is the column count of a scoring row.
func (s Schema) Width() int {
	return len(s.Features) + len(s.Interventions)
}

// LoadSchemaFile reads a YAML schema. An empty path returns DefaultSchema.
func LoadSchemaFile(path string) (Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read feature schema: %w", err)
	}

	var s Schema
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Schema{}, fmt.Errorf("parse feature schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}
