package recommend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"commonAssessment/domain"
)

// FeatureVector is a client profile encoded in schema feature order.
type FeatureVector []float64

// Encoder turns raw client attribute records into feature vectors.
type Encoder struct {
	schema Schema
	strict bool
}

// NewEncoder builds an encoder. In strict mode missing attributes are reported
// as a ValidationError; otherwise they are encoded as 0.
func NewEncoder(schema Schema, strict bool) *Encoder {
	return &Encoder{schema: schema, strict: strict}
}

// Encode converts record into a FeatureVector. Every missing or unparseable
// attribute is collected so the caller gets the full list in one error.
func (e *Encoder) Encode(record map[string]any) (FeatureVector, error) {
	out := make(FeatureVector, len(e.schema.Features))
	verr := &domain.ValidationError{}

	for i, name := range e.schema.Features {
		v, present, err := e.encodeValue(name, record[name])
		switch {
		case err != nil:
			if verr.Invalid == nil {
				verr.Invalid = make(map[string]string)
			}
			verr.Invalid[name] = err.Error()
		case !present:
			if e.strict {
				verr.Missing = append(verr.Missing, name)
			}
			out[i] = 0
		default:
			out[i] = v
		}
	}

	if verr.HasProblems() {
		return nil, verr
	}
	return out, nil
}

// encodeValue returns present=false for nil and blank strings.
func (e *Encoder) encodeValue(name string, raw any) (float64, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case bool:
		if v {
			return 1, true, nil
		}
		return 0, true, nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true, nil
	case int8:
		return float64(v), true, nil
	case int16:
		return float64(v), true, nil
	case int32:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case uint:
		return float64(v), true, nil
	case uint8:
		return float64(v), true, nil
	case uint16:
		return float64(v), true, nil
	case uint32:
		return float64(v), true, nil
	case uint64:
		return float64(v), true, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, true, fmt.Errorf("not a number: %q", v.String())
		}
		return finite(f)
	case string:
		return e.encodeText(name, v)
	default:
		return 0, true, fmt.Errorf("unsupported type %T", raw)
	}
}

func (e *Encoder) encodeText(name, raw string) (float64, bool, error) {
	s := quotes.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, false, nil
	}
	if table, ok := e.schema.Categories[name]; ok {
		if v, ok := table[s]; ok {
			return v, true, nil
		}
	}
	if v, ok := booleanWords[strings.ToLower(s)]; ok {
		return v, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, fmt.Errorf("unrecognised value %q", raw)
	}
	return finite(f)
}

// Category labels are keyed with ASCII apostrophes; clients often send the
// typographic ones.
var quotes = strings.NewReplacer("\u2019", "'", "\u2018", "'", "\u02bc", "'")

func finite(v float64) (float64, bool, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, fmt.Errorf("non-finite value %v", v)
	}
	return v, true, nil
}

// Named pairs each feature value with its schema name, for explanations.
func (e *Encoder) Named(v FeatureVector) map[string]float64 {
	out := make(map[string]float64, len(v))
	for i, name := range e.schema.Features {
		if i < len(v) {
			out[name] = v[i]
		}
	}
	return out
}
