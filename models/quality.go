package models

// QualityConfig holds the scoring weights and the acceptance threshold.
// It is threaded explicitly into the preprocessor and the scorer so that
// thresholds are testable and overridable per environment.
type QualityConfig struct {
	CompletenessWeight float64
	AccuracyWeight     float64
	ConsistencyWeight  float64
	TimelinessWeight   float64
	UniquenessWeight   float64
	ValidityWeight     float64

	// MinimumScore is the hard acceptance gate: a run scoring below it fails
	// with a DataQualityError.
	MinimumScore float64
}

func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		CompletenessWeight: 0.20,
		AccuracyWeight:     0.20,
		ConsistencyWeight:  0.20,
		TimelinessWeight:   0.15,
		UniquenessWeight:   0.15,
		ValidityWeight:     0.10,
		MinimumScore:       95.0,
	}
}

// QualityBreakdown is the per-dimension sub-scores, each in [0, 100].
type QualityBreakdown struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
	Timeliness   float64 `json:"timeliness"`
	Uniqueness   float64 `json:"uniqueness"`
	Validity     float64 `json:"validity"`
}

type QualityReport struct {
	Score     float64          `json:"score"`
	Breakdown QualityBreakdown `json:"breakdown"`
}
