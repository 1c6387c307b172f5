package ingestion

import (
	"strings"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"
	"github.com/Brownbull/ayni-be/repositories/clock"

	"github.com/hashicorp/go-set/v2"
)

// QualityScorer computes the composite 0-100 data quality score as a weighted
// sum of six dimension sub-scores, each clamped to [0, 100]. Deterministic for
// a fixed table, schema, config and clock.
type QualityScorer struct {
	schema models.ColumnSchema
	config models.QualityConfig
	clock  clock.Clock
}

func NewQualityScorer(schema models.ColumnSchema, config models.QualityConfig, c clock.Clock) QualityScorer {
	return QualityScorer{schema: schema, config: config, clock: c}
}

func (s QualityScorer) Score(table models.SourceTable) models.QualityReport {
	breakdown := models.QualityBreakdown{
		Completeness: clampScore(s.completeness(table)),
		Accuracy:     clampScore(s.accuracy(table)),
		Consistency:  clampScore(s.consistency(table)),
		Timeliness:   clampScore(s.timeliness(table)),
		Uniqueness:   clampScore(s.uniqueness(table)),
		Validity:     clampScore(s.validity(table)),
	}

	score := breakdown.Completeness*s.config.CompletenessWeight +
		breakdown.Accuracy*s.config.AccuracyWeight +
		breakdown.Consistency*s.config.ConsistencyWeight +
		breakdown.Timeliness*s.config.TimelinessWeight +
		breakdown.Uniqueness*s.config.UniquenessWeight +
		breakdown.Validity*s.config.ValidityWeight

	return models.QualityReport{Score: score, Breakdown: breakdown}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func isMissing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// completeness is the share of non-missing cells over every required column.
func (s QualityScorer) completeness(table models.SourceTable) float64 {
	var total, present int
	for _, column := range s.schema.RequiredColumns() {
		idx := table.ColumnIndex(column)
		if idx < 0 {
			continue
		}
		for _, row := range table.Rows {
			total++
			if idx < len(row) && !isMissing(row[idx]) {
				present++
			}
		}
	}
	if total == 0 {
		return 100
	}
	return float64(present) / float64(total) * 100
}

// accuracy starts at 100 and loses up to 20 points per value check, scaled by
// the share of offending rows.
func (s QualityScorer) accuracy(table models.SourceTable) float64 {
	score := 100.0
	totalRows := table.NumRows()
	if totalRows == 0 {
		return score
	}

	for _, column := range []string{models.ColQuantity, models.ColPriceTotal} {
		idx := table.ColumnIndex(column)
		if idx < 0 {
			continue
		}
		invalid := 0
		for _, row := range table.Rows {
			if idx >= len(row) || isMissing(row[idx]) {
				continue
			}
			if value, err := pure_utils.ParseFloat(row[idx]); err == nil && value <= 0 {
				invalid++
			}
		}
		score -= float64(invalid) / float64(totalRows) * 20
	}
	return score
}

// consistency penalizes a transaction-date column that cannot be uniformly
// parsed as dates.
func (s QualityScorer) consistency(table models.SourceTable) float64 {
	score := 100.0
	idx := table.ColumnIndex(models.ColTransactionDate)
	if idx < 0 {
		return score
	}
	for _, row := range table.Rows {
		if idx >= len(row) || isMissing(row[idx]) {
			continue
		}
		if _, err := pure_utils.ParseDate(row[idx]); err != nil {
			return score - 20
		}
	}
	return score
}

// timeliness tiers the age of the most recent transaction date. An unusable
// date column is assumed fresh.
func (s QualityScorer) timeliness(table models.SourceTable) float64 {
	idx := table.ColumnIndex(models.ColTransactionDate)
	if idx < 0 {
		return 100
	}

	var hasDate bool
	var maxDate int64
	for _, row := range table.Rows {
		if idx >= len(row) || isMissing(row[idx]) {
			continue
		}
		date, err := pure_utils.ParseDate(row[idx])
		if err != nil {
			continue
		}
		if !hasDate || date.Unix() > maxDate {
			hasDate = true
			maxDate = date.Unix()
		}
	}
	if !hasDate {
		return 100
	}

	daysOld := int(s.clock.Now().Unix()-maxDate) / (24 * 3600)
	switch {
	case daysOld <= 30:
		return 100
	case daysOld <= 90:
		return 90
	default:
		return 80
	}
}

// uniqueness penalizes duplicate transaction ids proportionally.
func (s QualityScorer) uniqueness(table models.SourceTable) float64 {
	idx := table.ColumnIndex(models.ColTransactionId)
	if idx < 0 || table.NumRows() == 0 {
		return 100
	}

	seen := set.New[string](table.NumRows())
	duplicates := 0
	for _, row := range table.Rows {
		if idx >= len(row) {
			continue
		}
		if seen.Contains(row[idx]) {
			duplicates++
		} else {
			seen.Insert(row[idx])
		}
	}
	return 100 - float64(duplicates)/float64(table.NumRows())*100
}

// validity subtracts 10 points per canonical column whose values disagree
// with the declared schema type.
func (s QualityScorer) validity(table models.SourceTable) float64 {
	score := 100.0
	for name, definition := range s.schema.Columns {
		idx := table.ColumnIndex(name)
		if idx < 0 {
			continue
		}

		var mistyped bool
		for _, row := range table.Rows {
			if idx >= len(row) || isMissing(row[idx]) {
				continue
			}
			switch definition.DataType {
			case models.ColumnTimestamp:
				if _, err := pure_utils.ParseDate(row[idx]); err != nil {
					mistyped = true
				}
			case models.ColumnFloat:
				if _, err := pure_utils.ParseFloat(row[idx]); err != nil {
					mistyped = true
				}
			}
			if mistyped {
				break
			}
		}
		if mistyped {
			score -= 10
		}
	}
	return score
}
