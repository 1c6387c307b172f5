package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceTable is the tabular form of an uploaded CSV after column mapping:
// headers carry canonical names, cells are still raw strings. It is the input
// of the schema validator, the quality scorer and the preprocessor.
type SourceTable struct {
	Header []string
	Rows   [][]string
}

func (t SourceTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func (t SourceTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

func (t SourceTable) NumRows() int {
	return len(t.Rows)
}

// CanonicalTransaction is one source CSV line after mapping and
// standardization. It is created by the preprocessor, owned by the pipeline
// run, never mutated after creation, and persisted once into the
// raw-transaction store tagged with the owning company and upload.
type CanonicalTransaction struct {
	CompanyId       uuid.UUID
	UploadId        uuid.UUID
	TransactionDate time.Time
	TransactionId   string
	ProductId       string
	CustomerId      *string
	Category        *string
	Quantity        float64
	PriceTotal      float64
	CostTotal       *float64

	// Extra canonical fields preserved as an opaque attribute bag.
	Attributes map[string]string
}

// PreprocessResult is the preprocessor output: the canonical rows that parsed
// cleanly, the count of rows skipped due to row-level parse failures, and the
// quality report produced by the scorer.
type PreprocessResult struct {
	Transactions []CanonicalTransaction
	ErrorRows    int
	Quality      QualityReport
}
