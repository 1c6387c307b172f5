package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenancy dimension: every raw transaction, aggregation bucket
// and update record is scoped to exactly one company.
type Company struct {
	Id        uuid.UUID
	Name      string
	Industry  string
	CreatedAt time.Time
}
