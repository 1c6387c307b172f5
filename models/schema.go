package models

// Canonical column names every upload is normalized to before aggregation.
// The names follow the historical "in_" prefix of exported column mappings,
// so saved mappings remain valid across versions.
const (
	ColTransactionDate = "in_dt"
	ColTransactionId   = "in_trans_id"
	ColProductId       = "in_product_id"
	ColCustomerId      = "in_customer_id"
	ColCategory        = "in_category"
	ColQuantity        = "in_quantity"
	ColPriceTotal      = "in_price_total"
	ColCostTotal       = "in_cost_total"
)

type ColumnDataType int

const (
	ColumnString ColumnDataType = iota
	ColumnFloat
	ColumnTimestamp
)

func (t ColumnDataType) String() string {
	switch t {
	case ColumnFloat:
		return "Float"
	case ColumnTimestamp:
		return "Timestamp"
	default:
		return "String"
	}
}

type ColumnDefinition struct {
	Name     string
	DataType ColumnDataType
	Required bool
}

// ColumnSchema is the fixed canonical schema for transaction uploads.
type ColumnSchema struct {
	Columns map[string]ColumnDefinition
}

func (s ColumnSchema) RequiredColumns() []string {
	// stable order for error messages and tests
	required := make([]string, 0, len(s.Columns))
	for _, name := range canonicalColumnOrder {
		if col, ok := s.Columns[name]; ok && col.Required {
			required = append(required, name)
		}
	}
	return required
}

func (s ColumnSchema) OptionalColumns() []string {
	optional := make([]string, 0, len(s.Columns))
	for _, name := range canonicalColumnOrder {
		if col, ok := s.Columns[name]; ok && !col.Required {
			optional = append(optional, name)
		}
	}
	return optional
}

var canonicalColumnOrder = []string{
	ColTransactionDate,
	ColTransactionId,
	ColProductId,
	ColCustomerId,
	ColCategory,
	ColQuantity,
	ColPriceTotal,
	ColCostTotal,
}

// CanonicalTransactionSchema returns the canonical schema. Inferable columns
// (e.g. cost_total derived from margin assumptions) are an extension point:
// no derivation rule ships yet, so a column without a source stays absent.
func CanonicalTransactionSchema() ColumnSchema {
	return ColumnSchema{
		Columns: map[string]ColumnDefinition{
			ColTransactionDate: {Name: ColTransactionDate, DataType: ColumnTimestamp, Required: true},
			ColTransactionId:   {Name: ColTransactionId, DataType: ColumnString, Required: true},
			ColProductId:       {Name: ColProductId, DataType: ColumnString, Required: true},
			ColCustomerId:      {Name: ColCustomerId, DataType: ColumnString, Required: false},
			ColCategory:        {Name: ColCategory, DataType: ColumnString, Required: false},
			ColQuantity:        {Name: ColQuantity, DataType: ColumnFloat, Required: true},
			ColPriceTotal:      {Name: ColPriceTotal, DataType: ColumnFloat, Required: true},
			ColCostTotal:       {Name: ColCostTotal, DataType: ColumnFloat, Required: false},
		},
	}
}
