package ingestion

import (
	"strings"
	"testing"

	"github.com/Brownbull/ayni-be/models"

	"github.com/stretchr/testify/assert"
)

func TestCsvLoader_RenamesMappedColumns(t *testing.T) {
	csvData := "date,ticket,sku,qty,total\n2024-01-01,T001,P001,10,100.0\n"
	mapping := map[string]string{
		models.ColTransactionDate: "date",
		models.ColTransactionId:   "ticket",
		models.ColProductId:       "sku",
		models.ColQuantity:        "qty",
		models.ColPriceTotal:      "total",
	}

	table, err := CsvLoader{}.Load(strings.NewReader(csvData), mapping)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		models.ColTransactionDate, models.ColTransactionId, models.ColProductId,
		models.ColQuantity, models.ColPriceTotal,
	}, table.Header)
	assert.Equal(t, 1, table.NumRows())
}

func TestCsvLoader_UnmappedColumnsPassThrough(t *testing.T) {
	csvData := "in_dt,store_location\n2024-01-01,santiago\n"

	table, err := CsvLoader{}.Load(strings.NewReader(csvData), nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"in_dt", "store_location"}, table.Header)
}

func TestCsvLoader_StripsUtf8Bom(t *testing.T) {
	csvData := "\xEF\xBB\xBFin_dt,in_trans_id\n2024-01-01,T001\n"

	table, err := CsvLoader{}.Load(strings.NewReader(csvData), nil)
	assert.NoError(t, err)
	assert.Equal(t, "in_dt", table.Header[0])
}

func TestCsvLoader_HeaderOnlyFileFails(t *testing.T) {
	_, err := CsvLoader{}.Load(strings.NewReader("in_dt,in_trans_id\n"), nil)
	assert.ErrorIs(t, err, models.ErrCsvLoad)
}

func TestCsvLoader_EmptyFileFails(t *testing.T) {
	_, err := CsvLoader{}.Load(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, models.ErrCsvLoad)
}

func TestCsvLoader_MalformedCsvFails(t *testing.T) {
	_, err := CsvLoader{}.Load(strings.NewReader("in_dt,\"bad\n2024-01-01"), nil)
	assert.ErrorIs(t, err, models.ErrCsvLoad)
}
