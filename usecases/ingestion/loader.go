package ingestion

import (
	"encoding/csv"
	"io"

	"github.com/Brownbull/ayni-be/models"
	"github.com/Brownbull/ayni-be/pure_utils"

	"github.com/cockroachdb/errors"
)

// CsvLoader reads an uploaded CSV into a canonical-column table. The column
// mapping maps canonical field names to source column names; headers found in
// the inverted mapping are renamed, everything else passes through unchanged.
type CsvLoader struct{}

func (l CsvLoader) Load(fileReader io.Reader, columnMapping map[string]string) (models.SourceTable, error) {
	reader := csv.NewReader(pure_utils.NewReaderWithoutBom(fileReader))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return models.SourceTable{}, errors.Wrap(models.ErrCsvLoad, "file is empty")
	}
	if err != nil {
		return models.SourceTable{}, errors.Join(models.ErrCsvLoad,
			errors.Wrap(err, "failed to read csv header"))
	}

	sourceToCanonical := make(map[string]string, len(columnMapping))
	for canonical, source := range columnMapping {
		sourceToCanonical[source] = canonical
	}
	for i, column := range header {
		if canonical, ok := sourceToCanonical[column]; ok {
			header[i] = canonical
		}
	}

	var rows [][]string
	record, err := reader.Read()
	for err == nil {
		rows = append(rows, record)
		record, err = reader.Read()
	}
	if err != io.EOF { //nolint:errorlint
		return models.SourceTable{}, errors.Join(models.ErrCsvLoad,
			errors.Wrap(err, "failed to parse csv rows"))
	}

	if len(rows) == 0 {
		return models.SourceTable{}, errors.Wrap(models.ErrCsvLoad,
			"file has a header but no data rows")
	}

	return models.SourceTable{Header: header, Rows: rows}, nil
}
