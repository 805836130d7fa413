package roster

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadTable decodes a roster CSV export into the raw table the engine
// consumes. Roster exports have no fixed column count per row, so
// field-count checking is disabled.
func ReadTable(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var table [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster csv: %w", err)
		}
		empty := true
		for _, cell := range record {
			if cell != "" {
				empty = false
				break
			}
		}
		if !empty {
			table = append(table, record)
		}
	}
	return table, nil
}
