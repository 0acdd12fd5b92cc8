package services

import (
	"database/sql"

	"table-gateway/internal/models"
)

// scanRowsToMaps reads every row into a Record. Drivers hand back text
// columns as []byte; those become strings so they encode as JSON text.
func scanRowsToMaps(rows *sql.Rows) ([]models.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []models.Record

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(models.Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}

		results = append(results, record)
	}

	return results, rows.Err()
}
