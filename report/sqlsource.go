package report

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// QueryRecords runs query on db and returns one record per result row,
// keyed by column name. Blob values come back as strings.
func QueryRecords(ctx context.Context, db *sql.DB, query string, args ...any) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	var records []map[string]any
	for rows.Next() {
		ptrs := make([]any, len(cols))
		for i := range ptrs {
			ptrs[i] = new(any)
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan record %d: %w", len(records), err)
		}
		rec := make(map[string]any, len(cols))
		for i, name := range cols {
			v := *(ptrs[i].(*any))
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[name] = v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return records, nil
}

// LoadSQLiteRecords opens the SQLite database at path read-only and runs
// query against it.
func LoadSQLiteRecords(ctx context.Context, path, query string, args ...any) ([]map[string]any, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("sqlite %q: %w", path, err)
	}
	defer db.Close()

	records, err := QueryRecords(ctx, db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite %q: %w", path, err)
	}
	return records, nil
}
