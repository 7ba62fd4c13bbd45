package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Parents come first so imports never trip the foreign keys.
var tables = []string{"coach_sessions", "user_progress"}

// ExportTOML dumps every row of every table into a single TOML file, one array of tables per
// database table. NULL columns are left out.
func (s *Storage) ExportTOML(ctx context.Context, outputPath string) error {
	dbDump := make(map[string][]map[string]any)

	for _, tableName := range tables {
		tableRows, err := s.DB.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s;", tableName))
		if err != nil {
			return fmt.Errorf("querying table %s: %w", tableName, err)
		}

		cols, err := tableRows.Columns()
		if err != nil {
			tableRows.Close()
			return fmt.Errorf("getting columns for table %s: %w", tableName, err)
		}

		var tableData []map[string]any
		for tableRows.Next() {
			values := make([]any, len(cols))
			valuePtrs := make([]any, len(cols))
			for i := range values {
				valuePtrs[i] = &values[i]
			}

			if err := tableRows.Scan(valuePtrs...); err != nil {
				tableRows.Close()
				return fmt.Errorf("scanning row in table %s: %w", tableName, err)
			}

			rowMap := make(map[string]any)
			for i, col := range cols {
				switch val := values[i].(type) {
				case nil:
				case []byte:
					rowMap[col] = string(val)
				default:
					rowMap[col] = val
				}
			}
			tableData = append(tableData, rowMap)
		}
		err = tableRows.Err()
		tableRows.Close()
		if err != nil {
			return fmt.Errorf("iterating table %s: %w", tableName, err)
		}

		dbDump[tableName] = tableData
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(dbDump); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}

	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// ImportTOML replaces the content of every known table with the rows of a dump written by
// ExportTOML. Unknown tables in the dump are rejected.
func (s *Storage) ImportTOML(ctx context.Context, filePath string) error {
	var dbDump map[string][]map[string]any
	if _, err := toml.DecodeFile(filePath, &dbDump); err != nil {
		return fmt.Errorf("decoding TOML %s: %w", filePath, err)
	}
	for table := range dbDump {
		if !knownTable(table) {
			return fmt.Errorf("unknown table %q in dump", table)
		}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Children are cleared before their parents.
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s;", tables[i])); err != nil {
			return fmt.Errorf("clearing table %s: %w", tables[i], err)
		}
	}

	for _, table := range tables {
		for _, row := range dbDump[table] {
			var (
				columns      []string
				placeholders []string
				values       []any
			)
			for col, val := range row {
				if !validColumn(col) {
					return fmt.Errorf("invalid column %q in table %s", col, table)
				}
				columns = append(columns, col)
				placeholders = append(placeholders, "?")
				values = append(values, val)
			}
			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
			if _, err := tx.ExecContext(ctx, query, values...); err != nil {
				return fmt.Errorf("inserting into table %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func knownTable(name string) bool {
	for _, t := range tables {
		if t == name {
			return true
		}
	}
	return false
}

func validColumn(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && r != '_' {
			return false
		}
	}
	return true
}
