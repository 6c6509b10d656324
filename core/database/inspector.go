package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// Nullable reports whether the column accepts NULL.
func (c ColumnInfo) Nullable() bool { return strings.EqualFold(c.Null, "YES") }

// PrimaryKey reports whether the column is part of the primary key.
func (c ColumnInfo) PrimaryKey() bool { return c.Key == "PRI" }

// GetTableColumns retrieves the column definitions for a given table in table order.
// Column names keep their declared case; types are lowercased.
// A table that does not exist yields an empty slice on sqlite and an error on mysql.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo

	if db.Dialector.Name() == "sqlite" {
		type SQLiteColumn struct {
			Cid        int
			Name       string
			Type       string
			Notnull    int
			DefaultVal *string `gorm:"column:dflt_value"`
			Pk         int
		}
		var sqliteCols []SQLiteColumn
		q := fmt.Sprintf("PRAGMA table_info('%s')", strings.ReplaceAll(tableName, "'", "''"))
		if err := db.Raw(q).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}

		for _, col := range sqliteCols {
			info := ColumnInfo{
				Field:   col.Name,
				Type:    strings.ToLower(col.Type),
				Null:    "YES",
				Default: col.DefaultVal,
			}
			if col.Notnull == 1 {
				info.Null = "NO"
			}
			if col.Pk > 0 {
				info.Key = "PRI"
			}
			columns = append(columns, info)
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM %s", QuoteMySQL(tableName))).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// GetPrimaryKeys returns the primary key columns of a table in key order.
func GetPrimaryKeys(db *gorm.DB, tableName string) ([]string, error) {
	if db.Dialector.Name() == "sqlite" {
		type pkColumn struct {
			Name string
			Pk   int
		}
		var cols []pkColumn
		q := fmt.Sprintf("SELECT name, pk FROM pragma_table_info('%s') WHERE pk > 0 ORDER BY pk", strings.ReplaceAll(tableName, "'", "''"))
		if err := db.Raw(q).Scan(&cols).Error; err != nil {
			return nil, fmt.Errorf("failed to get primary keys for table %s: %w", tableName, err)
		}
		keys := make([]string, len(cols))
		for i, c := range cols {
			keys[i] = c.Name
		}
		return keys, nil
	}

	var keys []string
	err := db.Raw(`SELECT column_name FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`, tableName).Scan(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get primary keys for table %s: %w", tableName, err)
	}
	return keys, nil
}

// CountRows returns the number of rows in a table.
func CountRows(db *gorm.DB, tableName string) (int64, error) {
	var n int64
	if err := db.Table(tableName).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", tableName, err)
	}
	return n, nil
}

// Quote quotes an identifier for the dialect of db.
func Quote(db *gorm.DB, ident string) string {
	if db.Dialector.Name() == "sqlite" {
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	}
	return QuoteMySQL(ident)
}

// QuoteMySQL quotes an identifier with backticks.
func QuoteMySQL(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
