// Package database handles GORM connections and schema inspection.
//
// It is used in two places: the result store opens its own database through Connect
// (sqlite or mysql, selected by Config.Driver), and the sqlite/mysql/mariadb endpoint
// adapters open the databases being compared through the same function.
//
// # Connect
//
// Connect builds the dialector for the configured driver, applies pool settings and
// pings the database within the configured timeout. sqlite databases are limited to a
// single open connection.
//
// # Schema Inspection
//
// GetTableColumns returns column definitions in table order using SHOW COLUMNS on
// mysql and PRAGMA table_info on sqlite. GetPrimaryKeys and CountRows complete the
// information endpoint adapters need to describe a table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	columns, err := database.GetTableColumns(db, "customers")
package database
