package models

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

This file contains functionality to generate a report of database columns that aren't
accounted for as fields in the corresponding Go model structs.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run .

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: users ---
Found 1 columns not accounted for in model:
  - legacy_avatar

--- Table: tags ---
All columns are accounted for in the model.
*/

// GenerateModels migrates every model, prints the column report and writes
// gorm/gen query helpers to outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Set up verbose logging for migration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	migrateDB := db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(
		User{},
		Post{},
		Tag{},
		PostTag{},
	)

	zlog.Info().Msg("Starting database migration...")
	if err := Migrate(migrateDB); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	zlog.Info().Msg("Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g.Execute()
	zlog.Info().Str("outPath", outPath).Msg("Model generation complete!")
	return nil
}

// TableModels maps each table name to its model.
func TableModels() map[string]interface{} {
	return map[string]interface{}{
		"users":     User{},
		"posts":     Post{},
		"tags":      Tag{},
		"post_tags": PostTag{},
	}
}

// GenerateColumnMismatchReport logs, per table, the database columns that no
// model field maps to, and returns them keyed by table name.
func GenerateColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	zlog.Info().Msg("=== COLUMN MISMATCH REPORT ===")

	tables := TableModels()
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	report := make(map[string][]string)
	totalMismatches := 0
	for _, tableName := range names {
		tableLog := zlog.With().Str("table", tableName).Logger()

		if !db.Migrator().HasTable(tableName) {
			tableLog.Warn().Msg("Table does not exist yet (will be created during migration)")
			continue
		}

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			return nil, err
		}

		modelFields, err := getModelFields(tables[tableName])
		if err != nil {
			return nil, err
		}

		mismatches := findColumnMismatches(dbColumns, modelFields)
		if len(mismatches) == 0 {
			tableLog.Info().Msg("All columns are accounted for in the model.")
			continue
		}

		report[tableName] = mismatches
		totalMismatches += len(mismatches)
		tableLog.Warn().Strs("columns", mismatches).Msgf("Found %d columns not accounted for in model", len(mismatches))
	}

	zlog.Info().Int("total", totalMismatches).Msg("Total mismatched columns across all tables")
	return report, nil
}

// getTableColumns retrieves column names from a database table
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	columns := make([]string, 0, len(columnTypes))
	for _, columnType := range columnTypes {
		columns = append(columns, columnType.Name())
	}
	return columns, nil
}

// getModelFields returns the column names gorm maps for the model
func getModelFields(model interface{}) ([]string, error) {
	parsed, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("error parsing model %T: %w", model, err)
	}

	fields := make([]string, 0, len(parsed.DBNames))
	for _, name := range parsed.DBNames {
		fields = append(fields, strings.ToLower(name))
	}
	return fields, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool)
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[strings.ToLower(col)] {
			mismatches = append(mismatches, col)
		}
	}

	return mismatches
}
