package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// legacyColumn maps a canonical column to its transliterated legacy name.
type legacyColumn struct {
	canonical string
	legacy    string
}

// legacyTable describes how to rebuild a table written under the old
// transliterated field scheme. The create statements stay on a single
// line: sqlite stores DDL verbatim in sqlite_master, and the sqlite
// migrator cannot re-parse multi-line statements on later runs.
type legacyTable struct {
	name    string
	create  string
	columns []legacyColumn
}

var legacyTables = []legacyTable{
	{
		name:   "articles",
		create: "CREATE TABLE `%s` (`id` integer PRIMARY KEY AUTOINCREMENT,`created_at` datetime,`updated_at` datetime,`number` text NOT NULL,`description` text)",
		columns: []legacyColumn{
			{"number", "NUMBER_STATYA"},
			{"description", "DESCRIPTION_STATYA"},
		},
	},
	{
		name:   "investigators",
		create: "CREATE TABLE `%s` (`id` integer PRIMARY KEY AUTOINCREMENT,`created_at` datetime,`updated_at` datetime,`fio` text NOT NULL,`position` text NOT NULL)",
		columns: []legacyColumn{
			{"fio", "FIO_SLIDCHY"},
			{"position", "POSADA_SLIDCHY"},
		},
	},
	{
		name:   "cases",
		create: "CREATE TABLE `%s` (`id` integer PRIMARY KEY AUTOINCREMENT,`created_at` datetime,`updated_at` datetime,`convict_id` integer NOT NULL,`investigator_id` integer NOT NULL,`status` text NOT NULL)",
		columns: []legacyColumn{
			{"convict_id", "ID_ZASUDZ"},
			{"investigator_id", "ID_SLIDCHY"},
			{"status", "STATUS_SPRAVY"},
		},
	},
}

// rebuildLegacyTables rewrites tables still carrying transliterated
// columns into the canonical schema: create a canonical table, copy the
// mapped data, drop the old table, rename. A plain column rename is not
// enough, since the table's original DDL would survive the rename and the
// migrator cannot parse the legacy statements.
func rebuildLegacyTables(db *gorm.DB) error {
	m := db.Migrator()
	for _, t := range legacyTables {
		if !m.HasTable(t.name) {
			continue
		}
		hasLegacy := false
		for _, col := range t.columns {
			if m.HasColumn(t.name, col.legacy) {
				hasLegacy = true
				break
			}
		}
		if !hasLegacy {
			continue
		}
		if err := rebuildTable(db, t); err != nil {
			return fmt.Errorf("failed to migrate legacy table %s: %w", t.name, err)
		}
	}
	return nil
}

func rebuildTable(db *gorm.DB, t legacyTable) error {
	m := db.Migrator()

	cols := []legacyColumn{
		{canonical: "id"},
		{canonical: "created_at"},
		{canonical: "updated_at"},
	}
	cols = append(cols, t.columns...)

	var dest, src []string
	for _, col := range cols {
		var expr string
		switch {
		case m.HasColumn(t.name, col.canonical):
			// The canonical column wins when both schemes coexist.
			expr = quote(col.canonical)
		case col.legacy != "" && m.HasColumn(t.name, col.legacy):
			expr = quote(col.legacy)
		default:
			expr = "NULL"
		}
		dest = append(dest, quote(col.canonical))
		src = append(src, expr)
	}

	tmp := t.name + "_canonical"
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DROP TABLE IF EXISTS " + quote(tmp)).Error; err != nil {
			return err
		}
		if err := tx.Exec(fmt.Sprintf(t.create, tmp)).Error; err != nil {
			return err
		}
		insert := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
			quote(tmp), strings.Join(dest, ","), strings.Join(src, ","), quote(t.name))
		if err := tx.Exec(insert).Error; err != nil {
			return err
		}
		if err := tx.Exec("DROP TABLE " + quote(t.name)).Error; err != nil {
			return err
		}
		return tx.Exec(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quote(tmp), quote(t.name))).Error
	})
}

func quote(name string) string {
	return "`" + name + "`"
}

// createIndexes creates database indexes. Each statement is one line so
// the stored DDL stays parseable by the migrator on later startups.
func createIndexes(db *gorm.DB) error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_cases_participants ON cases(convict_id, investigator_id)",
		"CREATE INDEX IF NOT EXISTS idx_case_links_case_article ON case_links(case_id, article_id)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expires_at)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
