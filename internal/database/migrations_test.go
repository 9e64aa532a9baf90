package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestMigrateFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	m := db.Migrator()
	for _, table := range []string{"articles", "convicts", "investigators", "cases", "case_links", "sentences", "users", "sessions"} {
		assert.True(t, m.HasTable(table), "missing table %s", table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrateRenamesLegacyColumns(t *testing.T) {
	db := openTestDB(t)

	// A database written under the transliterated legacy scheme.
	require.NoError(t, db.Exec(`
		CREATE TABLE articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			NUMBER_STATYA TEXT,
			DESCRIPTION_STATYA TEXT
		)
	`).Error)
	require.NoError(t, db.Exec(`
		CREATE TABLE investigators (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			FIO_SLIDCHY TEXT,
			POSADA_SLIDCHY TEXT
		)
	`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO articles (NUMBER_STATYA, DESCRIPTION_STATYA) VALUES (?, ?)`,
		"185", "Theft",
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO investigators (FIO_SLIDCHY, POSADA_SLIDCHY) VALUES (?, ?)`,
		"Shevchenko O.O.", "Senior Investigator",
	).Error)

	require.NoError(t, Migrate(db))

	// Records survive under the canonical columns.
	var article Article
	require.NoError(t, db.First(&article).Error)
	assert.Equal(t, "185", article.Number)
	require.NotNil(t, article.Description)
	assert.Equal(t, "Theft", *article.Description)

	var investigator Investigator
	require.NoError(t, db.First(&investigator).Error)
	assert.Equal(t, "Shevchenko O.O.", investigator.FIO)
	assert.Equal(t, "Senior Investigator", investigator.Position)

	m := db.Migrator()
	assert.False(t, m.HasColumn(&Article{}, "NUMBER_STATYA"))
	assert.False(t, m.HasColumn(&Investigator{}, "FIO_SLIDCHY"))
}

func TestMigrateRenamesLegacyCaseColumns(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Exec(`
		CREATE TABLE cases (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ID_ZASUDZ INTEGER,
			ID_SLIDCHY INTEGER,
			STATUS_SPRAVY TEXT
		)
	`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO cases (ID_ZASUDZ, ID_SLIDCHY, STATUS_SPRAVY) VALUES (?, ?, ?)`,
		3, 7, "active",
	).Error)

	require.NoError(t, Migrate(db))

	var c Case
	require.NoError(t, db.First(&c).Error)
	assert.EqualValues(t, 3, c.ConvictID)
	assert.EqualValues(t, 7, c.InvestigatorID)
	assert.Equal(t, CaseStatusActive, c.Status)
}

func TestMigrateLegacyDatabaseThenRestart(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Exec(`
		CREATE TABLE articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			NUMBER_STATYA TEXT,
			DESCRIPTION_STATYA TEXT
		)
	`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO articles (NUMBER_STATYA, DESCRIPTION_STATYA) VALUES (?, ?)`,
		"185", "Theft",
	).Error)

	// First startup migrates the legacy table, the next ones must accept
	// the rebuilt schema as-is.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var article Article
	require.NoError(t, db.First(&article).Error)
	assert.Equal(t, "185", article.Number)
}

func TestMigratePrefersCanonicalColumns(t *testing.T) {
	db := openTestDB(t)

	// Both naming schemes coexist; the canonical column wins.
	require.NoError(t, db.Exec(`
		CREATE TABLE articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT,
			NUMBER_STATYA TEXT,
			DESCRIPTION_STATYA TEXT
		)
	`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO articles (number, NUMBER_STATYA, DESCRIPTION_STATYA) VALUES (?, ?, ?)`,
		"185", "186-legacy", "Theft",
	).Error)

	require.NoError(t, Migrate(db))

	var article Article
	require.NoError(t, db.First(&article).Error)
	assert.Equal(t, "185", article.Number)
	require.NotNil(t, article.Description)
	assert.Equal(t, "Theft", *article.Description)

	assert.False(t, db.Migrator().HasColumn(&Article{}, "NUMBER_STATYA"))
}

func TestSessionExpiry(t *testing.T) {
	expired := Session{ExpiresAt: time.Now().Add(-time.Second)}
	assert.True(t, expired.IsExpired())

	fresh := Session{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, fresh.IsExpired())
}
