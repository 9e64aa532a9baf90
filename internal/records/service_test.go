package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okravets/case-records/internal/database"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedCaseFixture(t *testing.T, db *gorm.DB) (database.Convict, database.Investigator, database.Article) {
	t.Helper()
	convict := database.Convict{FIO: "Petrov I.I.", Address: "Kyiv"}
	require.NoError(t, db.Create(&convict).Error)
	investigator := database.Investigator{FIO: "Shevchenko O.O.", Position: "Senior Investigator"}
	require.NoError(t, db.Create(&investigator).Error)
	article := database.Article{Number: "185"}
	require.NoError(t, db.Create(&article).Error)
	return convict, investigator, article
}

func intPtr(v int) *int {
	return &v
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(v uint) *uint {
	return &v
}

func TestCreateCaseWithLinkAndSentence(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, article := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
		ArticleID:      &article.ID,
		Sentence: &SentenceInput{
			Type:      database.SentenceImprisonment,
			StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(5),
			Location:  strPtr("Lukyanivska prison"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, convict.ID, created.ConvictID)
	require.Len(t, created.CaseLinks, 1)
	assert.Equal(t, article.ID, created.CaseLinks[0].ArticleID)
	require.Len(t, created.Sentences, 1)
	assert.Equal(t, convict.ID, created.Sentences[0].ConvictID)
}

func TestCreateCaseRejectsUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, _ := seedCaseFixture(t, db)

	_, err := svc.CreateCase(CaseInput{
		ConvictID:      9999,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
	})
	assert.True(t, IsValidation(err))

	_, err = svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
		ArticleID:      uintPtr(9999),
	})
	assert.True(t, IsValidation(err))

	// Nothing may survive a failed create.
	var count int64
	db.Model(&database.Case{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateCaseCreatesSentenceWhenNoneExists(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, _ := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
	})
	require.NoError(t, err)
	require.Empty(t, created.Sentences)

	updated, err := svc.UpdateCase(created.ID, CaseUpdate{
		Status: strPtr(database.CaseStatusClosed),
		Sentence: &SentenceInput{
			Type:      database.SentenceFine,
			StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(5000),
			Location:  strPtr("pending"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, database.CaseStatusClosed, updated.Status)
	require.Len(t, updated.Sentences, 1)
	assert.Equal(t, database.SentenceFine, updated.Sentences[0].Type)
	assert.Equal(t, 5000, *updated.Sentences[0].TermYears)
	assert.Equal(t, "pending", *updated.Sentences[0].Location)
	assert.Equal(t, convict.ID, updated.Sentences[0].ConvictID)
}

func TestUpdateCaseUpdatesExistingSentenceInPlace(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, _ := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
		Sentence: &SentenceInput{
			Type:      database.SentenceConditional,
			StartDate: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(2),
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Sentences, 1)
	originalID := created.Sentences[0].ID

	updated, err := svc.UpdateCase(created.ID, CaseUpdate{
		Sentence: &SentenceInput{
			Type:      database.SentenceImprisonment,
			StartDate: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(7),
			Location:  strPtr("Colony 52"),
		},
	})
	require.NoError(t, err)

	// Same row, no duplicate.
	require.Len(t, updated.Sentences, 1)
	assert.Equal(t, originalID, updated.Sentences[0].ID)
	assert.Equal(t, database.SentenceImprisonment, updated.Sentences[0].Type)

	var count int64
	db.Model(&database.Sentence{}).Where("case_id = ?", created.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpdateCaseWithoutSentenceDeletesExisting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, _ := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
		Sentence: &SentenceInput{
			Type:      database.SentenceCorrectional,
			StartDate: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(1),
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Sentences, 1)

	updated, err := svc.UpdateCase(created.ID, CaseUpdate{
		Status: strPtr(database.CaseStatusPending),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Sentences)

	fetched, err := svc.GetCase(created.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.Sentences)
}

func TestUpdateCaseRebindsSentenceToNewConvict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, _ := seedCaseFixture(t, db)
	other := database.Convict{FIO: "Bondar S.S.", Address: "Lviv"}
	require.NoError(t, db.Create(&other).Error)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
	})
	require.NoError(t, err)

	// The scalar update runs before the sentence branch, so the new
	// sentence binds to the new convict.
	updated, err := svc.UpdateCase(created.ID, CaseUpdate{
		ConvictID: &other.ID,
		Sentence: &SentenceInput{
			Type:      database.SentenceConditional,
			StartDate: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(3),
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Sentences, 1)
	assert.Equal(t, other.ID, updated.Sentences[0].ConvictID)
}

func TestDeleteCaseRemovesLinksAndSentences(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, article := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
		ArticleID:      &article.ID,
		Sentence: &SentenceInput{
			Type:      database.SentenceFine,
			StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(1000),
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCase(created.ID))

	var links, sentences int64
	db.Model(&database.CaseLink{}).Where("case_id = ?", created.ID).Count(&links)
	db.Model(&database.Sentence{}).Where("case_id = ?", created.ID).Count(&sentences)
	assert.Zero(t, links)
	assert.Zero(t, sentences)

	_, err = svc.GetCase(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The convict and investigator survive.
	_, err = svc.GetConvict(convict.ID)
	assert.NoError(t, err)
}

func TestDeleteCaseUnknownID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	assert.ErrorIs(t, svc.DeleteCase(42), ErrNotFound)
}

func TestDeleteConvictCascadesThroughCases(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, article := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
		ArticleID:      &article.ID,
		Sentence: &SentenceInput{
			Type:      database.SentenceImprisonment,
			StartDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			TermYears: intPtr(4),
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConvict(convict.ID))

	_, err = svc.GetConvict(convict.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetCase(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Full-depth cascade: the deleted case's links and sentences are gone
	// too, not only the sentences tied to the convict directly.
	var links, sentences int64
	db.Model(&database.CaseLink{}).Count(&links)
	db.Model(&database.Sentence{}).Count(&sentences)
	assert.Zero(t, links)
	assert.Zero(t, sentences)
}

func TestDeleteInvestigatorRefusedWhileCasesExist(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, _ := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusPending,
	})
	require.NoError(t, err)

	err = svc.DeleteInvestigator(investigator.ID)
	assert.True(t, IsValidation(err))

	require.NoError(t, svc.DeleteCase(created.ID))
	assert.NoError(t, svc.DeleteInvestigator(investigator.ID))
}

func TestDeleteInvestigatorDetachesUserAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	_, investigator, _ := seedCaseFixture(t, db)

	user := database.User{
		Login:          "shevchenko",
		Password:       "hash",
		Role:           database.RoleInvestigator,
		InvestigatorID: &investigator.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, svc.DeleteInvestigator(investigator.ID))

	var reloaded database.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Nil(t, reloaded.InvestigatorID)
}

func TestDeleteArticleRemovesCaseLinks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	convict, investigator, article := seedCaseFixture(t, db)

	created, err := svc.CreateCase(CaseInput{
		ConvictID:      convict.ID,
		InvestigatorID: investigator.ID,
		Status:         database.CaseStatusActive,
		ArticleID:      &article.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteArticle(article.ID))

	var links int64
	db.Model(&database.CaseLink{}).Where("case_id = ?", created.ID).Count(&links)
	assert.Zero(t, links)

	// The case itself survives.
	_, err = svc.GetCase(created.ID)
	assert.NoError(t, err)
}

func TestListConvictsOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	require.NoError(t, db.Create(&database.Convict{FIO: "Zinchenko B.B.", Address: "Odesa"}).Error)
	require.NoError(t, db.Create(&database.Convict{FIO: "Antonenko A.A.", Address: "Kharkiv"}).Error)

	convicts, err := svc.ListConvicts()
	require.NoError(t, err)
	require.Len(t, convicts, 2)
	assert.Equal(t, "Antonenko A.A.", convicts[0].FIO)
	assert.Equal(t, "Zinchenko B.B.", convicts[1].FIO)
}

func TestCreateUserRejectsDuplicateLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	first := database.User{Login: "clerk", Password: "hash", Role: database.RoleAdmin}
	require.NoError(t, svc.CreateUser(&first))

	dup := database.User{Login: "clerk", Password: "hash2", Role: database.RoleInvestigator}
	err := svc.CreateUser(&dup)
	assert.True(t, IsValidation(err))
}

func TestUpdateUserRejectsDuplicateLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	first := database.User{Login: "clerk", Password: "hash", Role: database.RoleAdmin}
	require.NoError(t, svc.CreateUser(&first))
	second := database.User{Login: "archivist", Password: "hash", Role: database.RoleInvestigator}
	require.NoError(t, svc.CreateUser(&second))

	_, err := svc.UpdateUser(second.ID, UserUpdate{Login: strPtr("clerk")})
	assert.True(t, IsValidation(err))

	// Re-submitting the user's own login is not a conflict.
	updated, err := svc.UpdateUser(second.ID, UserUpdate{Login: strPtr("archivist")})
	require.NoError(t, err)
	assert.Equal(t, "archivist", updated.Login)
}

func TestDeleteUserRemovesSessions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	user := database.User{Login: "clerk", Password: "hash", Role: database.RoleAdmin}
	require.NoError(t, svc.CreateUser(&user))
	session := database.Session{UserID: user.ID, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(&session).Error)

	require.NoError(t, svc.DeleteUser(user.ID))

	var sessions int64
	db.Model(&database.Session{}).Count(&sessions)
	assert.Zero(t, sessions)
}
