package records

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/okravets/case-records/internal/database"
)

// Service implements the write-consistency rules on top of the entity store.
// Every operation that touches more than one record runs in a single
// transaction and surfaces one error on any step's failure.
type Service struct {
	db *gorm.DB
}

// NewService creates a records service backed by db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SentenceInput carries the editable fields of a sentence. Location holds
// the payment status when Type is fine.
type SentenceInput struct {
	Type      string
	StartDate time.Time
	EndDate   *time.Time
	TermYears *int
	Location  *string
}

// CaseInput carries the fields of a case create request. ArticleID, when
// set, attaches one initial charge; Sentence, when set, attaches one
// sentence. All three records are created as a single unit.
type CaseInput struct {
	ConvictID      uint
	InvestigatorID uint
	Status         string
	ArticleID      *uint
	LinkDate       *time.Time
	Sentence       *SentenceInput
}

// CaseUpdate carries a partial update of a case's scalar fields together
// with the nested sentence rule: a present Sentence is upserted in place,
// an absent one deletes any existing sentence for the case.
type CaseUpdate struct {
	ConvictID      *uint
	InvestigatorID *uint
	Status         *string
	Sentence       *SentenceInput
}

// Ping verifies the underlying database connection.
func (s *Service) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) exists(tx *gorm.DB, model interface{}, id uint) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) requireConvict(tx *gorm.DB, id uint) error {
	ok, err := s.exists(tx, &database.Convict{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return newValidationError("convictId", "unknown convict")
	}
	return nil
}

func (s *Service) requireInvestigator(tx *gorm.DB, id uint) error {
	ok, err := s.exists(tx, &database.Investigator{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return newValidationError("investigatorId", "unknown investigator")
	}
	return nil
}

func (s *Service) requireArticle(tx *gorm.DB, id uint) error {
	ok, err := s.exists(tx, &database.Article{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return newValidationError("articleId", "unknown article")
	}
	return nil
}

func (s *Service) requireCase(tx *gorm.DB, id uint) error {
	ok, err := s.exists(tx, &database.Case{}, id)
	if err != nil {
		return err
	}
	if !ok {
		return newValidationError("caseId", "unknown case")
	}
	return nil
}

// --- Articles ---

func (s *Service) ListArticles() ([]database.Article, error) {
	var articles []database.Article
	if err := s.db.Order("number asc").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *Service) GetArticle(id uint) (*database.Article, error) {
	var article database.Article
	if err := s.db.First(&article, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &article, nil
}

func (s *Service) CreateArticle(article *database.Article) error {
	return s.db.Create(article).Error
}

func (s *Service) UpdateArticle(id uint, number *string, description *string) (*database.Article, error) {
	var article database.Article
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&article, id).Error; err != nil {
			return notFoundOr(err)
		}
		if number != nil {
			article.Number = *number
		}
		if description != nil {
			article.Description = description
		}
		return tx.Save(&article).Error
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle removes the article together with any case links charging
// under it, so no link is left dangling.
func (s *Service) DeleteArticle(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&database.CaseLink{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&database.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Convicts ---

func (s *Service) ListConvicts() ([]database.Convict, error) {
	var convicts []database.Convict
	err := s.db.
		Preload("Cases.CaseLinks.Article").
		Preload("Sentences").
		Order("fio asc").
		Find(&convicts).Error
	if err != nil {
		return nil, err
	}
	return convicts, nil
}

func (s *Service) GetConvict(id uint) (*database.Convict, error) {
	var convict database.Convict
	err := s.db.
		Preload("Cases.CaseLinks.Article").
		Preload("Sentences").
		First(&convict, id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &convict, nil
}

func (s *Service) CreateConvict(convict *database.Convict) error {
	return s.db.Create(convict).Error
}

// ConvictUpdate carries a partial update of a convict's fields.
type ConvictUpdate struct {
	FIO       *string
	BirthDate *time.Time
	Address   *string
	Contact   *string
}

func (s *Service) UpdateConvict(id uint, upd ConvictUpdate) (*database.Convict, error) {
	var convict database.Convict
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&convict, id).Error; err != nil {
			return notFoundOr(err)
		}
		if upd.FIO != nil {
			convict.FIO = *upd.FIO
		}
		if upd.BirthDate != nil {
			convict.BirthDate = upd.BirthDate
		}
		if upd.Address != nil {
			convict.Address = *upd.Address
		}
		if upd.Contact != nil {
			convict.Contact = upd.Contact
		}
		return tx.Save(&convict).Error
	})
	if err != nil {
		return nil, err
	}
	return &convict, nil
}

// DeleteConvict cascades through the convict's cases at full depth: each
// case loses its links and sentences, then the cases, the convict's
// remaining sentences, and the convict itself are removed.
func (s *Service) DeleteConvict(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var caseIDs []uint
		if err := tx.Model(&database.Case{}).Where("convict_id = ?", id).Pluck("id", &caseIDs).Error; err != nil {
			return err
		}
		if len(caseIDs) > 0 {
			if err := tx.Where("case_id IN ?", caseIDs).Delete(&database.CaseLink{}).Error; err != nil {
				return err
			}
			if err := tx.Where("case_id IN ?", caseIDs).Delete(&database.Sentence{}).Error; err != nil {
				return err
			}
			if err := tx.Where("convict_id = ?", id).Delete(&database.Case{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("convict_id = ?", id).Delete(&database.Sentence{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&database.Convict{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Investigators ---

func (s *Service) ListInvestigators() ([]database.Investigator, error) {
	var investigators []database.Investigator
	if err := s.db.Preload("Cases").Order("fio asc").Find(&investigators).Error; err != nil {
		return nil, err
	}
	return investigators, nil
}

func (s *Service) GetInvestigator(id uint) (*database.Investigator, error) {
	var investigator database.Investigator
	if err := s.db.Preload("Cases").First(&investigator, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &investigator, nil
}

func (s *Service) CreateInvestigator(investigator *database.Investigator) error {
	return s.db.Create(investigator).Error
}

func (s *Service) UpdateInvestigator(id uint, fio *string, position *string) (*database.Investigator, error) {
	var investigator database.Investigator
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&investigator, id).Error; err != nil {
			return notFoundOr(err)
		}
		if fio != nil {
			investigator.FIO = *fio
		}
		if position != nil {
			investigator.Position = *position
		}
		return tx.Save(&investigator).Error
	})
	if err != nil {
		return nil, err
	}
	return &investigator, nil
}

// DeleteInvestigator refuses while cases still reference the investigator;
// a case must always have one. Any linked user account is detached.
func (s *Service) DeleteInvestigator(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.Case{}).Where("investigator_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return newValidationError("id", "investigator still has cases")
		}
		if err := tx.Model(&database.User{}).
			Where("investigator_id = ?", id).
			Update("investigator_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&database.Investigator{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Cases ---

func (s *Service) ListCases(convictID *uint) ([]database.Case, error) {
	q := s.db.
		Preload("Convict").
		Preload("Investigator").
		Preload("CaseLinks.Article").
		Preload("Sentences")
	if convictID != nil {
		q = q.Where("convict_id = ?", *convictID)
	}
	var cases []database.Case
	if err := q.Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *Service) GetCase(id uint) (*database.Case, error) {
	return s.getCase(s.db, id)
}

func (s *Service) getCase(tx *gorm.DB, id uint) (*database.Case, error) {
	var c database.Case
	err := tx.
		Preload("Convict").
		Preload("Investigator").
		Preload("CaseLinks.Article").
		Preload("Sentences").
		First(&c, id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

// CreateCase creates the case and, when requested, one initial case link
// and one sentence, as a single unit.
func (s *Service) CreateCase(input CaseInput) (*database.Case, error) {
	var created *database.Case
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireConvict(tx, input.ConvictID); err != nil {
			return err
		}
		if err := s.requireInvestigator(tx, input.InvestigatorID); err != nil {
			return err
		}

		c := database.Case{
			ConvictID:      input.ConvictID,
			InvestigatorID: input.InvestigatorID,
			Status:         input.Status,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}

		if input.ArticleID != nil {
			if err := s.requireArticle(tx, *input.ArticleID); err != nil {
				return err
			}
			date := time.Now()
			if input.LinkDate != nil {
				date = *input.LinkDate
			}
			link := database.CaseLink{
				CaseID:    c.ID,
				ArticleID: *input.ArticleID,
				Date:      date,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		if input.Sentence != nil {
			sentence := database.Sentence{
				ConvictID: input.ConvictID,
				CaseID:    c.ID,
				Type:      input.Sentence.Type,
				StartDate: input.Sentence.StartDate,
				EndDate:   input.Sentence.EndDate,
				TermYears: input.Sentence.TermYears,
				Location:  input.Sentence.Location,
			}
			if err := tx.Create(&sentence).Error; err != nil {
				return err
			}
		}

		full, err := s.getCase(tx, c.ID)
		if err != nil {
			return err
		}
		created = full
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateCase updates the case's scalar fields first, then applies the
// sentence rule: with a payload, an existing sentence for the case is
// updated in place and a missing one is created bound to the case and its
// convict; without a payload, any existing sentence is deleted. The scalar
// update runs first because the create path needs the convict reference.
func (s *Service) UpdateCase(id uint, upd CaseUpdate) (*database.Case, error) {
	var updated *database.Case
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var c database.Case
		if err := tx.First(&c, id).Error; err != nil {
			return notFoundOr(err)
		}

		if upd.ConvictID != nil {
			if err := s.requireConvict(tx, *upd.ConvictID); err != nil {
				return err
			}
			c.ConvictID = *upd.ConvictID
		}
		if upd.InvestigatorID != nil {
			if err := s.requireInvestigator(tx, *upd.InvestigatorID); err != nil {
				return err
			}
			c.InvestigatorID = *upd.InvestigatorID
		}
		if upd.Status != nil {
			c.Status = *upd.Status
		}
		if err := tx.Save(&c).Error; err != nil {
			return err
		}

		if upd.Sentence != nil {
			var existing database.Sentence
			err := tx.Where("case_id = ?", c.ID).First(&existing).Error
			switch {
			case err == nil:
				existing.ConvictID = c.ConvictID
				existing.Type = upd.Sentence.Type
				existing.StartDate = upd.Sentence.StartDate
				existing.EndDate = upd.Sentence.EndDate
				existing.TermYears = upd.Sentence.TermYears
				existing.Location = upd.Sentence.Location
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				sentence := database.Sentence{
					ConvictID: c.ConvictID,
					CaseID:    c.ID,
					Type:      upd.Sentence.Type,
					StartDate: upd.Sentence.StartDate,
					EndDate:   upd.Sentence.EndDate,
					TermYears: upd.Sentence.TermYears,
					Location:  upd.Sentence.Location,
				}
				if err := tx.Create(&sentence).Error; err != nil {
					return err
				}
			default:
				return err
			}
		} else {
			if err := tx.Where("case_id = ?", c.ID).Delete(&database.Sentence{}).Error; err != nil {
				return err
			}
		}

		full, err := s.getCase(tx, c.ID)
		if err != nil {
			return err
		}
		updated = full
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCase removes the case's links and sentences, then the case.
func (s *Service) DeleteCase(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", id).Delete(&database.CaseLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("case_id = ?", id).Delete(&database.Sentence{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&database.Case{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Case links ---

func (s *Service) ListCaseLinks(caseID *uint) ([]database.CaseLink, error) {
	q := s.db.Preload("Article")
	if caseID != nil {
		q = q.Where("case_id = ?", *caseID)
	}
	var links []database.CaseLink
	if err := q.Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (s *Service) GetCaseLink(id uint) (*database.CaseLink, error) {
	var link database.CaseLink
	if err := s.db.Preload("Article").First(&link, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &link, nil
}

func (s *Service) CreateCaseLink(link *database.CaseLink) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireCase(tx, link.CaseID); err != nil {
			return err
		}
		if err := s.requireArticle(tx, link.ArticleID); err != nil {
			return err
		}
		if link.Date.IsZero() {
			link.Date = time.Now()
		}
		return tx.Create(link).Error
	})
}

func (s *Service) UpdateCaseLink(id uint, articleID *uint, date *time.Time) (*database.CaseLink, error) {
	var link database.CaseLink
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&link, id).Error; err != nil {
			return notFoundOr(err)
		}
		if articleID != nil {
			if err := s.requireArticle(tx, *articleID); err != nil {
				return err
			}
			link.ArticleID = *articleID
		}
		if date != nil {
			link.Date = *date
		}
		return tx.Save(&link).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetCaseLink(link.ID)
}

func (s *Service) DeleteCaseLink(id uint) error {
	res := s.db.Delete(&database.CaseLink{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Sentences ---

func (s *Service) ListSentences(convictID *uint) ([]database.Sentence, error) {
	q := s.db.
		Preload("Convict").
		Preload("Case.Investigator").
		Preload("Case.CaseLinks.Article")
	if convictID != nil {
		q = q.Where("convict_id = ?", *convictID)
	}
	var sentences []database.Sentence
	if err := q.Find(&sentences).Error; err != nil {
		return nil, err
	}
	return sentences, nil
}

func (s *Service) GetSentence(id uint) (*database.Sentence, error) {
	var sentence database.Sentence
	err := s.db.
		Preload("Convict").
		Preload("Case.Investigator").
		Preload("Case.CaseLinks.Article").
		First(&sentence, id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &sentence, nil
}

func (s *Service) CreateSentence(sentence *database.Sentence) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requireConvict(tx, sentence.ConvictID); err != nil {
			return err
		}
		if err := s.requireCase(tx, sentence.CaseID); err != nil {
			return err
		}
		return tx.Create(sentence).Error
	})
}

func (s *Service) UpdateSentence(id uint, input SentenceInput) (*database.Sentence, error) {
	var sentence database.Sentence
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sentence, id).Error; err != nil {
			return notFoundOr(err)
		}
		sentence.Type = input.Type
		sentence.StartDate = input.StartDate
		sentence.EndDate = input.EndDate
		sentence.TermYears = input.TermYears
		sentence.Location = input.Location
		return tx.Save(&sentence).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetSentence(sentence.ID)
}

func (s *Service) DeleteSentence(id uint) error {
	res := s.db.Delete(&database.Sentence{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

func (s *Service) ListUsers() ([]database.User, error) {
	var users []database.User
	if err := s.db.Preload("Investigator").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) GetUser(id uint) (*database.User, error) {
	var user database.User
	if err := s.db.Preload("Investigator").First(&user, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &user, nil
}

// CreateUser stores the user; the password must already be hashed.
func (s *Service) CreateUser(user *database.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if user.InvestigatorID != nil {
			if err := s.requireInvestigator(tx, *user.InvestigatorID); err != nil {
				return err
			}
		}
		var count int64
		if err := tx.Model(&database.User{}).Where("login = ?", user.Login).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return newValidationError("login", "already taken")
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Preload("Investigator").First(user, user.ID).Error
	})
}

// UserUpdate carries a partial update of a user account. Password, when
// set, must already be hashed.
type UserUpdate struct {
	Login          *string
	Password       *string
	Role           *string
	InvestigatorID *uint
}

func (s *Service) UpdateUser(id uint, upd UserUpdate) (*database.User, error) {
	var user database.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err)
		}
		if upd.Login != nil {
			var count int64
			if err := tx.Model(&database.User{}).
				Where("login = ? AND id <> ?", *upd.Login, user.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return newValidationError("login", "already taken")
			}
			user.Login = *upd.Login
		}
		if upd.Password != nil {
			user.Password = *upd.Password
		}
		if upd.Role != nil {
			user.Role = *upd.Role
		}
		if upd.InvestigatorID != nil {
			if err := s.requireInvestigator(tx, *upd.InvestigatorID); err != nil {
				return err
			}
			user.InvestigatorID = upd.InvestigatorID
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(user.ID)
}

// DeleteUser removes the account together with its sessions.
func (s *Service) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&database.Session{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&database.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
