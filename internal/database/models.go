package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values for User.Role.
const (
	RoleAdmin        = "admin"
	RoleInvestigator = "investigator"
)

// Case status values.
const (
	CaseStatusActive  = "active"
	CaseStatusClosed  = "closed"
	CaseStatusPending = "pending"
)

// Sentence type values. TermYears holds the fine amount when the type is
// fine, and Location holds the payment status; for custodial types TermYears
// is the term in years and Location the place of custody.
const (
	SentenceImprisonment = "imprisonment"
	SentenceCorrectional = "correctional"
	SentenceConditional  = "conditional"
	SentenceFine         = "fine"
)

// Article is a statute reference a case can be charged under.
type Article struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Number      string    `json:"number" gorm:"uniqueIndex;not null"`
	Description *string   `json:"description"`
}

// Convict is a person tracked by the records office.
type Convict struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	FIO       string     `json:"fio" gorm:"column:fio;not null"`
	BirthDate *time.Time `json:"birthDate"`
	Address   string     `json:"address"`
	Contact   *string    `json:"contact"`

	Cases     []Case     `json:"cases,omitempty" gorm:"foreignKey:ConvictID"`
	Sentences []Sentence `json:"sentences,omitempty" gorm:"foreignKey:ConvictID"`
}

// Investigator is the officer responsible for cases, optionally linked to a
// login account.
type Investigator struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	FIO       string    `json:"fio" gorm:"column:fio;not null"`
	Position  string    `json:"position" gorm:"not null"`

	Cases []Case `json:"cases,omitempty" gorm:"foreignKey:InvestigatorID"`
}

// Case links one convict to one investigator, with a status and dependent
// article links and sentences.
type Case struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ConvictID      uint      `json:"convictId" gorm:"index;not null"`
	InvestigatorID uint      `json:"investigatorId" gorm:"index;not null"`
	Status         string    `json:"status" gorm:"not null"`

	Convict      *Convict      `json:"convict,omitempty" gorm:"foreignKey:ConvictID"`
	Investigator *Investigator `json:"investigator,omitempty" gorm:"foreignKey:InvestigatorID"`
	CaseLinks    []CaseLink    `json:"caseLinks,omitempty" gorm:"foreignKey:CaseID"`
	Sentences    []Sentence    `json:"sentences,omitempty" gorm:"foreignKey:CaseID"`
}

// CaseLink records that a case is charged under an article as of a date.
type CaseLink struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CaseID    uint      `json:"caseId" gorm:"index;not null"`
	ArticleID uint      `json:"articleId" gorm:"index;not null"`
	Date      time.Time `json:"date"`

	Article *Article `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
}

// Sentence is the punishment record attached to a case/convict pair.
type Sentence struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	ConvictID uint       `json:"convictId" gorm:"index;not null"`
	CaseID    uint       `json:"caseId" gorm:"index;not null"`
	Type      string     `json:"type" gorm:"not null"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	TermYears *int       `json:"termYears"`
	Location  *string    `json:"location"`

	Convict *Convict `json:"convict,omitempty" gorm:"foreignKey:ConvictID"`
	Case    *Case    `json:"case,omitempty" gorm:"foreignKey:CaseID"`
}

// User is a login account. The password hash is never serialized.
type User struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Login          string    `json:"login" gorm:"uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"not null"`
	Role           string    `json:"role" gorm:"not null;default:investigator"`
	InvestigatorID *uint     `json:"investigatorId" gorm:"index"`

	Investigator *Investigator `json:"investigator,omitempty" gorm:"foreignKey:InvestigatorID"`
}

// Session is a server-issued login session identified by a bearer token.
type Session struct {
	ID        string    `json:"id" gorm:"type:uuid;primarykey"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate assigns a UUID when none is set.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// IsExpired reports whether the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (Article) TableName() string {
	return "articles"
}

func (Convict) TableName() string {
	return "convicts"
}

func (Investigator) TableName() string {
	return "investigators"
}

func (Case) TableName() string {
	return "cases"
}

func (CaseLink) TableName() string {
	return "case_links"
}

func (Sentence) TableName() string {
	return "sentences"
}

func (User) TableName() string {
	return "users"
}

func (Session) TableName() string {
	return "sessions"
}
