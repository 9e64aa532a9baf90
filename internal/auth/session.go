package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/okravets/case-records/internal/cache"
	"github.com/okravets/case-records/internal/database"
	"github.com/okravets/case-records/internal/records"
)

// tokenLength is the session token length in bytes (64 hex chars).
const tokenLength = 32

// ErrInvalidCredentials is returned for an unknown login or a wrong
// password; the two cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid login or password")

// Gate validates credentials and issues server-side sessions.
type Gate struct {
	db         *gorm.DB
	sessions   cache.SessionCache
	sessionTTL time.Duration
}

// NewGate creates a session gate over db. Validated token lookups are kept
// in sessions until its TTL passes.
func NewGate(db *gorm.DB, sessions cache.SessionCache, sessionTTL time.Duration) *Gate {
	return &Gate{db: db, sessions: sessions, sessionTTL: sessionTTL}
}

func generateToken() (string, error) {
	bytes := make([]byte, tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Login checks the login/password pair and, on success, issues a session
// and returns the user with the linked investigator loaded.
func (g *Gate) Login(login, password string) (*database.User, *database.Session, error) {
	var user database.User
	err := g.db.Preload("Investigator").Where("login = ?", login).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !CheckPassword(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return nil, nil, err
	}

	session := database.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(g.sessionTTL),
	}
	if err := g.db.Create(&session).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &user, &session, nil
}

// Validate resolves a bearer token to its user. Expired sessions are
// deleted on sight.
func (g *Gate) Validate(token string) (*database.User, error) {
	if user, found := g.sessions.Get(token); found {
		return user, nil
	}

	var session database.Session
	err := g.db.Preload("User.Investigator").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if session.IsExpired() {
		g.db.Delete(&session)
		return nil, ErrInvalidCredentials
	}

	g.sessions.Set(token, session.User)
	return session.User, nil
}

// Logout deletes the session for token and evicts its cache entry.
func (g *Gate) Logout(token string) error {
	g.sessions.Delete(token)
	return g.db.Where("token = ?", token).Delete(&database.Session{}).Error
}

// RevokeUserSessions deletes all of a user's sessions and evicts their
// cached token lookups, so a removed account stops authenticating at once.
func (g *Gate) RevokeUserSessions(userID uint) error {
	var tokens []string
	if err := g.db.Model(&database.Session{}).Where("user_id = ?", userID).Pluck("token", &tokens).Error; err != nil {
		return err
	}
	for _, token := range tokens {
		g.sessions.Delete(token)
	}
	return g.db.Where("user_id = ?", userID).Delete(&database.Session{}).Error
}

// Check re-fetches a user's profile by id.
func (g *Gate) Check(userID uint) (*database.User, error) {
	var user database.User
	err := g.db.Preload("Investigator").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, records.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CleanupExpiredSessions removes all expired sessions.
func (g *Gate) CleanupExpiredSessions() error {
	return g.db.Where("expires_at < ?", time.Now()).Delete(&database.Session{}).Error
}

// SeedAdmin creates a bootstrap admin account when the users table is
// empty. It does nothing when any user exists or no password is configured.
func SeedAdmin(db *gorm.DB, login, password string, cost int) (bool, error) {
	if password == "" {
		return false, nil
	}

	var count int64
	if err := db.Model(&database.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(password, cost)
	if err != nil {
		return false, err
	}

	user := database.User{
		Login:    login,
		Password: hash,
		Role:     database.RoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, fmt.Errorf("failed to seed admin user: %w", err)
	}
	return true, nil
}
