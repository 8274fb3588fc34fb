package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"daybook/internal/config"
	"daybook/internal/models"
	"daybook/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var bcryptCost = 12

var invalidMessages = []string{
	"Invalid user id or password.",
	"Those credentials don't match. Try again.",
	"Login failed, check your user id and password.",
	"Hmm, that didn't work. Please try again.",
	"Wrong user id or password.",
}

// RandomInvalidMessage picks one of the equivalent login failure messages.
func RandomInvalidMessage() string {
	return invalidMessages[rand.Intn(len(invalidMessages))]
}

// Login is the result of a successful Authenticate.
type Login struct {
	Token   string
	Session models.Session
}

// AuthService is the single-operator session gate.
type AuthService struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.AuthConfig
	owner string
	ttl   time.Duration
}

func NewAuthService(db *gorm.DB, log *zap.Logger, cfg config.AuthConfig, owner string) *AuthService {
	hours := cfg.SessionHours
	if hours <= 0 {
		hours = 24
	}
	return &AuthService{
		db:    db,
		log:   log,
		cfg:   cfg,
		owner: owner,
		ttl:   time.Duration(hours) * time.Hour,
	}
}

// TTL is how long a session stays valid.
func (s *AuthService) TTL() time.Duration { return s.ttl }

// Authenticate checks id and password and opens a session on success.
// Failed attempts are not counted and never lock the account.
func (s *AuthService) Authenticate(ctx context.Context, id, password, ip string) (*Login, error) {
	id = strings.TrimSpace(id)
	if id == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	ok, err := s.checkCredential(ctx, id, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn("login failed", zap.String("user_id", id), zap.String("ip", ip))
		return nil, ErrInvalidCredential
	}

	now := time.Now()
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    id,
		ExpiresAt: now.Add(s.ttl),
		IP:        ip,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, storageErr("create session", err)
	}

	if s.cfg.Mode == "db" {
		if err := s.db.WithContext(ctx).
			Model(&models.User{}).
			Where("user_id = ?", id).
			Updates(map[string]interface{}{"last_login_at": now, "last_login_ip": ip}).Error; err != nil {
			s.log.Warn("record last login", zap.String("user_id", id), zap.Error(err))
		}
	}

	token, err := util.GenerateToken(s.cfg.SessionSecret, id, sess.ID, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.log.Info("login", zap.String("user_id", id), zap.String("ip", ip))
	return &Login{Token: token, Session: sess}, nil
}

func (s *AuthService) checkCredential(ctx context.Context, id, password string) (bool, error) {
	if s.cfg.Mode != "db" {
		idOK := subtle.ConstantTimeCompare([]byte(id), []byte(s.cfg.UserID)) == 1
		pwOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
		return idOK && pwOK, nil
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("load user", err)
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil, nil
}

// ValidateSession resolves a session token to its live session row.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	claims, err := util.ParseToken(s.cfg.SessionSecret, token)
	if err != nil {
		return nil, ErrNoSession
	}

	var sess models.Session
	err = s.db.WithContext(ctx).Where("id = ?", claims.ID).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, storageErr("load session", err)
	}
	if sess.Revoked || time.Now().After(sess.ExpiresAt) || sess.UserID != claims.UserID {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Logout revokes the session behind token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := util.ParseToken(s.cfg.SessionSecret, token)
	if err != nil {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", claims.ID).
		Update("revoked", true).Error; err != nil {
		return storageErr("revoke session", err)
	}
	return nil
}

// IsOwner reports whether id is the privileged identity.
func (s *AuthService) IsOwner(id string) bool {
	return s.owner != "" && subtle.ConstantTimeCompare([]byte(id), []byte(s.owner)) == 1
}

// VerifyOwnerPassword checks secret against the owner's credential. It backs
// destructive operations such as purging the file store.
func (s *AuthService) VerifyOwnerPassword(ctx context.Context, secret string) bool {
	if s.owner == "" || secret == "" {
		return false
	}
	ok, err := s.checkCredential(ctx, s.owner, secret)
	if err != nil {
		s.log.Error("verify owner credential", zap.Error(err))
		return false
	}
	return ok
}

// SetPassword creates or updates the stored user record for id.
func (s *AuthService) SetPassword(ctx context.Context, id, password string) error {
	id = strings.TrimSpace(id)
	if id == "" || len(password) < 8 {
		return fmt.Errorf("%w: user id required and password must be at least 8 characters", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{UserID: id, PasswordHash: string(hash)}
		err = s.db.WithContext(ctx).Create(&user).Error
	case err == nil:
		err = s.db.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error
	}
	if err != nil {
		return storageErr("save user", err)
	}
	return nil
}

// PurgeExpiredSessions removes sessions that expired or were revoked.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("revoked = ? OR expires_at < ?", true, time.Now()).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, storageErr("purge sessions", res.Error)
	}
	return res.RowsAffected, nil
}

// StoresPasswords reports whether logins are checked against the users table.
func (s *AuthService) StoresPasswords() bool { return s.cfg.Mode == "db" }

// ChangePassword replaces the stored password of id after checking the
// current one, then revokes every session of id.
func (s *AuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	if !s.StoresPasswords() {
		return fmt.Errorf("%w: the password is set in the configuration", ErrInvalidInput)
	}
	ok, err := s.checkCredential(ctx, id, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongCredential
	}
	if err := s.SetPassword(ctx, id, next); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("user_id = ?", id).
		Update("revoked", true).Error; err != nil {
		return storageErr("revoke sessions", err)
	}
	s.log.Info("password changed", zap.String("user_id", id))
	return nil
}
