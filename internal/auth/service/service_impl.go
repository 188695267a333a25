package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/qline-io/qline/internal/auth/domain"
	"github.com/qline-io/qline/internal/auth/password"
	"github.com/qline-io/qline/internal/config"
	"github.com/qline-io/qline/internal/providers/email"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type service struct {
	log    *zap.Logger
	cfg    config.Config
	genID  *snowflake.Node
	repo   domain.Repository
	mailer email.Provider
}

func NewService(log *zap.Logger, cfg config.Config, genID *snowflake.Node, repo domain.Repository, mailer email.Provider) domain.Service {
	return &service{
		log:    log.Named("auth.service"),
		cfg:    cfg,
		genID:  genID,
		repo:   repo,
		mailer: mailer,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	address, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.repo.FindUserByEmail(ctx, address); err == nil {
		return nil, domain.ErrUserExists
	} else if err != domain.ErrUserNotFound {
		return nil, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Email:        address,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	address, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByEmail(ctx, address)
	if err == domain.ErrUserNotFound {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	expiresAt := time.Now().UTC().Add(time.Duration(s.cfg.AuthTokenTTL) * time.Minute)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(s.cfg.AuthJWTSecret))
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *service) VerifyToken(ctx context.Context, rawToken string) (snowflake.ID, error) {
	parsed, err := jwt.ParseWithClaims(rawToken, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.AuthJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return 0, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	userID, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}

func (s *service) CurrentUser(ctx context.Context, userID snowflake.ID) (*domain.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// RequestPasswordReset issues a single-use token and mails it. A missing
// account is reported as success so the endpoint cannot be used to probe
// for registered addresses. Mail delivery failures are logged and
// swallowed; they never fail the operation.
func (s *service) RequestPasswordReset(ctx context.Context, rawEmail string) error {
	address, err := normalizeEmail(rawEmail)
	if err != nil {
		return domain.ErrInvalidEmail
	}

	user, err := s.repo.FindUserByEmail(ctx, address)
	if err == domain.ErrUserNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	raw := uuid.NewString()
	token := domain.PasswordResetToken{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().UTC().Add(time.Duration(s.cfg.ResetTokenTTL) * time.Minute),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateResetToken(ctx, &token); err != nil {
		return err
	}

	body := fmt.Sprintf("Your password reset token is: %s\nIt expires in %d minutes.", raw, s.cfg.ResetTokenTTL)
	if err := s.mailer.Send(ctx, []string{user.Email}, "Password reset", body); err != nil {
		s.log.Warn("failed to send password reset mail",
			zap.Int64("user_id", int64(user.ID)),
			zap.Error(err),
		)
	}
	return nil
}

func (s *service) ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	token, err := s.repo.FindResetTokenByHash(ctx, hashToken(strings.TrimSpace(rawToken)))
	if err != nil {
		return err
	}
	if token.UsedAt != nil {
		return domain.ErrInvalidToken
	}
	if time.Now().UTC().After(token.ExpiresAt) {
		return domain.ErrTokenExpired
	}

	user, err := s.repo.FindUserByID(ctx, token.UserID)
	if err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return err
	}
	return s.repo.MarkResetTokenUsed(ctx, token.ID)
}

func normalizeEmail(raw string) (string, error) {
	address, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(address.Address), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
