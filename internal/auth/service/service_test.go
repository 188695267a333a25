package service

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/qline-io/qline/internal/auth/domain"
	authrepo "github.com/qline-io/qline/internal/auth/repository"
	"github.com/qline-io/qline/internal/config"
	"github.com/qline-io/qline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingMailer struct {
	to      []string
	subject string
	body    string
	sent    int
}

func (m *capturingMailer) Send(ctx context.Context, to []string, subject, body string) error {
	m.to = to
	m.subject = subject
	m.body = body
	m.sent++
	return nil
}

func newService(t *testing.T) (domain.Service, *capturingMailer) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}, &domain.PasswordResetToken{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{
		AuthJWTSecret: "test-secret",
		AuthTokenTTL:  60,
		ResetTokenTTL: 30,
	}

	mailer := &capturingMailer{}
	return NewService(zap.NewNop(), cfg, node, authrepo.NewRepository(conn), mailer), mailer
}

func TestRegister(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{
		Email:       "Alex@Example.COM",
		Password:    "correct horse",
		DisplayName: "  Alex  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.Equal(t, "Alex", user.DisplayName)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "alex@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "not-an-email", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "short@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestLoginAndVerifyToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Email: "alex@example.com", Password: "correct horse"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alex@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, user.ID, result.User.ID)

	subject, err := svc.VerifyToken(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alex@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.VerifyToken(ctx, "not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Email: "alex@example.com", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "alex@example.com"))
	require.Equal(t, 1, mailer.sent)
	assert.Equal(t, []string{user.Email}, mailer.to)

	rawToken := tokenFromMail(t, mailer.body)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, rawToken, "new password"))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "alex@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "alex@example.com", Password: "new password"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	// Tokens are single use.
	err = svc.ConfirmPasswordReset(ctx, rawToken, "another password")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	svc, mailer := newService(t)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Zero(t, mailer.sent)
}

func TestConfirmPasswordReset_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	err := svc.ConfirmPasswordReset(ctx, "whatever", "short")
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	err = svc.ConfirmPasswordReset(ctx, "unknown-token", "long enough password")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func tokenFromMail(t *testing.T, body string) string {
	t.Helper()
	const marker = "Your password reset token is: "
	idx := strings.Index(body, marker)
	require.GreaterOrEqual(t, idx, 0, "reset mail body: %q", body)
	rest := body[idx+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}
