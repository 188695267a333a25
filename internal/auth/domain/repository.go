package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	FindUserByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	CreateResetToken(ctx context.Context, token *PasswordResetToken) error
	FindResetTokenByHash(ctx context.Context, hash string) (*PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id snowflake.ID) error
}
