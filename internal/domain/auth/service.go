package auth

import (
	"context"

	"github.com/biopulse/attendance-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Me(ctx context.Context, userID string) (user.UserResponse, error)
	CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	IssueSSEToken(ctx context.Context, userID string) (SSETokenResponse, error)

	// BootstrapAdmin creates the first admin when no users exist. A no-op otherwise.
	BootstrapAdmin(ctx context.Context, email, password string) error
}
