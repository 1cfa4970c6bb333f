package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/attendance-report/internal"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
)

// CredentialRepository reads accounts for login. GetByUsername returns nil,
// nil when no account matches.
type CredentialRepository interface {
	IdentityLookup
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
}

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (*User, error)
}

type Service struct {
	repo     CredentialRepository
	sessions *SessionManager
	logger   *slog.Logger
}

func NewService(repo CredentialRepository, sessions *SessionManager, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	s.sessions.PurgeExpiredAsync(ctx)

	account, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to load credentials", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("login failed", err)
	}
	if account == nil {
		s.logger.Warn("login rejected: unknown username", "username", dto.Username)
		return nil, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(account.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login rejected: wrong password", "user_id", account.ID)
		return nil, internal.ErrInvalidCredentials
	}

	session, err := s.sessions.CreateSession(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", account.ID, "role", account.Role)

	return &LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      IdentityFromDataModel(account),
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.RevokeSession(ctx, token)
}

func (s *Service) Resolve(ctx context.Context, token string) (*User, error) {
	return s.sessions.ResolveSession(ctx, token)
}
