package service

import (
	"context"
	"strings"

	"github.com/aarushkx/speak-free/internal/domain"
	"github.com/aarushkx/speak-free/internal/repository"
	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

// DirectoryService exposes read-only public views of verified users.
type DirectoryService struct {
	users repository.UserRepository
}

// NewDirectoryService builds the service.
func NewDirectoryService(users repository.UserRepository) *DirectoryService {
	return &DirectoryService{users: users}
}

// List returns every verified user, newest account first.
func (s *DirectoryService) List(ctx context.Context) ([]domain.DirectoryEntry, error) {
	entries, err := s.users.ListVerified(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}

// GetProfile returns the public view of one verified user.
func (s *DirectoryService) GetProfile(ctx context.Context, username string) (*domain.DirectoryEntry, error) {
	user, err := s.users.FindVerifiedByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	return &domain.DirectoryEntry{
		ID:                  user.ID,
		Username:            user.Username,
		IsAcceptingMessages: user.IsAcceptingMessages,
		CreatedAt:           user.CreatedAt,
	}, nil
}
