package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/events"
	"github.com/aarushkx/speak-free/internal/repository"
)

// AccountService handles self-service account removal.
type AccountService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{users: users, dispatcher: dispatcher, logger: logger}
}

// DeleteAccount removes the user together with every message they hold.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, username string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return mapRepoError(err, ErrUserNotFound)
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventAccountDeleted, userID,
		events.AccountDeletedPayload{Username: username}))
	return nil
}
