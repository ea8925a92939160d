package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/auth"
	"github.com/aarushkx/speak-free/internal/domain"
	"github.com/aarushkx/speak-free/internal/events"
	"github.com/aarushkx/speak-free/internal/repository"
	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

// MessageService owns the acceptance toggle and the anonymous inbox.
type MessageService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewMessageService builds the service.
func NewMessageService(users repository.UserRepository, tokens *auth.TokenManager, dispatcher events.Dispatcher, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{
		users:      users,
		tokenMgr:   tokens,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Acceptance is the outcome of a toggle write.
type Acceptance struct {
	IsAcceptingMessages bool
	Token               string
	ExpiresAt           time.Time
}

// GetAcceptance returns the stored flag, not the session snapshot.
func (s *MessageService) GetAcceptance(ctx context.Context, userID string) (bool, error) {
	accepting, err := s.users.GetAcceptingMessages(ctx, userID)
	if err != nil {
		return false, mapRepoError(err, ErrUserNotFound)
	}
	return accepting, nil
}

// SetAcceptance persists the flag (last writer wins) and re-mints the caller's
// session so the snapshot carries the new value.
func (s *MessageService) SetAcceptance(ctx context.Context, session domain.Session, accept bool) (*Acceptance, error) {
	accepting, err := s.users.SetAcceptingMessages(ctx, session.UserID, accept)
	if err != nil {
		return nil, mapRepoError(err, errToggleTargetMissing)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventAcceptingToggled, session.UserID,
		events.AcceptingToggledPayload{IsAcceptingMessages: accepting}))

	session.IsAcceptingMessages = accepting
	token, exp, err := s.tokenMgr.GenerateToken(session)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Acceptance{IsAcceptingMessages: accepting, Token: token, ExpiresAt: exp}, nil
}

// Send appends an anonymous message to username's inbox.
func (s *MessageService) Send(ctx context.Context, username, content string) (*domain.Message, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(content) == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	if !user.IsAcceptingMessages {
		return nil, ErrNotAccepting
	}

	msg := &domain.Message{Content: content, CreatedAt: s.now().UTC()}
	// the append re-checks the flag atomically; a toggle between read and write still refuses
	if err := s.users.AppendMessage(ctx, user.ID, msg); err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventMessageReceived, user.ID,
		events.MessageReceivedPayload{MessageID: msg.ID, Length: len(content)}))
	return msg, nil
}

// List returns the owner's messages, newest first.
func (s *MessageService) List(ctx context.Context, userID string) ([]domain.Message, error) {
	messages, err := s.users.ListMessages(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	domain.SortMessagesNewestFirst(messages)
	return messages, nil
}

// Delete removes one message from the owner's inbox.
func (s *MessageService) Delete(ctx context.Context, userID, messageID string) error {
	if err := s.users.DeleteMessage(ctx, userID, messageID); err != nil {
		return mapRepoError(err, ErrUserNotFound)
	}
	return nil
}

// DeleteAll empties the owner's inbox; an empty inbox is reported as ErrNoMessages.
func (s *MessageService) DeleteAll(ctx context.Context, userID string) error {
	if err := s.users.ClearMessages(ctx, userID); err != nil {
		return mapRepoError(err, ErrUserNotFound)
	}
	publishEvent(ctx, s.dispatcher, s.logger, events.New(events.EventMessagesCleared, userID, nil))
	return nil
}
