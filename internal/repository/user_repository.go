package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aarushkx/speak-free/internal/domain"
)

var (
	// ErrNotFound reports a missing user record.
	ErrNotFound = errors.New("user not found")
	// ErrMessageNotFound reports a message id absent from the owner's collection.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNoMessages reports a clear on an already empty collection.
	ErrNoMessages = errors.New("no messages")
	// ErrNotAccepting reports an append refused because the owner turned messages off.
	ErrNotAccepting = errors.New("user is not accepting messages")
	// ErrDuplicate reports a uniqueness violation on username or e-mail.
	ErrDuplicate = errors.New("duplicate user")
)

// UserRepository defines persistence access for users and their embedded messages.
// Every mutation is a single atomic store operation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByUsername prefers the verified record, then the newest pending one.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByIdentifier matches either username or e-mail.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	FindVerifiedByUsername(ctx context.Context, username string) (*domain.User, error)
	// ResetPendingRegistration overwrites credentials and code of an unverified record.
	ResetPendingRegistration(ctx context.Context, id, passwordHash, code string, expiry time.Time) error
	MarkVerified(ctx context.Context, id string) error
	GetAcceptingMessages(ctx context.Context, id string) (bool, error)
	SetAcceptingMessages(ctx context.Context, id string, accept bool) (bool, error)
	// AppendMessage stores msg only if the owner accepts messages at write time.
	AppendMessage(ctx context.Context, userID string, msg *domain.Message) error
	ListMessages(ctx context.Context, userID string) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, userID, messageID string) error
	ClearMessages(ctx context.Context, userID string) error
	ListVerified(ctx context.Context) ([]domain.DirectoryEntry, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
