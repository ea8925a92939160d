package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aarushkx/speak-free/internal/domain"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*memoryRecord
	seq   uint64
}

type memoryRecord struct {
	user domain.User
	seq  uint64
}

// NewMemoryUserRepository returns a process-local store for development and tests.
// It enforces the same uniqueness rules as the persistent backends.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*memoryRecord)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.users {
		if rec.user.Email == user.Email {
			return ErrDuplicate
		}
		if user.IsVerified && rec.user.IsVerified && rec.user.Username == user.Username {
			return ErrDuplicate
		}
	}

	now := time.Now().UTC()
	r.seq++
	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Messages = append([]domain.Message{}, user.Messages...)
	r.users[stored.ID] = &memoryRecord{user: stored, seq: r.seq}

	user.ID = stored.ID
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(rec.user), nil
}

func (r *memoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.pick(func(u *domain.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.pick(func(u *domain.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	return r.pick(func(u *domain.User) bool { return u.Username == identifier || u.Email == identifier })
}

func (r *memoryUserRepository) FindVerifiedByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.pick(func(u *domain.User) bool { return u.IsVerified && u.Username == username })
}

func (r *memoryUserRepository) ResetPendingRegistration(_ context.Context, id, passwordHash, code string, expiry time.Time) error {
	return r.mutate(id, func(u *domain.User) error {
		if u.IsVerified {
			return ErrNotFound
		}
		u.PasswordHash = passwordHash
		u.VerificationCode = code
		u.VerificationCodeExpiry = expiry
		return nil
	})
}

func (r *memoryUserRepository) MarkVerified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	for otherID, other := range r.users {
		if otherID != id && other.user.IsVerified && other.user.Username == rec.user.Username {
			return ErrDuplicate
		}
	}
	rec.user.IsVerified = true
	rec.user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryUserRepository) GetAcceptingMessages(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return false, ErrNotFound
	}
	return rec.user.IsAcceptingMessages, nil
}

func (r *memoryUserRepository) SetAcceptingMessages(_ context.Context, id string, accept bool) (bool, error) {
	err := r.mutate(id, func(u *domain.User) error {
		u.IsAcceptingMessages = accept
		return nil
	})
	if err != nil {
		return false, err
	}
	return accept, nil
}

func (r *memoryUserRepository) AppendMessage(_ context.Context, userID string, msg *domain.Message) error {
	return r.mutate(userID, func(u *domain.User) error {
		if !u.IsAcceptingMessages {
			return ErrNotAccepting
		}
		stored := *msg
		stored.ID = uuid.NewString()
		u.Messages = append(u.Messages, stored)
		msg.ID = stored.ID
		return nil
	})
}

func (r *memoryUserRepository) ListMessages(_ context.Context, userID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]domain.Message{}, rec.user.Messages...), nil
}

func (r *memoryUserRepository) DeleteMessage(_ context.Context, userID, messageID string) error {
	return r.mutate(userID, func(u *domain.User) error {
		for i, m := range u.Messages {
			if m.ID == messageID {
				u.Messages = append(u.Messages[:i:i], u.Messages[i+1:]...)
				return nil
			}
		}
		return ErrMessageNotFound
	})
}

func (r *memoryUserRepository) ClearMessages(_ context.Context, userID string) error {
	return r.mutate(userID, func(u *domain.User) error {
		if len(u.Messages) == 0 {
			return ErrNoMessages
		}
		u.Messages = []domain.Message{}
		return nil
	})
}

func (r *memoryUserRepository) ListVerified(_ context.Context) ([]domain.DirectoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]*memoryRecord, 0, len(r.users))
	for _, rec := range r.users {
		if rec.user.IsVerified {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	entries := make([]domain.DirectoryEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, domain.DirectoryEntry{
			ID:                  rec.user.ID,
			Username:            rec.user.Username,
			IsAcceptingMessages: rec.user.IsAcceptingMessages,
			CreatedAt:           rec.user.CreatedAt,
		})
	}
	return entries, nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) Ping(context.Context) error {
	return nil
}

// pick returns the best match: verified first, then the most recently created.
func (r *memoryUserRepository) pick(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *memoryRecord
	for _, rec := range r.users {
		if !match(&rec.user) {
			continue
		}
		if best == nil ||
			(rec.user.IsVerified && !best.user.IsVerified) ||
			(rec.user.IsVerified == best.user.IsVerified && rec.seq > best.seq) {
			best = rec
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return cloneUser(best.user), nil
}

func (r *memoryUserRepository) mutate(id string, fn func(*domain.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	if err := fn(&rec.user); err != nil {
		return err
	}
	rec.user.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneUser(u domain.User) *domain.User {
	u.Messages = append([]domain.Message{}, u.Messages...)
	return &u
}
