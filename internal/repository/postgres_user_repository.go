package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aarushkx/speak-free/internal/domain"
	"github.com/aarushkx/speak-free/internal/persistence"
)

const pgUniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, verification_code, verification_code_expiry,
        is_verified, is_accepting_messages, created_at, updated_at`

type postgresUserRepository struct {
	db   *persistence.Postgres
	pool *pgxpool.Pool
}

// NewPostgresUserRepository returns a Postgres-backed implementation.
// Messages live in their own table keyed by owner and are removed with the owner.
func NewPostgresUserRepository(db *persistence.Postgres) UserRepository {
	return &postgresUserRepository{db: db, pool: db.PoolHandle()}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password_hash, verification_code, verification_code_expiry,
            is_verified, is_accepting_messages)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.VerificationCode,
		user.VerificationCodeExpiry,
		user.IsVerified,
		user.IsAcceptingMessages,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapPgError(err)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validUUID(id) {
		return nil, ErrNotFound
	}
	return r.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *postgresUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.queryUser(ctx, `
        SELECT `+userColumns+` FROM users WHERE username=$1
        ORDER BY is_verified DESC, created_at DESC LIMIT 1`, username)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *postgresUserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.queryUser(ctx, `
        SELECT `+userColumns+` FROM users WHERE email=$1 OR username=$1
        ORDER BY is_verified DESC, created_at DESC LIMIT 1`, identifier)
}

func (r *postgresUserRepository) FindVerifiedByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.queryUser(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1 AND is_verified`, username)
}

func (r *postgresUserRepository) ResetPendingRegistration(ctx context.Context, id, passwordHash, code string, expiry time.Time) error {
	if !validUUID(id) {
		return ErrNotFound
	}
	const query = `
        UPDATE users SET password_hash=$1, verification_code=$2, verification_code_expiry=$3, updated_at=NOW()
        WHERE id=$4 AND NOT is_verified`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, code, expiry, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresUserRepository) MarkVerified(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET is_verified=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresUserRepository) GetAcceptingMessages(ctx context.Context, id string) (bool, error) {
	if !validUUID(id) {
		return false, ErrNotFound
	}
	var accepting bool
	err := r.pool.QueryRow(ctx, `SELECT is_accepting_messages FROM users WHERE id=$1`, id).Scan(&accepting)
	if err != nil {
		return false, mapPgError(err)
	}
	return accepting, nil
}

func (r *postgresUserRepository) SetAcceptingMessages(ctx context.Context, id string, accept bool) (bool, error) {
	if !validUUID(id) {
		return false, ErrNotFound
	}
	const query = `
        UPDATE users SET is_accepting_messages=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING is_accepting_messages`

	var accepting bool
	if err := r.pool.QueryRow(ctx, query, accept, id).Scan(&accepting); err != nil {
		return false, mapPgError(err)
	}
	return accepting, nil
}

func (r *postgresUserRepository) AppendMessage(ctx context.Context, userID string, msg *domain.Message) error {
	if !validUUID(userID) {
		return ErrNotFound
	}
	const query = `
        INSERT INTO messages (id, user_id, content, created_at)
        SELECT $1, u.id, $3, $4 FROM users u
        WHERE u.id=$2 AND u.is_accepting_messages`

	id := uuid.NewString()
	cmd, err := r.pool.Exec(ctx, query, id, userID, msg.Content, msg.CreatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.missingOr(ctx, userID, ErrNotAccepting)
	}
	msg.ID = id
	return nil
}

func (r *postgresUserRepository) ListMessages(ctx context.Context, userID string) ([]domain.Message, error) {
	if !validUUID(userID) {
		return nil, ErrNotFound
	}
	rows, err := r.pool.Query(ctx, `
        SELECT id, content, created_at FROM messages
        WHERE user_id=$1 ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		if err := r.missingOr(ctx, userID, nil); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

func (r *postgresUserRepository) DeleteMessage(ctx context.Context, userID, messageID string) error {
	if !validUUID(userID) {
		return ErrNotFound
	}
	if !validUUID(messageID) {
		return r.missingOr(ctx, userID, ErrMessageNotFound)
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE user_id=$1 AND id=$2`, userID, messageID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.missingOr(ctx, userID, ErrMessageNotFound)
	}
	return nil
}

func (r *postgresUserRepository) ClearMessages(ctx context.Context, userID string) error {
	if !validUUID(userID) {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.missingOr(ctx, userID, ErrNoMessages)
	}
	return nil
}

func (r *postgresUserRepository) ListVerified(ctx context.Context) ([]domain.DirectoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, username, is_accepting_messages, created_at FROM users
        WHERE is_verified ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.DirectoryEntry, 0)
	for rows.Next() {
		var e domain.DirectoryEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.IsAcceptingMessages, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresUserRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrNotFound
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresUserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *postgresUserRepository) queryUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.VerificationCode,
		&user.VerificationCodeExpiry,
		&user.IsVerified,
		&user.IsAcceptingMessages,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, mapPgError(err)
	}
	user.Messages = []domain.Message{}
	return &user, nil
}

// missingOr returns ErrNotFound when the owner row is gone, reason otherwise.
func (r *postgresUserRepository) missingOr(ctx context.Context, userID string, reason error) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return reason
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
