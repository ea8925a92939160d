package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aarushkx/speak-free/internal/auth"
	"github.com/aarushkx/speak-free/internal/config"
	"github.com/aarushkx/speak-free/internal/domain"
	"github.com/aarushkx/speak-free/internal/events"
	"github.com/aarushkx/speak-free/internal/mail"
	"github.com/aarushkx/speak-free/internal/repository"
	apperrors "github.com/aarushkx/speak-free/pkg/util/errorutil"
)

// AuthService coordinates registration, verification and login flows.
type AuthService struct {
	users      repository.UserRepository
	mailer     mail.Mailer
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
	codeTTL    time.Duration
	now        func() time.Time
	newCode    func() (string, error)
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Mailer     mail.Mailer
	Dispatcher events.Dispatcher
	Tokens     *auth.TokenManager
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		mailer:     deps.Mailer,
		dispatcher: deps.Dispatcher,
		tokenMgr:   deps.Tokens,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		codeTTL:    cfg.VerificationCodeTTL(),
		now:        time.Now,
		newCode:    auth.GenerateVerificationCode,
	}
}

// Register creates a pending account or refreshes the code of an unverified one,
// then e-mails the code. A failed e-mail leaves the record in place.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	if _, err := s.users.FindVerifiedByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewInternalError(err)
	}

	code, err := s.newCode()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	expiry := s.now().Add(s.codeTTL)

	user, resent, err := s.upsertPending(ctx, username, email, hash, code, expiry)
	if err != nil {
		return err
	}

	env, err := mail.RenderVerification(email, username, code, s.codeTTL)
	if err == nil {
		err = s.mailer.Send(ctx, env)
	}
	if err != nil {
		s.logger.Error("verification e-mail failed",
			zap.String("user_id", user.ID),
			zap.String("email", email),
			zap.Error(err))
		return ErrVerificationEmailFailed.Wrap(err)
	}

	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Username: username,
		Resent:   resent,
	}))
	return nil
}

func (s *AuthService) upsertPending(ctx context.Context, username, email, hash, code string, expiry time.Time) (*domain.User, bool, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsVerified {
			return nil, false, ErrEmailTaken
		}
		if err := s.users.ResetPendingRegistration(ctx, existing.ID, hash, code, expiry); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// verified concurrently
				return nil, false, ErrEmailTaken
			}
			return nil, false, apperrors.NewInternalError(err)
		}
		return existing, true, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, apperrors.NewInternalError(err)
	}

	user := domain.NewPendingUser(username, email, hash, code, expiry)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrEmailTaken
		}
		return nil, false, apperrors.NewInternalError(err)
	}
	return user, false, nil
}

// CheckUsernameUnique reports whether no verified account holds username.
func (s *AuthService) CheckUsernameUnique(ctx context.Context, username string) (bool, error) {
	_, err := s.users.FindVerifiedByUsername(ctx, username)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, repository.ErrNotFound):
		return true, nil
	default:
		return false, apperrors.NewInternalError(err)
	}
}

// VerifyCode checks code for username and marks the account verified.
// Outcome precedence: expired and invalid, invalid, expired, success.
func (s *AuthService) VerifyCode(ctx context.Context, username, code string) (*domain.User, error) {
	if decoded, err := url.PathUnescape(username); err == nil {
		username = decoded
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	valid := auth.CodesEqual(user.VerificationCode, code)
	expired := s.now().After(user.VerificationCodeExpiry)

	switch {
	case !valid && expired:
		return nil, ErrCodeExpiredAndInvalid
	case !valid:
		return nil, ErrInvalidCode
	case expired:
		return nil, ErrCodeExpired
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	wasVerified := user.IsVerified
	user.IsVerified = true

	if !wasVerified {
		s.publish(ctx, events.New(events.EventUserVerified, user.ID, events.UserVerifiedPayload{Username: user.Username}))
	}
	return user, nil
}

// Login authenticates identifier (username or e-mail) and mints a session token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		return nil, "", time.Time{}, mapRepoError(err, ErrNoSuchUser)
	}
	if !user.IsVerified {
		return nil, "", time.Time{}, ErrNotVerified
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrIncorrectPassword
	}

	token, exp, err := s.tokenMgr.GenerateToken(domain.SessionFromUser(user))
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

func (s *AuthService) publish(ctx context.Context, evt events.Event) {
	publishEvent(ctx, s.dispatcher, s.logger, evt)
}
