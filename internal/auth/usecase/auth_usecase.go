package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cah-online/internal/auth/domain/model"
	"cah-online/internal/auth/domain/repository"
	"cah-online/internal/shared/database"
	"cah-online/internal/shared/eventbus"
	"cah-online/internal/shared/logger"
)

var (
	ErrInvalidUsername = errors.New("username must not be empty")
	ErrInvalidToken    = errors.New("session token is invalid")
	ErrSessionExpired  = errors.New("session has expired")
	ErrSessionRevoked  = errors.New("session has been revoked")
	ErrCouldNotIssue   = errors.New("could not issue session")
)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	IssueSession(ctx context.Context, req IssueSessionRequest) (*model.Session, error)
	Authenticate(ctx context.Context, token string) (*model.Session, error)
	RevokeSession(ctx context.Context, token string) error
}

var _ AuthUsecaseInterface = (*AuthUsecase)(nil)

// IssueSessionRequest carries the claimed identity and the client metadata
// recorded with the session.
type IssueSessionRequest struct {
	Username  string `json:"username"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// AuthUsecase implements the session authentication logic.
type AuthUsecase struct {
	repo   repository.SessionRepository
	events eventbus.Publisher
	logger logger.Logger
	now    func() time.Time
}

// Option configures an AuthUsecase.
type Option func(*AuthUsecase)

// WithClock sets the clock used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(uc *AuthUsecase) {
		if now != nil {
			uc.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(uc *AuthUsecase) {
		if log != nil {
			uc.logger = log
		}
	}
}

// WithPublisher sets where session lifecycle events are sent.
func WithPublisher(p eventbus.Publisher) Option {
	return func(uc *AuthUsecase) {
		uc.events = p
	}
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(repo repository.SessionRepository, opts ...Option) *AuthUsecase {
	uc := &AuthUsecase{
		repo:   repo,
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.logger = uc.logger.WithComponent("auth")
	return uc
}

// IssueSession creates a session for the claimed username. No credential is
// checked: whoever names a username gets a session for it.
func (uc *AuthUsecase) IssueSession(ctx context.Context, req IssueSessionRequest) (*model.Session, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	session, err := uc.repo.Create(ctx, username, req.IPAddress, req.UserAgent)
	if err != nil {
		sessionsIssued.WithLabelValues(resultFailed).Inc()
		uc.logStoreFailure(ctx, "issue", err)
		return nil, fmt.Errorf("%w: %w", ErrCouldNotIssue, err)
	}
	sessionsIssued.WithLabelValues(resultOK).Inc()

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"session_id": session.ID.Hex(),
		"username":   session.Username,
		"token":      model.MaskToken(session.Token),
	}).Info("session issued")

	uc.publish(ctx, eventbus.EventTypeSessionIssued, eventbus.SessionEvent{
		SessionID: session.ID.Hex(),
		Username:  session.Username,
		IPAddress: session.IPAddress,
	})
	return session, nil
}

// Authenticate resolves token to an active session. Every call reads the store.
func (uc *AuthUsecase) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	start := time.Now()
	session, err := uc.authenticate(ctx, token)
	authDuration.Observe(time.Since(start).Seconds())
	authAttempts.WithLabelValues(authResult(err)).Inc()
	return session, err
}

func (uc *AuthUsecase) authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	session, err := uc.repo.FindByToken(ctx, token)
	if err != nil {
		uc.logStoreFailure(ctx, "authenticate", err)
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidToken
	}

	var rejection error
	switch session.Status(uc.now()) {
	case model.SessionRevoked:
		rejection = ErrSessionRevoked
	case model.SessionExpired:
		rejection = ErrSessionExpired
	default:
		return session, nil
	}

	uc.publish(ctx, eventbus.EventTypeSessionRejected, eventbus.SessionEvent{
		SessionID: session.ID.Hex(),
		Username:  session.Username,
		Reason:    rejection.Error(),
	})
	return nil, rejection
}

// RevokeSession revokes the session carrying token. Revoking an already
// revoked session succeeds.
func (uc *AuthUsecase) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	session, err := uc.repo.FindByToken(ctx, token)
	if err != nil {
		uc.logStoreFailure(ctx, "revoke", err)
		return err
	}
	if session == nil {
		return ErrInvalidToken
	}
	if session.Revoked {
		return nil
	}

	if err := uc.repo.Revoke(ctx, session); err != nil {
		uc.logStoreFailure(ctx, "revoke", err)
		return err
	}
	sessionsRevoked.Inc()

	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"session_id": session.ID.Hex(),
		"username":   session.Username,
	}).Info("session revoked")

	uc.publish(ctx, eventbus.EventTypeSessionRevoked, eventbus.SessionEvent{
		SessionID: session.ID.Hex(),
		Username:  session.Username,
	})
	return nil
}

func (uc *AuthUsecase) publish(ctx context.Context, eventType string, data eventbus.SessionEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, eventbus.NewEvent(eventType, data, "auth", uc.now())); err != nil {
		uc.logger.WithContext(ctx).Warnf("failed to publish %s: %v", eventType, err)
	}
}

func (uc *AuthUsecase) logStoreFailure(ctx context.Context, op string, err error) {
	var storeErr *database.StoreError
	if !errors.As(err, &storeErr) {
		return
	}
	uc.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"operation":  op,
		"store_op":   storeErr.Op,
		"collection": storeErr.Collection,
	}).Errorf("store failure: %v", storeErr.Err)
}
