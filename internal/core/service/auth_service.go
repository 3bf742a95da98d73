package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
	"github.com/moneytrail/wallet-api/internal/core/token"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	store    ports.CredentialStore
	hasher   ports.PasswordHasher
	codec    *token.Codec
	validate *validator.Validate
	recorder ports.SessionRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	store ports.CredentialStore,
	hasher ports.PasswordHasher,
	codec *token.Codec,
	recorder ports.SessionRecorder,
	log zerolog.Logger,
) *AuthService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AuthService{
		store:    store,
		hasher:   hasher,
		codec:    codec,
		validate: validator.New(),
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleRegular)
}

// RegisterAdmin is Register with the admin role.
func (s *AuthService) RegisterAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.register(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrMissingAttributes
	}
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	// The unique indexes on username and email back this check when two
	// registrations race past it.
	_, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadyRegistered
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.recorder.Record(domain.SessionEvent{Username: created.Username, Kind: domain.SessionRegistered, At: now})
	s.log.Info().Str("username", created.Username).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a fresh token pair. The new refresh
// token overwrites the stored one, ending any previous session.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrMissingAttributes
	}
	if err := s.checkEmail(email); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrEmailNotFound
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Compare(in.Password, user.PasswordHash) {
		return nil, domain.ErrWrongCredentials
	}

	id := user.Identity()
	access, err := s.codec.Issue(id, token.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	refresh, err := s.codec.Issue(id, token.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.store.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, fmt.Errorf("login: store refresh token: %w", err)
	}
	user.RefreshToken = refresh

	s.recorder.Record(domain.SessionEvent{Username: user.Username, Kind: domain.SessionLoggedIn, At: s.now().UTC()})
	s.log.Info().Str("username", user.Username).Msg("user logged in")

	return &ports.Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Logout revokes the session whose refresh token matches the cookie value.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domain.ErrNoRefreshToken
	}

	user, err := s.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("logout: %w", err)
	}

	if err := s.store.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
		return fmt.Errorf("logout: clear refresh token: %w", err)
	}

	s.recorder.Record(domain.SessionEvent{Username: user.Username, Kind: domain.SessionLoggedOut, At: s.now().UTC()})
	s.log.Info().Str("username", user.Username).Msg("user logged out")
	return nil
}

func (s *AuthService) checkEmail(email string) error {
	if err := s.validate.Var(email, "email"); err != nil {
		return domain.ErrInvalidEmail
	}
	return nil
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.SessionEvent) {}
