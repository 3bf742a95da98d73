package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
	"github.com/moneytrail/wallet-api/internal/core/token"
	"github.com/moneytrail/wallet-api/internal/pkg/password"
)

// ---------------------------------------------------------------------------
// In-memory stub credential store
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by ID
	nextID  int
	updates int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username || u.Email == email })
}

func (r *stubUserRepo) FindByRefreshToken(_ context.Context, tok string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return tok != "" && u.RefreshToken == tok })
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrAlreadyRegistered
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[c.ID] = cloneUser(c)
	return c, nil
}

func (r *stubUserRepo) UpdateRefreshToken(_ context.Context, userID, tok string) error {
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.updates++
	u.RefreshToken = tok
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByEmails(_ context.Context, emails []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, e := range emails {
		if u, err := r.FindByEmail(context.Background(), e); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) DeleteByEmail(_ context.Context, email string) (int64, error) {
	for id, u := range r.users {
		if u.Email == email {
			delete(r.users, id)
			return 1, nil
		}
	}
	return 0, nil
}

type stubRecorder struct {
	events []domain.SessionEvent
}

func (r *stubRecorder) Record(e domain.SessionEvent) {
	r.events = append(r.events, e)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const authSecret = "auth-secret"

func newAuthSvc(repo *stubUserRepo, rec *stubRecorder) *AuthService {
	return NewAuthService(repo, password.NewHasher(bcrypt.MinCost), token.NewCodec(authSecret), rec, zerolog.Nop())
}

func registerInput(username, email, pwd string) ports.RegisterInput {
	return ports.RegisterInput{Username: username, Email: email, Password: pwd}
}

func loginInput(email, pwd string) ports.LoginInput {
	return ports.LoginInput{Email: email, Password: pwd}
}

var daveInput = registerInput("dave", "dave@example.com", "dave123")

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	rec := &stubRecorder{}
	svc := newAuthSvc(repo, rec)

	user, err := svc.Register(context.Background(), daveInput)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleRegular {
		t.Fatalf("expected Regular role, got %s", user.Role)
	}
	if user.RefreshToken != "" {
		t.Fatalf("expected empty refresh token on registration")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("dave123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Kind != domain.SessionRegistered {
		t.Fatalf("expected a registered event, got %+v", rec.events)
	}
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubRecorder{})

	user, err := svc.RegisterAdmin(context.Background(), daveInput)
	if err != nil {
		t.Fatalf("RegisterAdmin returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected Admin role, got %s", user.Role)
	}
}

func TestAuthService_Register_MissingAttributes(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubRecorder{})

	inputs := []struct {
		username, email, password string
	}{
		{"", "dave@example.com", "dave123"},
		{"dave", "", "dave123"},
		{"dave", "dave@example.com", ""},
		{"   ", "dave@example.com", "dave123"},
	}
	for _, in := range inputs {
		_, err := svc.Register(context.Background(), registerInput(in.username, in.email, in.password))
		if !errors.Is(err, domain.ErrMissingAttributes) {
			t.Fatalf("%+v: expected ErrMissingAttributes, got %v", in, err)
		}
	}
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubRecorder{})

	_, err := svc.Register(context.Background(), registerInput("dave", "dave.example.com", "dave123"))
	if !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &stubRecorder{})

	if _, err := svc.Register(context.Background(), daveInput); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// Same username with another email, and same email with another username.
	for _, in := range []struct{ username, email string }{
		{"dave", "other@example.com"},
		{"other", "dave@example.com"},
	} {
		_, err := svc.Register(context.Background(), registerInput(in.username, in.email, "pwd"))
		if !errors.Is(err, domain.ErrAlreadyRegistered) {
			t.Fatalf("%+v: expected ErrAlreadyRegistered, got %v", in, err)
		}
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.users))
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &stubRecorder{})
	_, _ = svc.Register(context.Background(), daveInput)

	sess, err := svc.Login(context.Background(), loginInput("dave@example.com", "dave123"))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	codec := token.NewCodec(authSecret)
	for name, tok := range map[string]string{"access": sess.AccessToken, "refresh": sess.RefreshToken} {
		claims, err := codec.Verify(tok)
		if err != nil {
			t.Fatalf("%s token invalid: %v", name, err)
		}
		if claims.Username != "dave" || claims.Role != string(domain.RoleRegular) || claims.ID == "" {
			t.Fatalf("%s token has unexpected claims: %+v", name, claims)
		}
	}

	access, _ := codec.Verify(sess.AccessToken)
	refresh, _ := codec.Verify(sess.RefreshToken)
	if got := access.ExpiresAt.Sub(access.IssuedAt.Time); got != token.AccessTTL {
		t.Fatalf("access ttl = %v", got)
	}
	if got := refresh.ExpiresAt.Sub(refresh.IssuedAt.Time); got != token.RefreshTTL {
		t.Fatalf("refresh ttl = %v", got)
	}

	stored, _ := repo.FindByEmail(context.Background(), "dave@example.com")
	if stored.RefreshToken != sess.RefreshToken {
		t.Fatalf("stored refresh token does not match the issued one")
	}
}

func TestAuthService_Login_OverwritesPreviousSession(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &stubRecorder{})
	_, _ = svc.Register(context.Background(), daveInput)

	first, _ := svc.Login(context.Background(), loginInput("dave@example.com", "dave123"))

	later := time.Now().Add(300 * time.Millisecond)
	svc.codec = token.NewCodec(authSecret).WithClock(func() time.Time { return later })
	second, err := svc.Login(context.Background(), loginInput("dave@example.com", "dave123"))
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if first.RefreshToken == second.RefreshToken {
		t.Fatalf("expected a different refresh token on the second login")
	}

	if err := svc.Logout(context.Background(), first.RefreshToken); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("first session should be revoked, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &stubRecorder{})
	_, _ = svc.Register(context.Background(), daveInput)

	_, err := svc.Login(context.Background(), loginInput("dave@example.com", "badpass"))
	if !errors.Is(err, domain.ErrWrongCredentials) {
		t.Fatalf("expected ErrWrongCredentials, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("failed login must not touch the stored refresh token")
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubRecorder{})

	if _, err := svc.Login(context.Background(), loginInput("", "x")); !errors.Is(err, domain.ErrMissingAttributes) {
		t.Fatalf("expected ErrMissingAttributes, got %v", err)
	}
	if _, err := svc.Login(context.Background(), loginInput("dave@example.com", "")); !errors.Is(err, domain.ErrMissingAttributes) {
		t.Fatalf("expected ErrMissingAttributes, got %v", err)
	}
	if _, err := svc.Login(context.Background(), loginInput("nope", "x")); !errors.Is(err, domain.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestAuthService_Login_EmailNotFound(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubRecorder{})

	if _, err := svc.Login(context.Background(), loginInput("ghost@example.com", "pass")); !errors.Is(err, domain.ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestAuthService_Logout(t *testing.T) {
	repo := newStubUserRepo()
	rec := &stubRecorder{}
	svc := newAuthSvc(repo, rec)
	_, _ = svc.Register(context.Background(), daveInput)
	sess, _ := svc.Login(context.Background(), loginInput("dave@example.com", "dave123"))

	if err := svc.Logout(context.Background(), sess.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	stored, _ := repo.FindByEmail(context.Background(), "dave@example.com")
	if stored.RefreshToken != "" {
		t.Fatalf("expected stored refresh token to be cleared")
	}

	// A second logout with the same cookie no longer matches any user.
	if err := svc.Logout(context.Background(), sess.RefreshToken); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second logout, got %v", err)
	}

	kinds := make([]domain.SessionEventKind, 0, len(rec.events))
	for _, e := range rec.events {
		kinds = append(kinds, e.Kind)
	}
	want := []domain.SessionEventKind{domain.SessionRegistered, domain.SessionLoggedIn, domain.SessionLoggedOut}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected events %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("unexpected events %v", kinds)
		}
	}
}

func TestAuthService_Logout_NoCookie(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubRecorder{})

	if err := svc.Logout(context.Background(), ""); !errors.Is(err, domain.ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
}

func TestAuthService_Logout_UnknownToken(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &stubRecorder{})

	if err := svc.Logout(context.Background(), "unknown"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
