package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
	_ "github.com/cseku-cluster/cluster-backend/internal/testing/guard"
	"github.com/cseku-cluster/cluster-backend/internal/users"
)

type memRepo struct {
	pending map[string]PendingRegistration
}

func newMemRepo() *memRepo {
	return &memRepo{pending: map[string]PendingRegistration{}}
}

func (m *memRepo) UpsertPending(ctx context.Context, p PendingRegistration) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.pending[p.Email] = p
	return nil
}

func (m *memRepo) FindPending(ctx context.Context, email string) (*PendingRegistration, error) {
	p, ok := m.pending[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (m *memRepo) DeletePending(ctx context.Context, email string) error {
	delete(m.pending, email)
	return nil
}

type memUsers struct {
	byEmail map[string]users.User
	nextID  int64
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]users.User{}, nextID: 1}
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (users.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) Create(ctx context.Context, p users.UpsertParams) (users.User, error) {
	if _, ok := m.byEmail[p.Email]; ok {
		return users.User{}, shared.ErrConflict
	}
	u := users.User{
		ID:           m.nextID,
		Email:        p.Email,
		Name:         p.Name,
		StudentID:    p.StudentID,
		PasswordHash: p.PasswordHash,
		IsActive:     p.IsActive,
	}
	m.nextID++
	m.byEmail[p.Email] = u
	return u, nil
}

type captureMailer struct {
	sent []string
	otps []string
}

func (c *captureMailer) SendOTP(ctx context.Context, email, name, otp string) error {
	c.sent = append(c.sent, email)
	c.otps = append(c.otps, otp)
	return nil
}

func newTestService(t *testing.T, rdb *redis.Client) (*Service, *memRepo, *memUsers, *captureMailer) {
	t.Helper()
	repo := newMemRepo()
	store := newMemUsers()
	mailer := &captureMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, store, mailer, rdb, "cseku.ac.bd", logger)
	return svc, repo, store, mailer
}

func TestRegisterStagesPendingAndMailsOTP(t *testing.T) {
	svc, repo, _, mailer := newTestService(t, nil)

	err := svc.Register(context.Background(), RegisterRequest{
		Email: "Student@cseku.ac.bd", Name: "A Student", Password: "secret123",
	})
	require.NoError(t, err)

	pending, ok := repo.pending["student@cseku.ac.bd"]
	require.True(t, ok)
	assert.Len(t, pending.OTP, 6)
	assert.NotEqual(t, "secret123", pending.PasswordHash)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "student@cseku.ac.bd", mailer.sent[0])
	assert.Equal(t, pending.OTP, mailer.otps[0])
}

func TestRegisterRejectsForeignDomain(t *testing.T) {
	svc, _, _, _ := newTestService(t, nil)

	err := svc.Register(context.Background(), RegisterRequest{
		Email: "someone@gmail.com", Name: "Outsider", Password: "secret123",
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegisterRejectsExistingAccount(t *testing.T) {
	svc, _, store, _ := newTestService(t, nil)
	store.byEmail["taken@cseku.ac.bd"] = users.User{ID: 1, Email: "taken@cseku.ac.bd"}

	err := svc.Register(context.Background(), RegisterRequest{
		Email: "taken@cseku.ac.bd", Name: "Dup", Password: "secret123",
	})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestRegisterThrottlesResends(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc, _, _, mailer := newTestService(t, rdb)

	req := RegisterRequest{Email: "student@cseku.ac.bd", Name: "A Student", Password: "secret123"}
	require.NoError(t, svc.Register(context.Background(), req))

	err := svc.Register(context.Background(), req)
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Len(t, mailer.sent, 1)

	mr.FastForward(ResendInterval + time.Second)
	require.NoError(t, svc.Register(context.Background(), req))
	assert.Len(t, mailer.sent, 2)
}

func TestVerifyOTPCreatesActiveUserAndConsumesPending(t *testing.T) {
	svc, repo, store, mailer := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterRequest{
		Email: "student@cseku.ac.bd", Name: "A Student", Password: "secret123",
	}))

	user, err := svc.VerifyOTP(ctx, VerifyOTPRequest{
		Email: "student@cseku.ac.bd", OTP: mailer.otps[0],
	})
	require.NoError(t, err)

	assert.True(t, user.IsActive)
	assert.Equal(t, "student@cseku.ac.bd", user.Email)
	assert.Empty(t, repo.pending)

	stored := store.byEmail["student@cseku.ac.bd"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	svc, repo, _, mailer := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterRequest{
		Email: "student@cseku.ac.bd", Name: "A Student", Password: "secret123",
	}))

	wrong := "000000"
	if mailer.otps[0] == wrong {
		wrong = "000001"
	}
	_, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "student@cseku.ac.bd", OTP: wrong})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Len(t, repo.pending, 1)
}

func TestVerifyOTPRejectsExpiredCode(t *testing.T) {
	svc, _, _, mailer := newTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterRequest{
		Email: "student@cseku.ac.bd", Name: "A Student", Password: "secret123",
	}))
	svc.now = func() time.Time { return time.Now().Add(OTPValidity + time.Minute) }

	_, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "student@cseku.ac.bd", OTP: mailer.otps[0]})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, err.Error(), "expired")
}

func TestVerifyOTPUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t, nil)

	_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{
		Email: "nobody@cseku.ac.bd", OTP: "123456",
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	svc, _, store, _ := newTestService(t, nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	store.byEmail["student@cseku.ac.bd"] = users.User{
		ID: 1, Email: "student@cseku.ac.bd", PasswordHash: string(hash), IsActive: true,
	}
	store.byEmail["inactive@cseku.ac.bd"] = users.User{
		ID: 2, Email: "inactive@cseku.ac.bd", PasswordHash: string(hash), IsActive: false,
	}

	_, err = svc.Authenticate(context.Background(), LoginRequest{Email: "student@cseku.ac.bd", Password: "secret123"})
	assert.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), LoginRequest{Email: "student@cseku.ac.bd", Password: "nope"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), LoginRequest{Email: "inactive@cseku.ac.bd", Password: "secret123"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), LoginRequest{Email: "ghost@cseku.ac.bd", Password: "secret123"})
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
