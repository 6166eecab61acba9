package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
	"github.com/cseku-cluster/cluster-backend/internal/users"
)

// UserStore is the slice of the users module the auth flows need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (users.User, error)
	Create(ctx context.Context, p users.UpsertParams) (users.User, error)
}

// Mailer delivers OTP codes out of band. The asynq queue implements it.
type Mailer interface {
	SendOTP(ctx context.Context, email, name, otp string) error
}

type Service struct {
	repo        Repository
	userStore   UserStore
	mailer      Mailer
	redis       *redis.Client
	emailDomain string
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs the auth service. emailDomain restricts who may
// register, e.g. "cseku.ac.bd"; empty allows any address.
func NewService(repo Repository, userStore UserStore, mailer Mailer, rdb *redis.Client, emailDomain string, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		userStore:   userStore,
		mailer:      mailer,
		redis:       rdb,
		emailDomain: emailDomain,
		logger:      logger,
		now:         time.Now,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Register stages a signup and emails its OTP. An existing account for the
// address is a conflict; a pending signup is replaced with a fresh code.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if s.emailDomain != "" && !strings.HasSuffix(email, "@"+s.emailDomain) {
		return fmt.Errorf("%w: registration requires an @%s address", shared.ErrValidation, s.emailDomain)
	}

	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("%w: email already registered", shared.ErrConflict)
	}

	allowed, err := s.claimSendSlot(ctx, email)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: an OTP was sent recently, try again in a minute", shared.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.repo.UpsertPending(ctx, PendingRegistration{
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		StudentID:    strings.TrimSpace(req.StudentID),
		PasswordHash: string(hash),
		OTP:          otp,
	}); err != nil {
		return err
	}

	// Mail delivery is queued; a broker hiccup must not lose the signup.
	if err := s.mailer.SendOTP(ctx, email, req.Name, otp); err != nil {
		s.logger.Error("enqueue otp mail", slog.String("email", email), slog.Any("error", err))
	}
	return nil
}

// VerifyOTP promotes a pending signup into an active account and returns it.
// Expired or mismatched codes fail without consuming the pending row.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (users.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	pending, err := s.repo.FindPending(ctx, email)
	if err != nil {
		return users.User{}, err
	}
	if pending.Expired(s.now()) {
		return users.User{}, fmt.Errorf("%w: the code has expired, register again", shared.ErrValidation)
	}
	if pending.OTP != req.OTP {
		return users.User{}, fmt.Errorf("%w: incorrect code", shared.ErrValidation)
	}

	user, err := s.userStore.Create(ctx, users.UpsertParams{
		Email:        pending.Email,
		Name:         pending.Name,
		StudentID:    pending.StudentID,
		PasswordHash: pending.PasswordHash,
		IsActive:     true,
	})
	if err != nil {
		return users.User{}, err
	}
	if err := s.repo.DeletePending(ctx, email); err != nil {
		s.logger.Warn("cleanup pending registration", slog.String("email", email), slog.Any("error", err))
	}
	return user, nil
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, req LoginRequest) (users.User, error) {
	user, err := s.userStore.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

// claimSendSlot reserves the per-address resend window. Tests run without
// redis, in which case sends are never throttled.
func (s *Service) claimSendSlot(ctx context.Context, email string) (bool, error) {
	if s.redis == nil {
		return true, nil
	}
	ok, err := s.redis.SetNX(ctx, shared.OTPThrottleKey(email), "1", ResendInterval).Result()
	if err != nil {
		return false, fmt.Errorf("otp throttle: %w", err)
	}
	return ok, nil
}
