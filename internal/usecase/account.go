package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/domain/repository"
	"gita-assistant/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AccountConfig struct {
	SessionTTL time.Duration
	OTPTTL     time.Duration
	OTPLength  int
}

func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		SessionTTL: 7 * 24 * time.Hour,
		OTPTTL:     10 * time.Minute,
		OTPLength:  6,
	}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	OTP      string `json:"otp" validate:"required,numeric"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	Username     string `json:"username" validate:"omitempty,min=2,max=64"`
	ProfileImage string `json:"profileImage" validate:"omitempty,max=2048"`
}

// AccountService owns registration with emailed codes, sessions and account deletion.
type AccountService struct {
	users    repository.UserStore
	sessions repository.SessionStore
	otps     repository.OTPStore
	chats    repository.ChatStore
	mailer   repository.Mailer
	cfg      AccountConfig
	now      func() time.Time
}

func NewAccountService(
	users repository.UserStore,
	sessions repository.SessionStore,
	otps repository.OTPStore,
	chats repository.ChatStore,
	mailer repository.Mailer,
	cfg AccountConfig,
) *AccountService {
	def := DefaultAccountConfig()
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = def.SessionTTL
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = def.OTPTTL
	}
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = def.OTPLength
	}
	return &AccountService{
		users:    users,
		sessions: sessions,
		otps:     otps,
		chats:    chats,
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", fmt.Errorf("%w: invalid email", entity.ErrInvalidRequest)
	}
	return email, nil
}

func (s *AccountService) RequestRegistrationOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	_, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return entity.ErrUserExists
	case !errors.Is(err, entity.ErrResourceNotFound):
		return err
	}
	return s.issueOTP(ctx, entity.OTPRegister, email,
		"Verify your email",
		"Your registration code is %s. It expires in %s.")
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.AuthResult, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: missing required fields", entity.ErrInvalidRequest)
	}
	ok, err := s.otps.Consume(ctx, entity.OTPRegister, email, strings.TrimSpace(in.OTP))
	if err != nil {
		return nil, fmt.Errorf("verifying code: %w", err)
	}
	if !ok {
		return nil, entity.ErrInvalidOTP
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("User registered", "user_id", user.ID)
	return s.startSession(ctx, user)
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*entity.AuthResult, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrResourceNotFound) {
		return nil, entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, entity.ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

func (s *AccountService) startSession(ctx context.Context, user *entity.User) (*entity.AuthResult, error) {
	token, err := s.sessions.Create(ctx, user.ID, s.cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return &entity.AuthResult{ID: user.ID, Username: user.Username, Email: user.Email, Token: token}, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate resolves a bearer token to a user id.
func (s *AccountService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", entity.ErrUnauthorized
	}
	userID, err := s.sessions.Resolve(ctx, token)
	if errors.Is(err, entity.ErrResourceNotFound) {
		return "", entity.ErrUnauthorized
	}
	return userID, err
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*entity.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*entity.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Username); name != "" {
		user.Username = name
	}
	if in.ProfileImage != "" {
		user.ProfileImage = in.ProfileImage
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

func (s *AccountService) RequestDeletionOTP(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.issueOTP(ctx, entity.OTPDelete, user.Email,
		"Confirm account deletion",
		"Your account deletion code is %s. It expires in %s.")
}

// DeleteAccount removes the user, their chats and every session once the emailed code matches.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, code string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	ok, err := s.otps.Consume(ctx, entity.OTPDelete, user.Email, strings.TrimSpace(code))
	if err != nil {
		return fmt.Errorf("verifying code: %w", err)
	}
	if !ok {
		return entity.ErrInvalidOTP
	}
	if _, err := s.chats.DeleteAll(ctx, user.ID); err != nil {
		return fmt.Errorf("deleting chats: %w", err)
	}
	if err := s.sessions.RevokeAll(ctx, user.ID); err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}
	if err := s.users.Delete(ctx, user); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("User deleted", "user_id", user.ID)
	return nil
}

func (s *AccountService) issueOTP(ctx context.Context, purpose entity.OTPPurpose, email, subject, bodyFmt string) error {
	code, err := generateOTP(s.cfg.OTPLength)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}
	if err := s.otps.Put(ctx, purpose, email, code, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("storing code: %w", err)
	}
	if err := s.mailer.Send(ctx, email, subject, fmt.Sprintf(bodyFmt, code, s.cfg.OTPTTL)); err != nil {
		return fmt.Errorf("sending code: %w", err)
	}
	return nil
}

func generateOTP(length int) (string, error) {
	var sb strings.Builder
	for range length {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
