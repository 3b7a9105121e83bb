package usecase

import (
	"context"
	"regexp"
	"testing"

	"gita-assistant/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type accountFixture struct {
	svc      *AccountService
	users    *fakeUserStore
	sessions *fakeSessionStore
	otps     *fakeOTPStore
	chats    *fakeChatStore
	mailer   *fakeMailer
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users:    newFakeUserStore(),
		sessions: newFakeSessionStore(),
		otps:     newFakeOTPStore(),
		chats:    newFakeChatStore(),
		mailer:   &fakeMailer{},
	}
	f.svc = NewAccountService(f.users, f.sessions, f.otps, f.chats, f.mailer, AccountConfig{})
	return f
}

func (f *accountFixture) register(t *testing.T, email, password string) *entity.AuthResult {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.RequestRegistrationOTP(ctx, email))
	res, err := f.svc.Register(ctx, RegisterInput{
		Username: "Arjuna",
		Email:    email,
		Password: password,
		OTP:      f.otps.codes["register:"+email],
	})
	require.NoError(t, err)
	return res
}

func TestAccountService_Registration(t *testing.T) {
	ctx := context.Background()

	t.Run("Should mail a six digit code", func(t *testing.T) {
		f := newAccountFixture()
		require.NoError(t, f.svc.RequestRegistrationOTP(ctx, " Arjuna@Example.com "))
		code := f.otps.codes["register:arjuna@example.com"]
		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, "arjuna@example.com", f.mailer.sent[0].to)
		assert.Contains(t, f.mailer.sent[0].body, code)
	})

	t.Run("Should reject malformed emails", func(t *testing.T) {
		f := newAccountFixture()
		assert.ErrorIs(t, f.svc.RequestRegistrationOTP(ctx, "not-an-email"), entity.ErrInvalidRequest)
	})

	t.Run("Should create the user and a session", func(t *testing.T) {
		f := newAccountFixture()
		res := f.register(t, "arjuna@example.com", "gandiva123")
		assert.Equal(t, "Arjuna", res.Username)
		assert.NotEmpty(t, res.Token)

		user, err := f.users.GetByEmail(ctx, "arjuna@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "gandiva123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("gandiva123")))

		uid, err := f.svc.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, uid)
	})

	t.Run("Should refuse a wrong code", func(t *testing.T) {
		f := newAccountFixture()
		require.NoError(t, f.svc.RequestRegistrationOTP(ctx, "a@b.com"))
		_, err := f.svc.Register(ctx, RegisterInput{Username: "A", Email: "a@b.com", Password: "secret1", OTP: "000000x"})
		assert.ErrorIs(t, err, entity.ErrInvalidOTP)
	})

	t.Run("Should not accept a code twice", func(t *testing.T) {
		f := newAccountFixture()
		require.NoError(t, f.svc.RequestRegistrationOTP(ctx, "a@b.com"))
		code := f.otps.codes["register:a@b.com"]
		_, err := f.svc.Register(ctx, RegisterInput{Username: "A", Email: "a@b.com", Password: "secret1", OTP: code})
		require.NoError(t, err)
		_, err = f.svc.Register(ctx, RegisterInput{Username: "B", Email: "a@b.com", Password: "secret1", OTP: code})
		assert.ErrorIs(t, err, entity.ErrInvalidOTP)
	})

	t.Run("Should refuse a code for an existing email", func(t *testing.T) {
		f := newAccountFixture()
		f.register(t, "a@b.com", "secret1")
		assert.ErrorIs(t, f.svc.RequestRegistrationOTP(ctx, "a@b.com"), entity.ErrUserExists)
	})
}

func TestAccountService_Sessions(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	f.register(t, "a@b.com", "secret1")

	t.Run("Should log in with the right password", func(t *testing.T) {
		res, err := f.svc.Login(ctx, LoginInput{Email: "A@B.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("Should not reveal whether the email exists", func(t *testing.T) {
		_, err := f.svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "wrong"})
		assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
		_, err = f.svc.Login(ctx, LoginInput{Email: "nobody@b.com", Password: "secret1"})
		assert.ErrorIs(t, err, entity.ErrInvalidCredentials)
	})

	t.Run("Should reject missing and revoked tokens", func(t *testing.T) {
		_, err := f.svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, entity.ErrUnauthorized)

		res, err := f.svc.Login(ctx, LoginInput{Email: "a@b.com", Password: "secret1"})
		require.NoError(t, err)
		require.NoError(t, f.svc.Logout(ctx, res.Token))
		_, err = f.svc.Authenticate(ctx, res.Token)
		assert.ErrorIs(t, err, entity.ErrUnauthorized)
	})
}

func TestAccountService_Profile(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture()
	res := f.register(t, "a@b.com", "secret1")

	p, err := f.svc.UpdateProfile(ctx, res.ID, ProfileUpdate{Username: " Partha ", ProfileImage: "https://img.example/p.png"})
	require.NoError(t, err)
	assert.Equal(t, "Partha", p.Username)

	p, err = f.svc.UpdateProfile(ctx, res.ID, ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Partha", p.Username)
	assert.Equal(t, "https://img.example/p.png", p.ProfileImage)

	got, err := f.svc.Profile(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)

	_, err = f.svc.Profile(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrResourceNotFound)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Should remove the user, chats and sessions", func(t *testing.T) {
		f := newAccountFixture()
		res := f.register(t, "a@b.com", "secret1")
		require.NoError(t, f.chats.Save(ctx, &entity.ChatRecord{ID: "c1", UserID: res.ID}))

		require.NoError(t, f.svc.RequestDeletionOTP(ctx, res.ID))
		code := f.otps.codes["delete:a@b.com"]
		require.NotEmpty(t, code)
		require.NoError(t, f.svc.DeleteAccount(ctx, res.ID, code))

		_, err := f.users.GetByID(ctx, res.ID)
		assert.ErrorIs(t, err, entity.ErrResourceNotFound)
		assert.Empty(t, f.chats.records)
		_, err = f.svc.Authenticate(ctx, res.Token)
		assert.ErrorIs(t, err, entity.ErrUnauthorized)
	})

	t.Run("Should keep the account on a wrong code", func(t *testing.T) {
		f := newAccountFixture()
		res := f.register(t, "a@b.com", "secret1")
		require.NoError(t, f.svc.RequestDeletionOTP(ctx, res.ID))
		assert.ErrorIs(t, f.svc.DeleteAccount(ctx, res.ID, "nope"), entity.ErrInvalidOTP)
		_, err := f.users.GetByID(ctx, res.ID)
		assert.NoError(t, err)
	})
}
