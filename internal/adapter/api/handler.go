package api

import (
	"context"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// ChatService is the part of usecase.ChatService the delivery layer needs.
type ChatService interface {
	Execute(ctx context.Context, req entity.ChatRequest) (*entity.ChatResponse, error)
	History(ctx context.Context, userID string) ([]entity.ChatRecord, error)
	Chat(ctx context.Context, userID, chatID string) (*entity.ChatRecord, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
	DeleteAllChats(ctx context.Context, userID string) (int, error)
	Stats(ctx context.Context, userID string) (*entity.ChatStats, error)
}

type ChatHandler struct {
	chats ChatService
}

func NewChatHandler(chats ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

func (h *ChatHandler) HandlePrompt(c *fiber.Ctx) error {
	var req entity.ChatRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	req.UserID = userID(c)
	req.ClientKey = c.IP()

	resp, err := h.chats.Execute(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	if resp.Fallback {
		c.Set("X-Gita-Fallback", "true")
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (h *ChatHandler) ListHistory(c *fiber.Ctx) error {
	uid, err := requireUser(c)
	if err != nil {
		return writeError(c, err)
	}
	history, err := h.chats.History(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(history)
}

func (h *ChatHandler) HistoryStats(c *fiber.Ctx) error {
	uid, err := requireUser(c)
	if err != nil {
		return writeError(c, err)
	}
	stats, err := h.chats.Stats(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	uid, err := requireUser(c)
	if err != nil {
		return writeError(c, err)
	}
	rec, err := h.chats.Chat(c.UserContext(), uid, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rec)
}

func (h *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	uid, err := requireUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.chats.DeleteChat(c.UserContext(), uid, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Chat deleted successfully"})
}

func (h *ChatHandler) ClearHistory(c *fiber.Ctx) error {
	uid, err := requireUser(c)
	if err != nil {
		return writeError(c, err)
	}
	n, err := h.chats.DeleteAllChats(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Chat history cleared", "deleted": n})
}

// AccountService is the part of usecase.AccountService the delivery layer needs.
type AccountService interface {
	Authenticator
	RequestRegistrationOTP(ctx context.Context, email string) error
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.AuthResult, error)
	Login(ctx context.Context, in usecase.LoginInput) (*entity.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in usecase.ProfileUpdate) (*entity.Profile, error)
	RequestDeletionOTP(ctx context.Context, userID string) error
	DeleteAccount(ctx context.Context, userID, code string) error
}

type AuthHandler struct {
	accounts AccountService
}

func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type otpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type deleteAccountRequest struct {
	OTP string `json:"otp" validate:"required,numeric"`
}

func (h *AuthHandler) RequestRegistrationOTP(c *fiber.Ctx) error {
	var req otpRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.accounts.RequestRegistrationOTP(c.UserContext(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	res, err := h.accounts.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	res, err := h.accounts.Login(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.accounts.Logout(c.UserContext(), bearerToken(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	p, err := h.accounts.Profile(c.UserContext(), userID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req usecase.ProfileUpdate
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	p, err := h.accounts.UpdateProfile(c.UserContext(), userID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

func (h *AuthHandler) RequestDeletionOTP(c *fiber.Ctx) error {
	if err := h.accounts.RequestDeletionOTP(c.UserContext(), userID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification code sent"})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	var req deleteAccountRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.accounts.DeleteAccount(c.UserContext(), userID(c), req.OTP); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
