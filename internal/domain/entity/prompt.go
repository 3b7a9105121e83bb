package entity

// ChatRequest is one question submitted through the API.
type ChatRequest struct {
	UserID    string   `json:"-"`
	ClientKey string   `json:"-"` // rate limit key for guests
	Prompt    string   `json:"prompt" validate:"required"`
	Language  Language `json:"language" validate:"omitempty,oneof=english hindi"`
}

type ChatResponse struct {
	Response string   `json:"response"`
	Thinking string   `json:"thinking"`
	Language Language `json:"language"`
	ChatID   string   `json:"chat_id,omitempty"`
	Fallback bool     `json:"fallback,omitempty"`
}
