package entity

import "time"

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRecord is one persisted question/answer exchange.
type ChatRecord struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Date      string        `json:"date"` // YYYY-MM-DD
	CreatedAt int64         `json:"created_at"`
	Title     string        `json:"title"`
	Language  Language      `json:"language,omitempty"`
	Messages  []ChatMessage `json:"messages"`
}

type ChatStats struct {
	TotalChats   int        `json:"totalChats"`
	RecentChats  int        `json:"recentChats"`
	LastChatDate *time.Time `json:"lastChatDate"`
}
