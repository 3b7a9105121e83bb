package entity

import "time"

// Language is the answer language requested by a caller.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageHindi   Language = "hindi"
)

// ParseLanguage maps a request field to a Language. Unknown values fall back to English.
func ParseLanguage(s string) Language {
	if Language(s) == LanguageHindi {
		return LanguageHindi
	}
	return LanguageEnglish
}

// RetrievedDocument is one ranked candidate passage from the vector store.
type RetrievedDocument struct {
	Payload map[string]string `json:"payload"`
	Score   float32           `json:"score"`
}

// Text returns the passage carried in the "context" payload field.
func (d RetrievedDocument) Text() string {
	return d.Payload["context"]
}

// RetrievalOutcome tells callers how a Context was produced.
type RetrievalOutcome string

const (
	RetrievalFound        RetrievalOutcome = "found"
	RetrievalEmpty        RetrievalOutcome = "empty"
	RetrievalEmbedFailed  RetrievalOutcome = "embed_failed"
	RetrievalSearchFailed RetrievalOutcome = "search_failed"
)

// Context is the grounding text injected into the prompt. Text is never empty.
type Context struct {
	Text      string           `json:"text"`
	Outcome   RetrievalOutcome `json:"outcome"`
	Documents int              `json:"documents"`
}

// Role of a templated chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PromptMessage is one templated turn of the prompt.
type PromptMessage struct {
	Role    Role
	Content string
}

// Completion is the raw model output of one pipeline run.
type Completion struct {
	Text     string        `json:"text"`
	Query    string        `json:"query"`
	Language Language      `json:"language"`
	Context  Context       `json:"context"`
	Fallback bool          `json:"fallback"` // generation exhausted and the apology was substituted
	Model    string        `json:"model"`
	Latency  time.Duration `json:"latency"`
}

// ParsedResponse is the structured answer derived from a Completion.
type ParsedResponse struct {
	Reasoning string `json:"thinking"`
	Answer    string `json:"response"`
}
