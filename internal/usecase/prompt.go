package usecase

import (
	"fmt"
	"strings"
	"text/template"

	"gita-assistant/internal/domain/entity"
)

const (
	// IDontKnowAnswer is the sentence the model is told to use when the context
	// does not cover the question. Nothing in code enforces it.
	IDontKnowAnswer = "I don't know. Not enough information received."

	// HindiInstruction is appended to the prompt when the answer must be in Hindi.
	HindiInstruction = "कृपया इस प्रश्न का उत्तर हिंदी में दें।"

	// HindiDirectivePrefix rewrites API queries that explicitly ask for Hindi.
	HindiDirectivePrefix = "कृपया हिंदी में उत्तर दें: "

	slotContext = "context_str"
	slotQuery   = "query"
)

const systemTemplate = `You are an expert ancient assistant who is well versed in Bhagavad-gita.
You are Multilingual, you understand English, Hindi and Sanskrit.

Always structure your response in this format:
` + ReasoningOpen + `
[Your step-by-step thinking process here]
` + ReasoningClose + `

[Your final answer here]`

const userTemplate = `We have provided context information below.
{{.context_str}}
---------------------
Given this information, please answer the question: {{.query}}
---------------------
If the question is not from the provided context, say ` + "`" + IDontKnowAnswer + "`"

type messageTemplate struct {
	role entity.Role
	tmpl *template.Template
}

// PromptAssembler renders the fixed system and user turns into one prompt string.
type PromptAssembler struct {
	messages []messageTemplate
}

func NewPromptAssembler() *PromptAssembler {
	return &PromptAssembler{messages: []messageTemplate{
		{role: entity.RoleSystem, tmpl: mustParse("system", systemTemplate)},
		{role: entity.RoleUser, tmpl: mustParse("user", userTemplate)},
	}}
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").Parse(text))
}

// Messages binds both slots and returns the templated turns.
// An unbound slot panics: it can only come from a change to this file.
func (a *PromptAssembler) Messages(contextStr, query string) []entity.PromptMessage {
	slots := map[string]string{slotContext: contextStr, slotQuery: query}
	out := make([]entity.PromptMessage, 0, len(a.messages))
	for _, m := range a.messages {
		var sb strings.Builder
		if err := m.tmpl.Execute(&sb, slots); err != nil {
			panic(fmt.Sprintf("prompt template %q: %v", m.tmpl.Name(), err))
		}
		out = append(out, entity.PromptMessage{Role: m.role, Content: sb.String()})
	}
	return out
}

// Assemble renders the prompt for a completion-style model and appends the
// Hindi instruction when the hint asks for it.
func (a *PromptAssembler) Assemble(contextStr, query string, hint entity.Language) string {
	var sb strings.Builder
	for _, m := range a.Messages(contextStr, query) {
		sb.WriteString(string(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(string(entity.RoleAssistant))
	sb.WriteString(": ")
	if hint == entity.LanguageHindi {
		sb.WriteString("\n\n")
		sb.WriteString(HindiInstruction)
	}
	return sb.String()
}

// PromptPolicy decides how a caller's query is shaped before assembly and which
// language hint the assembler receives.
type PromptPolicy interface {
	Name() string
	Shape(query string) (shaped string, hint entity.Language)
}

// ScriptDetectionPolicy is used by the interactive chat: the query is kept as
// typed and Hindi is inferred from Devanagari characters.
type ScriptDetectionPolicy struct{}

func (ScriptDetectionPolicy) Name() string { return "script_detection" }

func (ScriptDetectionPolicy) Shape(query string) (string, entity.Language) {
	return query, DetectLanguage(query)
}

// DirectivePolicy is used by the HTTP API: the language comes from the request
// field and Hindi requests carry an explicit directive in the query itself.
type DirectivePolicy struct {
	Language entity.Language
}

func (DirectivePolicy) Name() string { return "directive" }

func (p DirectivePolicy) Shape(query string) (string, entity.Language) {
	if p.Language == entity.LanguageHindi {
		return HindiDirectivePrefix + query, entity.LanguageHindi
	}
	return query, entity.LanguageEnglish
}
