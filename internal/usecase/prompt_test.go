package usecase

import (
	"strings"
	"testing"

	"gita-assistant/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptAssembler_Assemble(t *testing.T) {
	a := NewPromptAssembler()

	t.Run("Should render system, user and assistant turns", func(t *testing.T) {
		out := a.Assemble("Dharma is duty.", "What is dharma?", entity.LanguageEnglish)
		assert.True(t, strings.HasPrefix(out, "system: You are an expert ancient assistant"))
		assert.Contains(t, out, "\nuser: We have provided context information below.\nDharma is duty.\n")
		assert.Contains(t, out, "please answer the question: What is dharma?\n")
		assert.Contains(t, out, IDontKnowAnswer)
		assert.Contains(t, out, ReasoningOpen)
		assert.True(t, strings.HasSuffix(out, "assistant: "))
	})

	t.Run("Should append the Hindi instruction only for Hindi", func(t *testing.T) {
		hi := a.Assemble("ctx", "धर्म क्या है?", entity.LanguageHindi)
		en := a.Assemble("ctx", "What is dharma?", entity.LanguageEnglish)
		assert.True(t, strings.HasSuffix(hi, "assistant: \n\n"+HindiInstruction))
		assert.NotContains(t, en, HindiInstruction)
	})

	t.Run("Should reproduce multi-line context exactly", func(t *testing.T) {
		docs := []entity.RetrievedDocument{
			{Payload: map[string]string{"context": "Verse 2.47:\nYou have a right to action,\n\nnot to its fruits."}},
			{Payload: map[string]string{"context": "Verse 3.8: Perform your duty."}},
		}
		joined, used := JoinDocuments(docs)
		require.Equal(t, 2, used)
		out := a.Assemble(joined, "q", entity.LanguageEnglish)
		assert.Contains(t, out, "\n"+joined+"\n---------------------")
	})

	t.Run("Should not expand template syntax in user input", func(t *testing.T) {
		out := a.Assemble("{{.query}}", "{{.context_str}}", entity.LanguageEnglish)
		assert.Contains(t, out, "below.\n{{.query}}\n")
		assert.Contains(t, out, "question: {{.context_str}}\n")
	})
}

func TestPromptAssembler_Messages(t *testing.T) {
	msgs := NewPromptAssembler().Messages("c", "q")
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.RoleSystem, msgs[0].Role)
	assert.Equal(t, entity.RoleUser, msgs[1].Role)
}

func TestPromptPolicies(t *testing.T) {
	t.Run("Should keep the query and detect script", func(t *testing.T) {
		q, hint := ScriptDetectionPolicy{}.Shape("कर्म क्या है?")
		assert.Equal(t, "कर्म क्या है?", q)
		assert.Equal(t, entity.LanguageHindi, hint)

		q, hint = ScriptDetectionPolicy{}.Shape("What is karma?")
		assert.Equal(t, "What is karma?", q)
		assert.Equal(t, entity.LanguageEnglish, hint)
	})

	t.Run("Should prefix the Hindi directive from the request language", func(t *testing.T) {
		q, hint := DirectivePolicy{Language: entity.LanguageHindi}.Shape("What is karma?")
		assert.Equal(t, HindiDirectivePrefix+"What is karma?", q)
		assert.Equal(t, entity.LanguageHindi, hint)
	})

	t.Run("Should not re-detect the language of the query", func(t *testing.T) {
		q, hint := DirectivePolicy{Language: entity.LanguageEnglish}.Shape("कर्म क्या है?")
		assert.Equal(t, "कर्म क्या है?", q)
		assert.Equal(t, entity.LanguageEnglish, hint)
	})
}
