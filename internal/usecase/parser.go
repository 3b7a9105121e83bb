package usecase

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/logger"
)

const (
	ReasoningOpen  = "<think>"
	ReasoningClose = "</think>"
)

var (
	bracketsRe     = regexp.MustCompile(`[\[\]]`)
	extraNewlineRe = regexp.MustCompile(`\n{3,}`)
	// Devanagari mixed with digits, whitespace and the punctuation models use in Hindi answers.
	hindiBlockRe = regexp.MustCompile(`[\x{0900}-\x{097F}0-9\s\-•.,:;!?()\[\]"“”‘’]+`)
)

// Separators and closers cannot start a Hindi block; openers and separators cannot end
// one. Sentence enders such as the danda stay at the end.
const (
	blockLeadingTrim  = " \t\r\n:;,.-•!?)]”’"
	blockTrailingTrim = " \t\r\n:;,-•([“‘"
)

// segments is the result of splitting a completion on the reasoning delimiters.
// found is false when no closing delimiter exists; answer is then the whole input.
type segments struct {
	found     bool
	reasoning string
	answer    string
}

// splitReasoning consumes every "...</think>" block from the front of raw. The text of
// each block after its opening delimiter (if any) is reasoning; whatever follows
// the last closing delimiter is the answer.
func splitReasoning(raw string) segments {
	var blocks []string
	rest := raw
	found := false
	for {
		end := strings.Index(rest, ReasoningClose)
		if end < 0 {
			break
		}
		found = true
		block := rest[:end]
		if start := strings.Index(block, ReasoningOpen); start >= 0 {
			block = block[start+len(ReasoningOpen):]
		}
		if b := strings.TrimSpace(block); b != "" {
			blocks = append(blocks, b)
		}
		rest = rest[end+len(ReasoningClose):]
	}
	if !found {
		return segments{answer: strings.TrimSpace(raw)}
	}
	return segments{
		found:     true,
		reasoning: strings.Join(blocks, "\n\n"),
		answer:    strings.TrimSpace(rest),
	}
}

// ParseResponse splits a completion into reasoning and answer and cleans the
// answer. In Hindi mode the answer is reduced to its longest Devanagari block and
// the reasoning is dropped. It never fails: any internal fault yields the raw text
// as the answer. ctx only carries the logger.
func ParseResponse(ctx context.Context, raw string, lang entity.Language) (out entity.ParsedResponse) {
	log := logger.FromContext(ctx).With("language", lang)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Response parsing failed, returning raw text", "panic", r)
			out = entity.ParsedResponse{Answer: raw}
		}
	}()

	seg := splitReasoning(raw)
	if !seg.found {
		log.Debug("Completion without reasoning block", "error", entity.ErrMalformedCompletion)
	}
	answer := CleanAnswer(seg.answer)
	reasoning := seg.reasoning
	if lang == entity.LanguageHindi {
		answer = ExtractHindiBlock(answer)
		reasoning = ""
	}
	return entity.ParsedResponse{Reasoning: reasoning, Answer: answer}
}

// CleanAnswer strips square brackets and collapses runs of three or more newlines.
func CleanAnswer(answer string) string {
	answer = bracketsRe.ReplaceAllString(answer, "")
	return strings.TrimSpace(extraNewlineRe.ReplaceAllString(answer, "\n\n"))
}

// ExtractHindiBlock returns the longest run of Devanagari text (with digits,
// whitespace and punctuation) in answer. Runs without a single Devanagari letter
// are ignored; when none remain the answer is returned unchanged.
func ExtractHindiBlock(answer string) string {
	best, bestLen := "", 0
	for _, block := range hindiBlockRe.FindAllString(answer, -1) {
		if !IsDevanagariScript(block) {
			continue
		}
		if n := utf8.RuneCountInString(block); n > bestLen {
			best, bestLen = block, n
		}
	}
	if bestLen == 0 {
		return answer
	}
	best = strings.TrimLeft(best, blockLeadingTrim)
	best = strings.TrimRight(best, blockTrailingTrim)
	return extraNewlineRe.ReplaceAllString(best, "\n\n")
}
