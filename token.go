package docpack

import "context"

// charsPerToken is the character-to-token ratio used for size estimates.
// Four characters per token tracks common BPE vocabularies closely enough
// for chunk sizing and thinness decisions.
const charsPerToken = 4

// EstimateTokens approximates the token count of text from its byte length.
// Non-empty text always estimates to at least one token. Exact tokenization
// is a TokenCounter concern; estimates only drive sizing decisions.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := len(text) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
