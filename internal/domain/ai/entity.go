package ai

// FailureKind tags why a completion produced no text.
type FailureKind string

const (
	FailureTimeout       FailureKind = "timeout"
	FailureProviderError FailureKind = "provider_error"
	FailureNotConfigured FailureKind = "not_configured"
)

func (k FailureKind) String() string { return string(k) }

func (k FailureKind) sentinel() error {
	switch k {
	case FailureTimeout:
		return ErrTimeout
	case FailureNotConfigured:
		return ErrNotConfigured
	default:
		return ErrProvider
	}
}

// Failure is attached to a CompletionResult instead of returning an error.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// PromptRequest is an instruction answered in brand context. System and
// MaxTokens override the brand defaults when set.
type PromptRequest struct {
	Text      string `json:"text"`
	Brand     string `json:"brand"`
	System    string `json:"-"`
	MaxTokens int    `json:"-"`
}

// CompletionResult is one per-prompt record produced by the pipeline. Response
// and Failure are always serialized so callers can consume results uniformly.
type CompletionResult struct {
	Prompt     string   `json:"prompt"`
	Response   string   `json:"response"`
	Citations  []string `json:"citations"`
	Model      string   `json:"model,omitempty"`
	TokensUsed *int     `json:"tokens_used"`
	IsMock     bool     `json:"is_mock"`
	Failure    *Failure `json:"failure"`
}

// Failed reports whether the result carries a failure.
func (r CompletionResult) Failed() bool { return r.Failure != nil }

// Prompts builds brand-scoped requests from plain prompt strings.
func Prompts(brand string, texts ...string) []PromptRequest {
	out := make([]PromptRequest, 0, len(texts))
	for _, t := range texts {
		out = append(out, PromptRequest{Text: t, Brand: brand})
	}
	return out
}
