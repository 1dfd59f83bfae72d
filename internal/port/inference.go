package port

import "context"

// GenerateInput carries one inference request.
type GenerateInput struct {
	Prompt string
}

// GenerateOutput contains the raw model response. The text is untrusted
// free form and must be parsed defensively by the caller.
type GenerateOutput struct {
	Text      string
	ModelUsed string
}

// InferenceClient abstracts the natural-language inference service used by
// assisted extraction. Any service that accepts a prompt and returns text
// satisfies the contract.
type InferenceClient interface {
	// Available probes whether the service is reachable; callers skip
	// assisted extraction entirely when it returns an error.
	Available(ctx context.Context) error
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
