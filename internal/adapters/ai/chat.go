package ai

import "context"

// CompletionRequest is a single-turn chat completion.
type CompletionRequest struct {
	// System sets the assistant's role for this call.
	System string

	// User is the prompt body.
	User string

	// JSONResponse requests a JSON-object response from the model.
	JSONResponse bool
}

// ChatClient is the generative-model dependency of the analysis pipeline.
// Implementations return the assistant's text content, or an error the
// pipeline converts into a deterministic fallback.
type ChatClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
