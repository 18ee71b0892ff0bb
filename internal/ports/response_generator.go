package ports

import "context"

// ResponseGenerator turns a single prompt into generated text. Calls are
// stateless: no conversation history is forwarded.
type ResponseGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}
