package orchestrator

import (
	"context"
	"errors"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/tool"
)

// Error definitions for the orchestrator package.
var (
	// ErrModelFailure wraps a network or provider failure from the model
	// capability. The conversation state is left untouched when it occurs.
	ErrModelFailure = errors.New("model request failed")

	// ErrStepLimitExceeded is returned when a single cycle loops more than
	// the configured step budget without reaching a terminal state.
	ErrStepLimitExceeded = errors.New("orchestration step limit exceeded")
)

// ModelClient is the opaque language-model capability the orchestrator
// drives. Implementations send the conversation prefixed by the system
// prompt along with the catalog's function declarations, and translate the
// provider's reply into a domain message that may carry tool calls.
type ModelClient interface {
	GenerateResponse(
		ctx context.Context,
		conversation []domain.Message,
		systemPrompt string,
		availableTools []tool.Tool,
	) (domain.Message, error)
}
