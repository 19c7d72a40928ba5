package transition

import (
	"context"

	"github.com/dmitrymomot/statekit/pkg/statemachine"
)

// IdentityProvider supplies the current performer when a request omits one
// explicitly. Returning nil means no authenticated performer; the
// transition then runs as a system transition.
type IdentityProvider interface {
	CurrentPerformer(ctx context.Context) statemachine.Performer
}

// IdentityProviderFunc adapts a function into an IdentityProvider
type IdentityProviderFunc func(ctx context.Context) statemachine.Performer

func (f IdentityProviderFunc) CurrentPerformer(ctx context.Context) statemachine.Performer {
	return f(ctx)
}
