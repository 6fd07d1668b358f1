package v1

import (
	"context"

	"github.com/jokari-ai/knowledge-hub/pkg/types"
)

const (
	ACTOR_CONTEXT_KEY = "__khub.actor"
	LANGUAGE_KEY      = "__khub.accept_language"
)

// InjectActor returns the reviewer identity set by the middleware layer.
func InjectActor(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(ACTOR_CONTEXT_KEY).(string)
	return val, ok
}

func InjectLanguage(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(LANGUAGE_KEY).(string)
	return val, ok
}

// ActorOrDefault falls back to the system actor when the request carries no
// identity, e.g. pipeline-internal mutations.
func ActorOrDefault(ctx context.Context) string {
	if actor, ok := InjectActor(ctx); ok && actor != "" {
		return actor
	}
	return types.DEFAULT_ACTOR
}
