package utils

import (
	"context"

	"asset-system/internal/authz"
	"asset-system/pkg/contextkeys"
	apperrors "asset-system/pkg/errors"
)

// ActorToCtx stores the authenticated actor in the request context.
func ActorToCtx(ctx context.Context, actor authz.Actor) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

// ActorFromCtx returns the authenticated actor placed in the context by
// the auth middleware.
func ActorFromCtx(ctx context.Context) (authz.Actor, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(authz.Actor)
	if !ok {
		return authz.Actor{}, apperrors.ErrActorNotFoundInContext
	}
	return actor, nil
}
