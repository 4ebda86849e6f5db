// Package identity carries the caller identity resolved by the session
// layer. The engine never authenticates; it only consumes what the
// surrounding application resolved once per request.
package identity

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// ActorKind distinguishes the two sides of the marketplace.
type ActorKind string

const (
	ActorKindProvider ActorKind = "provider"
	ActorKindClient   ActorKind = "client"
)

// Actor is the resolved caller: kind, id and display name in one place,
// resolved once instead of re-derived per screen.
type Actor struct {
	Kind ActorKind
	ID   snowflake.ID
	Name string
}

// Anonymous reports whether the actor carries no identity. Anonymous
// browsing is unmetered.
func (a Actor) Anonymous() bool {
	return a.ID == 0
}

type actorKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
