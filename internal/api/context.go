package api

import (
	"context"

	"github.com/oneiros-project/oneiros/internal/brain"
	"github.com/oneiros-project/oneiros/internal/model"
)

type ctxKey int

const brainCtxKey ctxKey = iota

// authContext carries the resolved brain connection and bound claims
// for an authenticated request.
type authContext struct {
	Store  *brain.Store
	Claims model.TokenClaims
}

func withAuth(ctx context.Context, ac *authContext) context.Context {
	return context.WithValue(ctx, brainCtxKey, ac)
}

func authFromContext(ctx context.Context) (*authContext, bool) {
	ac, ok := ctx.Value(brainCtxKey).(*authContext)
	return ac, ok
}
