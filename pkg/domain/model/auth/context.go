package auth

import "context"

type contextKey struct{}

var tokenContextKey = contextKey{}

// ContextWithToken returns a context carrying the authenticated token
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext extracts the authenticated token from the context
func TokenFromContext(ctx context.Context) (*Token, bool) {
	token, ok := ctx.Value(tokenContextKey).(*Token)
	return token, ok
}
