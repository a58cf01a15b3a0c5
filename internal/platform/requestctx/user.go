package requestctx

import "context"

// principalContextKey is the context key for the authenticated principal.
type principalContextKey struct{}

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// WithPrincipal stores the authenticated principal in context.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext returns the principal stored in context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	value, ok := ctx.Value(principalContextKey{}).(Principal)
	return value, ok
}

// WithUserID stores a user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	principal, _ := PrincipalFromContext(ctx)
	principal.UserID = userID
	return WithPrincipal(ctx, principal)
}

// UserIDFromContext returns the user identifier stored in context.
func UserIDFromContext(ctx context.Context) string {
	principal, _ := PrincipalFromContext(ctx)
	return principal.UserID
}
