// Package middleware holds the Connect interceptors shared by the services.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitchain/internal/auth"
)

type contextKey string

const (
	// PrincipalKey is the context key for the authenticated principal.
	PrincipalKey contextKey = "principal"
	// EmailKey is the context key for the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetPrincipal returns the authenticated principal, or "" if there is none.
func GetPrincipal(ctx context.Context) string {
	principal, _ := ctx.Value(PrincipalKey).(string)
	return principal
}

// GetEmail returns the authenticated user's email, or "".
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithPrincipal returns ctx carrying the given principal.
func WithPrincipal(ctx context.Context, principal, email string) context.Context {
	ctx = context.WithValue(ctx, PrincipalKey, principal)
	return context.WithValue(ctx, EmailKey, email)
}

type authInterceptor struct {
	jwtManager *auth.JWTManager
}

// RequireAuth rejects calls without a valid bearer token and puts the token's
// principal in the context. It covers unary and server-streaming handlers.
func RequireAuth(jwtManager *auth.JWTManager) connect.Interceptor {
	return &authInterceptor{jwtManager: jwtManager}
}

func (i *authInterceptor) authenticate(ctx context.Context, header http.Header) (context.Context, error) {
	authHeader := header.Get("Authorization")
	if authHeader == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	claims, err := i.jwtManager.Validate(token)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return WithPrincipal(ctx, claims.Principal(), claims.Email), nil
}

func (i *authInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx, err := i.authenticate(ctx, req.Header())
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i *authInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *authInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := i.authenticate(ctx, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}
