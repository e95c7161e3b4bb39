package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceName is the fully-qualified name of the AuthService.
const AuthServiceName = "splitchain.v1.AuthService"

// Procedure paths, "/" + service + "/" + method.
const (
	AuthServiceRegisterProcedure = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure    = "/" + AuthServiceName + "/Login"
)

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for every AuthService procedure. It
// returns the path to mount the handler on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		AuthServiceRegisterProcedure: connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:    connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
	}
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// AuthServiceClient is a client for AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
}

// NewAuthServiceClient constructs a client for AuthService. baseURL is the server's
// scheme and host, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register: connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:    connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
	}
}

type authServiceClient struct {
	register *connect.Client[RegisterRequest, RegisterResponse]
	login    *connect.Client[LoginRequest, LoginResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
