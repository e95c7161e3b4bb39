// Package auth issues and checks the identities that act on the ledger.
//
// A user's ID is the principal the ledger records as group member, payer and
// settlement party. The ledger itself never authenticates; the service layer
// resolves the principal from a token and passes it in.
package auth

import (
	"context"

	"github.com/mmynk/splitchain/internal/models"
)

// Authenticator registers accounts and verifies credentials.
type Authenticator interface {
	// Register creates an account and returns it. The credential format
	// depends on the implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user the credential belongs to, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
