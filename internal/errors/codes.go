// Package errors provides the ledger's machine-readable error kinds.
package errors

import "connectrpc.com/connect"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an error that did not come from the ledger.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidInput covers empty names, non-positive amounts and malformed splits.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeNotFound covers unknown group or expense references.
	CodeNotFound Code = "NOT_FOUND"

	// CodeUnauthorized is a non-member calling a member-only operation.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeInsufficientFunds is a settlement larger than the payer's wallet.
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
)

// ConnectCode maps domain codes to Connect status codes.
func (c Code) ConnectCode() connect.Code {
	switch c {
	case CodeInvalidInput:
		return connect.CodeInvalidArgument
	case CodeNotFound:
		return connect.CodeNotFound
	case CodeUnauthorized:
		// The caller is authenticated; it just isn't a member.
		return connect.CodePermissionDenied
	case CodeInsufficientFunds:
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}
