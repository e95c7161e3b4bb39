package errors

import (
	"errors"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
)

// Domain is the ErrorInfo domain attached to every ledger error.
const Domain = "splitchain"

// HandleError converts domain errors to Connect errors for client responses.
// The code and metadata travel as an ErrorInfo detail so clients can tell
// which precondition failed.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return connect.NewError(connect.CodeInternal, errors.New("an unexpected error occurred"))
	}

	connectErr := connect.NewError(appErr.Code.ConnectCode(), appErr)
	detail, detailErr := connect.NewErrorDetail(&errdetails.ErrorInfo{
		Reason:   string(appErr.Code),
		Domain:   Domain,
		Metadata: appErr.Metadata,
	})
	if detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

// FromConnect recovers the domain code and metadata from a Connect error
// produced by HandleError. Returns CodeUnknown when no ErrorInfo is attached.
func FromConnect(err error) (Code, map[string]string) {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return CodeUnknown, nil
	}
	for _, detail := range connectErr.Details() {
		msg, valueErr := detail.Value()
		if valueErr != nil {
			continue
		}
		if info, ok := msg.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return Code(info.GetReason()), info.GetMetadata()
		}
	}
	return CodeUnknown, nil
}
