// Package api defines the splitchain wire messages and the Connect handlers
// and clients for LedgerService and AuthService. Messages travel as JSON.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec replaces Connect's protojson codec so plain Go structs can be sent.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (jsonCodec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}
