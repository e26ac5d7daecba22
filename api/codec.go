// Package api declares the wire contract of the teamchat gRPC services.
// Messages are plain Go structs encoded as JSON; the codec is registered
// under the "json" content subtype, so clients must call with
// grpc.CallContentSubtype(CodecName).
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const CodecName = "json"

type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(Codec{})
}
