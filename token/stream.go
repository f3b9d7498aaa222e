package token

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// StreamVersion identifies the layout of encoded token streams.
const StreamVersion = 1

// Stream is the on-disk form of a tokenized source file.
type Stream struct {
	Version int     `cbor:"version"`
	Source  string  `cbor:"source"`
	Tokens  []Token `cbor:"tokens"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("token: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalStream serializes the tokens of source to CBOR bytes.
func MarshalStream(source string, tokens []Token) ([]byte, error) {
	return cborEncMode.Marshal(&Stream{
		Version: StreamVersion,
		Source:  source,
		Tokens:  tokens,
	})
}

// UnmarshalStream deserializes a token stream from CBOR bytes.
func UnmarshalStream(data []byte) (*Stream, error) {
	var s Stream
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("token: unmarshal stream: %w", err)
	}
	if s.Version != StreamVersion {
		return nil, fmt.Errorf("token: unsupported stream version %d", s.Version)
	}
	return &s, nil
}
