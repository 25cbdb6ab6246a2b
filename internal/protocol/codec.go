// Package protocol defines the JSON messages exchanged with browser sessions.
// Every frame is an Envelope whose payload is decoded by message type.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyFrame is returned for zero-length frames.
var ErrEmptyFrame = errors.New("protocol: empty frame")

// Envelope is the outer shape of every frame.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // raw payload bytes
}

// Encode wraps payload in an envelope of type t.
func Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, errors.New("protocol: encode without message type")
	}
	if payload == nil {
		return nil, fmt.Errorf("protocol: encode %q with nil payload", t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %q: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, P: pb})
}

// DecodeEnvelope parses the outer frame. The payload is left raw.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, errors.New("protocol: envelope without message type")
	}
	return e, nil
}

// DecodePayload unmarshals the envelope payload into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("protocol: empty payload for type %q", env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("protocol: decode %q payload: %w", env.T, err)
	}
	return out, nil
}
