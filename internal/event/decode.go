package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNilPayload = errors.New("nil event payload")

// DecodePayload returns an event payload as T. Events published in-process carry the
// payload struct (or a pointer to it); events replayed from the dead-letter file carry
// whatever encoding/json produced, so those take a JSON round trip.
func DecodePayload[T any](payload any) (T, error) {
	var out T
	switch v := payload.(type) {
	case nil:
		return out, errNilPayload
	case T:
		return v, nil
	case *T:
		if v == nil {
			return out, errNilPayload
		}
		return *v, nil
	case json.RawMessage:
		return out, unmarshalPayload(v, &out)
	case []byte:
		return out, unmarshalPayload(v, &out)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("failed to re-encode %T payload: %w", payload, err)
	}
	return out, unmarshalPayload(data, &out)
}

func unmarshalPayload(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %T payload: %w", out, err)
	}
	return nil
}
