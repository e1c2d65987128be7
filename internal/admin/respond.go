package admin

import (
	"encoding/json"
	"fmt"

	"github.com/meridian-dev/meridian/internal/wire"
)

// buildRequest returns a build closure that encodes the wire envelope for op
// around payload, stamping in the client ID and the remaining deadline
// budget at send time. payload may be nil for operations that carry none.
func (c *Client) buildRequest(op wire.Op, payload interface{}) func(id uint64, remaining int32) ([]byte, error) {
	return func(id uint64, remaining int32) ([]byte, error) {
		return wire.EncodeRequest(id, c.clientID, op, remaining, payload)
	}
}

// handleResponse builds a call's response handler: decode the envelope,
// verify the correlation id, surface remote errors into the engine's
// retry/fail classification, then decode the payload and resolve the typed
// future. Success is the only path the typed layer resolves itself; every
// failure flows back through the engine's failure hook.
func handleResponse[T any](fut *Future[T], decode func(json.RawMessage) (T, error)) func(id uint64, body []byte) error {
	return func(id uint64, body []byte) error {
		resp, err := wire.DecodeResponse(body)
		if err != nil {
			return err
		}
		if resp.CorrelationID != id {
			return fmt.Errorf("correlation id mismatch: sent %d, received %d", id, resp.CorrelationID)
		}
		if resp.Error != nil {
			return resp.Error
		}

		v, err := decode(resp.Payload)
		if err != nil {
			return err
		}
		fut.complete(v)
		return nil
	}
}

// voidDecode ignores the payload for operations whose success carries no
// data.
func voidDecode(json.RawMessage) (struct{}, error) {
	return struct{}{}, nil
}
