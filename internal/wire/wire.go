// Package wire defines the JSON admin protocol spoken between the client and
// broker admin endpoints: the request/response envelope, the operation names,
// per-operation payload shapes, and the remote error model with its
// retriability classification.
//
// The envelope carries an opaque payload so the orchestration engine can move
// requests around without understanding them; only the typed operation layer
// and the broker interpret payload bytes. Correlation IDs pair responses with
// requests across a connection; the broker must echo the ID it received.
package wire

import (
	"encoding/json"
	"fmt"
)

// Op names an admin operation on the wire.
type Op string

const (
	OpCreateTopic     Op = "create-topic"
	OpDeleteTopic     Op = "delete-topic"
	OpListTopics      Op = "list-topics"
	OpDescribeTopic   Op = "describe-topic"
	OpCreateACL       Op = "create-acl"
	OpDescribeACLs    Op = "describe-acls"
	OpDeleteACLs      Op = "delete-acls"
	OpDescribeConfigs Op = "describe-configs"
	OpAlterConfigs    Op = "alter-configs"
)

// Request is the client→broker envelope. TimeoutMs tells the broker how much
// of the call's deadline budget remains at send time so it can bound its own
// work; it is advisory and saturates rather than overflowing.
type Request struct {
	CorrelationID uint64          `json:"correlation_id"`
	ClientID      string          `json:"client_id"`
	Op            Op              `json:"op"`
	TimeoutMs     int32           `json:"timeout_ms"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// Response is the broker→client envelope. Exactly one of Error and Payload
// carries the outcome: a set Error means the operation failed remotely and
// Payload is absent or meaningless.
type Response struct {
	CorrelationID uint64          `json:"correlation_id"`
	Error         *Error          `json:"error,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// EncodeRequest marshals an envelope around the given payload value. A nil
// payload produces an envelope without a payload field (operations like
// list-topics need none).
func EncodeRequest(correlationID uint64, clientID string, op Op, timeoutMs int32, payload interface{}) ([]byte, error) {
	req := Request{
		CorrelationID: correlationID,
		ClientID:      clientID,
		Op:            op,
		TimeoutMs:     timeoutMs,
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", op, err)
		}
		req.Payload = raw
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
	}
	return data, nil
}

// DecodeRequest parses a request envelope. Used by the broker side (and the
// in-process test broker) to dispatch on Op before touching the payload.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode request envelope: %w", err)
	}
	if req.Op == "" {
		return nil, fmt.Errorf("request envelope missing op")
	}
	return &req, nil
}

// DecodePayload unmarshals an envelope payload into the operation's typed
// shape. Callers pass the payload field of a decoded envelope.
func DecodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("payload is empty")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// EncodeResponse marshals a response envelope. Exactly one of wireErr and
// payload should be set; passing both keeps the error and drops the payload
// so a failed operation can never look half-successful.
func EncodeResponse(correlationID uint64, wireErr *Error, payload interface{}) ([]byte, error) {
	resp := Response{
		CorrelationID: correlationID,
		Error:         wireErr,
	}

	if wireErr == nil && payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response payload: %w", err)
		}
		resp.Payload = raw
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return data, nil
}

// DecodeResponse parses a response envelope. The caller is responsible for
// checking that the correlation ID matches the request it paired the bytes
// with; a mismatch is a protocol violation, not a retriable condition.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	return &resp, nil
}
