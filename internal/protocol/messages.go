// Package protocol defines the network message types for client-server communication.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the type of message.
type MessageType string

// Map message types
const (
	TypeGenerateMap  MessageType = "generate_map"
	TypeMapGenerated MessageType = "map_generated"
	TypeGetMap       MessageType = "get_map"
	TypeMapData      MessageType = "map_data"
	TypeListMaps     MessageType = "list_maps"
	TypeMapList      MessageType = "map_list"
	TypeDeleteMap    MessageType = "delete_map"
	TypeMapDeleted   MessageType = "map_deleted"
)

// System message types
const (
	TypeWelcome MessageType = "welcome"
	TypeError   MessageType = "error"
	TypePing    MessageType = "ping"
	TypePong    MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// ParsePayload unmarshals the payload into the given type.
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// ErrorCode represents an error type.
type ErrorCode string

const (
	ErrCodeInvalidMessage ErrorCode = "invalid_message"
	ErrCodeInvalidParams  ErrorCode = "invalid_params"
	ErrCodeGeneration     ErrorCode = "generation_failed"
	ErrCodeMapNotFound    ErrorCode = "map_not_found"
	ErrCodeNoStorage      ErrorCode = "no_storage"
	ErrCodeInternalError  ErrorCode = "internal_error"
)

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
