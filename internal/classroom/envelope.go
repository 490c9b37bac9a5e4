// Package classroom defines the wire envelope exchanged over classroom
// connections and the codec that moves it to and from JSON.
package classroom

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound event types accepted from clients.
const (
	EventRaiseHand       = "raise_hand"
	EventLowerHand       = "lower_hand"
	EventAcknowledgeHand = "acknowledge_hand"
	EventSendMessage     = "send_message"
	EventPing            = "ping"
)

// Outbound event types delivered to clients.
const (
	EventConnectionEstablished = "connection_established"
	EventHandRaised            = "hand_raised"
	EventHandLowered           = "hand_lowered"
	EventHandAcknowledged      = "hand_acknowledged"
	EventChatMessage           = "chat_message"
	EventPong                  = "pong"
	EventError                 = "error"
)

// Reasons carried by hand_lowered envelopes.
const (
	ReasonDisconnected = "disconnected"
	ReasonSelfLowered  = "self_lowered"
	ReasonUnknown      = "unknown"
)

// ErrInvalidPayload reports an inbound frame that is not a usable envelope:
// either not valid JSON or missing the type tag.
var ErrInvalidPayload = errors.New("invalid message payload")

// Envelope is a single typed event on the wire. The Type tag selects the
// variant; the remaining fields are populated per variant and omitted
// otherwise. Envelopes are treated as immutable once constructed.
type Envelope struct {
	Type           string `json:"type"`
	Message        string `json:"message,omitempty"`
	Username       string `json:"username,omitempty"`
	Student        string `json:"student,omitempty"`
	Reason         string `json:"reason,omitempty"`
	AcknowledgedBy string `json:"acknowledged_by,omitempty"`
	Sender         string `json:"sender,omitempty"`
	SenderType     string `json:"sender_type,omitempty"`
}

// Decode parses a raw inbound frame into an Envelope. Frames that are not
// valid JSON, or that carry no type tag at all, yield an error wrapping
// ErrInvalidPayload; the caller answers those with an error envelope sent to
// the originating session only. An unrecognized type value is not an error
// here: the router ignores it, which keeps older servers tolerant of newer
// clients.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type tag", ErrInvalidPayload)
	}
	return env, nil
}

// Encode serializes an Envelope for delivery. Encoding cannot fail for
// envelopes built through the constructors below; the error return exists so
// callers can log-and-skip rather than panic if that ever changes.
func Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// NewConnectionEstablished confirms a successful join to the connecting
// session itself. Never broadcast.
func NewConnectionEstablished(room, username string) Envelope {
	return Envelope{
		Type:     EventConnectionEstablished,
		Message:  fmt.Sprintf("Connected to room: %s", room),
		Username: username,
	}
}

// NewHandRaised announces that a student's hand is up.
func NewHandRaised(student string) Envelope {
	return Envelope{Type: EventHandRaised, Student: student}
}

// NewHandLowered announces that a student's hand is down. An empty reason is
// normalized to "unknown" so the wire contract always carries one of the
// three reason values.
func NewHandLowered(student, reason string) Envelope {
	if reason == "" {
		reason = ReasonUnknown
	}
	return Envelope{Type: EventHandLowered, Student: student, Reason: reason}
}

// NewHandAcknowledged tells the room that a teacher has seen a raised hand.
func NewHandAcknowledged(student, acknowledgedBy string) Envelope {
	return Envelope{Type: EventHandAcknowledged, Student: student, AcknowledgedBy: acknowledgedBy}
}

// NewChatMessage carries a chat line from a student or teacher.
func NewChatMessage(message, sender, senderType string) Envelope {
	return Envelope{Type: EventChatMessage, Message: message, Sender: sender, SenderType: senderType}
}

// NewPong answers a keep-alive ping. Sent to the pinging session only.
func NewPong() Envelope {
	return Envelope{Type: EventPong}
}

// NewDecodeError is the reply for an unparseable inbound frame. The message
// text is part of the wire contract.
func NewDecodeError() Envelope {
	return Envelope{Type: EventError, Message: "Invalid JSON format"}
}
