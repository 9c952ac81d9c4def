package domain

import (
	"dreamweaver/errors"
	"encoding/json"
	"fmt"
)

const (
	// Version is stamped on every event forwarded by the host, whatever the original version was.
	Version = "0.0.1"
	// HandshakeEventName is the boundary message a participant sends once, with its channel endpoint.
	HandshakeEventName = "client:loaded"
)

// Event is the unit exchanged between participants.
// Name is the identity of the event, Version is informational only.
type Event struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Data    any    `json:"data"`
}

func NewEvent(name string, data any) Event {
	return Event{Name: name, Version: Version, Data: data}
}

// HandshakeData is the payload of the handshake event.
type HandshakeData struct {
	Origin string `json:"origin"`
}

func NewHandshake(origin string) Event {
	return NewEvent(HandshakeEventName, HandshakeData{Origin: origin})
}

// Clone returns a copy of the event whose data shares nothing with the receiver.
// Data is normalised to JSON values (objects, arrays, numbers as float64, strings, booleans, nil).
func (e Event) Clone() (Event, error) {
	if e.Data == nil {
		return e, nil
	}
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", errors.ErrNotTransferable, e.Name, err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return Event{}, fmt.Errorf("%w: %s: %v", errors.ErrNotTransferable, e.Name, err)
	}
	e.Data = data
	return e, nil
}

// OriginOf extracts the participant origin from a handshake event.
// The data is accepted either as HandshakeData or in its cloned map form.
func OriginOf(e Event) (string, error) {
	if e.Name != HandshakeEventName {
		return "", fmt.Errorf("%w: unexpected event %q", errors.ErrInvalidHandshake, e.Name)
	}
	var origin string
	switch data := e.Data.(type) {
	case HandshakeData:
		origin = data.Origin
	case *HandshakeData:
		if data != nil {
			origin = data.Origin
		}
	case map[string]any:
		origin, _ = data["origin"].(string)
	}
	if origin == "" {
		return "", fmt.Errorf("%w: missing origin", errors.ErrInvalidHandshake)
	}
	return origin, nil
}
