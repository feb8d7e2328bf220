package protocol

import (
	"errors"
	"strings"
)

// EventKind classifies replies the controller sends without being asked
type EventKind uint8

const (
	EventNone EventKind = iota
	EventButton
	EventTrigger
)

// Spontaneous event texts. Both start with a space so they never collide with
// an echoed command character.
const (
	ButtonEventText  = " Button 1 pushed at "
	TriggerEventText = " External TTL detected at "
)

// ErrEmptyResponse is returned for a reply that carries no text
var ErrEmptyResponse = errors.New("empty response")

// Response is one LineEnd terminated reply, as seen by the host
type Response struct {
	Command      byte // echoed command character, 0 for events
	Event        EventKind
	Text         string // reply body without echo, leading ": " and timestamp
	Timestamp    Timestamp
	HasTimestamp bool
	Raw          string
}

// ParseResponse splits a reply into its echoed command, text and trailing
// timestamp. raw may still carry the LineEnd terminator.
func ParseResponse(raw string) (Response, error) {
	body := strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(body) == "" {
		return Response{}, ErrEmptyResponse
	}
	resp := Response{Raw: raw}

	switch {
	case strings.HasPrefix(body, ButtonEventText[:len(ButtonEventText)-4]):
		resp.Event = EventButton
	case strings.HasPrefix(body, TriggerEventText[:len(TriggerEventText)-4]):
		resp.Event = EventTrigger
	default:
		resp.Command = body[0]
		body = body[1:]
	}

	if idx := strings.LastIndex(body, " at "); idx >= 0 {
		if ts, err := ParseTimestamp(strings.TrimSpace(body[idx+4:])); err == nil {
			resp.Timestamp = ts
			resp.HasTimestamp = true
			body = body[:idx]
		}
	}

	body = strings.TrimPrefix(strings.TrimSpace(body), ":")
	resp.Text = strings.TrimSpace(body)
	return resp, nil
}

// LastLine returns the final non-empty line of a multi-line reply
func (r Response) LastLine() string {
	lines := strings.Split(strings.TrimRight(r.Raw, "\r\n"), NewLine)
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
