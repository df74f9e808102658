package event

import (
	"encoding/json"
	"fmt"
	"time"

	"payhook/internal/shared/biztime"
)

// Event is a provider notification whose signature has already been checked.
// Construct one only through Parse, and only pass Parse bytes that the
// signature verifier accepted; nothing else in the system may build an Event
// from unverified input.
type Event struct {
	id       string
	typ      string
	created  time.Time
	livemode bool
	data     json.RawMessage
	raw      json.RawMessage
}

type eventEnvelope struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Created  int64  `json:"created"`
	Livemode bool   `json:"livemode"`
	Data     struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Parse decodes a verified payload into an Event. The payload must carry a
// non-empty id and type; anything else is a malformed notification.
func Parse(raw []byte) (*Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}
	if env.ID == "" {
		return nil, fmt.Errorf("event payload missing id")
	}
	if env.Type == "" {
		return nil, fmt.Errorf("event payload missing type")
	}

	created := biztime.NowUTC()
	if env.Created > 0 {
		created = biztime.FromUnix(env.Created)
	}

	rawCopy := make(json.RawMessage, len(raw))
	copy(rawCopy, raw)

	return &Event{
		id:       env.ID,
		typ:      env.Type,
		created:  created,
		livemode: env.Livemode,
		data:     env.Data.Object,
		raw:      rawCopy,
	}, nil
}

func (e *Event) ID() string {
	return e.id
}

func (e *Event) Type() string {
	return e.typ
}

func (e *Event) Created() time.Time {
	return e.created
}

func (e *Event) Livemode() bool {
	return e.livemode
}

// Data returns the event's data.object payload.
func (e *Event) Data() json.RawMessage {
	return e.data
}

// Raw returns the full verified payload bytes.
func (e *Event) Raw() json.RawMessage {
	return e.raw
}

// UnmarshalData decodes the event's data.object payload into target.
func (e *Event) UnmarshalData(target interface{}) error {
	if len(e.data) == 0 {
		return fmt.Errorf("event %s has no data object", e.id)
	}
	return json.Unmarshal(e.data, target)
}
