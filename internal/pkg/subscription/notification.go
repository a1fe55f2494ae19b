package subscription

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedNotification marks payloads the webhook endpoint rejects
// with a 400 before any state is touched.
var ErrMalformedNotification = errors.New("malformed provider notification")

type notificationPayload struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Topic  string `json:"topic"`
	Data   struct {
		ID json.Number `json:"id"`
	} `json:"data"`
	ID json.Number `json:"id"`
}

// ParseNotification extracts the event kind and resource id from a raw
// Mercado Pago webhook body. The kind comes from whichever of type,
// topic or action is present; the resource id from data.id or the
// top-level id.
func ParseNotification(raw []byte) (ProviderEventInput, error) {
	var payload notificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ProviderEventInput{}, ErrMalformedNotification
	}

	kind := strings.TrimSpace(payload.Type)
	if kind == "" {
		kind = strings.TrimSpace(payload.Topic)
	}
	if kind == "" {
		kind = strings.TrimSpace(payload.Action)
	}

	id := strings.TrimSpace(payload.Data.ID.String())
	if id == "" {
		id = strings.TrimSpace(payload.ID.String())
	}

	if kind == "" || id == "" {
		return ProviderEventInput{}, ErrMalformedNotification
	}
	return ProviderEventInput{Kind: kind, ResourceID: id}, nil
}
