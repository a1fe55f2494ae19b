package subscription

import "time"

// Outcome classifies the result of applying an inbound provider event.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// OverrideInput carries an administrative override request.
// A nil Status clears the override.
type OverrideInput struct {
	Status *string
	Until  *time.Time
	Reason string
}

// ProviderEventInput is a parsed webhook notification: the raw event kind
// (type/topic/action value) and the provider-side resource id it points at.
type ProviderEventInput struct {
	Kind       string
	ResourceID string
}

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	ProviderEventID string
	EventType       string
	ResourceID      string
	PayloadJSON     string
}
