package webhook

import (
	"encoding/json"
	"fmt"
)

// EventTypePaymentIntentSucceeded is the only event type this service records.
const EventTypePaymentIntentSucceeded = "payment_intent.succeeded"

// PaymentIntent is the nested processor object carried by payment events.
// Amount is in minor currency units.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Event is the decoded webhook envelope. Type values outside the set this
// service acts on are not an error; they decode fine and are ignored by the
// handler.
type Event struct {
	Type string `json:"type"`
	Data struct {
		Object PaymentIntent `json:"object"`
	} `json:"data"`
}

// DecodeError reports a payload that passed signature verification but does
// not decode into a usable event.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("webhook: %s: %v", e.Reason, e.Err)
	}
	return "webhook: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeEvent parses verified raw bytes into an Event. Required nested fields
// are enforced only for event types this service acts on.
func DecodeEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, &DecodeError{Reason: "malformed event payload", Err: err}
	}
	if ev.Type == "" {
		return Event{}, &DecodeError{Reason: "missing event type"}
	}

	if ev.Type == EventTypePaymentIntentSucceeded {
		obj := ev.Data.Object
		switch {
		case obj.ID == "":
			return Event{}, &DecodeError{Reason: "payment intent id missing"}
		case obj.Amount <= 0:
			return Event{}, &DecodeError{Reason: "payment intent amount missing"}
		case obj.Currency == "":
			return Event{}, &DecodeError{Reason: "payment intent currency missing"}
		case obj.Status == "":
			return Event{}, &DecodeError{Reason: "payment intent status missing"}
		}
	}

	return ev, nil
}
