package ports

import (
	"ContinuingEducation/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// Topics published by the admission service.
const (
	TopicAdmissionSubmitted    = "admission:submitted"
	TopicRegistrationSubmitted = "registration:submitted"
	TopicAdmissionDecided      = "admission:decided"
)

// AdmissionEvent is the payload of every admission topic.
type AdmissionEvent struct {
	AdmissionID uuid.UUID
	PersonID    uuid.UUID
	From        domain.AdmissionState
	To          domain.AdmissionState
	Reason      *string
	Applicant   string
	Formation   *domain.Formation // Nil when the formation could not be resolved
}

// Event is a generic wrapper for any event payload
type Event struct {
	Topic string
	Data  interface{}
}

// EventHandler is a function that can handle a specific event
type EventHandler func(ctx context.Context, event Event) error

// EventBus defines the interface for our in-process pub/sub system
type EventBus interface {
	// Publish sends an event to all subscribers of a topic
	Publish(ctx context.Context, topic string, data interface{}) error

	// Subscribe registers a handler for a specific topic
	Subscribe(topic string, handler EventHandler)

	// Wait blocks until every handler started so far has returned.
	Wait()
}
