package telegram

import (
	"ContinuingEducation/internal/core/ports"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// StaffNotifier posts admission lifecycle events to the staff channel where
// formation managers follow their files.
type StaffNotifier struct {
	bot       ports.BotClientPort
	channelID int64
	log       zerolog.Logger
}

// NewStaffNotifier creates a notifier posting to channelID.
func NewStaffNotifier(bot ports.BotClientPort, channelID int64, baseLogger *zerolog.Logger) *StaffNotifier {
	return &StaffNotifier{
		bot:       bot,
		channelID: channelID,
		log:       baseLogger.With().Str("component", "staff_notifier").Logger(),
	}
}

// Register subscribes the notifier to every admission topic.
func (n *StaffNotifier) Register(bus ports.EventBus) {
	bus.Subscribe(ports.TopicAdmissionSubmitted, n.Handle)
	bus.Subscribe(ports.TopicRegistrationSubmitted, n.Handle)
	bus.Subscribe(ports.TopicAdmissionDecided, n.Handle)
}

// Handle formats one event and sends it.
func (n *StaffNotifier) Handle(ctx context.Context, event ports.Event) error {
	payload, ok := event.Data.(ports.AdmissionEvent)
	if !ok {
		return fmt.Errorf("staff notifier: unexpected payload %T on %s", event.Data, event.Topic)
	}

	msg := n.format(event.Topic, payload)
	if err := n.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("staff notifier: %w", err)
	}
	n.log.Info().
		Str("topic", event.Topic).
		Str("admission_id", payload.AdmissionID.String()).
		Msg("Staff notified")
	return nil
}

func (n *StaffNotifier) format(topic string, e ports.AdmissionEvent) ports.SendMessageParams {
	b := newMessage(n.channelID)

	switch topic {
	case ports.TopicAdmissionSubmitted:
		b.line("New admission submitted")
	case ports.TopicRegistrationSubmitted:
		b.line("New registration submitted")
	default:
		b.line("Admission moved from %s to %s", e.From, e.To)
	}

	b.field("Applicant", e.Applicant)
	if e.Formation != nil {
		b.field("Formation", fmt.Sprintf("%s - %s", e.Formation.Acronym, e.Formation.Title))
		b.field("Managers", strings.Join(e.Formation.ManagerEmails(), ", "))
	}
	if e.Reason != nil {
		b.field("Reason", *e.Reason)
	}
	b.field("File", e.AdmissionID.String())

	return b.build()
}
