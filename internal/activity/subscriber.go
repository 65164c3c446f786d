package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alraedsec/work-management/internal/core/events"
)

// Subscriber writes audit followups onto task trails in response to task
// events, so changes made by administrators leave a visible record.
type Subscriber struct {
	service *Service
	logger  *slog.Logger
}

func NewSubscriber(service *Service, logger *slog.Logger) *Subscriber {
	return &Subscriber{service: service, logger: logger}
}

// Register wires the subscriber onto the bus.
func (s *Subscriber) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeTaskPriorityChanged, s.handlePriorityChanged)
}

func (s *Subscriber) handlePriorityChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.TaskPriorityChangedEvent)
	if !ok {
		s.logger.Warn("unexpected event payload", "event_type", event.EventType())
		return nil
	}

	content := fmt.Sprintf("%sPriority changed from %s to %s", adminNotePrefix, e.OldPriority, e.NewPriority)
	if err := s.service.AddSystemNote(e.TaskID, e.ChangedBy, content); err != nil {
		return fmt.Errorf("recording priority audit note: %w", err)
	}

	s.logger.Info("priority audit note recorded", "task_id", e.TaskID, "changed_by", e.ChangedBy)
	return nil
}
