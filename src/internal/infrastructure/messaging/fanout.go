package messaging

import (
	"errors"

	"github.com/jackyeh168/green_events/src/internal/domain/shared"
)

// FanoutPublisher 將事件送到所有 sink，任一失敗不影響其他 sink
type FanoutPublisher struct {
	sinks []shared.EventPublisher
}

// NewFanoutPublisher nil sink 會被略過
func NewFanoutPublisher(sinks ...shared.EventPublisher) *FanoutPublisher {
	f := &FanoutPublisher{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *FanoutPublisher) Publish(event shared.DomainEvent) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *FanoutPublisher) PublishBatch(events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	var errs []error
	for _, s := range f.sinks {
		if err := s.PublishBatch(events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
