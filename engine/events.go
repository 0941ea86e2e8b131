package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"markerexp/logger"
	"markerexp/tracker"
)

// Tracker is the eye tracker as driven by an experiment run.
// *tracker.Device implements it.
type Tracker interface {
	RecordingStart(ctx context.Context) (string, error)
	RecordingStopAndSave(ctx context.Context) error
	SendEvent(ctx context.Context, name string, timestampNS int64) (tracker.Event, error)
	Close() error
}

// Trigger emits a hardware pulse for an event.
type Trigger interface {
	Pulse(event string)
	Close()
}

// EventSender stamps events in the tracker clock and forwards them to the
// tracker and the optional trigger box. A nil Tracker is dummy mode: events
// are only logged.
type EventSender struct {
	Tracker  Tracker
	OffsetNS int64
	Trigger  Trigger
	Log      *EventLog
	Now      func() time.Time
}

func (s *EventSender) Send(ctx context.Context, name string) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	local := now().UnixNano()
	device := local - s.OffsetNS

	if s.Trigger != nil {
		s.Trigger.Pulse(name)
	}
	if s.Tracker == nil {
		s.log(name, local, device, false)
		return nil
	}
	if _, err := s.Tracker.SendEvent(ctx, name, device); err != nil {
		s.log(name, local, device, false)
		return err
	}
	s.log(name, local, device, true)
	return nil
}

func (s *EventSender) log(name string, local, device int64, sent bool) {
	if s.Log != nil {
		s.Log.Log(name, local, device, sent)
	}
	logger.Log().Debug("event",
		zap.String("name", name), zap.Int64("device_ns", device), zap.Bool("sent", sent))
}
