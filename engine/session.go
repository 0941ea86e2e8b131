package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"markerexp/logger"
)

type closer interface {
	Close() error
}

// session owns everything a run acquires. Close releases it in order:
// stop and save the recording, close the tracker, the trigger box and the
// window, then write the event log.
type session struct {
	ctx       context.Context
	tracker   Tracker
	recording bool
	trigger   Trigger
	window    closer
	log       *EventLog
	output    string
	closed    bool
}

func newSession(ctx context.Context, output string) *session {
	return &session{
		ctx:    ctx,
		log:    &EventLog{RunID: uuid.NewString()},
		output: output,
	}
}

func (s *session) startRecording() error {
	if s.tracker == nil {
		return nil
	}
	if _, err := s.tracker.RecordingStart(s.ctx); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	s.recording = true
	return nil
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	// The run context may already be cancelled; teardown still has to
	// reach the device.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 10*time.Second)
	defer cancel()

	var errs []error
	if s.tracker != nil {
		if s.recording {
			if err := s.tracker.RecordingStopAndSave(ctx); err != nil {
				errs = append(errs, fmt.Errorf("stop recording: %w", err))
			}
			s.recording = false
		}
		if err := s.tracker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close tracker: %w", err))
		}
	}
	if s.trigger != nil {
		s.trigger.Close()
	}
	if s.window != nil {
		if err := s.window.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close window: %w", err))
		}
	}
	if s.output != "" && len(s.log.Entries) > 0 {
		name := OutputName(s.output, s.log.RunID, time.Now())
		if err := s.log.Save(name); err != nil {
			errs = append(errs, fmt.Errorf("save event log: %w", err))
		} else {
			logger.S().Infow("event log saved", "path", name, "events", len(s.log.Entries))
		}
	}
	return errors.Join(errs...)
}
