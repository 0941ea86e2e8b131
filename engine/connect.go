package engine

import (
	"context"
	"errors"
	"fmt"

	"markerexp/logger"
	"markerexp/tracker"
)

// ErrCancelled is returned when the operator backs out of the connection
// dialog.
var ErrCancelled = errors.New("cancelled by user")

// ConnectFunc opens the tracker and measures its clock offset.
type ConnectFunc func(ctx context.Context, address string, port, samples int) (Tracker, int64, error)

// ConnectTracker connects to a companion device and estimates the offset
// between the local clock and the device clock.
func ConnectTracker(ctx context.Context, address string, port, samples int) (Tracker, int64, error) {
	dev, err := tracker.Connect(ctx, address, port)
	if err != nil {
		return nil, 0, err
	}
	est, err := dev.EstimateTimeOffset(ctx, samples)
	if err != nil {
		dev.Close()
		return nil, 0, fmt.Errorf("estimate time offset: %w", err)
	}
	logger.S().Infow("time offset estimated",
		"samples", est.Samples,
		"offset_ms", est.Offset.Median,
		"offset_std_ms", est.Offset.Std,
		"roundtrip_ms", est.Roundtrip.Median,
	)
	return dev, est.OffsetNS(), nil
}

// connectLoop asks for an address and tries to connect, at most
// cfg.MaxConnectAttempts times. The accepted address and port are written
// back to cfg.
func connectLoop(ctx context.Context, cfg *Config, dlg Dialogs, connect ConnectFunc) (Tracker, int64, error) {
	attempts := max(cfg.MaxConnectAttempts, 1)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		address, port, ok := dlg.AskConnection(cfg.Address, cfg.Port)
		if !ok {
			return nil, 0, ErrCancelled
		}
		cfg.Address, cfg.Port = address, port

		dev, offset, err := connect(ctx, address, port, cfg.EchoSamples)
		if err == nil {
			logger.S().Infow("connected", "address", address, "port", port, "attempt", i)
			return dev, offset, nil
		}
		lastErr = err
		logger.S().Warnw("connection failed", "address", address, "port", port, "attempt", i, "error", err)
		dlg.ShowMessage("Failed to connect to Pupil Labs. Please try again.\n\n" + err.Error())
	}
	return nil, 0, fmt.Errorf("no connection after %d attempts: %w", attempts, lastErr)
}
