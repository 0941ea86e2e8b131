package tracker

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"slices"
	"strconv"
	"time"
)

const DefaultEchoSamples = 100

// TimeEcho is one round trip of the time echo protocol, in milliseconds.
type TimeEcho struct {
	RoundtripMS float64
	// OffsetMS is local clock minus device clock.
	OffsetMS float64
}

type Stats struct {
	Mean, Std, Median float64
}

func newStats(v []float64) Stats {
	if len(v) == 0 {
		return Stats{}
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	mean := sum / float64(len(v))
	var sq float64
	for _, x := range v {
		sq += (x - mean) * (x - mean)
	}
	sorted := slices.Clone(v)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return Stats{Mean: mean, Std: math.Sqrt(sq / float64(len(v))), Median: median}
}

type TimeEstimate struct {
	Samples   []TimeEcho
	Roundtrip Stats
	Offset    Stats
}

// OffsetNS is the median offset rounded to whole nanoseconds.
func (e TimeEstimate) OffsetNS() int64 {
	return int64(math.Round(e.Offset.Median * 1e6))
}

func nowMS() uint64 {
	return uint64(time.Now().UnixMilli())
}

// EstimateTimeOffset measures the clock offset to the device with n time
// echo round trips on the phone's echo port.
func (d *Device) EstimateTimeOffset(ctx context.Context, n int) (TimeEstimate, error) {
	addr := net.JoinHostPort(d.Address, strconv.Itoa(d.Phone.TimeEchoPort))
	return estimateTimeOffset(ctx, addr, n, nowMS)
}

func estimateTimeOffset(ctx context.Context, addr string, n int, clock func() uint64) (TimeEstimate, error) {
	if n <= 0 {
		n = DefaultEchoSamples
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return TimeEstimate{}, fmt.Errorf("time echo: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(RequestTimeout))
	}

	est := TimeEstimate{Samples: make([]TimeEcho, 0, n)}
	var req [8]byte
	var resp [16]byte
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return TimeEstimate{}, err
		}
		before := clock()
		binary.BigEndian.PutUint64(req[:], before)
		if _, err := conn.Write(req[:]); err != nil {
			return TimeEstimate{}, fmt.Errorf("time echo: %w", err)
		}
		if _, err := io.ReadFull(conn, resp[:]); err != nil {
			return TimeEstimate{}, fmt.Errorf("time echo: %w", err)
		}
		after := clock()

		if echoed := binary.BigEndian.Uint64(resp[:8]); echoed != before {
			return TimeEstimate{}, errors.New("time echo: device answered with a different timestamp")
		}
		device := binary.BigEndian.Uint64(resp[8:])
		est.Samples = append(est.Samples, TimeEcho{
			RoundtripMS: float64(after) - float64(before),
			OffsetMS:    (float64(before)+float64(after))/2 - float64(device),
		})
	}

	rt := make([]float64, len(est.Samples))
	off := make([]float64, len(est.Samples))
	for i, s := range est.Samples {
		rt[i], off[i] = s.RoundtripMS, s.OffsetMS
	}
	est.Roundtrip = newStats(rt)
	est.Offset = newStats(off)
	return est, nil
}
