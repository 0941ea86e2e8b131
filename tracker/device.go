// Package tracker talks to a Pupil Labs Neon companion device through its
// real-time HTTP API.
//
// A Device is obtained with Connect. Clock offsets between this host and
// the phone are measured with the time echo protocol (EstimateTimeOffset)
// and are used to stamp events in the device clock:
//
//	deviceNS := time.Now().UnixNano() - est.OffsetNS()
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"markerexp/logger"
)

const (
	DefaultPort         = 8080
	DefaultTimeEchoPort = 12321
	RequestTimeout      = 5 * time.Second
)

// APIError is returned for non-2xx responses of the companion device.
type APIError struct {
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Path, e.Status, e.Message)
}

type envelope struct {
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type component struct {
	Model string          `json:"model"`
	Data  json.RawMessage `json:"data"`
}

// Phone is the "Phone" component of the device status.
type Phone struct {
	DeviceID     string  `json:"device_id"`
	DeviceName   string  `json:"device_name"`
	IP           string  `json:"ip"`
	Port         int     `json:"port"`
	BatteryLevel float64 `json:"battery_level"`
	Memory       int64   `json:"memory"`
	TimeEchoPort int     `json:"time_echo_port"`
}

type Recording struct {
	ID string `json:"id"`
}

type Event struct {
	Name        string `json:"name"`
	RecordingID string `json:"recording_id,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

type Device struct {
	Address string
	Port    int
	Phone   Phone

	client    *resty.Client
	recording string
}

// Connect checks that a companion device answers at address:port and
// reads its status.
func Connect(ctx context.Context, address string, port int) (*Device, error) {
	if address == "" {
		return nil, fmt.Errorf("device address is empty")
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("device port %d out of range", port)
	}
	d := &Device{
		Address: address,
		Port:    port,
		client: resty.New().
			SetBaseURL("http://" + net.JoinHostPort(address, strconv.Itoa(port))).
			SetTimeout(RequestTimeout),
	}

	var components []component
	if err := d.do(ctx, resty.MethodGet, "/api/status", nil, &components); err != nil {
		d.Close()
		return nil, err
	}
	for _, c := range components {
		if c.Model != "Phone" {
			continue
		}
		if err := json.Unmarshal(c.Data, &d.Phone); err != nil {
			d.Close()
			return nil, fmt.Errorf("decode phone status: %w", err)
		}
	}
	if d.Phone.TimeEchoPort == 0 {
		d.Phone.TimeEchoPort = DefaultTimeEchoPort
	}
	logger.S().Infow("connected to companion device",
		"address", address, "port", port, "device", d.Phone.DeviceName)
	return d, nil
}

func (d *Device) do(ctx context.Context, method, path string, body, result any) error {
	var env envelope
	req := d.client.R().
		SetContext(ctx).
		SetResult(&env).
		SetError(&env)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &APIError{Path: path, Status: resp.StatusCode(), Message: env.Message}
	}
	if result != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, result); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}

// RecordingStart starts a recording and returns its id.
func (d *Device) RecordingStart(ctx context.Context) (string, error) {
	var rec Recording
	if err := d.do(ctx, resty.MethodPost, "/api/recording:start", nil, &rec); err != nil {
		return "", err
	}
	d.recording = rec.ID
	logger.S().Infow("recording started", "id", rec.ID)
	return rec.ID, nil
}

func (d *Device) RecordingStopAndSave(ctx context.Context) error {
	if err := d.do(ctx, resty.MethodPost, "/api/recording:stop_and_save", nil, nil); err != nil {
		return err
	}
	logger.S().Infow("recording saved", "id", d.recording)
	d.recording = ""
	return nil
}

func (d *Device) RecordingCancel(ctx context.Context) error {
	if err := d.do(ctx, resty.MethodPost, "/api/recording:cancel", nil, nil); err != nil {
		return err
	}
	d.recording = ""
	return nil
}

// SendEvent records a named event at timestampNS, given in the device
// clock (unix nanoseconds).
func (d *Device) SendEvent(ctx context.Context, name string, timestampNS int64) (Event, error) {
	var ev Event
	body := Event{Name: name, Timestamp: timestampNS}
	if err := d.do(ctx, resty.MethodPost, "/api/event", body, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (d *Device) Close() error {
	if d.client != nil {
		d.client.GetClient().CloseIdleConnections()
	}
	return nil
}
