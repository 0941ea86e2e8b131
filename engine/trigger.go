package engine

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"markerexp/logger"
)

// Trigger lines per event on the DLP-IO8-G box.
var DefaultTriggerLines = map[string]string{
	"fixation": "1",
	"image":    "2",
}

const PulseWidth = 5 * time.Millisecond

type DLPIO8G struct {
	port  io.ReadWriteCloser
	Lines map[string]string
}

func NewDLPIO8G(device string, baudrate int) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	d, err := newDLPIO8G(port)
	if err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func newDLPIO8G(port io.ReadWriteCloser) (*DLPIO8G, error) {
	d := &DLPIO8G{port: port, Lines: DefaultTriggerLines}
	if !d.Ping() {
		return nil, fmt.Errorf("device did not respond to ping correctly")
	}
	// Binary mode
	if _, err := port.Write([]byte{0x5C}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DLPIO8G) Close() {
	if d.port != nil {
		d.port.Close()
	}
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{0x27}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == 'Q'
}

func (d *DLPIO8G) Set(lines string) {
	if _, err := d.port.Write([]byte(lines)); err != nil {
		logger.S().Warnw("dlp set", "lines", lines, "error", err)
	}
}

// unsetKeys maps a line number to the command clearing it.
var unsetKeys = map[byte]byte{
	'1': 'Q', '2': 'W', '3': 'E', '4': 'R',
	'5': 'T', '6': 'Y', '7': 'U', '8': 'I',
}

func (d *DLPIO8G) Unset(lines string) {
	cmd := []byte(lines)
	for i := range cmd {
		if k, ok := unsetKeys[cmd[i]]; ok {
			cmd[i] = k
		}
	}
	if _, err := d.port.Write(cmd); err != nil {
		logger.S().Warnw("dlp unset", "lines", lines, "error", err)
	}
}

// Pulse raises the line mapped to event for PulseWidth. Unmapped events
// are ignored.
func (d *DLPIO8G) Pulse(event string) {
	lines, ok := d.Lines[event]
	if !ok {
		return
	}
	d.Set(lines)
	time.Sleep(PulseWidth)
	d.Unset(lines)
}
