package engine

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"gopkg.in/yaml.v3"

	"markerexp/marker"
	"markerexp/tracker"
)

// Color is an sdl.Color that reads "R,G,B" or "R,G,B,A" from YAML.
type Color sdl.Color

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseColor(n.Value)
	if err != nil {
		return err
	}
	*c = Color(parsed)
	return nil
}

type Config struct {
	Dummy              bool   `yaml:"dummy"`
	Address            string `yaml:"address"`
	Port               int    `yaml:"port"`
	MaxConnectAttempts int    `yaml:"max_connect_attempts"`
	EchoSamples        int    `yaml:"echo_samples"`

	StimuliDir   string `yaml:"stimuli_dir"`
	ImagePattern string `yaml:"image_pattern"`
	TrialsCSV    string `yaml:"trials_csv"`
	OutputFile   string `yaml:"output_file"`
	Seed         int64  `yaml:"seed"`

	Markers marker.Options `yaml:"markers"`

	ImageWidth      int           `yaml:"image_width"`
	ImageHeight     int           `yaml:"image_height"`
	FixationSize    int           `yaml:"fixation_size"`
	Fixation        time.Duration `yaml:"fixation"`
	ImageDuration   time.Duration `yaml:"image"`
	Blank           time.Duration `yaml:"blank"`
	RecordingWarmup time.Duration `yaml:"recording_warmup"`
	Instructions    string        `yaml:"instructions"`

	FontFile      string `yaml:"font_file"`
	FontSize      int    `yaml:"font_size"`
	ScreenWidth   int    `yaml:"screen_width"`
	ScreenHeight  int    `yaml:"screen_height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	BGColor       Color  `yaml:"bg_color"`
	TextColor     Color  `yaml:"text_color"`
	FixationColor Color  `yaml:"fixation_color"`

	DLPDevice string `yaml:"dlp_device"`
}

func DefaultConfig() *Config {
	markers := marker.DefaultOptions()
	markers.Count = 6
	return &Config{
		Port:               tracker.DefaultPort,
		MaxConnectAttempts: 5,
		EchoSamples:        tracker.DefaultEchoSamples,
		StimuliDir:         "stimuli",
		ImagePattern:       "*.jpg",
		OutputFile:         "events.csv",
		Markers:            markers,
		ImageWidth:         1200,
		ImageHeight:        800,
		FixationSize:       100,
		Fixation:           500 * time.Millisecond,
		ImageDuration:      4 * time.Second,
		Blank:              time.Second,
		RecordingWarmup:    5 * time.Second,
		Instructions:       "Press SPACE to begin the experiment",
		FontSize:           32,
		ScreenWidth:        1920,
		ScreenHeight:       1080,
		Fullscreen:         true,
		VSync:              true,
		BGColor:            Color{R: 128, G: 128, B: 128, A: 255},
		TextColor:          Color{R: 255, G: 255, B: 255, A: 255},
		FixationColor:      Color{R: 255, G: 255, B: 255, A: 255},
	}
}

// LoadFile overlays the YAML file at path onto cfg.
func (cfg *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ParseColor reads "R,G,B" or "R,G,B,A". Alpha defaults to 255.
func ParseColor(s string) (sdl.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return sdl.Color{}, fmt.Errorf("color %q: want R,G,B or R,G,B,A", s)
	}
	v := [4]uint8{255, 255, 255, 255}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return sdl.Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		v[i] = uint8(n)
	}
	return sdl.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}

const CacheFile = ".markerexp_cache"

// SaveCache remembers the connection settings for the next run. Dummy
// mode is a per-run choice and is not remembered.
func (cfg *Config) SaveCache(path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "address=%s\n", cfg.Address)
	fmt.Fprintf(&b, "port=%d\n", cfg.Port)
	fmt.Fprintf(&b, "stimuli_dir=%s\n", cfg.StimuliDir)
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// LoadCache restores settings written by SaveCache. A missing file is
// not an error.
func (cfg *Config) LoadCache(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)

		switch key {
		case "address":
			cfg.Address = val
		case "port":
			if p, err := strconv.Atoi(val); err == nil {
				cfg.Port = p
			}
		case "stimuli_dir":
			cfg.StimuliDir = val
		}
	}
}

// DefaultAddress guesses the start of the companion device address from
// this host's outbound IPv4 address, e.g. "192.168.". The user completes
// it in the connection dialog.
func DefaultAddress() string {
	ip, err := outboundIP()
	if err != nil {
		return ""
	}
	return addressPrefix(ip)
}

func addressPrefix(ip string) string {
	parts := strings.Split(ip, ".")
	if len(parts) >= 4 {
		return strings.Join(parts[:2], ".") + "."
	}
	return ip
}

// outboundIP asks the routing table for the local address used to reach
// the outside; nothing is sent.
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
