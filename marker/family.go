// Package marker turns a fiducial marker family name into bitmaps placed
// around the edges of a window.
//
// Families are either AprilTag literals ("36h11"), the original ArUco
// dictionary ("aruco_original") or ArUco "{N}x{N}_{M}" names ("6x6_250").
// Bitmap synthesis itself is delegated to a Backend.
package marker

import (
	"fmt"
	"image"
	"regexp"
	"slices"
	"strings"
)

type Taxonomy int

const (
	April Taxonomy = iota
	Aruco
)

func (t Taxonomy) String() string {
	switch t {
	case April:
		return "april"
	case Aruco:
		return "aruco"
	}
	return fmt.Sprintf("Taxonomy(%d)", int(t))
}

var (
	AprilTagFamilies = []string{"16h5", "25h9", "36h10", "36h11"}
	ArucoSizes       = []string{"4x4", "5x5", "6x6", "7x7"}
	ArucoNumbers     = []string{"50", "100", "250", "1000"}
)

const ArucoOriginal = "aruco_original"

// Dictionary is a predefined marker dictionary handed out by a Backend.
type Dictionary interface {
	Name() string
	// Len is the number of distinct marker ids in the dictionary.
	Len() int
}

// Backend synthesizes marker images.
type Backend interface {
	PredefinedDictionary(name string) (Dictionary, error)
	// GenerateImageMarker returns a sidePixels x sidePixels image where
	// black modules are 0 and white modules are 255.
	GenerateImageMarker(dict Dictionary, id, sidePixels int) (*image.Gray, error)
}

// InvalidFamilyError reports a marker family name that is not recognized
// or uses an unsupported ArUco size or number.
type InvalidFamilyError struct {
	Family string
	Reason string
}

func (e *InvalidFamilyError) Error() string {
	var b strings.Builder
	if e.Reason != "" {
		fmt.Fprintf(&b, "invalid marker family %q: %s\n", e.Family, e.Reason)
	} else {
		fmt.Fprintf(&b, "unrecognized marker family %q\n", e.Family)
	}
	b.WriteString("expected format:\n")
	fmt.Fprintf(&b, "  - AprilTag: %s\n", strings.Join(AprilTagFamilies, ", "))
	fmt.Fprintf(&b, "  - ArUco original: %s\n", ArucoOriginal)
	b.WriteString("  - ArUco: {size}_{number} (e.g. '6x6_250')\n")
	fmt.Fprintf(&b, "    available sizes: %s\n", strings.Join(ArucoSizes, ", "))
	fmt.Fprintf(&b, "    available numbers: %s", strings.Join(ArucoNumbers, ", "))
	return b.String()
}

// Go's regexp has no backreferences, so the size halves are compared by hand.
var arucoPattern = regexp.MustCompile(`^(\d+)x(\d+)_(\d+)$`)

// DictionaryName maps a family name onto the backend dictionary name,
// e.g. "36h11" -> DICT_APRILTAG_36H11 and "6x6_250" -> DICT_6X6_250.
func DictionaryName(family string) (Taxonomy, string, error) {
	for _, f := range AprilTagFamilies {
		if strings.EqualFold(family, f) {
			return April, "DICT_APRILTAG_" + strings.ToUpper(f), nil
		}
	}

	if strings.EqualFold(family, ArucoOriginal) {
		return Aruco, "DICT_ARUCO_ORIGINAL", nil
	}

	m := arucoPattern.FindStringSubmatch(family)
	if m == nil || m[1] != m[2] {
		return 0, "", &InvalidFamilyError{Family: family}
	}

	size := m[1] + "x" + m[2]
	if !slices.Contains(ArucoSizes, size) {
		return 0, "", &InvalidFamilyError{
			Family: family,
			Reason: fmt.Sprintf("unsupported ArUco size %q", size),
		}
	}
	if !slices.Contains(ArucoNumbers, m[3]) {
		return 0, "", &InvalidFamilyError{
			Family: family,
			Reason: fmt.Sprintf("unsupported ArUco number %q", m[3]),
		}
	}
	return Aruco, fmt.Sprintf("DICT_%sX%s_%s", m[1], m[2], m[3]), nil
}

// Resolve maps family to its taxonomy and asks backend for the matching
// predefined dictionary. Unknown families fail with *InvalidFamilyError.
func Resolve(backend Backend, family string) (Taxonomy, Dictionary, error) {
	tax, name, err := DictionaryName(family)
	if err != nil {
		return 0, nil, err
	}
	dict, err := backend.PredefinedDictionary(name)
	if err != nil {
		return 0, nil, fmt.Errorf("marker dictionary %s: %w", name, err)
	}
	return tax, dict, nil
}
