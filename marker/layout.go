package marker

import "fmt"

// Slot is a marker centre, in pixels from the window centre with y up.
type Slot struct {
	X, Y float64
}

// Instance is one generated marker bound to its screen slot.
type Instance struct {
	ID      int
	Bitmap  Bitmap
	Slot    Slot
	Size    int
	Opacity float64
}

type Options struct {
	Family  string
	Count   int
	Size    int
	Opacity float64
	Margin  int
}

func DefaultOptions() Options {
	return Options{
		Family:  "36h11",
		Count:   4,
		Size:    200,
		Opacity: 0.75,
		Margin:  50,
	}
}

// slotOrder walks the 3x3 grid of x/y offsets clockwise from top-left,
// skipping the centre.
var slotOrder = [8][2]int{
	{0, 0}, // top-left
	{1, 0}, // top-centre
	{2, 0}, // top-right
	{2, 1}, // middle-right
	{2, 2}, // bottom-right
	{1, 2}, // bottom-centre
	{0, 2}, // bottom-left
	{0, 1}, // middle-left
}

// Slots returns the eight canonical marker positions for a window.
// The middle row and column sit at 0 regardless of margin.
func Slots(width, height, size, margin int) [8]Slot {
	hw, hh := float64(width)/2, float64(height)/2
	hs, m := float64(size)/2, float64(margin)

	xs := [3]float64{-hw + hs + m, 0, hw - hs - m}
	ys := [3]float64{hh - hs - m, 0, -hh + hs + m}

	var slots [8]Slot
	for i, o := range slotOrder {
		slots[i] = Slot{X: xs[o[0]], Y: ys[o[1]]}
	}
	return slots
}

// SelectSlots picks the slots used for count markers: 4 uses the corners,
// 6 the corners plus the left and right midpoints. Any other count gets
// all eight slots.
func SelectSlots(slots [8]Slot, count int) []Slot {
	var idx []int
	switch count {
	case 4:
		idx = []int{0, 2, 4, 6}
	case 6:
		idx = []int{0, 2, 3, 4, 6, 7}
	default:
		return slots[:]
	}
	out := make([]Slot, len(idx))
	for i, j := range idx {
		out[i] = slots[j]
	}
	return out
}

// Layout resolves opts.Family once and generates one marker per selected
// slot, using the slot ordinal as marker id.
func Layout(backend Backend, width, height int, opts Options) ([]Instance, error) {
	if opts.Opacity < 0 || opts.Opacity > 1 {
		return nil, fmt.Errorf("marker opacity %v: must be within [0, 1]", opts.Opacity)
	}
	tax, dict, err := Resolve(backend, opts.Family)
	if err != nil {
		return nil, err
	}

	slots := SelectSlots(Slots(width, height, opts.Size, opts.Margin), opts.Count)
	instances := make([]Instance, 0, len(slots))
	for id, slot := range slots {
		bm, err := GenerateBitmap(backend, tax, dict, id, opts.Size)
		if err != nil {
			return nil, err
		}
		instances = append(instances, Instance{
			ID:      id,
			Bitmap:  bm,
			Slot:    slot,
			Size:    opts.Size,
			Opacity: opts.Opacity,
		})
	}
	return instances, nil
}

func (i Instance) String() string {
	return fmt.Sprintf("marker %d at (%.0f, %.0f)", i.ID, i.Slot.X, i.Slot.Y)
}
