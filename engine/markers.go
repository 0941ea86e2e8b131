package engine

import (
	"markerexp/logger"
	"markerexp/marker"
)

// DrawMarkers lays out the markers for the window and keeps them on screen
// for the rest of its life.
func DrawMarkers(win *Window, backend marker.Backend, opts marker.Options) ([]*MarkerStim, error) {
	instances, err := layoutFor(win, backend, opts)
	if err != nil {
		return nil, err
	}
	stims := make([]*MarkerStim, 0, len(instances))
	for _, inst := range instances {
		stim, err := NewMarkerStim(win, inst)
		if err != nil {
			return nil, err
		}
		win.AutoDraw(stim)
		stims = append(stims, stim)
	}
	logger.S().Infow("markers drawn", "family", opts.Family, "count", len(stims), "size", opts.Size)
	return stims, nil
}

func layoutFor(win *Window, backend marker.Backend, opts marker.Options) ([]marker.Instance, error) {
	return marker.Layout(backend, win.Width, win.Height, opts)
}
