// Package display finds the monitor under the pointer and converts its
// bounds to the pixel space the screen device context uses.
package display

import (
	"errors"
	"fmt"
	"image"
)

// BaseDPI is the DPI at 100% scaling.
const BaseDPI = 96

var ErrNoDisplay = errors.New("no active displays found")

type Display struct {
	Index   int
	Bounds  image.Rectangle
	Primary bool
	// Effective DPI per axis.
	DPIX, DPIY int
}

// Physical returns the bounds with the origin moved to device pixels.
func (d Display) Physical() image.Rectangle {
	return ScaleForDPI(d.Bounds, d.DPIX, d.DPIY)
}

// Resolve returns the display containing pt, or the nearest one when no
// display contains it.
func Resolve(pt image.Point, displays []Display) (Display, error) {
	best := -1
	bestDist := 0
	for i, d := range displays {
		if d.Bounds.Empty() {
			continue
		}
		if pt.In(d.Bounds) {
			return d, nil
		}
		if dist := distance(pt, d.Bounds); best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Display{}, ErrNoDisplay
	}
	return displays[best], nil
}

// distance is the squared distance from pt to the closest pixel of r.
func distance(pt image.Point, r image.Rectangle) int {
	dx := 0
	switch {
	case pt.X < r.Min.X:
		dx = r.Min.X - pt.X
	case pt.X >= r.Max.X:
		dx = pt.X - (r.Max.X - 1)
	}
	dy := 0
	switch {
	case pt.Y < r.Min.Y:
		dy = r.Min.Y - pt.Y
	case pt.Y >= r.Max.Y:
		dy = pt.Y - (r.Max.Y - 1)
	}
	return dx*dx + dy*dy
}

// ScaleForDPI moves the origin of r from logical coordinates to device
// pixels, each axis by its own DPI. The size is kept. An axis whose DPI is
// unknown or at most BaseDPI is left as is.
func ScaleForDPI(r image.Rectangle, dpiX, dpiY int) image.Rectangle {
	min := image.Pt(scaleAxis(r.Min.X, dpiX), scaleAxis(r.Min.Y, dpiY))
	return image.Rectangle{Min: min, Max: min.Add(r.Size())}
}

func scaleAxis(v, dpi int) int {
	if dpi <= BaseDPI {
		return v
	}
	return v * dpi / BaseDPI
}

// Labels describes each display for the tray menu.
func Labels(displays []Display) []string {
	labels := make([]string, 0, len(displays))
	for i, d := range displays {
		label := fmt.Sprintf("Monitor %d: %dx%d", i+1, d.Bounds.Dx(), d.Bounds.Dy())
		if d.Primary {
			label += " (Primary)"
		}
		labels = append(labels, label)
	}
	return labels
}
