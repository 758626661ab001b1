// Package crop resolves per-scene subject coordinates into a single crop
// rectangle that keeps every subject visible while applying controlled zoom
// jitter.
package crop

import (
	"log"
	"math"
	"math/rand"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/types"
)

// Options bound the resolved window. Zero value is not useful; use
// DefaultOptions.
type Options struct {
	// TargetAspect is width/height of the output frame (9:16 portrait by
	// default).
	TargetAspect float64
	// SourceAspect is width/height of the painting.
	SourceAspect float64
	// JitterRange perturbs the window scale by a draw from [-j, +j].
	JitterRange float64
	MinZoom     float64
	MaxZoom     float64
}

// DefaultOptions returns the portrait short-form configuration for a given
// painting aspect.
func DefaultOptions(sourceAspect float64) Options {
	return Options{
		TargetAspect: float64(config.VideoWidth) / float64(config.VideoHeight),
		SourceAspect: sourceAspect,
		JitterRange:  config.DefaultJitterRange,
		MinZoom:      config.MinZoom,
		MaxZoom:      config.MaxZoom,
	}
}

// Resolve converts a scene's subject points into a crop rectangle. Malformed
// points were already sanitized away by the vision client; an empty list
// yields a centered default-zoom crop. The rng drives only zoom jitter, so a
// fixed seed reproduces the same rectangles.
func Resolve(points []types.SubjectPoint, opts Options, rng *rand.Rand) types.CropRect {
	cx, cy := 0.5, 0.5
	zoom := config.DefaultZoom

	switch len(points) {
	case 0:
		// No subject to favor; keep the centered default.
	case 1:
		cx, cy = points[0].X, points[0].Y
		zoom = config.SingleSubjectZoom
	default:
		cx, cy = centroid(points)
		contained, ok := containmentZoom(points, cx, cy, opts)
		if !ok {
			// Even the widest aspect-true window splits the subjects.
			// Hand the compositor the whole painting instead of cutting
			// one of them out.
			log.Printf("⚠️  Subject spread exceeds frame at minimum zoom; widening to full frame")
			return FullFrame()
		}
		zoom = contained
	}

	zoom = jitterZoom(zoom, opts, rng)
	return windowAt(cx, cy, zoom, opts)
}

// FullFrame is the degenerate-geometry fallback: the entire painting at
// unit zoom.
func FullFrame() types.CropRect {
	return types.CropRect{X: 0, Y: 0, Width: 1, Height: 1, Zoom: config.MinZoom}
}

func centroid(points []types.SubjectPoint) (cx, cy float64) {
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	n := float64(len(points))
	return cx / n, cy / n
}

// containmentZoom finds the largest zoom whose window, centered on the
// centroid, still contains every subject point with a margin. ok is false
// when not even MinZoom can contain the spread.
func containmentZoom(points []types.SubjectPoint, cx, cy float64, opts Options) (zoom float64, ok bool) {
	w, h := windowExtent(1.0, opts)

	var needX, needY float64
	for _, p := range points {
		if dx := math.Abs(p.X-cx) + config.SubjectMargin; dx > needX {
			needX = dx
		}
		if dy := math.Abs(p.Y-cy) + config.SubjectMargin; dy > needY {
			needY = dy
		}
	}

	// Half extents at zoom z are (w/2)/z horizontally and (h/2)/z
	// vertically; the binding axis decides the zoom ceiling.
	zoom = opts.MaxZoom
	if needX > 0 {
		if zx := (w / 2) / needX; zx < zoom {
			zoom = zx
		}
	}
	if needY > 0 {
		if zy := (h / 2) / needY; zy < zoom {
			zoom = zy
		}
	}
	if zoom < opts.MinZoom {
		return opts.MinZoom, false
	}
	return zoom, true
}

// windowExtent returns the normalized width and height of the crop window
// at a given zoom: the largest target-aspect rectangle inside the source,
// shrunk by the zoom factor.
func windowExtent(zoom float64, opts Options) (w, h float64) {
	// Normalized coordinates are per-axis, so the aspect correction uses
	// the ratio between target and source shapes.
	if opts.TargetAspect < opts.SourceAspect {
		// Source is wider than the target frame: height binds.
		h = 1.0
		w = opts.TargetAspect / opts.SourceAspect
	} else {
		w = 1.0
		h = opts.SourceAspect / opts.TargetAspect
	}
	return w / zoom, h / zoom
}

func jitterZoom(zoom float64, opts Options, rng *rand.Rand) float64 {
	if rng != nil && opts.JitterRange > 0 {
		zoom += (rng.Float64()*2 - 1) * opts.JitterRange * zoom
	}
	return clamp(zoom, opts.MinZoom, opts.MaxZoom)
}

// windowAt builds the window centered on (cx, cy) at the given zoom,
// shifting it back inside the unit square when it spills over an edge.
func windowAt(cx, cy, zoom float64, opts Options) types.CropRect {
	w, h := windowExtent(zoom, opts)

	x := cx - w/2
	y := cy - h/2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > 1 {
		x = 1 - w
	}
	if y+h > 1 {
		y = 1 - h
	}

	return types.CropRect{
		X:      clamp(x, 0, 1),
		Y:      clamp(y, 0, 1),
		Width:  w,
		Height: h,
		Zoom:   zoom,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
