package timeline

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/GOMDJ/shorts-art/config"
)

// BuildBoundaries maps the candidate event list onto exactly sceneCount+1
// boundary times: strictly increasing, first 0, last total. This is a
// resampling problem, not subset selection; the candidate count rarely
// matches what is needed.
func BuildBoundaries(events []Event, sceneCount int, total, minInterval float64) []float64 {
	if sceneCount < 1 || total <= 0 {
		return nil
	}
	// If even uniform spacing cannot honor the floor, the floor is
	// unsatisfiable for this track; uniform tiling is the closest legal
	// shape.
	if total < minInterval*float64(sceneCount) {
		return evenBoundaries(sceneCount, total)
	}

	needed := sceneCount - 1
	if needed == 0 {
		return []float64{0, total}
	}

	interior := interiorEvents(events, total)
	if len(interior) == 0 {
		return evenBoundaries(sceneCount, total)
	}

	var cuts []float64
	if len(interior) >= needed {
		cuts = strongestPerRange(interior, needed)
	} else {
		cuts = make([]float64, len(interior))
		for i, e := range interior {
			cuts[i] = e.Time
		}
	}
	sort.Float64s(cuts)

	cuts = enforceFloor(cuts, total, minInterval)
	for len(cuts) < needed {
		cuts = splitLargestGap(cuts, total)
	}

	boundaries := make([]float64, 0, sceneCount+1)
	boundaries = append(boundaries, 0)
	boundaries = append(boundaries, cuts...)
	boundaries = append(boundaries, total)

	// Gap filling can, for pathological candidate clusters, reintroduce a
	// sub-floor gap. Uniform spacing is known to satisfy the floor here.
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i]-boundaries[i-1] < minInterval {
			return evenBoundaries(sceneCount, total)
		}
	}
	return boundaries
}

// interiorEvents keeps candidates strictly inside (0, total); the endpoints
// are fixed.
func interiorEvents(events []Event, total float64) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Time > 0 && e.Time < total {
			out = append(out, e)
		}
	}
	return out
}

// strongestPerRange partitions the candidates into `needed` roughly-equal
// index ranges (by count, not by time) and picks the strongest candidate
// from each. Cuts spread across the whole track instead of clustering in
// the most rhythmically active region.
func strongestPerRange(events []Event, needed int) []float64 {
	cuts := make([]float64, 0, needed)
	for r := 0; r < needed; r++ {
		lo := r * len(events) / needed
		hi := (r + 1) * len(events) / needed
		best := lo
		for i := lo + 1; i < hi; i++ {
			if events[i].Strength > events[best].Strength {
				best = i
			}
		}
		cuts = append(cuts, events[best].Time)
	}
	return cuts
}

// enforceFloor scans left to right, dropping any cut closer than
// minInterval to its kept predecessor or to either endpoint.
func enforceFloor(cuts []float64, total, minInterval float64) []float64 {
	kept := cuts[:0]
	prev := 0.0
	for _, c := range cuts {
		if c-prev < minInterval || total-c < minInterval {
			continue
		}
		kept = append(kept, c)
		prev = c
	}
	return kept
}

// splitLargestGap inserts the midpoint of the widest remaining gap,
// guaranteeing no scene exceeds a bounded multiple of the mean duration.
func splitLargestGap(cuts []float64, total float64) []float64 {
	prev := 0.0
	bestIdx, bestGap := 0, 0.0
	for i, c := range cuts {
		if gap := c - prev; gap > bestGap {
			bestGap = gap
			bestIdx = i
		}
		prev = c
	}
	if gap := total - prev; gap > bestGap {
		bestGap = gap
		bestIdx = len(cuts)
	}

	gapStart := 0.0
	if bestIdx > 0 {
		gapStart = cuts[bestIdx-1]
	}
	mid := gapStart + bestGap/2

	out := make([]float64, 0, len(cuts)+1)
	out = append(out, cuts[:bestIdx]...)
	out = append(out, mid)
	out = append(out, cuts[bestIdx:]...)
	return out
}

// evenBoundaries returns total*i/sceneCount for i = 0..sceneCount.
func evenBoundaries(sceneCount int, total float64) []float64 {
	boundaries := make([]float64, sceneCount+1)
	for i := 0; i <= sceneCount; i++ {
		boundaries[i] = total * float64(i) / float64(sceneCount)
	}
	return boundaries
}

// WordBoundaries is the no-audio fallback: each caption lasts the sum of
// its per-word durations, every word drawn uniformly from [WordDurationMin,
// WordDurationMax]. The injected rng is the only source of randomness so
// runs reproduce under a fixed seed.
func WordBoundaries(captions []string, rng *rand.Rand) []float64 {
	boundaries := make([]float64, 0, len(captions)+1)
	boundaries = append(boundaries, 0)
	elapsed := 0.0
	for _, caption := range captions {
		words := strings.Fields(caption)
		if len(words) == 0 {
			// A blank caption still needs a visible scene.
			elapsed += config.FinalSceneDuration
			boundaries = append(boundaries, elapsed)
			continue
		}
		for range words {
			elapsed += config.WordDurationMin +
				(config.WordDurationMax-config.WordDurationMin)*rng.Float64()
		}
		boundaries = append(boundaries, elapsed)
	}
	return boundaries
}
