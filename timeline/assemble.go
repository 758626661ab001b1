package timeline

import (
	"fmt"
	"math"

	"github.com/GOMDJ/shorts-art/types"
)

// timeEpsilon absorbs float accumulation error when checking that scenes
// tile the track exactly.
const timeEpsilon = 1e-9

// Assemble zips boundaries, captions, subject points, and crop rectangles
// into the final Timeline. Counts and invariants are validated up front;
// any mismatch is a contract violation between stages and fails with
// ErrInconsistent. Scenes are immutable once assembled.
func Assemble(captions []string, subjects [][]types.SubjectPoint, boundaries []float64, crops []types.CropRect) (types.Timeline, error) {
	n := len(captions)
	if n == 0 {
		return nil, fmt.Errorf("%w: no captions", ErrInconsistent)
	}
	if len(boundaries) != n+1 {
		return nil, fmt.Errorf("%w: %d captions need %d boundaries, got %d",
			ErrInconsistent, n, n+1, len(boundaries))
	}
	if len(crops) != n {
		return nil, fmt.Errorf("%w: %d captions but %d crops", ErrInconsistent, n, len(crops))
	}
	if subjects != nil && len(subjects) != n {
		return nil, fmt.Errorf("%w: %d captions but %d subject lists", ErrInconsistent, n, len(subjects))
	}
	if math.Abs(boundaries[0]) > timeEpsilon {
		return nil, fmt.Errorf("%w: first boundary %.6f, want 0", ErrInconsistent, boundaries[0])
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			return nil, fmt.Errorf("%w: boundaries not strictly increasing at index %d (%.6f -> %.6f)",
				ErrInconsistent, i, boundaries[i-1], boundaries[i])
		}
	}

	scenes := make(types.Timeline, n)
	for i := 0; i < n; i++ {
		scene := types.Scene{
			Index: i,
			Text:  captions[i],
			Start: boundaries[i],
			End:   boundaries[i+1],
			Crop:  crops[i],
		}
		if subjects != nil {
			scene.Subjects = subjects[i]
		}
		scenes[i] = scene
	}
	return scenes, nil
}

// Validate re-checks the cross-entity invariants on an assembled timeline:
// full coverage of [0, total], zero overlap, fixed endpoints.
func Validate(t types.Timeline, total float64) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty timeline", ErrInconsistent)
	}
	if math.Abs(t[0].Start) > timeEpsilon {
		return fmt.Errorf("%w: first scene starts at %.6f", ErrInconsistent, t[0].Start)
	}
	if math.Abs(t[len(t)-1].End-total) > timeEpsilon {
		return fmt.Errorf("%w: last scene ends at %.6f, want %.6f",
			ErrInconsistent, t[len(t)-1].End, total)
	}
	for i, s := range t {
		if s.Index != i {
			return fmt.Errorf("%w: scene %d carries index %d", ErrInconsistent, i, s.Index)
		}
		if s.Start >= s.End {
			return fmt.Errorf("%w: scene %d has non-positive span [%.6f, %.6f]",
				ErrInconsistent, i, s.Start, s.End)
		}
		if i > 0 && math.Abs(s.Start-t[i-1].End) > timeEpsilon {
			return fmt.Errorf("%w: gap or overlap between scenes %d and %d",
				ErrInconsistent, i-1, i)
		}
	}
	return nil
}
