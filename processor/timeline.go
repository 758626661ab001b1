package processor

import (
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/crop"
	"github.com/GOMDJ/shorts-art/timeline"
	"github.com/GOMDJ/shorts-art/types"
)

// BuildInput gathers everything timeline construction needs. Features and
// Subjects may be nil; the build degrades to text durations and centered
// crops respectively.
type BuildInput struct {
	Captions     []string
	Features     *types.AudioFeatures
	Subjects     [][]types.SubjectPoint
	SourceAspect float64
	Sync         types.SyncConfig
	JitterRange  float64
	Seed         int64
}

// BuildTimeline turns captions plus optional audio features and subject
// points into a validated timeline. Pure given its input: the same seed
// reproduces the same boundaries and crops.
func BuildTimeline(in BuildInput) (types.Timeline, error) {
	if len(in.Captions) == 0 {
		return nil, fmt.Errorf("%w: no captions to schedule", timeline.ErrInconsistent)
	}
	if in.Subjects != nil && len(in.Subjects) != len(in.Captions) {
		return nil, fmt.Errorf("%w: %d subject lists for %d captions",
			timeline.ErrInconsistent, len(in.Subjects), len(in.Captions))
	}

	var boundaries []float64
	if in.Features != nil {
		events := timeline.SelectEvents(in.Features, in.Sync)
		boundaries = timeline.BuildBoundaries(events, len(in.Captions), in.Features.Duration, in.Sync.MinSceneInterval)
	} else {
		boundaries = timeline.WordBoundaries(in.Captions, rand.New(rand.NewSource(in.Seed)))
	}
	if boundaries == nil {
		return nil, fmt.Errorf("%w: could not build boundaries for %d scenes", timeline.ErrInconsistent, len(in.Captions))
	}

	opts := crop.DefaultOptions(in.SourceAspect)
	if in.JitterRange > 0 {
		opts.JitterRange = in.JitterRange
	}

	// Each scene gets its own seeded rng so the fan-out stays deterministic
	// regardless of goroutine scheduling.
	crops := make([]types.CropRect, len(in.Captions))
	var g errgroup.Group
	g.SetLimit(config.MaxConcurrentRuns * 2)
	for i := range in.Captions {
		g.Go(func() error {
			var points []types.SubjectPoint
			if in.Subjects != nil {
				points = in.Subjects[i]
			}
			rng := rand.New(rand.NewSource(in.Seed + int64(i)))
			crops[i] = crop.Resolve(points, opts, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t, err := timeline.Assemble(in.Captions, in.Subjects, boundaries, crops)
	if err != nil {
		return nil, err
	}

	total := boundaries[len(boundaries)-1]
	if err := timeline.Validate(t, total); err != nil {
		return nil, err
	}
	return t, nil
}
