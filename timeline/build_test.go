package timeline

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/GOMDJ/shorts-art/types"
)

func assertBoundariesTile(t *testing.T, boundaries []float64, sceneCount int, total float64) {
	t.Helper()
	if len(boundaries) != sceneCount+1 {
		t.Fatalf("got %d boundaries, want %d", len(boundaries), sceneCount+1)
	}
	if boundaries[0] != 0 {
		t.Fatalf("first boundary = %v, want 0", boundaries[0])
	}
	if boundaries[len(boundaries)-1] != total {
		t.Fatalf("last boundary = %v, want %v", boundaries[len(boundaries)-1], total)
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] <= boundaries[i-1] {
			t.Fatalf("boundaries not strictly increasing at %d: %v", i, boundaries)
		}
	}
}

func TestBuildBoundariesEvenlyExact(t *testing.T) {
	boundaries := BuildBoundaries(nil, 4, 8.0, 0.5)

	want := []float64{0, 2, 4, 6, 8}
	if len(boundaries) != len(want) {
		t.Fatalf("got %v, want %v", boundaries, want)
	}
	for i := range want {
		if boundaries[i] != want[i] {
			t.Fatalf("boundary %d = %v, want %v", i, boundaries[i], want[i])
		}
	}
}

func TestBuildBoundariesSpreadsAcrossRanges(t *testing.T) {
	// 12 candidates, 3 interior cuts needed: one strongest candidate per
	// index third, not the three globally strongest (which cluster early).
	var events []Event
	for i := 0; i < 12; i++ {
		strength := 0.5
		if i == 2 || i == 6 || i == 10 {
			strength = 0.9
		}
		events = append(events, Event{Time: 1.0 + float64(i)*0.8, Strength: strength, Onset: true})
	}

	boundaries := BuildBoundaries(events, 4, 12.0, 0.5)
	assertBoundariesTile(t, boundaries, 4, 12.0)

	wantCuts := []float64{1.0 + 2*0.8, 1.0 + 6*0.8, 1.0 + 10*0.8}
	for i, want := range wantCuts {
		if got := boundaries[i+1]; got != want {
			t.Errorf("cut %d = %v, want strongest-in-range %v", i, got, want)
		}
	}
}

func TestBuildBoundariesFillsSparseCandidates(t *testing.T) {
	// One candidate for five scenes: the remaining cuts come from
	// subdividing the largest gaps, and the tiling invariant still holds.
	events := []Event{{Time: 2.0, Strength: 1.0}}

	boundaries := BuildBoundaries(events, 5, 20.0, 0.5)
	assertBoundariesTile(t, boundaries, 5, 20.0)

	meanScene := 20.0 / 5
	for i := 1; i < len(boundaries); i++ {
		if gap := boundaries[i] - boundaries[i-1]; gap > 3*meanScene {
			t.Fatalf("scene %d spans %.2fs, more than 3x the mean", i-1, gap)
		}
	}
}

func TestBuildBoundariesEnforcesFloorUnderStorm(t *testing.T) {
	f := &types.AudioFeatures{Duration: 30.0}
	for i := 0; i < 3000; i++ {
		f.OnsetTimes = append(f.OnsetTimes, 5.0+float64(i)*0.0003)
		f.OnsetStrengths = append(f.OnsetStrengths, 0.3+0.001*float64(i%400))
	}
	events := SelectEvents(f, types.SyncConfig{Strategy: types.StrategyAuto, MinSceneInterval: 0.5})

	boundaries := BuildBoundaries(events, 8, 30.0, 0.5)
	assertBoundariesTile(t, boundaries, 8, 30.0)
	for i := 1; i < len(boundaries); i++ {
		if gap := boundaries[i] - boundaries[i-1]; gap < 0.5 {
			t.Fatalf("boundaries %d and %d only %.4fs apart", i-1, i, gap)
		}
	}
}

func TestBuildBoundariesUnsatisfiableFloorFallsBackEven(t *testing.T) {
	events := []Event{{Time: 0.2, Strength: 1.0}, {Time: 0.25, Strength: 1.0}}

	// 10 scenes in 2 seconds cannot honor a 0.5s floor; uniform tiling is
	// the closest legal shape.
	boundaries := BuildBoundaries(events, 10, 2.0, 0.5)
	assertBoundariesTile(t, boundaries, 10, 2.0)
}

func TestWordBoundariesDurationRange(t *testing.T) {
	caption := strings.TrimSpace(strings.Repeat("brush ", 10))
	rng := rand.New(rand.NewSource(42))

	boundaries := WordBoundaries([]string{caption}, rng)
	if len(boundaries) != 2 {
		t.Fatalf("got %d boundaries, want 2", len(boundaries))
	}
	total := boundaries[1]
	if total < 10.0 || total > 12.0 {
		t.Fatalf("10-word caption lasted %.3fs, want [10, 12]", total)
	}

	// One word per caption exposes each draw as a boundary delta.
	captions := make([]string, 10)
	for i := range captions {
		captions[i] = "word"
	}
	perWord := WordBoundaries(captions, rand.New(rand.NewSource(42)))
	for i := 1; i < len(perWord); i++ {
		if d := perWord[i] - perWord[i-1]; d < 1.0 || d > 1.2 {
			t.Fatalf("word %d lasted %.3fs, want [1.0, 1.2]", i-1, d)
		}
	}
}

func TestWordBoundariesDeterministicUnderSeed(t *testing.T) {
	captions := []string{"a quiet storm gathers", "the sky splits open", "gold light on water"}

	a := WordBoundaries(captions, rand.New(rand.NewSource(99)))
	b := WordBoundaries(captions, rand.New(rand.NewSource(99)))

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("boundary %d differs under same seed: %v vs %v", i, a[i], b[i])
		}
	}
}
