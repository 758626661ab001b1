package timeline

import (
	"sort"

	"github.com/GOMDJ/shorts-art/types"
)

// Event is one candidate scene-cut moment. Beats carry strength 1.0; onsets
// carry their spectral-flux strength.
type Event struct {
	Time     float64
	Strength float64
	Onset    bool
}

// SelectEvents filters the extracted audio features down to the candidate
// event list for the configured strategy. A nil result signals "no
// audio-derived events": the builder falls back to uniform spacing.
func SelectEvents(f *types.AudioFeatures, cfg types.SyncConfig) []Event {
	if f == nil || cfg.Strategy == types.StrategyEvenly {
		return nil
	}

	switch cfg.Strategy {
	case types.StrategyBeats:
		return beatEvents(f)
	case types.StrategyOnsets:
		return onsetEvents(f)
	default:
		return mergeEvents(beatEvents(f), onsetEvents(f), cfg.MinSceneInterval)
	}
}

func beatEvents(f *types.AudioFeatures) []Event {
	events := make([]Event, len(f.BeatTimes))
	for i, t := range f.BeatTimes {
		events[i] = Event{Time: t, Strength: 1.0}
	}
	return events
}

func onsetEvents(f *types.AudioFeatures) []Event {
	events := make([]Event, len(f.OnsetTimes))
	for i, t := range f.OnsetTimes {
		strength := 1.0
		if i < len(f.OnsetStrengths) {
			strength = f.OnsetStrengths[i]
		}
		events[i] = Event{Time: t, Strength: strength, Onset: true}
	}
	return events
}

// mergeEvents unions beats and onsets, collapsing events closer together
// than minInterval. The beat grid carries the rhythmic backbone, so a beat
// wins over an onset inside the merge window; between two onsets the
// stronger survives, the earlier on equal strength; between two beats the
// earlier survives.
func mergeEvents(beats, onsets []Event, minInterval float64) []Event {
	all := make([]Event, 0, len(beats)+len(onsets))
	all = append(all, beats...)
	all = append(all, onsets...)
	sort.Slice(all, func(i, j int) bool {
		if all[i].Time != all[j].Time {
			return all[i].Time < all[j].Time
		}
		// Equal times: beat sorts first so the keep-rule below sees it.
		return !all[i].Onset && all[j].Onset
	})

	merged := make([]Event, 0, len(all))
	for _, e := range all {
		if len(merged) == 0 {
			merged = append(merged, e)
			continue
		}
		last := &merged[len(merged)-1]
		if e.Time-last.Time >= minInterval {
			merged = append(merged, e)
			continue
		}
		// Inside the merge window.
		switch {
		case !last.Onset:
			// Kept event is a beat: it stays.
		case !e.Onset:
			// Incoming beat displaces a kept onset.
			*last = e
		case e.Strength > last.Strength:
			*last = e
		}
	}
	return merged
}
