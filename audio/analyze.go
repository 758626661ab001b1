package audio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/GOMDJ/shorts-art/config"
	"github.com/GOMDJ/shorts-art/types"
)

// silenceRMS is the level below which a track is treated as silent.
const silenceRMS = 1e-4

// minOnsetSeparation keeps spectral-flux peaks from stacking up inside a
// single percussive hit.
const minOnsetSeparation = 0.05

// Analyze extracts tempo, beat times, and onset times with strengths from a
// mono waveform. Deterministic for a given input; fails with ErrUnavailable
// for empty or silent signals.
func Analyze(samples []float64, sampleRate int) (*types.AudioFeatures, error) {
	if len(samples) == 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: empty waveform", ErrUnavailable)
	}
	if rms(samples) < silenceRMS {
		return nil, fmt.Errorf("%w: track is silent", ErrUnavailable)
	}
	duration := float64(len(samples)) / float64(sampleRate)

	envelope := onsetEnvelope(samples)
	if len(envelope) == 0 {
		return nil, fmt.Errorf("%w: track shorter than one analysis frame", ErrUnavailable)
	}

	tempo, period := estimateTempo(envelope, sampleRate)
	beats := trackBeats(envelope, period, sampleRate, duration)
	onsets, strengths := detectOnsets(envelope, sampleRate, duration)

	return &types.AudioFeatures{
		TempoBPM:       tempo,
		BeatTimes:      beats,
		OnsetTimes:     onsets,
		OnsetStrengths: strengths,
		Duration:       duration,
	}, nil
}

// onsetEnvelope computes a normalized half-wave-rectified spectral flux per
// STFT frame. Flux spikes where new spectral energy appears, which is where
// drum hits and note attacks live.
func onsetEnvelope(samples []float64) []float64 {
	if len(samples) < config.FrameSize {
		return nil
	}
	numFrames := 1 + (len(samples)-config.FrameSize)/config.HopSize
	numBins := config.FrameSize/2 + 1

	fft := fourier.NewFFT(config.FrameSize)
	window := hann(config.FrameSize)
	frame := make([]float64, config.FrameSize)
	coeffs := make([]complex128, numBins)

	prev := make([]float64, numBins)
	mags := make([]float64, numBins)
	envelope := make([]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		off := i * config.HopSize
		for j := 0; j < config.FrameSize; j++ {
			frame[j] = samples[off+j] * window[j]
		}
		coeffs = fft.Coefficients(coeffs, frame)

		var flux float64
		for k := 0; k < numBins; k++ {
			mags[k] = cmplxAbs(coeffs[k])
			if d := mags[k] - prev[k]; d > 0 {
				flux += d
			}
		}
		envelope[i] = flux
		prev, mags = mags, prev
	}
	// First frame has no predecessor; its flux is the whole spectrum.
	envelope[0] = 0

	if peak := maxOf(envelope); peak > 0 {
		for i := range envelope {
			envelope[i] /= peak
		}
	}
	return envelope
}

// estimateTempo autocorrelates the onset envelope across the lag range
// implied by [MinTempoBPM, MaxTempoBPM] and returns the global tempo plus
// its period in frames.
func estimateTempo(envelope []float64, sampleRate int) (bpm float64, periodFrames int) {
	framesPerSec := float64(sampleRate) / float64(config.HopSize)
	minLag := int(framesPerSec * 60.0 / config.MaxTempoBPM)
	maxLag := int(framesPerSec * 60.0 / config.MinTempoBPM)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(envelope) {
		maxLag = len(envelope) - 1
	}
	if maxLag < minLag {
		// Track too short to resolve tempo; assume a moderate 120 BPM grid.
		period := int(framesPerSec / 2)
		if period < 1 {
			period = 1
		}
		return 120.0, period
	}

	bestLag, bestScore := minLag, math.Inf(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		var score float64
		for i := lag; i < len(envelope); i++ {
			score += envelope[i] * envelope[i-lag]
		}
		// Mild normalization so long lags are not penalized by having
		// fewer product terms.
		score /= float64(len(envelope) - lag)
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	return 60.0 * framesPerSec / float64(bestLag), bestLag
}

// trackBeats lays a grid at the tempo period, choosing the phase that best
// aligns with the envelope and snapping each predicted beat to the local
// envelope maximum within a tolerance window.
func trackBeats(envelope []float64, periodFrames, sampleRate int, duration float64) []float64 {
	if periodFrames < 1 || len(envelope) == 0 {
		return nil
	}

	bestPhase, bestScore := 0, math.Inf(-1)
	for phase := 0; phase < periodFrames && phase < len(envelope); phase++ {
		var score float64
		for i := phase; i < len(envelope); i += periodFrames {
			score += envelope[i]
		}
		if score > bestScore {
			bestScore = score
			bestPhase = phase
		}
	}

	tolerance := periodFrames / 8
	frameDur := float64(config.HopSize) / float64(sampleRate)

	var beats []float64
	last := -1
	for pos := bestPhase; pos < len(envelope); pos += periodFrames {
		snapped := localMax(envelope, pos, tolerance)
		if snapped <= last {
			continue
		}
		t := float64(snapped) * frameDur
		if t > duration {
			break
		}
		beats = append(beats, t)
		last = snapped
	}
	return beats
}

// detectOnsets picks local maxima of the flux envelope above an adaptive
// threshold, independent of the beat grid.
func detectOnsets(envelope []float64, sampleRate int, duration float64) (times, strengths []float64) {
	if len(envelope) < 3 {
		return nil, nil
	}
	mean, std := meanStd(envelope)
	threshold := mean + config.OnsetThresholdK*std

	frameDur := float64(config.HopSize) / float64(sampleRate)
	minGap := int(minOnsetSeparation / frameDur)
	if minGap < 1 {
		minGap = 1
	}

	lastPick := -minGap - 1
	for i := 1; i < len(envelope)-1; i++ {
		if envelope[i] < threshold {
			continue
		}
		if envelope[i] <= envelope[i-1] || envelope[i] < envelope[i+1] {
			continue
		}
		if i-lastPick <= minGap {
			// Within the refractory window: keep the stronger peak.
			if len(strengths) > 0 && envelope[i] > strengths[len(strengths)-1] {
				times[len(times)-1] = float64(i) * frameDur
				strengths[len(strengths)-1] = envelope[i]
				lastPick = i
			}
			continue
		}
		t := float64(i) * frameDur
		if t > duration {
			break
		}
		times = append(times, t)
		strengths = append(strengths, envelope[i])
		lastPick = i
	}
	return times, strengths
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

func localMax(envelope []float64, center, tolerance int) int {
	lo, hi := center-tolerance, center+tolerance
	if lo < 0 {
		lo = 0
	}
	if hi >= len(envelope) {
		hi = len(envelope) - 1
	}
	best := center
	if best > hi {
		best = hi
	}
	for i := lo; i <= hi; i++ {
		if envelope[i] > envelope[best] {
			best = i
		}
	}
	return best
}

func rms(samples []float64) float64 {
	var acc float64
	for _, s := range samples {
		acc += s * s
	}
	return math.Sqrt(acc / float64(len(samples)))
}

func meanStd(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		d := x - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}

func maxOf(xs []float64) float64 {
	best := math.Inf(-1)
	for _, x := range xs {
		if x > best {
			best = x
		}
	}
	return best
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
