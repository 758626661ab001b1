package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrUnavailable marks a track that cannot drive timing: missing, corrupt,
// or silent. Callers recover by falling back to the text-duration heuristic.
var ErrUnavailable = errors.New("audio unavailable")

// DecodeRate is the sample rate all tracks are decoded to before analysis.
// Beat and onset detection do not need more bandwidth than this.
const DecodeRate = 22050

// wavHeader is the canonical 44-byte RIFF/WAVE PCM header.
type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Decode loads a music file into mono float64 samples. WAV files are read
// natively; everything else goes through an ffmpeg PCM pipe.
func Decode(path string) ([]float64, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer f.Close()
		return DecodeWAV(f)
	}
	return decodeWithFFmpeg(path)
}

// DecodeWAV reads 16-bit PCM WAV data, downmixing to mono.
func DecodeWAV(r io.Reader) ([]float64, int, error) {
	var hdr wavHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, 0, fmt.Errorf("%w: reading wav header: %v", ErrUnavailable, err)
	}
	if string(hdr.ChunkID[:]) != "RIFF" || string(hdr.Format[:]) != "WAVE" {
		return nil, 0, fmt.Errorf("%w: not a RIFF/WAVE file", ErrUnavailable)
	}
	if hdr.AudioFormat != 1 || hdr.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("%w: unsupported wav encoding (format=%d, bits=%d)",
			ErrUnavailable, hdr.AudioFormat, hdr.BitsPerSample)
	}
	// The fmt chunk may carry extension bytes before the data chunk.
	if extra := int64(hdr.Subchunk1Size) - 16; extra > 0 {
		if _, err := io.CopyN(io.Discard, r, extra); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	// Skip non-data chunks (LIST, fact, ...) until the data chunk.
	var dataLen uint32
	for {
		var id [4]byte
		var size uint32
		if _, err := io.ReadFull(r, id[:]); err != nil {
			return nil, 0, fmt.Errorf("%w: no data chunk: %v", ErrUnavailable, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if string(id[:]) == "data" {
			dataLen = size
			break
		}
		if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	raw := make([]byte, dataLen)
	n, err := io.ReadFull(r, raw)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, 0, fmt.Errorf("%w: reading wav data: %v", ErrUnavailable, err)
	}
	raw = raw[:n]

	channels := int(hdr.NumChannels)
	if channels < 1 {
		return nil, 0, fmt.Errorf("%w: zero channels", ErrUnavailable)
	}
	frames := len(raw) / (2 * channels)
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var acc float64
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * 2
			acc += float64(int16(binary.LittleEndian.Uint16(raw[off:]))) / 32768.0
		}
		samples[i] = acc / float64(channels)
	}
	return samples, int(hdr.SampleRate), nil
}

// decodeWithFFmpeg pipes any container ffmpeg understands into raw
// little-endian 16-bit mono PCM at DecodeRate.
func decodeWithFFmpeg(path string) ([]float64, int, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	buf := bytes.NewBuffer(nil)
	err := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"f":      "s16le",
			"acodec": "pcm_s16le",
			"ac":     "1",
			"ar":     fmt.Sprintf("%d", DecodeRate),
		}).
		WithOutput(buf).
		Silent(true).
		Run()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: ffmpeg decode failed: %v", ErrUnavailable, err)
	}

	raw := buf.Bytes()
	samples := make([]float64, len(raw)/2)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768.0
	}
	return samples, DecodeRate, nil
}

// Truncate cuts samples down to target seconds, leaving shorter input
// untouched. Mirrors the optional target-duration trim in analysis.
func Truncate(samples []float64, sampleRate int, target float64) []float64 {
	if target <= 0 {
		return samples
	}
	n := int(target * float64(sampleRate))
	if n >= len(samples) {
		return samples
	}
	return samples[:n]
}
