package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// buildWAV assembles an in-memory 16-bit PCM RIFF file. extraFmt appends
// extension bytes to the fmt chunk; extraChunks are injected before data.
func buildWAV(t *testing.T, channels int, sampleRate uint32, pcm []int16, extraFmt []byte, extraChunks map[string][]byte) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)

	dataLen := uint32(len(pcm) * 2)
	hdr := wavHeader{
		ChunkSize:     36 + dataLen,
		Subchunk1Size: uint32(16 + len(extraFmt)),
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(channels) * 2,
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: 16,
	}
	copy(hdr.ChunkID[:], "RIFF")
	copy(hdr.Format[:], "WAVE")
	copy(hdr.Subchunk1ID[:], "fmt ")

	if err := binary.Write(buf, binary.LittleEndian, hdr); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	buf.Write(extraFmt)
	for id, payload := range extraChunks {
		buf.WriteString(id)
		binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
		buf.Write(payload)
	}
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataLen)
	binary.Write(buf, binary.LittleEndian, pcm)
	return buf.Bytes()
}

func TestDecodeWAVMono(t *testing.T) {
	pcm := []int16{0, 16384, -16384, 32767}
	wav := buildWAV(t, 1, 44100, pcm, nil, nil)

	samples, rate, err := DecodeWAV(bytes.NewReader(wav))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if rate != 44100 {
		t.Errorf("rate = %d, want 44100", rate)
	}
	want := []float64{0, 0.5, -0.5, 32767.0 / 32768.0}
	if len(samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(samples), len(want))
	}
	for i := range want {
		if math.Abs(samples[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, samples[i], want[i])
		}
	}
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	// Interleaved L/R pairs; each frame decodes to the channel mean.
	pcm := []int16{16384, -16384, 32766, 0}
	wav := buildWAV(t, 2, 22050, pcm, nil, nil)

	samples, _, err := DecodeWAV(bytes.NewReader(wav))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("got %d frames, want 2", len(samples))
	}
	if math.Abs(samples[0]) > 1e-9 {
		t.Errorf("frame 0 = %v, want 0 (opposite channels cancel)", samples[0])
	}
	if math.Abs(samples[1]-32766.0/65536.0) > 1e-9 {
		t.Errorf("frame 1 = %v, want half of the left channel", samples[1])
	}
}

func TestDecodeWAVSkipsExtraChunks(t *testing.T) {
	pcm := []int16{100, 200, 300}
	wav := buildWAV(t, 1, 22050, pcm,
		[]byte{0x00, 0x00},
		map[string][]byte{"LIST": []byte("INFOsome metadata")})

	samples, _, err := DecodeWAV(bytes.NewReader(wav))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("got %d samples, want 3", len(samples))
	}
}

func TestDecodeWAVRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated header", []byte("RIFF")},
		{"wrong magic", bytes.Repeat([]byte{0x42}, 64)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeWAV(bytes.NewReader(tc.data))
			if !errors.Is(err, ErrUnavailable) {
				t.Fatalf("err = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestDecodeRoutesWAVByExtension(t *testing.T) {
	pcm := []int16{1000, 2000, 3000, 4000}
	path := filepath.Join(t.TempDir(), "track.WAV")
	if err := os.WriteFile(path, buildWAV(t, 1, 22050, pcm, nil, nil), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	samples, rate, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if rate != 22050 || len(samples) != 4 {
		t.Fatalf("got rate %d and %d samples, want 22050 and 4", rate, len(samples))
	}
}

func TestDecodeMissingFile(t *testing.T) {
	if _, _, err := Decode(filepath.Join(t.TempDir(), "absent.wav")); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestTruncate(t *testing.T) {
	samples := make([]float64, 100)

	if got := Truncate(samples, 10, 5.0); len(got) != 50 {
		t.Errorf("truncated to %d samples, want 50", len(got))
	}
	if got := Truncate(samples, 10, 20.0); len(got) != 100 {
		t.Errorf("long target shrank input to %d samples", len(got))
	}
	if got := Truncate(samples, 10, 0); len(got) != 100 {
		t.Errorf("zero target shrank input to %d samples", len(got))
	}
}
