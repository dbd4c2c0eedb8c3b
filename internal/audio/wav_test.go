package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// parseWAV pulls the header fields and PCM payload back out of a
// written stream so tests can check them without an external reader.
type parsedWAV struct {
	riffSize   uint32
	format     uint16
	channels   uint16
	sampleRate uint32
	byteRate   uint32
	blockAlign uint16
	bits       uint16
	data       []int16
}

func parseWAV(t *testing.T, raw []byte) parsedWAV {
	t.Helper()
	if len(raw) < 44 {
		t.Fatalf("wav stream too short: %d bytes", len(raw))
	}
	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" || string(raw[12:16]) != "fmt " || string(raw[36:40]) != "data" {
		t.Fatalf("bad chunk magics: %q %q %q %q", raw[0:4], raw[8:12], raw[12:16], raw[36:40])
	}
	var p parsedWAV
	p.riffSize = binary.LittleEndian.Uint32(raw[4:8])
	p.format = binary.LittleEndian.Uint16(raw[20:22])
	p.channels = binary.LittleEndian.Uint16(raw[22:24])
	p.sampleRate = binary.LittleEndian.Uint32(raw[24:28])
	p.byteRate = binary.LittleEndian.Uint32(raw[28:32])
	p.blockAlign = binary.LittleEndian.Uint16(raw[32:34])
	p.bits = binary.LittleEndian.Uint16(raw[34:36])
	dataSize := binary.LittleEndian.Uint32(raw[40:44])
	if int(dataSize) != len(raw)-44 {
		t.Fatalf("data size field %d, payload is %d bytes", dataSize, len(raw)-44)
	}
	p.data = make([]int16, dataSize/2)
	if err := binary.Read(bytes.NewReader(raw[44:]), binary.LittleEndian, &p.data); err != nil {
		t.Fatalf("reading pcm payload: %v", err)
	}
	return p
}

func TestWriteWAVHeader(t *testing.T) {
	buf := &SampleBuffer{Samples: make([]float64, 1600), Channels: 1, SampleRate: 16000}

	var out bytes.Buffer
	if err := WriteWAV(&out, buf, 0, 1600); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	p := parseWAV(t, out.Bytes())
	if p.format != 1 {
		t.Errorf("format = %d, want 1 (PCM)", p.format)
	}
	if p.channels != 1 {
		t.Errorf("channels = %d, want 1", p.channels)
	}
	if p.sampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", p.sampleRate)
	}
	if p.byteRate != 32000 {
		t.Errorf("byte rate = %d, want 32000", p.byteRate)
	}
	if p.blockAlign != 2 {
		t.Errorf("block align = %d, want 2", p.blockAlign)
	}
	if p.bits != 16 {
		t.Errorf("bits = %d, want 16", p.bits)
	}
	if len(p.data) != 1600 {
		t.Errorf("payload samples = %d, want 1600", len(p.data))
	}
	if want := uint32(36 + 3200); p.riffSize != want {
		t.Errorf("riff size = %d, want %d", p.riffSize, want)
	}
}

func TestWriteWAVRange(t *testing.T) {
	buf := &SampleBuffer{Channels: 1, SampleRate: 8000}
	for i := 0; i < 100; i++ {
		buf.Samples = append(buf.Samples, float64(i)/1000.0)
	}

	var out bytes.Buffer
	if err := WriteWAV(&out, buf, 10, 20); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
	p := parseWAV(t, out.Bytes())
	if len(p.data) != 10 {
		t.Fatalf("payload samples = %d, want 10", len(p.data))
	}
	// First exported sample should be buffer sample 10 (0.010).
	want := pcmSample(0.010)
	if p.data[0] != want {
		t.Errorf("first sample = %d, want %d", p.data[0], want)
	}
}

func TestWriteWAVStereoInterleave(t *testing.T) {
	// Left channel positive ramp, right channel negative ramp.
	buf := &SampleBuffer{Channels: 2, SampleRate: 8000}
	for tick := 0; tick < 8; tick++ {
		buf.Samples = append(buf.Samples, float64(tick)/100.0, -float64(tick)/100.0)
	}

	var out bytes.Buffer
	if err := WriteWAV(&out, buf, 0, 8); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
	p := parseWAV(t, out.Bytes())
	if p.channels != 2 {
		t.Fatalf("channels = %d, want 2", p.channels)
	}
	if len(p.data) != 16 {
		t.Fatalf("payload samples = %d, want 16", len(p.data))
	}
	for tick := 0; tick < 8; tick++ {
		l, r := p.data[tick*2], p.data[tick*2+1]
		if l != -r {
			t.Errorf("tick %d: left %d and right %d are not mirrored", tick, l, r)
		}
	}
}

func TestWriteWAVClipsOutOfRange(t *testing.T) {
	buf := &SampleBuffer{Samples: []float64{2.0, -2.0, 0.0}, Channels: 1, SampleRate: 8000}

	var out bytes.Buffer
	if err := WriteWAV(&out, buf, 0, 3); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
	p := parseWAV(t, out.Bytes())
	if p.data[0] != 32767 {
		t.Errorf("over-range sample = %d, want 32767", p.data[0])
	}
	if p.data[1] != -32768 {
		t.Errorf("under-range sample = %d, want -32768", p.data[1])
	}
	if p.data[2] != 0 {
		t.Errorf("zero sample = %d, want 0", p.data[2])
	}
}

func TestWriteWAVRejectsBadRanges(t *testing.T) {
	buf := &SampleBuffer{Samples: make([]float64, 100), Channels: 1, SampleRate: 8000}

	tests := []struct {
		name       string
		start, end int
	}{
		{name: "negative start", start: -1, end: 10},
		{name: "end past buffer", start: 0, end: 101},
		{name: "empty range", start: 50, end: 50},
		{name: "inverted range", start: 60, end: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := WriteWAV(&out, buf, tt.start, tt.end); err == nil {
				t.Errorf("WriteWAV(%d, %d) succeeded, want error", tt.start, tt.end)
			}
			if out.Len() != 0 {
				t.Errorf("rejected write still produced %d bytes", out.Len())
			}
		})
	}
}
