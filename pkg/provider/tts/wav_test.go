package tts

import (
	"bytes"
	"testing"
)

func TestSilent_MatchesCanonicalHeader(t *testing.T) {
	want := []byte{
		0x52, 0x49, 0x46, 0x46, 0x24, 0x00, 0x00, 0x00, 0x57, 0x41, 0x56, 0x45, 0x66, 0x6d, 0x74, 0x20,
		0x10, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x40, 0x1f, 0x00, 0x00, 0x80, 0x3e, 0x00, 0x00,
		0x02, 0x00, 0x10, 0x00, 0x64, 0x61, 0x74, 0x61, 0x00, 0x00, 0x00, 0x00,
	}
	got := Silent()
	if !bytes.Equal(got.Data, want) {
		t.Errorf("Silent().Data = % x\nwant            % x", got.Data, want)
	}
	if got.Format != FormatWAV || got.SampleRate != 8000 {
		t.Errorf("format/rate = %q/%d", got.Format, got.SampleRate)
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	pcm := make([]byte, 32000) // one second of 16 kHz mono
	wav := EncodeWAV(pcm, 16000, 1)

	info, err := ParseWAV(wav)
	if err != nil {
		t.Fatalf("ParseWAV: %v", err)
	}
	if info.DataOffset != WAVHeaderSize {
		t.Errorf("DataOffset = %d, want %d", info.DataOffset, WAVHeaderSize)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("format = %+v", info)
	}
	if d := info.Duration(); d != 1 {
		t.Errorf("Duration = %v, want 1", d)
	}
}

func TestParseWAV_SkipsExtraChunks(t *testing.T) {
	wav := EncodeWAV([]byte{1, 2, 3, 4}, 22050, 1)
	// Insert a LIST chunk with an odd size between fmt and data.
	list := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	info, err := ParseWAV(withList)
	if err != nil {
		t.Fatalf("ParseWAV: %v", err)
	}
	if info.DataOffset != WAVHeaderSize+len(list) {
		t.Errorf("DataOffset = %d, want %d", info.DataOffset, WAVHeaderSize+len(list))
	}
	if info.DataSize != 4 {
		t.Errorf("DataSize = %d, want 4", info.DataSize)
	}
}

func TestParseWAV_Invalid(t *testing.T) {
	tests := map[string][]byte{
		"short":   []byte("RIFF"),
		"no riff": []byte("XXXX\x00\x00\x00\x00WAVEfmt "),
		"no wave": []byte("RIFF\x00\x00\x00\x00AVI fmt "),
		"no data": EncodeWAV(nil, 8000, 1)[:36],
	}
	for name, wav := range tests {
		if _, err := ParseWAV(wav); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
