package persistence

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)

	payloads := [][]byte{
		[]byte(`{"trip_id":1}`),
		[]byte(`{"vendor_id":2,"vendor_name":"Vendor 2"}`),
		{}, // empty payload is legal
	}
	ops := []byte{OpTrip, OpVendor, OpLocation}

	for i, p := range payloads {
		if err := fw.WriteFrame(ops[i], p); err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
	}

	r := bytes.NewReader(buf.Bytes())
	for i := range payloads {
		op, payload, _, err := ReadFrame(r)
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", i, err)
		}
		if op != ops[i] {
			t.Errorf("frame %d opcode = %d, want %d", i, op, ops[i])
		}
		if !bytes.Equal(payload, payloads[i]) {
			t.Errorf("frame %d payload = %q, want %q", i, payload, payloads[i])
		}
	}

	if _, _, _, err := ReadFrame(r); err != io.EOF {
		t.Errorf("expected clean EOF at end of stream, got %v", err)
	}
}

func TestReadFrameDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)
	if err := fw.WriteFrame(OpTrip, []byte("payload-bytes")); err != nil {
		t.Fatal(err)
	}

	t.Run("bad magic", func(t *testing.T) {
		raw := append([]byte(nil), buf.Bytes()...)
		raw[0] = 0x00
		_, _, _, err := ReadFrame(bytes.NewReader(raw))
		if err != ErrInvalidMagic {
			t.Errorf("got %v, want ErrInvalidMagic", err)
		}
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		raw := append([]byte(nil), buf.Bytes()...)
		raw[HeaderSize] ^= 0xFF
		_, _, _, err := ReadFrame(bytes.NewReader(raw))
		if err != ErrChecksumMismatch {
			t.Errorf("got %v, want ErrChecksumMismatch", err)
		}
	})

	t.Run("truncated payload", func(t *testing.T) {
		raw := buf.Bytes()[:HeaderSize+3]
		_, _, _, err := ReadFrame(bytes.NewReader(raw))
		if err != ErrIncompleteFrame {
			t.Errorf("got %v, want ErrIncompleteFrame", err)
		}
	})

	t.Run("truncated header", func(t *testing.T) {
		raw := buf.Bytes()[:4]
		_, _, _, err := ReadFrame(bytes.NewReader(raw))
		if err != ErrIncompleteFrame {
			t.Errorf("got %v, want ErrIncompleteFrame", err)
		}
	})
}

func TestLogWriterAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.log")

	w, err := NewLogWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	records := []string{"one", "two", "three"}
	for _, rec := range records {
		if err := w.Append(OpTrip, []byte(rec)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	var got []string
	n, err := Replay(path, func(op byte, payload []byte) error {
		if op != OpTrip {
			t.Errorf("opcode = %d, want OpTrip", op)
		}
		got = append(got, string(payload))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("replayed %d records, want 3", n)
	}
	for i, rec := range records {
		if got[i] != rec {
			t.Errorf("record %d = %q, want %q", i, got[i], rec)
		}
	}
}

func TestReplayToleratesTruncatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.log")

	w, err := NewLogWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	_ = w.Append(OpTrip, []byte("complete"))
	_ = w.Append(OpTrip, []byte("will-be-cut"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// Chop the last few bytes, simulating power loss mid-append.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(path, info.Size()-4); err != nil {
		t.Fatal(err)
	}

	n, err := Replay(path, func(op byte, payload []byte) error { return nil })
	if err != nil {
		t.Fatalf("truncated tail must not fail replay: %v", err)
	}
	if n != 1 {
		t.Errorf("replayed %d records, want only the complete one", n)
	}
}

func TestReplayMissingFile(t *testing.T) {
	n, err := Replay(filepath.Join(t.TempDir(), "absent.log"), func(byte, []byte) error { return nil })
	if err != nil {
		t.Fatalf("missing log is an empty log: %v", err)
	}
	if n != 0 {
		t.Errorf("replayed %d, want 0", n)
	}
}
