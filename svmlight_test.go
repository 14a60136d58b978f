package shogun

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	shogunerrors "github.com/NanuSai/shogun/errors"
)

func writeStreamFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.svm")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// =============================================================================
// End-to-end streaming
// =============================================================================

func TestFileReaderLabelledStream(t *testing.T) {
	path := writeStreamFile(t, strings.Join([]string{
		"1 0:1.5 3:2 7:-0.5",
		"-1 2:4.5  # trailing comment",
		"# a full comment line",
		"",
		"1 1:1",
	}, "\n"))

	const dim = 16
	stream, err := NewHashedStream(NewFileReader[float64](path), dim, WithLabels())
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}

	wantRaw := []SparseVector[float64]{
		{{Index: 0, Value: 1.5}, {Index: 3, Value: 2}, {Index: 7, Value: -0.5}},
		{{Index: 2, Value: 4.5}},
		{{Index: 1, Value: 1}},
	}
	wantLabels := []float64{1, -1, 1}

	sum := HashMurmur3.sum()
	for i := range wantRaw {
		ok, err := stream.NextExample()
		if err != nil {
			t.Fatalf("example %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("example %d: unexpected end of stream", i)
		}
		got, err := stream.Vector()
		if err != nil {
			t.Fatal(err)
		}
		want := hashVector(wantRaw[i], dim, false, true, sum)
		if !slices.Equal(got, want) {
			t.Errorf("example %d: got %v, want %v", i, got, want)
		}
		label, okLabel := stream.Label()
		if !okLabel || label != wantLabels[i] {
			t.Errorf("example %d: label = %v (ok=%v), want %v", i, label, okLabel, wantLabels[i])
		}
		stream.ReleaseExample()
	}

	if ok, err := stream.NextExample(); ok || err != nil {
		t.Errorf("expected clean end of stream, got ok=%v err=%v", ok, err)
	}
}

func TestFileReaderUnlabelledStream(t *testing.T) {
	path := writeStreamFile(t, "0:1 5:2\n9:3\n")

	stream, err := NewHashedStream(NewFileReader[float64](path), 8)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}

	count := 0
	for {
		ok, err := stream.NextExample()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		if _, ok := stream.Label(); ok {
			t.Error("unlabelled stream reported a label")
		}
		stream.ReleaseExample()
		count++
	}
	if count != 2 {
		t.Errorf("consumed %d examples, want 2", count)
	}
}

func TestFileReaderBufferRecycling(t *testing.T) {
	// Far more examples than buffer capacity: releasing each example must
	// keep the parser supplied with buffers.
	const n = 50
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d:%d.5\n", i, i)
	}
	path := writeStreamFile(t, sb.String())

	stream, err := NewHashedStream(NewFileReader[float64](path), 64, WithBufferCapacity(2))
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}

	count := 0
	for {
		ok, err := stream.NextExample()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		stream.ReleaseExample()
		count++
	}
	if count != n {
		t.Errorf("consumed %d examples, want %d", count, n)
	}
}

func TestFileReaderEmptyFile(t *testing.T) {
	path := writeStreamFile(t, "")

	stream, err := NewHashedStream(NewFileReader[float64](path), 8)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}
	if ok, err := stream.NextExample(); ok || err != nil {
		t.Errorf("empty file: expected immediate end of stream, got ok=%v err=%v", ok, err)
	}
}

func TestFileReaderNoFinalNewline(t *testing.T) {
	path := writeStreamFile(t, "0:1\n3:2") // last record unterminated

	stream, err := NewHashedStream(NewFileReader[float64](path), 8)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}

	count := 0
	for {
		ok, err := stream.NextExample()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		stream.ReleaseExample()
		count++
	}
	if count != 2 {
		t.Errorf("consumed %d examples, want 2", count)
	}
}

// =============================================================================
// Faults
// =============================================================================

func TestFileReaderMalformedRecord(t *testing.T) {
	cases := []struct {
		name    string
		content string
		labels  bool
	}{
		{"missing colon", "0:1 garbage\n", false},
		{"bad index", "x:1\n", false},
		{"bad value", "0:notanumber\n", false},
		{"bad label", "notalabel 0:1\n", true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeStreamFile(t, c.content)

			var opts []Option
			if c.labels {
				opts = append(opts, WithLabels())
			}
			stream, err := NewHashedStream(NewFileReader[float64](path), 8, opts...)
			if err != nil {
				t.Fatal(err)
			}
			defer stream.Close()
			if err := stream.Start(); err != nil {
				t.Fatal(err)
			}

			_, err = stream.NextExample()
			if !errors.Is(err, shogunerrors.ErrStreamRead) {
				t.Errorf("expected ErrStreamRead, got %v", err)
			}
			if !errors.Is(err, shogunerrors.ErrMalformedInput) {
				t.Errorf("expected ErrMalformedInput in chain, got %v", err)
			}
		})
	}
}

func TestFileReaderMissingFile(t *testing.T) {
	stream, err := NewHashedStream(NewFileReader[float64]("/nonexistent/stream.svm"), 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := stream.Start(); err == nil {
		t.Error("expected Start to fail for a missing file")
	}
}

// =============================================================================
// Teardown
// =============================================================================

func TestFileReaderCloseMidStream(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "%d:1\n", i)
	}
	path := writeStreamFile(t, sb.String())

	stream, err := NewHashedStream(NewFileReader[float64](path), 8, WithBufferCapacity(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}
	if ok, err := stream.NextExample(); !ok || err != nil {
		t.Fatalf("NextExample: ok=%v err=%v", ok, err)
	}

	// The parser is blocked ahead of the consumer; Close must cancel it
	// without hanging and without surfacing a fault.
	if err := stream.Close(); err != nil {
		t.Fatalf("Close mid-stream: %v", err)
	}
}

func TestFileReaderCloseBeforeOpen(t *testing.T) {
	r := NewFileReader[float64]("whatever.svm")
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := r.Next(); !errors.Is(err, shogunerrors.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestFileReaderIntegerElements(t *testing.T) {
	path := writeStreamFile(t, "2:3 9:-4\n")

	stream, err := NewHashedStream(NewFileReader[int32](path), 32)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		t.Fatal(err)
	}
	if ok, err := stream.NextExample(); !ok || err != nil {
		t.Fatalf("NextExample: ok=%v err=%v", ok, err)
	}
	vec, err := stream.Vector()
	if err != nil {
		t.Fatal(err)
	}
	var total int32
	for _, e := range vec {
		total += e.Value
	}
	if total != -1 {
		t.Errorf("sum of hashed values = %d, want -1 (3 + -4)", total)
	}
}
