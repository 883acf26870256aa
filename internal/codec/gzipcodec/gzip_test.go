package gzipcodec

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestCodec_Extension(t *testing.T) {
	c := New()
	if got := c.Extension(); got != "gz" {
		t.Errorf("Extension() = %q, want %q", got, "gz")
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	original := []byte(`{"version":1,"scenario":"checkout","values":[101.2,99.8,100.4,98.9]}`)

	levels := []struct {
		name string
		opts []Option
	}{
		{"default", nil},
		{"best speed", []Option{WithLevel(gzip.BestSpeed)}},
		{"best compression", []Option{WithLevel(gzip.BestCompression)}},
		{"invalid level ignored", []Option{WithLevel(42)}},
	}

	for _, tt := range levels {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.opts...)

			var compressed bytes.Buffer
			writer, err := c.Writer(&compressed)
			if err != nil {
				t.Fatalf("Writer() error = %v", err)
			}
			if _, err := writer.Write(original); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if err := writer.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			reader, err := c.Reader(&compressed)
			if err != nil {
				t.Fatalf("Reader() error = %v", err)
			}
			decompressed, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if err := reader.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if !bytes.Equal(decompressed, original) {
				t.Errorf("Round-trip failed: got %q, want %q", decompressed, original)
			}
		})
	}
}

func TestCodec_CompressesRepetitiveSamples(t *testing.T) {
	c := New()
	original := bytes.Repeat([]byte("100.25 "), 10000)

	var compressed bytes.Buffer
	writer, err := c.Writer(&compressed)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := writer.Write(original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if compressed.Len() >= len(original) {
		t.Errorf("Expected compression, got %d bytes from %d bytes", compressed.Len(), len(original))
	}
}

func TestCodec_Reader_InvalidData(t *testing.T) {
	c := New()
	invalidData := bytes.NewReader([]byte("not gzip data"))

	_, err := c.Reader(invalidData)
	if err == nil {
		t.Error("Reader() expected error for invalid gzip data, got nil")
	}
}
