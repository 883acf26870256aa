package codec_test

import (
	"bytes"
	"testing"

	"github.com/discochess/loadstat/internal/codec"
	"github.com/discochess/loadstat/internal/codec/gzipcodec"
	"github.com/discochess/loadstat/internal/codec/noopcodec"
	"github.com/discochess/loadstat/internal/codec/zstdcodec"
)

func TestEncodeDecode(t *testing.T) {
	original := []byte("baseline payload")

	codecs := map[string]codec.Codec{
		"noop": noopcodec.New(),
		"gzip": gzipcodec.New(),
		"zstd": zstdcodec.New(),
	}

	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			encoded, err := codec.Encode(c, original)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			decoded, err := codec.Decode(c, encoded)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !bytes.Equal(decoded, original) {
				t.Errorf("Decode(Encode(x)) = %q, want %q", decoded, original)
			}
		})
	}
}

func TestEncode_Noop(t *testing.T) {
	got, err := codec.Encode(noopcodec.New(), []byte("plain"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != "plain" {
		t.Errorf("Encode() = %q, want %q", got, "plain")
	}
}
