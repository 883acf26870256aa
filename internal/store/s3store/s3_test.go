package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/loadstat/internal/codec/zstdcodec"
	"github.com/discochess/loadstat/internal/store"
)

// fakeS3 is an in-memory bucket that returns one key per list page.
type fakeS3 struct {
	objects map[string][]byte
	puts    int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	out := &s3.ListObjectsV2Output{}
	if start < len(keys) {
		out.Contents = []types.Object{{Key: aws.String(keys[start])}}
	}
	if start+1 < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(start + 1))
	}
	return out, nil
}

func newTestStore(t *testing.T, fake *fakeS3, prefix string) *Store {
	t.Helper()
	s := &Store{bucket: "perf", codec: zstdcodec.New()}
	for _, opt := range []Option{WithClient(fake), WithPrefix(prefix)} {
		if err := opt(s); err != nil {
			t.Fatalf("option error = %v", err)
		}
	}
	return s
}

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := &Store{}
			opt := WithPrefix(tt.input)
			if err := opt(s); err != nil {
				t.Fatalf("WithPrefix() error = %v", err)
			}
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestStore_baselineKey(t *testing.T) {
	tests := []struct {
		prefix   string
		scenario string
		want     string
	}{
		{"", "checkout", "baselines/checkout.json.zst"},
		{"perf/v1/", "checkout", "perf/v1/baselines/checkout.json.zst"},
		{"", "api.v2", "baselines/api.v2.json.zst"},
	}

	for _, tt := range tests {
		s := &Store{codec: zstdcodec.New(), prefix: tt.prefix}
		if got := s.baselineKey(tt.scenario); got != tt.want {
			t.Errorf("baselineKey(%q) = %q, want %q", tt.scenario, got, tt.want)
		}
	}
}

func TestStore_WriteRead(t *testing.T) {
	fake := newFakeS3()
	s := newTestStore(t, fake, "perf")
	ctx := context.Background()

	payload := []byte(`{"values":[10.5,11.2]}`)
	if err := s.WriteBaseline(ctx, "checkout", payload); err != nil {
		t.Fatalf("WriteBaseline() error = %v", err)
	}

	stored, ok := fake.objects["perf/baselines/checkout.json.zst"]
	if !ok {
		t.Fatalf("object not written, have %v", fake.objects)
	}
	if bytes.Equal(stored, payload) {
		t.Error("stored object is not compressed")
	}

	got, err := s.ReadBaseline(ctx, "checkout")
	if err != nil {
		t.Fatalf("ReadBaseline() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadBaseline() = %q, want %q", got, payload)
	}
}

func TestStore_ReadNotFound(t *testing.T) {
	s := newTestStore(t, newFakeS3(), "")

	_, err := s.ReadBaseline(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadBaseline() error = %v, want ErrNotFound", err)
	}
}

func TestStore_InvalidScenario(t *testing.T) {
	fake := newFakeS3()
	s := newTestStore(t, fake, "")

	if err := s.WriteBaseline(context.Background(), "a/b", []byte("x")); !errors.Is(err, store.ErrInvalidScenario) {
		t.Errorf("WriteBaseline() error = %v, want ErrInvalidScenario", err)
	}
	if fake.puts != 0 {
		t.Errorf("puts = %d, want 0", fake.puts)
	}
}

func TestStore_ListScenarios(t *testing.T) {
	fake := newFakeS3()
	s := newTestStore(t, fake, "perf")
	ctx := context.Background()

	for _, name := range []string{"search", "checkout", "login"} {
		if err := s.WriteBaseline(ctx, name, []byte("{}")); err != nil {
			t.Fatalf("WriteBaseline() error = %v", err)
		}
	}
	// Objects outside the prefix or with another extension are ignored.
	fake.objects["other/baselines/x.json.zst"] = nil
	fake.objects["perf/baselines/notes.txt"] = nil

	got, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("ListScenarios() error = %v", err)
	}
	want := []string{"checkout", "login", "search"}
	if len(got) != len(want) {
		t.Fatalf("ListScenarios() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListScenarios()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStore_Close(t *testing.T) {
	s := &Store{}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
