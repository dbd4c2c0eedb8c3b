package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/tracks"
)

// mockS3 records uploads in memory and can fail on demand.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string]mockObject
	order   []string
	putErr  error
}

type mockObject struct {
	body        []byte
	contentType string
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string]mockObject)}
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return nil, m.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	m.objects[key] = mockObject{body: body, contentType: aws.ToString(in.ContentType)}
	m.order = append(m.order, key)
	return &s3.PutObjectOutput{}, nil
}

// fakeEncode stamps the range into the payload instead of invoking
// ffmpeg, so tests can check which crop bounds were encoded.
func fakeEncode(_ context.Context, _ *audio.SampleBuffer, start, end int, bitrate string) ([]byte, error) {
	return []byte(fmt.Sprintf("mp3 %d-%d @%s", start, end, bitrate)), nil
}

func testView(t *testing.T, names ...string) []tracks.Segment {
	t.Helper()
	boundaries := make([]int, 0, len(names)-1)
	for i := 1; i < len(names); i++ {
		boundaries = append(boundaries, i*1000)
	}
	segments, err := tracks.Build(len(names)*1000, boundaries)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i, name := range names {
		segments[i].Name = name
	}
	return segments
}

func testUploader(client S3Client, prefix string) *Uploader {
	u := New(client, "rehearsals", prefix, "")
	u.encode = fakeEncode
	return u
}

var testDay = time.Date(2026, 3, 7, 22, 15, 0, 0, time.UTC)

func TestUploadTracksKeys(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock, "sessions")
	view := testView(t, "Opening Jam", "Ballad", "Closer")

	if err := u.UploadTracks(context.Background(), nil, view, testDay, nil); err != nil {
		t.Fatalf("UploadTracks: %v", err)
	}

	want := []string{
		"sessions/2026-03-07/01 - Opening Jam.mp3",
		"sessions/2026-03-07/02 - Ballad.mp3",
		"sessions/2026-03-07/03 - Closer.mp3",
	}
	if len(mock.order) != len(want) {
		t.Fatalf("uploaded %v, want %v", mock.order, want)
	}
	for i := range want {
		if mock.order[i] != want[i] {
			t.Errorf("upload %d went to %q, want %q", i, mock.order[i], want[i])
		}
	}
}

func TestUploadTracksNoPrefix(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock, "")
	view := testView(t, "Solo")

	if err := u.UploadTracks(context.Background(), nil, view, testDay, nil); err != nil {
		t.Fatalf("UploadTracks: %v", err)
	}
	if _, ok := mock.objects["2026-03-07/01 - Solo.mp3"]; !ok {
		t.Errorf("got keys %v, want date-rooted key", mock.order)
	}
}

func TestUploadTracksPrefixSlashTrimmed(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock, "band/live/")
	view := testView(t, "Solo")

	if err := u.UploadTracks(context.Background(), nil, view, testDay, nil); err != nil {
		t.Fatalf("UploadTracks: %v", err)
	}
	if _, ok := mock.objects["band/live/2026-03-07/01 - Solo.mp3"]; !ok {
		t.Errorf("got keys %v, want single-slash join", mock.order)
	}
}

func TestUploadTracksBodiesAndType(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock, "")
	view := testView(t, "A", "B")
	view[1].CropStart, view[1].CropEnd = 1200, 1800

	if err := u.UploadTracks(context.Background(), nil, view, testDay, nil); err != nil {
		t.Fatalf("UploadTracks: %v", err)
	}

	obj := mock.objects["2026-03-07/02 - B.mp3"]
	if got, want := string(obj.body), "mp3 1200-1800 @192k"; got != want {
		t.Errorf("body = %q, want %q (crop bounds must reach the encoder)", got, want)
	}
	if obj.contentType != "audio/mpeg" {
		t.Errorf("content type = %q, want audio/mpeg", obj.contentType)
	}
}

func TestUploadTracksSanitizesNames(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock, "")
	view := testView(t, "takes/march")

	if err := u.UploadTracks(context.Background(), nil, view, testDay, nil); err != nil {
		t.Fatalf("UploadTracks: %v", err)
	}
	if _, ok := mock.objects["2026-03-07/01 - takes-march.mp3"]; !ok {
		t.Errorf("got keys %v, want sanitized name", mock.order)
	}
}

func TestUploadTracksProgress(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock, "")
	view := testView(t, "A", "B", "C")

	type call struct {
		current, total int
		key            string
	}
	var calls []call
	err := u.UploadTracks(context.Background(), nil, view, testDay, func(cur, total int, key string) {
		calls = append(calls, call{cur, total, key})
	})
	if err != nil {
		t.Fatalf("UploadTracks: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("got %d progress calls, want 3", len(calls))
	}
	for i, c := range calls {
		if c.current != i+1 || c.total != 3 {
			t.Errorf("call %d = %d/%d, want %d/3", i, c.current, c.total, i+1)
		}
		if !strings.Contains(c.key, fmt.Sprintf("%02d - ", i+1)) {
			t.Errorf("call %d key = %q, want numbered key", i, c.key)
		}
	}
}

func TestUploadTracksEncodeError(t *testing.T) {
	mock := newMockS3()
	u := testUploader(mock, "")
	calls := 0
	u.encode = func(ctx context.Context, buf *audio.SampleBuffer, start, end int, bitrate string) ([]byte, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("lame blew up")
		}
		return []byte("ok"), nil
	}
	view := testView(t, "A", "B", "C")

	err := u.UploadTracks(context.Background(), nil, view, testDay, nil)
	if err == nil || !strings.Contains(err.Error(), "lame blew up") {
		t.Fatalf("err = %v, want the encoder's reason", err)
	}
	if len(mock.objects) != 1 {
		t.Errorf("%d objects uploaded before the failure, want 1", len(mock.objects))
	}
}

func TestUploadTracksPutError(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("access denied")
	u := testUploader(mock, "")
	view := testView(t, "A")

	err := u.UploadTracks(context.Background(), nil, view, testDay, nil)
	if err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("err = %v, want the client's reason", err)
	}
}

func TestUploadTracksEmptyView(t *testing.T) {
	u := testUploader(newMockS3(), "")
	err := u.UploadTracks(context.Background(), nil, nil, testDay, nil)
	if !errors.Is(err, ErrNothingToUpload) {
		t.Errorf("err = %v, want ErrNothingToUpload", err)
	}
}
