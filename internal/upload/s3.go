// Package upload ships the exported tracks to S3 as per-track MP3s,
// filed under a date folder the way a session archive is browsed later.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tapeworks/bandsaw/internal/audio"
	"github.com/tapeworks/bandsaw/internal/export"
	"github.com/tapeworks/bandsaw/internal/tracks"
)

// S3Client is the slice of the S3 API the uploader touches. The
// concrete *s3.Client satisfies it; tests plug in an in-memory mock.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Progress is called once before each track goes up, with 1-based
// current, the total, and the destination key.
type Progress func(current, total int, key string)

// encodeFunc renders one segment range as MP3. Swappable so uploader
// tests run without ffmpeg.
type encodeFunc func(ctx context.Context, buf *audio.SampleBuffer, start, end int, bitrate string) ([]byte, error)

// ErrNothingToUpload is returned when the export view is empty.
var ErrNothingToUpload = errors.New("nothing to upload")

// Uploader encodes segments and puts them into one bucket under an
// optional key prefix.
type Uploader struct {
	client  S3Client
	bucket  string
	prefix  string
	bitrate string
	encode  encodeFunc
}

// New builds an uploader. An empty bitrate uses the export default.
func New(client S3Client, bucket, prefix, bitrate string) *Uploader {
	if bitrate == "" {
		bitrate = export.DefaultBitrate
	}
	return &Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		bitrate: bitrate,
		encode:  export.EncodeMP3,
	}
}

// UploadTracks encodes every segment of the export view and uploads
// them in order as `[prefix/]YYYY-MM-DD/NN - Name.mp3`, with the date
// taken from day. The first failure stops the run; already uploaded
// tracks stay where they are and the caller decides whether to retry.
func (u *Uploader) UploadTracks(ctx context.Context, buf *audio.SampleBuffer, view []tracks.Segment, day time.Time, progress Progress) error {
	if len(view) == 0 {
		return fmt.Errorf("upload: %w", ErrNothingToUpload)
	}

	folder := day.Format("2006-01-02")
	for i, seg := range view {
		key := u.key(folder, i, seg.Name)
		if progress != nil {
			progress(i+1, len(view), key)
		}

		data, err := u.encode(ctx, buf, seg.CropStart, seg.CropEnd, u.bitrate)
		if err != nil {
			return fmt.Errorf("upload: encode %q: %w", seg.Name, err)
		}
		_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("audio/mpeg"),
		})
		if err != nil {
			return fmt.Errorf("upload: put %s: %w", key, err)
		}
	}
	return nil
}

// key builds one object key from the date folder, the 1-based track
// number, and the sanitized segment name.
func (u *Uploader) key(folder string, position int, name string) string {
	clean := export.SanitizeName(name, fmt.Sprintf("Track %d", position+1))
	key := fmt.Sprintf("%s/%02d - %s.mp3", folder, position+1, clean)
	if u.prefix == "" {
		return key
	}
	return strings.TrimSuffix(u.prefix, "/") + "/" + key
}
