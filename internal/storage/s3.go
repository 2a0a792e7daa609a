package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store serves the wedding gallery out of one S3 bucket under a fixed
// key prefix.
//
// S3 can only list keys in ascending order, so the newest-first cursor is
// emulated: every page walks the full listing (continuation tokens
// internally), sorts descending, and skips past the cursor name. That is
// O(total objects) per page. A wedding gallery tops out in the low
// thousands of objects, where one extra listing round-trip per page is
// cheaper than maintaining a secondary index.
type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	prefix    string
	urlExpiry time.Duration
	now       func() time.Time
}

// NewS3Store creates a gallery store backed by S3
func NewS3Store(region, bucket, prefix string, urlExpiry time.Duration) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		prefix:    prefix,
		urlExpiry: urlExpiry,
		now:       time.Now,
	}, nil
}

// ListPage lists one page of photos, newest first.
func (s *S3Store) ListPage(ctx context.Context, limit int, cursor string) (*Page, error) {
	var names []string
	sizes := make(map[string]int64)
	modified := make(map[string]time.Time)

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}
	for {
		out, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, s.prefix)
			if name == "" {
				continue // the prefix "directory" marker itself
			}
			names = append(names, name)
			sizes[name] = aws.ToInt64(obj.Size)
			if obj.LastModified != nil {
				modified[name] = *obj.LastModified
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}

	page := paginateDescending(names, limit, cursor)

	objects := make([]Object, 0, len(page.names))
	for _, name := range page.names {
		objects = append(objects, Object{
			Key:          s.prefix + name,
			Name:         name,
			Size:         sizes[name],
			LastModified: modified[name],
		})
	}

	result := &Page{Objects: objects, HasMore: page.hasMore}
	if len(objects) > 0 {
		result.NextCursor = objects[len(objects)-1].Name
	}
	return result, nil
}

// descendingPage is the pure cursor bookkeeping, split out for testing.
type descendingPage struct {
	names   []string
	hasMore bool
}

// paginateDescending sorts names newest-first and slices the page after
// the cursor. hasMore is false once the skip index plus the page reaches
// the total item count.
func paginateDescending(names []string, limit int, cursor string) descendingPage {
	sorted := append([]string(nil), names...)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	start := 0
	if cursor != "" {
		// Skip past every name at or after the cursor in descending order.
		start = sort.Search(len(sorted), func(i int) bool {
			return sorted[i] < cursor
		})
	}

	if start >= len(sorted) {
		return descendingPage{names: nil, hasMore: false}
	}

	end := start + limit
	if end > len(sorted) {
		end = len(sorted)
	}

	return descendingPage{
		names:   sorted[start:end],
		hasMore: end < len(sorted),
	}
}

// PresignGet resolves a time-limited retrieval URL for an object
func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.urlExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Upload writes photo bytes under a collision-resistant timestamped name
func (s *S3Store) Upload(ctx context.Context, data []byte, filename, contentType string) (*Object, error) {
	now := s.now()
	name := TimestampedName(filename, now)
	key := s.prefix + name

	if contentType == "" {
		contentType = ContentTypeForFilename(filename)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),

		// Photos never change once uploaded
		CacheControl: aws.String("max-age=86400"),

		Metadata: map[string]string{
			"original-filename": filename,
			"upload-timestamp":  now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &Object{
		Key:          key,
		Name:         name,
		Size:         int64(len(data)),
		LastModified: now,
	}, nil
}

// Download reads one photo's bytes by name
func (s *S3Store) Download(ctx context.Context, name string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", name, err)
	}
	return data, nil
}

// Delete removes a photo from S3
func (s *S3Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// CheckBucketAccess verifies that we can access the S3 bucket
func (s *S3Store) CheckBucketAccess(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access S3 bucket %s: %w", s.bucket, err)
	}
	return nil
}

// TimestampedName builds the object name <upload-millis>_<filename>.
// The prefix disambiguates concurrent uploads of the same file and makes
// descending name order equal reverse-chronological order.
func TimestampedName(filename string, now time.Time) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename strips any path components and characters that are not
// safe in an object key.
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "photo"
	}
	return b.String()
}

// ContentTypeForFilename returns the MIME type for accepted photo and
// video extensions.
func ContentTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
