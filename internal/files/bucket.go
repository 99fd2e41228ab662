package files

import (
	"context"
	"fmt"
	"io"
	"path"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// driver
	_ "gocloud.dev/blob/gcsblob"  // GCS driver
	_ "gocloud.dev/blob/s3blob"   // S3 driver
)

// BucketSource reads workbooks from a gocloud.dev blob bucket
type BucketSource struct {
	bucket *blob.Bucket
	url    string
	prefix string
}

// OpenBucketSource opens the bucket at url (file:///dir, s3://bucket, gs://bucket).
// Only objects directly under prefix are listed.
func OpenBucketSource(ctx context.Context, url, prefix string) (*BucketSource, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", url, err)
	}
	if prefix != "" {
		bucket = blob.PrefixedBucket(bucket, prefix)
	}
	return &BucketSource{bucket: bucket, url: url, prefix: prefix}, nil
}

// List returns the objects directly under the prefix
func (s *BucketSource) List(ctx context.Context) ([]FileInfo, error) {
	iter := s.bucket.List(&blob.ListOptions{Delimiter: "/"})

	var files []FileInfo
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", s.Location(), err)
		}
		if obj.IsDir {
			continue
		}
		files = append(files, FileInfo{
			Path:    obj.Key,
			Name:    path.Base(obj.Key),
			Size:    obj.Size,
			ModTime: obj.ModTime,
		})
	}
	return files, nil
}

// Open returns a reader for the object
func (s *BucketSource) Open(ctx context.Context, file FileInfo) (io.ReadCloser, error) {
	reader, err := s.bucket.NewReader(ctx, file.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", file.Path, err)
	}
	return reader, nil
}

// Location returns the bucket URL and prefix
func (s *BucketSource) Location() string {
	if s.prefix == "" {
		return s.url
	}
	return s.url + " (prefix " + s.prefix + ")"
}

// Close releases the bucket
func (s *BucketSource) Close() error {
	return s.bucket.Close()
}
