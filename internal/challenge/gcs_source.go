package challenge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

const gcsScheme = "gs://"

// GCSSource keeps the catalog in a Cloud Storage object.
type GCSSource struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSSource opens a storage client for a gs://bucket/object location.
func NewGCSSource(ctx context.Context, location string) (*GCSSource, error) {
	bucket, object, err := splitGCSLocation(location)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSSource{client: client, bucket: bucket, object: object}, nil
}

func splitGCSLocation(location string) (bucket, object string, err error) {
	rest := strings.TrimPrefix(location, gcsScheme)
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid catalog location %q: want gs://bucket/object", location)
	}
	return bucket, object, nil
}

func (s *GCSSource) handle() *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.object)
}

func (s *GCSSource) Read(ctx context.Context) ([]byte, error) {
	reader, err := s.handle().NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotExist, s)
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read catalog object: %w", err)
	}
	return data, nil
}

func (s *GCSSource) WriteIfAbsent(ctx context.Context, data []byte) error {
	writer := s.handle().If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if s.Format() == FormatYAML {
		writer.ContentType = "application/yaml"
	} else {
		writer.ContentType = "application/json"
	}

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write to storage: %w", err)
	}

	err := writer.Close()
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
		// Another process seeded the object first.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

func (s *GCSSource) Format() Format {
	return FormatFor(s.object)
}

func (s *GCSSource) String() string {
	return gcsScheme + s.bucket + "/" + s.object
}

// Close closes the storage client.
func (s *GCSSource) Close() error {
	return s.client.Close()
}
