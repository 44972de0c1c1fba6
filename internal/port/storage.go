package port

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// UploadOutput contains the result of a successful object transfer.
// UploadID is populated only when the transfer was split into a multipart
// upload; single-part puts leave it empty.
type UploadOutput struct {
	ETag     string
	UploadID string
}

// ObjectStorage abstracts the TOS object storage operations used by the
// upload workflow. Implementations own a network connection and must be
// closed after use.
type ObjectStorage interface {
	// HeadBucket probes for the bucket. A missing bucket is reported as a
	// *ServerError with status 404.
	HeadBucket(ctx context.Context, bucket string) error
	// UploadFile transfers the whole file at path to bucket/key.
	UploadFile(ctx context.Context, bucket, key, path string) (*UploadOutput, error)
	// PresignGet returns a time-limited signed GET URL for bucket/key.
	PresignGet(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
	// Close releases the client's network resources.
	Close()
}

// ServerError is a fault reported by the storage service.
type ServerError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("status_code=%d, code=%s, message=%s", e.StatusCode, e.Code, e.Message)
}

// ClientError is a fault raised on the client side before the service
// produced a response (malformed request, local I/O, connectivity).
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	return e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a server fault with status 404.
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
