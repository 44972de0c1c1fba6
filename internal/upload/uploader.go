package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"agentdemo/internal/credential"
	"agentdemo/internal/port"
	"agentdemo/internal/storage/tos"
)

// DefaultExpirySeconds is the signed URL validity applied when a request
// does not set one (7 days).
const DefaultExpirySeconds int64 = 604800

// Config carries the workflow defaults and the names of the environment
// variables consulted when a request leaves a field empty.
type Config struct {
	DefaultBucket string
	DefaultRegion string
	DefaultExpiry int64
	BucketEnv     string
	RegionEnv     string
	AccessKeyEnv  string
	SecretKeyEnv  string
	IAMEndpoint   string
}

// Request describes one upload. Only FilePath is required; everything else
// falls back to environment variables and configured defaults.
type Request struct {
	FilePath      string
	Bucket        string
	ObjectKey     string
	Region        string
	AccessKey     string
	SecretKey     string
	SessionToken  string
	ExpirySeconds int64
}

// ClientFactory builds a storage client scoped to one credentials/region
// pair.
type ClientFactory func(cred credential.Credentials, region string) (port.ObjectStorage, error)

// Uploader runs the signed upload workflow. It is immutable after
// construction; each Upload call acquires and releases its own client, so
// concurrent calls are independent.
type Uploader struct {
	cfg       Config
	newClient ClientFactory
	now       func() time.Time
	log       *zap.Logger
}

// Option customizes an Uploader.
type Option func(*Uploader)

// WithClientFactory overrides how storage clients are constructed.
func WithClientFactory(f ClientFactory) Option {
	return func(u *Uploader) { u.newClient = f }
}

// WithLogger sets the workflow logger.
func WithLogger(log *zap.Logger) Option {
	return func(u *Uploader) { u.log = log }
}

// WithClock overrides the clock used for object key derivation.
func WithClock(now func() time.Time) Option {
	return func(u *Uploader) { u.now = now }
}

// New creates an Uploader.
func New(cfg Config, opts ...Option) *Uploader {
	u := &Uploader{
		cfg:       cfg,
		newClient: tos.New,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload uploads the file named by req.FilePath and returns a signed GET
// URL for it. Every failure is converted into a human-readable string with
// an "ERROR:" prefix; the method never panics or returns partial results.
// The result is plain text because it is ultimately surfaced to a
// model-driven caller as tool output.
func (u *Uploader) Upload(ctx context.Context, req Request) string {
	bucket := req.Bucket
	if bucket == "" {
		if v := os.Getenv(u.cfg.BucketEnv); v != "" {
			bucket = v
			u.log.Info("using bucket from env", zap.String("bucket", bucket))
		} else {
			bucket = u.cfg.DefaultBucket
			u.log.Warn("bucket not provided in env, using default bucket",
				zap.String("bucket", bucket))
		}
	}
	region := req.Region
	if region == "" {
		if v := os.Getenv(u.cfg.RegionEnv); v != "" {
			region = v
			u.log.Info("using region from env", zap.String("region", region))
		} else {
			region = u.cfg.DefaultRegion
			u.log.Warn("region not provided in env, using default region",
				zap.String("region", region))
		}
	}

	// Validate the source before touching credentials or the network.
	info, err := os.Stat(req.FilePath)
	if err != nil {
		msg := fmt.Sprintf("ERROR: File does not exist: %s", req.FilePath)
		u.log.Error(msg, zap.Error(err))
		return msg
	}
	if !info.Mode().IsRegular() {
		msg := fmt.Sprintf("ERROR: Path is not a file: %s", req.FilePath)
		u.log.Error(msg)
		return msg
	}

	chain := credential.Chain{Providers: []credential.Provider{
		credential.Static{
			AccessKey:    req.AccessKey,
			SecretKey:    req.SecretKey,
			SessionToken: req.SessionToken,
		},
		credential.Env{
			AccessKeyVar: u.cfg.AccessKeyEnv,
			SecretKeyVar: u.cfg.SecretKeyEnv,
		},
		credential.IAM{Endpoint: u.cfg.IAMEndpoint, Log: u.log},
	}}
	cred, found, err := chain.Retrieve(ctx)
	if err != nil {
		msg := fmt.Sprintf("ERROR: Missing %s/%s and failed to load platform IAM credentials: %v",
			u.cfg.AccessKeyEnv, u.cfg.SecretKeyEnv, err)
		u.log.Error(msg)
		return msg
	}
	if !found {
		msg := fmt.Sprintf("ERROR: %s and %s are not provided (and IAM role is not configured).",
			u.cfg.AccessKeyEnv, u.cfg.SecretKeyEnv)
		u.log.Error(msg)
		return msg
	}

	objectKey := req.ObjectKey
	if objectKey == "" {
		// Timestamp suffix keeps same-named uploads from overwriting each
		// other.
		timestamp := u.now().Format("20060102_150405")
		objectKey = fmt.Sprintf("upload/%s_%s", filepath.Base(req.FilePath), timestamp)
	}

	expiry := req.ExpirySeconds
	if expiry <= 0 {
		expiry = u.cfg.DefaultExpiry
	}
	if expiry <= 0 {
		expiry = DefaultExpirySeconds
	}

	client, err := u.newClient(cred, region)
	if err != nil {
		msg := fmt.Sprintf("ERROR: TOS client error: %v", err)
		u.log.Error(msg)
		return msg
	}
	defer client.Close()

	u.log.Info("starting file upload",
		zap.String("file_path", req.FilePath),
		zap.String("bucket", bucket),
		zap.String("object_key", objectKey))

	if err := client.HeadBucket(ctx, bucket); err != nil {
		if port.IsNotFound(err) {
			u.log.Info("bucket does not exist, creating...", zap.String("bucket", bucket))
		} else {
			return u.fail(err)
		}
	} else {
		u.log.Info("bucket already exists", zap.String("bucket", bucket))
	}

	result, err := client.UploadFile(ctx, bucket, objectKey, req.FilePath)
	if err != nil {
		return u.fail(err)
	}
	u.log.Info("file uploaded",
		zap.String("etag", result.ETag),
		zap.String("upload_id", result.UploadID))

	url, err := client.PresignGet(ctx, bucket, objectKey, expiry)
	if err != nil {
		return u.fail(err)
	}
	u.log.Info("signed URL generated",
		zap.Int64("expiry_seconds", expiry),
		zap.String("url", url))

	return url
}

// fail maps a storage fault onto the string error channel.
func (u *Uploader) fail(err error) string {
	var se *port.ServerError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("ERROR: TOS server error: %s", se.Error())
		u.log.Error(msg, zap.String("request_id", se.RequestID))
		return msg
	}
	var ce *port.ClientError
	if errors.As(err, &ce) {
		msg := fmt.Sprintf("ERROR: TOS client error: %v", ce.Err)
		u.log.Error(msg)
		return msg
	}
	msg := fmt.Sprintf("ERROR: File upload failed: %v", err)
	u.log.Error(msg)
	return msg
}
