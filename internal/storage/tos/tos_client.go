package tos

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"agentdemo/internal/credential"
	"agentdemo/internal/port"
)

// TOS exposes an S3-compatible API; the endpoint is derived from the
// region.
const endpointTemplate = "https://tos-%s.bytepluses.com"

type tosClient struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	uploader   *manager.Uploader
	httpClient *http.Client
}

// New creates a TOS-backed ObjectStorage implementation scoped to one
// credentials/region pair. The caller must Close it.
func New(cred credential.Credentials, region string) (port.ObjectStorage, error) {
	httpClient := &http.Client{Timeout: 5 * time.Minute}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithHTTPClient(httpClient),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cred.AccessKey, cred.SecretKey, cred.SessionToken),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading storage config: %w", err)
	}

	endpoint := fmt.Sprintf(endpointTemplate, region)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &tosClient{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		uploader:   manager.NewUploader(client),
		httpClient: httpClient,
	}, nil
}

func (c *tosClient) HeadBucket(ctx context.Context, bucket string) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return &port.ServerError{
				StatusCode: http.StatusNotFound,
				Code:       "NotFound",
				Message:    fmt.Sprintf("bucket %s not found", bucket),
			}
		}
		return translate(err)
	}
	return nil
}

func (c *tosClient) UploadFile(ctx context.Context, bucket, key, path string) (*port.UploadOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &port.ClientError{Err: fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, translate(err)
	}

	etag := ""
	if result.ETag != nil {
		etag = *result.ETag
	}

	return &port.UploadOutput{ETag: etag, UploadID: result.UploadID}, nil
}

func (c *tosClient) PresignGet(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Duration(expirySeconds)*time.Second))
	if err != nil {
		return "", translate(err)
	}
	return result.URL, nil
}

func (c *tosClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// translate normalizes SDK faults into the port error taxonomy so callers
// never handle SDK types directly.
func translate(err error) error {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		se := &port.ServerError{
			StatusCode: re.HTTPStatusCode(),
			RequestID:  re.ServiceRequestID(),
		}
		var ae smithy.APIError
		if errors.As(err, &ae) {
			se.Code = ae.ErrorCode()
			se.Message = ae.ErrorMessage()
		}
		return se
	}
	return &port.ClientError{Err: err}
}
