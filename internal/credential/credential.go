package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Credentials is an access key / secret key / session token triplet. The
// session token is empty for long-lived keys.
type Credentials struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
}

// Provider yields credentials from one source. The boolean reports whether
// the source had credentials at all; an error means the source was
// consulted and failed.
type Provider interface {
	Retrieve(ctx context.Context) (Credentials, bool, error)
}

// Static returns the credentials it was constructed with, when both keys
// are present.
type Static struct {
	AccessKey    string
	SecretKey    string
	SessionToken string
}

func (p Static) Retrieve(ctx context.Context) (Credentials, bool, error) {
	if p.AccessKey == "" || p.SecretKey == "" {
		return Credentials{}, false, nil
	}
	return Credentials{
		AccessKey:    p.AccessKey,
		SecretKey:    p.SecretKey,
		SessionToken: p.SessionToken,
	}, true, nil
}

// Env reads the access/secret key pair from the named environment
// variables.
type Env struct {
	AccessKeyVar string
	SecretKeyVar string
}

func (p Env) Retrieve(ctx context.Context) (Credentials, bool, error) {
	ak := os.Getenv(p.AccessKeyVar)
	sk := os.Getenv(p.SecretKeyVar)
	if ak == "" || sk == "" {
		return Credentials{}, false, nil
	}
	return Credentials{AccessKey: ak, SecretKey: sk}, true, nil
}

// IAM fetches short-lived credentials from the platform identity service.
// An empty endpoint means no IAM role is configured for the runtime, which
// is reported as not-found rather than a failure.
type IAM struct {
	Endpoint string
	Client   *http.Client
	Log      *zap.Logger
}

type iamResponse struct {
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken"`
	ExpiredTime     string `json:"ExpiredTime"`
}

func (p IAM) Retrieve(ctx context.Context) (Credentials, bool, error) {
	if p.Endpoint == "" {
		return Credentials{}, false, nil
	}

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint, nil)
	if err != nil {
		return Credentials{}, false, fmt.Errorf("building IAM request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Credentials{}, false, fmt.Errorf("calling IAM endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Credentials{}, false, fmt.Errorf("IAM endpoint returned %d: %s", resp.StatusCode, body)
	}

	var out iamResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Credentials{}, false, fmt.Errorf("decoding IAM response: %w", err)
	}
	if out.AccessKeyID == "" || out.SecretAccessKey == "" {
		return Credentials{}, false, fmt.Errorf("IAM response missing key material")
	}

	if p.Log != nil {
		p.Log.Info("loaded credentials from platform IAM",
			zap.String("expired_time", out.ExpiredTime))
	}
	return Credentials{
		AccessKey:    out.AccessKeyID,
		SecretKey:    out.SecretAccessKey,
		SessionToken: out.SessionToken,
	}, true, nil
}

// Chain tries each provider in order and stops at the first that reports
// found. A provider failure stops the chain and is returned to the caller.
type Chain struct {
	Providers []Provider
}

func (c Chain) Retrieve(ctx context.Context) (Credentials, bool, error) {
	for _, p := range c.Providers {
		cred, ok, err := p.Retrieve(ctx)
		if err != nil {
			return Credentials{}, false, err
		}
		if ok {
			return cred, true, nil
		}
	}
	return Credentials{}, false, nil
}
