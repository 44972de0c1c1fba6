package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agentdemo/internal/config"
	"agentdemo/internal/credential"
	"agentdemo/internal/handler"
	"agentdemo/internal/port"
	"agentdemo/internal/router"
	"agentdemo/internal/upload"
	"agentdemo/mocks"
)

func testUploaderConfig() upload.Config {
	return upload.Config{
		DefaultBucket: "demo-bucket",
		DefaultRegion: "cn-beijing",
		BucketEnv:     "HANDLER_TEST_BUCKET",
		RegionEnv:     "HANDLER_TEST_REGION",
		AccessKeyEnv:  "HANDLER_TEST_AK",
		SecretKeyEnv:  "HANDLER_TEST_SK",
	}
}

func newTestRouter(t *testing.T, storage port.ObjectStorage, authSecret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploader := upload.New(testUploaderConfig(), upload.WithClientFactory(
		func(cred credential.Credentials, region string) (port.ObjectStorage, error) {
			return storage, nil
		},
	))
	uploadH := handler.NewUploadHandler(uploader, zap.NewNop())

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = authSecret
	cfg.Auth.Issuer = "agentdemo"
	return router.Setup(cfg, uploadH, zap.NewNop())
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadEndpoint_Success(t *testing.T) {
	t.Setenv("HANDLER_TEST_AK", "ak")
	t.Setenv("HANDLER_TEST_SK", "sk")

	storage := new(mocks.MockObjectStorage)
	storage.On("HeadBucket", mock.Anything, "demo-bucket").Return(nil)
	storage.On("UploadFile", mock.Anything, "demo-bucket", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return(&port.UploadOutput{ETag: "etag"}, nil)
	storage.On("PresignGet", mock.Anything, "demo-bucket", mock.AnythingOfType("string"), upload.DefaultExpirySeconds).
		Return("https://signed?X-Amz-Signature=abc", nil)
	storage.On("Close").Return()

	r := newTestRouter(t, storage, "")

	body, contentType := multipartBody(t, "video.mp4", []byte("clip"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://signed")
	storage.AssertNumberOfCalls(t, "Close", 1)
}

func TestUploadEndpoint_MissingFileField(t *testing.T) {
	r := newTestRouter(t, new(mocks.MockObjectStorage), "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_FILE")
}

func TestUploadEndpoint_MalformedExpiryRejected(t *testing.T) {
	r := newTestRouter(t, new(mocks.MockObjectStorage), "")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "video.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("clip"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("expiry_seconds", "one-week"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_EXPIRY")
}

func TestUploadEndpoint_WorkflowErrorIsBadGateway(t *testing.T) {
	// No credentials configured: the workflow fails before the client is
	// ever constructed.
	r := newTestRouter(t, new(mocks.MockObjectStorage), "")

	body, contentType := multipartBody(t, "video.mp4", []byte("clip"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "ERROR:")
	assert.Contains(t, w.Body.String(), "HANDLER_TEST_AK")
}

func TestUploadEndpoint_RequiresBearerWhenSecretConfigured(t *testing.T) {
	r := newTestRouter(t, new(mocks.MockObjectStorage), "test-secret")

	body, contentType := multipartBody(t, "video.mp4", []byte("clip"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadEndpoint_ValidBearerAccepted(t *testing.T) {
	t.Setenv("HANDLER_TEST_AK", "ak")
	t.Setenv("HANDLER_TEST_SK", "sk")

	storage := new(mocks.MockObjectStorage)
	storage.On("HeadBucket", mock.Anything, mock.AnythingOfType("string")).Return(nil)
	storage.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&port.UploadOutput{}, nil)
	storage.On("PresignGet", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("https://signed", nil)
	storage.On("Close").Return()

	r := newTestRouter(t, storage, "test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "agentdemo",
		"sub": "tester",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	body, contentType := multipartBody(t, "video.mp4", []byte("clip"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, new(mocks.MockObjectStorage), "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
