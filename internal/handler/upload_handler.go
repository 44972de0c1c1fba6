package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agentdemo/internal/upload"
)

// UploadHandler exposes the signed upload workflow over HTTP for non-agent
// callers.
type UploadHandler struct {
	uploader *upload.Uploader
	log      *zap.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploader *upload.Uploader, log *zap.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, log: log}
}

// Upload handles POST /api/v1/uploads. The multipart file is spooled to a
// temporary path so the workflow runs unchanged; the response body carries
// the workflow's string result verbatim.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "MISSING_FILE", "message": "file field is required"},
		})
		return
	}

	tmpDir, err := os.MkdirTemp("", "agentdemo-upload-*")
	if err != nil {
		h.log.Error("creating temp dir", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL", "message": "could not stage upload"},
		})
		return
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		h.log.Error("staging uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "INTERNAL", "message": "could not stage upload"},
		})
		return
	}

	var expiry int64
	if v := c.PostForm("expiry_seconds"); v != "" {
		expiry, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_EXPIRY", "message": "expiry_seconds must be an integer"},
			})
			return
		}
	}

	result := h.uploader.Upload(c.Request.Context(), upload.Request{
		FilePath:      tmpPath,
		Bucket:        c.PostForm("bucket"),
		ObjectKey:     c.PostForm("object_key"),
		Region:        c.PostForm("region"),
		ExpirySeconds: expiry,
	})

	if strings.HasPrefix(result, "ERROR:") {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "result": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// Health handles GET /healthz.
func (h *UploadHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
