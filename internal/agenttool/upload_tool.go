package agenttool

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"agentdemo/internal/upload"
)

type uploadInput struct {
	FilePath  string `json:"file_path"`
	ObjectKey string `json:"object_key,omitempty"`
	Bucket    string `json:"bucket,omitempty"`
}

type uploadOutput struct {
	Result string `json:"result"`
}

// NewUploadTool wraps the signed upload workflow as a function tool. The
// tool result is the workflow's string verbatim: either a signed URL or an
// "ERROR:" message the model can relay to the user.
func NewUploadTool(uploader *upload.Uploader) (tool.Tool, error) {
	t, err := functiontool.New(functiontool.Config{
		Name:        "upload_file_to_tos",
		Description: "Upload a local file to TOS object storage and return a signed, time-limited download URL. Pass the absolute path of the file to upload.",
	}, func(ctx tool.Context, in uploadInput) (uploadOutput, error) {
		result := uploader.Upload(ctx, upload.Request{
			FilePath:  in.FilePath,
			ObjectKey: in.ObjectKey,
			Bucket:    in.Bucket,
		})
		return uploadOutput{Result: result}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating upload tool: %w", err)
	}
	return t, nil
}
