// internal/api/upload.go
package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadResult carries the served URL of an uploaded image
type UploadResult struct {
	URL string `json:"url"`
}

// UploadImage posts an image as multipart form data and returns its served
// URL. The whole file is buffered so the request can be replayed after a
// token refresh.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	const path = "/images/upload"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Path: path, Message: "failed to build upload form", cause: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &Error{Kind: KindValidation, Path: path, Message: "failed to read image data", cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindValidation, Path: path, Message: "failed to finalize upload form", cause: err}
	}

	env, status, err := c.roundTrip(ctx, http.MethodPost, path, buf.Bytes(), writer.FormDataContentType(), true)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		env, err = c.refreshAndRetry(ctx, http.MethodPost, path, buf.Bytes(), writer.FormDataContentType(), env)
		if err != nil {
			return nil, err
		}
	} else if status < 200 || status > 299 {
		return nil, c.serverFailure(path, status, env)
	}

	result := &UploadResult{}
	if err := decodeData(env, path, result); err != nil {
		return nil, err
	}
	if result.URL == "" {
		return nil, &Error{Kind: KindServer, Path: path, Message: "upload response missing url"}
	}
	return result, nil
}
