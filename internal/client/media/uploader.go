// Package media implements the binary half of media creation: an image is
// optionally downscaled and then uploaded, yielding the URL that the media
// record will point at.
package media

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tripjournal/internal/client/endpoints"
	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/client/request"
	"github.com/dmitrijs2005/tripjournal/internal/client/response"
	"github.com/dmitrijs2005/tripjournal/internal/client/transport"
	"github.com/dmitrijs2005/tripjournal/internal/common"
	"github.com/dmitrijs2005/tripjournal/internal/logging"
)

const (
	ModeURL    = "url"
	ModeBase64 = "base64"

	UploaderServer = "server"
	UploaderS3     = "s3"
)

// FormField is the multipart field carrying the image.
const FormField = "file"

// Uploader stores image bytes somewhere reachable and returns their URL.
type Uploader interface {
	Upload(ctx context.Context, token models.Token, data []byte) (string, error)
}

// ServerUploader posts the image to the journal service's upload endpoint.
type ServerUploader struct {
	builder *request.Builder
	invoker transport.Invoker
	log     logging.Logger
}

func NewServerUploader(b *request.Builder, inv transport.Invoker, log logging.Logger) *ServerUploader {
	if log == nil {
		log = logging.Nop()
	}
	return &ServerUploader{builder: b, invoker: inv, log: log.With("component", "media")}
}

// Upload sends a multipart POST carrying only Authorization and the
// multipart Content-Type. A response without a URL is ErrBadResponse.
func (u *ServerUploader) Upload(ctx context.Context, token models.Token, data []byte) (string, error) {
	ct := http.DetectContentType(data)
	d, err := u.builder.Build(http.MethodPost, endpoints.MediaUpload(), &token,
		request.Multipart(FormField, fileName(ct), ct, data),
		request.WithoutAccept(),
	)
	if err != nil {
		return "", err
	}

	res, err := u.invoker.Do(ctx, d)
	if err != nil {
		return "", err
	}

	out, err := response.Decode[models.UploadResponse](ctx, u.log, res)
	if err != nil {
		return "", err
	}
	if out.URL == nil || *out.URL == "" {
		return "", fmt.Errorf("%w: upload response has no url", common.ErrBadResponse)
	}

	u.log.Debug(ctx, "media uploaded", "url", *out.URL, "bytes", len(data))
	return *out.URL, nil
}

func fileName(contentType string) string {
	return "upload" + extension(contentType)
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".bin"
	}
}
