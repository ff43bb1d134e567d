package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripjournal/internal/client/endpoints"
	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/client/request"
	"github.com/dmitrijs2005/tripjournal/internal/client/transport"
	"github.com/dmitrijs2005/tripjournal/internal/common"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newServerUploader(t *testing.T, base string, opts ...endpoints.Option) *ServerUploader {
	t.Helper()
	inv, err := transport.NewHTTPInvoker(transport.Options{})
	require.NoError(t, err)
	return NewServerUploader(request.NewBuilder(endpoints.MustResolver(base, opts...)), inv, nil)
}

func TestServerUploader_Upload(t *testing.T) {
	data := pngBytes(t, 4, 4)

	var gotPath, gotAuth, gotAccept, gotName, gotFile string
	var gotPart []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")

		f, hdr, err := r.FormFile(FormField)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotName = hdr.Filename
		gotFile = hdr.Header.Get("Content-Type")
		gotPart, _ = io.ReadAll(f)

		_, _ = w.Write([]byte(`{"url":"https://x/y.png"}`))
	}))
	defer srv.Close()

	u := newServerUploader(t, srv.URL)
	url, err := u.Upload(context.Background(), models.Token{AccessToken: "abc"}, data)
	require.NoError(t, err)

	assert.Equal(t, "https://x/y.png", url)
	assert.Equal(t, "/medias", gotPath)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Empty(t, gotAccept)
	assert.Equal(t, "upload.png", gotName)
	assert.Equal(t, "image/png", gotFile)
	assert.Equal(t, data, gotPart)
}

func TestServerUploader_UsesConfiguredUploadPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"url":"https://x/y.png"}`))
	}))
	defer srv.Close()

	u := newServerUploader(t, srv.URL, endpoints.WithUploadPath("mediasUploaded"))
	_, err := u.Upload(context.Background(), models.Token{AccessToken: "abc"}, []byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, "/mediasUploaded", gotPath)
}

func TestServerUploader_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"missing url", http.StatusOK, `{}`, common.ErrBadResponse},
		{"null url", http.StatusOK, `{"url":null}`, common.ErrBadResponse},
		{"empty url", http.StatusOK, `{"url":""}`, common.ErrBadResponse},
		{"not json", http.StatusOK, `<html>`, common.ErrFailedToDecodeResponse},
		{"rejected", http.StatusUnprocessableEntity, `{"detail":"too big"}`, common.ErrUnprocessableEntity},
		{"server error", http.StatusInternalServerError, ``, common.ErrBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			u := newServerUploader(t, srv.URL)
			_, err := u.Upload(context.Background(), models.Token{AccessToken: "abc"}, []byte("raw"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestS3Uploader_PutsObjectAndReturnsPublicURL(t *testing.T) {
	data := pngBytes(t, 2, 2)

	var gotMethod, gotPath, gotCT string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := NewS3Uploader(context.Background(), S3Options{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "journal",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		PublicURL:       "https://cdn.example.com/",
		Prefix:          "/trips/",
	}, nil)
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), models.Token{}, data)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.True(t, strings.HasPrefix(gotPath, "/journal/trips/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ".png"), gotPath)
	assert.Equal(t, "image/png", gotCT)
	assert.True(t, bytes.Contains(gotBody, data))

	key := strings.TrimPrefix(gotPath, "/journal/")
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestS3Uploader_ServerErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	u, err := NewS3Uploader(context.Background(), S3Options{
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		Bucket:          "journal",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		PublicURL:       "https://cdn.example.com",
	}, nil)
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), models.Token{}, []byte("raw"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload to s3")
}

func TestNewS3Uploader_RequiresBucketAndCredentials(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Options{Bucket: "b"}, nil)
	require.ErrorIs(t, err, ErrIncompleteS3Config)
}
