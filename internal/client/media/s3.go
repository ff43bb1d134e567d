package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/logging"
)

var ErrIncompleteS3Config = errors.New("incomplete s3 configuration")

// S3Options describe an S3-compatible bucket. PublicURL is the origin the
// uploaded objects are served from.
type S3Options struct {
	Endpoint        string `json:"endpoint"`
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	PublicURL       string `json:"public_url"`
	Prefix          string `json:"prefix"`
}

// S3Uploader puts images straight into a bucket. The bearer token is not
// used; the bucket has its own credentials.
type S3Uploader struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
	log       logging.Logger
}

func NewS3Uploader(ctx context.Context, opts S3Options, log logging.Logger) (*S3Uploader, error) {
	if opts.Bucket == "" || opts.PublicURL == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, ErrIncompleteS3Config
	}
	if opts.Region == "" {
		opts.Region = "auto"
	}
	if log == nil {
		log = logging.Nop()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:    client,
		bucket:    opts.Bucket,
		prefix:    strings.Trim(opts.Prefix, "/"),
		publicURL: strings.TrimSuffix(opts.PublicURL, "/"),
		log:       log.With("component", "media"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, _ models.Token, data []byte) (string, error) {
	ct := http.DetectContentType(data)
	key := path.Join(u.prefix, uuid.NewString()+extension(ct))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ct),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}

	url := u.publicURL + "/" + key
	u.log.Debug(ctx, "media uploaded", "url", url, "bytes", len(data))
	return url, nil
}
