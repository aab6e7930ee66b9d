// Package storage is the attachment storage collaborator: it turns raw
// image data into durable URLs. The rest of the system only ever stores
// and relays those URLs.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	appconfig "github.com/shashibhushan21/Chat-App32/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageSize caps a single decoded image at 5MB
const MaxImageSize = 5 * 1024 * 1024

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader stores images in an S3 bucket and returns their public URLs
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewUploader creates an S3-backed uploader from the AWS configuration
func NewUploader(ctx context.Context, cfg appconfig.AWSConfig) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	}

	return &Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// UploadImage decodes a base64 data URI (data:image/png;base64,...) and
// stores it under the given prefix, returning the durable URL.
func (u *Uploader) UploadImage(ctx context.Context, prefix, dataURI string) (string, error) {
	mime, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	ext, ok := extByMIME[mime]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", mime)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("image exceeds limit of 5MB (got %.2fMB)", float64(len(data))/(1024*1024))
	}

	key := fmt.Sprintf("%s/%s-%d%s", prefix, uuid.New().String(), time.Now().Unix(), ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mime),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}

// UploadImages uploads a batch of data URIs and returns their URLs in order
func (u *Uploader) UploadImages(ctx context.Context, prefix string, dataURIs []string) ([]string, error) {
	urls := make([]string, 0, len(dataURIs))
	for _, uri := range dataURIs {
		url, err := u.UploadImage(ctx, prefix, uri)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func decodeDataURI(dataURI string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mime, enc, ok := strings.Cut(meta, ";")
	if !ok || enc != "base64" {
		return "", nil, fmt.Errorf("data URI must be base64 encoded")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return mime, data, nil
}
