package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var (
	ErrInvalidDataURL  = errors.New("invalid base64 image")
	ErrUploadsDisabled = errors.New("uploads are not configured")
)

// ObjectPutter is the part of the S3 client the uploader uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores profile pictures in a public bucket and returns their CDN URL.
type Uploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

// NewS3Uploader loads the default AWS config for region. An empty bucket yields a nil
// Uploader, which rejects uploads with ErrUploadsDisabled.
func NewS3Uploader(ctx context.Context, region, bucket, cloudFrontURL string) (*Uploader, error) {
	if bucket == "" {
		return nil, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}
	return NewUploader(s3.NewFromConfig(cfg), bucket, cloudFrontURL), nil
}

func NewUploader(client ObjectPutter, bucket, baseURL string) *Uploader {
	return &Uploader{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// DataURL is a decoded "data:<mime>;base64,<data>" image.
type DataURL struct {
	ContentType string
	Ext         string
	Data        []byte
}

func ParseDataURL(s string) (DataURL, error) {
	meta, data, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return DataURL{}, ErrInvalidDataURL
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return DataURL{}, fmt.Errorf("%w: %s is not an image", ErrInvalidDataURL, contentType)
	}

	var ext string
	switch contentType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	default:
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = "." + strings.TrimPrefix(contentType, "image/")
		}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return DataURL{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return DataURL{ContentType: contentType, Ext: ext, Data: raw}, nil
}

// UploadDataURL stores the image under profile-pictures/<owner>-<nanos><ext>.
func (u *Uploader) UploadDataURL(ctx context.Context, dataURL, owner string) (string, error) {
	if u == nil {
		return "", ErrUploadsDisabled
	}
	img, err := ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("profile-pictures/%s-%d%s", owner, time.Now().UnixNano(), img.Ext)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}
