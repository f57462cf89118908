package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/you/aarogyam/domain"
)

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Presigner turns report attachment keys into time-limited download URLs
type S3Presigner struct {
	client presignAPI
	bucket string
	ttl    time.Duration
}

// NewS3Presigner loads the default AWS credential chain for region.
func NewS3Presigner(ctx context.Context, region, bucket string, ttl time.Duration) (*S3Presigner, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &S3Presigner{
		client: s3.NewPresignClient(s3.NewFromConfig(cfg)),
		bucket: bucket,
		ttl:    ttl,
	}, nil
}

// Sign implements domain.AttachmentSigner. Values that are already URLs
// are returned unchanged.
func (p *S3Presigner) Sign(ctx context.Context, key string) (string, error) {
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

var _ domain.AttachmentSigner = (*S3Presigner)(nil)
