package helpers

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3ImageStore stores profile images in an S3-compatible bucket (AWS or MinIO).
type S3ImageStore struct {
	Client *s3.Client
	Bucket string
	// PublicBase prefixes object keys to build public URLs, e.g. http://127.0.0.1:9000/avatars
	PublicBase string
}

// NewS3ImageStore builds a client with static credentials. baseEndpoint may be
// empty for AWS itself; path-style addressing is used when it is set.
func NewS3ImageStore(ctx context.Context, region, baseEndpoint, accessKey, secretKey, bucket, publicBase string) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &S3ImageStore{Client: client, Bucket: bucket, PublicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (s *S3ImageStore) url(key string) string {
	return s.PublicBase + "/" + key
}

// keyFromURL returns the object key when url was produced by this store.
func (s *S3ImageStore) keyFromURL(url string) (string, bool) {
	prefix := s.PublicBase + "/"
	if s.PublicBase == "" || !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

func (s *S3ImageStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(objectPath),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-store"),
	})
	if err != nil {
		return "", err
	}
	return s.url(objectPath), nil
}

// Delete removes the object behind url. URLs outside the store are ignored.
func (s *S3ImageStore) Delete(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return nil
	}
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil
	}
	return err
}
