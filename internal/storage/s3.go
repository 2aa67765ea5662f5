package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the slice of the S3 client this package uses, as an interface for
// testability.
type s3API interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, input *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type s3Presigner interface {
	PresignGetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Config holds S3-compatible object storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	AWSRegion string
	AccessKey string
	SecretKey string
}

// S3Backend stores blobs in an S3-compatible bucket and issues presigned
// GET URLs for reads.
type S3Backend struct {
	client   s3API
	presign  s3Presigner
	bucket   string
	endpoint string
	awsReg   string
	region   Region
}

func NewS3Backend(cfg S3Config, region Region) *S3Backend {
	opts := s3.Options{
		Region:       cfg.AWSRegion,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	client := s3.New(opts)

	return &S3Backend{
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		awsReg:   cfg.AWSRegion,
		region:   region,
	}
}

// Region returns the delivery region this backend serves.
func (b *S3Backend) Region() Region {
	return b.region
}

func (b *S3Backend) Store(ctx context.Context, prefix string, data []byte, originalName, mimeType string) (*Object, error) {
	key := GenerateKey(prefix, originalName)

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, unavailable("put object", err)
	}

	return &Object{Key: key, URL: b.objectURL(key)}, nil
}

func (b *S3Backend) Retrieve(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, unavailable("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, unavailable("read object body", err)
	}
	return data, nil
}

// Delete removes the object at key. S3 treats deleting a missing key as
// success, which matches the contract here.
func (b *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNoSuchKey(err) {
		return unavailable("delete object", err)
	}
	return nil
}

func (b *S3Backend) AccessURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	out, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", unavailable("presign get object", err)
	}
	return out.URL, nil
}

// Exists reports whether key is present in the bucket.
func (b *S3Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, unavailable("head object", err)
	}
	return true, nil
}

func (b *S3Backend) objectURL(key string) string {
	if b.endpoint != "" {
		return strings.TrimSuffix(b.endpoint, "/") + "/" + b.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.bucket, b.awsReg, key)
}

func isNoSuchKey(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}
