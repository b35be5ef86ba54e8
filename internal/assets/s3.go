package assets

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/mkravets/vidstream/internal/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// S3Gateway implements Gateway against an S3-compatible endpoint
// (AWS S3, MinIO, etc.) using static credentials from server config.
type S3Gateway struct {
	config *sc.Config
}

// NewS3Gateway constructs a gateway from server config.
func NewS3Gateway(config *sc.Config) *S3Gateway {
	return &S3Gateway{config: config}
}

// storageKey derives a fresh, date-partitioned object key. The original file
// extension is kept so stored objects stay recognizable.
func storageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("images/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

func (g *S3Gateway) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(g.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			g.config.S3RootUser,
			g.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(g.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (g *S3Gateway) publicURL(key string) string {
	return strings.TrimRight(g.config.S3BaseEndpoint, "/") + "/" + g.config.S3Bucket + "/" + key
}

func (g *S3Gateway) Upload(ctx context.Context, filename string, content io.Reader) (*Asset, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client init: %w", err)
	}

	bucket := g.config.S3Bucket
	key := storageKey(filename)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   content,
	}); err != nil {
		return nil, fmt.Errorf("s3 put object: %w", err)
	}

	return &Asset{URL: g.publicURL(key), Key: key}, nil
}

func (g *S3Gateway) Delete(ctx context.Context, key string) error {
	client, err := g.getClient(ctx)
	if err != nil {
		return fmt.Errorf("s3 client init: %w", err)
	}

	bucket := g.config.S3Bucket
	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}); err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}
