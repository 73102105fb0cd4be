package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"chonkit/internal/apperr"
)

// S3Config configures the S3Store backend. Works against AWS S3 and
// S3-compatible services (e.g. MinIO) via Endpoint/UsePathStyle.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	Prefix       string
}

// S3Store implements Store using AWS SDK Go v2.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store builds an S3Store from cfg.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, apperr.New(apperr.ConfigError, "s3 bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = aws.String(cfg.Endpoint) })
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		bucket: cfg.Bucket,
		prefix: strings.TrimSuffix(cfg.Prefix, "/"),
	}, nil
}

func (s *S3Store) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func (s *S3Store) stripPrefix(key string) string {
	if s.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, s.prefix+"/")
}

func (s *S3Store) Write(ctx context.Context, path string, data []byte, overwrite bool) (string, error) {
	if !overwrite {
		if _, err := s.Read(ctx, path); err == nil {
			return "", alreadyExists(path)
		} else if !apperr.Is(err, apperr.NotFound) {
			return "", err
		}
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", path, err)
	}
	return path, nil
}

func (s *S3Store) Read(ctx context.Context, path string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return nil, notFound(path)
		}
		return nil, fmt.Errorf("s3 get %s: %w", path, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 body %s: %w", path, err)
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	})
	if err != nil && !isNotFoundErr(err) {
		return fmt.Errorf("s3 delete %s: %w", path, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]Entry, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.fullKey(prefix)),
	}
	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("s3 list %s: %w", prefix, err)
	}
	entries := make([]Entry, 0, len(out.Contents))
	for _, obj := range out.Contents {
		key := s.stripPrefix(aws.ToString(obj.Key))
		entries = append(entries, Entry{Path: key, Name: key[strings.LastIndex(key, "/")+1:], IsDir: false})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func isNotFoundErr(err error) bool {
	var notFound *s3types.NotFound
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey) ||
		strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}

var _ Store = (*S3Store)(nil)
