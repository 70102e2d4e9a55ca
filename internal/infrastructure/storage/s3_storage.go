// Package storage implements the object store gateway on top of
// S3-compatible storage. Uploads land in a temporary bucket via presigned
// POST and are promoted to the permanent bucket once a product references
// them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/jujinjujeen/fuga/internal/apperrors"
	"github.com/jujinjujeen/fuga/internal/config"
	"github.com/jujinjujeen/fuga/internal/infrastructure/metrics"
	"github.com/jujinjujeen/fuga/internal/utils/storagekey"
)

// Bucket selects between the temporary and permanent stores.
type Bucket string

const (
	BucketTemp Bucket = "temp"
	BucketPerm Bucket = "perm"
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// fileNamePattern rejects path separators and other characters that would
// break the <uuid>/<name> key structure.
var fileNamePattern = regexp.MustCompile(`^[^/\\<>:"|?*]+$`)

// UploadGrant is a time-boxed presigned POST letting a client upload
// directly to the temporary bucket.
type UploadGrant struct {
	URL        string            `json:"url"`
	Fields     map[string]string `json:"fields"`
	StorageKey string            `json:"storageKey"`
}

// GrantRequest carries the client-declared upload parameters.
type GrantRequest struct {
	FileName      string
	ContentType   string
	ContentLength int64
}

// Object is a listed entry from one of the buckets.
type Object struct {
	Key          string
	LastModified time.Time
}

// S3Storage is the gateway over the temporary and permanent buckets.
type S3Storage struct {
	tempBucket string
	permBucket string
	grantTTL   time.Duration
	maxBytes   int64
	client     *s3.Client
	presigner  *s3.PresignClient
	log        zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &S3Storage{
		tempBucket: cfg.S3TempBucket,
		permBucket: cfg.S3PermBucket,
		grantTTL:   cfg.UploadGrantTTL,
		maxBytes:   cfg.MaxUploadBytes,
		client:     client,
		presigner:  s3.NewPresignClient(client),
		log:        log.With().Str("component", "s3-storage").Logger(),
	}, nil
}

// GenerateUploadGrant validates the declared upload and returns a presigned
// POST against the temporary bucket. The policy pins the exact content type
// and caps the payload size; the signature expires after the grant TTL.
func (s *S3Storage) GenerateUploadGrant(ctx context.Context, req GrantRequest) (*UploadGrant, error) {
	if req.FileName == "" || !fileNamePattern.MatchString(req.FileName) {
		return nil, apperrors.NewValidation("Invalid filename")
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		return nil, apperrors.NewValidation("Invalid file type. Only JPEG, PNG, and WEBP are allowed")
	}
	if req.ContentLength <= 0 || req.ContentLength > s.maxBytes {
		return nil, apperrors.NewValidation("Invalid file size. Maximum %d bytes allowed", s.maxBytes)
	}

	key := storagekey.New(req.FileName)

	start := time.Now()
	post, err := s.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.tempBucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignPostOptions) {
		opts.Expires = s.grantTTL
		opts.Conditions = []interface{}{
			[]interface{}{"content-length-range", 1, s.maxBytes},
			[]interface{}{"eq", "$Content-Type", req.ContentType},
		}
	})
	metrics.ObserveStorage("presign", start, err)
	if err != nil {
		return nil, apperrors.NewInfra(fmt.Sprintf("presign upload for %s", key), err)
	}

	return &UploadGrant{
		URL:        post.URL,
		Fields:     post.Values,
		StorageKey: key,
	}, nil
}

// Exists reports whether the key is present in the temporary bucket. A
// not-found transport signal maps to false; anything else is an infra fault.
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.tempBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			metrics.ObserveStorage("head", start, nil)
			return false, nil
		}
		metrics.ObserveStorage("head", start, err)
		return false, apperrors.NewInfra(fmt.Sprintf("check object existence %s", key), err)
	}
	metrics.ObserveStorage("head", start, nil)
	return true, nil
}

// Read buffers a temporary object, bounded by the upload size cap.
func (s *S3Storage) Read(ctx context.Context, key string) ([]byte, error) {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFound("Object not found in storage: %s", key)
	}

	start := time.Now()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.tempBucket),
		Key:    aws.String(key),
	})
	metrics.ObserveStorage("get", start, err)
	if err != nil {
		return nil, apperrors.NewInfra(fmt.Sprintf("read object %s", key), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, s.maxBytes+1))
	if err != nil {
		return nil, apperrors.NewInfra(fmt.Sprintf("read object body %s", key), err)
	}
	return data, nil
}

// Promote copies an object from the temporary to the permanent bucket
// preserving metadata, then deletes the temporary copy. If the copy
// succeeded but the temp delete fails, the operation is still reported as
// failed and the now-orphaned permanent copy is removed best-effort so the
// original error is never masked.
func (s *S3Storage) Promote(ctx context.Context, key string) error {
	start := time.Now()
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(s.permBucket),
		CopySource:        aws.String(s.tempBucket + "/" + url.PathEscape(key)),
		Key:               aws.String(key),
		MetadataDirective: types.MetadataDirectiveCopy,
	})
	metrics.ObserveStorage("copy", start, err)
	if err != nil {
		return apperrors.NewInfra(fmt.Sprintf("promote object %s", key), err)
	}

	if err := s.Remove(ctx, key, BucketTemp); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("temp delete after copy failed, reverting promotion")
		if cleanupErr := s.Remove(ctx, key, BucketPerm); cleanupErr != nil {
			s.log.Error().Err(cleanupErr).Str("key", key).Msg("failed to clean up partial copy in permanent bucket")
		}
		return apperrors.NewInfra(fmt.Sprintf("promote object %s", key), err)
	}
	return nil
}

// Remove deletes the key from the selected bucket.
func (s *S3Storage) Remove(ctx context.Context, key string, bucket Bucket) error {
	name := s.tempBucket
	if bucket == BucketPerm {
		name = s.permBucket
	}

	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(name),
		Key:    aws.String(key),
	})
	metrics.ObserveStorage("delete", start, err)
	if err != nil {
		return apperrors.NewInfra(fmt.Sprintf("delete object %s from %s", key, name), err)
	}
	return nil
}

// RemoveTemp deletes the key from the temporary bucket.
func (s *S3Storage) RemoveTemp(ctx context.Context, key string) error {
	return s.Remove(ctx, key, BucketTemp)
}

// RemovePerm deletes the key from the permanent bucket.
func (s *S3Storage) RemovePerm(ctx context.Context, key string) error {
	return s.Remove(ctx, key, BucketPerm)
}

// ListTemp lists every object in the temporary bucket, following
// continuation tokens until exhausted.
func (s *S3Storage) ListTemp(ctx context.Context) ([]Object, error) {
	return s.list(ctx, s.tempBucket)
}

// ListPerm lists every object in the permanent bucket.
func (s *S3Storage) ListPerm(ctx context.Context) ([]Object, error) {
	return s.list(ctx, s.permBucket)
}

func (s *S3Storage) list(ctx context.Context, bucket string) ([]Object, error) {
	var objects []Object
	var continuation *string

	for {
		start := time.Now()
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			ContinuationToken: continuation,
		})
		metrics.ObserveStorage("list", start, err)
		if err != nil {
			return nil, apperrors.NewInfra(fmt.Sprintf("list objects in %s", bucket), err)
		}

		for _, obj := range out.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			objects = append(objects, Object{
				Key:          *obj.Key,
				LastModified: *obj.LastModified,
			})
		}

		if out.NextContinuationToken == nil {
			return objects, nil
		}
		continuation = out.NextContinuationToken
	}
}

// Health performs a HeadBucket request against the temporary bucket.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.tempBucket)})
	return err
}
