package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"
)

// headConcurrency bounds the HeadObject fan-out during a listing.
const headConcurrency = 8

// Object is one stored file as the provider sees it: key, payload
// attributes and the free-form metadata attached at upload time.
type Object struct {
	Key          string
	ContentType  string
	Size         int64
	LastModified time.Time
	Metadata     map[string]string
}

// S3Store adapts an S3-compatible bucket (AWS or MinIO) to the role
// of the portal's external media provider.
type S3Store struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucket     string
	region     string
	endpoint   string
	publicRead bool
	presignTTL time.Duration
}

func NewS3Store(ctx context.Context, region, bucket, endpoint string, publicRead bool, presignTTL time.Duration) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{
		client:     client,
		uploader:   manager.NewUploader(client),
		bucket:     bucket,
		region:     region,
		endpoint:   endpoint,
		publicRead: publicRead,
		presignTTL: presignTTL,
	}, nil
}

// Put uploads an object together with its metadata.
func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte, metadata map[string]string) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})
	return err
}

// List returns the objects under prefix whose keys pass keep, with
// their metadata resolved. Head requests run with bounded concurrency;
// ordering and capping are left to the caller.
func (s *S3Store) List(ctx context.Context, prefix string, keep func(key string) bool) ([]Object, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, err
	}

	var keys []string
	modified := make(map[string]time.Time)
	for _, c := range out.Contents {
		key := aws.ToString(c.Key)
		if keep != nil && !keep(key) {
			continue
		}
		keys = append(keys, key)
		modified[key] = aws.ToTime(c.LastModified)
	}

	objs := make([]Object, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(headConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			head, err := s.client.HeadObject(gctx, &s3.HeadObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			})
			if err != nil {
				return fmt.Errorf("head %s: %w", key, err)
			}
			objs[i] = Object{
				Key:          key,
				ContentType:  aws.ToString(head.ContentType),
				Size:         aws.ToInt64(head.ContentLength),
				LastModified: modified[key],
				Metadata:     head.Metadata,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return objs, nil
}

// Head returns a single object's attributes and metadata.
func (s *S3Store) Head(ctx context.Context, key string) (*Object, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return &Object{
		Key:          key,
		ContentType:  aws.ToString(head.ContentType),
		Size:         aws.ToInt64(head.ContentLength),
		LastModified: aws.ToTime(head.LastModified),
		Metadata:     head.Metadata,
	}, nil
}

// ReplaceMetadata rewrites an object's metadata in place via a
// self-copy. The payload is untouched.
func (s *S3Store) ReplaceMetadata(ctx context.Context, key, contentType string, metadata map[string]string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:            aws.String(s.bucket),
		Key:               aws.String(key),
		CopySource:        aws.String(url.PathEscape(s.bucket + "/" + key)),
		ContentType:       aws.String(contentType),
		Metadata:          metadata,
		MetadataDirective: types.MetadataDirectiveReplace,
	})
	return err
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// URL resolves a key to something a browser can fetch: the public
// bucket URL when the bucket is world-readable, a presigned GET
// otherwise.
func (s *S3Store) URL(ctx context.Context, key string) (string, error) {
	if s.publicRead {
		return s.publicURL(key), nil
	}
	pc := s3.NewPresignClient(s.client)
	req, err := pc.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3Store) publicURL(key string) string {
	escaped := escapeKey(key)
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, escaped)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}

// escapeKey escapes each path segment without touching the separators.
func escapeKey(key string) string {
	segs := strings.Split(key, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
