package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/esiq/cachestore"
	"github.com/hupe1980/esiq/codec"
	"github.com/hupe1980/esiq/model"
)

// Store implements cachestore.Store backed by an S3 bucket: one object per
// system id. Freshness is the object's LastModified timestamp; S3 assigns
// it on PutObject, so Put needs no extra metadata.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
	ttl    time.Duration
	codec  codec.Codec
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix prepends a key prefix to every object (e.g. "systems/").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL overrides the freshness window. Values <= 0 fall back to
// cachestore.DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCodec overrides the record codec. If nil is passed, codec.Default is
// used.
func WithCodec(c codec.Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// NewStore creates an S3-backed store using the given client.
func NewStore(client *s3.Client, bucket string, optFns ...Option) *Store {
	s := &Store{
		client: client,
		bucket: bucket,
		ttl:    cachestore.DefaultTTL,
		codec:  codec.Default,
	}

	for _, fn := range optFns {
		fn(s)
	}

	return s
}

// New creates an S3-backed store from the ambient AWS configuration
// (environment, shared config files, instance role).
func New(ctx context.Context, bucket string, optFns ...Option) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewStore(s3.NewFromConfig(cfg), bucket, optFns...), nil
}

func (s *Store) key(id model.SystemID) string {
	return path.Join(s.prefix, fmt.Sprintf("%d.json", int32(id)))
}

// Get returns the fresh record for id, or cachestore.ErrMiss. A stale
// object is deleted as a side effect.
func (s *Store) Get(ctx context.Context, id model.SystemID) (*model.SolarSystem, error) {
	key := s.key(id)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, cachestore.ErrMiss
		}
		return nil, err
	}
	defer out.Body.Close()

	if out.LastModified != nil && time.Since(*out.LastModified) > s.ttl {
		_, _ = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return nil, cachestore.ErrMiss
	}

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, cachestore.ErrMiss
	}

	var rec model.SolarSystem
	if err := s.codec.Unmarshal(data, &rec); err != nil {
		return nil, cachestore.ErrMiss
	}

	return &rec, nil
}

// Put persists the record, overwriting any prior object for id.
func (s *Store) Put(ctx context.Context, id model.SystemID, rec *model.SolarSystem) error {
	data, err := s.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

// Invalidate removes the object for id unconditionally.
func (s *Store) Invalidate(ctx context.Context, id model.SystemID) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	return err
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	return errors.As(err, &nf)
}
