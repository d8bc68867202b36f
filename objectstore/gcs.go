// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"
)

const gcsMetricNamePrefix = "objectstore_"

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	logger          *slog.Logger
	promRegistry    prometheus.Registerer
	client          *storage.Client
	bucket          *storage.BucketHandle
	bucketName      string
	credentialsFile string
	opsTotal        prometheus.Counter
	bytesTotal      prometheus.Counter
}

type GCSOptionFunc func(*GCS)

// WithBucket specifies the GCS bucket name
func WithBucket(bucket string) GCSOptionFunc {
	return func(g *GCS) {
		g.bucketName = bucket
	}
}

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) GCSOptionFunc {
	return func(g *GCS) {
		g.logger = logger
	}
}

// WithCredentialsFile specifies a service account credentials file
func WithCredentialsFile(path string) GCSOptionFunc {
	return func(g *GCS) {
		g.credentialsFile = path
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) GCSOptionFunc {
	return func(g *GCS) {
		g.promRegistry = registry
	}
}

// NewGCS creates a GCS-backed object store and opens the client.
func NewGCS(ctx context.Context, opts ...GCSOptionFunc) (*GCS, error) {
	g := &GCS{}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if g.bucketName == "" {
		return nil, errors.New("gcs: bucket not set")
	}

	var clientOpts []option.ClientOption
	if g.credentialsFile != "" {
		clientOpts = append(
			clientOpts,
			option.WithCredentialsFile(g.credentialsFile),
		)
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: failed in creating storage client: %w", err)
	}
	g.client = client
	g.bucket = client.Bucket(g.bucketName)

	if g.promRegistry != nil {
		g.registerMetrics()
	}
	g.logger.Debug("gcs: client ready", "bucket", g.bucketName)
	return g, nil
}

func (g *GCS) registerMetrics() {
	g.opsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: gcsMetricNamePrefix + "ops_total",
			Help: "Total number of object store operations",
		},
	)
	g.bytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: gcsMetricNamePrefix + "bytes_total",
			Help: "Total bytes read/written for object store operations",
		},
	)
	g.promRegistry.MustRegister(g.opsTotal, g.bytesTotal)
}

func (g *GCS) countOp(bytes int) {
	if g.opsTotal != nil {
		g.opsTotal.Inc()
	}
	if g.bytesTotal != nil {
		g.bytesTotal.Add(float64(bytes))
	}
}

// Close closes the GCS client.
func (g *GCS) Close() error {
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

func (g *GCS) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("gcs: read %s: %w", key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs: read %s: %w", key, err)
	}
	g.countOp(len(data))
	return data, nil
}

func (g *GCS) Put(ctx context.Context, key string, data []byte) error {
	w := g.bucket.Object(key).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs: write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs: write %s: %w", key, err)
	}
	g.countOp(len(data))
	return nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	err := g.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs: delete %s: %w", key, err)
	}
	g.countOp(0)
	return nil
}

func (g *GCS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.bucket.Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("gcs: stat %s: %w", key, err)
	}
	return true, nil
}

func (g *GCS) SignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := g.bucket.SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "PUT",
		Expires: time.Now().Add(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("gcs: sign %s: %w", key, err)
	}
	return url, nil
}

func (g *GCS) PublicURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucketName, key)
}
