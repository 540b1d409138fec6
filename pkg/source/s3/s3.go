// Package s3 loads graph documents from Amazon S3 or any S3-compatible
// store.
//
// Objects are addressed with s3://bucket/key URIs:
//
//	c, err := s3.New(ctx, s3.Options{Region: "eu-west-1"})
//	data, err := c.Fetch(ctx, "s3://audit-exports/prod/security-groups.json")
//
// Throttling and server-side failures are retried with backoff; a missing
// object is reported as NOT_FOUND.
package s3

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/matzehuels/sgviz/pkg/cache"
	"github.com/matzehuels/sgviz/pkg/errors"
)

// MaxObjectSize bounds the size of a fetched graph document.
const MaxObjectSize = 64 << 20

// API is the subset of the S3 client used here.
type API interface {
	GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
}

// Options configures the S3 client. Empty fields fall back to the standard
// AWS environment (AWS_REGION, AWS_PROFILE, shared config files).
type Options struct {
	Region   string
	Profile  string
	Endpoint string // custom endpoint for S3-compatible stores; enables path-style addressing

	// Static credentials; both must be set to take effect.
	AccessKeyID     string
	SecretAccessKey string
}

// Client fetches graph documents from S3.
type Client struct {
	api API
}

// New loads the AWS configuration and creates a client.
func New(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load AWS config")
	}

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{api: client}, nil
}

// NewWithAPI wraps an existing client, typically a fake in tests.
func NewWithAPI(api API) *Client {
	return &Client{api: api}
}

// ParseURI splits s3://bucket/key into its parts.
func ParseURI(uri string) (bucket, key string, err error) {
	if err := errors.ValidateS3URI(uri); err != nil {
		return "", "", err
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
	return bucket, key, nil
}

// IsURI reports whether ref is an s3:// URI.
func IsURI(ref string) bool {
	return strings.HasPrefix(ref, "s3://")
}

// Fetch downloads the object at uri.
func (c *Client) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = cache.RetryWithBackoff(ctx, func() error {
		out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return classify(err)
		}
		defer out.Body.Close()

		data, err = io.ReadAll(io.LimitReader(out.Body, MaxObjectSize+1))
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		return nil, wrapFetchError(uri, err)
	}
	if len(data) > MaxObjectSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", uri, MaxObjectSize)
	}
	return data, nil
}

// Object is one listed key.
type Object struct {
	URI  string
	Size int64
}

// List returns the objects under prefix, following continuation tokens.
// prefix is an s3://bucket/prefix URI; the prefix part may be empty.
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	rest, ok := strings.CutPrefix(prefix, "s3://")
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "S3 URI must start with s3://")
	}
	bucket, keyPrefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "S3 URI must name a bucket: %q", prefix)
	}

	var objects []Object
	p := awss3.NewListObjectsV2Paginator(c.api, &awss3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(keyPrefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, wrapFetchError(prefix, classify(err))
		}
		for _, obj := range page.Contents {
			objects = append(objects, Object{
				URI:  fmt.Sprintf("s3://%s/%s", bucket, aws.ToString(obj.Key)),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

// classify maps SDK errors onto the cache sentinels, marking transient
// failures as retryable.
func classify(err error) error {
	var noKey *types.NoSuchKey
	var noBucket *types.NoSuchBucket
	if stderrors.As(err, &noKey) || stderrors.As(err, &noBucket) {
		return fmt.Errorf("%w: %v", cache.ErrNotFound, err)
	}

	var re *awshttp.ResponseError
	if stderrors.As(err, &re) {
		switch code := re.HTTPStatusCode(); {
		case code == http.StatusNotFound:
			return fmt.Errorf("%w: %v", cache.ErrNotFound, err)
		case code == http.StatusTooManyRequests || code >= 500:
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
	}
	return err
}

func wrapFetchError(uri string, err error) error {
	switch {
	case stderrors.Is(err, cache.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "fetch %s", uri)
	case stderrors.Is(err, cache.ErrNetwork):
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", uri)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errors.Wrap(errors.ErrCodeInternal, err, "fetch %s", uri)
	}
}
