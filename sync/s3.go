package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config describes how to reach the destination bucket.
type S3Config struct {
	Region    string
	Endpoint  string // optional, e.g. LocalStack or MinIO; forces path-style addressing
	AccessKey string // optional static credentials; default chain otherwise
	SecretKey string
}

// NewS3Client builds an S3 client from the default AWS config chain,
// overridden by whatever cfg sets.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Destination uploads files to an S3 bucket under a key prefix.
//
// Change detection compares the object's ETag with the local MD5, which
// only holds for single-part uploads without SSE-KMS. Files larger than the
// uploader's part size get multipart ETags and are re-uploaded every run.
type S3Destination struct {
	client       *s3.Client
	uploader     *manager.Uploader
	bucket       string
	prefix       string
	storageClass types.StorageClass
}

// NewS3Destination creates a new S3Destination. A partSize of zero keeps
// the uploader's default.
func NewS3Destination(client *s3.Client, bucket, prefix string, storageClass types.StorageClass, partSize int64) *S3Destination {
	return &S3Destination{
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			if partSize > 0 {
				u.PartSize = partSize
			}
		}),
		bucket:       bucket,
		prefix:       prefix,
		storageClass: storageClass,
	}
}

func (d *S3Destination) fullKey(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if d.prefix == "" {
		return rel
	}
	return strings.TrimSuffix(d.prefix, "/") + "/" + rel
}

func (d *S3Destination) relKey(full string) string {
	if d.prefix == "" {
		return full
	}
	return strings.TrimPrefix(full, strings.TrimSuffix(d.prefix, "/")+"/")
}

func (d *S3Destination) Put(ctx context.Context, rel string, r io.Reader, size int64, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(d.fullKey(rel)),
		Body:          r,
		ContentLength: aws.Int64(size),
		StorageClass:  d.storageClass,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err := d.uploader.Upload(ctx, in)
	return err
}

func (d *S3Destination) Stat(ctx context.Context, rel string) (*ObjectMeta, error) {
	out, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.fullKey(rel)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("head %s: %w", d.fullKey(rel), ErrNotFound)
		}
		return nil, err
	}

	return &ObjectMeta{
		Key:          rel,
		Size:         aws.ToInt64(out.ContentLength),
		ETag:         normalizeETag(aws.ToString(out.ETag)),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

func (d *S3Destination) List(ctx context.Context) ([]ObjectMeta, error) {
	prefix := d.prefix
	if prefix != "" {
		prefix = strings.TrimSuffix(prefix, "/") + "/"
	}

	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(prefix),
	})

	var objs []ObjectMeta
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			objs = append(objs, ObjectMeta{
				Key:          d.relKey(aws.ToString(obj.Key)),
				Size:         aws.ToInt64(obj.Size),
				ETag:         normalizeETag(aws.ToString(obj.ETag)),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objs, nil
}

// isNotFound reports whether err is HeadObject's "no such key" answer.
// HEAD responses carry no body, so the SDK only knows the status code.
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
