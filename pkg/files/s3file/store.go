// Package s3file exposes an S3 (or MinIO) bucket as a device. "Directories" are
// common prefixes of keys split on "/".
package s3file

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/filetug/filepick/pkg/files"
)

const schema = "s3"

var _ files.Store = (*Store)(nil)

// Config describes how to reach the bucket.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// Prefix is the key prefix that acts as the device root.
	Prefix string
}

type Store struct {
	client s3.ListObjectsV2APIClient
	bucket string
	prefix string
}

// NewStore builds an S3 client from cfg. Static credentials are used when set,
// otherwise the default AWS credential chain.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	var options []func(*config.LoadOptions) error
	if cfg.Region != "" {
		options = append(options, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewStoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewStoreWithClient(client s3.ListObjectsV2APIClient, bucket, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) RootURL() url.URL {
	return url.URL{Scheme: schema, Host: s.bucket, Path: "/" + s.prefix}
}

func (s *Store) RootTitle() string {
	return schema + "://" + s.bucket
}

func (s *Store) keyPrefix(path string) string {
	p := strings.TrimPrefix(path, "/")
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return s.prefix + p
}

// OpenDir lists every page under the prefix. An empty listing below the root
// means the "directory" does not exist.
func (s *Store) OpenDir(ctx context.Context, path string) (files.DirHandle, error) {
	prefix := s.keyPrefix(path)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	var entries []files.DirEntry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects %s/%s: %w", s.bucket, prefix, err)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), "/")
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			entries = append(entries, files.NewDirEntry(name, files.KindDirectory))
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			options := []files.DirEntryOption{files.Size(aws.ToInt64(obj.Size))}
			if obj.LastModified != nil {
				options = append(options, files.ModTime(*obj.LastModified))
			}
			entries = append(entries, files.NewDirEntry(name, files.KindFile, options...))
		}
	}
	if len(entries) == 0 && prefix != s.prefix {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, prefix, files.ErrNotDirectory)
	}
	return files.NewListedHandle(entries, nil), nil
}
