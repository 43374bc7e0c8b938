package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/artledger/internal/common"
	sc "github.com/dmitrijs2005/artledger/internal/server/config"
)

// ErrContentStorageDisabled is returned when presign endpoints are used
// without S3 configured.
var ErrContentStorageDisabled = errors.New("content storage is not configured")

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ContentService hands out presigned URLs for artifact content blobs stored
// in S3-compatible object storage, gated by rights verification: only the
// author may upload, and only the author or a license holder may download.
type ContentService struct {
	registry *RegistryService
	config   *sc.Config
}

func NewContentService(registry *RegistryService, cfg *sc.Config) *ContentService {
	return &ContentService{registry: registry, config: cfg}
}

// Enabled reports whether object storage is configured.
func (s *ContentService) Enabled() bool {
	return s.config.S3BaseEndpoint != ""
}

func (s *ContentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// UploadURL returns a presigned PUT URL for the artifact's content blob.
// Only the file's author may request it.
func (s *ContentService) UploadURL(ctx context.Context, caller, hash string) (string, error) {
	if !s.Enabled() {
		return "", ErrContentStorageDisabled
	}

	isAuthor, err := s.registry.VerifyAuthorRight(ctx, caller, hash)
	if err != nil {
		return "", err
	}
	if !isAuthor {
		return "", fmt.Errorf("%w: only the author may upload content for %s", common.ErrorOwnershipMismatch, hash)
	}

	file, err := s.registry.GetFile(ctx, hash)
	if err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &file.StorageKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// DownloadURL returns a presigned GET URL for the artifact's content blob.
// With a license key the caller's license right is verified; without one the
// caller must be the author.
func (s *ContentService) DownloadURL(ctx context.Context, caller, hash, licenseKey string) (string, error) {
	if !s.Enabled() {
		return "", ErrContentStorageDisabled
	}

	if licenseKey == "" {
		isAuthor, err := s.registry.VerifyAuthorRight(ctx, caller, hash)
		if err != nil {
			return "", err
		}
		if !isAuthor {
			return "", fmt.Errorf("%w: principal %s has no rights to %s", common.ErrorOwnershipMismatch, caller, hash)
		}
	} else {
		if _, err := s.registry.VerifyLicenseRight(ctx, caller, hash, licenseKey); err != nil {
			return "", err
		}
	}

	file, err := s.registry.GetFile(ctx, hash)
	if err != nil {
		return "", err
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &file.StorageKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
