package s3storage

import (
	"context"
	"errors"
	"filevault/internal/models"
	"filevault/internal/repositories/storage"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

const pkg = "s3Storage/"

const (
	DefaultFolder     = "file-system"
	DefaultPresignTTL = 5 * time.Minute
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

var (
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	unsafeChars   = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	extension     = regexp.MustCompile(`\.[^.]+$`)
)

type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	Folder        string
	PublicBaseURL string
	Presign       bool
	PresignTTL    time.Duration
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Storage keeps file content in an S3 compatible bucket.
type Storage struct {
	cfg        Config
	objects    objectAPI
	presigner  getPresigner
	httpClient *http.Client
}

var _ storage.FileStorage = (*Storage)(nil)

// New builds the gateway. An unconfigured gateway is still returned so that
// AssertConfigured can report what is missing at request time.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	op := pkg + "New"

	cfg = withDefaults(cfg)

	s := &Storage{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	if len(missingSettings(cfg)) > 0 {
		return s, nil
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: load aws config: %w", op, err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	s.objects = client
	s.presigner = s3.NewPresignClient(client)

	return s, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = DefaultPresignTTL
	}
	return cfg
}

func missingSettings(cfg Config) []string {
	missing := make([]string, 0, 3)
	if cfg.Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if cfg.AccessKey == "" {
		missing = append(missing, "S3_ACCESS_KEY")
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "S3_SECRET_KEY")
	}
	return missing
}

func (s *Storage) AssertConfigured() error {
	missing := missingSettings(s.cfg)
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", models.ErrStorageNotConfigured, strings.Join(missing, ", "))
	}
	if s.objects == nil {
		return models.ErrStorageNotConfigured
	}
	return nil
}

func (s *Storage) SaveFile(ctx context.Context, content io.ReadSeeker, size int64, originalName string, mime string) (*models.StoredObject, error) {
	op := pkg + "SaveFile"

	if err := s.AssertConfigured(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := s.ObjectKey(originalName)

	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          content,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(mime),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return nil, fmt.Errorf("%s: %w", op, models.ErrObjectExists)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrStorage, err)
	}

	return &models.StoredObject{
		URL:      s.PublicURL(key),
		PublicID: key,
	}, nil
}

func (s *Storage) LoadFile(ctx context.Context, file *models.File) (io.ReadCloser, error) {
	op := pkg + "LoadFile"

	url := file.StorageURL

	if s.cfg.Presign && s.presigner != nil {
		req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(file.StoragePublicID),
		}, s3.WithPresignExpires(s.cfg.PresignTTL))
		if err != nil {
			return nil, fmt.Errorf("%s: presign: %w: %w", op, models.ErrUpstream, err)
		}
		url = req.URL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUpstream, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w: status %d", op, models.ErrUpstream, resp.StatusCode)
	}

	return resp.Body, nil
}

func (s *Storage) DeleteFile(ctx context.Context, publicID string) error {
	op := pkg + "DeleteFile"

	if err := s.AssertConfigured(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrStorage, err)
	}

	return nil
}

// ObjectKey maps an uploaded file name to its key inside the configured folder.
func (s *Storage) ObjectKey(originalName string) string {
	return s.cfg.Folder + "/" + BaseName(originalName)
}

func (s *Storage) PublicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
}

// SanitizeFilename replaces whitespace runs and every character outside
// [A-Za-z0-9_.-] with an underscore.
func SanitizeFilename(name string) string {
	name = whitespaceRun.ReplaceAllString(name, "_")
	return unsafeChars.ReplaceAllString(name, "_")
}

// BaseName is the sanitized name without its last extension.
func BaseName(name string) string {
	base := extension.ReplaceAllString(SanitizeFilename(name), "")
	if base == "" {
		return "file"
	}
	return base
}
