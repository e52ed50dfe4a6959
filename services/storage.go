package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"advocate_diary_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// FileStore is the file-system collaborator behind case documents. It owns the
// bytes; the document repository only stores the metadata row.
type FileStore interface {
	// Save copies the file at sourceURI (a path or file:// URI) to key
	Save(ctx context.Context, sourceURI, key string) (*StorageResult, error)
	Put(ctx context.Context, reader io.Reader, key, contentType string, size int64) (*StorageResult, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error) // Returns reader, content-type, error
}

// StorageResult contains information about the stored file
type StorageResult struct {
	Key      string // Storage key/path
	FileName string
	FileSize int64
	MimeType string
	URI      string // Resolvable location of the stored bytes
}

// InitializeStorage picks object storage when it is configured and reachable,
// local storage otherwise
func InitializeStorage(cfg *config.Config) FileStore {
	if !cfg.S3Configured() {
		log.Printf("[STORAGE] Storage established (Local filesystem - path: %s)", cfg.UploadDir)
		return NewLocalStorage(cfg.UploadDir)
	}

	store, err := NewS3Storage(cfg)
	if err != nil {
		log.Printf("[WARNING] Failed to initialize S3 storage: %v. Falling back to local storage.", err)
		return NewLocalStorage(cfg.UploadDir)
	}

	// Test the bucket before trusting it
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = store.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.S3BucketName),
	})
	if err != nil {
		log.Printf("[WARNING] S3 bucket connection test failed: %v. Falling back to local storage.", err)
		return NewLocalStorage(cfg.UploadDir)
	}

	log.Printf("[STORAGE] Storage established (S3 - bucket: %s)", cfg.S3BucketName)
	return store
}

// S3Storage implements FileStore on any S3-compatible endpoint (Cloudflare R2, MinIO, AWS)
type S3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3Storage creates a new S3 storage provider
func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	creds := credentials.NewStaticCredentialsProvider(
		cfg.S3AccessKeyID,
		cfg.S3SecretAccessKey,
		"",
	)

	region := cfg.S3Region
	if region == "" {
		region = "auto" // R2 uses "auto" region
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &S3Storage{client: client, bucket: cfg.S3BucketName}, nil
}

// Save uploads a local file to the bucket
func (s *S3Storage) Save(ctx context.Context, sourceURI, key string) (*StorageResult, error) {
	src, info, err := openSource(sourceURI)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return s.Put(ctx, src, key, contentTypeFor(key), info.Size())
}

// Put uploads content from a reader
func (s *S3Storage) Put(ctx context.Context, reader io.Reader, key, contentType string, size int64) (*StorageResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &StorageResult{
		Key:      key,
		FileName: filepath.Base(key),
		FileSize: size,
		MimeType: contentType,
		URI:      s.uri(key),
	}, nil
}

// Exists reports whether the object is present
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat S3 object: %w", err)
	}
	return true, nil
}

// Delete removes an object
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// Get retrieves an object and returns a reader
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object from S3: %w", err)
	}

	contentType := "application/octet-stream"
	if result.ContentType != nil {
		contentType = *result.ContentType
	}
	return result.Body, contentType, nil
}

func (s *S3Storage) uri(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// LocalStorage implements FileStore on a local directory
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a new local storage provider
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// path resolves key under baseDir and rejects keys that escape it
func (l *LocalStorage) path(key string) (string, error) {
	fullPath := filepath.Join(l.baseDir, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.baseDir, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return fullPath, nil
}

// Save copies a local file into the storage directory
func (l *LocalStorage) Save(ctx context.Context, sourceURI, key string) (*StorageResult, error) {
	src, info, err := openSource(sourceURI)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return l.Put(ctx, src, key, contentTypeFor(key), info.Size())
}

// Put saves content from a reader
func (l *LocalStorage) Put(ctx context.Context, reader io.Reader, key, contentType string, size int64) (*StorageResult, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, reader)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StorageResult{
		Key:      key,
		FileName: filepath.Base(key),
		FileSize: written,
		MimeType: contentType,
		URI:      fileURI(fullPath),
	}, nil
}

// Exists reports whether a stored file is present
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// Delete removes a stored file. Missing files are not an error.
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Get opens a stored file
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return file, contentTypeFor(key), nil
}

func openSource(sourceURI string) (*os.File, os.FileInfo, error) {
	path := strings.TrimPrefix(sourceURI, "file://")
	src, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open source file: %w", err)
	}
	info, err := src.Stat()
	if err != nil {
		src.Close()
		return nil, nil, fmt.Errorf("failed to stat source file: %w", err)
	}
	return src, info, nil
}

func fileURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}

// contentTypeFor detects the content type from the extension
func contentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// GenerateStorageKey creates a unique storage key for files
func GenerateStorageKey(prefix string, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	filename := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), ext)
	return prefix + "/" + filename
}

// GenerateCaseDocumentKey creates a storage key for a document attached to a case
func GenerateCaseDocumentKey(caseID int64, originalFilename string) string {
	return GenerateStorageKey(fmt.Sprintf("cases/%d", caseID), originalFilename)
}
