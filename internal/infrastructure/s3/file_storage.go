package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/tu-usuario/docuflow/internal/application/usecase"
	"github.com/tu-usuario/docuflow/pkg/config"
)

var _ usecase.FileStorage = (*FileStorage)(nil)

// FileStorage adaptador del puerto usecase.FileStorage sobre S3 (o un
// endpoint compatible como LocalStack/MinIO en desarrollo).
type FileStorage struct {
	client *awss3.Client
	bucket string
}

// NewFileStorage crea el adaptador. Si cfg.Endpoint no está vacío se usa
// como endpoint custom con path-style (LocalStack/MinIO); si no, AWS real.
func NewFileStorage(ctx context.Context, cfg config.S3Config) (*FileStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket no configurado")
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración AWS: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &FileStorage{client: client, bucket: cfg.Bucket}, nil
}

// Put sube los bytes con una key única y devuelve esa key como locator.
func (s *FileStorage) Put(ctx context.Context, data []byte, filename, mimetype string) (string, error) {
	key := uuid.New().String() + "-" + sanitizeFilename(filename)
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimetype),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	return key, nil
}

// Get descarga los bytes del objeto referido por el locator.
func (s *FileStorage) Get(ctx context.Context, locator string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(locator),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: leer body: %w", err)
	}
	return data, nil
}

// sanitizeFilename deja el nombre apto para key de S3.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name
}
