package items

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
)

const exportURLValidity = 15 * time.Minute

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Exporter writes list snapshots to S3-compatible object storage and hands
// out short-lived download links. Constructed once at startup; the
// underlying clients are safe for concurrent use.
type Exporter struct {
	client  s3API
	presign s3PresignAPI
	bucket  string
}

func NewExporter(ctx context.Context, cfg *config.Config) (*Exporter, error) {

	if cfg.S3ExportBucket == "" {
		return nil, fmt.Errorf("%w: export bucket not configured", common.ErrorUnavailable)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Exporter{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3ExportBucket,
	}, nil
}

// Export uploads the list as a JSON document under a per-owner key and
// returns the key together with a presigned GET URL.
func (e *Exporter) Export(ctx context.Context, ownerID string, list []Item) (string, string, error) {

	body, err := json.Marshal(list)
	if err != nil {
		return "", "", fmt.Errorf("marshal export: %w", err)
	}

	key := exportKey(ownerID)

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload export: %w: %v", common.ErrorUnavailable, err)
	}

	req, err := e.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(exportURLValidity))
	if err != nil {
		return "", "", fmt.Errorf("presign export: %w: %v", common.ErrorUnavailable, err)
	}

	return key, req.URL, nil
}

func exportKey(ownerID string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("exports/%s/%d/%d/%d/%v.json", ownerID, d.Year(), d.Month(), d.Day(), uuid.New())
}
