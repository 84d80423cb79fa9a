package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"speech-coach-pipeline/application/ports/outbound"
	"speech-coach-pipeline/config"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

const blobRefScheme = "s3://"

type s3BlobStore struct {
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3BlobStore(s3Svc *s3.S3, s3Config *config.S3Config) outbound.BlobStorePort {
	return &s3BlobStore{
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3BlobStore) Put(ctx context.Context, localPath string, key string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer file.Close()

	putInput := &s3.PutObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
		Body:   file,
	}

	_, err = s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", s.s3Config.BucketName).
			Str("key", key).
			Msg("Failed to upload object to S3")
		return "", err
	}

	ref := blobRefScheme + s.s3Config.BucketName + "/" + key
	log.Debug().
		Str("ref", ref).
		Msg("Successfully uploaded object to S3")

	return ref, nil
}

func (s *s3BlobStore) Get(ctx context.Context, ref string, localPath string) error {
	bucket, key, err := ParseBlobRef(ref)
	if err != nil {
		return err
	}

	output, err := s.s3Svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("ref", ref).
			Msg("Failed to fetch object from S3")
		return err
	}
	defer output.Body.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, output.Body); err != nil {
		return fmt.Errorf("write %s: %w", localPath, err)
	}

	return nil
}

func (s *s3BlobStore) Delete(ctx context.Context, ref string) error {
	bucket, key, err := ParseBlobRef(ref)
	if err != nil {
		return err
	}

	_, err = s.s3Svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("ref", ref).
			Msg("Failed to delete object from S3")
		return err
	}

	return nil
}

// ParseBlobRef splits an s3://bucket/key reference into bucket and key.
func ParseBlobRef(ref string) (string, string, error) {
	if !strings.HasPrefix(ref, blobRefScheme) {
		return "", "", fmt.Errorf("blob reference %q does not start with %s", ref, blobRefScheme)
	}
	bucket, key, found := strings.Cut(strings.TrimPrefix(ref, blobRefScheme), "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("blob reference %q is not of the form %sbucket/key", ref, blobRefScheme)
	}
	return bucket, key, nil
}
