package storage

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

// S3Store uploads into a public-read S3 bucket.
type S3Store struct {
	bucket        string
	publicBaseURL string
	uploader      *s3manager.Uploader
}

// NewS3Store creates a store for bucket. When publicBaseURL is set (a CDN in
// front of the bucket, for example) returned URLs are built from it instead of
// the S3 object location.
func NewS3Store(sess *session.Session, bucket, publicBaseURL string) *S3Store {
	return &S3Store{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		uploader:      s3manager.NewUploader(sess),
	}
}

func NewS3Session(region string) (*session.Session, error) {
	return session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
}

func (s *S3Store) Upload(ctx context.Context, obj Object) (string, error) {
	key := ObjectKey(obj.Filename)

	input := &s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   obj.Body,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	out, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		return "", errors.Wrap(err, "upload to s3")
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	return out.Location, nil
}
