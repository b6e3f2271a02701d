package internal

import (
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"

	"github.com/nocturnecity/iconresizer/pkg"
)

type Publisher interface {
	Publish(localPath string, target pkg.Target) (string, error)
}

func NewS3Publisher(opts pkg.PublishOptions, log *StdLog) (*S3Publisher, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(opts.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return newS3Publisher(s3manager.NewUploader(sess), opts, log), nil
}

func newS3Publisher(uploader s3manageriface.UploaderAPI, opts pkg.PublishOptions, log *StdLog) *S3Publisher {
	return &S3Publisher{
		uploader: uploader,
		bucket:   opts.BucketName,
		prefix:   opts.Prefix,
		log:      log,
	}
}

type S3Publisher struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
	log      *StdLog
}

// Publish uploads the file at localPath under prefix/target.Name and returns the object key.
func (p *S3Publisher) Publish(localPath string, target pkg.Target) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %q: %w", localPath, err)
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			p.log.Error("error closing %s: %v", localPath, err)
		}
	}(file)

	key := path.Join(p.prefix, target.Name)
	_, err = p.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(target.Format.ContentType()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", target.Name, err)
	}

	p.log.Debug("Put file to S3 s3://%s/%s", p.bucket, key)
	return key, nil
}
