package s3

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/pkg/errors"
	"video-portfolio/pkg/models"
)

// Mirror uploads the public catalog to a bucket so a static host can serve it.
type Mirror struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	key      string
}

func NewMirror(region, bucket, key string) (*Mirror, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "aws session")
	}
	return NewMirrorWithUploader(s3manager.NewUploader(sess), bucket, key), nil
}

func NewMirrorWithUploader(uploader s3manageriface.UploaderAPI, bucket, key string) *Mirror {
	return &Mirror{uploader: uploader, bucket: bucket, key: key}
}

type catalogDocument struct {
	Success bool                 `json:"success"`
	Videos  []models.PublicVideo `json:"videos"`
}

// Publish uploads the catalog as the same document GET /api/videos returns.
func (m *Mirror) Publish(ctx context.Context, videos []models.PublicVideo) (string, error) {
	if videos == nil {
		videos = []models.PublicVideo{}
	}
	body, err := json.Marshal(catalogDocument{Success: true, Videos: videos})
	if err != nil {
		return "", errors.Wrap(err, "encode catalog")
	}

	result, err := m.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:       aws.String(m.bucket),
		Key:          aws.String(m.key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", errors.Wrapf(err, "upload s3://%s/%s", m.bucket, m.key)
	}
	return result.Location, nil
}
