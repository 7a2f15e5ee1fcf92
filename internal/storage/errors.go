package storage

import (
	"fmt"

	"github.com/minio/minio-go/v7"

	imageSvc "github.com/devmart/media-pipeline-go/internal/usecase/image"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return imageSvc.ErrObjectNotFound
	case "NoSuchBucket":
		return imageSvc.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return imageSvc.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", imageSvc.ErrInternal, err)
	}
}
