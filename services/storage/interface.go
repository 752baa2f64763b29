package storage

import (
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService is the evidence store: it accepts a local file and returns
// a durable retrieval reference. Check-in/out upload their photos here
// before the state transaction commits.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// StorageServiceImpl implements StorageService on Cloudinary.
type StorageServiceImpl struct {
	cld *cloudinary.Cloudinary
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary) StorageService {
	return &StorageServiceImpl{cld: cld}
}
