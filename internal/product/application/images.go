package application

import (
	"context"

	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"go.uber.org/zap"
)

const imageDir = "products"

// URLResolver turns a stored object key into a public URL.
type URLResolver interface {
	URL(key string) string
}

// uploadImages validates every file before storing any of them. On a failed
// upload the files already stored are removed.
func uploadImages(ctx context.Context, files storage.FileStorage, images []storage.File) ([]string, error) {
	for _, f := range images {
		if err := storage.ValidateImage(f); err != nil {
			return nil, err
		}
	}
	keys := make([]string, 0, len(images))
	for _, f := range images {
		key, err := files.Upload(ctx, imageDir, f)
		if err != nil {
			removeImages(ctx, files, keys)
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// removeImages is best effort: a leftover object is logged, never surfaced.
func removeImages(ctx context.Context, files storage.FileStorage, keys []string) {
	for _, key := range keys {
		if err := files.Delete(ctx, key); err != nil {
			log.Warn("Failed to delete product image", zap.String("key", key), zap.Error(err))
		}
	}
}
