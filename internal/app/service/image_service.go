package service

import (
	"context"
	"mime/multipart"

	"github.com/sirupsen/logrus"

	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/platform/storage"
)

// ImageService pushes uploaded files into the image store. Uploads happen
// before any challenge row is written, so a storage failure never leaves a
// half-created record.
type ImageService struct {
	store storage.ImageStore
	log   *logrus.Logger
}

func NewImageService(store storage.ImageStore, log *logrus.Logger) *ImageService {
	return &ImageService{store: store, log: log}
}

func (s *ImageService) Upload(ctx context.Context, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", common.Errorf("open upload %q: %v: %w", header.Filename, err, common.ErrUpload)
	}
	defer file.Close()

	ref, err := s.store.Save(ctx, file, header)
	if err != nil {
		return "", common.Errorf("store upload %q: %v: %w", header.Filename, err, common.ErrUpload)
	}
	return ref, nil
}

// UploadAll stores a batch of files. If any upload fails, the ones already
// stored are removed so the batch succeeds or fails as a unit.
func (s *ImageService) UploadAll(ctx context.Context, headers []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(headers))
	for _, header := range headers {
		ref, err := s.Upload(ctx, header)
		if err != nil {
			s.RemoveAll(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// RemoveAll best-effort deletes stored refs. Failures are logged and left
// to the cleanup worker's queue; an orphaned file is harmless.
func (s *ImageService) RemoveAll(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.store.Remove(ctx, ref); err != nil {
			s.log.WithFields(logrus.Fields{"ref": ref, "error": err.Error()}).Warn("failed to remove stored image")
		}
	}
}
