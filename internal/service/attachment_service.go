package service

import (
	"context"
	"errors"
	"fmt"

	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/storage"

	"github.com/google/uuid"
)

// MaxAttachmentSize bounds a single uploaded file.
const MaxAttachmentSize = 10 << 20

type AttachmentService interface {
	Upload(ctx context.Context, transferID uuid.UUID, filename string, body []byte, contentType string) (string, error)
}

type attachmentService struct {
	transfers repository.TransferRepository
	store     storage.ObjectStore
}

func NewAttachmentService(transfers repository.TransferRepository, store storage.ObjectStore) AttachmentService {
	return &attachmentService{transfers: transfers, store: store}
}

// Upload stores a dispatch attachment and returns the reference to list in attached_files.
// Uploads are accepted only while the transfer waits for dispatch.
func (s *attachmentService) Upload(ctx context.Context, transferID uuid.UUID, filename string, body []byte, contentType string) (string, error) {
	tr, err := s.transfers.FindByID(ctx, transferID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrTransferNotFound
		}
		return "", err
	}
	if tr.Status != model.StatusApproved {
		return "", &PreconditionError{Operation: "attachment upload", Status: tr.Status}
	}
	if len(body) == 0 {
		return "", newValidationError(CodeRequired, "file is empty", "file")
	}
	if len(body) > MaxAttachmentSize {
		return "", newValidationError(CodeInvalidValue, fmt.Sprintf("file exceeds %d bytes", MaxAttachmentSize), "file")
	}

	key := fmt.Sprintf("transfers/%s/%s-%s", transferID, uuid.NewString()[:8], storage.SafeName(filename))
	return s.store.Put(ctx, key, body, contentType)
}
