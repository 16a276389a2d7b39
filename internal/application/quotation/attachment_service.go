package quotation

import (
	"context"
	"fmt"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage is the object store behind quotation documents. Implemented
// by the S3 adapter and an in-process stub.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
}

// AttachmentServiceConfig holds configuration for the attachment service
type AttachmentServiceConfig struct {
	UploadURLExpiry            time.Duration
	DownloadURLExpiry          time.Duration
	MaxAttachmentsPerQuotation int
}

// DefaultAttachmentServiceConfig returns the default configuration
func DefaultAttachmentServiceConfig() AttachmentServiceConfig {
	return AttachmentServiceConfig{
		UploadURLExpiry:            15 * time.Minute,
		DownloadURLExpiry:          time.Hour,
		MaxAttachmentsPerQuotation: 20,
	}
}

// AttachmentService handles documents uploaded against quotation requests
type AttachmentService struct {
	attachmentRepo quotation.AttachmentRepository
	quotationRepo  quotation.QuotationRepository
	storage        ObjectStorage
	config         AttachmentServiceConfig
	logger         *zap.Logger
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(
	attachmentRepo quotation.AttachmentRepository,
	quotationRepo quotation.QuotationRepository,
	storage ObjectStorage,
	logger *zap.Logger,
) *AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		quotationRepo:  quotationRepo,
		storage:        storage,
		config:         DefaultAttachmentServiceConfig(),
		logger:         logger,
	}
}

// SetConfig sets the service configuration
func (s *AttachmentService) SetConfig(config AttachmentServiceConfig) {
	s.config = config
}

// InitiateUpload creates a pending attachment and returns a presigned upload URL
func (s *AttachmentService) InitiateUpload(ctx context.Context, actor Actor, quotationID uuid.UUID, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
	if _, err := s.loadQuotation(ctx, actor, quotationID); err != nil {
		return nil, err
	}

	existing, err := s.attachmentRepo.FindByQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= s.config.MaxAttachmentsPerQuotation {
		return nil, shared.NewDomainError("ATTACHMENT_LIMIT_EXCEEDED",
			fmt.Sprintf("Maximum %d attachments per quotation allowed", s.config.MaxAttachmentsPerQuotation))
	}

	attachment, err := quotation.NewAttachment(quotationID, quotation.AttachmentKindDocument, req.FileName, req.FileSize, req.ContentType, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, attachment.StorageKey, attachment.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("presign upload failed", zap.String("storage_key", attachment.StorageKey), zap.Error(err))
		if delErr := attachment.Delete(); delErr == nil {
			_ = s.attachmentRepo.Save(ctx, attachment)
		}
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateUploadResponse{
		AttachmentID: attachment.ID,
		UploadURL:    uploadURL,
		ExpiresAt:    expiresAt,
		StorageKey:   attachment.StorageKey,
	}, nil
}

// ConfirmUpload activates an attachment once its object exists in storage
func (s *AttachmentService) ConfirmUpload(ctx context.Context, actor Actor, quotationID, attachmentID uuid.UUID) (*AttachmentResponse, error) {
	attachment, err := s.loadAttachment(ctx, actor, quotationID, attachmentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, attachment.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage. Please upload the file first.")
	}
	if err := attachment.Confirm(); err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}
	resp := ToAttachmentResponse(attachment)
	return &resp, nil
}

// List returns the attachments of a quotation
func (s *AttachmentService) List(ctx context.Context, actor Actor, quotationID uuid.UUID) ([]AttachmentResponse, error) {
	if _, err := s.loadQuotation(ctx, actor, quotationID); err != nil {
		return nil, err
	}
	attachments, err := s.attachmentRepo.FindByQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	out := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		out[i] = ToAttachmentResponse(&attachments[i])
	}
	return out, nil
}

// DownloadURL returns a presigned link to an active attachment
func (s *AttachmentService) DownloadURL(ctx context.Context, actor Actor, quotationID, attachmentID uuid.UUID) (*DownloadURLResponse, error) {
	attachment, err := s.loadAttachment(ctx, actor, quotationID, attachmentID)
	if err != nil {
		return nil, err
	}
	if attachment.Status != quotation.AttachmentStatusActive {
		return nil, shared.NewDomainError("ATTACHMENT_NOT_ACTIVE", "Attachment upload has not been confirmed")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, attachment.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}
	return &DownloadURLResponse{URL: url, FileName: attachment.FileName, ExpiresAt: expiresAt}, nil
}

// Delete marks an attachment deleted and removes its object
func (s *AttachmentService) Delete(ctx context.Context, actor Actor, quotationID, attachmentID uuid.UUID) error {
	attachment, err := s.loadAttachment(ctx, actor, quotationID, attachmentID)
	if err != nil {
		return err
	}
	if err := attachment.Delete(); err != nil {
		return err
	}
	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, attachment.StorageKey); err != nil {
		// the row is gone from listings; an orphaned object is only a storage cost
		s.logger.Warn("failed to delete attachment object",
			zap.String("storage_key", attachment.StorageKey),
			zap.Error(err))
	}
	return nil
}

func (s *AttachmentService) loadQuotation(ctx context.Context, actor Actor, id uuid.UUID) (*quotation.QuotationRequest, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, q) {
		return nil, shared.ErrNotFound
	}
	return q, nil
}

func (s *AttachmentService) loadAttachment(ctx context.Context, actor Actor, quotationID, attachmentID uuid.UUID) (*quotation.Attachment, error) {
	if _, err := s.loadQuotation(ctx, actor, quotationID); err != nil {
		return nil, err
	}
	attachment, err := s.attachmentRepo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if attachment.QuotationID != quotationID {
		return nil, shared.ErrNotFound
	}
	return attachment, nil
}
