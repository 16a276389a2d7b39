package quotation

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxAttachmentFileSize is the maximum allowed upload (25MB)
const MaxAttachmentFileSize = 25 * 1024 * 1024

// AttachmentStatus represents the status of an uploaded document
type AttachmentStatus string

const (
	AttachmentStatusPending AttachmentStatus = "pending"
	AttachmentStatusActive  AttachmentStatus = "active"
	AttachmentStatusDeleted AttachmentStatus = "deleted"
)

// AttachmentKind separates customer documents from generated offers
type AttachmentKind string

const (
	AttachmentKindDocument AttachmentKind = "document"
	AttachmentKindOfferPDF AttachmentKind = "offer_pdf"
)

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"text/csv":                 {},
}

// Attachment is a file stored against a quotation request (vehicle papers,
// packing lists, the rendered offer)
type Attachment struct {
	shared.BaseEntity
	QuotationID uuid.UUID
	Kind        AttachmentKind
	Status      AttachmentStatus
	FileName    string
	FileSize    int64
	ContentType string
	StorageKey  string
	UploadedBy  *uuid.UUID
}

// NewAttachment creates a pending attachment. The storage key is derived from
// the quotation and attachment ids.
func NewAttachment(quotationID uuid.UUID, kind AttachmentKind, fileName string, fileSize int64, contentType string, uploadedBy *uuid.UUID) (*Attachment, error) {
	if quotationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_QUOTATION_ID", "Quotation ID cannot be empty")
	}
	fileName = strings.TrimSpace(path.Base(strings.ReplaceAll(fileName, "\\", "/")))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(fileName) > 255 {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	if fileSize <= 0 || fileSize > MaxAttachmentFileSize {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be between 1 byte and 25MB")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Unsupported content type: "+contentType)
	}
	if kind == "" {
		kind = AttachmentKindDocument
	}
	a := &Attachment{
		BaseEntity:  shared.NewBaseEntity(),
		QuotationID: quotationID,
		Kind:        kind,
		Status:      AttachmentStatusPending,
		FileName:    fileName,
		FileSize:    fileSize,
		ContentType: contentType,
		UploadedBy:  uploadedBy,
	}
	a.StorageKey = "quotations/" + quotationID.String() + "/" + a.ID.String() + path.Ext(fileName)
	return a, nil
}

// Confirm activates the attachment once the object exists in storage
func (a *Attachment) Confirm() error {
	switch a.Status {
	case AttachmentStatusActive:
		return shared.NewDomainError("ALREADY_CONFIRMED", "Attachment is already confirmed")
	case AttachmentStatusDeleted:
		return shared.NewDomainError("CANNOT_CONFIRM_DELETED", "Cannot confirm a deleted attachment")
	}
	a.Status = AttachmentStatusActive
	a.UpdatedAt = time.Now()
	return nil
}

// Delete marks the attachment as deleted
func (a *Attachment) Delete() error {
	if a.Status == AttachmentStatusDeleted {
		return shared.NewDomainError("ALREADY_DELETED", "Attachment is already deleted")
	}
	a.Status = AttachmentStatusDeleted
	a.UpdatedAt = time.Now()
	return nil
}

// AttachmentRepository defines the persistence interface for attachments
type AttachmentRepository interface {
	// FindByID finds an attachment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Attachment, error)

	// FindByQuotation returns the non-deleted attachments of a quotation
	FindByQuotation(ctx context.Context, quotationID uuid.UUID) ([]Attachment, error)

	// Save creates or updates an attachment
	Save(ctx context.Context, attachment *Attachment) error
}
