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

// OfferRenderer renders the customer facing offer of a request as PDF
type OfferRenderer interface {
	RenderOffer(ctx context.Context, q *quotation.QuotationRequest) ([]byte, error)
}

// OfferService renders offer PDFs and stores them as quotation attachments
type OfferService struct {
	quotationRepo  quotation.QuotationRepository
	attachmentRepo quotation.AttachmentRepository
	renderer       OfferRenderer
	storage        ObjectStorage
	downloadExpiry time.Duration
	logger         *zap.Logger
}

// NewOfferService creates a new OfferService
func NewOfferService(
	quotationRepo quotation.QuotationRepository,
	attachmentRepo quotation.AttachmentRepository,
	renderer OfferRenderer,
	storage ObjectStorage,
	logger *zap.Logger,
) *OfferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferService{
		quotationRepo:  quotationRepo,
		attachmentRepo: attachmentRepo,
		renderer:       renderer,
		storage:        storage,
		downloadExpiry: time.Hour,
		logger:         logger,
	}
}

// RenderOfferPDF renders the offer of a priced request, uploads it and returns a download link
func (s *OfferService) RenderOfferPDF(ctx context.Context, id uuid.UUID, renderedBy *uuid.UUID) (*OfferDocumentResponse, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.IsPriced() {
		return nil, shared.NewDomainError("NOT_PRICED", "Quotation must be priced before an offer can be rendered")
	}
	if s.renderer == nil {
		return nil, shared.NewDomainError("PDF_RENDERER_UNAVAILABLE", "PDF rendering is not configured")
	}

	start := time.Now()
	pdf, err := s.renderer.RenderOffer(ctx, q)
	if err != nil {
		s.logger.Error("offer render failed", zap.String("request_number", q.RequestNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to render offer: %w", err)
	}

	fileName := fmt.Sprintf("offer-%s.pdf", q.RequestNumber)
	attachment, err := quotation.NewAttachment(q.ID, quotation.AttachmentKindOfferPDF, fileName, int64(len(pdf)), "application/pdf", renderedBy)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Upload(ctx, attachment.StorageKey, pdf, attachment.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store offer: %w", err)
	}
	if err := attachment.Confirm(); err != nil {
		return nil, err
	}
	if err := s.attachmentRepo.Save(ctx, attachment); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, attachment.StorageKey, s.downloadExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}

	s.logger.Info("offer rendered",
		zap.String("request_number", q.RequestNumber),
		zap.Int("bytes", len(pdf)),
		zap.Duration("took", time.Since(start)))

	return &OfferDocumentResponse{
		AttachmentID: attachment.ID,
		FileName:     fileName,
		DownloadURL:  url,
		ExpiresAt:    expiresAt,
	}, nil
}
