package handler

import (
	quotationapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuotationHandler serves quotation requests to staff and, through the
// portal routes, to customers. Visibility is decided by the services from
// the caller's claims.
type QuotationHandler struct {
	BaseHandler
	quotationService  *quotationapp.QuotationService
	exportService     *quotationapp.ExportService
	offerService      *quotationapp.OfferService
	attachmentService *quotationapp.AttachmentService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(
	quotationService *quotationapp.QuotationService,
	exportService *quotationapp.ExportService,
	offerService *quotationapp.OfferService,
	attachmentService *quotationapp.AttachmentService,
) *QuotationHandler {
	return &QuotationHandler{
		quotationService:  quotationService,
		exportService:     exportService,
		offerService:      offerService,
		attachmentService: attachmentService,
	}
}

// Submit godoc
// @Summary      Submit a quotation request
// @Description  Customers always submit as source=customer for their own account
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body quotationapp.SubmitRequest true "Request"
// @Success      201 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *QuotationHandler) Submit(c *gin.Context) {
	var req quotationapp.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.Submit(c.Request.Context(), h.actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// List godoc
// @Summary      List quotation requests
// @Tags         quotations
// @Produce      json
// @Param        search query string false "Number, contact or client"
// @Param        status query string false "Status"
// @Param        source query string false "customer, staff or intake"
// @Success      200 {object} dto.Response{data=[]quotationapp.QuotationResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	var filter quotationapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.quotationService.List(c.Request.Context(), h.actor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// GetByID godoc
// @Summary      Get a quotation request
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	q, err := h.quotationService.GetByID(c.Request.Context(), h.actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// GetByNumber godoc
// @Summary      Get a quotation request by QR number
// @Tags         quotations
// @Produce      json
// @Param        number path string true "Request number, e.g. QR-2026-0001"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/number/{number} [get]
func (h *QuotationHandler) GetByNumber(c *gin.Context) {
	q, err := h.quotationService.GetByNumber(c.Request.Context(), h.actor(c), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// UpdateRoute godoc
// @Summary      Change the route
// @Description  Port inputs may be codes or free-text names
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.RouteInput true "Route"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/route [put]
func (h *QuotationHandler) UpdateRoute(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.RouteInput
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.UpdateRoute(c.Request.Context(), h.actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// UpdateDetails godoc
// @Summary      Change service type, cargo description and notes
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.UpdateDetailsRequest true "Details"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id} [put]
func (h *QuotationHandler) UpdateDetails(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.UpdateDetailsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.UpdateDetails(c.Request.Context(), h.actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// SetCommodityItems godoc
// @Summary      Replace the commodity items
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.CommodityItemsRequest true "Items"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/commodity-items [put]
func (h *QuotationHandler) SetCommodityItems(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.CommodityItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.SetCommodityItems(c.Request.Context(), h.actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// AddArticle godoc
// @Summary      Add an article line
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.AddArticleRequest true "Article"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/articles [post]
func (h *QuotationHandler) AddArticle(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.AddArticleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.AddArticle(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// UpdateArticleQuantity godoc
// @Summary      Change the quantity of an article line
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        lineId path string true "Line ID"
// @Param        request body quotationapp.UpdateArticleQuantityRequest true "Quantity"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/articles/{lineId} [put]
func (h *QuotationHandler) UpdateArticleQuantity(c *gin.Context) {
	id, lineID, ok := h.lineParams(c)
	if !ok {
		return
	}
	var req quotationapp.UpdateArticleQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.UpdateArticleQuantity(c.Request.Context(), id, lineID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// RemoveArticle godoc
// @Summary      Remove an article line
// @Description  Child lines of a removed parent are removed with it
// @Tags         quotations
// @Param        id path string true "Quotation ID"
// @Param        lineId path string true "Line ID"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/articles/{lineId} [delete]
func (h *QuotationHandler) RemoveArticle(c *gin.Context) {
	id, lineID, ok := h.lineParams(c)
	if !ok {
		return
	}
	q, err := h.quotationService.RemoveArticle(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// AutoSelectArticles godoc
// @Summary      Add suggested articles
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.AutoSelectRequest false "Selector options"
// @Success      200 {object} dto.Response{data=quotationapp.AutoSelectResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/articles/auto-select [post]
func (h *QuotationHandler) AutoSelectArticles(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.AutoSelectRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	result, err := h.quotationService.AutoSelectArticles(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Price godoc
// @Summary      Price a request
// @Description  Applies the customer's margin rules and VAT treatment to all lines
// @Tags         quotations
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=quotationapp.PriceResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/price [post]
func (h *QuotationHandler) Price(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.quotationService.Price(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ChangeStatus godoc
// @Summary      Move a request through its lifecycle
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.ChangeStatusRequest true "Status"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/status [post]
func (h *QuotationHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	q, err := h.quotationService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// Delete godoc
// @Summary      Soft-delete a request
// @Tags         quotations
// @Param        id path string true "Quotation ID"
// @Success      204
// @Security     BearerAuth
// @Router       /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.quotationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Restore godoc
// @Summary      Restore a soft-deleted request
// @Tags         quotations
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/restore [post]
func (h *QuotationHandler) Restore(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	q, err := h.quotationService.Restore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// Export godoc
// @Summary      Export to Robaws
// @Description  Creates the Robaws offer. A second export is a no-op unless force is set.
// @Tags         quotations
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.ExportRequest false "Export options"
// @Success      200 {object} dto.Response{data=quotationapp.ExportResponse}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /quotations/{id}/export [post]
func (h *QuotationHandler) Export(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.ExportRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	result, err := h.exportService.Export(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RenderOffer godoc
// @Summary      Render the offer PDF
// @Description  Stores the PDF as an attachment and returns a download link
// @Tags         quotations
// @Param        id path string true "Quotation ID"
// @Success      201 {object} dto.Response{data=quotationapp.OfferDocumentResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/offer-pdf [post]
func (h *QuotationHandler) RenderOffer(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var renderedBy *uuid.UUID
	if uid, err := uuid.Parse(middleware.GetUserID(c)); err == nil {
		renderedBy = &uid
	}
	doc, err := h.offerService.RenderOfferPDF(c.Request.Context(), id, renderedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// InitiateUpload godoc
// @Summary      Start an attachment upload
// @Description  Returns a presigned URL the client PUTs the file to
// @Tags         attachments
// @Accept       json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.InitiateUploadRequest true "File"
// @Success      201 {object} dto.Response{data=quotationapp.InitiateUploadResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/attachments [post]
func (h *QuotationHandler) InitiateUpload(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req quotationapp.InitiateUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.attachmentService.InitiateUpload(c.Request.Context(), h.actor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ConfirmUpload godoc
// @Summary      Confirm an attachment upload
// @Tags         attachments
// @Param        id path string true "Quotation ID"
// @Param        attachmentId path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=quotationapp.AttachmentResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/attachments/{attachmentId}/confirm [post]
func (h *QuotationHandler) ConfirmUpload(c *gin.Context) {
	id, attachmentID, ok := h.attachmentParams(c)
	if !ok {
		return
	}
	result, err := h.attachmentService.ConfirmUpload(c.Request.Context(), h.actor(c), id, attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListAttachments godoc
// @Summary      List attachments
// @Tags         attachments
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=[]quotationapp.AttachmentResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/attachments [get]
func (h *QuotationHandler) ListAttachments(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.attachmentService.List(c.Request.Context(), h.actor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result == nil {
		result = []quotationapp.AttachmentResponse{}
	}
	h.Success(c, result)
}

// DownloadAttachment godoc
// @Summary      Presigned download link for an attachment
// @Tags         attachments
// @Param        id path string true "Quotation ID"
// @Param        attachmentId path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=quotationapp.DownloadURLResponse}
// @Security     BearerAuth
// @Router       /quotations/{id}/attachments/{attachmentId}/download [get]
func (h *QuotationHandler) DownloadAttachment(c *gin.Context) {
	id, attachmentID, ok := h.attachmentParams(c)
	if !ok {
		return
	}
	result, err := h.attachmentService.DownloadURL(c.Request.Context(), h.actor(c), id, attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteAttachment godoc
// @Summary      Delete an attachment
// @Tags         attachments
// @Param        id path string true "Quotation ID"
// @Param        attachmentId path string true "Attachment ID"
// @Success      204
// @Security     BearerAuth
// @Router       /quotations/{id}/attachments/{attachmentId} [delete]
func (h *QuotationHandler) DeleteAttachment(c *gin.Context) {
	id, attachmentID, ok := h.attachmentParams(c)
	if !ok {
		return
	}
	if err := h.attachmentService.Delete(c.Request.Context(), h.actor(c), id, attachmentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *QuotationHandler) lineParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	lineID, ok := h.uuidParam(c, "lineId")
	return id, lineID, ok
}

func (h *QuotationHandler) attachmentParams(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	attachmentID, ok := h.uuidParam(c, "attachmentId")
	return id, attachmentID, ok
}
