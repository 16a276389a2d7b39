package handler

import (
	quotationapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/quotation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PortalHandler is the customer-facing view of quotation requests. Requests
// are addressed by their QR number and scoped to the caller's account.
type PortalHandler struct {
	BaseHandler
	quotationService  *quotationapp.QuotationService
	attachmentService *quotationapp.AttachmentService
}

// NewPortalHandler creates a new PortalHandler
func NewPortalHandler(quotationService *quotationapp.QuotationService, attachmentService *quotationapp.AttachmentService) *PortalHandler {
	return &PortalHandler{quotationService: quotationService, attachmentService: attachmentService}
}

// Submit godoc
// @Summary      Submit a quotation request
// @Tags         portal
// @Accept       json
// @Produce      json
// @Param        request body quotationapp.SubmitRequest true "Request"
// @Success      201 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Security     BearerAuth
// @Router       /portal/quotations [post]
func (h *PortalHandler) Submit(c *gin.Context) {
	var req quotationapp.SubmitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Source = ""
	q, err := h.quotationService.Submit(c.Request.Context(), h.customer(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// List godoc
// @Summary      My quotation requests
// @Tags         portal
// @Produce      json
// @Param        status query string false "Status"
// @Success      200 {object} dto.Response{data=[]quotationapp.QuotationResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /portal/quotations [get]
func (h *PortalHandler) List(c *gin.Context) {
	var filter quotationapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.IncludeDeleted = false
	page, err := h.quotationService.List(c.Request.Context(), h.customer(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Get godoc
// @Summary      One of my quotation requests
// @Tags         portal
// @Produce      json
// @Param        number path string true "Request number"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /portal/quotations/{number} [get]
func (h *PortalHandler) Get(c *gin.Context) {
	q, err := h.quotationService.GetByNumber(c.Request.Context(), h.customer(c), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// InitiateUpload godoc
// @Summary      Attach a file to my request
// @Description  Returns a presigned URL the client PUTs the file to
// @Tags         portal
// @Accept       json
// @Param        number path string true "Request number"
// @Param        request body quotationapp.InitiateUploadRequest true "File"
// @Success      201 {object} dto.Response{data=quotationapp.InitiateUploadResponse}
// @Security     BearerAuth
// @Router       /portal/quotations/{number}/attachments [post]
func (h *PortalHandler) InitiateUpload(c *gin.Context) {
	var req quotationapp.InitiateUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actor := h.customer(c)
	id, ok := h.resolve(c, actor)
	if !ok {
		return
	}
	result, err := h.attachmentService.InitiateUpload(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ConfirmUpload godoc
// @Summary      Confirm an upload to my request
// @Tags         portal
// @Param        number path string true "Request number"
// @Param        attachmentId path string true "Attachment ID"
// @Success      200 {object} dto.Response{data=quotationapp.AttachmentResponse}
// @Security     BearerAuth
// @Router       /portal/quotations/{number}/attachments/{attachmentId}/confirm [post]
func (h *PortalHandler) ConfirmUpload(c *gin.Context) {
	attachmentID, ok := h.uuidParam(c, "attachmentId")
	if !ok {
		return
	}
	actor := h.customer(c)
	id, ok := h.resolve(c, actor)
	if !ok {
		return
	}
	result, err := h.attachmentService.ConfirmUpload(c.Request.Context(), actor, id, attachmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListAttachments godoc
// @Summary      Files attached to my request
// @Tags         portal
// @Param        number path string true "Request number"
// @Success      200 {object} dto.Response{data=[]quotationapp.AttachmentResponse}
// @Security     BearerAuth
// @Router       /portal/quotations/{number}/attachments [get]
func (h *PortalHandler) ListAttachments(c *gin.Context) {
	actor := h.customer(c)
	id, ok := h.resolve(c, actor)
	if !ok {
		return
	}
	result, err := h.attachmentService.List(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result == nil {
		result = []quotationapp.AttachmentResponse{}
	}
	h.Success(c, result)
}

// customer is the caller as a customer. Staff using the portal see it as
// their customers would.
func (h *PortalHandler) customer(c *gin.Context) quotationapp.Actor {
	actor := h.actor(c)
	actor.Staff = false
	return actor
}

func (h *PortalHandler) resolve(c *gin.Context, actor quotationapp.Actor) (uuid.UUID, bool) {
	q, err := h.quotationService.GetByNumber(c.Request.Context(), actor, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, false
	}
	return q.ID, true
}
