package handler

import (
	pricingapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// PricingHandler serves margin rules, pricing profiles and VAT lookups
type PricingHandler struct {
	BaseHandler
	pricingService *pricingapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *pricingapp.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// CreateRule godoc
// @Summary      Create a margin rule
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.MarginRuleRequest true "Rule"
// @Success      201 {object} dto.Response{data=pricingapp.MarginRuleResponse}
// @Security     BearerAuth
// @Router       /pricing/rules [post]
func (h *PricingHandler) CreateRule(c *gin.Context) {
	var req pricingapp.MarginRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rule, err := h.pricingService.CreateRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// ListRules godoc
// @Summary      List margin rules
// @Tags         pricing
// @Produce      json
// @Param        profile_id query string false "Only rules of this profile"
// @Success      200 {object} dto.Response{data=[]pricingapp.MarginRuleResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /pricing/rules [get]
func (h *PricingHandler) ListRules(c *gin.Context) {
	var filter pricingapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.pricingService.ListRules(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// GetRule godoc
// @Summary      Get a margin rule
// @Tags         pricing
// @Param        id path string true "Rule ID"
// @Success      200 {object} dto.Response{data=pricingapp.MarginRuleResponse}
// @Security     BearerAuth
// @Router       /pricing/rules/{id} [get]
func (h *PricingHandler) GetRule(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	rule, err := h.pricingService.GetRule(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// UpdateRule godoc
// @Summary      Replace a margin rule
// @Tags         pricing
// @Accept       json
// @Param        id path string true "Rule ID"
// @Param        request body pricingapp.MarginRuleRequest true "Rule"
// @Success      200 {object} dto.Response{data=pricingapp.MarginRuleResponse}
// @Security     BearerAuth
// @Router       /pricing/rules/{id} [put]
func (h *PricingHandler) UpdateRule(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req pricingapp.MarginRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rule, err := h.pricingService.UpdateRule(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// DeleteRule godoc
// @Summary      Delete a margin rule
// @Tags         pricing
// @Param        id path string true "Rule ID"
// @Success      204
// @Security     BearerAuth
// @Router       /pricing/rules/{id} [delete]
func (h *PricingHandler) DeleteRule(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.pricingService.DeleteRule(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateProfile godoc
// @Summary      Create a pricing profile
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.ProfileRequest true "Profile"
// @Success      201 {object} dto.Response{data=pricingapp.ProfileResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pricing/profiles [post]
func (h *PricingHandler) CreateProfile(c *gin.Context) {
	var req pricingapp.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	profile, err := h.pricingService.CreateProfile(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// ListProfiles godoc
// @Summary      List pricing profiles
// @Tags         pricing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]pricingapp.ProfileResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /pricing/profiles [get]
func (h *PricingHandler) ListProfiles(c *gin.Context) {
	var filter pricingapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.pricingService.ListProfiles(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// GetProfile godoc
// @Summary      Get a pricing profile with its rules
// @Tags         pricing
// @Param        id path string true "Profile ID"
// @Success      200 {object} dto.Response{data=pricingapp.ProfileResponse}
// @Security     BearerAuth
// @Router       /pricing/profiles/{id} [get]
func (h *PricingHandler) GetProfile(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.pricingService.GetProfile(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile godoc
// @Summary      Update a pricing profile
// @Tags         pricing
// @Accept       json
// @Param        id path string true "Profile ID"
// @Param        request body pricingapp.ProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=pricingapp.ProfileResponse}
// @Security     BearerAuth
// @Router       /pricing/profiles/{id} [put]
func (h *PricingHandler) UpdateProfile(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req pricingapp.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	profile, err := h.pricingService.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// DeleteProfile godoc
// @Summary      Delete a pricing profile
// @Tags         pricing
// @Param        id path string true "Profile ID"
// @Success      204
// @Security     BearerAuth
// @Router       /pricing/profiles/{id} [delete]
func (h *PricingHandler) DeleteProfile(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.pricingService.DeleteProfile(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Preview godoc
// @Summary      Preview the margin for a customer
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.PreviewRequest true "Base price and customer"
// @Success      200 {object} dto.Response{data=pricingapp.PreviewResponse}
// @Security     BearerAuth
// @Router       /pricing/preview [post]
func (h *PricingHandler) Preview(c *gin.Context) {
	var req pricingapp.PreviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	preview, err := h.pricingService.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// Vat godoc
// @Summary      VAT treatment of a route
// @Tags         pricing
// @Produce      json
// @Param        origin query string false "Origin country"
// @Param        destination query string false "Destination country"
// @Success      200 {object} dto.Response{data=pricing.VatDecision}
// @Security     BearerAuth
// @Router       /pricing/vat [get]
func (h *PricingHandler) Vat(c *gin.Context) {
	var req pricingapp.VatRequest
	if !h.bindQuery(c, &req) {
		return
	}
	h.Success(c, h.pricingService.DetermineVat(req))
}
