package handler

import (
	"time"

	tariffapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/tariff"
	"github.com/gin-gonic/gin"
)

// TariffHandler serves carrier purchase tariffs and the rate matrix
type TariffHandler struct {
	BaseHandler
	tariffService *tariffapp.TariffService
}

// NewTariffHandler creates a new TariffHandler
func NewTariffHandler(tariffService *tariffapp.TariffService) *TariffHandler {
	return &TariffHandler{tariffService: tariffService}
}

// SyncDatesResponse reports whether the mapped article changed
type SyncDatesResponse struct {
	Updated bool `json:"updated"`
}

// Create godoc
// @Summary      Create a tariff
// @Tags         tariffs
// @Accept       json
// @Produce      json
// @Param        request body tariffapp.CreateTariffRequest true "Tariff"
// @Success      201 {object} dto.Response{data=tariffapp.TariffResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tariffs [post]
func (h *TariffHandler) Create(c *gin.Context) {
	var req tariffapp.CreateTariffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.tariffService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// List godoc
// @Summary      List tariffs
// @Tags         tariffs
// @Produce      json
// @Param        carrier query string false "Carrier"
// @Param        port_code query string false "UN/LOCODE"
// @Success      200 {object} dto.Response{data=[]tariffapp.TariffResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /tariffs [get]
func (h *TariffHandler) List(c *gin.Context) {
	var filter tariffapp.TariffListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.tariffService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// GetByID godoc
// @Summary      Get a tariff
// @Tags         tariffs
// @Produce      json
// @Param        id path string true "Tariff ID"
// @Success      200 {object} dto.Response{data=tariffapp.TariffResponse}
// @Security     BearerAuth
// @Router       /tariffs/{id} [get]
func (h *TariffHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	t, err := h.tariffService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Update godoc
// @Summary      Update a tariff
// @Tags         tariffs
// @Accept       json
// @Produce      json
// @Param        id path string true "Tariff ID"
// @Param        request body tariffapp.UpdateTariffRequest true "Changes"
// @Success      200 {object} dto.Response{data=tariffapp.TariffResponse}
// @Security     BearerAuth
// @Router       /tariffs/{id} [put]
func (h *TariffHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req tariffapp.UpdateTariffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.tariffService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete godoc
// @Summary      Delete a tariff
// @Tags         tariffs
// @Param        id path string true "Tariff ID"
// @Success      204
// @Security     BearerAuth
// @Router       /tariffs/{id} [delete]
func (h *TariffHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.tariffService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// BulkSave godoc
// @Summary      Save several tariffs
// @Description  All rows are saved in one transaction
// @Tags         tariffs
// @Accept       json
// @Produce      json
// @Param        request body tariffapp.BulkSaveRequest true "Rows"
// @Success      200 {object} dto.Response{data=tariffapp.BulkSaveResponse}
// @Security     BearerAuth
// @Router       /tariffs/bulk [put]
func (h *TariffHandler) BulkSave(c *gin.Context) {
	var req tariffapp.BulkSaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.tariffService.BulkSave(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncDates godoc
// @Summary      Copy tariff validity to the mapped article
// @Tags         tariffs
// @Param        id path string true "Tariff ID"
// @Success      200 {object} dto.Response{data=SyncDatesResponse}
// @Security     BearerAuth
// @Router       /tariffs/{id}/sync-dates [post]
func (h *TariffHandler) SyncDates(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	updated, err := h.tariffService.SyncDates(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SyncDatesResponse{Updated: updated})
}

// GetRateMatrix godoc
// @Summary      Rate matrix of a carrier
// @Description  Destination ports by vehicle category, using tariffs valid on the given date
// @Tags         tariffs
// @Produce      json
// @Param        carrier path string true "Carrier"
// @Param        at query string false "Reference date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=tariff.RateMatrix}
// @Security     BearerAuth
// @Router       /tariffs/matrix/{carrier} [get]
func (h *TariffHandler) GetRateMatrix(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "at must be a date in YYYY-MM-DD format")
			return
		}
		at = parsed
	}
	matrix, err := h.tariffService.GetRateMatrix(c.Request.Context(), c.Param("carrier"), at)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matrix)
}

// SaveRateMatrix godoc
// @Summary      Save rate matrix cells
// @Tags         tariffs
// @Accept       json
// @Produce      json
// @Param        carrier path string true "Carrier"
// @Param        request body tariffapp.SaveMatrixRequest true "Cells"
// @Success      200 {object} dto.Response{data=tariffapp.SaveMatrixResponse}
// @Security     BearerAuth
// @Router       /tariffs/matrix/{carrier} [put]
func (h *TariffHandler) SaveRateMatrix(c *gin.Context) {
	var req tariffapp.SaveMatrixRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.tariffService.SaveRateMatrix(c.Request.Context(), c.Param("carrier"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
