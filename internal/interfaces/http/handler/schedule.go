package handler

import (
	scheduleapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/schedule"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves sailing schedules
type ScheduleHandler struct {
	BaseHandler
	scheduleService *scheduleapp.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *scheduleapp.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Create godoc
// @Summary      Create a sailing
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Param        request body scheduleapp.ScheduleRequest true "Sailing"
// @Success      201 {object} dto.Response{data=scheduleapp.ScheduleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req scheduleapp.ScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	s, err := h.scheduleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, s)
}

// List godoc
// @Summary      List sailings
// @Tags         schedules
// @Produce      json
// @Success      200 {object} dto.Response{data=[]scheduleapp.ScheduleResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter scheduleapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.scheduleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// Search godoc
// @Summary      Upcoming sailings on a route
// @Description  pol and pod accept codes or free-text port names
// @Tags         schedules
// @Produce      json
// @Param        pol query string false "Port of loading"
// @Param        pod query string false "Port of discharge"
// @Param        from query string false "Earliest departure (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]scheduleapp.ScheduleResponse}
// @Security     BearerAuth
// @Router       /schedules/search [get]
func (h *ScheduleHandler) Search(c *gin.Context) {
	var req scheduleapp.SearchRequest
	if !h.bindQuery(c, &req) {
		return
	}
	results, err := h.scheduleService.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if results == nil {
		results = []scheduleapp.ScheduleResponse{}
	}
	h.Success(c, results)
}

// GetByID godoc
// @Summary      Get a sailing
// @Tags         schedules
// @Param        id path string true "Schedule ID"
// @Success      200 {object} dto.Response{data=scheduleapp.ScheduleResponse}
// @Security     BearerAuth
// @Router       /schedules/{id} [get]
func (h *ScheduleHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	s, err := h.scheduleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}

// Update godoc
// @Summary      Replace a sailing
// @Tags         schedules
// @Accept       json
// @Param        id path string true "Schedule ID"
// @Param        request body scheduleapp.ScheduleRequest true "Sailing"
// @Success      200 {object} dto.Response{data=scheduleapp.ScheduleResponse}
// @Security     BearerAuth
// @Router       /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req scheduleapp.ScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	s, err := h.scheduleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, s)
}

// Delete godoc
// @Summary      Delete a sailing
// @Tags         schedules
// @Param        id path string true "Schedule ID"
// @Success      204
// @Security     BearerAuth
// @Router       /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
