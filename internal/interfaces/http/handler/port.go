package handler

import (
	portapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/port"
	"github.com/gin-gonic/gin"
)

// PortHandler serves the port directory and the alias workbench
type PortHandler struct {
	BaseHandler
	portService *portapp.PortService
	workbench   *portapp.AliasWorkbenchService
}

// NewPortHandler creates a new PortHandler
func NewPortHandler(portService *portapp.PortService, workbench *portapp.AliasWorkbenchService) *PortHandler {
	return &PortHandler{portService: portService, workbench: workbench}
}

// UnresolvedRequest checks a batch of names against the directory
type UnresolvedRequest struct {
	Inputs []string `json:"inputs" binding:"required,min=1,max=500"`
}

// Create godoc
// @Summary      Create a port
// @Tags         ports
// @Accept       json
// @Produce      json
// @Param        request body portapp.CreatePortRequest true "Port"
// @Success      201 {object} dto.Response{data=portapp.PortResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ports [post]
func (h *PortHandler) Create(c *gin.Context) {
	var req portapp.CreatePortRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.portService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// List godoc
// @Summary      List ports
// @Tags         ports
// @Produce      json
// @Param        search query string false "Code, name or country"
// @Param        country query string false "ISO country"
// @Param        type query string false "seaport, airport or inland"
// @Success      200 {object} dto.Response{data=[]portapp.PortResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /ports [get]
func (h *PortHandler) List(c *gin.Context) {
	var filter portapp.PortListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.portService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// GetByID godoc
// @Summary      Get a port
// @Tags         ports
// @Produce      json
// @Param        id path string true "Port ID"
// @Success      200 {object} dto.Response{data=portapp.PortResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ports/{id} [get]
func (h *PortHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.portService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// GetByCode godoc
// @Summary      Get a port by UN/LOCODE
// @Tags         ports
// @Produce      json
// @Param        code path string true "UN/LOCODE"
// @Success      200 {object} dto.Response{data=portapp.PortResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ports/code/{code} [get]
func (h *PortHandler) GetByCode(c *gin.Context) {
	p, err := h.portService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Update godoc
// @Summary      Update a port
// @Tags         ports
// @Accept       json
// @Produce      json
// @Param        id path string true "Port ID"
// @Param        request body portapp.UpdatePortRequest true "Port"
// @Success      200 {object} dto.Response{data=portapp.PortResponse}
// @Security     BearerAuth
// @Router       /ports/{id} [put]
func (h *PortHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req portapp.UpdatePortRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.portService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete godoc
// @Summary      Delete a port
// @Tags         ports
// @Param        id path string true "Port ID"
// @Success      204
// @Security     BearerAuth
// @Router       /ports/{id} [delete]
func (h *PortHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.portService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Resolve godoc
// @Summary      Resolve free-text port names
// @Description  Each input is matched by code, exact name, alias, then fuzzy name
// @Tags         ports
// @Accept       json
// @Produce      json
// @Param        request body portapp.ResolveRequest true "Inputs"
// @Success      200 {object} dto.Response{data=[]portapp.ResolveResult}
// @Security     BearerAuth
// @Router       /ports/resolve [post]
func (h *PortHandler) Resolve(c *gin.Context) {
	var req portapp.ResolveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	results, err := h.portService.Resolve(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// ListAliases godoc
// @Summary      List port aliases
// @Tags         ports
// @Produce      json
// @Success      200 {object} dto.Response{data=[]portapp.AliasResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /ports/aliases [get]
func (h *PortHandler) ListAliases(c *gin.Context) {
	var filter portapp.AliasListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.workbench.ListAliases(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// CreateAlias godoc
// @Summary      Add an alias to a port
// @Tags         ports
// @Accept       json
// @Produce      json
// @Param        request body portapp.CreateAliasRequest true "Alias"
// @Success      201 {object} dto.Response{data=portapp.AliasResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ports/aliases [post]
func (h *PortHandler) CreateAlias(c *gin.Context) {
	var req portapp.CreateAliasRequest
	if !h.bindJSON(c, &req) {
		return
	}
	alias, err := h.workbench.CreateAlias(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, alias)
}

// BulkCreateAliases godoc
// @Summary      Add several aliases to a port
// @Description  Aliases that already exist or collide with another port are skipped
// @Tags         ports
// @Accept       json
// @Produce      json
// @Param        request body portapp.BulkCreateAliasesRequest true "Aliases"
// @Success      200 {object} dto.Response{data=portapp.BulkCreateAliasesResponse}
// @Security     BearerAuth
// @Router       /ports/aliases/bulk [post]
func (h *PortHandler) BulkCreateAliases(c *gin.Context) {
	var req portapp.BulkCreateAliasesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.workbench.BulkCreateAliases(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ToggleAlias godoc
// @Summary      Enable or disable an alias
// @Tags         ports
// @Param        id path string true "Alias ID"
// @Success      200 {object} dto.Response{data=portapp.AliasResponse}
// @Security     BearerAuth
// @Router       /ports/aliases/{id}/toggle [post]
func (h *PortHandler) ToggleAlias(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	alias, err := h.workbench.ToggleAlias(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alias)
}

// DeleteAlias godoc
// @Summary      Delete an alias
// @Tags         ports
// @Param        id path string true "Alias ID"
// @Success      204
// @Security     BearerAuth
// @Router       /ports/aliases/{id} [delete]
func (h *PortHandler) DeleteAlias(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.workbench.DeleteAlias(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Unresolved godoc
// @Summary      Find names the directory cannot resolve
// @Tags         ports
// @Accept       json
// @Produce      json
// @Param        request body UnresolvedRequest true "Inputs"
// @Success      200 {object} dto.Response{data=[]string}
// @Security     BearerAuth
// @Router       /ports/aliases/unresolved [post]
func (h *PortHandler) Unresolved(c *gin.Context) {
	var req UnresolvedRequest
	if !h.bindJSON(c, &req) {
		return
	}
	names, err := h.workbench.Unresolved(c.Request.Context(), req.Inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	h.Success(c, names)
}
