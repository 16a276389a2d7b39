package handler

import (
	catalogapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ArticleHandler serves the cached Robaws article catalogue and its sync
type ArticleHandler struct {
	BaseHandler
	articleService *catalogapp.ArticleService
	syncService    *catalogapp.ArticleSyncService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService *catalogapp.ArticleService, syncService *catalogapp.ArticleSyncService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, syncService: syncService}
}

// List godoc
// @Summary      List articles
// @Tags         articles
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        carrier query string false "Carrier"
// @Param        service_type query string false "Service type"
// @Success      200 {object} dto.Response{data=[]catalogapp.ArticleResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /articles [get]
func (h *ArticleHandler) List(c *gin.Context) {
	var filter catalogapp.ArticleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.articleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(&h.BaseHandler, c, page)
}

// GetByID godoc
// @Summary      Get an article
// @Tags         articles
// @Produce      json
// @Param        id path string true "Article ID"
// @Success      200 {object} dto.Response{data=catalogapp.ArticleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /articles/{id} [get]
func (h *ArticleHandler) GetByID(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	a, err := h.articleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Suggest godoc
// @Summary      Suggest articles for a shipment
// @Description  Ranks active articles by route, carrier, service and commodity match
// @Tags         articles
// @Produce      json
// @Param        service_type query string false "Service type"
// @Param        pol_code query string false "Port of loading"
// @Param        pod_code query string false "Port of discharge"
// @Success      200 {object} dto.Response{data=[]catalogapp.SuggestionResponse}
// @Security     BearerAuth
// @Router       /articles/suggest [get]
func (h *ArticleHandler) Suggest(c *gin.Context) {
	var req catalogapp.SuggestRequest
	if !h.bindQuery(c, &req) {
		return
	}
	suggestions, err := h.articleService.Suggest(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []catalogapp.SuggestionResponse{}
	}
	h.Success(c, suggestions)
}

// AdditionalServices godoc
// @Summary      Add-on articles of a parent
// @Tags         articles
// @Produce      json
// @Param        id path string true "Parent article ID"
// @Success      200 {object} dto.Response{data=catalogapp.AdditionalServicesResponse}
// @Security     BearerAuth
// @Router       /articles/{id}/additional-services [get]
func (h *ArticleHandler) AdditionalServices(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	result, err := h.articleService.AdditionalServices(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// TriggerSync godoc
// @Summary      Start an article sync
// @Description  Runs in the background. Returns 422 when a sync is already running.
// @Tags         articles
// @Produce      json
// @Success      202 {object} dto.Response{data=catalogapp.SyncRunResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /articles/sync [post]
func (h *ArticleHandler) TriggerSync(c *gin.Context) {
	run, err := h.syncService.Trigger(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, run)
}

// SyncProgress godoc
// @Summary      Article sync dashboard
// @Tags         articles
// @Produce      json
// @Param        limit query int false "Recent runs to include" default(10)
// @Success      200 {object} dto.Response{data=catalogapp.SyncProgressResponse}
// @Security     BearerAuth
// @Router       /articles/sync/progress [get]
func (h *ArticleHandler) SyncProgress(c *gin.Context) {
	progress, err := h.syncService.Progress(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, progress)
}

// GetSyncRun godoc
// @Summary      Get a sync run
// @Tags         articles
// @Produce      json
// @Param        id path string true "Run ID"
// @Success      200 {object} dto.Response{data=catalogapp.SyncRunResponse}
// @Security     BearerAuth
// @Router       /articles/sync/{id} [get]
func (h *ArticleHandler) GetSyncRun(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	run, err := h.syncService.GetRun(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}
