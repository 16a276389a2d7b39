package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSuggestLimit = 20
	articleCacheTTL     = 30 * time.Minute
)

// ArticleCache caches articles by id. Get returns nil, nil on a miss.
type ArticleCache interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Article, error)
	Set(ctx context.Context, article *catalog.Article, ttl time.Duration) error
	Delete(ctx context.Context, id uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

// ArticleService serves the cached Robaws article catalogue
type ArticleService struct {
	articleRepo catalog.ArticleRepository
	cache       ArticleCache
	selector    *catalog.ArticleSelector
	logger      *zap.Logger
}

// NewArticleService creates a new ArticleService. cache may be nil.
func NewArticleService(articleRepo catalog.ArticleRepository, cache ArticleCache, logger *zap.Logger) *ArticleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{
		articleRepo: articleRepo,
		cache:       cache,
		selector:    catalog.NewArticleSelector(),
		logger:      logger,
	}
}

// List returns one page of articles
func (s *ArticleService) List(ctx context.Context, filter ArticleListFilter) (*shared.Paginated[ArticleResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()
	if filter.Category != "" {
		f.Filters["category"] = strings.ToLower(filter.Category)
	}
	if filter.Carrier != "" {
		f.Filters["carrier"] = strings.ToUpper(filter.Carrier)
	}
	if filter.UnitType != "" {
		f.Filters["unit_type"] = filter.UnitType
	}
	if filter.ServiceType != "" {
		f.Filters["service_type"] = filter.ServiceType
	}
	if filter.PolCode != "" {
		f.Filters["pol_code"] = strings.ToUpper(filter.PolCode)
	}
	if filter.PodCode != "" {
		f.Filters["pod_code"] = strings.ToUpper(filter.PodCode)
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	if filter.IsParent != nil {
		f.Filters["is_parent"] = *filter.IsParent
	}

	articles, err := s.articleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.articleRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]ArticleResponse, len(articles))
	for i := range articles {
		items[i] = ToArticleResponse(&articles[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID returns an article with its children
func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// GetArticle reads an article through the cache. Cache failures fall back to the database.
func (s *ArticleService) GetArticle(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("article cache read failed", zap.String("article_id", id.String()), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, article, articleCacheTTL); err != nil {
			s.logger.Warn("article cache write failed", zap.String("article_id", id.String()), zap.Error(err))
		}
	}
	return article, nil
}

// Suggest ranks the articles that could serve a shipment
func (s *ArticleService) Suggest(ctx context.Context, req SuggestRequest) ([]SuggestionResponse, error) {
	criteria := catalog.SuggestCriteria{
		ServiceType:   strings.ToUpper(strings.TrimSpace(req.ServiceType)),
		Carrier:       strings.TrimSpace(req.Carrier),
		PolCode:       strings.ToUpper(strings.TrimSpace(req.PolCode)),
		PodCode:       strings.ToUpper(strings.TrimSpace(req.PodCode)),
		CommodityType: strings.TrimSpace(req.CommodityType),
		Date:          time.Now(),
	}
	if req.Date != nil {
		criteria.Date = *req.Date
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	suggestions, err := s.SuggestArticles(ctx, criteria, limit)
	if err != nil {
		return nil, err
	}
	out := make([]SuggestionResponse, len(suggestions))
	for i, sg := range suggestions {
		reasons := sg.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		out[i] = SuggestionResponse{Article: ToArticleResponse(sg.Article), Score: sg.Score, Reasons: reasons}
	}
	return out, nil
}

// SuggestArticles loads route candidates and ranks them
func (s *ArticleService) SuggestArticles(ctx context.Context, criteria catalog.SuggestCriteria, limit int) ([]catalog.Suggestion, error) {
	at := criteria.Date
	if at.IsZero() {
		at = time.Now()
	}
	candidates, err := s.articleRepo.FindCandidates(ctx, criteria.PolCode, criteria.PodCode, at)
	if err != nil {
		return nil, err
	}
	return s.selector.Suggest(candidates, criteria, limit), nil
}

// AdditionalServices lists the required and optional add-ons of a parent article
func (s *ArticleService) AdditionalServices(ctx context.Context, id uuid.UUID) (*AdditionalServicesResponse, error) {
	parent, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	required, optional := catalog.AdditionalServices(parent)
	resp := &AdditionalServicesResponse{
		Parent:   ToArticleResponse(parent),
		Required: make([]ArticleResponse, 0, len(required)),
		Optional: make([]ArticleResponse, 0, len(optional)),
	}
	for _, a := range required {
		resp.Required = append(resp.Required, ToArticleResponse(a))
	}
	for _, a := range optional {
		resp.Optional = append(resp.Optional, ToArticleResponse(a))
	}
	return resp, nil
}
