package integration

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrRobawsNotConfigured   = errors.New("integration: robaws client not configured")
	ErrRobawsUnavailable     = errors.New("integration: robaws temporarily unavailable")
	ErrRobawsRequestFailed   = errors.New("integration: robaws request failed")
	ErrRobawsInvalidResponse = errors.New("integration: invalid robaws response")
	ErrRobawsAuthFailed      = errors.New("integration: robaws authentication failed")
	ErrRobawsRateLimited     = errors.New("integration: robaws rate limited")
	ErrRobawsNotFound        = errors.New("integration: robaws resource not found")
)

// OfferResult is returned after an offer was created
type OfferResult struct {
	ID     string `json:"id"`
	Number string `json:"number,omitempty"`
}

// RobawsArticleChild references an add-on article of a parent article
type RobawsArticleChild struct {
	ArticleID string `json:"articleId"`
	Required  bool   `json:"required"`
}

// RobawsArticle is an article record as returned by the Robaws API
type RobawsArticle struct {
	ID              string               `json:"id"`
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Category        string               `json:"category"`
	VehicleCategory string               `json:"vehicleCategory"`
	Unit            string               `json:"unit"`
	SalePrice       decimal.Decimal      `json:"salePrice"`
	Currency        string               `json:"currency"`
	Carrier         string               `json:"carrier"`
	ServiceTypes    []string             `json:"serviceTypes"`
	CommodityTypes  []string             `json:"commodityTypes"`
	PolCode         string               `json:"pol"`
	PodCode         string               `json:"pod"`
	IsParent        bool                 `json:"parent"`
	IsSurcharge     bool                 `json:"surcharge"`
	IsMandatory     bool                 `json:"mandatory"`
	Active          bool                 `json:"active"`
	Children        []RobawsArticleChild `json:"children"`
}

// ArticlePage is one page of the Robaws article listing
type ArticlePage struct {
	Items      []RobawsArticle `json:"items"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalItems int             `json:"totalItems"`
}

// HasMore reports whether pages follow this one (pages are zero based)
func (p *ArticlePage) HasMore() bool {
	if p == nil || p.Size <= 0 {
		return false
	}
	return (p.Page+1)*p.Size < p.TotalItems
}

// RobawsClientRecord is a Robaws client (customer company)
type RobawsClientRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Country      string `json:"country"`
	CustomerType string `json:"customerType"`
}

// RobawsClient is the port to the Robaws CRM API. The HTTP adapter lives in
// the infrastructure layer.
type RobawsClient interface {
	// CreateOffer creates an offer and returns its id
	CreateOffer(ctx context.Context, payload OfferPayload) (*OfferResult, error)

	// ListArticles returns one page of articles, page is zero based
	ListArticles(ctx context.Context, page, size int) (*ArticlePage, error)

	// FindClientByEmail looks up a client by contact email.
	// Returns ErrRobawsNotFound when there is none.
	FindClientByEmail(ctx context.Context, email string) (*RobawsClientRecord, error)
}

// IsRetryable returns true for errors a later attempt may resolve
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRobawsUnavailable) || errors.Is(err, ErrRobawsRateLimited)
}
