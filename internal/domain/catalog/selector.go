package catalog

import (
	"sort"
	"strings"
	"time"
)

// Scores for the smart article selector
const (
	scoreServiceType = 40
	scorePol         = 20
	scorePod         = 20
	scoreCarrier     = 10
	scoreCommodity   = 10
)

// SuggestCriteria describes the quotation an article is suggested for
type SuggestCriteria struct {
	ServiceType   string
	Carrier       string
	PolCode       string
	PodCode       string
	CommodityType string
	Date          time.Time
}

// Suggestion is a ranked article
type Suggestion struct {
	Article *Article
	Score   int
	Reasons []string
}

// ArticleSelector ranks cached articles against a quotation
type ArticleSelector struct{}

// NewArticleSelector creates a selector
func NewArticleSelector() *ArticleSelector {
	return &ArticleSelector{}
}

// Suggest filters to articles valid on the criteria date, scores them and
// returns the best first. Articles that score zero are dropped. limit <= 0 means no limit.
func (s *ArticleSelector) Suggest(articles []Article, c SuggestCriteria, limit int) []Suggestion {
	date := c.Date
	if date.IsZero() {
		date = time.Now()
	}
	out := make([]Suggestion, 0)
	for i := range articles {
		a := &articles[i]
		if !a.IsValidOn(date) {
			continue
		}
		score, reasons := s.score(a, c)
		if score <= 0 {
			continue
		}
		out = append(out, Suggestion{Article: a, Score: score, Reasons: reasons})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Article.Name < out[j].Article.Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *ArticleSelector) score(a *Article, c SuggestCriteria) (int, []string) {
	score := 0
	var reasons []string

	if c.ServiceType != "" && a.HasServiceType(c.ServiceType) {
		score += scoreServiceType
		reasons = append(reasons, "service_type")
	} else if c.ServiceType != "" && len(a.ServiceTypes) > 0 {
		// sold under other services only
		return 0, nil
	}

	score += routeScore(a.PolCode, c.PolCode, scorePol, "pol", &reasons)
	if a.PolCode != "" && c.PolCode != "" && !strings.EqualFold(a.PolCode, c.PolCode) {
		return 0, nil
	}
	score += routeScore(a.PodCode, c.PodCode, scorePod, "pod", &reasons)
	if a.PodCode != "" && c.PodCode != "" && !strings.EqualFold(a.PodCode, c.PodCode) {
		return 0, nil
	}

	if c.Carrier != "" && strings.EqualFold(a.Carrier, c.Carrier) {
		score += scoreCarrier
		reasons = append(reasons, "carrier")
	}
	if c.CommodityType != "" && a.HasCommodityType(c.CommodityType) {
		score += scoreCommodity
		reasons = append(reasons, "commodity")
	}
	return score, reasons
}

// routeScore gives full points for an exact port match and half for an
// article that is not restricted to a port
func routeScore(articleCode, wanted string, points int, reason string, reasons *[]string) int {
	if wanted == "" {
		return 0
	}
	if articleCode == "" {
		*reasons = append(*reasons, reason+"_any")
		return points / 2
	}
	if strings.EqualFold(articleCode, wanted) {
		*reasons = append(*reasons, reason)
		return points
	}
	return 0
}

// AdditionalServices splits the children of a parent article into required and optional add-ons
func AdditionalServices(parent *Article) (required []*Article, optional []*Article) {
	children := make([]ArticleChild, len(parent.Children))
	copy(children, parent.Children)
	sort.SliceStable(children, func(i, j int) bool { return children[i].SortOrder < children[j].SortOrder })

	for i := range children {
		child := children[i].Child
		if child == nil || !child.IsActive {
			continue
		}
		if children[i].IsRequired || child.IsMandatory {
			required = append(required, child)
		} else {
			optional = append(optional, child)
		}
	}
	return required, optional
}
