package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	quotationapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/config"
)

//go:embed templates/offer.html.tmpl
var templateFS embed.FS

// CompanyInfo is printed in the offer letterhead
type CompanyInfo struct {
	Name    string
	Address string
	VAT     string
}

var _ quotationapp.OfferRenderer = (*OfferRenderer)(nil)

// OfferRenderer renders priced quotation requests as PDF offers
type OfferRenderer struct {
	pdf     PDFRenderer
	tmpl    *template.Template
	company CompanyInfo
	paper   PaperSize
	lang    language.Tag
}

// NewOfferRenderer parses the offer template
func NewOfferRenderer(pdf PDFRenderer, cfg config.PrintingConfig) (*OfferRenderer, error) {
	tmpl, err := template.New("offer.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/offer.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse offer template: %w", err)
	}
	return &OfferRenderer{
		pdf:  pdf,
		tmpl: tmpl,
		company: CompanyInfo{
			Name:    cfg.CompanyName,
			Address: cfg.CompanyAddress,
			VAT:     cfg.CompanyVAT,
		},
		paper: ParsePaperSize(cfg.PaperSize),
		lang:  language.English,
	}, nil
}

// RenderOffer renders the request to HTML and prints it
func (r *OfferRenderer) RenderOffer(ctx context.Context, q *quotation.QuotationRequest) ([]byte, error) {
	body, err := r.RenderHTML(q)
	if err != nil {
		return nil, err
	}
	return r.pdf.Render(ctx, &RenderRequest{
		HTML:       body,
		Title:      "Offer " + q.RequestNumber,
		PaperSize:  r.paper,
		FooterHTML: footerTemplate(q.RequestNumber),
	})
}

// RenderHTML executes the offer template for the request
func (r *OfferRenderer) RenderHTML(q *quotation.QuotationRequest) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, r.buildView(q)); err != nil {
		return "", NewRenderError(ErrCodeTemplate, "offer template failed", err)
	}
	return buf.String(), nil
}

type offerView struct {
	Company      CompanyInfo
	Number       string
	Date         string
	ClientName   string
	ContactName  string
	ContactEmail string
	Reference    string
	ServiceType  string
	Route        []string
	Cargo        []cargoRow
	Lines        []lineRow
	Subtotal     string
	VatLabel     string
	VatAmount    string
	Total        string
	Notes        string
}

type cargoRow struct {
	Description string
	Quantity    int
	Dimensions  string
	Weight      string
}

type lineRow struct {
	Description string
	Quantity    string
	Unit        string
	UnitPrice   string
	Subtotal    string
	Child       bool
}

func (r *OfferRenderer) buildView(q *quotation.QuotationRequest) offerView {
	date := q.CreatedAt
	if q.PricedAt != nil {
		date = *q.PricedAt
	}
	currency := string(q.Currency)
	p := message.NewPrinter(r.lang)

	v := offerView{
		Company:      r.company,
		Number:       q.RequestNumber,
		Date:         date.Format("02 Jan 2006"),
		ClientName:   q.Contact.ClientName,
		ContactName:  q.Contact.ContactName,
		ContactEmail: q.Contact.ContactEmail,
		Reference:    q.Contact.ClientReference,
		ServiceType:  r.serviceLabel(q.ServiceType),
		Route:        routeLegs(q.Route),
		Subtotal:     money(p, q.Totals.Subtotal, currency),
		VatLabel:     vatLabel(q.Totals),
		VatAmount:    money(p, q.Totals.VatAmount, currency),
		Total:        money(p, q.Totals.Total, currency),
		Notes:        q.Notes,
	}

	for _, item := range q.CommodityItems {
		desc := item.Description
		if desc == "" {
			desc = strings.TrimSpace(item.Make + " " + item.Model)
		}
		if desc == "" {
			desc = r.serviceLabel(string(item.Type))
		}
		v.Cargo = append(v.Cargo, cargoRow{
			Description: desc,
			Quantity:    item.Quantity,
			Dimensions:  fmt.Sprintf("%s x %s x %s cm", item.LengthCm.String(), item.WidthCm.String(), item.HeightCm.String()),
			Weight:      p.Sprintf("%v kg", number.Decimal(item.WeightKg.InexactFloat64(), number.MaxFractionDigits(0))),
		})
	}

	for _, line := range q.Articles {
		v.Lines = append(v.Lines, lineRow{
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			Unit:        string(line.UnitType),
			UnitPrice:   money(p, line.UnitPrice, currency),
			Subtotal:    money(p, line.Subtotal, currency),
			Child:       line.ParentLineID != nil,
		})
	}
	return v
}

// money formats an amount with thousands separators and two decimals
func money(p *message.Printer, d decimal.Decimal, currency string) string {
	amount := p.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
	return currency + " " + amount
}

func (r *OfferRenderer) serviceLabel(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(r.lang).String(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}

func routeLegs(route quotation.Route) []string {
	legs := make([]string, 0, 4)
	for _, code := range []string{route.PorCode, route.PolCode, route.PodCode, route.FdestCode} {
		if code != "" && (len(legs) == 0 || legs[len(legs)-1] != code) {
			legs = append(legs, code)
		}
	}
	return legs
}

func vatLabel(t quotation.Totals) string {
	rate := t.VatRate.Round(2)
	if t.VatCode == "" {
		return fmt.Sprintf("VAT %s%%", rate.String())
	}
	return fmt.Sprintf("VAT %s (%s%%)", t.VatCode, rate.String())
}

func footerTemplate(number string) string {
	return fmt.Sprintf(`<div style="font-size:8px;width:100%%;text-align:center;color:#777;">%s · page <span class="pageNumber"></span>/<span class="totalPages"></span> · %s</div>`,
		template.HTMLEscapeString(number), time.Now().UTC().Format("2006-01-02"))
}
