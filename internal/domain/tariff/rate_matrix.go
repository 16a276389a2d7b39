package tariff

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateCell is one port x vehicle category entry of a rate matrix
type RateCell struct {
	MappingID       uuid.UUID        `json:"mapping_id"`
	TariffID        *uuid.UUID       `json:"tariff_id,omitempty"`
	PortCode        string           `json:"port_code"`
	VehicleCategory string           `json:"vehicle_category"`
	BaseFreight     *decimal.Decimal `json:"base_freight,omitempty"`
	Total           *decimal.Decimal `json:"total,omitempty"`
	ValidUntil      *time.Time       `json:"valid_until,omitempty"`
}

// RateRow is one destination port of the matrix
type RateRow struct {
	PortCode string              `json:"port_code"`
	Cells    map[string]RateCell `json:"cells"`
}

// RateMatrix is the purchase rate grid of a carrier for its secondary destinations
type RateMatrix struct {
	Carrier    string    `json:"carrier"`
	Categories []string  `json:"categories"`
	Rows       []RateRow `json:"rows"`
}

// BuildRateMatrix lays out the current tariff of each non-primary mapping as
// a grid of destination ports by vehicle category. The current tariff is the
// one valid on `at`; when several are, the one with the latest ValidFrom wins.
func BuildRateMatrix(carrier string, mappings []CarrierMapping, tariffs []Tariff, at time.Time) *RateMatrix {
	carrier = strings.ToUpper(strings.TrimSpace(carrier))

	current := make(map[uuid.UUID]*Tariff)
	for i := range tariffs {
		t := &tariffs[i]
		if !t.IsValidOn(at) {
			continue
		}
		if prev, ok := current[t.MappingID]; ok && !laterStart(t, prev) {
			continue
		}
		current[t.MappingID] = t
	}

	rows := make(map[string]*RateRow)
	present := make(map[string]struct{})
	for _, m := range mappings {
		if m.Carrier != carrier || m.IsPrimary || !m.IsActive {
			continue
		}
		row, ok := rows[m.PortCode]
		if !ok {
			row = &RateRow{PortCode: m.PortCode, Cells: make(map[string]RateCell)}
			rows[m.PortCode] = row
		}
		cell := RateCell{MappingID: m.ID, PortCode: m.PortCode, VehicleCategory: m.VehicleCategory}
		if t, ok := current[m.ID]; ok {
			id := t.ID
			base := t.BaseFreight
			total := t.Total()
			cell.TariffID = &id
			cell.BaseFreight = &base
			cell.Total = &total
			cell.ValidUntil = t.ValidUntil
		}
		row.Cells[m.VehicleCategory] = cell
		present[m.VehicleCategory] = struct{}{}
	}

	matrix := &RateMatrix{Carrier: carrier, Categories: orderCategories(present), Rows: make([]RateRow, 0, len(rows))}
	for _, r := range rows {
		matrix.Rows = append(matrix.Rows, *r)
	}
	sort.Slice(matrix.Rows, func(i, j int) bool { return matrix.Rows[i].PortCode < matrix.Rows[j].PortCode })
	return matrix
}

// CellUpdate is an edit of one matrix cell's base freight
type CellUpdate struct {
	TariffID    uuid.UUID       `json:"tariff_id"`
	BaseFreight decimal.Decimal `json:"base_freight"`
}

// ApplyCellUpdates changes base freights on the given tariffs and returns only
// the tariffs that actually changed. Updates for unknown tariff ids are reported back.
func ApplyCellUpdates(tariffs []*Tariff, updates []CellUpdate) (changed []*Tariff, unknown []uuid.UUID, err error) {
	byID := make(map[uuid.UUID]*Tariff, len(tariffs))
	for _, t := range tariffs {
		byID[t.ID] = t
	}
	seen := make(map[uuid.UUID]struct{})
	for _, u := range updates {
		t, ok := byID[u.TariffID]
		if !ok {
			unknown = append(unknown, u.TariffID)
			continue
		}
		did, err := t.UpdateBaseFreight(u.BaseFreight)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := seen[t.ID]; did && !dup {
			changed = append(changed, t)
			seen[t.ID] = struct{}{}
		}
	}
	return changed, unknown, nil
}

func laterStart(a, b *Tariff) bool {
	switch {
	case a.ValidFrom == nil:
		return false
	case b.ValidFrom == nil:
		return true
	}
	return a.ValidFrom.After(*b.ValidFrom)
}

func orderCategories(present map[string]struct{}) []string {
	out := make([]string, 0, len(present))
	for _, c := range VehicleCategories {
		if _, ok := present[c]; ok {
			out = append(out, c)
			delete(present, c)
		}
	}
	rest := make([]string, 0, len(present))
	for c := range present {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
