package port

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// AliasWorkbenchService backs the port alias workbench: staff review free-text
// port names that did not resolve and attach them to ports
type AliasWorkbenchService struct {
	portRepo  port.PortRepository
	aliasRepo port.PortAliasRepository
	ports     *PortService
}

// NewAliasWorkbenchService creates a new AliasWorkbenchService
func NewAliasWorkbenchService(portRepo port.PortRepository, aliasRepo port.PortAliasRepository) *AliasWorkbenchService {
	return &AliasWorkbenchService{
		portRepo:  portRepo,
		aliasRepo: aliasRepo,
		ports:     NewPortService(portRepo, aliasRepo),
	}
}

// ListAliases returns one page of aliases with their ports
func (s *AliasWorkbenchService) ListAliases(ctx context.Context, filter AliasListFilter) (*shared.Paginated[AliasResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()
	if filter.PortID != "" {
		id, err := uuid.Parse(filter.PortID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid port id")
		}
		f.Filters["port_id"] = id
	}
	if filter.AliasType != "" {
		f.Filters["alias_type"] = filter.AliasType
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	aliases, err := s.aliasRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.aliasRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]AliasResponse, len(aliases))
	for i := range aliases {
		items[i] = ToAliasResponse(&aliases[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// CreateAlias adds an alias to a port. A normalized alias that already maps to
// another port is rejected.
func (s *AliasWorkbenchService) CreateAlias(ctx context.Context, req CreateAliasRequest) (*AliasResponse, error) {
	p, err := s.loadPort(ctx, req.PortID)
	if err != nil {
		return nil, err
	}
	alias, err := port.NewPortAlias(p.ID, req.Alias, port.AliasType(req.AliasType))
	if err != nil {
		return nil, err
	}
	if err := s.checkConflict(ctx, alias); err != nil {
		return nil, err
	}
	if err := s.aliasRepo.Save(ctx, alias); err != nil {
		return nil, fmt.Errorf("failed to save port alias: %w", err)
	}
	alias.Port = p
	resp := ToAliasResponse(alias)
	return &resp, nil
}

// BulkCreateAliases adds several aliases to one port. Conflicting, duplicate
// or empty aliases are skipped with a reason; the rest are saved together.
func (s *AliasWorkbenchService) BulkCreateAliases(ctx context.Context, req BulkCreateAliasesRequest) (*BulkCreateAliasesResponse, error) {
	p, err := s.loadPort(ctx, req.PortID)
	if err != nil {
		return nil, err
	}

	resp := &BulkCreateAliasesResponse{Created: []AliasResponse{}, Skipped: []SkippedAlias{}}
	pending := make([]*port.PortAlias, 0, len(req.Aliases))
	seen := make(map[string]struct{})
	for _, raw := range req.Aliases {
		alias, err := port.NewPortAlias(p.ID, raw, port.AliasType(req.AliasType))
		if err != nil {
			resp.Skipped = append(resp.Skipped, SkippedAlias{Alias: raw, Reason: err.Error()})
			continue
		}
		if _, dup := seen[alias.NormalizedAlias]; dup {
			resp.Skipped = append(resp.Skipped, SkippedAlias{Alias: raw, Reason: "Duplicate in request"})
			continue
		}
		seen[alias.NormalizedAlias] = struct{}{}
		if err := s.checkConflict(ctx, alias); err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				resp.Skipped = append(resp.Skipped, SkippedAlias{Alias: raw, Reason: de.Message})
				continue
			}
			return nil, err
		}
		pending = append(pending, alias)
	}

	if err := s.aliasRepo.SaveBatch(ctx, pending); err != nil {
		return nil, fmt.Errorf("failed to save port aliases: %w", err)
	}
	for _, a := range pending {
		a.Port = p
		resp.Created = append(resp.Created, ToAliasResponse(a))
	}
	return resp, nil
}

// ToggleAlias flips an alias between active and inactive
func (s *AliasWorkbenchService) ToggleAlias(ctx context.Context, id uuid.UUID) (*AliasResponse, error) {
	alias, err := s.aliasRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	alias.Toggle()
	if err := s.aliasRepo.Save(ctx, alias); err != nil {
		return nil, fmt.Errorf("failed to save port alias: %w", err)
	}
	resp := ToAliasResponse(alias)
	return &resp, nil
}

// DeleteAlias removes an alias
func (s *AliasWorkbenchService) DeleteAlias(ctx context.Context, id uuid.UUID) error {
	return s.aliasRepo.Delete(ctx, id)
}

// Unresolved reports the inputs no port or alias resolves
func (s *AliasWorkbenchService) Unresolved(ctx context.Context, inputs []string) ([]string, error) {
	resolver, err := s.ports.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return resolver.Unresolved(inputs), nil
}

func (s *AliasWorkbenchService) loadPort(ctx context.Context, id uuid.UUID) (*port.Port, error) {
	p, err := s.portRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PORT", "Port not found")
		}
		return nil, err
	}
	return p, nil
}

func (s *AliasWorkbenchService) checkConflict(ctx context.Context, alias *port.PortAlias) error {
	existing, err := s.aliasRepo.FindByNormalized(ctx, alias.NormalizedAlias)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.PortID != alias.PortID {
		return shared.NewDomainError("ALIAS_CONFLICT", "Alias already maps to another port")
	}
	return shared.NewDomainError("ALREADY_EXISTS", "Alias already exists for this port")
}
