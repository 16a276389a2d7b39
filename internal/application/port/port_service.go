package port

import (
	"context"
	"fmt"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// PortService handles port master data and free-text port resolution
type PortService struct {
	portRepo  port.PortRepository
	aliasRepo port.PortAliasRepository
}

// NewPortService creates a new PortService
func NewPortService(portRepo port.PortRepository, aliasRepo port.PortAliasRepository) *PortService {
	return &PortService{portRepo: portRepo, aliasRepo: aliasRepo}
}

// Create creates a port
func (s *PortService) Create(ctx context.Context, req CreatePortRequest) (*PortResponse, error) {
	exists, err := s.portRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Port with this code already exists")
	}
	p, err := port.NewPort(req.Code, req.Name, req.Country, port.PortType(req.Type))
	if err != nil {
		return nil, err
	}
	if req.Region != "" {
		if err := p.Update(p.Name, p.Country, req.Region, p.Type); err != nil {
			return nil, err
		}
	}
	if err := s.portRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save port: %w", err)
	}
	resp := ToPortResponse(p)
	return &resp, nil
}

// GetByID returns a port
func (s *PortService) GetByID(ctx context.Context, id uuid.UUID) (*PortResponse, error) {
	p, err := s.portRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPortResponse(p)
	return &resp, nil
}

// GetByCode returns a port by UN/LOCODE
func (s *PortService) GetByCode(ctx context.Context, code string) (*PortResponse, error) {
	p, err := s.portRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToPortResponse(p)
	return &resp, nil
}

// List returns one page of ports
func (s *PortService) List(ctx context.Context, filter PortListFilter) (*shared.Paginated[PortResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()
	if filter.Country != "" {
		f.Filters["country"] = filter.Country
	}
	if filter.Region != "" {
		f.Filters["region"] = filter.Region
	}
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	ports, err := s.portRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.portRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]PortResponse, len(ports))
	for i := range ports {
		items[i] = ToPortResponse(&ports[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update updates a port
func (s *PortService) Update(ctx context.Context, id uuid.UUID, req UpdatePortRequest) (*PortResponse, error) {
	p, err := s.portRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Country, req.Region, port.PortType(req.Type)); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != p.IsActive {
		p.SetActive(*req.IsActive)
	}
	if err := s.portRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save port: %w", err)
	}
	resp := ToPortResponse(p)
	return &resp, nil
}

// Delete removes a port and its aliases
func (s *PortService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.portRepo.Delete(ctx, id)
}

// Resolve maps free-text inputs onto ports
func (s *PortService) Resolve(ctx context.Context, req ResolveRequest) ([]ResolveResult, error) {
	resolver, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ResolveResult, 0, len(req.Inputs))
	for _, in := range req.Inputs {
		result := ResolveResult{Input: in}
		if r := resolver.Resolve(in); r != nil {
			p := ToPortResponse(r.Port)
			result.Resolved = true
			result.Kind = string(r.Kind)
			result.Port = &p
			if r.Alias != nil {
				id := r.Alias.ID
				result.AliasID = &id
			}
		}
		out = append(out, result)
	}
	return out, nil
}

// ResolveOne returns the port an input resolves to, or ErrNotFound
func (s *PortService) ResolveOne(ctx context.Context, input string) (*port.Port, error) {
	resolver, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	r := resolver.Resolve(input)
	if r == nil {
		return nil, shared.ErrNotFound
	}
	return r.Port, nil
}

func (s *PortService) resolver(ctx context.Context) (*port.Resolver, error) {
	ports, err := s.portRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ports: %w", err)
	}
	aliases, err := s.aliasRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load port aliases: %w", err)
	}
	return port.NewResolver(ports, aliases), nil
}
