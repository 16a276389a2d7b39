package port

import "strings"

// MatchKind tells how an input string was resolved
type MatchKind string

const (
	MatchKindCode  MatchKind = "code"
	MatchKindName  MatchKind = "name"
	MatchKindAlias MatchKind = "alias"
)

// Resolution is a successful port lookup
type Resolution struct {
	Port  *Port
	Kind  MatchKind
	Alias *PortAlias
}

// Resolver matches free text against ports and aliases held in memory
type Resolver struct {
	byCode  map[string]*Port
	byName  map[string]*Port
	byAlias map[string]*PortAlias
	byID    map[string]*Port
}

// NewResolver indexes active ports and active aliases
func NewResolver(ports []Port, aliases []PortAlias) *Resolver {
	r := &Resolver{
		byCode:  make(map[string]*Port, len(ports)),
		byName:  make(map[string]*Port, len(ports)),
		byAlias: make(map[string]*PortAlias, len(aliases)),
		byID:    make(map[string]*Port, len(ports)),
	}
	for i := range ports {
		p := &ports[i]
		if !p.IsActive {
			continue
		}
		r.byCode[p.Code] = p
		r.byID[p.ID.String()] = p
		if key := NormalizeAlias(p.Name); key != "" {
			if _, taken := r.byName[key]; !taken {
				r.byName[key] = p
			}
		}
	}
	for i := range aliases {
		a := &aliases[i]
		if a.IsActive {
			r.byAlias[a.NormalizedAlias] = a
		}
	}
	return r
}

// Resolve tries UN/LOCODE, then port name, then alias. It returns nil when nothing matches.
func (r *Resolver) Resolve(input string) *Resolution {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	if code := strings.ToUpper(trimmed); IsUNLocode(code) {
		if p, ok := r.byCode[code]; ok {
			return &Resolution{Port: p, Kind: MatchKindCode}
		}
	}
	key := NormalizeAlias(trimmed)
	if p, ok := r.byName[key]; ok {
		return &Resolution{Port: p, Kind: MatchKindName}
	}
	if a, ok := r.byAlias[key]; ok {
		if p, ok := r.byID[a.PortID.String()]; ok {
			return &Resolution{Port: p, Kind: MatchKindAlias, Alias: a}
		}
	}
	return nil
}

// Unresolved returns the inputs that do not resolve, de-duplicated by normalised key
func (r *Resolver) Unresolved(inputs []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, in := range inputs {
		key := NormalizeAlias(in)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if r.Resolve(in) == nil {
			out = append(out, strings.TrimSpace(in))
		}
	}
	return out
}
