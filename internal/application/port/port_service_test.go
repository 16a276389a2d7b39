package port

import (
	"context"
	"testing"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPort(t *testing.T, code, name, country string) *port.Port {
	t.Helper()
	p, err := port.NewPort(code, name, country, port.PortTypeSeaport)
	require.NoError(t, err)
	return p
}

func TestPortService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a port with region", func(t *testing.T) {
		portRepo := new(MockPortRepository)
		svc := NewPortService(portRepo, new(MockPortAliasRepository))

		portRepo.On("ExistsByCode", ctx, "beanr").Return(false, nil)
		portRepo.On("Save", ctx, mock.AnythingOfType("*port.Port")).Return(nil)

		resp, err := svc.Create(ctx, CreatePortRequest{Code: "beanr", Name: "Antwerp", Country: "be", Region: "Europe"})
		require.NoError(t, err)
		assert.Equal(t, "BEANR", resp.Code)
		assert.Equal(t, "BE", resp.Country)
		assert.Equal(t, "Europe", resp.Region)
		assert.Equal(t, "seaport", resp.Type)
		assert.Equal(t, "Antwerp (BEANR)", resp.Label)
		portRepo.AssertExpectations(t)
	})

	t.Run("rejects a duplicate code", func(t *testing.T) {
		portRepo := new(MockPortRepository)
		svc := NewPortService(portRepo, new(MockPortAliasRepository))

		portRepo.On("ExistsByCode", ctx, "BEANR").Return(true, nil)

		_, err := svc.Create(ctx, CreatePortRequest{Code: "BEANR", Name: "Antwerp", Country: "BE"})
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "ALREADY_EXISTS"))
		portRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPortService_Resolve(t *testing.T) {
	ctx := context.Background()
	portRepo := new(MockPortRepository)
	aliasRepo := new(MockPortAliasRepository)
	svc := NewPortService(portRepo, aliasRepo)

	antwerp := newTestPort(t, "BEANR", "Antwerp", "BE")
	lagos := newTestPort(t, "NGLOS", "Lagos", "NG")
	alias, err := port.NewPortAlias(antwerp.ID, "Antwerpen", port.AliasTypeLocal)
	require.NoError(t, err)

	portRepo.On("FindActive", ctx).Return([]port.Port{*antwerp, *lagos}, nil)
	aliasRepo.On("FindActive", ctx).Return([]port.PortAlias{*alias}, nil)

	results, err := svc.Resolve(ctx, ResolveRequest{Inputs: []string{"nglos", "ANTWERPEN", "lagos", "Tema"}})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Resolved)
	assert.Equal(t, "code", results[0].Kind)
	assert.Equal(t, "NGLOS", results[0].Port.Code)

	assert.True(t, results[1].Resolved)
	assert.Equal(t, "alias", results[1].Kind)
	assert.Equal(t, "BEANR", results[1].Port.Code)
	require.NotNil(t, results[1].AliasID)
	assert.Equal(t, alias.ID, *results[1].AliasID)

	assert.Equal(t, "name", results[2].Kind)
	assert.False(t, results[3].Resolved)
	assert.Nil(t, results[3].Port)
}

func TestPortService_ResolveOne_NotFound(t *testing.T) {
	ctx := context.Background()
	portRepo := new(MockPortRepository)
	aliasRepo := new(MockPortAliasRepository)
	svc := NewPortService(portRepo, aliasRepo)

	portRepo.On("FindActive", ctx).Return([]port.Port{}, nil)
	aliasRepo.On("FindActive", ctx).Return([]port.PortAlias{}, nil)

	_, err := svc.ResolveOne(ctx, "Nowhere")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAliasWorkbench_CreateAlias(t *testing.T) {
	ctx := context.Background()

	t.Run("saves a new alias", func(t *testing.T) {
		portRepo := new(MockPortRepository)
		aliasRepo := new(MockPortAliasRepository)
		svc := NewAliasWorkbenchService(portRepo, aliasRepo)
		p := newTestPort(t, "BEZEE", "Zeebrugge", "BE")

		portRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		aliasRepo.On("FindByNormalized", ctx, "zeebrugge brugge").Return(nil, shared.ErrNotFound)
		aliasRepo.On("Save", ctx, mock.AnythingOfType("*port.PortAlias")).Return(nil)

		resp, err := svc.CreateAlias(ctx, CreateAliasRequest{PortID: p.ID, Alias: "Zeebrugge-Brügge"})
		require.NoError(t, err)
		assert.Equal(t, "zeebrugge brugge", resp.NormalizedAlias)
		assert.Equal(t, "name", resp.AliasType)
		require.NotNil(t, resp.Port)
		assert.Equal(t, "BEZEE", resp.Port.Code)
	})

	t.Run("rejects an alias owned by another port", func(t *testing.T) {
		portRepo := new(MockPortRepository)
		aliasRepo := new(MockPortAliasRepository)
		svc := NewAliasWorkbenchService(portRepo, aliasRepo)
		p := newTestPort(t, "BEZEE", "Zeebrugge", "BE")
		other, _ := port.NewPortAlias(uuid.New(), "Bruges", port.AliasTypeName)

		portRepo.On("FindByID", ctx, p.ID).Return(p, nil)
		aliasRepo.On("FindByNormalized", ctx, "bruges").Return(other, nil)

		_, err := svc.CreateAlias(ctx, CreateAliasRequest{PortID: p.ID, Alias: "Bruges"})
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "ALIAS_CONFLICT"))
		aliasRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown port", func(t *testing.T) {
		portRepo := new(MockPortRepository)
		svc := NewAliasWorkbenchService(portRepo, new(MockPortAliasRepository))
		id := uuid.New()

		portRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.CreateAlias(ctx, CreateAliasRequest{PortID: id, Alias: "Anywhere"})
		assert.True(t, shared.IsDomainError(err, "INVALID_PORT"))
	})
}

func TestAliasWorkbench_BulkCreateAliases(t *testing.T) {
	ctx := context.Background()
	portRepo := new(MockPortRepository)
	aliasRepo := new(MockPortAliasRepository)
	svc := NewAliasWorkbenchService(portRepo, aliasRepo)
	p := newTestPort(t, "NGLOS", "Lagos", "NG")
	existing, _ := port.NewPortAlias(p.ID, "Apapa", port.AliasTypeLocal)

	portRepo.On("FindByID", ctx, p.ID).Return(p, nil)
	aliasRepo.On("FindByNormalized", ctx, "lagos apapa").Return(nil, shared.ErrNotFound)
	aliasRepo.On("FindByNormalized", ctx, "apapa").Return(existing, nil)
	aliasRepo.On("SaveBatch", ctx, mock.MatchedBy(func(a []*port.PortAlias) bool {
		return len(a) == 1 && a[0].NormalizedAlias == "lagos apapa"
	})).Return(nil)

	resp, err := svc.BulkCreateAliases(ctx, BulkCreateAliasesRequest{
		PortID:  p.ID,
		Aliases: []string{"Lagos/Apapa", "LAGOS APAPA", "Apapa", "  "},
	})
	require.NoError(t, err)
	require.Len(t, resp.Created, 1)
	assert.Len(t, resp.Skipped, 3)
	aliasRepo.AssertExpectations(t)
}

func TestAliasWorkbench_Unresolved(t *testing.T) {
	ctx := context.Background()
	portRepo := new(MockPortRepository)
	aliasRepo := new(MockPortAliasRepository)
	svc := NewAliasWorkbenchService(portRepo, aliasRepo)

	portRepo.On("FindActive", ctx).Return([]port.Port{*newTestPort(t, "BEANR", "Antwerp", "BE")}, nil)
	aliasRepo.On("FindActive", ctx).Return([]port.PortAlias{}, nil)

	out, err := svc.Unresolved(ctx, []string{"Antwerp", "Cotonou", "cotonou ", "Dakar"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cotonou", "Dakar"}, out)
}

func TestAliasWorkbench_ToggleAlias(t *testing.T) {
	ctx := context.Background()
	aliasRepo := new(MockPortAliasRepository)
	svc := NewAliasWorkbenchService(new(MockPortRepository), aliasRepo)
	a, _ := port.NewPortAlias(uuid.New(), "Anvers", port.AliasTypeLocal)

	aliasRepo.On("FindByID", ctx, a.ID).Return(a, nil)
	aliasRepo.On("Save", ctx, a).Return(nil)

	resp, err := svc.ToggleAlias(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}
