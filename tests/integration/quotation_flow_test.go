//go:build integration

package integration

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	catalogapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/catalog"
	portapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/port"
	pricingapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/pricing"
	quotationapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/cache"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/migration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/persistence"
	"github.com/Patrickscodegit/Beconnect-sub010/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPorts(t *testing.T, ctx context.Context, repo *persistence.GormPortRepository, codes ...[3]string) {
	t.Helper()
	for _, c := range codes {
		p, err := port.NewPort(c[0], c[1], c[2], port.PortTypeSeaport)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}
}

func newQuotationService(tdb *TestDB, events *testutil.EventRecorder) *quotationapp.QuotationService {
	db := tdb.DB
	portRepo := persistence.NewGormPortRepository(db)
	aliasRepo := persistence.NewGormPortAliasRepository(db)
	articles := catalogapp.NewArticleService(persistence.NewGormArticleRepository(db), cache.NewInMemoryArticleCache(), nil)
	pricing := pricingapp.NewPricingService(
		persistence.NewGormMarginRuleRepository(db),
		persistence.NewGormPricingProfileRepository(db),
	)
	return quotationapp.NewQuotationService(
		persistence.NewGormQuotationTransactionScope(db),
		persistence.NewGormQuotationRepository(db),
		persistence.NewGormScheduleRepository(db),
		articles,
		pricing,
		portapp.NewPortService(portRepo, aliasRepo),
		portRepo,
		events,
		nil,
	)
}

func TestMigrations_RoundTrip(t *testing.T) {
	tdb := NewTestDB(t)

	m, err := migration.New(tdb.SqlDB, migration.Source{}, nil)
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestQuotationSubmit_ConcurrentNumbersAreUnique(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	seedPorts(t, ctx, persistence.NewGormPortRepository(tdb.DB),
		[3]string{"BEANR", "Antwerp", "BE"},
		[3]string{"NGLOS", "Lagos", "NG"},
	)
	events := testutil.NewEventRecorder()
	svc := newQuotationService(tdb, events)

	const n = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Submit(ctx, quotationapp.Actor{Staff: true}, quotationapp.SubmitRequest{
				ServiceType: "RORO_EXPORT",
				Contact:     quotationapp.ContactInput{ContactName: "Jan", ContactEmail: "jan@example.com"},
				Route:       quotationapp.RouteInput{Pol: "BEANR", Pod: "NGLOS"},
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, resp.RequestNumber)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, numbers, n)
	sort.Strings(numbers)
	year := time.Now().Year()
	for i, number := range numbers {
		assert.Equal(t, quotation.FormatRequestNumber(year, i+1), number)
	}
	assert.Equal(t, n, events.Count(quotation.EventTypeQuotationSubmitted))
}

func TestQuotationSubmit_UnknownPortRollsBack(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	seedPorts(t, ctx, persistence.NewGormPortRepository(tdb.DB), [3]string{"BEANR", "Antwerp", "BE"})
	events := testutil.NewEventRecorder()
	svc := newQuotationService(tdb, events)

	_, err := svc.Submit(ctx, quotationapp.Actor{Staff: true}, quotationapp.SubmitRequest{
		ServiceType: "RORO_EXPORT",
		Contact:     quotationapp.ContactInput{ContactEmail: "jan@example.com"},
		Route:       quotationapp.RouteInput{Pol: "BEANR", Pod: "Atlantis"},
	})
	require.Error(t, err)
	assert.True(t, shared.IsDomainError(err, "INVALID_ROUTE"))
	assert.Zero(t, events.Count(""))

	exists, err := persistence.NewGormQuotationRepository(tdb.DB).ExistsByNumber(ctx, quotation.FormatRequestNumber(time.Now().Year(), 1))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPortRepository_DeleteRemovesAliases(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	portRepo := persistence.NewGormPortRepository(tdb.DB)
	aliasRepo := persistence.NewGormPortAliasRepository(tdb.DB)
	seedPorts(t, ctx, portRepo, [3]string{"BEANR", "Antwerp", "BE"})

	antwerp, err := portRepo.FindByCode(ctx, "beanr")
	require.NoError(t, err)
	alias, err := port.NewPortAlias(antwerp.ID, "Antwerpen", port.AliasTypeLocal)
	require.NoError(t, err)
	require.NoError(t, aliasRepo.Save(ctx, alias))

	found, err := aliasRepo.FindByPort(ctx, antwerp.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, portRepo.Delete(ctx, antwerp.ID))
	found, err = aliasRepo.FindByPort(ctx, antwerp.ID)
	require.NoError(t, err)
	assert.Empty(t, found)

	err = portRepo.Delete(ctx, antwerp.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
