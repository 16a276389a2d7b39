package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleSelector_Suggest(t *testing.T) {
	on := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	exact := newArticle(t, "1", "Seafreight Antwerp Lagos")
	exact.ServiceTypes = []string{ServiceRoroExport}
	exact.PolCode, exact.PodCode = "BEANR", "NGLOS"
	exact.Carrier = "GRIMALDI"
	exact.CommodityTypes = []string{"car"}

	generic := newArticle(t, "2", "Admin fee")
	generic.ServiceTypes = []string{ServiceRoroExport}

	otherPod := newArticle(t, "3", "Seafreight Antwerp Cotonou")
	otherPod.ServiceTypes = []string{ServiceRoroExport}
	otherPod.PolCode, otherPod.PodCode = "BEANR", "BJCOO"

	importOnly := newArticle(t, "4", "Import handling")
	importOnly.ServiceTypes = []string{ServiceRoroImport}

	expired := newArticle(t, "5", "Old seafreight")
	expired.ServiceTypes = []string{ServiceRoroExport}
	expired.ValidUntil = date(2026, 1, 31)

	unrestricted := newArticle(t, "6", "Bill of lading")

	criteria := SuggestCriteria{
		ServiceType:   ServiceRoroExport,
		Carrier:       "grimaldi",
		PolCode:       "BEANR",
		PodCode:       "NGLOS",
		CommodityType: "car",
		Date:          on,
	}

	got := NewArticleSelector().Suggest([]Article{*generic, *otherPod, *importOnly, *expired, *exact, *unrestricted}, criteria, 0)
	require.Len(t, got, 3)

	assert.Equal(t, "Seafreight Antwerp Lagos", got[0].Article.Name)
	assert.Equal(t, 100, got[0].Score)
	assert.Equal(t, "Admin fee", got[1].Article.Name)
	assert.Equal(t, 60, got[1].Score)
	assert.Equal(t, "Bill of lading", got[2].Article.Name)
	assert.Equal(t, 20, got[2].Score)

	limited := NewArticleSelector().Suggest([]Article{*generic, *exact}, criteria, 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "1", limited[0].Article.RobawsArticleID)
}

func TestAdditionalServices(t *testing.T) {
	parent := newArticle(t, "1", "Seafreight")
	insurance := newArticle(t, "2", "Insurance")
	customs := newArticle(t, "3", "Export customs")
	mandatory := newArticle(t, "4", "ISPS surcharge")
	mandatory.IsMandatory = true
	inactive := newArticle(t, "5", "Old add-on")
	inactive.IsActive = false

	require.NoError(t, parent.AddChild(insurance, false))
	require.NoError(t, parent.AddChild(customs, true))
	require.NoError(t, parent.AddChild(mandatory, false))
	require.NoError(t, parent.AddChild(inactive, true))

	required, optional := AdditionalServices(parent)
	require.Len(t, required, 2)
	assert.Equal(t, "Export customs", required[0].Name)
	assert.Equal(t, "ISPS surcharge", required[1].Name)
	require.Len(t, optional, 1)
	assert.Equal(t, "Insurance", optional[0].Name)
}
