//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/AhmetSulu/online-shopping-api/test/pact"

	catalogmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/application"
	catalogdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
	ordersmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/application"
	settingsmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/adapters/memory"
	settingsapp "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/application"
	usersmemory "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/memory"
	usersobs "github.com/AhmetSulu/online-shopping-api/internal/domains/users/adapters/observability"
	usersapp "github.com/AhmetSulu/online-shopping-api/internal/domains/users/application"
	"github.com/AhmetSulu/online-shopping-api/internal/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestShopProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			return nil, nil
		},
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			if setup {
				app.seedProduct(t, pacttest.ExistingProductID, 25)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			return nil, nil
		},
		pacttest.StateProductOutOfStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			if setup {
				app.seedProduct(t, pacttest.ExistingProductID, 1)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetCatalog(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	products *catalogmemory.Repository
	server   *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	products := catalogmemory.NewRepository()
	store := ordersmemory.NewStore(products)

	catalogService := catalogobs.New(catalogapp.NewService(products))
	orderService := ordersobs.New(ordersapp.NewService(store, store, store))
	workflows := ordersworkflows.NewInlineOrderWorkflows(orderService)
	userService := usersobs.New(usersapp.NewService(usersmemory.NewRepository(), usersmemory.NewSessionStore(0)))
	settingsService := settingsapp.NewService(settingsmemory.NewRepository(), nil)

	handlers := httpapi.Handlers{
		Orders:   httpapi.NewOrderAPI(orderService, workflows),
		Products: httpapi.NewProductAPI(catalogService),
		Auth:     httpapi.NewAuthAPI(userService),
		Settings: httpapi.NewSettingsAPI(settingsService),
		Users:    userService,
	}

	router := httpapi.NewRouter(handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{
		products: products,
		server:   server,
	}
}

func (a *contractProviderApp) resetCatalog(t testing.TB) {
	t.Helper()
	products, err := a.products.List(context.Background())
	require.NoError(t, err)
	for _, product := range products {
		_ = a.products.Delete(context.Background(), product.ID)
	}
}

func (a *contractProviderApp) seedProduct(t testing.TB, id int64, stock int) {
	t.Helper()
	product, err := catalogdomain.NewProduct(id, "Pact Mechanical Keyboard", decimal.NewFromFloat(129.90), stock)
	require.NoError(t, err)
	require.NoError(t, product.UpdateCategory(catalogdomain.CategoryElectronics))
	_, err = a.products.Save(context.Background(), product)
	require.NoError(t, err)
}
