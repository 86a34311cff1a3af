//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/AhmetSulu/online-shopping-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type productPayload struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
	Category      string `json:"category"`
}

type orderLinePayload struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type createOrderPayload struct {
	CustomerID int64              `json:"customerId"`
	Lines      []orderLinePayload `json:"lines"`
}

type orderResultPayload struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	OrderID   int64  `json:"orderId"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	requestProduct := productPayload{
		ID:            pacttest.ExistingProductID,
		Name:          "Pact Mechanical Keyboard",
		Price:         "129.9",
		StockQuantity: 25,
		Category:      "electronics",
	}
	productBodyMatcher := matchers.Map{
		"id":            matchers.Like(requestProduct.ID),
		"name":          matchers.Like(requestProduct.Name),
		"price":         matchers.Like(requestProduct.Price),
		"stockQuantity": matchers.Like(requestProduct.StockQuantity),
		"category":      matchers.Term(requestProduct.Category, "electronics|clothing|home|books|other"),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to add a product").
		WithRequest("POST", "/api/v1/products", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(productBodyMatcher)
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to fetch an existing product").
		WithRequest("GET", fmt.Sprintf("/api/v1/products/%d", pacttest.ExistingProductID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", fmt.Sprintf("/api/v1/products/%d", pacttest.MissingProductID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request to place an order").
		WithRequest("POST", "/api/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"customerId": matchers.Like(pacttest.CustomerID),
				"lines": matchers.ArrayMinLike(map[string]any{
					"productId": pacttest.ExistingProductID,
					"quantity":  2,
				}, 1),
			})
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"isSuccess": matchers.Like(true),
				"message":   matchers.Like("Order created successfully"),
				"orderId":   matchers.Like(pacttest.ExistingOrderID),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductOutOfStock).
		UponReceiving("an order exceeding available stock").
		WithRequest("POST", "/api/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"customerId": matchers.Like(pacttest.CustomerID),
				"lines": matchers.ArrayMinLike(map[string]any{
					"productId": pacttest.ExistingProductID,
					"quantity":  2,
				}, 1),
			})
		}).
		WillRespondWith(http.StatusConflict, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/conflict"),
				"title":  matchers.S("Conflict"),
				"status": matchers.Like(http.StatusConflict),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newShopClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.AddProduct(ctx, requestProduct)
		if err != nil {
			return fmt.Errorf("add product: %w", err)
		}
		if created == nil || created.ID == 0 {
			return fmt.Errorf("expected created product ID to be set")
		}

		fetched, err := client.GetProduct(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product id %d, got %+v", pacttest.ExistingProductID, fetched)
		}

		if _, err := client.GetProduct(ctx, pacttest.MissingProductID); err == nil {
			return fmt.Errorf("expected 404 for product %d", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		order := createOrderPayload{
			CustomerID: pacttest.CustomerID,
			Lines:      []orderLinePayload{{ProductID: pacttest.ExistingProductID, Quantity: 2}},
		}
		result, err := client.PlaceOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if result == nil || !result.IsSuccess || result.OrderID == 0 {
			return fmt.Errorf("expected successful order result, got %+v", result)
		}

		if _, err := client.PlaceOrder(ctx, order); err == nil {
			return fmt.Errorf("expected conflict for oversold order")
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusConflict {
			return fmt.Errorf("expected 409, got %d", apiErr.Status())
		}

		return nil
	})
	require.NoError(t, err)
}

type shopClient struct {
	baseURL    string
	httpClient *http.Client
}

func newShopClient(config pactconsumer.MockServerConfig) *shopClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &shopClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *shopClient) AddProduct(ctx context.Context, product productPayload) (*productPayload, error) {
	var payload productPayload
	if err := c.post(ctx, "/api/v1/products", product, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *shopClient) GetProduct(ctx context.Context, id int64) (*productPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}

	var payload productPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *shopClient) PlaceOrder(ctx context.Context, order createOrderPayload) (*orderResultPayload, error) {
	var payload orderResultPayload
	if err := c.post(ctx, "/api/v1/orders", order, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *shopClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
