package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"heavysync/internal/config"
	"heavysync/internal/metrics"
	"heavysync/internal/model"
	"heavysync/internal/repository"
	"heavysync/internal/repository/memory"
	"heavysync/internal/service"
	"heavysync/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	model.PasswordCost = bcrypt.MinCost
}

type testServer struct {
	app   *fiber.App
	store *repository.Store
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseConfig:        config.DatabaseConfig{DatabaseURL: config.MemoryDatabase},
		AppEnv:                "test",
		JWTSecret:             "test-secret",
		CORSOrigins:           "*",
		RateLimitMax:          1000,
		RateLimitWindow:       time.Minute,
		AuthRateLimitMax:      1000,
		ProtectPurchaseOrders: true,
	}
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	tokens, err := jwt.NewManager(cfg.JWTSecret)
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	app := New(Deps{
		Config:    cfg,
		Logger:    log,
		Services:  service.New(store, tokens, nil, log),
		Tokens:    tokens,
		Metrics:   metrics.New(),
		AccessLog: io.Discard,
	})
	return &testServer{app: app, store: store}
}

type response struct {
	Status int
	Body   map[string]interface{}
	List   []interface{}
}

func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := response{Status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &out.List), string(raw))
	} else if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	}
	return out
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"fullName": "Test User",
		"username": username,
		"email":    username + "@heavysync.io",
		"password": "Secret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)

	resp = s.call(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": username,
		"password": "Secret1",
	})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)
	return resp.Body["token"].(string)
}

func (s *testServer) createSupplier(t *testing.T, token, email string) string {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/suppliers", token, map[string]string{
		"name":         "Acme Heavy",
		"contactEmail": email,
		"contactPhone": "0771234567",
		"address":      "12 Dock Road",
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)
	return resp.Body["id"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	resp := s.call(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"fullName": "Jane Doe",
		"username": "ab1",
		"email":    "ab1@x.io",
		"password": "Secret1",
	})
	assert.Equal(t, fiber.StatusCreated, resp.Status)
	assert.Equal(t, "User registered successfully", resp.Body["message"])

	resp = s.call(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "ab1", "password": "Secret1"})
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "Login successful", resp.Body["message"])
	assert.NotEmpty(t, resp.Body["token"])
	user := resp.Body["user"].(map[string]interface{})
	assert.Equal(t, "ab1", user["username"])
	assert.NotContains(t, user, "password")

	resp = s.call(t, http.MethodGet, "/api/users/me", resp.Body["token"].(string), nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "Jane Doe", resp.Body["fullName"])
}

func TestRegisterDuplicateLeavesCountUnchanged(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "jane")

	resp := s.call(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"fullName": "Jane Again",
		"username": "jane",
		"email":    "fresh@heavysync.io",
		"password": "Secret1",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Username or email already exists", resp.Body["message"])

	count, err := s.store.Users.Count(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	resp := s.call(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"fullName": "J",
		"username": "a!",
		"email":    "nope",
		"password": "weak",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Validation failed", resp.Body["message"])
	assert.Len(t, resp.Body["errors"], 4)

	resp = s.call(t, http.MethodPost, "/api/users/register", "", `{"username":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Invalid request body", resp.Body["message"])
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	s := newTestServer(t)
	s.login(t, "jane")

	wrong := s.call(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "jane", "password": "Wrong1"})
	unknown := s.call(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "ghost", "password": "Wrong1"})

	assert.Equal(t, fiber.StatusBadRequest, wrong.Status)
	assert.Equal(t, wrong.Status, unknown.Status)
	assert.Equal(t, wrong.Body, unknown.Body)
	assert.Equal(t, "Invalid username or password", wrong.Body["message"])
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")

	resp := s.call(t, http.MethodPost, "/api/users/change-password", token, map[string]string{"oldPassword": "Nope1", "newPassword": "Newpass1"})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Current password is incorrect", resp.Body["message"])

	resp = s.call(t, http.MethodPost, "/api/users/change-password", token, map[string]string{"oldPassword": "Secret1", "newPassword": "Newpass1"})
	assert.Equal(t, fiber.StatusOK, resp.Status)

	resp = s.call(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "jane", "password": "Newpass1"})
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestProfileAndUsernameCheck(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")

	resp := s.call(t, http.MethodPut, "/api/users/me", token, map[string]string{"phone": "0771234567"})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)
	assert.Equal(t, "Profile updated successfully", resp.Body["message"])

	resp = s.call(t, http.MethodPost, "/api/users/check-username", "", map[string]string{"username": "jane"})
	assert.Equal(t, true, resp.Body["exists"])
	resp = s.call(t, http.MethodPost, "/api/users/check-username", "", map[string]string{"username": "john"})
	assert.Equal(t, false, resp.Body["exists"])
}

func TestTokenChecks(t *testing.T) {
	s := newTestServer(t)

	resp := s.call(t, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	assert.Equal(t, "No token provided", resp.Body["message"])

	resp = s.call(t, http.MethodGet, "/api/dashboard", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Invalid token", resp.Body["message"])

	// Auth runs before body validation.
	resp = s.call(t, http.MethodPost, "/api/suppliers", "", map[string]string{})
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)

	token := s.login(t, "jane")
	resp = s.call(t, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "Welcome jane! This is your dashboard.", resp.Body["message"])
}

func TestSupplierCreateAndList(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")
	id := s.createSupplier(t, token, "sales@acme.io")

	// Reads are public.
	resp := s.call(t, http.MethodGet, "/api/suppliers", "", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	require.Len(t, resp.List, 1)
	assert.Equal(t, id, resp.List[0].(map[string]interface{})["id"])

	resp = s.call(t, http.MethodGet, "/api/suppliers/"+id, "", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "sales@acme.io", resp.Body["contactEmail"])

	resp = s.call(t, http.MethodPut, "/api/suppliers/"+id, token, map[string]string{"address": "99 Quarry Lane"})
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "99 Quarry Lane", resp.Body["address"])

	resp = s.call(t, http.MethodGet, "/api/suppliers/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Invalid ID format", resp.Body["message"])
}

func TestPublicReadsOmitAuditFields(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "ops_admin")
	id := s.createSupplier(t, token, "sales@acme.io")

	resp := s.call(t, http.MethodPut, "/api/suppliers/"+id, token, map[string]string{"name": "Acme Quarry"})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)

	resp = s.call(t, http.MethodGet, "/api/suppliers", "", nil)
	require.Len(t, resp.List, 1)
	listed := resp.List[0].(map[string]interface{})
	assert.NotContains(t, listed, "createdBy")
	assert.NotContains(t, listed, "updatedBy")

	resp = s.call(t, http.MethodGet, "/api/suppliers/"+id, "", nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.NotContains(t, resp.Body, "createdBy")
	assert.NotContains(t, resp.Body, "updatedBy")
}

func TestEmptyListsAreArrays(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")

	for _, path := range []string{"/api/suppliers", "/api/purchase-orders", "/api/parts", "/api/quotations", "/api/parts/low-stock"} {
		resp := s.call(t, http.MethodGet, path, token, nil)
		require.Equal(t, fiber.StatusOK, resp.Status, path)
		assert.NotNil(t, resp.List, path)
		assert.Empty(t, resp.List, path)
	}
}

func TestPurchaseOrderTotalIsDerived(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")
	supplierID := s.createSupplier(t, token, "sales@acme.io")

	resp := s.call(t, http.MethodPost, "/api/purchase-orders", token, map[string]interface{}{
		"supplier":    supplierID,
		"items":       []map[string]interface{}{{"name": "Bolt", "quantity": 2, "unitPrice": 5}},
		"totalAmount": 999,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)
	assert.Equal(t, 10.0, resp.Body["totalAmount"])
	assert.Equal(t, "Pending", resp.Body["status"])
	supplier := resp.Body["supplier"].(map[string]interface{})
	assert.Equal(t, supplierID, supplier["id"])
	assert.Equal(t, "Acme Heavy", supplier["name"])

	resp = s.call(t, http.MethodGet, "/api/purchase-orders", token, nil)
	require.Len(t, resp.List, 1)
	assert.Equal(t, 10.0, resp.List[0].(map[string]interface{})["totalAmount"])
}

func TestPurchaseOrderUnknownSupplier(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")

	resp := s.call(t, http.MethodPost, "/api/purchase-orders", token, map[string]interface{}{
		"supplier": uuid.NewString(),
		"items":    []map[string]interface{}{{"name": "Bolt", "quantity": 1, "unitPrice": 1}},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Supplier not found", resp.Body["message"])

	resp = s.call(t, http.MethodGet, "/api/purchase-orders", token, nil)
	assert.Empty(t, resp.List)
}

func TestPurchaseOrderValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")

	resp := s.call(t, http.MethodPost, "/api/purchase-orders", token, map[string]interface{}{
		"supplier": "x",
		"items":    []interface{}{},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.Status)
	fields := map[string]string{}
	for _, e := range resp.Body["errors"].([]interface{}) {
		fe := e.(map[string]interface{})
		fields[fe["field"].(string)] = fe["message"].(string)
	}
	assert.Equal(t, "Invalid supplier ID", fields["supplier"])
	assert.Equal(t, "At least one item is required", fields["items"])
}

func TestDeleteUnknownIsNotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")
	missing := uuid.NewString()

	resp := s.call(t, http.MethodDelete, "/api/suppliers/"+missing, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.Equal(t, "Supplier not found", resp.Body["message"])

	resp = s.call(t, http.MethodDelete, "/api/purchase-orders/"+missing, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.Equal(t, "Purchase order not found", resp.Body["message"])
}

func TestDeleteSupplierAndOrder(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")
	supplierID := s.createSupplier(t, token, "sales@acme.io")

	resp := s.call(t, http.MethodPost, "/api/purchase-orders", token, map[string]interface{}{
		"supplier": supplierID,
		"items":    []map[string]interface{}{{"name": "Bolt", "quantity": 1, "unitPrice": 1}},
	})
	require.Equal(t, fiber.StatusCreated, resp.Status)
	orderID := resp.Body["id"].(string)

	resp = s.call(t, http.MethodDelete, "/api/suppliers/"+supplierID, token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Supplier is referenced by other records", resp.Body["message"])

	resp = s.call(t, http.MethodDelete, "/api/purchase-orders/"+orderID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "Purchase order deleted successfully", resp.Body["message"])

	resp = s.call(t, http.MethodDelete, "/api/suppliers/"+supplierID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "Supplier deleted successfully", resp.Body["message"])
}

func TestPurchaseOrderProtectionFlag(t *testing.T) {
	protected := newTestServer(t)
	resp := protected.call(t, http.MethodGet, "/api/purchase-orders", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.Status)

	open := newTestServer(t, func(c *config.Config) { c.ProtectPurchaseOrders = false })
	resp = open.call(t, http.MethodGet, "/api/purchase-orders", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestAdminOnlyMutations(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.AdminOnlyMutations = true })
	token := s.login(t, "jane")

	resp := s.call(t, http.MethodPost, "/api/suppliers", token, map[string]string{
		"name":         "Acme Heavy",
		"contactEmail": "sales@acme.io",
		"contactPhone": "0771234567",
		"address":      "12 Dock Road",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = s.call(t, http.MethodGet, "/api/parts", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestPartsAndQuotations(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")
	supplierID := s.createSupplier(t, token, "sales@acme.io")

	resp := s.call(t, http.MethodPost, "/api/parts", token, map[string]interface{}{
		"partId":       "P-100",
		"name":         "Track roller",
		"description":  "Lower track roller",
		"partNumber":   "TR-100",
		"quantity":     1,
		"minimumStock": 4,
		"unitPrice":    300,
		"location":     "Bay 2",
		"categoryId":   "undercarriage",
		"supplier":     supplierID,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)
	partID := resp.Body["id"].(string)

	resp = s.call(t, http.MethodGet, "/api/parts/low-stock", token, nil)
	require.Len(t, resp.List, 1)

	resp = s.call(t, http.MethodPatch, "/api/parts/"+partID+"/quantity", token, map[string]int{"quantity": 10})
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, 10.0, resp.Body["quantity"])

	resp = s.call(t, http.MethodGet, "/api/parts/category/undercarriage", token, nil)
	assert.Len(t, resp.List, 1)

	resp = s.call(t, http.MethodPost, "/api/quotations", token, map[string]interface{}{
		"part":        partID,
		"quantity":    3,
		"supplierIds": []string{supplierID},
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)
	quotationID := resp.Body["id"].(string)
	assert.Equal(t, "TR-100", resp.Body["partNumber"])

	resp = s.call(t, http.MethodPut, "/api/quotations/"+quotationID+"/supplier/"+supplierID, token, map[string]interface{}{
		"quotedPrice":  280,
		"deliveryTime": 7,
	})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)

	resp = s.call(t, http.MethodGet, "/api/quotations/"+quotationID+"/comparison", token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	best := resp.Body["best"].(map[string]interface{})
	assert.Equal(t, supplierID, best["supplier"])
	assert.Equal(t, 840.0, best["totalCost"])
	assert.Equal(t, 7.0, best["deliveryTime"])

	resp = s.call(t, http.MethodPut, "/api/quotations/"+quotationID+"/supplier/"+uuid.NewString(), token, map[string]interface{}{"quotedPrice": 1})
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = s.call(t, http.MethodPut, "/api/quotations/"+quotationID+"/status", token, map[string]string{"status": "Closed"})
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "Closed", resp.Body["status"])
}

func TestPartSupplierCanBeCleared(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")
	supplierID := s.createSupplier(t, token, "sales@acme.io")

	resp := s.call(t, http.MethodPost, "/api/parts", token, map[string]interface{}{
		"partId":       "P-200",
		"name":         "Idler wheel",
		"description":  "Front idler wheel",
		"partNumber":   "IW-200",
		"quantity":     5,
		"minimumStock": 1,
		"unitPrice":    120,
		"location":     "Bay 4",
		"categoryId":   "undercarriage",
		"supplier":     supplierID,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, resp.Body)
	partID := resp.Body["id"].(string)
	assert.Equal(t, supplierID, resp.Body["supplierId"])

	resp = s.call(t, http.MethodPut, "/api/parts/"+partID, token, map[string]string{"supplier": "not-a-uuid"})
	require.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "Validation failed", resp.Body["message"])

	resp = s.call(t, http.MethodPut, "/api/parts/"+partID, token, map[string]string{"supplier": ""})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)
	assert.NotContains(t, resp.Body, "supplierId")
	assert.NotContains(t, resp.Body, "supplier")

	// Deleting the detached supplier is no longer blocked by the part.
	resp = s.call(t, http.MethodDelete, "/api/suppliers/"+supplierID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status, resp.Body)
}

func TestProfilePhoneCanBeCleared(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "jane")

	resp := s.call(t, http.MethodPut, "/api/users/me", token, map[string]string{"phone": "0771234567"})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)

	resp = s.call(t, http.MethodPut, "/api/users/me", token, map[string]string{"phone": ""})
	require.Equal(t, fiber.StatusOK, resp.Status, resp.Body)
	user := resp.Body["user"].(map[string]interface{})
	assert.Empty(t, user["phone"])

	resp = s.call(t, http.MethodPut, "/api/users/me", token, map[string]string{"phone": "12345"})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp := s.call(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "OK", resp.Body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	raw, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer raw.Body.Close()
	text, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), "heavysync_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.AuthRateLimitMax = 2 })

	for i := 0; i < 2; i++ {
		resp := s.call(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "ghost", "password": "x"})
		assert.Equal(t, fiber.StatusBadRequest, resp.Status)
	}
	resp := s.call(t, http.MethodPost, "/api/users/login", "", map[string]string{"username": "ghost", "password": "x"})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.Status)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	resp := s.call(t, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	assert.Equal(t, "Cannot GET /api/nowhere", resp.Body["message"])
}
