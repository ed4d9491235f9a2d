package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-stock/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "inventario-stock-test"
)

// buildTestApp ruta GET /protected con AuthMiddleware + RequireRole; responde 200 y el rol si pasa.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func signToken(t *testing.T, id pkgjwt.Identity, issuer string, ttl time.Duration) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, id, issuer, ttl)
	require.NoError(t, err)
	return "Bearer " + tok
}

// tokenForRole token válido de la empresa de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return signToken(t, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: role}, testIssuer, time.Hour)
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name     string
		allowed  []string
		role     string
		wantCode int
		wantBody string
	}{
		{"admin en ruta admin", []string{apphttp.RoleAdmin}, apphttp.RoleAdmin, http.StatusOK, `"role":"admin"`},
		{"bodeguero en ruta admin o bodeguero", []string{apphttp.RoleAdmin, apphttp.RoleBodeguero}, apphttp.RoleBodeguero, http.StatusOK, ""},
		{"vendedor en ruta admin", []string{apphttp.RoleAdmin}, apphttp.RoleVendedor, http.StatusForbidden, "FORBIDDEN"},
		{"bodeguero en ruta vendedor", []string{apphttp.RoleVendedor}, apphttp.RoleBodeguero, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{apphttp.RoleAdmin}, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(tc.allowed...), tokenForRole(t, tc.role))
			defer resp.Body.Close()

			assert.Equal(t, tc.wantCode, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.wantBody)
		})
	}
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	cases := []struct {
		name     string
		header   func(t *testing.T) string
		wantBody string
	}{
		{"sin header", func(*testing.T) string { return "" }, "MISSING_TOKEN"},
		{"esquema Basic", func(*testing.T) string { return "Basic dXNlcjpwYXNz" }, "INVALID_TOKEN"},
		{"token malformado", func(*testing.T) string { return "Bearer token.invalido.aqui" }, "INVALID_TOKEN"},
		{"token expirado", func(t *testing.T) string {
			return signToken(t, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: apphttp.RoleAdmin}, testIssuer, -time.Minute)
		}, "INVALID_TOKEN"},
		{"otro emisor", func(t *testing.T) string {
			return signToken(t, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID, Role: apphttp.RoleAdmin}, "otro-servicio", time.Hour)
		}, "INVALID_TOKEN"},
		{"sin empresa", func(t *testing.T) string {
			return signToken(t, pkgjwt.Identity{UserID: testUserID, Role: apphttp.RoleAdmin}, testIssuer, time.Hour)
		}, "token sin empresa"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(apphttp.RoleAdmin), tc.header(t))
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.wantBody)
		})
	}
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleBodeguero))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, apphttp.RoleBodeguero, body["role"])
}
