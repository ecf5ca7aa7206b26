package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/concesionario-api/internal/application/inventory"
	"github.com/jhoicas/concesionario-api/internal/application/sales"
	"github.com/jhoicas/concesionario-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/concesionario-api/internal/interfaces/http"
	"github.com/jhoicas/concesionario-api/pkg/logger"
)

// testAPI API completa sobre el almacén en memoria con datos de demostración.
type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewSeeded()
	movementUC := inventory.NewMovementUseCase(store, store.Movements(), store.Vehicles(), store.Products(), store.Locations())
	returnUC := sales.NewReturnUseCase(store, movementUC, store.Sales(), store.Returns(), store.Movements())
	reportUC := inventory.NewReportUseCase(store.Reports())

	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		MovementUC: movementUC,
		ReportUC:   reportUC,
		ReturnUC:   returnUC,
		JWTSecret:  testJWTSecret,
		JWTIssuer:  testIssuer,
		Logger:     log,
	})
	return &testAPI{app: app, store: store}
}

// do lanza la petición con el rol indicado y decodifica la respuesta JSON en out (si no es nil).
func (a *testAPI) do(t *testing.T, method, path, role string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
