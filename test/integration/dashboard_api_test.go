//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	v1 "github.com/mirador-lab/project-mirador/internal/api/v1"
	"github.com/mirador-lab/project-mirador/internal/core/dataset"
	"github.com/mirador-lab/project-mirador/internal/core/profile"
	"github.com/mirador-lab/project-mirador/internal/dashboard"
	"github.com/mirador-lab/project-mirador/internal/server"
)

type integrationHarness struct {
	baseURL    string
	client     *http.Client
	registry   *dashboard.Registry
	cancel     context.CancelFunc
	serverDone chan error
}

func (h *integrationHarness) close(t *testing.T) {
	t.Helper()

	h.cancel()
	select {
	case <-h.serverDone:
	case <-time.After(5 * time.Second):
		t.Log("server shutdown timed out")
	}
}

func startHarness(t *testing.T) *integrationHarness {
	t.Helper()

	profiles, err := profile.NewRepository("")
	require.NoError(t, err)

	registry := dashboard.NewRegistry(8)
	svc := dashboard.NewService(registry, profiles, 1)

	port := freePort(t)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpServer := server.New(addr, registry, "release")
	svc.RegisterRoutes(httpServer.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	serverDone := make(chan error, 1)
	go func() { serverDone <- httpServer.Run(ctx) }()

	baseURL := "http://" + addr
	waitForHealthy(t, baseURL)

	return &integrationHarness{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		registry:   registry,
		cancel:     cancel,
		serverDone: serverDone,
	}
}

func TestDashboardAPI_UploadAndRender(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	csv := "Trade_Date,Close_USD,Symbol\n" +
		"2026-01-02,10,ABC\n" +
		"2026-01-03,11,ABC\n" +
		"2026-01-06,9,ABC\n"

	status, body := postCSV(t, h.client, h.baseURL+"/v1/datasets?name=abc.csv", csv)
	require.Equal(t, http.StatusCreated, status, string(body))

	var meta v1.DatasetMeta
	require.NoError(t, json.Unmarshal(body, &meta))
	require.Equal(t, 3, meta.Rows)
	require.Equal(t, "2026-01-02", meta.MinDate)
	require.Equal(t, "2026-01-06", meta.MaxDate)

	resp, err := h.client.Get(h.baseURL + "/v1/datasets/" + meta.ID + "/dashboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

	var bundle v1.Bundle
	require.NoError(t, json.Unmarshal(respBody, &bundle))
	require.Equal(t, profile.NamePriceSeries, bundle.Profile)
	require.Equal(t, 9.0, bundle.KPIs["last_price"])
	require.Equal(t, "$9.00", bundle.KPIs["last_price_label"])
	require.Equal(t, 3.0, bundle.KPIs["total_days_analyzed"])
	require.Len(t, bundle.Series[dashboard.ChartDailyMeanPrice], 3)
}

func TestDashboardAPI_FilteredWindow(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	csv := "Fecha,Monto,Region\n" +
		"2026-02-01,100,Norte\n" +
		"2026-02-01,200,Sur\n" +
		"2026-02-02,300,Norte\n"

	status, body := postCSV(t, h.client, h.baseURL+"/v1/datasets?profile=SalesLedger&name=ventas.csv", csv)
	require.Equal(t, http.StatusCreated, status, string(body))

	var meta v1.DatasetMeta
	require.NoError(t, json.Unmarshal(body, &meta))

	query := url.Values{}
	query.Set("start", "2026-02-01")
	query.Set("end", "2026-02-01")
	query.Set("categories", "Norte,Sur")

	resp, err := h.client.Get(fmt.Sprintf("%s/v1/datasets/%s/dashboard?%s", h.baseURL, meta.ID, query.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

	var bundle v1.Bundle
	require.NoError(t, json.Unmarshal(respBody, &bundle))
	require.Equal(t, 300.0, bundle.KPIs["total_revenue"])
	require.Equal(t, "$300.00", bundle.KPIs["total_revenue_label"])
	require.Equal(t, 2.0, bundle.KPIs["transaction_count"])
	require.Len(t, bundle.Series[dashboard.ChartRevenueByCategory], 2)
}

func TestDashboardAPI_BootDatasetAndHealth(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	store := dataset.SimulateSalesLedger(dataset.SimulateOptions{Rows: 50, Days: 30, Seed: 42})
	ds := h.registry.RegisterStore("Datos Simulados", profile.SalesLedger(), store, dataset.BuildReport{Rows: store.Len()})
	require.NotEmpty(t, ds.ID)

	resp, err := h.client.Get(h.baseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status   string `json:"status"`
		Datasets int    `json:"datasets"`
	}
	require.NoError(t, json.Unmarshal(respBody, &health))
	require.Equal(t, 1, health.Datasets)

	resp, err = h.client.Get(h.baseURL + "/v1/datasets/" + ds.ID + "/dashboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

	var bundle v1.Bundle
	require.NoError(t, json.Unmarshal(respBody, &bundle))
	require.Equal(t, profile.NameSalesLedger, bundle.Profile)
	require.Equal(t, 50.0, bundle.KPIs["transaction_count"])
	require.NotEmpty(t, bundle.TableRows)
}

func TestDashboardAPI_SchemaErrorSurfacesDetails(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)

	status, body := postCSV(t, h.client, h.baseURL+"/v1/datasets", "Volume,Symbol\n1,ABC\n")
	require.Equal(t, http.StatusUnprocessableEntity, status, string(body))

	var errResp struct {
		ErrorType string                 `json:"error_type"`
		Details   map[string]interface{} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body, &errResp))
	require.Equal(t, "schema_error", errResp.ErrorType)
	require.Equal(t, "missing_date_column", errResp.Details["kind"])
}

func waitForHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("server did not become healthy at %s", baseURL)
}

func postCSV(t *testing.T, client *http.Client, endpoint, csv string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(csv))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBody
}

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
