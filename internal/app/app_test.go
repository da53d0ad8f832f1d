package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/config"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/shared/testutil"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/domain"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/events"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.EnvPrefix+"_BASE_DIR", t.TempDir())

	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Security.RateLimit.Enabled = false
	cfg.Telemetry.EnableTracing = false
	return cfg
}

func price(v float64) *float64 { return &v }

func datasetBuild(productName string) func(context.Context) (*dataprocessing.Dataset, error) {
	return func(context.Context) (*dataprocessing.Dataset, error) {
		return dataprocessing.Unify([]dataprocessing.TaggedTable{{
			Table: dataprocessing.RawTable{
				Name:    "vivo",
				Columns: []string{domain.ColumnDate, domain.ColumnProductName, string(domain.FieldPriceAmazon)},
				Records: []dataprocessing.RawRecord{
					{Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), ProductName: productName, PriceAmazon: price(10)},
					{Date: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC), ProductName: productName, PriceAmazon: price(20)},
					{Date: time.Date(2024, 8, 3, 0, 0, 0, 0, time.UTC), ProductName: productName, PriceAmazon: price(30)},
				},
			},
			Type:    domain.TypeMobile,
			Company: "Vivo",
		}})
	}
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestApplication_Routes(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	frontend := fstest.MapFS{"index.html": {Data: []byte("<html>dashboard</html>")}}

	a, err := New(testConfig(t), logger, Options{FrontendFS: frontend, Build: datasetBuild("Vivo T3")})
	require.NoError(t, err)

	a.Services.WebSocket.Start()
	defer a.Services.WebSocket.Stop()

	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	t.Run("not ready before load", func(t *testing.T) {
		status, body := getJSON(t, srv.URL+"/api/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "not_ready", body["status"])

		status, body = getJSON(t, srv.URL+"/api/records?version=Vivo+T3")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "/errors/data/unavailable", body["type"])
	})

	require.NoError(t, a.Services.Datasets.Load(context.Background()))

	t.Run("ready", func(t *testing.T) {
		status, body := getJSON(t, srv.URL+"/api/health/ready")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("cascade", func(t *testing.T) {
		_, body := getJSON(t, srv.URL+"/api/filters/companies?type=Mobile")
		assert.Equal(t, []interface{}{"Vivo"}, body["data"])

		_, body = getJSON(t, srv.URL+"/api/filters/versions?company=Vivo")
		assert.Equal(t, []interface{}{"Vivo T3"}, body["data"])

		status, body := getJSON(t, srv.URL+"/api/filters/versions")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, []interface{}{}, body["data"])

		status, body = getJSON(t, srv.URL+"/api/records")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, []interface{}{}, body["data"])

		status, body = getJSON(t, srv.URL+"/api/series/comparison?metric=discount")
		assert.Equal(t, http.StatusOK, status)
		assert.EqualValues(t, 3, body["count"])
	})

	t.Run("rolling", func(t *testing.T) {
		status, body := getJSON(t, srv.URL+"/api/series/rolling?version=Vivo+T3&field=Price+On+Amazon")
		require.Equal(t, http.StatusOK, status)
		series := body["data"].(map[string]interface{})["series"].([]interface{})
		require.Len(t, series, 3)
		assert.Nil(t, series[1].(map[string]interface{})["value"])
		assert.EqualValues(t, 20, series[2].(map[string]interface{})["value"])

		status, body = getJSON(t, srv.URL+"/api/series/rolling?version=Vivo+T3&field=Price+On+Amazon&window=0")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "/errors/validation", body["type"])
	})

	t.Run("request id and etag", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/records?version=Vivo+T3")
		require.NoError(t, err)
		resp.Body.Close()

		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		etag := resp.Header.Get("ETag")
		require.NotEmpty(t, etag)

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/records?version=Vivo+T3", nil)
		req.Header.Set("If-None-Match", etag)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	})

	t.Run("unknown api route", func(t *testing.T) {
		status, body := getJSON(t, srv.URL+"/api/nothing/here")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "/errors/not-found", body["type"])
	})

	t.Run("front-end", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/analytics/amazon")
		require.NoError(t, err)
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "<html>dashboard</html>", string(data))
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(data), "dataset")
	})
}

func TestApplication_ReloadBroadcast(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	var builds atomic.Int32
	build := func(ctx context.Context) (*dataprocessing.Dataset, error) {
		if builds.Add(1) == 1 {
			return datasetBuild("Vivo T3")(ctx)
		}
		return datasetBuild("Vivo T3 Ultra")(ctx)
	}

	a, err := New(testConfig(t), logger, Options{Build: build})
	require.NoError(t, err)
	a.Services.WebSocket.Start()
	defer a.Services.WebSocket.Stop()
	require.NoError(t, a.Services.Datasets.Load(context.Background()))

	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	readMessage := func() events.WebSocketMessage {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg events.WebSocketMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	assert.Equal(t, events.MessageTypeConnect, readMessage().Type)

	resp, err := http.Post(srv.URL+"/api/dataset/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg := readMessage()
	assert.Equal(t, events.MessageTypeDatasetReloaded, msg.Type)

	_, body := getJSON(t, srv.URL+"/api/filters/versions?company=Vivo")
	assert.Equal(t, []interface{}{"Vivo T3 Ultra"}, body["data"])
}

func TestApplication_WorkbookCatalog(t *testing.T) {
	cfg := testConfig(t)
	base := os.Getenv(config.EnvPrefix + "_BASE_DIR")

	dataDir := filepath.Join(base, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	testutil.WriteWorkbook(t, dataDir, "vivo.xlsx", [][]interface{}{
		testutil.ProductHeader,
		{"2024-08-01", "Vivo T3", 19999, 20499, nil, 12, nil, nil},
		{"2024-08-02", "Vivo T3", 19499, 20299, nil, 15, 10, nil},
	})
	catalog := "sources:\n  - file: vivo.xlsx\n    type: Mobile\n    company: Vivo\n  - file: moto.xlsx\n    type: Mobile\n    company: Motorola\n"
	require.NoError(t, os.WriteFile(filepath.Join(base, "catalog.yaml"), []byte(catalog), 0644))

	cfg.Data.Dir = "data"
	cfg.Data.CatalogFile = "catalog.yaml"

	logger, handler := testutil.NewTestLogger(t)
	a, err := New(cfg, logger, Options{})
	require.NoError(t, err)
	require.Len(t, a.Services.Sources, 2)

	report, err := a.Services.Checker()
	require.NoError(t, err)
	assert.Equal(t, []string{"vivo.xlsx"}, report.Present)
	assert.Equal(t, []string{"moto.xlsx"}, report.Missing)

	// moto.xlsx is missing, so the initial load fails and nothing is served
	err = a.Start(context.Background())
	require.Error(t, err)
	assert.True(t, handler.ContainsMessage("Source workbooks missing"))
	assert.Nil(t, a.Services.Datasets.Current())

	require.NoError(t, os.WriteFile(filepath.Join(base, "catalog.yaml"),
		[]byte("sources:\n  - file: vivo.xlsx\n    type: Mobile\n    company: Vivo\n"), 0644))

	a, err = New(cfg, logger, Options{})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))
	defer func() { assert.NoError(t, a.Stop(context.Background())) }()

	_, port, err := net.SplitHostPort(a.Addr())
	require.NoError(t, err)
	status, body := getJSON(t, "http://127.0.0.1:"+port+"/api/records?version=Vivo+T3")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])
}

func TestApplication_BadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.CatalogFile = "missing.yaml"

	logger, _ := testutil.NewTestLogger(t)
	_, err := New(cfg, logger, Options{})
	require.Error(t, err)
}

func TestApplication_StartFailsOnSchemaError(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	a, err := New(testConfig(t), logger, Options{Build: func(context.Context) (*dataprocessing.Dataset, error) {
		return nil, &dataprocessing.SchemaError{Source: "moto", Missing: []string{domain.ColumnDate}}
	}})
	require.NoError(t, err)

	err = a.Start(context.Background())
	var schemaErr *dataprocessing.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "moto", schemaErr.Source)
}
