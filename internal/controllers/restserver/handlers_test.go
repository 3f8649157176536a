package restserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/powersim/solarparam/internal/storage/memory"
	"github.com/powersim/solarparam/internal/types"
	"github.com/powersim/solarparam/pkg/config"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

func testController(t *testing.T) (*Controller, *memory.Storage) {
	t.Helper()

	store := memory.New(0)
	params := []config.ParameterData{
		{Name: "array", Type: "solar-generation", Output: true},
		{Name: "dni", Type: "constant"},
	}

	var wg sync.WaitGroup
	ctrl, err := NewController(context.Background(), &wg, config.RESTServerData{Port: 8080}, params, store, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewController() returned error: %v", err)
	}
	return ctrl, store
}

func seedStore(store *memory.Storage, n int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	ch := store.StartStorageEngine(ctx, &wg)
	for i := 0; i < n; i++ {
		ch <- types.Sample{
			Time:      time.Date(2025, 6, 21, 12, i, 0, 0, time.UTC),
			RunID:     "run-1",
			Parameter: "array",
			Value:     float64(100 * i),
		}
	}
	// Closing the channel makes the engine drain everything buffered and
	// exit, so the store is fully populated before serving requests.
	close(ch)
	wg.Wait()
}

func TestGetParameters(t *testing.T) {
	ctrl, _ := testController(t)

	req := httptest.NewRequest(http.MethodGet, "/api/parameters", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var infos []parameterInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(infos) != 2 || infos[0].Name != "array" || !infos[0].Output {
		t.Errorf("response = %+v", infos)
	}
}

func TestGetLatest(t *testing.T) {
	ctrl, store := testController(t)
	seedStore(store, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/latest", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp latestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Samples) != 1 || resp.Samples[0].Value != 200 {
		t.Errorf("samples = %+v", resp.Samples)
	}
}

func TestGetSeries(t *testing.T) {
	ctrl, store := testController(t)
	seedStore(store, 5)

	t.Run("full series", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/series/array", nil)
		rec := httptest.NewRecorder()
		ctrl.Server.Handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp seriesResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Parameter != "array" || len(resp.Samples) != 5 {
			t.Errorf("response = %+v", resp)
		}
	})

	t.Run("limited series", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/series/array?limit=2", nil)
		rec := httptest.NewRecorder()
		ctrl.Server.Handler.ServeHTTP(rec, req)

		var resp seriesResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(resp.Samples) != 2 || resp.Samples[1].Value != 400 {
			t.Errorf("samples = %+v", resp.Samples)
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/series/array?limit=zero", nil)
		rec := httptest.NewRecorder()
		ctrl.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/series/nope", nil)
		rec := httptest.NewRecorder()
		ctrl.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestMsgPackFormat(t *testing.T) {
	ctrl, store := testController(t)
	seedStore(store, 2)

	req := httptest.NewRequest(http.MethodGet, "/api/latest?format=msgpack", nil)
	rec := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "application/x-msgpack" {
		t.Fatalf("Content-Type = %q", got)
	}

	var resp map[string]any
	dec := msgpack.NewDecoder(rec.Body)
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding msgpack: %v", err)
	}
	if _, ok := resp["samples"]; !ok {
		t.Errorf("response missing samples key: %v", resp)
	}
}
