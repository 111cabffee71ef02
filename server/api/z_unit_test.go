package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/presets"
	"github.com/zintix-labs/xorshift/profile"
	v1 "github.com/zintix-labs/xorshift/server/api/v1"
	"github.com/zintix-labs/xorshift/server/httperr"
	"github.com/zintix-labs/xorshift/server/logger"
	"github.com/zintix-labs/xorshift/server/netsvr"
	"github.com/zintix-labs/xorshift/server/netsvr/middleware"
	"github.com/zintix-labs/xorshift/server/svrcfg"
	"github.com/zintix-labs/xorshift/stats"
)

func newServer(t *testing.T) *netsvr.ChiAdapter {
	t.Helper()
	lab, err := xorshift.New(xorshift.Configs(presets.FS))
	if err != nil {
		t.Fatalf("lab: %v", err)
	}
	sCfg := &svrcfg.SvrCfg{
		Log:       logger.NewDefaultLogger(logger.ModeSilence),
		Lab:       lab,
		PoolSize:  2,
		MaxCount:  1000,
		MaxRounds: 100_000,
	}
	if err := sCfg.Vaild(); err != nil {
		t.Fatalf("cfg: %v", err)
	}
	rt, err := lab.BuildRuntime(sCfg.PoolSize)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	t.Cleanup(rt.Close)
	svr := netsvr.NewChiServer("")
	if err := RegisterRoutes(svr, sCfg, rt); err != nil {
		t.Fatalf("routes: %v", err)
	}
	return svr
}

func do(svr http.Handler, method, target, ct, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	rec := httptest.NewRecorder()
	svr.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, field string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status %d want %d: %s", rec.Code, status, rec.Body.String())
	}
	b := decode[httperr.Body](t, rec)
	if b.Field != field {
		t.Fatalf("field %q want %q (%s)", b.Field, field, b.Error)
	}
}

func TestXorshiftEndpoint(t *testing.T) {
	svr := newServer(t)

	rec := do(svr, http.MethodGet, "/v1/xorshift?count=2", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(middleware.HeaderRequestID) == "" {
		t.Fatalf("missing request id header")
	}
	got := decode[v1.XorshiftResponse](t, rec)
	if got.Seed != 88675123 || got.Raw[0] != 3701687786 || got.Raw[1] != 458299110 {
		t.Fatalf("raw %+v", got)
	}
	third, maxU := uint32(2500872618), uint32(math.MaxUint32)
	if got.Unit[0] != float32(third)/float32(maxU) {
		t.Fatalf("unit must continue the stream, got %v", got.Unit)
	}
	if len(got.State) != 32 {
		t.Fatalf("state %q", got.State)
	}

	// 帶回 state 續接
	rec = do(svr, http.MethodGet, "/v1/xorshift?count=1&state="+got.State, "", "")
	next := decode[v1.XorshiftResponse](t, rec)
	if next.Raw[0] != 516391518 {
		t.Fatalf("resumed raw %v", next.Raw)
	}

	wantError(t, do(svr, http.MethodGet, "/v1/xorshift?count=0", "", ""), http.StatusBadRequest, "count")
	wantError(t, do(svr, http.MethodGet, "/v1/xorshift?count=1001", "", ""), http.StatusBadRequest, "count")
	wantError(t, do(svr, http.MethodGet, "/v1/xorshift?seed=-1", "", ""), http.StatusBadRequest, "seed")
	if rec := do(svr, http.MethodGet, "/v1/xorshift?state=zz", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad state status %d", rec.Code)
	}
}

func TestFixedEndpoint(t *testing.T) {
	svr := newServer(t)
	rec := do(svr, http.MethodGet, "/v1/fixed?count=5&seed=0x05491333", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[v1.FixedResponse](t, rec)
	want := []uint32{0x3ef4d59e, 0x3cc0b9b9, 0x3ec6ff59, 0x3f6a9984, 0x3f13636c}
	if got.Seed != 88675123 || len(got.Values) != 5 {
		t.Fatalf("fixed %+v", got)
	}
	for i, w := range want {
		if math.Float32bits(got.Values[i]) != w {
			t.Fatalf("values[%d] bits %08x want %08x", i, math.Float32bits(got.Values[i]), w)
		}
	}
}

func TestSampleEndpoint(t *testing.T) {
	svr := newServer(t)
	rec := do(svr, http.MethodGet, "/v1/sample?generator=fixed&seed=88675123&kind=range_vec2&min=0.5,0.5&max=3,3", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	res := decode[profile.Result](t, rec)
	v := res.Draws[0].Values
	if v[0] != 2.654665946960449 || v[1] != 1.6954807043075562 {
		t.Fatalf("vec2 %v", v)
	}

	rec = do(svr, http.MethodGet, "/v1/sample?kind=sign&count=4&label=level-3&format=table", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sign x4") {
		t.Fatalf("table: %d %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("content type %q", rec.Header().Get("Content-Type"))
	}

	wantError(t, do(svr, http.MethodGet, "/v1/sample", "", ""), http.StatusBadRequest, "kind")
	wantError(t, do(svr, http.MethodGet, "/v1/sample?kind=range_vec2&min=1&max=2,2", "", ""), http.StatusBadRequest, "min")
	wantError(t, do(svr, http.MethodGet, "/v1/sample?kind=range&min=a&max=1", "", ""), http.StatusBadRequest, "min")
	wantError(t, do(svr, http.MethodGet, "/v1/sample?kind=warp", "", ""), http.StatusBadRequest, "kind")
	wantError(t, do(svr, http.MethodGet, "/v1/sample?kind=unit&format=xml", "", ""), http.StatusBadRequest, "format")
}

func TestProfileEndpoint(t *testing.T) {
	svr := newServer(t)

	yml := "name: body\ngenerator: fixed\ndraws:\n  - { kind: values, count: 3 }\n"
	rec := do(svr, http.MethodPost, "/v1/profile", "application/yaml", yml)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	res := decode[profile.Result](t, rec)
	if res.Name != "body" || len(res.Draws[0].Values) != 3 {
		t.Fatalf("result %+v", res)
	}

	js := `{"name":"js","draws":[{"kind":"raw","count":2}]}`
	rec = do(svr, http.MethodPost, "/v1/profile?format=yaml", "application/json", js)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "kind: raw") || !strings.Contains(rec.Body.String(), "values: [") {
		t.Fatalf("yaml: %d %s", rec.Code, rec.Body.String())
	}

	wantError(t, do(svr, http.MethodPost, "/v1/profile", "application/json", "{"), http.StatusBadRequest, "")
	wantError(t, do(svr, http.MethodPost, "/v1/profile", "application/json", `{"draws":[]}`), http.StatusBadRequest, "draws")
	wantError(t, do(svr, http.MethodPost, "/v1/profile", "application/json", `{"draws":[{"kind":"unit","count":5000}]}`), http.StatusBadRequest, "count")
}

func TestPresetEndpoints(t *testing.T) {
	svr := newServer(t)
	rec := do(svr, http.MethodGet, "/v1/presets", "", "")
	list := decode[v1.PresetsResponse](t, rec)
	if len(list.Presets) != 3 {
		t.Fatalf("presets %+v", list)
	}

	rec = do(svr, http.MethodGet, "/v1/presets/xorshift-tour", "", "")
	res := decode[profile.Result](t, rec)
	if res.Draws[0].Values[0] != 3701687786 || res.State == "" {
		t.Fatalf("tour %+v", res.Draws[0])
	}
	if rec := do(svr, http.MethodGet, "/v1/presets/nope", "", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing preset status %d", rec.Code)
	}
}

func TestUniformityEndpoint(t *testing.T) {
	svr := newServer(t)
	rec := do(svr, http.MethodGet, "/v1/uniformity?rounds=20000&bins=8", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[v1.UniformityResponse](t, rec)
	if got.Report.Summary.Rounds != 20000 || len(got.Report.Dist.Counts) != 8 || got.Streams != nil {
		t.Fatalf("report %+v", got.Report.Summary)
	}
	if math.Abs(got.Report.Summary.Mean-0.5) > 0.01 {
		t.Fatalf("mean %v", got.Report.Summary.Mean)
	}

	rec = do(svr, http.MethodGet, "/v1/uniformity?generator=fixed&rounds=5000&streams=4", "", "")
	got = decode[v1.UniformityResponse](t, rec)
	if got.Streams == nil || got.Streams.Streams != 4 || got.Report.Summary.Rounds != 20000 {
		t.Fatalf("streams %+v", got)
	}

	rec = do(svr, http.MethodGet, "/v1/uniformity?rounds=1000&format=yaml", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Counts: [") {
		t.Fatalf("yaml: %s", rec.Body.String())
	}

	wantError(t, do(svr, http.MethodGet, "/v1/uniformity?rounds=100001", "", ""), http.StatusBadRequest, "rounds")
	wantError(t, do(svr, http.MethodGet, "/v1/uniformity?rounds=50000&streams=3", "", ""), http.StatusBadRequest, "rounds")
	wantError(t, do(svr, http.MethodGet, "/v1/uniformity?bins=1", "", ""), http.StatusBadRequest, "bins")
	wantError(t, do(svr, http.MethodGet, "/v1/uniformity?generator=mt", "", ""), http.StatusBadRequest, "generator")
}

func TestStatAndMetrics(t *testing.T) {
	svr := newServer(t)
	rec := do(svr, http.MethodPost, "/v1/stat", "application/json", `{"samples":[0.1,0.3,0.5,0.7,0.9],"bins":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	rep := decode[stats.UniformReport](t, rec)
	if rep.Summary.Rounds != 5 || rep.Tests.ChiSquare != 0 {
		t.Fatalf("stat %+v %+v", rep.Summary, rep.Tests)
	}
	wantError(t, do(svr, http.MethodPost, "/v1/stat", "application/json", `{"samples":[1.5]}`), http.StatusBadRequest, "samples")
	if rec := do(svr, http.MethodPost, "/v1/stat", "application/json", `{"samples":[]}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty samples status %d", rec.Code)
	}

	do(svr, http.MethodGet, "/v1/fixed", "", "")
	m := decode[xorshift.PoolMetrics](t, do(svr, http.MethodGet, "/v1/metrics", "", ""))
	if m.PoolSize != 2 || m.Jobs != 1 || m.Closed {
		t.Fatalf("metrics %+v", m)
	}
}

func TestIndexAndCompression(t *testing.T) {
	svr := newServer(t)
	rec := do(svr, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/uniformity") {
		t.Fatalf("index %s", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/presets", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = httptest.NewRecorder()
	svr.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("expected gzip, headers %v", rec.Header())
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("gunzip: %v", err)
	}
	if !strings.Contains(string(body), "fixed-sample") {
		t.Fatalf("body %s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/presets", nil)
	req.Header.Set("Accept-Encoding", "gzip;q=0")
	rec = httptest.NewRecorder()
	svr.ServeHTTP(rec, req)
	if rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("q=0 must disable gzip")
	}
}
