package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/xorshift/server/httperr"
)

func silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAcceptsEncoding(t *testing.T) {
	cases := []struct {
		header, enc string
		want        bool
	}{
		{"gzip", "gzip", true},
		{"deflate, GZIP;q=0.5", "gzip", true},
		{"gzip;q=0", "gzip", false},
		{"gzip; q=0.000", "gzip", false},
		{"br", "zstd", false},
		{"", "gzip", false},
	}
	for _, c := range cases {
		if got := acceptsEncoding(c.header, c.enc); got != c.want {
			t.Fatalf("acceptsEncoding(%q,%q) = %v", c.header, c.enc, got)
		}
	}
}

func TestCompressionPrefersZstd(t *testing.T) {
	body := strings.Repeat("3701687786,", 200)
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, body)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "zstd" {
		t.Fatalf("headers %v", rec.Header())
	}
	zr, err := zstd.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer zr.Close()
	got, err := io.ReadAll(zr)
	if err != nil || string(got) != body {
		t.Fatalf("decoded %d bytes, err %v", len(got), err)
	}
}

func TestCompressionSkipsNoBody(t *testing.T) {
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("code %d body %q", rec.Code, rec.Body.Bytes())
	}
	if rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("204 must not carry an encoding")
	}
}

func TestRequestIDAndRecover(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	h := RequestID(Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/xorshift", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("code %d", rec.Code)
	}
	id := rec.Header().Get(HeaderRequestID)
	if id == "" {
		t.Fatalf("missing request id")
	}
	var b httperr.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("body: %v", err)
	}
	if b.Level != "fatal" || !strings.Contains(b.Error, "boom") {
		t.Fatalf("body %+v", b)
	}
	if !strings.Contains(logs.String(), "http.panic") || !strings.Contains(logs.String(), "req_id=") {
		t.Fatalf("log:\n%s", logs.String())
	}
}

func TestAccessLogCountsBytes(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	h := AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "abcd")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/fixed?count=4", nil))

	out := logs.String()
	if !strings.Contains(out, "status=418") || !strings.Contains(out, "bytes=4") {
		t.Fatalf("access log:\n%s", out)
	}
}
