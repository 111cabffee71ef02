// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package v1 是取樣服務的 HTTP handler。所有取樣都透過 xorshift.Runtime
// 的 worker pool 執行，錯誤經 httperr 依 errs 分級映射成 status code。
package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/server/httperr"
	"github.com/zintix-labs/xorshift/server/svrcfg"
)

// Handler 持有 Runtime 與請求上限
type Handler struct {
	rt        *xorshift.Runtime
	log       *slog.Logger
	maxCount  int
	maxRounds int
	timeout   time.Duration
}

// NewHandler 以已校驗的 SvrCfg 與 Runtime 建立 Handler
func NewHandler(sCfg *svrcfg.SvrCfg, rt *xorshift.Runtime) (*Handler, error) {
	if sCfg == nil || rt == nil {
		return nil, errs.NewFatal("svrcfg and runtime are required")
	}
	return &Handler{
		rt:        rt,
		log:       sCfg.Log,
		maxCount:  sCfg.MaxCount,
		maxRounds: sCfg.MaxRounds,
		timeout:   sCfg.Timeout,
	}, nil
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

// fail 寫回錯誤；5xx 另外記 log
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httperr.Log(h.log, r.URL.Path, err)
	httperr.Errs(w, err)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ============================================================
// ** 查詢參數解析 **
// ============================================================

// querySeed 解析 uint32 種子，接受十進位或 0x 前綴十六進位；未提供回傳 nil。
func querySeed(q url.Values, key string) (*uint32, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	u, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return nil, errs.InvalidField(key, "%s must be a uint32", key)
	}
	v := uint32(u)
	return &v, nil
}

// queryInt 解析整數並檢查 [lo, hi]；未提供回傳 def。
func queryInt(q url.Values, key string, def, lo, hi int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.InvalidField(key, "%s must be an integer", key)
	}
	if v < lo || v > hi {
		return 0, errs.InvalidField(key, "%s must be in [%d, %d], got %d", key, lo, hi, v)
	}
	return v, nil
}

// queryFloats 解析以逗號分隔的 float32 列表，例如 min=0.5,0.5
func queryFloats(q url.Values, key string) ([]float32, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, errs.InvalidField(key, "%s[%d] must be a number", key, i)
		}
		out[i] = float32(f)
	}
	return out, nil
}
