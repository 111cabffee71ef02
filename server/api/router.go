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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/xorshift"
	v1 "github.com/zintix-labs/xorshift/server/api/v1"
	"github.com/zintix-labs/xorshift/server/netsvr"
	"github.com/zintix-labs/xorshift/server/netsvr/middleware"
	"github.com/zintix-labs/xorshift/server/svrcfg"
)

// routes 首頁列出的端點
var routes = []string{
	"GET  /v1/xorshift?seed=&count=&state=",
	"GET  /v1/fixed?seed=&count=",
	"GET  /v1/sample?generator=&seed=&label=&kind=&count=&min=&max=&rect=&bounds=&format=",
	"POST /v1/profile?format=",
	"GET  /v1/presets",
	"GET  /v1/presets/{name}?format=",
	"GET  /v1/uniformity?generator=&seed=&rounds=&bins=&streams=&format=",
	"POST /v1/stat",
	"GET  /v1/metrics",
}

// RegisterRoutes 註冊 middleware、首頁與 v1 api。sCfg 需已通過 Vaild。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *xorshift.Runtime) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerIndex(svr)                // 2. 註冊主頁
	return registerV1API(svr, sCfg, rt)
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"service": "xorshift", "routes": routes})
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *xorshift.Runtime) error {
	h, err := v1.NewHandler(sCfg, rt)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/xorshift", h.Xorshift)
		vOne.Get("/fixed", h.Fixed)
		vOne.Get("/sample", h.Sample)
		vOne.Post("/profile", h.RunProfile)
		vOne.Get("/presets", h.Presets)
		vOne.Get("/presets/{name}", h.Preset)
		vOne.Get("/uniformity", h.Uniformity)
		vOne.Post("/stat", h.Stat)
		vOne.Get("/metrics", h.Metrics)
	})
	return nil
}
