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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/server/api"
	"github.com/zintix-labs/xorshift/server/app"
	"github.com/zintix-labs/xorshift/server/logger"
	"github.com/zintix-labs/xorshift/server/netsvr"
	"github.com/zintix-labs/xorshift/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrCfg（包含必要依賴，例如 logger、Lab）。
//  2. 建立 HTTP server（netsvr）與取樣用的 Runtime。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 啟動 app.Run() 並在停止時關閉 Runtime。
//
// Run 不綁定任何檔案路徑或環境變數策略；所有依賴都應透過 SvrCfg 明確注入。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run() 相同，但允許呼叫端注入自訂的 NetSvr
// （例如自訂 listener、TLS、或把 routes 掛到既有服務）。
//
// svr 必須非 nil；若是 ChiAdapter 會要求 Ready() 為 true。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
		return
	}

	rt, err := sCfg.Lab.BuildRuntime(sCfg.PoolSize)
	if err != nil {
		sCfg.Log.Error("build runtime", slog.Any("err", err))
		return
	}
	if err := api.RegisterRoutes(svr, sCfg, rt); err != nil {
		rt.Close()
		sCfg.Log.Error("register routes", slog.Any("err", err))
		return
	}

	// 關閉順序與註冊相反：先停 HTTP，再關 Runtime，最後把非同步 log 寫完
	a := app.New(sCfg.Log)
	if ah, ok := sCfg.Log.Handler().(*logger.AsyncHandler); ok {
		a.Register(app.Until(ah.Done(), ah.Close))
	}
	a.Register(app.Until(rt.Done(), rt.Close))
	a.Register(svr)
	sCfg.Log.Info("[xorshift] listening",
		slog.String("addr", netsvr.Address(svr)),
		slog.Int("pool", sCfg.PoolSize),
		slog.Int("max_count", sCfg.MaxCount),
	)
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
}
