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

// Package app 提供應用程式生命週期管理（App），負責統一啟動與關閉多個 Component。
package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultGrace = 5 * time.Second

// App 啟動所有註冊的 Component，並在收到 OS 信號、ctx 結束或任一 Component
// 返回時，依註冊的反序協調優雅關閉。
type App struct {
	comps []Component
	log   *slog.Logger
	grace time.Duration
}

// New 建立一個新的 App 實例；log 為 nil 時使用 slog.Default()。
func New(log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	return &App{log: log, grace: defaultGrace}
}

// NewWith 是 New 的語法糖，允許在建立時直接註冊多個 Component。
func NewWith(log *slog.Logger, comps ...Component) *App {
	app := New(log)
	for _, c := range comps {
		app.Register(c)
	}
	return app
}

// Register 將一個 Component 註冊到 App 中，該 Component 將在 Run 時被管理。
func (a *App) Register(c Component) {
	a.comps = append(a.comps, c)
}

// SetGrace 設定優雅關閉的期限，<= 0 時忽略。
func (a *App) SetGrace(d time.Duration) {
	if d > 0 {
		a.grace = d
	}
}

// Run 等同 RunContext(context.Background())。
func (a *App) Run() error {
	return a.RunContext(context.Background())
}

// RunContext 以 goroutine 並行啟動所有 Component，阻塞到下列任一情況：
//   - 收到 SIGINT/SIGTERM 或 ctx 結束：優雅關閉並回傳 nil。
//   - 任一 Component 的 Run 返回：優雅關閉並回傳該錯誤。
func (a *App) RunContext(ctx context.Context) error {
	errCh := make(chan error, len(a.comps))
	for _, c := range a.comps {
		go func(c Component) {
			errCh <- c.Run()
		}(c)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.log.Info("app: signal received", slog.String("signal", sig.String()))
		a.gracefulShutdown()
		return nil
	case <-ctx.Done():
		a.gracefulShutdown()
		return nil
	case err := <-errCh:
		a.gracefulShutdown()
		return err
	}
}

// gracefulShutdown 在 grace 期限內以反序呼叫 Component.Shutdown，後啟動的先關。
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.grace)
	defer cancel()
	for i := len(a.comps) - 1; i >= 0; i-- {
		if err := a.comps[i].Shutdown(ctx); err != nil {
			a.log.Warn("app: shutdown err", slog.Any("err", err))
		}
	}
}
