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

// Package logger 組裝服務與 CLI 共用的 slog.Logger。
//
// 呼叫端一律拿到 *slog.Logger；要自訂格式時可以自己組 slog.Handler，
// 再用 NewAsyncHandler 包成非阻塞寫出。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zintix-labs/xorshift/errs"
)

// LogMode 決定預設 handler 的格式、輸出位置與層級
type LogMode uint8

const (
	ModeDev     LogMode = iota // text, stderr, debug
	ModeProd                   // json, stdout, info
	ModeSilence                // 全部丟棄
)

func (m LogMode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silence"
	default:
		return "unknown"
	}
}

// ParseMode 接受 dev|prod|silence，也接受舊寫法 ModeDev|ModeProd|ModeSilence（不分大小寫）。
func ParseMode(s string) (LogMode, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "mode") {
	case "", "dev":
		return ModeDev, nil
	case "prod":
		return ModeProd, nil
	case "silence":
		return ModeSilence, nil
	}
	return ModeDev, errs.InvalidField("log-mode", "unknown log mode %q", s)
}

// NewDefaultLogger 以 mode 的預設 handler 建立同步 logger
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(Handler(mode, nil))
}

// Handler 建立 mode 對應的 handler；w 為 nil 時寫到 mode 的預設位置。
func Handler(mode LogMode, w io.Writer) slog.Handler {
	switch mode {
	case ModeProd:
		if w == nil {
			w = os.Stdout
		}
		// JSON 一行一筆，交給收集端
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
