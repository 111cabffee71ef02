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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/xorshift/errs"
)

// Body 是錯誤回應的 JSON 結構
type Body struct {
	Error string `json:"error"`
	Level string `json:"level,omitempty"`
	Field string `json:"field,omitempty"` // 出錯的輸入欄位（若有）
}

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel → 504/408（請求生命週期問題）
//   - errs.Warn         → 400（請求/參數問題）
//   - errs.Fatal        → 500（系統/不可恢復問題）
//
// 注意：本函數屬於 HTTP 邊界層，因此放在 server/*（而不是 core errs）。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout // 504
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout // 408
	}

	if e, ok := errs.AsErr(err); ok && e.ErrLv == errs.Warn {
		return http.StatusBadRequest // 400
	}
	return http.StatusInternalServerError
}

// BodyOf 把錯誤整理成回應內容；Field 取錯誤鏈上第一個非空欄位。
func BodyOf(err error) Body {
	b := Body{Error: err.Error()}
	if e, ok := errs.AsErr(err); ok {
		b.Level = e.ErrLv.String()
	}
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if e, ok := cur.(*errs.E); ok && e.Field != "" {
			b.Field = e.Field
			break
		}
	}
	return b
}

// Errs 寫回錯誤：決定 status code 並輸出 JSON Body。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(StatusCode(err))
	_ = json.NewEncoder(w).Encode(BodyOf(err))
}

func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	if (status == 408) || (status == 409) || (status == 429) {
		log.Warn(msg, slog.Any("err", err))
	} else if (status >= 500) && (status < 600) {
		log.Error(msg, slog.Any("err", err))
	}
}
