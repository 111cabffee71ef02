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

// Package errs 定義分級錯誤型別。
//
// 產生器本身（sdk/core、sdk/sampler）全部是總函數，不回傳錯誤；
// 錯誤只出現在邊界：設定檔解碼、參數校驗、快照還原、I/O。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

func (lv ErrLevel) String() string {
	switch lv {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// E 是統一的錯誤型別。
// Message 為主訊息；Field 標示出錯的輸入欄位（可為空）；Cause 串接下層錯誤。
type E struct {
	Message string
	Field   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Field != "" {
		base += " | field: " + e.Field
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// New 依等級與訊息建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }

func NewWarn(msg string) *E { return New(Warn, msg) }

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// InvalidField 建立一個輸入欄位校驗失敗的 Warn。
func InvalidField(field string, format string, a ...any) *E {
	e := Warnf(format, a...)
	e.Field = field
	return e
}

// Wrap 以訊息包裝底層錯誤。
//
// ErrLevel 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv（保持原本嚴重度）。
//   - 否則（標準庫或三方依賴錯誤）一律視為 Fatal。
//
// 已判斷為「可預期的輸入錯誤」時（例如 YAML 語法錯誤），請改用 WrapWarn。
func Wrap(cause error, msg string) *E {
	errLv := Fatal
	if e, ok := AsErr(cause); ok {
		errLv = e.ErrLv
	}
	r := New(errLv, msg)
	r.Cause = cause
	return r
}

// WrapWarn 以 Warn 等級包裝底層錯誤，用於呼叫端輸入造成的失敗。
func WrapWarn(cause error, msg string) *E {
	r := NewWarn(msg)
	r.Cause = cause
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsWarn 回報 err 鏈上是否有 Warn 等級的 *E。
func IsWarn(err error) bool {
	e, ok := AsErr(err)
	return ok && e.ErrLv == Warn
}
