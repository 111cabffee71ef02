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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/server/logger"
)

const (
	DefaultAddr      = ":5808"
	DefaultPoolSize  = 4
	DefaultMaxCount  = 10_000
	DefaultMaxRounds = 1_000_000
	DefaultTimeout   = 5 * time.Second
)

// SvrCfg 服務端設定；零值欄位在 Vaild 時補上預設值。
type SvrCfg struct {
	Log       *slog.Logger
	Addr      string
	PoolSize  int           // 同時執行的取樣工作上限
	MaxCount  int           // 單一 draw 的 count 上限
	MaxRounds int           // 單條序列的模擬次數上限
	Timeout   time.Duration // 單一請求的取樣期限
	Lab       *xorshift.Lab
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && ah.Closed() {
			return errs.NewFatal("async log handler already closed")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}

	// 1 <= PoolSize <= 64
	// for 資源管理
	if sc.PoolSize == 0 {
		sc.PoolSize = DefaultPoolSize
	}
	sc.PoolSize = min(64, max(1, sc.PoolSize))

	if sc.MaxCount <= 0 {
		sc.MaxCount = DefaultMaxCount
	}
	sc.MaxCount = min(sc.MaxCount, profile.MaxCount)

	if sc.MaxRounds <= 0 {
		sc.MaxRounds = DefaultMaxRounds
	}
	sc.MaxRounds = min(sc.MaxRounds, xorshift.MaxRounds)

	if sc.Timeout <= 0 {
		sc.Timeout = DefaultTimeout
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}
