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

// Package perf 以 runtime/pprof 包住一段執行，供命令列模擬器做效能分析
// （也可作為 PGO 的 default.pgo 來源）。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/xorshift/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Mode 分析種類
type Mode string

const (
	ModeOff    Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

// ParseMode 解析命令列參數；未知字串回傳 Warn。
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeOff, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	default:
		return ModeOff, errs.InvalidField("pprof", "unknown pprof mode %q (cpu|heap|allocs)", s)
	}
}

// Run 依 mode 包住 exe 執行，輸出檔為 dir/<mode>.pprof；ModeOff 直接執行。
// exe 的錯誤優先回傳。
func Run(dir string, mode Mode, exe func() error) error {
	if mode == ModeOff {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create pprof dir")
	}
	f, err := os.Create(filepath.Join(dir, string(mode)+".pprof"))
	if err != nil {
		return errs.Wrap(err, "create pprof file")
	}
	defer f.Close()

	switch mode {
	case ModeCPU:
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "start cpu profile")
		}
		err := exe()
		pprof.StopCPUProfile()
		return err
	case ModeHeap:
		if err := exe(); err != nil {
			return err
		}
		// 盡量讓快照貼近最新狀態（in-use memory）
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errs.Wrap(err, "write heap profile")
		}
		return nil
	case ModeAllocs:
		// 累積配置，需搭配 -alloc_space / -alloc_objects 查看
		if err := exe(); err != nil {
			return err
		}
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			return errs.Wrap(err, "write allocs profile")
		}
		return nil
	default:
		return errs.Warnf("unknown pprof mode %q", mode)
	}
}
