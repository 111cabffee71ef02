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

// Package xorshift 是取樣實驗室的組裝入口：把取樣設定目錄（Catalog）接上
// 產生器，對外提供執行 Profile、建立模擬器與建立服務用 Runtime 的入口。
//
// 產生器與取樣函式本身在 sdk/ 底下（core、sampler、vec），可以單獨使用；
// 這一層只負責把它們組起來：
//
//	lab, _ := xorshift.New(xorshift.Configs(presets.FS))
//	res, _ := lab.Run("fixed-sample")
//	sim, _ := lab.NewSimulator(profile.GenXorshift, core.SeedW)
//	rep, used, _ := sim.Sim(1_000_000, true)
//
// 設定來源一律以 fs.FS 注入（go:embed 或 os.DirFS），Lab 不處理檔案路徑。
package xorshift

import (
	"io/fs"

	"github.com/zintix-labs/xorshift/catalog"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/stats"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 持有取樣設定目錄；建立後即為唯讀，可被多個 goroutine 共用。
type Lab struct {
	cat *catalog.Catalog
}

// New 建立 Lab。所有設定檔都會在這裡被解析與校驗，失敗即回傳 error。
func New(cfgs []fs.FS) (*Lab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Lab{cat: cata}, nil
}

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

func (l *Lab) All() []catalog.Entry {
	return l.cat.All()
}

// Profile 取得一份可自由修改的設定副本
func (l *Lab) Profile(name string) (*profile.Profile, error) {
	return l.cat.Profile(name)
}

// Run 依名稱執行目錄中的設定
func (l *Lab) Run(name string) (*profile.Result, error) {
	p, err := l.cat.Profile(name)
	if err != nil {
		return nil, err
	}
	return profile.Run(p)
}

// NewSimulator 建立均勻性模擬器，分桶數為 stats.DefaultBins。
func (l *Lab) NewSimulator(gen profile.Generator, seed uint32) (*Simulator, error) {
	return newSimulator(gen, seed, stats.DefaultBins)
}

// NewSimulatorWithBins 與 NewSimulator 相同，但可指定分桶數。
func (l *Lab) NewSimulatorWithBins(gen profile.Generator, seed uint32, bins int) (*Simulator, error) {
	return newSimulator(gen, seed, bins)
}

// BuildRuntime 建立服務用的 Runtime：poolSize 個 worker，限制同時執行的取樣工作數量。
func (l *Lab) BuildRuntime(poolSize int) (*Runtime, error) {
	pool, err := newWorkerPool(poolSize)
	if err != nil {
		return nil, err
	}
	rt := &Runtime{
		lab:  l,
		pool: pool,
		done: make(chan struct{}),
	}
	rt.reason.Store("")
	return rt, nil
}
