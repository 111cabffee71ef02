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

package xorshift

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
)

// worker 是一個取樣工作槽，持有可重用的模擬器（與其樣本緩衝）。
// 同一時間只會被一個請求借用，因此內部不需要鎖。
type worker struct {
	id  int
	sim *Simulator
}

// simulator 取得設定好的模擬器；分桶數不同時重建。
func (w *worker) simulator(gen profile.Generator, seed uint32, bins int) (*Simulator, error) {
	if w.sim == nil || w.sim.bins != bins {
		s, err := newSimulator(gen, seed, bins)
		if err != nil {
			return nil, err
		}
		w.sim = s
		return s, nil
	}
	if gen != profile.GenXorshift && gen != profile.GenFixed {
		return nil, errs.InvalidField("generator", "unknown generator %q", gen)
	}
	w.sim.Generator, w.sim.Seed = gen, seed
	return w.sim, nil
}

// workerPool 管理固定數量的 worker，透過兩個通道管理生命週期：
//  1. pool：可借出的 worker。
//  2. broken：執行中 panic 或回報 fatal 的 worker，送往此處並立即補上新的一個。
//
// pool 的容量即為同時執行的取樣工作上限；取不到 worker 的請求會等到 ctx 結束。
type workerPool struct {
	pool          chan *worker
	broken        chan *worker
	done          chan struct{}
	closeOnce     sync.Once
	poolsize      int
	nextID        atomic.Int32
	rebuild       atomic.Int32 // 補 worker 次數
	inflight      atomic.Int32 // 使用中
	panics        atomic.Int32
	fatals        atomic.Int32
	jobs          atomic.Int64 // 完成的工作數
	closeReason   atomic.Value // string
	closeInflight atomic.Int32 // 關閉當下 inflight（快照）
}

func newWorkerPool(n int) (*workerPool, error) {
	n = max(1, n)
	p := &workerPool{
		pool:     make(chan *worker, n),
		broken:   make(chan *worker, 100),
		done:     make(chan struct{}),
		poolsize: n,
	}
	p.closeReason.Store("")
	p.closeInflight.Store(-1)
	for i := 0; i < n; i++ {
		p.pool <- p.newWorker()
	}
	return p, nil
}

func (p *workerPool) newWorker() *worker {
	return &worker{id: int(p.nextID.Add(1))}
}

func (p *workerPool) Close() {
	p.closeWithReason("closed")
}

func (p *workerPool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *workerPool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		p.closeReason.Store(reason)
		p.closeInflight.Store(p.inflight.Load())
		close(p.done)
	})
}

// isFatalErr 判斷錯誤是否代表 worker 狀態不可信；一般輸入錯誤（Warn）不淘汰 worker。
func isFatalErr(err error) bool {
	if e, ok := errs.AsErr(err); ok {
		return e.ErrLv == errs.Fatal
	}
	return false
}

// Do 借出一個 worker 執行 fn，結束後歸還。
func (p *workerPool) Do(ctx context.Context, fn func(w *worker) error) (err error) {
	var w *worker
	select {
	case <-p.done:
		return errs.NewFatal("worker pool closed: " + p.ClosedReason())
	case <-ctx.Done():
		return errs.NewWarn("job canceled/timeout: " + ctx.Err().Error())
	case w = <-p.pool:
		p.inflight.Add(1)
	}

	defer func() {
		p.inflight.Add(-1)
		isPanic := false
		if r := recover(); r != nil {
			isPanic = true
			p.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("worker %d panic : %v", w.id, r))
		}
		if p.Closed() {
			return
		}
		if isPanic || isFatalErr(err) {
			if !isPanic {
				p.fatals.Add(1)
			}
			select {
			case p.broken <- w:
			default:
				p.closeWithReason("overwhelmed_by_failures")
				return
			}
			p.rebuild.Add(1)
			select {
			case <-p.done:
			case p.pool <- p.newWorker():
			}
			return
		}
		p.jobs.Add(1)
		select {
		case <-p.done:
		case p.pool <- w:
		}
	}()

	return fn(w)
}

func (p *workerPool) ClosedReason() string {
	if v := p.closeReason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// PoolMetrics 是拉取式的觀測快照；Available 與 BrokenBacklog 取自 len(chan)，高併發下為近似值。
type PoolMetrics struct {
	PoolSize      int    `json:"pool_size"`
	Available     int    `json:"available"`
	Inflight      int    `json:"inflight"`
	BrokenBacklog int    `json:"broken_backlog"`
	Rebuild       int    `json:"rebuild"`
	Panics        int    `json:"panics"`
	Fatals        int    `json:"fatals"`
	Jobs          int64  `json:"jobs"`
	Closed        bool   `json:"closed"`
	CloseReason   string `json:"close_reason"`
	CloseInflight int    `json:"close_inflight"` // -1 表示尚未關閉
}

func (p *workerPool) Metrics() PoolMetrics {
	return PoolMetrics{
		PoolSize:      p.poolsize,
		Available:     len(p.pool),
		Inflight:      int(p.inflight.Load()),
		BrokenBacklog: len(p.broken),
		Rebuild:       int(p.rebuild.Load()),
		Panics:        int(p.panics.Load()),
		Fatals:        int(p.fatals.Load()),
		Jobs:          p.jobs.Load(),
		Closed:        p.Closed(),
		CloseReason:   p.ClosedReason(),
		CloseInflight: int(p.closeInflight.Load()),
	}
}
