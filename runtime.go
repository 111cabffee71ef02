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
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/stats"
)

// Runtime 是服務端的執行入口：所有取樣工作都經由 worker pool 排隊，
// 同時執行的工作數不超過 pool 大小。
type Runtime struct {
	lab  *Lab
	pool *workerPool

	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

func (rt *Runtime) check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.NewWarn("job canceled/timeout: " + ctx.Err().Error())
	case <-rt.done:
		rt.closed.Store(true)
		return errs.NewFatal("runtime closed: " + rt.ClosedReason())
	default:
		return nil
	}
}

// Lab 回傳建立此 Runtime 的 Lab
func (rt *Runtime) Lab() *Lab {
	return rt.lab
}

// RunProfile 執行一份設定
func (rt *Runtime) RunProfile(ctx context.Context, p *profile.Profile) (*profile.Result, error) {
	if err := rt.check(ctx); err != nil {
		return nil, err
	}
	var res *profile.Result
	err := rt.pool.Do(ctx, func(*worker) error {
		r, err := profile.Run(p)
		res = r
		return err
	})
	return res, err
}

// RunNamed 依名稱執行目錄中的設定
func (rt *Runtime) RunNamed(ctx context.Context, name string) (*profile.Result, error) {
	p, err := rt.lab.Profile(name)
	if err != nil {
		return nil, err
	}
	return rt.RunProfile(ctx, p)
}

// Uniformity 以單條序列做均勻性模擬
func (rt *Runtime) Uniformity(ctx context.Context, gen profile.Generator, seed uint32, rounds int, bins int) (*stats.UniformReport, error) {
	if err := rt.check(ctx); err != nil {
		return nil, err
	}
	var rep *stats.UniformReport
	err := rt.pool.Do(ctx, func(w *worker) error {
		sim, err := w.simulator(gen, seed, bins)
		if err != nil {
			return err
		}
		r, _, err := sim.Sim(rounds, false)
		rep = r
		return err
	})
	return rep, err
}

// UniformityStreams 以 streams 條序列平行模擬，整體只佔用一個 worker。
func (rt *Runtime) UniformityStreams(ctx context.Context, gen profile.Generator, seed uint32, rounds, streams, bins int) (*stats.UniformReport, *stats.EstimatorStreams, error) {
	if err := rt.check(ctx); err != nil {
		return nil, nil, err
	}
	var (
		rep *stats.UniformReport
		est *stats.EstimatorStreams
	)
	err := rt.pool.Do(ctx, func(w *worker) error {
		sim, err := w.simulator(gen, seed, bins)
		if err != nil {
			return err
		}
		rep, est, _, err = sim.SimMP(rounds, streams, false)
		return err
	})
	return rep, est, err
}

// Metrics 回傳 worker pool 的觀測快照
func (rt *Runtime) Metrics() PoolMetrics {
	return rt.pool.Metrics()
}

// Close transitions the runtime into a closed state. It is safe to call multiple times.
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
		rt.pool.closeWithReason(reason)
	})
}

// Done 在 Runtime 關閉時被關閉
func (rt *Runtime) Done() <-chan struct{} {
	return rt.done
}

// Closed reports whether the runtime has been closed.
func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
