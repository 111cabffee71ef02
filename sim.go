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
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/recorder"
	"github.com/zintix-labs/xorshift/sdk/core"
	"github.com/zintix-labs/xorshift/stats"
)

const (
	// MaxRounds 單條序列的模擬次數上限（樣本全數保留在記憶體中做 KS 檢定）
	MaxRounds int = 10_000_000
	// MaxStreams SimMP 的序列數上限
	MaxStreams int = 256
)

// Simulator 對產生器做大量取樣並輸出均勻性報表。
//
// 第一條序列固定使用 Seed；SimMP 的其餘序列種子由 Seed 衍生，因此整體結果可重現。
type Simulator struct {
	Generator profile.Generator        // 產生器種類
	Seed      uint32                   // 初始種子
	bins      int                      // 分桶數
	rBuf      []*recorder.DrawRecorder // 每條序列一個紀錄員，重用樣本緩衝
}

func newSimulator(gen profile.Generator, seed uint32, bins int) (*Simulator, error) {
	if gen != profile.GenXorshift && gen != profile.GenFixed {
		return nil, errs.InvalidField("generator", "unknown generator %q", gen)
	}
	if _, err := stats.NewHistogram(bins); err != nil {
		return nil, err
	}
	return &Simulator{
		Generator: gen,
		Seed:      seed,
		bins:      bins,
		rBuf:      make([]*recorder.DrawRecorder, 0, 8),
	}, nil
}

// Sim 單線模擬器：以 Seed 連續取 rounds 個單位值並回傳統計結果與用時
func (s *Simulator) Sim(rounds int, showpb bool) (*stats.UniformReport, time.Duration, error) {
	defer s.reset()
	if err := validRounds(rounds); err != nil {
		return nil, 0, err
	}
	r, err := s.recorder(0, s.Seed, rounds)
	if err != nil {
		return nil, 0, err
	}

	bar := pb.StartNew(rounds)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	next := unitStream(s.Generator, s.Seed)
	for i := 0; i < rounds; i++ {
		r.Record(next())
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	rep, err := r.Done()
	if err != nil {
		return nil, 0, err
	}
	return rep, used, nil
}

// SimMP 平行執行 mp 條序列，每條 rounds 次；回傳合併後的報表、跨序列評估與用時
func (s *Simulator) SimMP(rounds int, mp int, showpb bool) (*stats.UniformReport, *stats.EstimatorStreams, time.Duration, error) {
	defer s.reset()
	if mp <= 0 || mp > MaxStreams {
		return nil, nil, 0, errs.Warnf("streams must be in [1, %d]", MaxStreams)
	}
	if err := validRounds(rounds); err != nil {
		return nil, nil, 0, err
	}
	seeds := s.streamSeeds(mp)
	for i, seed := range seeds {
		if _, err := s.recorder(i, seed, rounds); err != nil {
			return nil, nil, 0, err
		}
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(rounds * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			rec := s.rBuf[i]
			next := unitStream(s.Generator, seeds[i])
			for r := 0; r < rounds; r++ {
				rec.Record(next())
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	reps := make([]*stats.UniformReport, mp)
	for i, rec := range s.rBuf[:mp] {
		rep, err := rec.Done()
		if err != nil {
			return nil, nil, 0, err
		}
		reps[i] = rep
	}
	merged, err := recorder.MergeDrawRecorder(s.rBuf[:mp])
	if err != nil {
		return nil, nil, 0, err
	}
	merged.Name = fmt.Sprintf("%s x%d", merged.Name, mp)
	result, err := merged.Done()
	if err != nil {
		return nil, nil, 0, err
	}
	return result, stats.EstimatorStreamsOf(reps, 0.05), used, nil
}

// streamSeeds 回傳 n 條序列的種子；第一條為 Seed，其餘由 seedmaker 依序衍生。
// 每次呼叫都從 Seed 重新開始，確保同一個 Simulator 重跑結果一致。
func (s *Simulator) streamSeeds(n int) []uint32 {
	sm := newSeedMaker(int64(s.Seed))
	seeds := make([]uint32, n)
	seeds[0] = s.Seed
	for i := 1; i < n; i++ {
		seeds[i] = uint32(sm.next())
	}
	return seeds
}

func (s *Simulator) recorder(i int, seed uint32, rounds int) (*recorder.DrawRecorder, error) {
	name := fmt.Sprintf("%s-%d", s.Generator, s.Seed)
	for len(s.rBuf) <= i {
		r, err := recorder.NewDrawRecorder(name, string(s.Generator), seed, s.bins, rounds)
		if err != nil {
			return nil, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	r := s.rBuf[i]
	r.Name, r.Generator, r.Seed = name, string(s.Generator), seed
	return r, nil
}

func (s *Simulator) reset() {
	for _, r := range s.rBuf {
		r.Reset()
	}
}

// unitStream 回傳逐次取單位值的函式。
//   - xorshift：同一條序列依序推進。
//   - fixed：每取一次把種子推進一個 Knuth 常數。
func unitStream(gen profile.Generator, seed uint32) func() float32 {
	if gen == profile.GenFixed {
		sd := core.NewSeed(seed)
		f := core.NewFixed(sd)
		return func() float32 {
			u := f.Float32()
			sd.Advance()
			return u
		}
	}
	return core.NewXorshift(seed).Float32
}

func validRounds(rounds int) error {
	if rounds < 1 || rounds > MaxRounds {
		return errs.Warnf("rounds must be in [1, %d], got %d", MaxRounds, rounds)
	}
	return nil
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 可被多個 goroutine 同時呼叫：CAS 迴圈保證每次取得唯一的下一個 state。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
