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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/stats"
)

// DrawRecorder 取樣紀錄員
//
// DrawRecorder 負責收集單一序列的單位值，並透過 Done 輸出均勻性報表
type DrawRecorder struct {
	Name      string
	Generator string
	Seed      uint32
	Bins      int
	Samples   []float64
}

func NewDrawRecorder(name string, generator string, seed uint32, bins int, capacity int) (*DrawRecorder, error) {
	if _, err := stats.NewHistogram(bins); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, errs.NewFatal(fmt.Sprintf("capacity must not negative integer, got: %d", capacity))
	}
	return &DrawRecorder{
		Name:      name,
		Generator: generator,
		Seed:      seed,
		Bins:      bins,
		Samples:   make([]float64, 0, capacity),
	}, nil
}

// MergeDrawRecorder 合併多條序列的樣本成一份（種子取第一條）
func MergeDrawRecorder(r []*DrawRecorder) (*DrawRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge draw record err : empty input")
	}
	r0 := r[0]
	total := 0
	for _, v := range r {
		if v.Generator != r0.Generator {
			return nil, errs.NewFatal("merge draw record err : different generator")
		}
		if v.Bins != r0.Bins {
			return nil, errs.NewFatal("merge draw record err : different bins")
		}
		total += len(v.Samples)
	}
	s, err := NewDrawRecorder(r0.Name, r0.Generator, r0.Seed, r0.Bins, total)
	if err != nil {
		return nil, err
	}
	for _, v := range r {
		s.Samples = append(s.Samples, v.Samples...)
	}
	return s, nil
}

// Record 紀錄一個單位值
func (s *DrawRecorder) Record(u float32) {
	s.Samples = append(s.Samples, float64(u))
}

func (s *DrawRecorder) Rounds() int {
	return len(s.Samples)
}

// Done 計算均勻性報表
func (s *DrawRecorder) Done() (*stats.UniformReport, error) {
	report, err := stats.Uniformity(s.Samples, s.Bins)
	if err != nil {
		return nil, err
	}
	report.Summary.Name = s.Name
	report.Summary.Generator = s.Generator
	report.Summary.Seed = s.Seed
	return report, nil
}

// Reset 清空樣本以便重用
func (s *DrawRecorder) Reset() {
	s.Samples = s.Samples[:0]
}
