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

package core

// Seed 是由呼叫端持有、可隨時改寫的外部種子。
//
// Seed 不含任何同步機制：「讀取後推進」是呼叫端的責任，多個 goroutine 共用同一個
// Seed 時需自行加鎖。改寫 Seed 不會影響已產生的值，只影響之後的 Fixed 取樣。
type Seed struct {
	v uint32
}

// NewSeed 建立一個外部種子。
func NewSeed(v uint32) *Seed {
	return &Seed{v: v}
}

var defaultSeed = &Seed{v: SeedW}

// DefaultSeed 回傳行程內共用的預設種子，初始值為 SeedW。
func DefaultSeed() *Seed {
	return defaultSeed
}

// Get 讀取目前種子。
func (s *Seed) Get() uint32 { return s.v }

// Set 覆寫目前種子。
func (s *Seed) Set(v uint32) { s.v = v }

// Advance 將種子推進 Knuth（uint32 環繞）並回傳新值。
// 典型用法：逐幀或逐樣本呼叫一次，取得與前一次去相關的新值。
func (s *Seed) Advance() uint32 {
	s.v += Knuth
	return s.v
}

// ----------------------------------------------------------------------------
// 純函數
// ----------------------------------------------------------------------------

// RawAt 回傳種子 seed 對應的原始輸出：mix(seed, T)。
// 這恰好等於 NewXorshift(seed) 的第一次 Uint32()。
func RawAt(seed uint32) uint32 {
	return mix(seed, fixedT)
}

// UnitAt 回傳種子 seed 對應的 [0,1] 單位值。
func UnitAt(seed uint32) float32 {
	return toUnit(RawAt(seed))
}

// Values 從 seed 出發批次產生 count 個去相關的單位值。
//
// 第 i 個值 (0-based) 取自「先將區域種子累加 (i+1)*Knuth」後的位置，
// 因此不需要 count 個獨立實例，也不會改動任何外部種子。count <= 0 回傳空切片。
func Values(seed uint32, count int) []float32 {
	if count <= 0 {
		return []float32{}
	}
	local := seed
	out := make([]float32, count)
	for i := 0; i < count; i++ {
		local += uint32(i+1) * Knuth
		out[i] = UnitAt(local)
	}
	return out
}

// ----------------------------------------------------------------------------
// Fixed
// ----------------------------------------------------------------------------

// Fixed 是無狀態的取樣紀律：每次取樣都是目前外部種子的純函數。
// 同一個種子重複取樣必得相同結果；要得到新值，請推進或改寫 Seed。
type Fixed struct {
	seed *Seed
}

// NewFixed 以外部種子建立 Fixed；seed 為 nil 時使用 DefaultSeed()。
func NewFixed(seed *Seed) *Fixed {
	if seed == nil {
		seed = DefaultSeed()
	}
	return &Fixed{seed: seed}
}

// NewFixedAt 以一個新的私有種子建立 Fixed。
func NewFixedAt(v uint32) *Fixed {
	return &Fixed{seed: NewSeed(v)}
}

// Seed 回傳 Fixed 讀取的外部種子。
func (f *Fixed) Seed() *Seed {
	return f.seed
}

// Uint32 回傳目前種子的原始輸出，不改動種子。
func (f *Fixed) Uint32() uint32 {
	return RawAt(f.seed.Get())
}

// Float32 回傳目前種子的單位值，不改動種子。
func (f *Fixed) Float32() float32 {
	return UnitAt(f.seed.Get())
}

// Axis 回傳第 i 個分量的單位值：UnitAt(seed + i*Knuth)。
func (f *Fixed) Axis(i uint32) float32 {
	return UnitAt(f.seed.Get() + i*Knuth)
}

// RadiusAxis 固定回傳 0：圓內/球內的半徑即目前種子的單位值。
func (f *Fixed) RadiusAxis(uint32) uint32 {
	return 0
}

// Values 以目前種子為起點批次產生 count 個單位值，不改動種子。
func (f *Fixed) Values(count int) []float32 {
	return Values(f.seed.Get(), count)
}
