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

import "math"

const (
	// SeedX / SeedY / SeedZ 為 xor128 論文中的固定初始狀態。
	SeedX uint32 = 123456789
	SeedY uint32 = 362436069
	SeedZ uint32 = 521288629
	// SeedW 為預設種子：Default() 實例與 DefaultSeed() 皆以此初始化。
	SeedW uint32 = 88675123

	// Knuth 為去相關常數 (2^32 / φ 取奇數)，用於分量之間與批次取樣之間推進種子。
	Knuth uint32 = 2654435761
)

const (
	// fixedT 是 Fixed 使用的固定混洗項：T = S ^ (S << 11)，S = SeedX，以 uint32 截斷。
	fixedT = uint32((123456789 ^ (123456789 << 11)) & math.MaxUint32)

	// float32 無法精確表示 2^32-1，會捨入成 2^32；因此 0xFFFFFFFF 換算後恰為 1.0。
	uintMax float32 = math.MaxUint32
)

// mix 是兩種取樣紀律共用的位元混洗：w' = (w ^ (w >> 19)) ^ (t ^ (t >> 8))。
// 全程使用 uint32 環繞運算。
func mix(w, t uint32) uint32 {
	return (w ^ (w >> 19)) ^ (t ^ (t >> 8))
}

// toUnit 將原始輸出換算為 [0,1] 單位值。
func toUnit(v uint32) float32 {
	return float32(v) / uintMax
}
