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

// Package sampler 把 core 的單位值映射成各種範圍與分布。
//
// 本檔案 (ranges.go) 實作 RangeMapper。
//
// 範圍語意（行為合約，必須逐位元保留）：
//   - 浮點範圍 [min, max]：min + (max-min)*u，u == 1 時「包含」max。
//   - 整數範圍：int(min + (max-min)*u - 0.5)，轉型向零截斷；刻意偏移 0.5，
//     使結果在一般情況下「不包含」max。
//   - 不檢查 min <= max：反轉的上下界會得到鏡像結果，不做交換。
//
// 浮點精度：所有運算皆為 float32，並以顯式轉型逐步捨入，避免編譯器融合成 FMA 而改變位元。
package sampler

import (
	"github.com/zintix-labs/xorshift/sdk/core"
	"github.com/zintix-labs/xorshift/sdk/vec"
)

// ----------------------------------------------------------------------------
// 純函數
// ----------------------------------------------------------------------------

// Lerp 將單位值 u 映射到 [min, max]。
func Lerp(min, max, u float32) float32 {
	return min + float32((max-min)*u)
}

// LerpInt 將單位值 u 映射到整數範圍，實際上不包含 max。
//
// 舉例：LerpInt(0, 10, u) 的結果落在 0..9；u == 1 時為 int(9.5) = 9。
// 0 會多分到 u < 0.05 的那一段，這是既有行為，不做修正。
func LerpInt(min, max int, u float32) int {
	v := float32(float32(max-min) * u)
	v = float32(float32(min) + v)
	return int(v - 0.5)
}

// ----------------------------------------------------------------------------
// 純量
// ----------------------------------------------------------------------------

// Range 回傳 [min, max] 的浮點亂數（包含 max）。
func Range(r core.RAND, min, max float32) float32 {
	return Lerp(min, max, r.Axis(0))
}

// RangeInt 回傳整數亂數，結果不包含 max。
func RangeInt(r core.RAND, min, max int) int {
	return LerpInt(min, max, r.Axis(0))
}

// RangeOf 以 rg.X() 為下界、rg.Y() 為上界取浮點亂數。
func RangeOf(r core.RAND, rg vec.Vector2) float32 {
	return Range(r, rg.X(), rg.Y())
}

// ----------------------------------------------------------------------------
// 向量：每個分量獨立映射，第 i 個分量取 r.Axis(i)
// ----------------------------------------------------------------------------

func RangeVec2(r core.RAND, min, max vec.Vector2) vec.Vector2 {
	var out vec.Vector2
	lerpAxes(r, out[:], min[:], max[:])
	return out
}

func RangeVec3(r core.RAND, min, max vec.Vector3) vec.Vector3 {
	var out vec.Vector3
	lerpAxes(r, out[:], min[:], max[:])
	return out
}

func RangeVec4(r core.RAND, min, max vec.Vector4) vec.Vector4 {
	var out vec.Vector4
	lerpAxes(r, out[:], min[:], max[:])
	return out
}

func RangeVec2Int(r core.RAND, min, max vec.Vector2Int) vec.Vector2Int {
	var out vec.Vector2Int
	lerpIntAxes(r, out[:], min[:], max[:])
	return out
}

func RangeVec3Int(r core.RAND, min, max vec.Vector3Int) vec.Vector3Int {
	var out vec.Vector3Int
	lerpIntAxes(r, out[:], min[:], max[:])
	return out
}

// RangeRect 取矩形內的一點，等同 RangeVec2(a.Min(), a.Max())。
func RangeRect(r core.RAND, a vec.Area) vec.Vector2 {
	return RangeVec2(r, a.Min(), a.Max())
}

// RangeBounds 取包圍盒內的一點，等同 RangeVec3(v.Min(), v.Max())。
func RangeBounds(r core.RAND, v vec.Volume) vec.Vector3 {
	return RangeVec3(r, v.Min(), v.Max())
}

// lerpAxes 依 x → y → z → w 的順序逐軸取值。
// 對 Xorshift 而言順序即推進順序，不可改成並行或倒序。
func lerpAxes(r core.RAND, dst, min, max []float32) {
	for i := range dst {
		dst[i] = Lerp(min[i], max[i], r.Axis(uint32(i)))
	}
}

func lerpIntAxes(r core.RAND, dst, min, max []int) {
	for i := range dst {
		dst[i] = LerpInt(min[i], max[i], r.Axis(uint32(i)))
	}
}
