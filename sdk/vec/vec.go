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

// Package vec 定義與引擎無關的固定長度數值聚合。
//
// 取樣層只把向量視為 N 個分量的數值組；任何引擎的向量/矩形/包圍盒型別，
// 只要能轉成這裡的陣列，或實作 Area / Volume 的 Min/Max 存取子，即可接入。
package vec

import "math"

// Vector2 二維浮點向量，分量順序為 (x, y)。
type Vector2 [2]float32

// Vector3 三維浮點向量，分量順序為 (x, y, z)。
type Vector3 [3]float32

// Vector4 四維浮點向量，分量順序為 (x, y, z, w)。
type Vector4 [4]float32

// Vector2Int 二維整數向量。
type Vector2Int [2]int

// Vector3Int 三維整數向量。
type Vector3Int [3]int

// X 回傳第 0 個分量。
func (v Vector2) X() float32 { return v[0] }

// Y 回傳第 1 個分量。
func (v Vector2) Y() float32 { return v[1] }

// X 回傳第 0 個分量。
func (v Vector3) X() float32 { return v[0] }

// Y 回傳第 1 個分量。
func (v Vector3) Y() float32 { return v[1] }

// Z 回傳第 2 個分量。
func (v Vector3) Z() float32 { return v[2] }

// X 回傳第 0 個分量。
func (v Vector4) X() float32 { return v[0] }

// Y 回傳第 1 個分量。
func (v Vector4) Y() float32 { return v[1] }

// Z 回傳第 2 個分量。
func (v Vector4) Z() float32 { return v[2] }

// W 回傳第 3 個分量。
func (v Vector4) W() float32 { return v[3] }

// X 回傳第 0 個分量。
func (v Vector2Int) X() int { return v[0] }

// Y 回傳第 1 個分量。
func (v Vector2Int) Y() int { return v[1] }

// X 回傳第 0 個分量。
func (v Vector3Int) X() int { return v[0] }

// Y 回傳第 1 個分量。
func (v Vector3Int) Y() int { return v[1] }

// Z 回傳第 2 個分量。
func (v Vector3Int) Z() int { return v[2] }

// Scale 回傳各分量乘以 f 的新向量。
func (v Vector2) Scale(f float32) Vector2 { return Vector2{v[0] * f, v[1] * f} }

// Scale 回傳各分量乘以 f 的新向量。
func (v Vector3) Scale(f float32) Vector3 { return Vector3{v[0] * f, v[1] * f, v[2] * f} }

// Magnitude 以 float64 計算長度。
func (v Vector2) Magnitude() float64 {
	return math.Hypot(float64(v[0]), float64(v[1]))
}

// Magnitude 以 float64 計算長度。
func (v Vector3) Magnitude() float64 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return math.Sqrt(x*x + y*y + z*z)
}

// Area 是二維區域的最小/最大角存取子，由嵌入端提供。
type Area interface {
	Min() Vector2
	Max() Vector2
}

// Volume 是三維區域的最小/最大角存取子，由嵌入端提供。
type Volume interface {
	Min() Vector3
	Max() Vector3
}

// Rect 以左下角與寬高描述矩形；寬高可為負（Min/Max 不做交換）。
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Min 回傳 (x, y)。
// Min 回傳 (x, y)。
func (r Rect) Min() Vector2 { return Vector2{r.X, r.Y} }

// Max 回傳 (x+width, y+height)。
func (r Rect) Max() Vector2 { return Vector2{r.X + r.Width, r.Y + r.Height} }

// Bounds 以中心與半邊長描述軸對齊包圍盒。
type Bounds struct {
	Center  Vector3
	Extents Vector3
}

// Min 回傳 center - extents。
func (b Bounds) Min() Vector3 {
	return Vector3{b.Center[0] - b.Extents[0], b.Center[1] - b.Extents[1], b.Center[2] - b.Extents[2]}
}

// Max 回傳 center + extents。
func (b Bounds) Max() Vector3 {
	return Vector3{b.Center[0] + b.Extents[0], b.Center[1] + b.Extents[1], b.Center[2] + b.Extents[2]}
}

var (
	_ Area   = Rect{}
	_ Volume = Bounds{}
)
