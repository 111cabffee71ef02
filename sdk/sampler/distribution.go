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
// 本檔案 (distribution.go) 實作 DistributionSampler。
//
// 分量配置（Xorshift 為推進順序；Fixed 為 seed + i*Knuth）：
//
//	Radian / Sign            axis 0
//	OnUnitCircle             axis 0 = 角度
//	InsideUnitCircle         axis 0 = 角度, axis 1 = 半徑
//	OnUnitSphere             axis 0 = phi, axis 1 = theta
//	InsideUnitSphere         axis 0 = phi, axis 1 = theta, axis 2 = 半徑
//
// Fixed 的半徑例外：取 axis 0，與角度 / phi 同一個單位值（見 core.RadiusAxis）。
//
// 注意：圓與球的取樣「不是」等面積均勻分布。
//   - InsideUnitCircle 直接以單位值當半徑（未開根號），點會往圓心集中。
//   - OnUnitSphere 的 phi 直接均勻取角（未做 arccos 修正），點會往兩極集中。
//
// 這些偏差是既有輸出的一部分，修正會改變參考向量，因此保留原公式。
package sampler

import (
	"math"

	"github.com/zintix-labs/xorshift/sdk/core"
	"github.com/zintix-labs/xorshift/sdk/vec"
)

// Radian 回傳 [0, 2π] 的角度。
func Radian(r core.RAND) float32 {
	return Lerp(RadianMin, RadianMax, r.Axis(0))
}

// Sign 回傳 -1 或 +1：RangeInt(0, 2) 為 0 時回傳 -1，其餘回傳 +1。
// 由於整數範圍的 0.5 偏移，-1 約佔 75%。
func Sign(r core.RAND) int {
	if RangeInt(r, 0, 2) == 0 {
		return -1
	}
	return 1
}

// OnUnitCircle 回傳單位圓上的一點 (cos a, sin a)。
func OnUnitCircle(r core.RAND) vec.Vector2 {
	return circle(Radian(r))
}

// InsideUnitCircle 回傳單位圓內的一點：OnUnitCircle 乘上單位值半徑。
func InsideUnitCircle(r core.RAND) vec.Vector2 {
	a := Lerp(RadianMin, RadianMax, r.Axis(0))
	radius := r.Axis(radiusAxis(r, 1))
	return circle(a).Scale(radius)
}

// OnUnitSphere 回傳單位球面上的一點 (sin φ cos θ, sin φ sin θ, cos φ)。
func OnUnitSphere(r core.RAND) vec.Vector3 {
	phi := Lerp(RadianMin, RadianMax, r.Axis(0))
	theta := Lerp(RadianMin, RadianMax, r.Axis(1))
	return sphere(phi, theta)
}

// InsideUnitSphere 回傳單位球內的一點：OnUnitSphere 乘上單位值半徑。
func InsideUnitSphere(r core.RAND) vec.Vector3 {
	on := OnUnitSphere(r)
	return on.Scale(r.Axis(radiusAxis(r, 2)))
}

func radiusAxis(r core.RAND, next uint32) uint32 {
	if ra, ok := r.(core.RadiusAxis); ok {
		return ra.RadiusAxis(next)
	}
	return next
}

// 三角函數以 float64 計算後捨入回 float32。
func circle(a float32) vec.Vector2 {
	return vec.Vector2{cos32(a), sin32(a)}
}

func sphere(phi, theta float32) vec.Vector3 {
	sp := sin32(phi)
	return vec.Vector3{
		float32(sp * cos32(theta)),
		float32(sp * sin32(theta)),
		cos32(phi),
	}
}

func sin32(a float32) float32 { return float32(math.Sin(float64(a))) }
func cos32(a float32) float32 { return float32(math.Cos(float64(a))) }
