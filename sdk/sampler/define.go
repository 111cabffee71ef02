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
// 本檔案 (define.go) 定義套件共用的常數。
//
// 分層：
//   - ranges.go：RangeMapper，純函數 Lerp / LerpInt 與其在純量、向量、矩形、包圍盒上的展開。
//   - distribution.go：DistributionSampler，角度、正負號、圓與球上/內的點。
//
// 所有函數都接受 core.RAND，因此同一份程式同時服務 Xorshift（依序推進）與
// Fixed（seed + i*Knuth）兩種紀律；第 i 個分量一律取 r.Axis(i)。
package sampler

const (
	// RadianMin / RadianMax 為 Radian 的取值範圍 [0, 2π]。
	RadianMin float32 = 0
	RadianMax float32 = 6.283185307179586
)
