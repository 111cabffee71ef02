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

// Package core 實作 xorshift128 亂數產生器。
//
// 演算法來源：George Marsaglia, "Xorshift RNGs", Journal of Statistical Software 8(14), 2003。
// 本套件提供兩種取樣紀律，共用同一個位元混洗函數 mix：
//
//   - Xorshift：持有 4 個 32-bit 狀態字 (x, y, z, w)，每次取樣都會推進狀態。
//   - Fixed：不持有任何狀態，每次取樣都是外部種子 (Seed) 的純函數，同種子必得同值。
//
// 注意：這是快速、小狀態、低品質的 PRNG，不具備任何密碼學強度。
package core

// RAND 定義取樣層 (sampler) 所需的亂數能力。
//
// 為什麼除了 Uint32 / Float32 之外還需要 Axis？
//
//   - 向量、圓、球這類「多分量」取樣，每個分量都需要一個獨立的單位值。
//   - Xorshift 的做法是「依序推進」：第 i 個分量就是第 i 次推進，因此分量求值順序
//     (x → y → z → w) 是可觀測且必須保留的行為。
//   - Fixed 沒有狀態可推進，第 i 個分量改用 seed + i*Knuth 取值，以此去相關。
//
// 把這兩種紀律收斂到 Axis(i)，sampler 就只需要寫一份。
type RAND interface {
	// Uint32 回傳一次原始 32-bit 輸出。
	Uint32() uint32
	// Float32 回傳 [0,1] 的單位值（兩端皆可取到）。
	Float32() float32
	// Axis 回傳同一次複合取樣中第 i 個分量的單位值。
	Axis(i uint32) float32
}

// RadiusAxis 是可選介面：決定圓內/球內取樣時半徑使用哪個分量。
//
// 未實作時半徑取 next（Xorshift 即下一次推進）。Fixed 回傳 0，
// 半徑與角度共用同一個種子的單位值。
type RadiusAxis interface {
	RadiusAxis(next uint32) uint32
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// PRNG 為可推進且可保存狀態的亂數來源，Xorshift 滿足此介面。
type PRNG interface {
	RAND
	Restorable
}

var (
	_ PRNG       = (*Xorshift)(nil)
	_ RAND       = (*Fixed)(nil)
	_ RadiusAxis = (*Fixed)(nil)
)
