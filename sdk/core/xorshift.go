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

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/zintix-labs/xorshift/errs"
)

// snapshotSize 為 Snapshot 的位元組長度 (x, y, z, w 各 4 bytes，big endian)。
const snapshotSize = 16

// Xorshift 為 128-bit 狀態、32-bit 輸出的 xor128 產生器。
//
// 狀態不變式：w 永遠是最近一次的原始輸出；x, y, z 保存上一代的 y, z, w。
//
// 注意（並發）：Xorshift 內部「不加鎖」。同一個實例（包含 Default()）若被多個
// goroutine 同時呼叫，取樣會以不可預期的順序交錯，序列不再可重現；需要並發存取時，
// 由呼叫端自行同步，或每個 goroutine 各自持有一個實例。
//
// 注意（種子）：種子應夠大。過小或退化的種子（例如讓整個狀態全為 0）會讓序列品質
// 嚴重下降甚至恆為 0；本型別不做任何修正或拒絕，責任在呼叫端。
type Xorshift struct {
	x, y, z, w uint32
}

// --------------------------------------
// 提供兩種New方式
// --------------------------------------

// NewXorshift 以 32-bit 種子建立 Xorshift；只有 w 由種子決定。
func NewXorshift(seed uint32) *Xorshift {
	return &Xorshift{x: SeedX, y: SeedY, z: SeedZ, w: seed}
}

// NewXorshiftInt 以有號 32-bit 種子建立 Xorshift，位元直接重新解讀為 uint32。
func NewXorshiftInt(seed int32) *Xorshift {
	return NewXorshift(uint32(seed))
}

var (
	defaultOnce     sync.Once
	defaultXorshift *Xorshift
)

// Default 回傳行程內共用的預設實例，第一次呼叫時以 SeedW 建立。
// 所有未自行建立產生器的呼叫端共享同一條序列（見 Xorshift 的並發注意事項）。
func Default() *Xorshift {
	defaultOnce.Do(func() {
		defaultXorshift = NewXorshift(SeedW)
	})
	return defaultXorshift
}

//---------------------------------------
// 回傳介面方法
//---------------------------------------

// Uint32 推進一次狀態並回傳新的 w（0 ~ 2^32-1）。
func (r *Xorshift) Uint32() uint32 {
	return r.next()
}

// Float32 推進一次狀態並回傳 [0,1] 單位值。
func (r *Xorshift) Float32() float32 {
	return toUnit(r.next())
}

// Float64 與 Float32 相同（仍是 32-bit 精度），只是以 float64 回傳，方便統計使用。
func (r *Xorshift) Float64() float64 {
	return float64(r.Float32())
}

// Axis 忽略分量索引，每次呼叫都推進一次狀態；分量順序即呼叫順序。
func (r *Xorshift) Axis(uint32) float32 {
	return toUnit(r.next())
}

// State 回傳目前的 4 個狀態字。
func (r *Xorshift) State() (x, y, z, w uint32) {
	return r.x, r.y, r.z, r.w
}

// Snapshot 取得當下內部狀態。
func (r *Xorshift) Snapshot() ([]byte, error) {
	b := make([]byte, 0, snapshotSize)
	b = binary.BigEndian.AppendUint32(b, r.x)
	b = binary.BigEndian.AppendUint32(b, r.y)
	b = binary.BigEndian.AppendUint32(b, r.z)
	b = binary.BigEndian.AppendUint32(b, r.w)
	return b, nil
}

// Restore 恢復內部狀態。長度不符時回傳 Warn 並保持原狀態不變。
func (r *Xorshift) Restore(data []byte) error {
	if len(data) != snapshotSize {
		return errs.NewWarn(fmt.Sprintf("xorshift snapshot must be %d bytes, got %d", snapshotSize, len(data)))
	}
	r.x = binary.BigEndian.Uint32(data[0:4])
	r.y = binary.BigEndian.Uint32(data[4:8])
	r.z = binary.BigEndian.Uint32(data[8:12])
	r.w = binary.BigEndian.Uint32(data[12:16])
	return nil
}

//---------------------------------------
// 內部方法
//---------------------------------------

func (r *Xorshift) next() uint32 {
	t := r.x ^ (r.x << 11)
	r.x, r.y, r.z = r.y, r.z, r.w
	r.w = mix(r.w, t)
	return r.w
}
