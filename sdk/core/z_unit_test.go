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
	"math"
	"testing"

	"github.com/zintix-labs/xorshift/errs"
)

// TestFixedT 驗證固定混洗項 T 以 uint32 截斷計算
func TestFixedT(t *testing.T) {
	if fixedT != 3644024085 {
		t.Fatalf("fixedT = %d, want 3644024085", fixedT)
	}
	s := SeedX
	if got := s ^ (s << 11); got != fixedT {
		t.Fatalf("runtime T = %d, const T = %d", got, fixedT)
	}
}

// TestXorshiftReferenceTable 驗證 (seed → 前 5 個輸出) 參考表
func TestXorshiftReferenceTable(t *testing.T) {
	cases := []struct {
		seed uint32
		want [5]uint32
	}{
		{88675123, [5]uint32{3701687786, 458299110, 2500872618, 3633119408, 516391518}},
		{1, [5]uint32{3656013425, 504890836, 2421774897, 2421768243, 462149015}},
		{12345, [5]uint32{3656017481, 504903148, 2421778953, 2446918083, 462153119}},
	}
	for _, c := range cases {
		r := NewXorshift(c.seed)
		for i, w := range c.want {
			if got := r.Uint32(); got != w {
				t.Fatalf("seed %d draw %d: got %d want %d", c.seed, i, got, w)
			}
		}
	}
}

// TestXorshiftStateInvariant 驗證 w 為最新輸出，x,y,z 為上一代的 y,z,w
func TestXorshiftStateInvariant(t *testing.T) {
	r := NewXorshift(42)
	for i := 0; i < 10; i++ {
		_, py, pz, pw := r.State()
		v := r.Uint32()
		x, y, z, w := r.State()
		if w != v {
			t.Fatalf("w=%d is not last output %d", w, v)
		}
		if x != py || y != pz || z != pw {
			t.Fatalf("state not shifted: (%d,%d,%d) vs prev (%d,%d,%d)", x, y, z, py, pz, pw)
		}
	}
}

// TestXorshiftFloat32SingleStep 驗證 Float32 每次只推進一次狀態
func TestXorshiftFloat32SingleStep(t *testing.T) {
	a := NewXorshift(SeedW)
	b := NewXorshift(SeedW)
	want := []float32{0.8618663549423218, 0.10670607537031174, 0.5822798013687134, 0.8459015488624573, 0.12023176997900009}
	for i, w := range want {
		raw := a.Uint32()
		u := b.Float32()
		if u != toUnit(raw) {
			t.Fatalf("draw %d: Float32 %v != toUnit(Uint32) %v", i, u, toUnit(raw))
		}
		if u != w {
			t.Fatalf("draw %d: got %v want %v", i, u, w)
		}
	}
}

// TestUnitBounds 驗證單位值落在 [0,1]，且兩端皆可取到
func TestUnitBounds(t *testing.T) {
	if got := toUnit(0); got != 0 {
		t.Fatalf("toUnit(0) = %v", got)
	}
	if got := toUnit(math.MaxUint32); got != 1 {
		t.Fatalf("toUnit(MaxUint32) = %v, want exactly 1", got)
	}
	r := NewXorshift(7)
	for i := 0; i < 100000; i++ {
		u := r.Float32()
		if u < 0 || u > 1 {
			t.Fatalf("unit out of range: %v", u)
		}
	}
}

// TestSignedSeed 驗證有號種子以位元重新解讀
func TestSignedSeed(t *testing.T) {
	a := NewXorshiftInt(-1)
	b := NewXorshift(math.MaxUint32)
	for i := 0; i < 5; i++ {
		if a.Uint32() != b.Uint32() {
			t.Fatalf("signed seed diverged at %d", i)
		}
	}
}

// TestDefaultInstance 驗證預設實例只建立一次
func TestDefaultInstance(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("Default() must return the same instance")
	}
}

// TestSnapshotRestore 驗證快照還原後序列可續接
func TestSnapshotRestore(t *testing.T) {
	r := NewXorshift(SeedW)
	r.Uint32()
	r.Uint32()
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != snapshotSize {
		t.Fatalf("snapshot size %d", len(snap))
	}
	want := r.Uint32()

	c := NewXorshift(0)
	if err := c.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := c.Uint32(); got != want {
		t.Fatalf("restored stream got %d want %d", got, want)
	}
	if want != 2500872618 {
		t.Fatalf("third draw %d", want)
	}
}

// TestRestoreBadLength 驗證錯誤長度回傳 Warn 並保持狀態
func TestRestoreBadLength(t *testing.T) {
	r := NewXorshift(SeedW)
	err := r.Restore([]byte{1, 2, 3})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errs.IsWarn(err) {
		t.Fatalf("expected warn level, got %v", err)
	}
	if got := r.Uint32(); got != 3701687786 {
		t.Fatalf("state changed after failed restore: %d", got)
	}
}

// TestDegenerateSeedNotFixed 驗證退化種子不被修正：狀態照常推進
func TestDegenerateSeedNotFixed(t *testing.T) {
	r := NewXorshift(0)
	_, _, _, w := r.State()
	if w != 0 {
		t.Fatalf("seed 0 must be stored as-is, got w=%d", w)
	}
	if got := r.Uint32(); got != RawAt(0) {
		t.Fatalf("first draw %d, want %d", got, RawAt(0))
	}
}

// TestRawAtMatchesFirstDraw 驗證 RawAt(seed) 等於 NewXorshift(seed) 的第一次輸出
func TestRawAtMatchesFirstDraw(t *testing.T) {
	for _, s := range []uint32{0, 1, 12345, SeedW, math.MaxUint32} {
		if RawAt(s) != NewXorshift(s).Uint32() {
			t.Fatalf("seed %d mismatch", s)
		}
	}
}

// TestFixedIdempotent 驗證 Fixed 對同一個種子重複取樣結果相同
func TestFixedIdempotent(t *testing.T) {
	f := NewFixedAt(SeedW)
	a := f.Float32()
	b := f.Float32()
	if a != b {
		t.Fatalf("fixed not idempotent: %v vs %v", a, b)
	}
	if a != float32(0.8618663549423218) {
		t.Fatalf("fixed unit %v", a)
	}
	if f.Seed().Get() != SeedW {
		t.Fatalf("fixed mutated the seed")
	}
	if f.Uint32() != 3701687786 {
		t.Fatalf("fixed raw %d", f.Uint32())
	}
}

// TestFixedAxis 驗證分量 i 取自 seed + i*Knuth
func TestFixedAxis(t *testing.T) {
	f := NewFixedAt(SeedW)
	want := []float32{0.8618663549423218, 0.4781922698020935, 0.59500652551651, 0.023526059463620186}
	for i, w := range want {
		if got := f.Axis(uint32(i)); got != w {
			t.Fatalf("axis %d: got %v want %v", i, got, w)
		}
		if got := UnitAt(SeedW + uint32(i)*Knuth); got != f.Axis(uint32(i)) {
			t.Fatalf("axis %d not seed+i*K", i)
		}
	}
}

// TestValuesReference 驗證 Values(5) 的參考向量（位元精確）
func TestValuesReference(t *testing.T) {
	want := []uint32{0x3ef4d59e, 0x3cc0b9b9, 0x3ec6ff59, 0x3f6a9984, 0x3f13636c}
	got := Values(SeedW, 5)
	if len(got) != len(want) {
		t.Fatalf("len %d", len(got))
	}
	for i, w := range want {
		if math.Float32bits(got[i]) != w {
			t.Fatalf("value %d: got %v (0x%08x) want 0x%08x", i, got[i], math.Float32bits(got[i]), w)
		}
	}
	again := Values(SeedW, 5)
	for i := range got {
		if got[i] != again[i] {
			t.Fatalf("Values not deterministic at %d", i)
		}
	}
}

// TestFixedValuesDoesNotMutateSeed 驗證批次取樣不改動外部種子
func TestFixedValuesDoesNotMutateSeed(t *testing.T) {
	s := NewSeed(SeedW)
	f := NewFixed(s)
	vs := f.Values(600)
	if len(vs) != 600 {
		t.Fatalf("len %d", len(vs))
	}
	if s.Get() != SeedW {
		t.Fatalf("seed mutated: %d", s.Get())
	}
	if len(Values(SeedW, 0)) != 0 || len(Values(SeedW, -3)) != 0 {
		t.Fatalf("non-positive count must yield empty slice")
	}
}

// TestSeedAdvance 驗證推進以 Knuth 環繞累加，且改寫種子只影響之後的取樣
func TestSeedAdvance(t *testing.T) {
	s := NewSeed(math.MaxUint32)
	if got := s.Advance(); got != Knuth-1 {
		t.Fatalf("advance wrap: got %d want %d", got, Knuth-1)
	}
	f := NewFixed(s)
	before := f.Float32()
	s.Set(SeedW)
	after := f.Float32()
	if before == after {
		t.Fatalf("expected different value after Set")
	}
	if after != UnitAt(SeedW) {
		t.Fatalf("fixed did not read the new seed")
	}
}

// TestDefaultSeed 驗證 NewFixed(nil) 使用共用預設種子
func TestDefaultSeed(t *testing.T) {
	f := NewFixed(nil)
	if f.Seed() != DefaultSeed() {
		t.Fatalf("nil seed must fall back to DefaultSeed()")
	}
}
