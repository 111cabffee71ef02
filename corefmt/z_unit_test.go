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

package corefmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/sdk/core"
)

func TestStateHexRoundTrip(t *testing.T) {
	r := core.NewXorshift(core.SeedW)
	r.Uint32()
	s, err := EncodeState(r)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(s) != 32 {
		t.Fatalf("hex length %d", len(s))
	}
	want := r.Uint32()

	c := core.NewXorshift(1)
	if err := DecodeState(c, s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := c.Uint32(); got != want {
		t.Fatalf("resumed draw %d want %d", got, want)
	}
}

func TestDecodeStateRejectsGarbage(t *testing.T) {
	c := core.NewXorshift(1)
	if err := DecodeState(c, "zz"); !errs.IsWarn(err) {
		t.Fatalf("bad hex must be warn, got %v", err)
	}
	if err := DecodeState(c, "00ff"); !errs.IsWarn(err) {
		t.Fatalf("short snapshot must be warn, got %v", err)
	}
}

func TestStateFrame(t *testing.T) {
	r := core.NewXorshift(77)
	r.Uint32()
	var buf bytes.Buffer
	if err := WriteStateFrame(&buf, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := core.NewXorshift(0)
	if err := ReadStateFrame(bytes.NewReader(buf.Bytes()), c, 64); err != nil {
		t.Fatalf("read: %v", err)
	}
	if r.Uint32() != c.Uint32() {
		t.Fatalf("frame did not restore the stream")
	}
	if err := ReadStateFrame(bytes.NewReader(buf.Bytes()), c, 8); err == nil {
		t.Fatalf("expected maxBytes error")
	}
}

func TestTableAligned(t *testing.T) {
	keys := []string{"Seed", "平均值"}
	msg := map[string]string{"Seed": "88,675,123", "平均值": "0.5"}
	out := Table("uniformity", keys, msg)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("unexpected line count %d:\n%s", len(lines), out)
	}
	w := runewidth.StringWidth(lines[0])
	for _, l := range lines {
		if runewidth.StringWidth(l) != w {
			t.Fatalf("misaligned table:\n%s", out)
		}
	}
	if got := Printer().Sprintf("%d", 88675123); got != "88,675,123" {
		t.Fatalf("printer %q", got)
	}
}
