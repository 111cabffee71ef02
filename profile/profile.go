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

// Package profile 以宣告式設定描述一次取樣流程（產生器、種子、要取哪些值），
// 並負責解碼、校驗、執行與輸出。
//
// 典型用途是啟動時取一批樣本存起來供畫面顯示，例如：
//
//	name: fixed-sample
//	generator: fixed
//	seed: 88675123
//	draws:
//	  - { kind: values, count: 600 }
//	  - { kind: inside_unit_sphere }
//	  - { kind: range_vec2, min: [0.5, 0.5], max: [3, 3] }
package profile

import (
	"encoding/json"
	"fmt"
	"math"

	farm "github.com/dgryski/go-farm"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/sdk/core"
	"gopkg.in/yaml.v3"
)

// MaxCount 為單一 draw 的 count 上限。
const MaxCount = 1_000_000

// MaxIntBound 整數類 Kind 的邊界上限：超過 2^24 的整數在 float32 中無法精確表示。
const MaxIntBound = 1 << 24

// Generator 產生器種類
type Generator string

const (
	GenXorshift Generator = "xorshift"
	GenFixed    Generator = "fixed"
)

// Kind 取樣種類
type Kind string

const (
	KindRaw              Kind = "raw"
	KindUnit             Kind = "unit"
	KindValues           Kind = "values"
	KindRange            Kind = "range"
	KindRangeInt         Kind = "range_int"
	KindRangeVec2        Kind = "range_vec2"
	KindRangeVec2Int     Kind = "range_vec2_int"
	KindRangeVec3        Kind = "range_vec3"
	KindRangeVec3Int     Kind = "range_vec3_int"
	KindRangeVec4        Kind = "range_vec4"
	KindRangeRect        Kind = "range_rect"
	KindRangeBounds      Kind = "range_bounds"
	KindRadian           Kind = "radian"
	KindSign             Kind = "sign"
	KindOnUnitCircle     Kind = "on_unit_circle"
	KindInsideUnitCircle Kind = "inside_unit_circle"
	KindOnUnitSphere     Kind = "on_unit_sphere"
	KindInsideUnitSphere Kind = "inside_unit_sphere"
)

// kindSpec 描述每種 Kind 需要的參數長度與輸出維度。
// bounds 為 min/max 各自的長度（0 表示不需要）；rect/box 為 Rect/Bounds 欄位長度。
type kindSpec struct {
	bounds  int
	rect    int
	box     int
	dim     int
	integer bool
}

var kinds = map[Kind]kindSpec{
	KindRaw:              {dim: 1},
	KindUnit:             {dim: 1},
	KindValues:           {dim: 1},
	KindRange:            {bounds: 1, dim: 1},
	KindRangeInt:         {bounds: 1, dim: 1, integer: true},
	KindRangeVec2:        {bounds: 2, dim: 2},
	KindRangeVec2Int:     {bounds: 2, dim: 2, integer: true},
	KindRangeVec3:        {bounds: 3, dim: 3},
	KindRangeVec3Int:     {bounds: 3, dim: 3, integer: true},
	KindRangeVec4:        {bounds: 4, dim: 4},
	KindRangeRect:        {rect: 4, dim: 2},
	KindRangeBounds:      {box: 6, dim: 3},
	KindRadian:           {dim: 1},
	KindSign:             {dim: 1},
	KindOnUnitCircle:     {dim: 2},
	KindInsideUnitCircle: {dim: 2},
	KindOnUnitSphere:     {dim: 3},
	KindInsideUnitSphere: {dim: 3},
}

// Dim 回傳該 Kind 每次取樣的輸出分量數；未知 Kind 回傳 0。
func (k Kind) Dim() int {
	return kinds[k].dim
}

// Profile 是一次取樣流程的完整描述。
type Profile struct {
	Name      string    `yaml:"name"            json:"name"`
	Generator Generator `yaml:"generator"       json:"generator"`
	Seed      *uint32   `yaml:"seed,omitempty"  json:"seed,omitempty"`
	Label     string    `yaml:"label,omitempty" json:"label,omitempty"`
	State     string    `yaml:"state,omitempty" json:"state,omitempty"` // xorshift 續接用的 hex 快照
	Draws     []Draw    `yaml:"draws"           json:"draws"`
}

// Draw 是一個取樣步驟。Count 為重複次數（values 則為批次大小），預設 1。
type Draw struct {
	Kind   Kind      `yaml:"kind"                  json:"kind"`
	Count  int       `yaml:"count,omitempty"       json:"count,omitempty"`
	Min    []float32 `yaml:"min,flow,omitempty"    json:"min,omitempty"`
	Max    []float32 `yaml:"max,flow,omitempty"    json:"max,omitempty"`
	Rect   []float32 `yaml:"rect,flow,omitempty"   json:"rect,omitempty"`   // x, y, width, height
	Bounds []float32 `yaml:"bounds,flow,omitempty" json:"bounds,omitempty"` // cx, cy, cz, ex, ey, ez
}

// FromYAML 讀取 YAML 設定、補預設值並校驗。
func FromYAML(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, errs.WrapWarn(err, "failed to unmarshal profile yaml")
	}
	if err := p.init(); err != nil {
		return nil, errs.Wrap(err, "profile initialized err")
	}
	return p, nil
}

// FromJSON 讀取 JSON 設定、補預設值並校驗。
func FromJSON(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, errs.WrapWarn(err, "failed to unmarshal profile json")
	}
	if err := p.init(); err != nil {
		return nil, errs.Wrap(err, "profile initialized err")
	}
	return p, nil
}

// SeedFromLabel 把文字標籤雜湊成 32-bit 種子（FarmHash32），讓設定可以用
// "level-3"、"frame-42" 這類可讀名稱代替數字。
func SeedFromLabel(label string) uint32 {
	return farm.Hash32([]byte(label))
}

// SeedValue 回傳實際使用的種子：Seed > Label > core.SeedW。
func (p *Profile) SeedValue() uint32 {
	switch {
	case p.Seed != nil:
		return *p.Seed
	case p.Label != "":
		return SeedFromLabel(p.Label)
	default:
		return core.SeedW
	}
}

// Validate 補預設值並校驗，供程式內組裝的 Profile 使用。
func (p *Profile) Validate() error {
	return p.init()
}

func (p *Profile) init() error {
	if p.Generator == "" {
		p.Generator = GenXorshift
	}
	for i := range p.Draws {
		if p.Draws[i].Count == 0 {
			p.Draws[i].Count = 1
		}
	}
	return p.valid()
}

func (p *Profile) valid() error {
	if p.Generator != GenXorshift && p.Generator != GenFixed {
		return errs.InvalidField("generator", "unknown generator %q", p.Generator)
	}
	if p.Seed != nil && p.Label != "" {
		return errs.InvalidField("label", "seed and label are mutually exclusive")
	}
	if p.State != "" && p.Generator != GenXorshift {
		return errs.InvalidField("state", "state is only valid for the xorshift generator")
	}
	if len(p.Draws) == 0 {
		return errs.InvalidField("draws", "profile %q has no draws", p.Name)
	}
	for i, d := range p.Draws {
		if err := d.valid(); err != nil {
			return errs.Wrap(err, fmt.Sprintf("draws[%d]", i))
		}
	}
	return nil
}

func (d Draw) valid() error {
	ks, ok := kinds[d.Kind]
	if !ok {
		return errs.InvalidField("kind", "unknown kind %q", d.Kind)
	}
	if d.Count < 1 || d.Count > MaxCount {
		return errs.InvalidField("count", "count must be in [1, %d], got %d", MaxCount, d.Count)
	}
	if err := checkLen("min", d.Min, ks.bounds); err != nil {
		return err
	}
	if err := checkLen("max", d.Max, ks.bounds); err != nil {
		return err
	}
	if err := checkLen("rect", d.Rect, ks.rect); err != nil {
		return err
	}
	if err := checkLen("bounds", d.Bounds, ks.box); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    []float32
	}{{"min", d.Min}, {"max", d.Max}, {"rect", d.Rect}, {"bounds", d.Bounds}} {
		for _, v := range f.v {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return errs.InvalidField(f.name, "must be finite, got %v", v)
			}
			if !ks.integer || f.name == "rect" || f.name == "bounds" {
				continue
			}
			if v != float32(math.Trunc(float64(v))) {
				return errs.InvalidField(f.name, "kind %s needs integer bounds, got %v", d.Kind, v)
			}
			if v > MaxIntBound || v < -MaxIntBound {
				return errs.InvalidField(f.name, "integer bounds must be in [-%d, %d], got %v", MaxIntBound, MaxIntBound, v)
			}
		}
	}
	return nil
}

func checkLen(field string, v []float32, want int) error {
	if len(v) != want {
		if want == 0 {
			return errs.InvalidField(field, "must be empty for this kind")
		}
		return errs.InvalidField(field, "needs %d components, got %d", want, len(v))
	}
	return nil
}
