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

package profile

import (
	"github.com/zintix-labs/xorshift/corefmt"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/sdk/core"
	"github.com/zintix-labs/xorshift/sdk/sampler"
	"github.com/zintix-labs/xorshift/sdk/vec"
)

// Result 是一次 Profile 執行的輸出。
type Result struct {
	Name      string       `yaml:"name"            json:"name"`
	Generator Generator    `yaml:"generator"       json:"generator"`
	Seed      uint32       `yaml:"seed"            json:"seed"`
	State     string       `yaml:"state,omitempty" json:"state,omitempty"` // xorshift 執行後的 hex 快照
	Draws     []DrawResult `yaml:"draws"           json:"draws"`
}

// DrawResult 是單一 Draw 的輸出。Values 依取樣順序攤平，每 Dim 個值為一筆。
type DrawResult struct {
	Kind   Kind      `yaml:"kind"   json:"kind"`
	Dim    int       `yaml:"dim"    json:"dim"`
	Count  int       `yaml:"count"  json:"count"`
	Values []float64 `yaml:"values" json:"values"`
}

// Row 回傳第 i 筆取樣的分量。
func (d *DrawResult) Row(i int) []float64 {
	return d.Values[i*d.Dim : (i+1)*d.Dim]
}

// Run 依 Profile 執行取樣。
//
// 產生器紀律：
//   - xorshift：整個 Profile 共用一條序列，Draw 之間依序推進；若設定 State 則從快照續接。
//   - fixed：每個 Draw 都從 Profile 種子出發，同一個 Draw 的第 i 次重複使用推進 i 次
//     Knuth 後的種子；values 直接使用批次取樣。
func Run(p *Profile) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seed := p.SeedValue()
	res := &Result{
		Name:      p.Name,
		Generator: p.Generator,
		Seed:      seed,
		Draws:     make([]DrawResult, 0, len(p.Draws)),
	}

	switch p.Generator {
	case GenXorshift:
		r := core.NewXorshift(seed)
		if p.State != "" {
			if err := corefmt.DecodeState(r, p.State); err != nil {
				return nil, errs.Wrap(err, "resume xorshift state")
			}
		}
		for _, d := range p.Draws {
			res.Draws = append(res.Draws, drawN(r, d, nil))
		}
		st, err := corefmt.EncodeState(r)
		if err != nil {
			return nil, err
		}
		res.State = st
	case GenFixed:
		for _, d := range p.Draws {
			s := core.NewSeed(seed)
			res.Draws = append(res.Draws, drawN(core.NewFixed(s), d, s))
		}
	}
	return res, nil
}

// drawN 執行 d.Count 次取樣；seed 非 nil 時每次重複之間推進一次。
func drawN(r core.RAND, d Draw, seed *core.Seed) DrawResult {
	dim := d.Kind.Dim()
	out := DrawResult{Kind: d.Kind, Dim: dim, Count: d.Count}

	if d.Kind == KindValues {
		out.Values = widen(values(r, d.Count))
		return out
	}

	out.Values = make([]float64, 0, d.Count*dim)
	for i := 0; i < d.Count; i++ {
		if i > 0 && seed != nil {
			seed.Advance()
		}
		out.Values = appendDraw(out.Values, r, d)
	}
	return out
}

// values 對 Fixed 使用批次取樣，對會推進的產生器則連續取 count 次。
func values(r core.RAND, count int) []float32 {
	if f, ok := r.(*core.Fixed); ok {
		return f.Values(count)
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = r.Float32()
	}
	return out
}

func appendDraw(dst []float64, r core.RAND, d Draw) []float64 {
	switch d.Kind {
	case KindRaw:
		return append(dst, float64(r.Uint32()))
	case KindUnit:
		return append(dst, float64(r.Float32()))
	case KindRange:
		return append(dst, float64(sampler.Range(r, d.Min[0], d.Max[0])))
	case KindRangeInt:
		return append(dst, float64(sampler.RangeInt(r, int(d.Min[0]), int(d.Max[0]))))
	case KindRangeVec2:
		v := sampler.RangeVec2(r, vec.Vector2(d.Min), vec.Vector2(d.Max))
		return appendF32(dst, v[:])
	case KindRangeVec2Int:
		v := sampler.RangeVec2Int(r, vec.Vector2Int{int(d.Min[0]), int(d.Min[1])}, vec.Vector2Int{int(d.Max[0]), int(d.Max[1])})
		return appendInt(dst, v[:])
	case KindRangeVec3:
		v := sampler.RangeVec3(r, vec.Vector3(d.Min), vec.Vector3(d.Max))
		return appendF32(dst, v[:])
	case KindRangeVec3Int:
		v := sampler.RangeVec3Int(r,
			vec.Vector3Int{int(d.Min[0]), int(d.Min[1]), int(d.Min[2])},
			vec.Vector3Int{int(d.Max[0]), int(d.Max[1]), int(d.Max[2])})
		return appendInt(dst, v[:])
	case KindRangeVec4:
		v := sampler.RangeVec4(r, vec.Vector4(d.Min), vec.Vector4(d.Max))
		return appendF32(dst, v[:])
	case KindRangeRect:
		rect := vec.Rect{X: d.Rect[0], Y: d.Rect[1], Width: d.Rect[2], Height: d.Rect[3]}
		v := sampler.RangeRect(r, rect)
		return appendF32(dst, v[:])
	case KindRangeBounds:
		b := vec.Bounds{Center: vec.Vector3(d.Bounds[0:3]), Extents: vec.Vector3(d.Bounds[3:6])}
		v := sampler.RangeBounds(r, b)
		return appendF32(dst, v[:])
	case KindRadian:
		return append(dst, float64(sampler.Radian(r)))
	case KindSign:
		return append(dst, float64(sampler.Sign(r)))
	case KindOnUnitCircle:
		v := sampler.OnUnitCircle(r)
		return appendF32(dst, v[:])
	case KindInsideUnitCircle:
		v := sampler.InsideUnitCircle(r)
		return appendF32(dst, v[:])
	case KindOnUnitSphere:
		v := sampler.OnUnitSphere(r)
		return appendF32(dst, v[:])
	case KindInsideUnitSphere:
		v := sampler.InsideUnitSphere(r)
		return appendF32(dst, v[:])
	default:
		return dst
	}
}

func appendF32(dst []float64, v []float32) []float64 {
	for _, c := range v {
		dst = append(dst, float64(c))
	}
	return dst
}

func appendInt(dst []float64, v []int) []float64 {
	for _, c := range v {
		dst = append(dst, float64(c))
	}
	return dst
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = float64(c)
	}
	return out
}
