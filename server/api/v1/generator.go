package v1

import (
	"net/http"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
)

// XorshiftResponse 原始值與單位值依序取自同一條序列（先 raw 後 unit），
// State 為取樣後的快照，帶回 state 參數即可續接。
type XorshiftResponse struct {
	Seed  uint32    `json:"seed"`
	Raw   []uint32  `json:"raw"`
	Unit  []float32 `json:"unit"`
	State string    `json:"state"`
}

// FixedResponse 批次單位值
type FixedResponse struct {
	Seed   uint32    `json:"seed"`
	Values []float32 `json:"values"`
}

// Xorshift GET /v1/xorshift?seed=&count=&state=
func (h *Handler) Xorshift(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seed, err := querySeed(q, "seed")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := queryInt(q, "count", 1, 1, h.maxCount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p := &profile.Profile{
		Name:      "xorshift",
		Generator: profile.GenXorshift,
		Seed:      seed,
		State:     q.Get("state"),
		Draws: []profile.Draw{
			{Kind: profile.KindRaw, Count: n},
			{Kind: profile.KindUnit, Count: n},
		},
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	res, err := h.rt.RunProfile(ctx, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := XorshiftResponse{
		Seed:  res.Seed,
		Raw:   make([]uint32, n),
		Unit:  make([]float32, n),
		State: res.State,
	}
	for i := 0; i < n; i++ {
		resp.Raw[i] = uint32(res.Draws[0].Values[i])
		resp.Unit[i] = float32(res.Draws[1].Values[i])
	}
	writeJSON(w, resp)
}

// Fixed GET /v1/fixed?seed=&count=
func (h *Handler) Fixed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seed, err := querySeed(q, "seed")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := queryInt(q, "count", 1, 1, h.maxCount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p := &profile.Profile{
		Name:      "fixed",
		Generator: profile.GenFixed,
		Seed:      seed,
		Draws:     []profile.Draw{{Kind: profile.KindValues, Count: n}},
	}
	ctx, cancel := h.ctx(r)
	defer cancel()
	res, err := h.rt.RunProfile(ctx, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := FixedResponse{Seed: res.Seed, Values: make([]float32, n)}
	for i, v := range res.Draws[0].Values {
		resp.Values[i] = float32(v)
	}
	writeJSON(w, resp)
}

// Sample GET /v1/sample?generator=&seed=&label=&kind=&count=&min=&max=&rect=&bounds=&state=&format=
//
// 以單一 Draw 組成 Profile 執行；回應格式同 POST /v1/profile。
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("kind") == "" {
		h.fail(w, r, errs.InvalidField("kind", "kind is required"))
		return
	}
	seed, err := querySeed(q, "seed")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n, err := queryInt(q, "count", 1, 1, h.maxCount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d := profile.Draw{Kind: profile.Kind(q.Get("kind")), Count: n}
	for _, f := range []struct {
		key string
		dst *[]float32
	}{
		{"min", &d.Min},
		{"max", &d.Max},
		{"rect", &d.Rect},
		{"bounds", &d.Bounds},
	} {
		if *f.dst, err = queryFloats(q, f.key); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	p := &profile.Profile{
		Name:      "sample",
		Generator: profile.Generator(q.Get("generator")),
		Seed:      seed,
		Label:     q.Get("label"),
		State:     q.Get("state"),
		Draws:     []profile.Draw{d},
	}
	h.runProfile(w, r, p)
}
