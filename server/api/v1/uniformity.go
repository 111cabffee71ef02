package v1

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/sdk/core"
	"github.com/zintix-labs/xorshift/stats"
)

// UniformityResponse 單條序列只有 Report；streams > 1 時另附跨序列評估。
type UniformityResponse struct {
	Report  *stats.UniformReport    `json:"report"  yaml:"report"`
	Streams *stats.EstimatorStreams `json:"streams,omitempty" yaml:"streams,omitempty"`
}

// Uniformity GET /v1/uniformity?generator=&seed=&rounds=&bins=&streams=&format=
func (h *Handler) Uniformity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gen := profile.Generator(q.Get("generator"))
	if gen == "" {
		gen = profile.GenXorshift
	}
	seed := core.SeedW
	if s, err := querySeed(q, "seed"); err != nil {
		h.fail(w, r, err)
		return
	} else if s != nil {
		seed = *s
	}
	rounds, err := queryInt(q, "rounds", 10_000, 1, h.maxRounds)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	bins, err := queryInt(q, "bins", stats.DefaultBins, 2, stats.MaxBins)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	streams, err := queryInt(q, "streams", 1, 1, xorshift.MaxStreams)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rounds*streams > h.maxRounds {
		h.fail(w, r, errs.InvalidField("rounds", "rounds x streams must be <= %d", h.maxRounds))
		return
	}
	format := strings.ToLower(q.Get("format"))
	if format != "" && format != "json" && format != "yaml" {
		h.fail(w, r, errs.InvalidField("format", "unknown format %q", format))
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()
	resp := UniformityResponse{}
	if streams == 1 {
		resp.Report, err = h.rt.Uniformity(ctx, gen, seed, rounds, bins)
	} else {
		resp.Report, resp.Streams, err = h.rt.UniformityStreams(ctx, gen, seed, rounds, streams, bins)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if format == "yaml" {
		var b bytes.Buffer
		if err := resp.Report.WriteWith(&b, &stats.YAMLUniformReportRender{}); err != nil {
			h.fail(w, r, errs.Wrap(err, "render report"))
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(b.Bytes())
		return
	}
	writeJSON(w, resp)
}

// Metrics GET /v1/metrics
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.rt.Metrics())
}
