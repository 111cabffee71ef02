package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/stats"
)

// StatRequest 由呼叫端自行取樣後送來的單位值
type StatRequest struct {
	Samples []float64 `json:"samples"`
	Bins    int       `json:"bins"`
}

// Stat POST /v1/stat：對外部樣本做均勻性統計，不經過 worker pool。
func (h *Handler) Stat(w http.ResponseWriter, r *http.Request) {
	req := new(StatRequest)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBytes*8)).Decode(req); err != nil {
		h.fail(w, r, errs.WrapWarn(err, "invalid json"))
		return
	}
	if len(req.Samples) > h.maxRounds {
		h.fail(w, r, errs.InvalidField("samples", "at most %d samples", h.maxRounds))
		return
	}
	for i, x := range req.Samples {
		if !(x >= 0 && x <= 1) {
			h.fail(w, r, errs.InvalidField("samples", "samples[%d] = %v is outside [0, 1]", i, x))
			return
		}
	}
	if req.Bins == 0 {
		req.Bins = stats.DefaultBins
	}
	rep, err := stats.Uniformity(req.Samples, req.Bins)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rep.Summary.Name = "stat"
	writeJSON(w, rep)
}
