package v1

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/zintix-labs/xorshift/catalog"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/server/netsvr"
)

// maxProfileBytes POST /v1/profile 的 body 上限
const maxProfileBytes = 1 << 20

// PresetsResponse 目錄中的所有設定
type PresetsResponse struct {
	Presets []catalog.Entry `json:"presets"`
}

// RunProfile POST /v1/profile
//
// Content-Type 含 yaml 時以 YAML 解碼，其餘一律視為 JSON。
func (h *Handler) RunProfile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxProfileBytes))
	if err != nil {
		h.fail(w, r, errs.WrapWarn(err, "read profile body"))
		return
	}
	var p *profile.Profile
	if isYAML(r.Header.Get("Content-Type")) {
		p, err = profile.FromYAML(body)
	} else {
		p, err = profile.FromJSON(body)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.runProfile(w, r, p)
}

// Presets GET /v1/presets
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, PresetsResponse{Presets: h.rt.Lab().All()})
}

// Preset GET /v1/presets/{name}?format=
func (h *Handler) Preset(w http.ResponseWriter, r *http.Request) {
	p, err := h.rt.Lab().Profile(netsvr.PathParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.runProfile(w, r, p)
}

// runProfile 檢查 count 上限後執行，並依 format（json|yaml|table，預設 json）輸出。
func (h *Handler) runProfile(w http.ResponseWriter, r *http.Request, p *profile.Profile) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	render := profile.RenderFor(format)
	if render == nil {
		h.fail(w, r, errs.InvalidField("format", "unknown format %q", format))
		return
	}
	for i, d := range p.Draws {
		if d.Count > h.maxCount {
			h.fail(w, r, errs.InvalidField("count", "draws[%d] count must be <= %d", i, h.maxCount))
			return
		}
	}

	ctx, cancel := h.ctx(r)
	defer cancel()
	res, err := h.rt.RunProfile(ctx, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// 先寫進 buffer，避免輸出到一半才失敗
	var b bytes.Buffer
	if err := render.Write(&b, res); err != nil {
		h.fail(w, r, errs.Wrap(err, "render result"))
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	_, _ = w.Write(b.Bytes())
}

func isYAML(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.Contains(mt, "yaml")
}

func contentType(format string) string {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return "application/yaml"
	case "table":
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}
