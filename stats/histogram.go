package stats

import (
	"fmt"

	"github.com/zintix-labs/xorshift/errs"
)

const (
	// DefaultBins 為均勻性檢定預設的分桶數
	DefaultBins int = 10
	// MaxBins 分桶上限
	MaxBins int = 4096
)

// Histogram
//
// 將 [0, 1] 的單位值定位到等寬分桶 O(1)
//   - 區間: [0, 1/n), [1/n, 2/n), ..., [(n-1)/n, 1]
//   - 1.0 本身落在最後一桶（單位值在 float32 下可能恰為 1）
type Histogram struct {
	bins   int
	labels []string
}

// NewHistogram 建立 bins 個等寬分桶；bins 需在 [2, MaxBins]。
func NewHistogram(bins int) (*Histogram, error) {
	if bins < 2 || bins > MaxBins {
		return nil, errs.InvalidField("bins", "bins must be in [2, %d], got %d", MaxBins, bins)
	}
	h := &Histogram{bins: bins, labels: make([]string, bins)}
	for i := 0; i < bins; i++ {
		lo := float64(i) / float64(bins)
		hi := float64(i+1) / float64(bins)
		if i == bins-1 {
			h.labels[i] = fmt.Sprintf("[%.6g,%.6g]", lo, hi)
		} else {
			h.labels[i] = fmt.Sprintf("[%.6g,%.6g)", lo, hi)
		}
	}
	return h, nil
}

func (h *Histogram) Bins() int {
	return h.bins
}

func (h *Histogram) Labels() []string {
	return h.labels
}

// Index 回傳 u 所屬的分桶；超出 [0, 1] 的值夾到兩端。
func (h *Histogram) Index(u float64) int {
	idx := int(u * float64(h.bins))
	if idx < 0 {
		return 0
	}
	if idx >= h.bins {
		return h.bins - 1
	}
	return idx
}
