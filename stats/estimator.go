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

package stats

import (
	"fmt"
	"sort"

	"github.com/zintix-labs/xorshift/corefmt"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// 多條序列（不同種子）的跨序列評估
type EstimatorStreams struct {
	Streams    int       `json:"Streams"    yaml:"Streams"`
	Alpha      float64   `json:"Alpha"      yaml:"Alpha"`
	MeanMedian PointStat `json:"MeanMedian" yaml:"MeanMedian"` // 各序列平均值的中位數
	MeanP10    PointStat `json:"MeanP10"    yaml:"MeanP10"`
	MeanP90    PointStat `json:"MeanP90"    yaml:"MeanP90"`
	ChiReject  PointStat `json:"ChiReject"  yaml:"ChiReject"` // 卡方拒絕比例，理想值約等於 Alpha
	KsReject   PointStat `json:"KsReject"   yaml:"KsReject"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"Hat" yaml:"Hat"`
	CI  CI      `json:"CI"  yaml:"CI"`
}

// ============================================================
// ** 對外 : 跨序列評估 **
// ============================================================

// EstimatorStreamsOf 彙整多條序列各自的報告。
//
// 好的產生器在每條序列上都應近似均勻，因此在顯著水準 alpha 下
// 被拒絕的序列比例應落在 alpha 附近；明顯偏高代表有系統性偏差。
func EstimatorStreamsOf(reps []*UniformReport, alpha float64) *EstimatorStreams {
	n := len(reps)
	out := &EstimatorStreams{Streams: n, Alpha: alpha}
	if n == 0 {
		return out
	}

	means := make([]float64, n)
	chiK, ksK := 0, 0
	for i, r := range reps {
		means[i] = r.Summary.Mean
		if r.Tests.ChiP < alpha {
			chiK++
		}
		if r.Tests.KsP < alpha {
			ksK++
		}
	}

	medLo, medHi := quantileCI(means, 0.5, 0.95)
	p10Lo, p10Hi := quantileCI(means, 0.10, 0.95)
	p90Lo, p90Hi := quantileCI(means, 0.90, 0.95)
	out.MeanMedian = PointStat{Hat: quantilePoint(means, 0.5), CI: CI{Lo: medLo, Hi: medHi}}
	out.MeanP10 = PointStat{Hat: quantilePoint(means, 0.10), CI: CI{Lo: p10Lo, Hi: p10Hi}}
	out.MeanP90 = PointStat{Hat: quantilePoint(means, 0.90), CI: CI{Lo: p90Lo, Hi: p90Hi}}

	chiHat, chiCI := proportionCICP(chiK, n, 0.95)
	ksHat, ksCI := proportionCICP(ksK, n, 0.95)
	out.ChiReject = PointStat{Hat: chiHat, CI: chiCI}
	out.KsReject = PointStat{Hat: ksHat, CI: ksCI}
	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 想估「第 q 分位」的上下界。做法：把 order statistic 的秩視為二項→Beta 反推 p 範圍，再把 p 轉回樣本索引。
// 回傳 (loValue, hiValue)
func quantileCI(data []float64, q, confidence float64) (float64, float64) {
	n := len(data)
	if n == 0 {
		return 0, 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	if n == 1 {
		return cp[0], cp[0]
	}

	alpha := 1 - confidence
	k := int(q * float64(n))
	if k < 1 {
		k = 1
	} else if k > n-1 {
		k = n - 1
	}

	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	ui = min(max(ui, 0), n-1)
	return cp[li], cp[ui]
}

// quantilePoint returns the empirical quantile point estimate at q.
func quantilePoint(data []float64, q float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	// 最近秩法
	idx := min(max(int(q*float64(n)), 0), n-1)
	return cp[idx]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *EstimatorStreams) Out() {
	p := corefmt.Printer()
	keys := []string{"Streams", "Mean median", "Mean P10", "Mean P90", "Chi-Square reject", "KS reject"}
	msg := map[string]string{
		"Streams":           p.Sprintf("%d (alpha %.3f)", est.Streams, est.Alpha),
		"Mean median":       fmtHatCI(est.MeanMedian),
		"Mean P10":          fmtHatCI(est.MeanP10),
		"Mean P90":          fmtHatCI(est.MeanP90),
		"Chi-Square reject": fmtHatCIpct01(est.ChiReject.Hat, est.ChiReject.CI),
		"KS reject":         fmtHatCIpct01(est.KsReject.Hat, est.KsReject.CI),
	}
	fmt.Println(corefmt.Table("Streams", keys, msg))
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

func fmtHatCI(ps PointStat) string {
	return fmt.Sprintf("%.6f [%.6f, %.6f]", ps.Hat, ps.CI.Lo, ps.CI.Hi)
}
