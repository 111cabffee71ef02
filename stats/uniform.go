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

// Package stats 對單位值樣本做均勻性統計：動差、分桶分布、卡方與 KS 檢定。
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/zintix-labs/xorshift/corefmt"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/sdk/sampler"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo" yaml:"Lo"`
	Hi float64 `json:"Hi" yaml:"Hi"`
}

// UniformReport 均勻性統計報告
type UniformReport struct {
	Summary *SummaryReport `json:"Summary" yaml:"Summary"`
	Dist    *DistReport    `json:"Dist"    yaml:"Dist"`
	Tests   *TestReport    `json:"Tests"   yaml:"Tests"`
}

type SummaryReport struct {
	Name      string  `json:"Name"      yaml:"Name"`
	Generator string  `json:"Generator" yaml:"Generator"`
	Seed      uint32  `json:"Seed"      yaml:"Seed"`
	Rounds    int     `json:"Rounds"    yaml:"Rounds"`
	Mean      float64 `json:"Mean"      yaml:"Mean"`
	MeanCI    CI      `json:"MeanCI"    yaml:"MeanCI"`
	Variance  float64 `json:"Variance"  yaml:"Variance"`
	Std       float64 `json:"Std"       yaml:"Std"`
	Min       float64 `json:"Min"       yaml:"Min"`
	Max       float64 `json:"Max"       yaml:"Max"`
	Ones      int     `json:"Ones"      yaml:"Ones"` // 恰為 1.0 的樣本數
}

// DistReport 分桶落點統計
type DistReport struct {
	Bins   []string  `json:"Bins"   yaml:"Bins"`
	Counts []int     `json:"Counts" yaml:"Counts"`
	Freq   []float64 `json:"Freq"   yaml:"Freq"`
}

// TestReport 檢定結果
//
// SignNeg 為以同一批樣本換算 Sign 後 -1 的比例，理論值 0.75。
type TestReport struct {
	ChiSquare float64   `json:"ChiSquare" yaml:"ChiSquare"`
	ChiDF     int       `json:"ChiDF"     yaml:"ChiDF"`
	ChiP      float64   `json:"ChiP"      yaml:"ChiP"`
	KsD       float64   `json:"KsD"       yaml:"KsD"`
	KsP       float64   `json:"KsP"       yaml:"KsP"`
	SignNeg   PointStat `json:"SignNeg"   yaml:"SignNeg"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Uniformity 對 xs（期望為 [0, 1] 均勻分布）做完整統計。xs 不會被修改。
func Uniformity(xs []float64, bins int) (*UniformReport, error) {
	n := len(xs)
	if n == 0 {
		return nil, errs.NewWarn("uniformity needs at least one sample")
	}
	h, err := NewHistogram(bins)
	if err != nil {
		return nil, err
	}

	mean, variance := stat.MeanVariance(xs, nil)
	if n < 2 {
		variance = 0
	}
	std := math.Sqrt(variance)
	se := std / math.Sqrt(float64(n))

	counts := make([]int, bins)
	ones, neg := 0, 0
	for _, x := range xs {
		counts[h.Index(x)]++
		if x == 1 {
			ones++
		}
		if sampler.LerpInt(0, 2, float32(x)) == 0 {
			neg++
		}
	}

	freq := make([]float64, bins)
	exp := float64(n) / float64(bins)
	chi := 0.0
	for i, c := range counts {
		freq[i] = float64(c) / float64(n)
		d := float64(c) - exp
		chi += d * d / exp
	}
	chiDist := distuv.ChiSquared{K: float64(bins - 1)}

	d := ksStatistic(xs)
	negHat, negCI := proportionCICP(neg, n, 0.95)

	return &UniformReport{
		Summary: &SummaryReport{
			Rounds:   n,
			Mean:     mean,
			MeanCI:   CI{Lo: mean - 1.96*se, Hi: mean + 1.96*se},
			Variance: variance,
			Std:      std,
			Min:      floats.Min(xs),
			Max:      floats.Max(xs),
			Ones:     ones,
		},
		Dist: &DistReport{
			Bins:   h.Labels(),
			Counts: counts,
			Freq:   freq,
		},
		Tests: &TestReport{
			ChiSquare: chi,
			ChiDF:     bins - 1,
			ChiP:      chiDist.Survival(chi),
			KsD:       d,
			KsP:       ksProb(d, n),
			SignNeg:   PointStat{Hat: negHat, CI: negCI},
		},
	}, nil
}

// Pass 回報卡方與 KS 檢定在顯著水準 alpha 下是否都未拒絕均勻假設。
func (u *UniformReport) Pass(alpha float64) bool {
	return u.Tests.ChiP >= alpha && u.Tests.KsP >= alpha
}

func (u *UniformReport) WriteWith(w io.Writer, rep UniformReportRender) error {
	return rep.Write(w, u)
}

// StdOut 輸出用時與摘要表格
func (u *UniformReport) StdOut(ut time.Duration) {
	formatDuration(ut, u.Summary.Rounds)
	sk, sm := u.fmtBasic()
	fmt.Println(corefmt.Table(u.Summary.Name, sk, sm))
	dk, dm := u.fmtDist()
	fmt.Println(corefmt.Table("Distribution", dk, dm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

// ksStatistic 回傳 xs 相對於 U(0,1) 的單樣本 Kolmogorov-Smirnov D 值。
func ksStatistic(xs []float64) float64 {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)

	u := distuv.Uniform{Min: 0, Max: 1}
	n := float64(len(cp))
	d := 0.0
	for i, x := range cp {
		f := u.CDF(x)
		d = max(d, f-float64(i)/n, float64(i+1)/n-f)
	}
	return d
}

// ksProb 以 Kolmogorov 分布的漸近級數估計 P(D > d)。
func ksProb(d float64, n int) float64 {
	sn := math.Sqrt(float64(n))
	lambda := (sn + 0.12 + 0.11/sn) * d
	if lambda < 0.2 {
		return 1
	}
	a := -2 * lambda * lambda
	sum, sign := 0.0, 1.0
	for k := 1; k <= 100; k++ {
		term := sign * 2 * math.Exp(a*float64(k*k))
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	return min(max(sum, 0), 1)
}

func formatDuration(d time.Duration, rounds int) {
	p := corefmt.Printer()
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	dps := int(float64(rounds) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\ndps : %d draws/sec\n", sec, dps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\ndps : %d draws/sec\n", m, s, dps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\ndps : %d draws/sec\n", h, m, s, dps)
}

func (u *UniformReport) fmtBasic() ([]string, map[string]string) {
	p := corefmt.Printer()
	s, t := u.Summary, u.Tests
	basic := map[string]string{
		"Generator":   s.Generator,
		"Seed":        p.Sprintf("%d", s.Seed),
		"Rounds":      p.Sprintf("%d", s.Rounds),
		"Mean":        p.Sprintf("%.6f", s.Mean),
		"Mean 95% CI": p.Sprintf("[%.6f,%.6f]", s.MeanCI.Lo, s.MeanCI.Hi),
		"Variance":    p.Sprintf("%.6f (1/12 = %.6f)", s.Variance, 1.0/12),
		"Min / Max":   p.Sprintf("%.7f / %.7f", s.Min, s.Max),
		"Exact 1.0":   p.Sprintf("%d", s.Ones),
		"Chi-Square":  p.Sprintf("%.3f (df %d, p %.4f)", t.ChiSquare, t.ChiDF, t.ChiP),
		"KS":          p.Sprintf("D %.5f (p %.4f)", t.KsD, t.KsP),
		"Sign -1":     fmtHatCIpct01(t.SignNeg.Hat, t.SignNeg.CI),
	}
	keys := []string{"Generator", "Seed", "Rounds", "Mean", "Mean 95% CI", "Variance", "Min / Max", "Exact 1.0", "Chi-Square", "KS", "Sign -1"}
	return keys, basic
}

func (u *UniformReport) fmtDist() ([]string, map[string]string) {
	p := corefmt.Printer()
	msg := make(map[string]string, len(u.Dist.Bins))
	for i, b := range u.Dist.Bins {
		msg[b] = p.Sprintf("%d (%.3f%%)", u.Dist.Counts[i], 100*u.Dist.Freq[i])
	}
	return u.Dist.Bins, msg
}
