package xorshift

import (
	"context"
	"math"
	"testing"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/presets"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/sdk/core"
)

func newLab(t *testing.T) *Lab {
	t.Helper()
	lab, err := New(Configs(presets.FS))
	if err != nil {
		t.Fatalf("lab: %v", err)
	}
	return lab
}

func TestLabRun(t *testing.T) {
	lab := newLab(t)
	if len(lab.All()) != 3 {
		t.Fatalf("entries %v", lab.All())
	}
	res, err := lab.Run("fixed-sample")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := math.Float32bits(float32(res.Draws[0].Values[0])); got != 0x3ef4d59e {
		t.Fatalf("first value bits %08x", got)
	}
	if _, err := lab.Run("missing"); !errs.IsWarn(err) {
		t.Fatalf("missing profile must be warn, got %v", err)
	}
	if _, err := New(nil); err == nil {
		t.Fatalf("expected configs required")
	}
}

func TestSimXorshift(t *testing.T) {
	sim, err := newLab(t).NewSimulator(profile.GenXorshift, core.SeedW)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	rep, _, err := sim.Sim(100_000, false)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	s := rep.Summary
	if s.Rounds != 100_000 || s.Seed != core.SeedW || s.Generator != "xorshift" {
		t.Fatalf("summary %+v", s)
	}
	if math.Abs(s.Mean-0.5) > 0.005 {
		t.Fatalf("mean %v", s.Mean)
	}
	if math.Abs(s.Variance-1.0/12) > 0.002 {
		t.Fatalf("variance %v", s.Variance)
	}
	if !rep.Pass(0.01) {
		t.Fatalf("uniformity rejected: %+v", rep.Tests)
	}
	if math.Abs(rep.Tests.SignNeg.Hat-0.75) > 0.01 {
		t.Fatalf("sign -1 rate %v", rep.Tests.SignNeg.Hat)
	}

	// 重跑結果一致
	again, _, err := sim.Sim(100_000, false)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if again.Summary.Mean != s.Mean || again.Tests.ChiSquare != rep.Tests.ChiSquare {
		t.Fatalf("simulation not reproducible")
	}
}

func TestSimFixed(t *testing.T) {
	sim, err := newLab(t).NewSimulator(profile.GenFixed, core.SeedW)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	rep, _, err := sim.Sim(100_000, false)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	// 固定產生器沿 Knuth 步進取樣，分桶幾乎完全平均
	if rep.Tests.ChiSquare > 1 {
		t.Fatalf("fixed chi-square %v", rep.Tests.ChiSquare)
	}
	if math.Abs(rep.Summary.Mean-0.5) > 0.001 {
		t.Fatalf("mean %v", rep.Summary.Mean)
	}
}

func TestSimMP(t *testing.T) {
	sim, err := newLab(t).NewSimulatorWithBins(profile.GenXorshift, 1, 16)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	rep, est, _, err := sim.SimMP(20_000, 4, false)
	if err != nil {
		t.Fatalf("simmp: %v", err)
	}
	if rep.Summary.Rounds != 80_000 || len(rep.Dist.Counts) != 16 {
		t.Fatalf("merged %+v", rep.Summary)
	}
	if est.Streams != 4 {
		t.Fatalf("streams %d", est.Streams)
	}
	rep2, _, _, err := sim.SimMP(20_000, 4, false)
	if err != nil {
		t.Fatalf("simmp: %v", err)
	}
	if rep2.Summary.Mean != rep.Summary.Mean {
		t.Fatalf("SimMP not reproducible")
	}

	if _, _, _, err := sim.SimMP(10, 0, false); !errs.IsWarn(err) {
		t.Fatalf("zero streams must be warn")
	}
	if _, _, err := sim.Sim(0, false); !errs.IsWarn(err) {
		t.Fatalf("zero rounds must be warn")
	}
	if _, err := newSimulator("mt", 1, 10); !errs.IsWarn(err) {
		t.Fatalf("unknown generator must be warn")
	}
}

func TestStreamSeeds(t *testing.T) {
	sim, _ := newSimulator(profile.GenXorshift, 42, 10)
	a := sim.streamSeeds(8)
	b := sim.streamSeeds(8)
	if a[0] != 42 {
		t.Fatalf("first stream must use the seed")
	}
	seen := map[uint32]bool{}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("stream seeds not stable")
		}
		if seen[a[i]] {
			t.Fatalf("duplicate stream seed %d", a[i])
		}
		seen[a[i]] = true
	}
}

func TestRuntime(t *testing.T) {
	rt, err := newLab(t).BuildRuntime(2)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	ctx := context.Background()

	res, err := rt.RunNamed(ctx, "xorshift-tour")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Draws[0].Values[0] != 3701687786 {
		t.Fatalf("tour first raw %v", res.Draws[0].Values[0])
	}

	rep, err := rt.Uniformity(ctx, profile.GenXorshift, core.SeedW, 10_000, 10)
	if err != nil {
		t.Fatalf("uniformity: %v", err)
	}
	if rep.Summary.Rounds != 10_000 {
		t.Fatalf("rounds %d", rep.Summary.Rounds)
	}
	if _, err := rt.Uniformity(ctx, "mt", 1, 10, 10); !errs.IsWarn(err) {
		t.Fatalf("bad generator must be warn, got %v", err)
	}

	m := rt.Metrics()
	if m.PoolSize != 2 || m.Available != 2 || m.Inflight != 0 || m.Jobs != 3 {
		t.Fatalf("metrics %+v", m)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := rt.RunNamed(canceled, "fixed-sample"); !errs.IsWarn(err) {
		t.Fatalf("canceled ctx must be warn, got %v", err)
	}

	rt.Close()
	rt.Close()
	if !rt.Closed() || rt.ClosedReason() != "closed" {
		t.Fatalf("close state")
	}
	if _, err := rt.RunNamed(ctx, "fixed-sample"); errs.IsWarn(err) || err == nil {
		t.Fatalf("closed runtime must be fatal, got %v", err)
	}
}

func TestWorkerReusesSimulatorAcrossGenerators(t *testing.T) {
	rt, err := newLab(t).BuildRuntime(1)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	defer rt.Close()
	ctx := context.Background()

	if _, _, err := rt.UniformityStreams(ctx, profile.GenXorshift, 1, 500, 3, 10); err != nil {
		t.Fatalf("xorshift: %v", err)
	}
	rep, err := rt.Uniformity(ctx, profile.GenFixed, 1, 500, 10)
	if err != nil {
		t.Fatalf("fixed: %v", err)
	}
	if rep.Summary.Generator != "fixed" || rep.Summary.Name != "fixed-1" {
		t.Fatalf("single stream summary %q %q", rep.Summary.Generator, rep.Summary.Name)
	}

	rep, est, err := rt.UniformityStreams(ctx, profile.GenFixed, 2, 500, 3, 10)
	if err != nil {
		t.Fatalf("fixed streams: %v", err)
	}
	if rep.Summary.Generator != "fixed" || est.Streams != 3 {
		t.Fatalf("streams summary %q %d", rep.Summary.Generator, est.Streams)
	}

	want, _, err := newSimOrFail(t, profile.GenFixed, 1).Sim(500, false)
	if err != nil {
		t.Fatalf("fresh sim: %v", err)
	}
	again, err := rt.Uniformity(ctx, profile.GenFixed, 1, 500, 10)
	if err != nil {
		t.Fatalf("fixed again: %v", err)
	}
	if again.Summary.Mean != want.Summary.Mean || again.Tests.ChiSquare != want.Tests.ChiSquare {
		t.Fatalf("reused worker diverges from a fresh simulator")
	}
}

func newSimOrFail(t *testing.T, gen profile.Generator, seed uint32) *Simulator {
	t.Helper()
	s, err := newSimulator(gen, seed, 10)
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}
	return s
}

func TestWorkerPoolRecoversPanic(t *testing.T) {
	p, _ := newWorkerPool(1)
	err := p.Do(context.Background(), func(*worker) error {
		panic("boom")
	})
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Fatal {
		t.Fatalf("panic must become fatal, got %v", err)
	}
	m := p.Metrics()
	if m.Panics != 1 || m.Rebuild != 1 || m.Available != 1 || m.BrokenBacklog != 1 {
		t.Fatalf("metrics %+v", m)
	}
	if err := p.Do(context.Background(), func(w *worker) error {
		if w.id != 2 {
			t.Fatalf("expected rebuilt worker, got %d", w.id)
		}
		return nil
	}); err != nil {
		t.Fatalf("do: %v", err)
	}
}
