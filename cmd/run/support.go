package main

import (
	"crypto/rand"
	"encoding/binary"
	"flag"
	"log"
	"os"
	"time"

	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/presets"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	gen       string
	seed      int64
	rounds    int
	streams   int
	bins      int
	format    string
	pprofmode string
}

func bindVar() {
	flag.StringVar(&cfg.gen, "gen", "xorshift", "generator: xorshift|fixed")
	flag.Int64Var(&cfg.seed, "seed", -1, "uint32 seed; < 0 picks a random one")
	flag.IntVar(&cfg.rounds, "rounds", 10_000_000, "draws per stream")
	flag.IntVar(&cfg.streams, "streams", 1, "number of parallel streams")
	flag.IntVar(&cfg.bins, "bins", stats.DefaultBins, "histogram bins")
	flag.StringVar(&cfg.format, "format", "table", "report format: table|json|yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()

	// 未指定種子 -> 隨機種子
	if cfg.seed < 0 {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			log.Fatal(err)
		}
		cfg.seed = int64(binary.LittleEndian.Uint32(b[:]))
	}
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() error {
	if err := cfg.valid(); err != nil {
		return err
	}
	lab, err := xorshift.New(xorshift.Configs(presets.FS))
	if err != nil {
		return err
	}
	s, err := lab.NewSimulatorWithBins(profile.Generator(cfg.gen), uint32(cfg.seed), cfg.bins)
	if err != nil {
		return err
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.streams == 1 { // 單線程
		if cfg.format == "table" {
			p.Printf("%s[GEN:%s] [SEED:%d] [ROUNDS:%d]%s\n", green, cfg.gen, cfg.seed, cfg.rounds, reset)
		}
		st, used, err := s.Sim(cfg.rounds, cfg.format == "table")
		if err != nil {
			return err
		}
		return report(st, nil, used)
	}

	if cfg.format == "table" {
		p.Printf("%s[STREAMS:%d] [GEN:%s] [SEED:%d] [ROUNDS:%d]%s\n", green, cfg.streams, cfg.gen, cfg.seed, cfg.streams*cfg.rounds, reset)
	}
	st, est, used, err := s.SimMP(cfg.rounds, cfg.streams, cfg.format == "table") // 併發
	if err != nil {
		return err
	}
	return report(st, est, used)
}

func report(st *stats.UniformReport, est *stats.EstimatorStreams, used time.Duration) error {
	switch cfg.format {
	case "json":
		if err := st.WriteWith(os.Stdout, &stats.JsonUniformReportRender{}); err != nil {
			return err
		}
		if est != nil {
			return (&stats.JsonEstimatorRender{}).Write(os.Stdout, est)
		}
	case "yaml":
		if err := st.WriteWith(os.Stdout, &stats.YAMLUniformReportRender{}); err != nil {
			return err
		}
		if est != nil {
			return (&stats.YAMLEstimatorRender{}).Write(os.Stdout, est)
		}
	default:
		st.StdOut(used)
		if est != nil {
			est.Out()
		}
	}
	return nil
}

func (cfg *config) valid() error {
	if cfg.seed > 0xFFFFFFFF {
		return errs.InvalidField("seed", "seed must fit in uint32")
	}
	if cfg.streams < 1 || cfg.streams > xorshift.MaxStreams {
		return errs.InvalidField("streams", "streams must be in [1, %d]", xorshift.MaxStreams)
	}
	switch cfg.format {
	case "table", "json", "yaml":
	default:
		return errs.InvalidField("format", "unknown format %q", cfg.format)
	}
	return nil
}
