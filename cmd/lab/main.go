// Command lab 執行取樣設定：內建 preset、設定目錄或單一設定檔。
//
//	go run ./cmd/lab -list
//	go run ./cmd/lab -preset fixed-sample -format yaml
//	go run ./cmd/lab -profile my.yaml -state-in run.state -state-out run.state
//
// -state-in / -state-out 以二進位框保存 xorshift 狀態，讓多次執行接續同一條序列。
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/corefmt"
	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/presets"
	"github.com/zintix-labs/xorshift/profile"
	"github.com/zintix-labs/xorshift/sdk/core"
)

// maxFrameBytes 狀態框上限，xorshift 快照為 16 bytes
const maxFrameBytes = 64

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	list     bool
	preset   string
	file     string
	dir      string
	format   string
	seed     int64
	stateIn  string
	stateOut string
	maxRows  int
}

func run(args []string, out io.Writer) error {
	opt := options{}
	fl := flag.NewFlagSet("lab", flag.ContinueOnError)
	fl.SetOutput(io.Discard)
	fl.BoolVar(&opt.list, "list", false, "list available profiles")
	fl.StringVar(&opt.preset, "preset", "", "profile name in the catalog")
	fl.StringVar(&opt.file, "profile", "", "profile file (.yaml/.yml/.json)")
	fl.StringVar(&opt.dir, "dir", "", "extra directory of profiles merged into the catalog")
	fl.StringVar(&opt.format, "format", "table", "output format: table|json|yaml")
	fl.Int64Var(&opt.seed, "seed", -1, "override the profile seed (uint32)")
	fl.StringVar(&opt.stateIn, "state-in", "", "resume xorshift from a state frame file")
	fl.StringVar(&opt.stateOut, "state-out", "", "write the final xorshift state frame to file")
	fl.IntVar(&opt.maxRows, "rows", 10, "rows per draw in table output")
	if err := fl.Parse(args); err != nil {
		return errs.WrapWarn(err, "parse flags")
	}

	cfgs := xorshift.Configs(presets.FS)
	if opt.dir != "" {
		cfgs = append(cfgs, os.DirFS(opt.dir))
	}
	lab, err := xorshift.New(cfgs)
	if err != nil {
		return err
	}
	if opt.list {
		return listEntries(out, lab)
	}

	render := profile.RenderFor(opt.format)
	if render == nil {
		return errs.InvalidField("format", "unknown format %q", opt.format)
	}
	if tr, ok := render.(*profile.TableRender); ok {
		tr.MaxRows = opt.maxRows
	}

	p, err := opt.load(lab)
	if err != nil {
		return err
	}
	if err := opt.apply(p); err != nil {
		return err
	}
	res, err := profile.Run(p)
	if err != nil {
		return err
	}
	if opt.stateOut != "" {
		if err := saveState(opt.stateOut, res); err != nil {
			return err
		}
	}
	return render.Write(out, res)
}

func (opt *options) load(lab *xorshift.Lab) (*profile.Profile, error) {
	switch {
	case opt.preset != "" && opt.file != "":
		return nil, errs.NewWarn("-preset and -profile are mutually exclusive")
	case opt.file != "":
		data, err := os.ReadFile(opt.file)
		if err != nil {
			return nil, errs.WrapWarn(err, "read profile")
		}
		switch strings.ToLower(filepath.Ext(opt.file)) {
		case ".json":
			return profile.FromJSON(data)
		case ".yaml", ".yml":
			return profile.FromYAML(data)
		default:
			return nil, errs.Warnf("unsupported profile extension %q", filepath.Ext(opt.file))
		}
	case opt.preset != "":
		return lab.Profile(opt.preset)
	default:
		return nil, errs.NewWarn("one of -list, -preset or -profile is required")
	}
}

// apply 套用命令列覆寫：種子與狀態框
func (opt *options) apply(p *profile.Profile) error {
	if opt.seed >= 0 {
		if opt.seed > 0xFFFFFFFF {
			return errs.InvalidField("seed", "seed must fit in uint32")
		}
		v := uint32(opt.seed)
		p.Seed, p.Label = &v, ""
	}
	if opt.stateIn == "" {
		return nil
	}
	if p.Generator != profile.GenXorshift && p.Generator != "" {
		return errs.InvalidField("state", "state frames only apply to the xorshift generator")
	}
	f, err := os.Open(opt.stateIn)
	if err != nil {
		if os.IsNotExist(err) {
			// 第一次執行還沒有狀態檔
			return nil
		}
		return errs.Wrap(err, "open state frame")
	}
	defer f.Close()
	r := core.Default()
	if err := corefmt.ReadStateFrame(f, r, maxFrameBytes); err != nil {
		return err
	}
	st, err := corefmt.EncodeState(r)
	if err != nil {
		return err
	}
	p.State = st
	return nil
}

func saveState(path string, res *profile.Result) error {
	if res.State == "" {
		return errs.InvalidField("state", "profile %q has no xorshift state to save", res.Name)
	}
	r := core.Default()
	if err := corefmt.DecodeState(r, res.State); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "create state frame")
	}
	if err := corefmt.WriteStateFrame(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listEntries(out io.Writer, lab *xorshift.Lab) error {
	keys := make([]string, 0)
	msg := map[string]string{}
	for _, e := range lab.All() {
		keys = append(keys, e.Name)
		msg[e.Name] = fmt.Sprintf("%s, %d draws (%s)", e.Generator, e.Draws, e.ConfigName)
	}
	_, err := io.WriteString(out, corefmt.Table("Profiles", keys, msg))
	return err
}
