// Package catalog 以一個或多個 fs.FS 建立取樣設定（Profile）目錄，依名稱查找。
package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/profile"
)

var ErrDupName = errs.NewFatal("duplicate profile name")

// Entry 是目錄中的一筆設定。
type Entry struct {
	Name       string `json:"name"`
	ConfigName string `json:"config"`
	Generator  string `json:"generator"`
	Draws      int    `json:"draws"`
}

type Catalog struct {
	byName map[string]Entry
	names  []string // 穩定排序
	config *multiFS
}

// New 掃描所有來源、解析每個設定檔並以 Profile 名稱（小寫）建立索引。
// 任何一個檔案解析或校驗失敗都會讓 New 失敗。
func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	c := &Catalog{
		byName: map[string]Entry{},
		names:  make([]string, 0, len(multFS.index)),
		config: multFS,
	}
	for file := range multFS.index {
		p, err := c.load(file)
		if err != nil {
			return nil, err
		}
		name := normalize(p.Name)
		if name == "" {
			name = strings.TrimSuffix(file, path.Ext(file))
		}
		if _, ok := c.byName[name]; ok {
			return nil, errs.Wrap(ErrDupName, fmt.Sprintf("%s (%s)", name, file))
		}
		c.byName[name] = Entry{
			Name:       name,
			ConfigName: file,
			Generator:  string(p.Generator),
			Draws:      len(p.Draws),
		}
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c, nil
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	e, ok := c.byName[normalize(name)]
	return e, ok
}

func (c *Catalog) Names() []string {
	if len(c.names) == 0 {
		return nil
	}
	return append([]string(nil), c.names...)
}

func (c *Catalog) All() []Entry {
	m := make([]Entry, 0, len(c.names))
	for _, n := range c.names {
		m = append(m, c.byName[n])
	}
	return m
}

// Profile 依名稱重新讀取並解析設定；每次都回傳新的實例，呼叫端可自由修改。
func (c *Catalog) Profile(name string) (*profile.Profile, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.Warnf("profile %q dose not exist in catalog", name)
	}
	return c.load(e.ConfigName)
}

func (c *Catalog) load(file string) (*profile.Profile, error) {
	src, ok := c.config.GetFS(file)
	if !ok {
		return nil, errs.NewWarn("file name dose not exist in catalog")
	}
	raw, err := fs.ReadFile(src, file)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	p, err := parseByExt(file, raw)
	if err != nil {
		return nil, errs.Wrap(err, file)
	}
	return p, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseByExt(filename string, raw []byte) (*profile.Profile, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".yaml", ".yml":
		return profile.FromYAML(raw)
	case ".json":
		return profile.FromJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 16),
	}

	for i := 0; i < len(src); i++ {
		err := fs.WalkDir(src[i], ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// 設定目錄必須是平的，只允許根目錄
				if p == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("profile FS must be flat (no subdirectories): %q", p))
			}

			lower := strings.ToLower(p)
			if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
				return nil
			}
			if prev, ok := m.index[p]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate profile file %q in fs[%d] and fs[%d]", p, prev, i))
			}
			m.index[p] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}
