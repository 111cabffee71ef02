package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zintix-labs/xorshift/corefmt"
)

// Render 定義 Result 的輸出行為
type Render interface {
	Write(w io.Writer, r *Result) error
}

// RenderFor 依格式名稱回傳對應的 Render；未知格式回傳 nil。
func RenderFor(format string) Render {
	switch strings.ToLower(format) {
	case "json":
		return &JsonRender{}
	case "yaml", "yml":
		return &YAMLRender{}
	case "table", "":
		return &TableRender{}
	default:
		return nil
	}
}

// Json渲染
type JsonRender struct{}

func (jr *JsonRender) Write(w io.Writer, r *Result) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, r *Result) error {
	// 只有最內層的一維陣列輸出成 flow style：[..., ...]
	return corefmt.ForceReadableList(w, r)
}

// TableRender 每個 Draw 一張表，過長的 values 只顯示前 MaxRows 筆。
type TableRender struct {
	MaxRows int
}

func (tr *TableRender) Write(w io.Writer, r *Result) error {
	maxRows := tr.MaxRows
	if maxRows <= 0 {
		maxRows = 10
	}
	p := corefmt.Printer()

	head := []string{"Generator", "Seed"}
	msg := map[string]string{
		"Generator": string(r.Generator),
		"Seed":      p.Sprintf("%d", r.Seed),
	}
	if r.State != "" {
		head = append(head, "State")
		msg["State"] = r.State
	}
	if _, err := io.WriteString(w, corefmt.Table(r.Name, head, msg)); err != nil {
		return err
	}

	for i := range r.Draws {
		d := &r.Draws[i]
		rows := d.Count
		if d.Kind == KindValues {
			rows = len(d.Values)
		}
		keys := make([]string, 0, min(rows, maxRows)+1)
		vals := make(map[string]string, cap(keys))
		for j := 0; j < rows && j < maxRows; j++ {
			k := "#" + strconv.Itoa(j)
			keys = append(keys, k)
			vals[k] = formatRow(d.Row(j))
		}
		if rows > maxRows {
			keys = append(keys, "...")
			vals["..."] = p.Sprintf("%d more", rows-maxRows)
		}
		title := fmt.Sprintf("[%d] %s x%d", i, d.Kind, d.Count)
		if _, err := io.WriteString(w, corefmt.Table(title, keys, vals)); err != nil {
			return err
		}
	}
	return nil
}

func formatRow(v []float64) string {
	if len(v) == 1 {
		return strconv.FormatFloat(v[0], 'g', -1, 32)
	}
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 32)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
