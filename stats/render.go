package stats

import (
	"encoding/json"
	"io"

	"github.com/zintix-labs/xorshift/corefmt"
)

// UniformReportRender 定義輸出行為
type UniformReportRender interface {
	Write(w io.Writer, r *UniformReport) error
}

// Json渲染
type JsonUniformReportRender struct{}

func (jr *JsonUniformReportRender) Write(w io.Writer, r *UniformReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLUniformReportRender struct{}

func (yr *YAMLUniformReportRender) Write(w io.Writer, r *UniformReport) error {
	// 不管欄位，只要是陣列（YAML Sequence），就維持外層預設展開；
	// 只有「最內層的一維陣列」或「本身就是一維陣列」時才輸出成 flow style：[..., ...]
	return corefmt.ForceReadableList(w, r)
}

type EstimatorRender interface {
	Write(w io.Writer, e *EstimatorStreams) error
}

// Json渲染
type JsonEstimatorRender struct{}

func (jr *JsonEstimatorRender) Write(w io.Writer, e *EstimatorStreams) error {
	return json.NewEncoder(w).Encode(e)
}

// YAML渲染
type YAMLEstimatorRender struct{}

func (yr *YAMLEstimatorRender) Write(w io.Writer, e *EstimatorStreams) error {
	// 不管欄位，只要是陣列（YAML Sequence），就維持外層預設展開；
	// 只有「最內層的一維陣列」或「本身就是一維陣列」時才輸出成 flow style：[..., ...]
	return corefmt.ForceReadableList(w, e)
}
