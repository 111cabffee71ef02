package corefmt

import (
	"io"

	"gopkg.in/yaml.v3"
)

// ForceReadableList 以 YAML 輸出 t，最內層的一維 sequence 改為 flow style。
func ForceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 自頂向下調整所有 sequence node 的 style：
	// - 內部沒有子 sequence 的就是最內層 => flow style: [...]
	// - 有子 sequence 的是外層維度 => 保持 block
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		hasChild := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChild = true
			}
			styleReadableSequences(c)
		}
		if !hasChild {
			n.Style = yaml.FlowStyle
		}
	}
}
