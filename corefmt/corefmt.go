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

// Package corefmt 提供產生器狀態快照的文字/二進位編碼，以及終端表格輸出。
package corefmt

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/zintix-labs/xorshift/errs"
	"github.com/zintix-labs/xorshift/sdk/core"
)

// EncodeState 將可還原的產生器狀態編碼成 hex 字串（HTTP query / log 友善）。
func EncodeState(r core.Restorable) (string, error) {
	b, err := r.Snapshot()
	if err != nil {
		return "", errs.Wrap(err, "snapshot failed")
	}
	return hex.EncodeToString(b), nil
}

// DecodeState 將 EncodeState 的輸出還原到 r。
func DecodeState(r core.Restorable, s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return errs.WrapWarn(err, "decode state hex failed")
	}
	if err := r.Restore(b); err != nil {
		return errs.Wrap(err, "restore state failed")
	}
	return nil
}

// WriteStateFrame 將狀態快照以長度前綴的二進位框寫入 w：
//
//	frame := uvarint(len(payload)) || payload
//
// 適合寫檔保存，讓下一次執行從同一位置續接序列。
func WriteStateFrame(w io.Writer, r core.Restorable) error {
	payload, err := r.Snapshot()
	if err != nil {
		return errs.Wrap(err, "snapshot failed")
	}
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(payload)))
	if _, err := w.Write(hdr[:n]); err != nil {
		return errs.Wrap(err, "write state frame header failed")
	}
	if _, err := w.Write(payload); err != nil {
		return errs.Wrap(err, "write state frame payload failed")
	}
	return nil
}

// ReadStateFrame 從 rd 讀取一個狀態框並還原到 r。
// maxBytes 為安全上限，避免讀到不可信輸入時配置過大記憶體。
func ReadStateFrame(rd io.Reader, r core.Restorable, maxBytes uint64) error {
	br := bufio.NewReader(rd)
	ln, err := binary.ReadUvarint(br)
	if err != nil {
		return errs.WrapWarn(err, "read state frame header failed")
	}
	if maxBytes > 0 && ln > maxBytes {
		return errs.NewWarn("read state frame failed: payload exceeds maxBytes")
	}
	buf := make([]byte, ln)
	if _, err := io.ReadFull(br, buf); err != nil {
		return errs.WrapWarn(err, "read state frame payload failed")
	}
	return r.Restore(buf)
}
