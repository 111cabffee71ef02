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

package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

const defaultAsyncBuf = 1024

// AsyncHandler 把 Handle 變成 enqueue，由背景 goroutine 逐筆交給 next。
// 佇列滿或已關閉時直接丟棄並計數，請求路徑不會被寫出拖慢。
//
// WithAttrs/WithGroup 衍生的 handler 共用同一條佇列。
type AsyncHandler struct {
	next slog.Handler
	q    *asyncQueue
}

type asyncQueue struct {
	ch      chan asyncRecord
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type asyncRecord struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler 以 buf 為佇列長度包裝 next；buf <= 0 時用預設值。
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = Handler(ModeDev, nil)
	}
	if buf <= 0 {
		buf = defaultAsyncBuf
	}
	q := &asyncQueue{
		ch:   make(chan asyncRecord, buf),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.loop()
	return &AsyncHandler{next: next, q: q}
}

// NewAsync 以 mode 的預設 handler 建立非阻塞 logger，並回傳 handler 供關閉時 drain。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(Handler(mode, nil), buf)
	return slog.New(ah), ah
}

func (q *asyncQueue) loop() {
	defer q.wg.Done()
	for {
		select {
		case it := <-q.ch:
			_ = it.h.Handle(it.ctx, it.rec)
		case <-q.done:
			// 關閉後把剩下的寫完
			for {
				select {
				case it := <-q.ch:
					_ = it.h.Handle(it.ctx, it.rec)
				default:
					return
				}
			}
		}
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.Closed() {
		h.q.dropped.Add(1)
		return nil
	}
	select {
	case h.q.ch <- asyncRecord{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}

// Dropped 回傳因佇列滿或已關閉而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	return h.q.dropped.Load()
}

// Done 在 Close 之後被關閉
func (h *AsyncHandler) Done() <-chan struct{} {
	return h.q.done
}

func (h *AsyncHandler) Closed() bool {
	select {
	case <-h.q.done:
		return true
	default:
		return false
	}
}

// Close 停止接收並等待佇列寫完；可重複呼叫。
func (h *AsyncHandler) Close() {
	h.q.once.Do(func() { close(h.q.done) })
	h.q.wg.Wait()
}
