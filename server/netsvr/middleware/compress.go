package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig 控制兩種編碼器的壓縮等級
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.DefaultCompression,
	ZstdLevel: zstd.SpeedFastest,
}

// Compression 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應（zstd 優先）。
var Compression = NewCompression(DefaultCompressConfig)

// encoder 是 gzip.Writer 與 zstd.Encoder 的共同面
type encoder interface {
	io.Writer
	Flush() error
	Close() error
	Reset(w io.Writer)
}

type codec struct {
	name string
	pool sync.Pool
}

func (c *codec) get() encoder {
	if e, ok := c.pool.Get().(encoder); ok {
		return e
	}
	return nil
}

func newCodecs(cfg CompressConfig) []*codec {
	zs := &codec{name: "zstd"}
	zs.pool.New = func() any {
		zw, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(cfg.ZstdLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil
		}
		return zw
	}
	gz := &codec{name: "gzip"}
	gz.pool.New = func() any {
		gw, err := gzip.NewWriterLevel(nil, cfg.GzipLevel)
		if err != nil {
			return nil
		}
		return gw
	}
	return []*codec{zs, gz}
}

// NewCompression 以 cfg 建立壓縮 middleware；編碼器經由 sync.Pool 重用。
func NewCompression(cfg CompressConfig) func(http.Handler) http.Handler {
	codecs := newCodecs(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// HEAD 沒有 body；已編碼的回應不再壓一次
			if r.Method == http.MethodHead || w.Header().Get("Content-Encoding") != "" {
				next.ServeHTTP(w, r)
				return
			}
			c := pickCodec(codecs, r.Header.Get("Accept-Encoding"))
			if c == nil {
				next.ServeHTTP(w, r)
				return
			}
			enc := c.get()
			if enc == nil {
				next.ServeHTTP(w, r)
				return
			}
			enc.Reset(w)
			w.Header().Set("Content-Encoding", c.name)
			w.Header().Add("Vary", "Accept-Encoding")

			cw := &compressWriter{ResponseWriter: w, enc: enc}
			defer func() {
				// 204/304 不能帶 footer
				if cw.bypass {
					enc.Reset(io.Discard)
				}
				_ = enc.Close()
				c.pool.Put(enc)
			}()
			next.ServeHTTP(cw, r)
		})
	}
}

func pickCodec(codecs []*codec, header string) *codec {
	for _, c := range codecs {
		if acceptsEncoding(header, c.name) {
			return c
		}
	}
	return nil
}

// acceptsEncoding 解析 Accept-Encoding，q=0 視為明確拒絕。
func acceptsEncoding(header, enc string) bool {
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(name), enc) {
			continue
		}
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		return q != "q=0" && q != "q=0.0" && q != "q=0.00" && q != "q=0.000"
	}
	return false
}

func noBody(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

type compressWriter struct {
	http.ResponseWriter
	enc    encoder
	bypass bool
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	if noBody(code) {
		cw.bypass = true
		cw.Header().Del("Content-Encoding")
		cw.Header().Del("Vary")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.bypass {
		return cw.ResponseWriter.Write(b)
	}
	h := cw.Header()
	h.Del("Content-Length")
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) Flush() {
	if !cw.bypass {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap 讓 http.ResponseController 找到底層 writer
func (cw *compressWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
