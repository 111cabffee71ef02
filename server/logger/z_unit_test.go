package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/zintix-labs/xorshift/errs"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{
		"":            ModeDev,
		"dev":         ModeDev,
		"ModeProd":    ModeProd,
		"prod":        ModeProd,
		" SILENCE ":   ModeSilence,
		"modesilence": ModeSilence,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("verbose"); !errs.IsWarn(err) {
		t.Fatalf("unknown mode must be warn, got %v", err)
	}
	if ModeProd.String() != "prod" {
		t.Fatalf("string %q", ModeProd.String())
	}
}

func TestProdHandlerWritesJSON(t *testing.T) {
	var b bytes.Buffer
	log := slog.New(Handler(ModeProd, &b))
	log.Debug("hidden")
	log.Info("draw", slog.Int("count", 3))
	out := b.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug must be filtered in prod:\n%s", out)
	}
	if !strings.Contains(out, `"msg":"draw"`) || !strings.Contains(out, `"count":3`) {
		t.Fatalf("json line:\n%s", out)
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var b bytes.Buffer
	ah := NewAsyncHandler(Handler(ModeDev, &b), 64)
	log := slog.New(ah).With(slog.String("gen", "xorshift"))
	for i := 0; i < 10; i++ {
		log.Info("tick", slog.Int("i", i))
	}
	ah.Close()
	ah.Close()

	out := b.String()
	if n := strings.Count(out, "msg=tick"); n != 10 {
		t.Fatalf("want 10 lines, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "gen=xorshift") {
		t.Fatalf("attrs lost:\n%s", out)
	}
	if !ah.Closed() {
		t.Fatalf("handler must report closed")
	}
	select {
	case <-ah.Done():
	default:
		t.Fatalf("done must be closed")
	}

	log.Info("late")
	if ah.Dropped() != 1 || strings.Contains(b.String(), "late") {
		t.Fatalf("record after close must be dropped, dropped=%d", ah.Dropped())
	}
}
