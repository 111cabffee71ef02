package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/presets"
	"github.com/zintix-labs/xorshift/profile"
)

// lineFilter 決定 go test 輸出的哪些行要印、用什麼顏色；回傳 false 表示略過。
type lineFilter func(line string) bool

// runTest: go clean -testcache && go test ./... -cover -count=1 | grep -E '^(ok|FAIL)'
func runTest() error {
	PrintGreen("running tests")
	return goTest([]string{"./...", "-cover", "-count=1"}, func(line string) bool {
		return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
			strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
	})
}

// runTestAll: go clean -testcache && go test -cover ./...
func runTestAll() error {
	PrintGreen("running tests (all with coverage)")
	return goTest([]string{"./...", "-cover"}, nil)
}

// runTestDetail: go test ./... -v -count=1，略過 [no test files]
func runTestDetail() error {
	PrintGreen("running tests (detail)")
	return goTest([]string{"./...", "-v", "-count=1"}, func(line string) bool {
		return !strings.Contains(line, "[no test files]")
	})
}

// runPresets 在行程內執行所有內建 preset，確認都能解析與取樣。
func runPresets() error {
	PrintGreen("running presets")
	lab, err := xorshift.New(xorshift.Configs(presets.FS))
	if err != nil {
		return err
	}
	failed := 0
	for _, e := range lab.All() {
		res, err := lab.Run(e.Name)
		if err != nil {
			PrintRed(fmt.Sprintf("FAIL %s: %v", e.Name, err))
			failed++
			continue
		}
		var b bytes.Buffer
		if err := (&profile.TableRender{MaxRows: 3}).Write(&b, res); err != nil {
			return err
		}
		PrintGreen("ok   " + e.Name)
		PrintDefault(b.String())
	}
	if failed > 0 {
		return fmt.Errorf("%d preset(s) failed", failed)
	}
	return nil
}

// runSim 以兩種產生器各跑一次多序列模擬
func runSim() error {
	for _, gen := range []string{"xorshift", "fixed"} {
		cmd := exec.Command("go", "run", "./cmd/run", "-gen", gen, "-rounds", "1000000", "-streams", "4")
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("sim %s: %w", gen, err)
		}
	}
	return nil
}

func goTest(args []string, keep lineFilter) error {
	clean := exec.Command("go", "clean", "-testcache")
	clean.Stdout, clean.Stderr = os.Stdout, os.Stderr
	if err := clean.Run(); err != nil {
		return fmt.Errorf("go clean -testcache failed: %w", err)
	}

	cmd := exec.Command("go", append([]string{"test"}, args...)...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 2>&1：編譯錯誤通常在 stderr
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go test: %w", err)
	}

	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if keep != nil && !keep(line) {
			continue
		}
		PrintStatus(line)
	}
	if err := sc.Err(); err != nil {
		PrintRed(fmt.Sprintf("scanner error: %v", err))
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("tests finished with errors")
	}
	return nil
}
