package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/xorshift/sdk/perf"
)

// makefile runner：均勻性模擬
func main() {
	bindVar()
	mode, err := perf.ParseMode(cfg.pprofmode)
	if err == nil {
		err = perf.Run(perf.DefaultDir, mode, executeSimulator)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
