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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/xorshift"
	"github.com/zintix-labs/xorshift/presets"
	"github.com/zintix-labs/xorshift/server"
	"github.com/zintix-labs/xorshift/server/logger"
	"github.com/zintix-labs/xorshift/server/svrcfg"
)

// 取樣服務入口：內建 preset 之外，可用 -dir 掛上額外的設定目錄。
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	server.Run(cfg)
}

type config struct {
	LogMode   string
	Addr      string
	Dir       string
	PoolSize  int
	MaxCount  int
	MaxRounds int
	Timeout   time.Duration
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.StringVar(&cfg.Dir, "dir", "", "extra directory of profiles")
	flag.IntVar(&cfg.PoolSize, "pool", svrcfg.DefaultPoolSize, "number of concurrent sampling jobs")
	flag.IntVar(&cfg.MaxCount, "max-count", svrcfg.DefaultMaxCount, "max count per draw")
	flag.IntVar(&cfg.MaxRounds, "max-rounds", svrcfg.DefaultMaxRounds, "max rounds per uniformity request")
	flag.DurationVar(&cfg.Timeout, "timeout", svrcfg.DefaultTimeout, "per request sampling timeout")

	flag.Parse()

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(4096, mode)

	cfgs := xorshift.Configs(presets.FS)
	if cfg.Dir != "" {
		cfgs = append(cfgs, os.DirFS(cfg.Dir))
	}
	lab, err := xorshift.New(cfgs)
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:       log,
		Addr:      cfg.Addr,
		PoolSize:  cfg.PoolSize,
		MaxCount:  cfg.MaxCount,
		MaxRounds: cfg.MaxRounds,
		Timeout:   cfg.Timeout,
		Lab:       lab,
	}
	return sCfg, nil
}
