/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/config"
	"github.com/oradba/pdbtoolkit/logger"
	"github.com/oradba/pdbtoolkit/server"
	"github.com/oradba/pdbtoolkit/signal"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	conf    = flag.String("config", "config.toml", "specify the configuration file, default is config.toml")
	mode    = flag.String("mode", "", "specify the program running mode: [healthcheck precheck clone postcheck testconn]")
	version = flag.Bool("version", false, "view pdbtoolkit version info")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("pdbtoolkit version: %s\n", common.AppVersion)
		os.Exit(0)
	}

	// 读取配置文件
	cfg, err := config.ReadConfigFile(*conf)
	if err != nil {
		log.Fatalf("read config file [%s] failed: %v", *conf, err)
	}

	// 初始化日志 logger
	logger.NewZapLogger(cfg)
	logger.RecordAppVersion("pdbtoolkit", common.AppVersion, cfg)

	go func() {
		if err = http.ListenAndServe(cfg.AppConfig.PprofPort, nil); err != nil {
			zap.L().Fatal("listen and serve pprof failed", zap.Error(errors.Cause(err)))
		}
		os.Exit(0)
	}()

	// 信号量监听处理
	signal.SetupSignalHandler(func() {
		os.Exit(1)
	})

	// 程序运行
	if err = server.Run(context.Background(), cfg, *mode); err != nil {
		zap.L().Fatal("server run failed", zap.Error(errors.Cause(err)))
	}
}
