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
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/config"
	"github.com/oradba/pdbtoolkit/database/oracle"
	"github.com/oradba/pdbtoolkit/errors"
	"github.com/oradba/pdbtoolkit/module/clone"
	"github.com/oradba/pdbtoolkit/module/healthcheck"
	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// Run 按任务模式调度
func Run(ctx context.Context, cfg *config.Config, mode string) error {
	taskID := uuid.New().String()
	zap.L().Info("task dispatch",
		zap.String("task id", taskID),
		zap.String("task mode", mode))

	switch common.StringUPPER(mode) {
	case common.TaskModeHealthCheck:
		return wrapDomain(errors.DOMAIN_HEALTHCHECK, runHealthCheck(ctx, cfg))
	case common.TaskModePrecheck:
		return wrapDomain(errors.DOMAIN_PRECHECK, runPrecheck(ctx, cfg))
	case common.TaskModeClone:
		return wrapDomain(errors.DOMAIN_CLONE, runClone(ctx, cfg))
	case common.TaskModePostcheck:
		return wrapDomain(errors.DOMAIN_POSTCHECK, runPostcheck(ctx, cfg))
	case common.TaskModeTestConn:
		return wrapDomain(errors.DOMAIN_DB, runTestConn(ctx, cfg))
	default:
		return fmt.Errorf("unknown task mode [%s], supported modes: %s/%s/%s/%s/%s",
			mode,
			common.TaskModeHealthCheck,
			common.TaskModePrecheck,
			common.TaskModeClone,
			common.TaskModePostcheck,
			common.TaskModeTestConn)
	}
}

func wrapDomain(domain errors.MSErrorDomain, err error) error {
	if err == nil {
		return nil
	}
	return errors.NewMSError(errors.PDBTOOLKIT, domain, err)
}

// newCDBEngine 建立指向端点 CDB 根容器的连接
func newCDBEngine(ctx context.Context, endpoint config.EndpointConfig) (*oracle.Oracle, error) {
	spec, err := oracle.BuildConnectSpec(endpoint, endpoint.CDBName)
	if err != nil {
		return nil, err
	}
	return oracle.NewOracleDB(ctx, spec, endpoint)
}

// consoleProgress 工作流进度同时落终端与日志
func consoleProgress() common.Progress {
	return func(msg string) {
		fmt.Println(msg)
		zap.L().Info("task progress", zap.String("message", msg))
	}
}

// openReport 浏览器打开失败只告警，报告文件已经落盘
func openReport(cfg *config.Config, reportPath string) {
	if !cfg.AppConfig.OpenBrowser || common.IsEmptyString(reportPath) {
		return
	}
	if err := browser.OpenFile(reportPath); err != nil {
		zap.L().Warn("open report in browser failed",
			zap.String("report", reportPath),
			zap.Error(err))
	}
}

func runHealthCheck(ctx context.Context, cfg *config.Config) error {
	engine, err := newCDBEngine(ctx, cfg.SourceConfig)
	if err != nil {
		return err
	}
	defer engine.Close()

	reportPath, err := healthcheck.IHealthCheck(engine, cfg.AppConfig.ReportDir, consoleProgress())
	if err != nil {
		return err
	}
	openReport(cfg, reportPath)
	return nil
}

func newCloneTask(ctx context.Context, cfg *config.Config) (*clone.Task, func(), error) {
	sourceCDB, err := newCDBEngine(ctx, cfg.SourceConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect source cdb failed: %v", err)
	}
	targetCDB, err := newCDBEngine(ctx, cfg.TargetConfig)
	if err != nil {
		sourceCDB.Close()
		return nil, nil, fmt.Errorf("connect target cdb failed: %v", err)
	}
	task := &clone.Task{
		Ctx:       ctx,
		Cfg:       cfg,
		SourceCDB: sourceCDB,
		TargetCDB: targetCDB,
		Progress:  consoleProgress(),
	}
	closer := func() {
		sourceCDB.Close()
		targetCDB.Close()
	}
	return task, closer, nil
}

func runPrecheck(ctx context.Context, cfg *config.Config) error {
	task, closer, err := newCloneTask(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	result, err := clone.IPrecheck(task)
	if err != nil {
		return err
	}

	printValidationSummary("Precheck Validation Summary", result.Results)

	reportPath, err := clone.GenNewPrecheckReport(task, result)
	if err != nil {
		return err
	}
	task.Progress.Emit("Precheck report generated: %s", reportPath)
	openReport(cfg, reportPath)

	if !result.Results.AllPassed() {
		return fmt.Errorf("precheck finished with failed checks, review report: %s", reportPath)
	}
	return nil
}

func runClone(ctx context.Context, cfg *config.Config) error {
	task, closer, err := newCloneTask(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	return clone.IClone(task)
}

func runPostcheck(ctx context.Context, cfg *config.Config) error {
	task, closer, err := newCloneTask(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	result, err := clone.IPostcheck(task)
	if err != nil {
		return err
	}

	printValidationSummary("Postcheck Validation Summary", result.Results)

	reportPath, err := clone.GenNewPostcheckReport(task, result)
	if err != nil {
		return err
	}
	task.Progress.Emit("Postcheck report generated: %s", reportPath)
	openReport(cfg, reportPath)

	if !result.Results.AllPassed() {
		return fmt.Errorf("postcheck finished with failed checks, review report: %s", reportPath)
	}
	return nil
}
