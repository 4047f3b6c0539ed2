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
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/config"
	"github.com/oradba/pdbtoolkit/database/oracle"
	"go.uber.org/zap"
)

// runTestConn 对源/目标端点做连通性验证并输出摘要表
func runTestConn(ctx context.Context, cfg *config.Config) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ENDPOINT", "CONNECT TARGET", "RESULT", "BANNER", "CONTAINER"})

	sourceErr := testEndpoint(ctx, t, "SOURCE", cfg.SourceConfig)
	targetErr := testEndpoint(ctx, t, "TARGET", cfg.TargetConfig)
	t.Render()

	if sourceErr != nil {
		return fmt.Errorf("source endpoint connection test failed: %v", sourceErr)
	}
	if targetErr != nil {
		return fmt.Errorf("target endpoint connection test failed: %v", targetErr)
	}
	return nil
}

func testEndpoint(ctx context.Context, t table.Writer, name string, endpoint config.EndpointConfig) error {
	spec, err := oracle.BuildConnectSpec(endpoint, endpoint.CDBName)
	if err != nil {
		t.AppendRow(table.Row{name, endpoint.CDBName, "FAILED", err.Error(), common.ValueNotSet})
		return err
	}

	engine, err := oracle.NewOracleDB(ctx, spec, endpoint)
	if err != nil {
		t.AppendRow(table.Row{name, spec.ConnectString(), "FAILED", err.Error(), common.ValueNotSet})
		return err
	}
	defer engine.Close()

	if _, err = engine.PingSelect(); err != nil {
		t.AppendRow(table.Row{name, spec.ConnectString(), "FAILED", err.Error(), common.ValueNotSet})
		return err
	}

	banner, err := engine.GetVersionBanner()
	if err != nil {
		banner = common.ValueNotSet
		zap.L().Warn("banner query failed", zap.String("endpoint", name), zap.Error(err))
	}
	container, err := engine.GetCurrentContainer()
	if err != nil {
		container = common.ValueNotSet
		zap.L().Warn("container query failed", zap.String("endpoint", name), zap.Error(err))
	}

	t.AppendRow(table.Row{name, spec.ConnectString(), "SUCCESS", banner, container})
	zap.L().Info("connection test succeeded",
		zap.String("endpoint", name),
		zap.String("connect", spec.ConnectString()),
		zap.String("container", container))
	return nil
}
