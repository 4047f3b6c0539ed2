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
package healthcheck

import (
	"time"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/database/oracle"
	"go.uber.org/zap"
)

// IHealthCheck 执行健康巡检并生成 HTML 报告，返回报告绝对路径
func IHealthCheck(engine *oracle.Oracle, reportDir string, progress common.Progress) (string, error) {
	startTime := time.Now()
	zap.L().Info("health check task start")

	data, err := GatherHealthData(engine, progress)
	if err != nil {
		return "", err
	}

	reportPath, err := GenNewHealthReport(data, reportDir)
	if err != nil {
		return "", err
	}

	zap.L().Info("health check task finished",
		zap.String("db name", data.DBName),
		zap.String("report", reportPath),
		zap.String("cost", time.Now().Sub(startTime).String()))
	progress.Emit("Health check report generated: %s", reportPath)
	return reportPath, nil
}
