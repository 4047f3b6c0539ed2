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
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/oradba/pdbtoolkit/common"
)

//go:embed template
var fs embed.FS

// GenNewHealthReport 渲染健康巡检 HTML 报告，返回绝对路径
func GenNewHealthReport(data *HealthData, reportDir string) (string, error) {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("create report dir [%s] failed: %v", reportDir, err)
	}

	reportName := common.StringsBuilder(
		common.SanitizeFileName(data.DBName),
		"_db_health_report_",
		data.GeneratedAt.Format(common.ReportTimestampFormat),
		".html")
	reportPath := filepath.Join(reportDir, reportName)

	file, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("create report file [%s] failed: %v", reportPath, err)
	}
	defer file.Close()

	tf, err := template.ParseFS(fs, "template/*.html")
	if err != nil {
		return "", fmt.Errorf("template parse FS failed: %v", err)
	}

	for _, section := range []string{
		"report_header",
		"report_overview",
		"report_workload",
		"report_diagnostics",
		"report_rac",
		"report_footer",
	} {
		if err = tf.ExecuteTemplate(file, section, data); err != nil {
			return "", fmt.Errorf("template FS Execute [%s] template HTML failed: %v", section, err)
		}
	}

	return filepath.Abs(reportPath)
}
