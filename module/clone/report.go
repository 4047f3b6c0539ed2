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
package clone

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/reconcile"
)

//go:embed template
var fs embed.FS

type precheckReportData struct {
	*PrecheckResult
	OverallStatus string
	OverallClass  string
}

type postcheckReportData struct {
	*PostcheckResult
	OverallStatus string
	OverallClass  string
	DiffCount     int
}

func overallOf(results ValidationResults) (string, string) {
	if results.AllPassed() {
		return "PASS", "pass"
	}
	return "FAIL", "fail"
}

func reportFileName(srcCDB, srcPDB, tgtCDB, tgtPDB, kind string, generatedAt time.Time) string {
	return common.StringsBuilder(
		common.SanitizeFileName(srcCDB), "_",
		common.SanitizeFileName(srcPDB), "_",
		common.SanitizeFileName(tgtCDB), "_",
		common.SanitizeFileName(tgtPDB), "_",
		kind, "_",
		generatedAt.Format(common.ReportTimestampFormat),
		".html")
}

func renderReport(reportDir, reportName string, sections []string, data interface{}) (string, error) {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return "", fmt.Errorf("create report dir [%s] failed: %v", reportDir, err)
	}
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
	for _, section := range sections {
		if err = tf.ExecuteTemplate(file, section, data); err != nil {
			return "", fmt.Errorf("template FS Execute [%s] template HTML failed: %v", section, err)
		}
	}
	return filepath.Abs(reportPath)
}

// GenNewPrecheckReport 渲染 precheck HTML 报告，返回绝对路径
func GenNewPrecheckReport(task *Task, result *PrecheckResult) (string, error) {
	status, class := overallOf(result.Results)
	data := &precheckReportData{
		PrecheckResult: result,
		OverallStatus:  status,
		OverallClass:   class,
	}
	reportName := reportFileName(
		task.Cfg.SourceConfig.CDBName, task.Cfg.SourceConfig.PDBName,
		task.Cfg.TargetConfig.CDBName, task.Cfg.TargetConfig.PDBName,
		"pdb_validation_report", result.GeneratedAt)

	return renderReport(task.Cfg.AppConfig.ReportDir, reportName, []string{
		"precheck_header",
		"report_meta",
		"report_checks",
		"precheck_cdb_params",
		"precheck_pdb_params",
		"report_footer",
	}, data)
}

// GenNewPostcheckReport 渲染 postcheck HTML 报告，返回绝对路径
func GenNewPostcheckReport(task *Task, result *PostcheckResult) (string, error) {
	status, class := overallOf(result.Results)
	data := &postcheckReportData{
		PostcheckResult: result,
		OverallStatus:   status,
		OverallClass:    class,
		DiffCount:       len(reconcile.OnlyDifferences(result.ParamDiffs)),
	}
	reportName := reportFileName(
		task.Cfg.SourceConfig.CDBName, task.Cfg.SourceConfig.PDBName,
		task.Cfg.TargetConfig.CDBName, task.Cfg.TargetConfig.PDBName,
		"pdb_postcheck_report", result.GeneratedAt)

	return renderReport(task.Cfg.AppConfig.ReportDir, reportName, []string{
		"postcheck_header",
		"report_meta",
		"report_checks",
		"postcheck_params",
		"report_footer",
	}, data)
}
