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
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/module/clone"
)

// printValidationSummary 终端输出校验结果摘要表
func printValidationSummary(title string, results clone.ValidationResults) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"CHECK", "STATUS", "SOURCE VALUE", "TARGET VALUE"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Check, r.Status, r.SourceValue, r.TargetValue})
	}
	t.AppendFooter(table.Row{"TOTAL", fmt.Sprintf("%d PASS / %d FAILED / %d SKIPPED",
		results.CountByStatus(common.CheckStatusPass),
		results.CountByStatus(common.CheckStatusFailed),
		results.CountByStatus(common.CheckStatusSkipped)), "", ""})
	t.Render()
}
