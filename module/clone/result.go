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
	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/database/oracle"
)

// ValidationResult 单个校验项结果
type ValidationResult struct {
	Check       string
	Status      string
	SourceValue string
	TargetValue string
	Violations  []oracle.PlugViolation
}

type ValidationResults []ValidationResult

// AllPassed SKIPPED 不阻断整体判定，仅 FAILED 计入
func (v ValidationResults) AllPassed() bool {
	for _, r := range v {
		if r.Status == common.CheckStatusFailed {
			return false
		}
	}
	return true
}

func (v ValidationResults) CountByStatus(status string) int {
	count := 0
	for _, r := range v {
		if r.Status == status {
			count++
		}
	}
	return count
}

// EndpointMeta 报告连接元数据区展示的端点信息
type EndpointMeta struct {
	Host      string
	Port      int
	CDBName   string
	PDBName   string
	Instances []oracle.Instance
	PDBSizeGB float64
}
