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
package reconcile

import (
	"sort"

	"github.com/oradba/pdbtoolkit/common"
)

// Parameter 单个数据库参数值，IsDefault 标记取值是否为默认值
type Parameter struct {
	Value     string
	IsDefault bool
}

// ParameterMap 单个数据库端点采集的参数集，键唯一且大小写敏感
type ParameterMap map[string]Parameter

// ParameterDelta 参数对比结果的一行
// Class 是 (source, target, provisioned) 的纯函数，见 Reconcile
type ParameterDelta struct {
	Name        string
	SourceValue string
	TargetValue string
	Class       string
}

// Reconcile 对比 source/target 两组参数，按参数名升序输出键并集的逐项对比
//
// targetProvisioned = false 表示目标端尚未建立，所有行统一标记 PENDING，
// 此时返回的 allMatch 无业务含义，调用方应忽略。
// targetProvisioned = true 时值完全相等（含双方均缺失）标记 SAME，否则 DIFF，
// allMatch 当且仅当所有行均为 SAME（并集为空时恒为 true）。
//
// 纯函数，输入任意字符串映射均不报错，两次相同输入输出逐字节一致。
func Reconcile(source, target ParameterMap, targetProvisioned bool) ([]ParameterDelta, bool) {
	keys := make(map[string]struct{}, len(source)+len(target))
	for k := range source {
		keys[k] = struct{}{}
	}
	for k := range target {
		keys[k] = struct{}{}
	}

	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)

	deltas := make([]ParameterDelta, 0, len(names))
	allMatch := true
	for _, name := range names {
		sourceVal := common.ValueNotSet
		if p, ok := source[name]; ok {
			sourceVal = p.Value
		}
		targetVal := common.ValueNotSet
		if p, ok := target[name]; ok {
			targetVal = p.Value
		}

		var class string
		switch {
		case !targetProvisioned:
			class = common.ParamClassPending
		case sourceVal == targetVal:
			class = common.ParamClassSame
		default:
			class = common.ParamClassDiff
		}
		if class != common.ParamClassSame {
			allMatch = false
		}

		deltas = append(deltas, ParameterDelta{
			Name:        name,
			SourceValue: sourceVal,
			TargetValue: targetVal,
			Class:       class,
		})
	}
	return deltas, allMatch
}

// OnlyDifferences 过滤出非 SAME 的行，用于报告展示
func OnlyDifferences(deltas []ParameterDelta) []ParameterDelta {
	var diffs []ParameterDelta
	for _, d := range deltas {
		if d.Class != common.ParamClassSame {
			diffs = append(diffs, d)
		}
	}
	return diffs
}
