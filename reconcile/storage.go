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
	"fmt"
	"strconv"
	"strings"
)

// StorageQuantity 归一化为 GB 的存储额度
// Unlimited 表示无上限，Ambiguous 表示原始串无法解析、按无上限策略处理
// （MAX_PDB_STORAGE 元数据异常不阻断克隆决策，但报告中需要单独标注）
type StorageQuantity struct {
	GB        float64
	Unlimited bool
	Ambiguous bool
}

// Unlimited 无上限额度
func UnlimitedStorage() StorageQuantity {
	return StorageQuantity{Unlimited: true}
}

// StorageGB 指定 GB 数的额度
func StorageGB(gb float64) StorageQuantity {
	return StorageQuantity{GB: gb}
}

// ParseStorage 解析 MAX_PDB_STORAGE 属性值，全函数不报错
//
//	"UNLIMITED"（忽略大小写）→ 无上限
//	数字 + G/M/T 后缀（忽略大小写）→ 按 GB 归一（M ÷1024，T ×1024）
//	纯数字 → 按字节数折算 GB
//	其余输入 → 无上限 + Ambiguous 标记
func ParseStorage(raw string) StorageQuantity {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || s == "UNLIMITED" {
		return UnlimitedStorage()
	}

	var (
		gb  float64
		err error
	)
	switch {
	case strings.Contains(s, "G"):
		gb, err = strconv.ParseFloat(strings.ReplaceAll(s, "G", ""), 64)
	case strings.Contains(s, "M"):
		gb, err = strconv.ParseFloat(strings.ReplaceAll(s, "M", ""), 64)
		gb = gb / 1024
	case strings.Contains(s, "T"):
		gb, err = strconv.ParseFloat(strings.ReplaceAll(s, "T", ""), 64)
		gb = gb * 1024
	default:
		// 无后缀按字节数处理
		gb, err = strconv.ParseFloat(s, 64)
		gb = gb / (1024 * 1024 * 1024)
	}
	if err != nil || gb < 0 {
		return StorageQuantity{Unlimited: true, Ambiguous: true}
	}
	return StorageQuantity{GB: gb}
}

// String 渲染为报告展示串，与 ParseStorage 对有限值互逆
func (q StorageQuantity) String() string {
	if q.Unlimited {
		return "UNLIMITED"
	}
	return fmt.Sprintf("%.2fG", q.GB)
}

// StorageSufficient 目标额度是否容得下源端当前用量，相等视为足够
func StorageSufficient(sourceUsedGB float64, targetLimit StorageQuantity) bool {
	if targetLimit.Unlimited {
		return true
	}
	return targetLimit.GB >= sourceUsedGB
}
