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
package common

// 程序版本
const AppVersion = "v2.0.0"

// 任务运行模式
const (
	TaskModeHealthCheck = "HEALTHCHECK"
	TaskModePrecheck    = "PRECHECK"
	TaskModeClone       = "CLONE"
	TaskModePostcheck   = "POSTCHECK"
	TaskModeTestConn    = "TESTCONN"
)

// 任务域（业务错误归属）
const (
	TaskTypeConfig      = "CONFIG"
	TaskTypeDatabase    = "DATABASE"
	TaskTypeHealthCheck = "HEALTHCHECK"
	TaskTypePrecheck    = "PRECHECK"
	TaskTypeClone       = "CLONE"
	TaskTypePostcheck   = "POSTCHECK"
)

// 校验结果状态
// SKIPPED 仅用于所需数据无法获取的场景，不参与整体通过与否判定
const (
	CheckStatusPass    = "PASS"
	CheckStatusFailed  = "FAILED"
	CheckStatusSkipped = "SKIPPED"
)

// 连接认证模式
const (
	AuthModeExternal = "EXTERNAL"
	AuthModePassword = "PASSWORD"
)

// 参数对比分类
const (
	ParamClassSame    = "SAME"
	ParamClassDiff    = "DIFF"
	ParamClassPending = "PENDING"
)

// 参数值占位符
const (
	ValueNotSet         = "N/A"
	ValueNotProvisioned = "N/A (PDB not created yet)"
	PDBModeNotExist     = "Does not exist"
	PDBModeMounted      = "MOUNTED"
)

// 克隆数据库链路名前缀
const CloneLinkPrefix = "CLONE_LINK_"

// 报告文件时间戳格式
const (
	ReportTimestampFormat = "20060102_150405"
	DisplayTimeFormat     = "2006-01-02 15:04:05"
)
