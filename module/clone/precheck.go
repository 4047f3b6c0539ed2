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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/config"
	"github.com/oradba/pdbtoolkit/database/oracle"
	"github.com/oradba/pdbtoolkit/reconcile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Task 克隆工作流的一次执行上下文，precheck/clone/postcheck 共用
type Task struct {
	Ctx       context.Context
	Cfg       *config.Config
	SourceCDB *oracle.Oracle
	TargetCDB *oracle.Oracle
	Progress  common.Progress
}

// endpointState 单侧 CDB 采集到的比对素材
type endpointState struct {
	Instances   []oracle.Instance
	PDBSizeGB   float64
	Version     string
	VersionFull string
	Charset     string
	Registry    []oracle.RegistryComponent
	PDBMode     string
	PDBExists   bool
	TDE         string
	LocalUndo   string
	MaxString   string
	Timezone    string
	CDBParams   reconcile.ParameterMap
}

// PrecheckResult precheck 的完整产物，供报告渲染
type PrecheckResult struct {
	Results     ValidationResults
	SourceMeta  EndpointMeta
	TargetMeta  EndpointMeta
	CDBDeltas   []reconcile.ParameterDelta
	PDBDeltas   []reconcile.ParameterDelta
	PDBProvisioned bool
	DescribeXMLPath string
	GeneratedAt time.Time
}

func gatherEndpointState(engine *oracle.Oracle, pdbName string) (*endpointState, error) {
	state := &endpointState{}
	var err error

	if state.Instances, err = engine.GetInstances(); err != nil {
		return nil, err
	}
	if state.PDBSizeGB, err = engine.GetPDBSizeGB(pdbName); err != nil {
		return nil, err
	}
	if state.Version, state.VersionFull, err = engine.GetInstanceVersion(); err != nil {
		return nil, err
	}
	if state.Charset, err = engine.GetCharacterSet(); err != nil {
		return nil, err
	}
	if state.Registry, err = engine.GetRegistryComponents(); err != nil {
		return nil, err
	}
	if state.PDBMode, state.PDBExists, err = engine.GetPDBOpenMode(pdbName); err != nil {
		return nil, err
	}
	if !state.PDBExists {
		state.PDBMode = common.PDBModeNotExist
	}
	if state.TDE, err = engine.GetTDEWalletType(); err != nil {
		return nil, err
	}
	if state.LocalUndo, err = engine.GetLocalUndoEnabled(); err != nil {
		return nil, err
	}
	if state.MaxString, err = engine.GetMaxStringSize(); err != nil {
		return nil, err
	}
	if state.Timezone, err = engine.GetDBTimezone(); err != nil {
		return nil, err
	}
	if state.CDBParams, err = engine.GetParameters(true); err != nil {
		return nil, err
	}
	return state, nil
}

// connectPDB 以 PDB 服务名建立独立连接，调用方负责 Close
func connectPDB(ctx context.Context, endpoint config.EndpointConfig, pdbName string) (*oracle.Oracle, error) {
	spec, err := oracle.BuildConnectSpec(endpoint, pdbName)
	if err != nil {
		return nil, err
	}
	return oracle.NewOracleDB(ctx, spec, endpoint)
}

func registryNames(components []oracle.RegistryComponent) []string {
	names := make([]string, 0, len(components))
	for _, c := range components {
		names = append(names, c.Name)
	}
	return names
}

// IPrecheck 克隆前校验，产出校验清单与参数比对
func IPrecheck(task *Task) (*PrecheckResult, error) {
	startTime := time.Now()
	sourcePDB := task.Cfg.SourceConfig.PDBName
	targetPDB := task.Cfg.TargetConfig.PDBName
	task.Progress.Emit("Starting PDB clone precheck...")

	var (
		sourceState *endpointState
		targetState *endpointState
	)
	g := &errgroup.Group{}
	g.Go(func() error {
		var err error
		if sourceState, err = gatherEndpointState(task.SourceCDB, sourcePDB); err != nil {
			return fmt.Errorf("gather source cdb state failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if targetState, err = gatherEndpointState(task.TargetCDB, targetPDB); err != nil {
			return fmt.Errorf("gather target cdb state failed: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &PrecheckResult{
		SourceMeta: EndpointMeta{
			Host:      task.Cfg.SourceConfig.Host,
			Port:      task.Cfg.SourceConfig.Port,
			CDBName:   task.Cfg.SourceConfig.CDBName,
			PDBName:   sourcePDB,
			Instances: sourceState.Instances,
			PDBSizeGB: sourceState.PDBSizeGB,
		},
		TargetMeta: EndpointMeta{
			Host:      task.Cfg.TargetConfig.Host,
			Port:      task.Cfg.TargetConfig.Port,
			CDBName:   task.Cfg.TargetConfig.CDBName,
			PDBName:   targetPDB,
			Instances: targetState.Instances,
			PDBSizeGB: targetState.PDBSizeGB,
		},
		PDBProvisioned: targetState.PDBExists,
		GeneratedAt:    time.Now(),
	}

	results := ValidationResults{}

	task.Progress.Emit("Checking database versions...")
	results = append(results, equalityCheck("Database Version and Patch Level",
		sourceState.VersionFull, targetState.VersionFull))

	task.Progress.Emit("Checking character sets...")
	results = append(results, equalityCheck("Character Set Compatibility",
		sourceState.Charset, targetState.Charset))

	task.Progress.Emit("Checking DB registry components...")
	// 源端组件集合必须被目标端覆盖，多出的目标端组件不阻断
	registryOK, missing := common.IsSubsetString(registryNames(targetState.Registry), registryNames(sourceState.Registry))
	registryStatus := common.CheckStatusPass
	if !registryOK {
		registryStatus = common.CheckStatusFailed
		zap.L().Warn("registry components missing on target",
			zap.Strings("components", missing))
	}
	results = append(results, ValidationResult{
		Check:       "DB Registry Components",
		Status:      registryStatus,
		SourceValue: fmt.Sprintf("%d components", len(sourceState.Registry)),
		TargetValue: fmt.Sprintf("%d components", len(targetState.Registry)),
	})

	task.Progress.Emit("Checking source PDB status...")
	switch {
	case !sourceState.PDBExists:
		results = append(results, ValidationResult{
			Check:       "Source PDB Open Status",
			Status:      common.CheckStatusFailed,
			SourceValue: "PDB not found",
			TargetValue: common.ValueNotSet,
		})
	case sourceState.PDBMode == common.PDBModeMounted:
		results = append(results, ValidationResult{
			Check:       "Source PDB Open Status",
			Status:      common.CheckStatusFailed,
			SourceValue: sourceState.PDBMode,
			TargetValue: common.ValueNotSet,
		})
	default:
		results = append(results, ValidationResult{
			Check:       "Source PDB Open Status",
			Status:      common.CheckStatusPass,
			SourceValue: sourceState.PDBMode,
			TargetValue: common.ValueNotSet,
		})
	}

	task.Progress.Emit("Checking target PDB status...")
	// 目标 PDB 已存在不视为失败，仅提示；克隆语句执行时自会报错
	targetPDBValue := "PDB does not exist (ready for clone)"
	if targetState.PDBExists {
		targetPDBValue = fmt.Sprintf("PDB already exists (%s)", targetState.PDBMode)
	}
	results = append(results, ValidationResult{
		Check:       "Target PDB Does Exist",
		Status:      common.CheckStatusPass,
		SourceValue: common.ValueNotSet,
		TargetValue: targetPDBValue,
	})

	task.Progress.Emit("Checking TDE configuration...")
	results = append(results, equalityCheck("TDE Configuration Method",
		sourceState.TDE, targetState.TDE))

	task.Progress.Emit("Checking undo mode...")
	undoStatus := common.CheckStatusFailed
	if sourceState.LocalUndo == "TRUE" && targetState.LocalUndo == "TRUE" {
		undoStatus = common.CheckStatusPass
	}
	results = append(results, ValidationResult{
		Check:       "Local Undo Mode",
		Status:      undoStatus,
		SourceValue: sourceState.LocalUndo,
		TargetValue: targetState.LocalUndo,
	})

	task.Progress.Emit("Checking MAX_STRING_SIZE compatibility...")
	results = append(results, equalityCheck("MAX_STRING_SIZE Compatibility",
		sourceState.MaxString, targetState.MaxString))

	task.Progress.Emit("Checking timezone settings...")
	results = append(results, equalityCheck("Timezone Setting Compatibility",
		sourceState.Timezone, targetState.Timezone))

	task.Progress.Emit("Checking MAX_PDB_STORAGE limit...")
	results = append(results, checkMaxPDBStorage(task, sourceState, targetState))

	task.Progress.Emit("Checking plug compatibility (using CLOB method)...")
	describeResult, xmlPath := checkPlugCompatibility(task, sourcePDB)
	result.DescribeXMLPath = xmlPath
	results = append(results, describeResult)

	task.Progress.Emit("Gathering Oracle CDB parameters...")
	result.CDBDeltas, _ = reconcile.Reconcile(sourceState.CDBParams, targetState.CDBParams, true)

	task.Progress.Emit("Gathering Oracle PDB parameters...")
	result.PDBDeltas = gatherPDBParameterDeltas(task, sourcePDB, targetPDB, targetState.PDBExists)

	result.Results = results
	zap.L().Info("precheck task finished",
		zap.String("source pdb", sourcePDB),
		zap.String("target pdb", targetPDB),
		zap.Bool("all passed", results.AllPassed()),
		zap.String("cost", time.Now().Sub(startTime).String()))
	task.Progress.Emit("Precheck validation completed")
	return result, nil
}

func equalityCheck(name, sourceValue, targetValue string) ValidationResult {
	status := common.CheckStatusPass
	if sourceValue != targetValue {
		status = common.CheckStatusFailed
	}
	return ValidationResult{
		Check:       name,
		Status:      status,
		SourceValue: sourceValue,
		TargetValue: targetValue,
	}
}

// checkMaxPDBStorage 需要分别连到源/目标 PDB 读取属性，连接失败降级 SKIPPED
func checkMaxPDBStorage(task *Task, sourceState, targetState *endpointState) ValidationResult {
	skipped := func(reason string) ValidationResult {
		zap.L().Warn("max_pdb_storage check skipped", zap.String("reason", reason))
		task.Progress.Emit("WARNING: Could not check MAX_PDB_STORAGE: %s", reason)
		return ValidationResult{
			Check:       "MAX_PDB_STORAGE Limit",
			Status:      common.CheckStatusSkipped,
			SourceValue: fmt.Sprintf("%.2f GB", sourceState.PDBSizeGB),
			TargetValue: "Could not verify (connection issue)",
		}
	}

	sourceLimit, err := pdbStorageLimit(task.Ctx, task.Cfg.SourceConfig, task.Cfg.SourceConfig.PDBName)
	if err != nil {
		return skipped(err.Error())
	}

	if !targetState.PDBExists {
		return ValidationResult{
			Check:       "MAX_PDB_STORAGE Limit",
			Status:      common.CheckStatusPass,
			SourceValue: fmt.Sprintf("%.2f GB (limit: %s)", sourceState.PDBSizeGB, sourceLimit.String()),
			TargetValue: common.ValueNotProvisioned,
		}
	}

	targetLimit, err := pdbStorageLimit(task.Ctx, task.Cfg.TargetConfig, task.Cfg.TargetConfig.PDBName)
	if err != nil {
		return skipped(err.Error())
	}

	status := common.CheckStatusPass
	var targetValue string
	switch {
	case targetLimit.Unlimited:
		targetValue = fmt.Sprintf("UNLIMITED (sufficient for %.2f GB source PDB)", sourceState.PDBSizeGB)
	case reconcile.StorageSufficient(sourceState.PDBSizeGB, targetLimit):
		targetValue = fmt.Sprintf("%s (sufficient for %.2f GB source PDB)", targetLimit.String(), sourceState.PDBSizeGB)
	default:
		status = common.CheckStatusFailed
		targetValue = fmt.Sprintf("%s (insufficient for %.2f GB source PDB)", targetLimit.String(), sourceState.PDBSizeGB)
	}
	return ValidationResult{
		Check:       "MAX_PDB_STORAGE Limit",
		Status:      status,
		SourceValue: fmt.Sprintf("%.2f GB (limit: %s)", sourceState.PDBSizeGB, sourceLimit.String()),
		TargetValue: targetValue,
	}
}

func pdbStorageLimit(ctx context.Context, endpoint config.EndpointConfig, pdbName string) (reconcile.StorageQuantity, error) {
	pdbConn, err := connectPDB(ctx, endpoint, pdbName)
	if err != nil {
		return reconcile.StorageQuantity{}, err
	}
	defer pdbConn.Close()

	rawLimit, err := pdbConn.GetDatabaseProperty("MAX_PDB_STORAGE")
	if err != nil {
		return reconcile.StorageQuantity{}, err
	}
	return reconcile.ParseStorage(rawLimit), nil
}

// checkPlugCompatibility DESCRIBE 必须在源 CDB 根容器执行
// 全部调用约定失败时该检查项降级 SKIPPED，不阻断后续检查
func checkPlugCompatibility(task *Task, sourcePDB string) (ValidationResult, string) {
	payload, err := task.SourceCDB.DescribePDB(sourcePDB)
	if err != nil {
		var unavailable *oracle.DescribeUnavailableError
		if errors.As(err, &unavailable) {
			zap.L().Warn("dbms_pdb.describe unavailable",
				zap.Int("attempts", unavailable.Attempts),
				zap.Error(unavailable.LastErr))
			task.Progress.Emit("NOTICE: All %d DBMS_PDB.DESCRIBE methods failed", unavailable.Attempts)
			task.Progress.Emit("NOTICE: Skipping DBMS_PDB plug compatibility check")
			return ValidationResult{
				Check:       "DBMS_PDB Plug Compatibility",
				Status:      common.CheckStatusSkipped,
				SourceValue: common.ValueNotSet,
				TargetValue: "File-based only (requires manual check)",
			}, ""
		}
		zap.L().Warn("plug compatibility check failed", zap.Error(err))
		return ValidationResult{
			Check:       "DBMS_PDB Plug Compatibility",
			Status:      common.CheckStatusSkipped,
			SourceValue: "Check failed",
			TargetValue: fmt.Sprintf("Error: %v", err),
		}, ""
	}

	task.Progress.Emit("DBMS_PDB.DESCRIBE succeeded with strategy %d, XML length = %d", payload.Strategy, payload.Bytes)
	xmlPath := persistDescribeXML(task, payload)

	compatible, violations, err := task.TargetCDB.CheckPlugCompatibility(payload.XML)
	if err != nil {
		zap.L().Warn("check_plug_compatibility failed", zap.Error(err))
		return ValidationResult{
			Check:       "DBMS_PDB Plug Compatibility",
			Status:      common.CheckStatusSkipped,
			SourceValue: "Check failed",
			TargetValue: fmt.Sprintf("Error: %v", err),
		}, xmlPath
	}

	status := common.CheckStatusPass
	targetValue := "TRUE"
	if !compatible {
		status = common.CheckStatusFailed
		targetValue = "FALSE"
	}
	return ValidationResult{
		Check:       "DBMS_PDB Plug Compatibility",
		Status:      status,
		SourceValue: "XML generated (CLOB)",
		TargetValue: targetValue,
		Violations:  violations,
	}, xmlPath
}

// persistDescribeXML 留档描述 XML，写失败只告警
func persistDescribeXML(task *Task, payload *oracle.DescribePayload) string {
	reportDir := task.Cfg.AppConfig.ReportDir
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		zap.L().Warn("create report dir failed", zap.Error(err))
		return ""
	}
	xmlName := common.StringsBuilder(
		common.SanitizeFileName(task.Cfg.SourceConfig.CDBName),
		"_",
		common.SanitizeFileName(task.Cfg.SourceConfig.PDBName),
		"_pdb_describe_",
		time.Now().Format(common.ReportTimestampFormat),
		".xml")
	xmlPath := filepath.Join(reportDir, xmlName)
	if err := os.WriteFile(xmlPath, []byte(payload.XML), 0644); err != nil {
		zap.L().Warn("persist describe xml failed", zap.Error(err))
		return ""
	}
	task.Progress.Emit("Describe XML exported to file: %s", xmlPath)
	return xmlPath
}

// gatherPDBParameterDeltas 非默认参数对账，PDB 连接失败按空集处理
func gatherPDBParameterDeltas(task *Task, sourcePDB, targetPDB string, targetPDBExists bool) []reconcile.ParameterDelta {
	sourceParams := gatherPDBParameters(task, task.Cfg.SourceConfig, sourcePDB, true)

	targetParams := reconcile.ParameterMap{}
	if targetPDBExists {
		targetParams = gatherPDBParameters(task, task.Cfg.TargetConfig, targetPDB, true)
	} else {
		task.Progress.Emit("Target PDB does not exist - skipping target PDB parameter gathering")
	}

	deltas, _ := reconcile.Reconcile(sourceParams, targetParams, targetPDBExists)
	return deltas
}

func gatherPDBParameters(task *Task, endpoint config.EndpointConfig, pdbName string, nonDefaultOnly bool) reconcile.ParameterMap {
	pdbConn, err := connectPDB(task.Ctx, endpoint, pdbName)
	if err != nil {
		zap.L().Warn("pdb parameter gather connect failed",
			zap.String("pdb", pdbName),
			zap.Error(err))
		task.Progress.Emit("Warning: Could not gather PDB [%s] parameters: %v", pdbName, err)
		return reconcile.ParameterMap{}
	}
	defer pdbConn.Close()

	params, err := pdbConn.GetParameters(nonDefaultOnly)
	if err != nil {
		zap.L().Warn("pdb parameter gather failed",
			zap.String("pdb", pdbName),
			zap.Error(err))
		task.Progress.Emit("Warning: Could not gather PDB [%s] parameters: %v", pdbName, err)
		return reconcile.ParameterMap{}
	}
	return params
}
