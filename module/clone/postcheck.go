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
	"fmt"
	"time"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/database/oracle"
	"github.com/oradba/pdbtoolkit/reconcile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PostcheckResult postcheck 的完整产物，供报告渲染
type PostcheckResult struct {
	Results     ValidationResults
	SourceMeta  EndpointMeta
	TargetMeta  EndpointMeta
	ParamDiffs  []reconcile.ParameterDelta
	GeneratedAt time.Time
}

// IPostcheck 克隆后核验：全量参数对账与服务清单比对
func IPostcheck(task *Task) (*PostcheckResult, error) {
	startTime := time.Now()
	sourcePDB := task.Cfg.SourceConfig.PDBName
	targetPDB := task.Cfg.TargetConfig.PDBName
	task.Progress.Emit("Starting PDB clone postcheck...")

	var (
		sourceInstances, targetInstances []oracle.Instance
		sourceSizeGB, targetSizeGB       float64
		sourceServices, targetServices   []string
	)
	g := &errgroup.Group{}
	g.Go(func() error {
		var err error
		if sourceInstances, err = task.SourceCDB.GetInstances(); err != nil {
			return fmt.Errorf("gather source instances failed: %v", err)
		}
		if sourceSizeGB, err = task.SourceCDB.GetPDBSizeGB(sourcePDB); err != nil {
			return fmt.Errorf("gather source pdb size failed: %v", err)
		}
		if sourceServices, err = task.SourceCDB.GetPDBServices(sourcePDB); err != nil {
			return fmt.Errorf("gather source pdb services failed: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if targetInstances, err = task.TargetCDB.GetInstances(); err != nil {
			return fmt.Errorf("gather target instances failed: %v", err)
		}
		if targetSizeGB, err = task.TargetCDB.GetPDBSizeGB(targetPDB); err != nil {
			return fmt.Errorf("gather target pdb size failed: %v", err)
		}
		if targetServices, err = task.TargetCDB.GetPDBServices(targetPDB); err != nil {
			return fmt.Errorf("gather target pdb services failed: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 克隆完成后的核验比对全量参数，连接失败是硬错误
	task.Progress.Emit("Gathering Oracle parameters for source PDB...")
	sourcePDBConn, err := connectPDB(task.Ctx, task.Cfg.SourceConfig, sourcePDB)
	if err != nil {
		return nil, fmt.Errorf("connect source pdb [%s] failed: %v", sourcePDB, err)
	}
	defer sourcePDBConn.Close()
	sourceParams, err := sourcePDBConn.GetParameters(false)
	if err != nil {
		return nil, fmt.Errorf("gather source pdb parameters failed: %v", err)
	}

	task.Progress.Emit("Gathering Oracle parameters for target PDB...")
	targetPDBConn, err := connectPDB(task.Ctx, task.Cfg.TargetConfig, targetPDB)
	if err != nil {
		return nil, fmt.Errorf("connect target pdb [%s] failed: %v", targetPDB, err)
	}
	defer targetPDBConn.Close()
	targetParams, err := targetPDBConn.GetParameters(false)
	if err != nil {
		return nil, fmt.Errorf("gather target pdb parameters failed: %v", err)
	}

	task.Progress.Emit("Comparing parameters...")
	deltas, allMatch := reconcile.Reconcile(sourceParams, targetParams, true)
	paramDiffs := reconcile.OnlyDifferences(deltas)

	results := ValidationResults{}
	paramStatus := common.CheckStatusPass
	if !allMatch {
		paramStatus = common.CheckStatusFailed
	}
	results = append(results, ValidationResult{
		Check:       "Oracle DB Parameters Match",
		Status:      paramStatus,
		SourceValue: fmt.Sprintf("%d parameters", len(sourceParams)),
		TargetValue: fmt.Sprintf("%d parameters (%d differences)", len(targetParams), len(paramDiffs)),
	})

	// 服务名随 PDB 名变化，按数量比对
	task.Progress.Emit("Checking DB services...")
	serviceStatus := common.CheckStatusPass
	if len(sourceServices) != len(targetServices) {
		serviceStatus = common.CheckStatusFailed
	}
	results = append(results, ValidationResult{
		Check:       "DB Service Names Match",
		Status:      serviceStatus,
		SourceValue: fmt.Sprintf("%d services", len(sourceServices)),
		TargetValue: fmt.Sprintf("%d services", len(targetServices)),
	})

	result := &PostcheckResult{
		Results: results,
		SourceMeta: EndpointMeta{
			Host:      task.Cfg.SourceConfig.Host,
			Port:      task.Cfg.SourceConfig.Port,
			CDBName:   task.Cfg.SourceConfig.CDBName,
			PDBName:   sourcePDB,
			Instances: sourceInstances,
			PDBSizeGB: sourceSizeGB,
		},
		TargetMeta: EndpointMeta{
			Host:      task.Cfg.TargetConfig.Host,
			Port:      task.Cfg.TargetConfig.Port,
			CDBName:   task.Cfg.TargetConfig.CDBName,
			PDBName:   targetPDB,
			Instances: targetInstances,
			PDBSizeGB: targetSizeGB,
		},
		ParamDiffs:  paramDiffs,
		GeneratedAt: time.Now(),
	}

	zap.L().Info("postcheck task finished",
		zap.String("source pdb", sourcePDB),
		zap.String("target pdb", targetPDB),
		zap.Int("param differences", len(paramDiffs)),
		zap.String("cost", time.Now().Sub(startTime).String()))
	task.Progress.Emit("Postcheck validation completed")
	return result, nil
}
