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
	"go.uber.org/zap"
)

// IClone 在目标 CDB 上执行克隆 DDL 序列
// 任一步失败立即终止并原样返回数据库错误，不做重试
func IClone(task *Task) error {
	startTime := time.Now()
	sourcePDB := task.Cfg.SourceConfig.PDBName
	targetPDB := task.Cfg.TargetConfig.PDBName
	task.Progress.Emit("Starting PDB clone operation...")

	linkName := common.StringsBuilder(common.CloneLinkPrefix, common.StringUPPER(sourcePDB))
	task.Progress.Emit("Creating database link: %s", linkName)

	// 残留同名链路先清掉，不存在时报错忽略
	if _, err := task.TargetCDB.OracleDB.ExecContext(task.Ctx,
		fmt.Sprintf(`DROP DATABASE LINK %s`, linkName)); err != nil {
		zap.L().Debug("drop stale database link skipped",
			zap.String("link", linkName),
			zap.Error(err))
	}

	tnsDescriptor := fmt.Sprintf(
		"(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))(CONNECT_DATA=(SERVICE_NAME=%s)))",
		task.Cfg.SourceConfig.Host,
		task.Cfg.SourceConfig.Port,
		task.Cfg.SourceConfig.CDBName)

	if _, err := task.TargetCDB.OracleDB.ExecContext(task.Ctx, fmt.Sprintf(
		`CREATE PUBLIC DATABASE LINK %s CONNECT TO CURRENT_USER USING '%s'`,
		linkName, tnsDescriptor)); err != nil {
		return fmt.Errorf("create database link [%s] failed: %v", linkName, err)
	}

	task.Progress.Emit("Cloning PDB %s to %s...", sourcePDB, targetPDB)
	if _, err := task.TargetCDB.OracleDB.ExecContext(task.Ctx, fmt.Sprintf(
		`CREATE PLUGGABLE DATABASE %s FROM %s@%s FILE_NAME_CONVERT = ('/%s/', '/%s/')`,
		targetPDB, sourcePDB, linkName, sourcePDB, targetPDB)); err != nil {
		return fmt.Errorf("create pluggable database [%s] failed: %v", targetPDB, err)
	}

	task.Progress.Emit("Opening PDB %s...", targetPDB)
	if _, err := task.TargetCDB.OracleDB.ExecContext(task.Ctx, fmt.Sprintf(
		`ALTER PLUGGABLE DATABASE %s OPEN READ WRITE`, targetPDB)); err != nil {
		return fmt.Errorf("open pluggable database [%s] failed: %v", targetPDB, err)
	}

	task.Progress.Emit("Saving PDB state...")
	if _, err := task.TargetCDB.OracleDB.ExecContext(task.Ctx, fmt.Sprintf(
		`ALTER PLUGGABLE DATABASE %s SAVE STATE`, targetPDB)); err != nil {
		return fmt.Errorf("save pluggable database [%s] state failed: %v", targetPDB, err)
	}

	if _, err := task.TargetCDB.OracleDB.ExecContext(task.Ctx,
		fmt.Sprintf(`DROP DATABASE LINK %s`, linkName)); err != nil {
		return fmt.Errorf("drop database link [%s] failed: %v", linkName, err)
	}

	zap.L().Info("clone task finished",
		zap.String("source pdb", sourcePDB),
		zap.String("target pdb", targetPDB),
		zap.String("cost", time.Now().Sub(startTime).String()))
	task.Progress.Emit("PDB clone completed successfully!")
	task.Progress.Emit("New PDB '%s' is now open and running.", targetPDB)
	return nil
}
