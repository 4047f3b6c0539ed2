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
	"time"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/database/oracle"
	"github.com/oradba/pdbtoolkit/reconcile"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HealthData 一次健康巡检采集到的全部指标
type HealthData struct {
	DBName   string
	OpenMode string
	Role     string
	Version  string

	Instances []oracle.Instance
	DBSizeGB  float64

	MaxPDBStorage string
	StoragePct    string

	Sessions        []map[string]string
	Tablespaces     []map[string]string
	PDBs            []map[string]string
	WaitEvents      []map[string]string
	AAS             float64
	ServiceSessions []map[string]string
	TopSQLCPU       []map[string]string
	TopSQLDisk      []map[string]string
	InvalidObjects  []map[string]string
	AlertLogErrors  []map[string]string
	LongQueries     []map[string]string
	TempUsage       []map[string]string

	IsRAC                bool
	InstanceLoad         []map[string]string
	RACGCWaits           []map[string]string
	RACGCWaitsByInstance []map[string]string
	RACInterconnect      []map[string]string
	RACGESBlocking       []map[string]string
	RACCPUUtil           []map[string]string
	RACGESContention     []map[string]string

	GeneratedAt time.Time
}

// gatherRows 单指标失败降级为空结果，不中断整体巡检
func gatherRows(metric string, progress common.Progress, fn func() ([]map[string]string, error)) []map[string]string {
	rows, err := fn()
	if err != nil {
		zap.L().Warn("health metric gather failed, skipping",
			zap.String("metric", metric),
			zap.Error(err))
		progress.Emit("WARN: metric [%s] unavailable, skipped", metric)
		return nil
	}
	return rows
}

func GatherHealthData(engine *oracle.Oracle, progress common.Progress) (*HealthData, error) {
	progress.Emit("Gathering database health metrics...")

	data := &HealthData{GeneratedAt: time.Now()}

	// 版本与数据库基础信息失败时整个巡检无意义，直接报错
	version, err := engine.GetVersionBanner()
	if err != nil {
		return nil, err
	}
	data.Version = version

	dbName, openMode, role, err := engine.GetDatabaseInfo()
	if err != nil {
		return nil, err
	}
	data.DBName = dbName
	data.OpenMode = openMode
	data.Role = role

	instances, err := engine.GetInstances()
	if err != nil {
		return nil, err
	}
	data.Instances = instances
	data.IsRAC = len(instances) > 1

	if data.DBSizeGB, err = engine.GetDatabaseSizeGB(); err != nil {
		zap.L().Warn("database size gather failed", zap.Error(err))
		data.DBSizeGB = 0
	}

	gatherMaxPDBStorage(engine, data, progress)

	data.Tablespaces = gatherRows("tablespace usage", progress, engine.GetTablespaceUsage)
	data.Sessions = gatherRows("session counts", progress, engine.GetSessionCounts)
	data.PDBs = gatherRows("pdb overview", progress, engine.GetPDBOverview)
	data.WaitEvents = gatherRows("top wait events", progress, engine.GetTopWaitEvents)
	data.ServiceSessions = gatherRows("service sessions", progress, engine.GetServiceSessions)

	if data.AAS, err = engine.GetAverageActiveSessions(); err != nil {
		zap.L().Warn("aas gather failed", zap.Error(err))
		data.AAS = 0
	}

	data.TopSQLCPU = gatherRows("top sql by cpu", progress, engine.GetTopSQLByCPU)
	data.TopSQLDisk = gatherRows("top sql by disk reads", progress, engine.GetTopSQLByDiskReads)
	data.InvalidObjects = gatherRows("invalid objects", progress, engine.GetInvalidObjects)
	data.AlertLogErrors = gatherRows("alert log errors", progress, engine.GetAlertLogErrors)
	data.LongQueries = gatherRows("long running queries", progress, engine.GetLongRunningQueries)
	data.TempUsage = gatherRows("temp tablespace usage", progress, engine.GetTempUsage)

	if data.IsRAC {
		data.InstanceLoad = gatherRows("rac instance load", progress, engine.GetInstanceLoad)
		data.RACGCWaits = gatherRows("rac gc waits", progress, engine.GetRACGlobalCacheWaits)
		data.RACGCWaitsByInstance = gatherRows("rac gc waits by instance", progress, engine.GetRACGlobalCacheWaitsByInstance)
		data.RACInterconnect = gatherRows("rac interconnect activity", progress, engine.GetRACInterconnectActivity)
		data.RACGESBlocking = gatherRows("rac ges blocking sessions", progress, engine.GetRACBlockingSessions)
		data.RACCPUUtil = gatherRows("rac cpu utilization", progress, engine.GetRACCPUUtilization)
		data.RACGESContention = gatherRows("rac ges contention", progress, engine.GetRACEnqueueContention)
	}

	progress.Emit("Health check data collection completed")
	return data, nil
}

// gatherMaxPDBStorage 需要切换到 PDB 容器读取属性，读完切回 CDB$ROOT
func gatherMaxPDBStorage(engine *oracle.Oracle, data *HealthData, progress common.Progress) {
	data.MaxPDBStorage = common.ValueNotSet
	data.StoragePct = ""

	isCDB, err := engine.IsCDB()
	if err != nil {
		zap.L().Warn("cdb detection failed", zap.Error(err))
		data.MaxPDBStorage = "Unable to query"
		return
	}
	if !isCDB {
		data.MaxPDBStorage = "N/A (Non-CDB)"
		return
	}

	firstPDB, err := engine.GetFirstPDBName()
	if err != nil {
		zap.L().Warn("first pdb lookup failed", zap.Error(err))
		data.MaxPDBStorage = "Unable to query"
		return
	}
	if common.IsEmptyString(firstPDB) {
		data.MaxPDBStorage = "N/A (No PDBs)"
		return
	}

	if err = engine.SetContainer(firstPDB); err != nil {
		zap.L().Warn("container switch failed",
			zap.String("pdb", firstPDB),
			zap.Error(err))
		data.MaxPDBStorage = "Unable to query"
		return
	}
	defer func() {
		if err := engine.SetContainer("CDB$ROOT"); err != nil {
			zap.L().Warn("container switch back to cdb$root failed", zap.Error(err))
		}
	}()

	maxStorage, err := engine.GetDatabaseProperty("MAX_PDB_STORAGE")
	if err != nil {
		zap.L().Warn("max_pdb_storage query failed", zap.Error(err))
		data.MaxPDBStorage = "Unable to query"
		return
	}
	if common.IsEmptyString(maxStorage) {
		maxStorage = "UNLIMITED"
	}
	data.MaxPDBStorage = maxStorage

	quantity := reconcile.ParseStorage(maxStorage)
	if quantity.Unlimited || quantity.GB <= 0 {
		return
	}
	pct := decimal.NewFromFloat(data.DBSizeGB).
		Div(decimal.NewFromFloat(quantity.GB)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	data.StoragePct = pct.String()
	progress.Emit("MAX_PDB_STORAGE %s, %s%% used", maxStorage, data.StoragePct)
}
