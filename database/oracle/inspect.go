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
package oracle

import (
	"strconv"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/reconcile"
)

type Instance struct {
	InstID       string
	InstanceName string
	HostName     string
}

type RegistryComponent struct {
	Name   string
	Status string
}

// GetInstanceVersion 返回实例版本与完整补丁版本
func (o *Oracle) GetInstanceVersion() (string, string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT version AS VERSION, version_full AS VERSION_FULL FROM v$instance`)
	if err != nil {
		return "", "", err
	}
	if len(res) == 0 {
		return "", "", nil
	}
	return res[0]["VERSION"], res[0]["VERSION_FULL"], nil
}

func (o *Oracle) GetCharacterSet() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT value AS VALUE FROM nls_database_parameters WHERE parameter = 'NLS_CHARACTERSET'`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", nil
	}
	return res[0]["VALUE"], nil
}

func (o *Oracle) GetRegistryComponents() ([]RegistryComponent, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT comp_name AS COMP_NAME, status AS STATUS FROM dba_registry ORDER BY comp_name`)
	if err != nil {
		return nil, err
	}
	var comps []RegistryComponent
	for _, r := range res {
		comps = append(comps, RegistryComponent{Name: r["COMP_NAME"], Status: r["STATUS"]})
	}
	return comps, nil
}

func (o *Oracle) GetInstances() ([]Instance, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT inst_id AS INST_ID, instance_name AS INSTANCE_NAME, host_name AS HOST_NAME FROM gv$instance ORDER BY inst_id`)
	if err != nil {
		return nil, err
	}
	var instances []Instance
	for _, r := range res {
		instances = append(instances, Instance{InstID: r["INST_ID"], InstanceName: r["INSTANCE_NAME"], HostName: r["HOST_NAME"]})
	}
	return instances, nil
}

// GetPDBOpenMode 查询 PDB 打开模式，第二个返回值标识 PDB 是否存在
func (o *Oracle) GetPDBOpenMode(pdbName string) (string, bool, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT open_mode AS OPEN_MODE FROM v$pdbs WHERE UPPER(name) = UPPER(:1)`, pdbName)
	if err != nil {
		return "", false, err
	}
	if len(res) == 0 {
		return "", false, nil
	}
	return res[0]["OPEN_MODE"], true, nil
}

// GetPDBSizeGB 数据文件总大小（GB，保留两位）
func (o *Oracle) GetPDBSizeGB(pdbName string) (float64, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT ROUND(SUM(bytes)/1024/1024/1024, 2) AS SIZE_GB
  FROM v$datafile
 WHERE con_id = (SELECT con_id FROM v$pdbs WHERE UPPER(name) = UPPER(:1))`, pdbName)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 || res[0]["SIZE_GB"] == "" {
		return 0, nil
	}
	sizeGB, err := strconv.ParseFloat(res[0]["SIZE_GB"], 64)
	if err != nil {
		return 0, nil
	}
	return sizeGB, nil
}

// GetTDEWalletType 无钱包配置时返回 NONE
func (o *Oracle) GetTDEWalletType() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT wrl_type AS WRL_TYPE FROM v$encryption_wallet`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "NONE", nil
	}
	return res[0]["WRL_TYPE"], nil
}

func (o *Oracle) GetLocalUndoEnabled() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT property_value AS PROPERTY_VALUE FROM database_properties WHERE property_name = 'LOCAL_UNDO_ENABLED'`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "FALSE", nil
	}
	return res[0]["PROPERTY_VALUE"], nil
}

func (o *Oracle) GetMaxStringSize() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT value AS VALUE FROM v$parameter WHERE name = 'max_string_size'`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "STANDARD", nil
	}
	return res[0]["VALUE"], nil
}

func (o *Oracle) GetDBTimezone() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT DBTIMEZONE AS DBTIMEZONE FROM dual`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "Unknown", nil
	}
	return res[0]["DBTIMEZONE"], nil
}

// GetDatabaseProperty 查询 database_properties 单值属性，缺失返回空串
func (o *Oracle) GetDatabaseProperty(propertyName string) (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT property_value AS PROPERTY_VALUE FROM database_properties WHERE property_name = :1`, propertyName)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", nil
	}
	return res[0]["PROPERTY_VALUE"], nil
}

// GetParameters 采集 v$parameter 参数集
// nonDefaultOnly 为 true 时仅采集非默认参数（precheck 语义），否则全量（postcheck 语义）
func (o *Oracle) GetParameters(nonDefaultOnly bool) (reconcile.ParameterMap, error) {
	querySQL := `SELECT name AS NAME, value AS VALUE, isdefault AS ISDEFAULT FROM v$parameter ORDER BY name`
	if nonDefaultOnly {
		querySQL = `SELECT name AS NAME, value AS VALUE, isdefault AS ISDEFAULT FROM v$parameter WHERE isdefault = 'FALSE' ORDER BY name`
	}
	_, res, err := Query(o.Ctx, o.OracleDB, querySQL)
	if err != nil {
		return nil, err
	}
	params := make(reconcile.ParameterMap, len(res))
	for _, r := range res {
		params[r["NAME"]] = reconcile.Parameter{
			Value:     r["VALUE"],
			IsDefault: common.StringUPPER(r["ISDEFAULT"]) == "TRUE",
		}
	}
	return params, nil
}

// GetPDBServices 查询挂在指定 PDB 上的服务名
func (o *Oracle) GetPDBServices(pdbName string) ([]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT name AS NAME, pdb AS PDB FROM cdb_services WHERE UPPER(pdb) = UPPER(:1) ORDER BY name`, pdbName)
	if err != nil {
		return nil, err
	}
	var services []string
	for _, r := range res {
		services = append(services, r["NAME"])
	}
	return services, nil
}
