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
	"fmt"
	"strconv"
)

// GetVersionBanner 数据库版本横幅
func (o *Oracle) GetVersionBanner() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT banner AS BANNER FROM v$version WHERE ROWNUM = 1`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", nil
	}
	return res[0]["BANNER"], nil
}

// GetDatabaseInfo 返回数据库名、打开模式以及角色
func (o *Oracle) GetDatabaseInfo() (string, string, string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT name AS NAME, open_mode AS OPEN_MODE, database_role AS DATABASE_ROLE FROM v$database`)
	if err != nil {
		return "", "", "", err
	}
	if len(res) == 0 {
		return "", "", "", nil
	}
	return res[0]["NAME"], res[0]["OPEN_MODE"], res[0]["DATABASE_ROLE"], nil
}

// GetDatabaseSizeGB 全库数据文件总量（GB）
func (o *Oracle) GetDatabaseSizeGB() (float64, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT ROUND(SUM(bytes)/1024/1024/1024, 2) AS SIZE_GB FROM v$datafile`)
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

func (o *Oracle) IsCDB() (bool, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT cdb AS CDB FROM v$database`)
	if err != nil {
		return false, err
	}
	if len(res) == 0 {
		return false, nil
	}
	return res[0]["CDB"] == "YES", nil
}

// GetFirstPDBName 返回第一个非种子 PDB，不存在时返回空串
func (o *Oracle) GetFirstPDBName() (string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT name AS NAME FROM v$pdbs WHERE name != 'PDB$SEED' AND ROWNUM = 1`)
	if err != nil {
		return "", err
	}
	if len(res) == 0 {
		return "", nil
	}
	return res[0]["NAME"], nil
}

// SetContainer 切换当前会话容器，容器名不可参数化绑定
func (o *Oracle) SetContainer(container string) error {
	_, err := o.OracleDB.ExecContext(o.Ctx, fmt.Sprintf(`ALTER SESSION SET CONTAINER = %s`, container))
	return err
}

func (o *Oracle) GetTablespaceUsage() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT tablespace_name AS TABLESPACE_NAME,
       ROUND(used_space * 8192 / 1024 / 1024 / 1024, 2) AS USED_GB,
       ROUND(tablespace_size * 8192 / 1024 / 1024 / 1024, 2) AS TOTAL_GB,
       ROUND(used_percent, 2) AS PCT_USED
  FROM dba_tablespace_usage_metrics
 ORDER BY used_percent DESC`)
	return res, err
}

func (o *Oracle) GetSessionCounts() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT status AS STATUS, COUNT(*) AS SESSION_COUNT FROM v$session GROUP BY status`)
	return res, err
}

func (o *Oracle) GetPDBOverview() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT name AS NAME,
       open_mode AS OPEN_MODE,
       restricted AS RESTRICTED,
       TO_CHAR(open_time, 'YYYY-MM-DD HH24:MI:SS') AS OPEN_TIME,
       ROUND(total_size/1024/1024/1024, 2) AS SIZE_GB
  FROM v$pdbs
 ORDER BY name`)
	return res, err
}

func (o *Oracle) GetTopWaitEvents() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT event AS EVENT,
       total_waits AS TOTAL_WAITS,
       time_waited AS TIME_WAITED,
       average_wait AS AVERAGE_WAIT
  FROM v$system_event
 WHERE wait_class != 'Idle'
 ORDER BY time_waited DESC
 FETCH FIRST 10 ROWS ONLY`)
	return res, err
}

func (o *Oracle) GetServiceSessions() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT service_name AS SERVICE_NAME,
       COUNT(CASE WHEN status = 'ACTIVE' THEN 1 END) AS ACTIVE_SESSIONS,
       COUNT(CASE WHEN status = 'INACTIVE' THEN 1 END) AS INACTIVE_SESSIONS,
       COUNT(*) AS TOTAL_SESSIONS
  FROM gv$session
 WHERE type = 'USER'
   AND service_name NOT IN ('SYS$BACKGROUND', 'SYS$USERS')
 GROUP BY service_name
 ORDER BY active_sessions DESC, total_sessions DESC`)
	return res, err
}

// GetAverageActiveSessions 近 5 分钟 AAS
func (o *Oracle) GetAverageActiveSessions() (float64, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT ROUND(COUNT(*) / 5, 2) AS AAS
  FROM gv$active_session_history
 WHERE sample_time > SYSDATE - INTERVAL '5' MINUTE`)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 || res[0]["AAS"] == "" {
		return 0, nil
	}
	aas, err := strconv.ParseFloat(res[0]["AAS"], 64)
	if err != nil {
		return 0, nil
	}
	return aas, nil
}

func (o *Oracle) GetTopSQLByCPU() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT sql_id AS SQL_ID,
       ROUND(cpu_time / 1000000, 2) AS CPU_SECONDS,
       executions AS EXECUTIONS,
       ROUND(cpu_time / 1000000 / NULLIF(executions, 0), 2) AS CPU_PER_EXEC
  FROM v$sql
 WHERE cpu_time > 0
 ORDER BY cpu_time DESC
 FETCH FIRST 10 ROWS ONLY`)
	return res, err
}

func (o *Oracle) GetTopSQLByDiskReads() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT sql_id AS SQL_ID,
       disk_reads AS DISK_READS,
       executions AS EXECUTIONS,
       ROUND(disk_reads / NULLIF(executions, 0), 2) AS READS_PER_EXEC
  FROM v$sql
 WHERE disk_reads > 0
 ORDER BY disk_reads DESC
 FETCH FIRST 10 ROWS ONLY`)
	return res, err
}

func (o *Oracle) GetInvalidObjects() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT owner AS OWNER,
       object_type AS OBJECT_TYPE,
       COUNT(*) AS INVALID_COUNT
  FROM dba_objects
 WHERE status = 'INVALID'
   AND owner NOT IN ('SYS', 'SYSTEM', 'AUDSYS', 'LBACSYS', 'XDB')
 GROUP BY owner, object_type
 ORDER BY invalid_count DESC`)
	return res, err
}

// GetAlertLogErrors 近一小时 ORA- 报错
func (o *Oracle) GetAlertLogErrors() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT TO_CHAR(originating_timestamp, 'YYYY-MM-DD HH24:MI:SS') AS ERROR_TIME,
       message_text AS MESSAGE_TEXT
  FROM v$diag_alert_ext
 WHERE originating_timestamp > SYSDATE - 1/24
   AND message_text LIKE '%ORA-%'
 ORDER BY originating_timestamp DESC
 FETCH FIRST 20 ROWS ONLY`)
	return res, err
}

func (o *Oracle) GetInstanceLoad() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT inst_id AS INST_ID,
       instance_name AS INSTANCE_NAME,
       ROUND(value / 1000000, 2) AS DB_TIME_SECONDS
  FROM gv$sys_time_model
 WHERE stat_name = 'DB time'
 ORDER BY inst_id`)
	return res, err
}

// GetLongRunningQueries 运行超过 5 分钟的活动会话
func (o *Oracle) GetLongRunningQueries() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT s.inst_id AS INST_ID,
       s.sid AS SID,
       s.serial# AS SERIAL,
       s.username AS USERNAME,
       s.sql_id AS SQL_ID,
       ROUND((SYSDATE - s.sql_exec_start) * 24 * 60, 2) AS ELAPSED_MINUTES,
       s.status AS STATUS
  FROM gv$session s
 WHERE s.status = 'ACTIVE'
   AND s.type = 'USER'
   AND s.sql_exec_start IS NOT NULL
   AND (SYSDATE - s.sql_exec_start) * 24 * 60 > 5
 ORDER BY elapsed_minutes DESC`)
	return res, err
}

func (o *Oracle) GetTempUsage() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT tablespace_name AS TABLESPACE_NAME,
       ROUND(SUM(bytes_used) / 1024 / 1024 / 1024, 2) AS USED_GB,
       ROUND(SUM(bytes_free) / 1024 / 1024 / 1024, 2) AS FREE_GB,
       ROUND(SUM(bytes_used) * 100 / NULLIF(SUM(bytes_used + bytes_free), 0), 2) AS PCT_USED
  FROM v$temp_space_header
 GROUP BY tablespace_name
 ORDER BY pct_used DESC`)
	return res, err
}

func (o *Oracle) GetRACGlobalCacheWaits() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT event AS EVENT,
       COUNT(*) AS SAMPLES,
       ROUND(COUNT(*) * 100 / SUM(COUNT(*)) OVER (), 2) AS PCT
  FROM gv$active_session_history
 WHERE event LIKE 'gc%'
   AND sample_time > SYSDATE - INTERVAL '1' HOUR
 GROUP BY event
 ORDER BY samples DESC
 FETCH FIRST 10 ROWS ONLY`)
	return res, err
}

func (o *Oracle) GetRACGlobalCacheWaitsByInstance() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT inst_id AS INST_ID,
       event AS EVENT,
       COUNT(*) AS WAIT_COUNT
  FROM gv$active_session_history
 WHERE event LIKE 'gc%'
   AND sample_time > SYSDATE - INTERVAL '1' HOUR
 GROUP BY inst_id, event
 ORDER BY inst_id, wait_count DESC`)
	return res, err
}

func (o *Oracle) GetRACInterconnectActivity() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT inst_id AS INST_ID,
       name AS NAME,
       ROUND(value / 1024 / 1024, 2) AS MB
  FROM gv$sysstat
 WHERE name IN (
       'gc current blocks received',
       'gc cr blocks received',
       'gc current blocks served',
       'gc cr blocks served'
   )
 ORDER BY inst_id, name`)
	return res, err
}

func (o *Oracle) GetRACBlockingSessions() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT blocking_session AS BLOCKING_SESSION,
       blocking_inst_id AS BLOCKING_INST_ID,
       COUNT(*) AS BLOCKS,
       TO_CHAR(MIN(sample_time), 'YYYY-MM-DD HH24:MI') AS FIRST_SEEN,
       TO_CHAR(MAX(sample_time), 'YYYY-MM-DD HH24:MI') AS LAST_SEEN
  FROM gv$active_session_history
 WHERE blocking_session IS NOT NULL
   AND sample_time > SYSDATE - INTERVAL '1' HOUR
 GROUP BY blocking_session, blocking_inst_id
 ORDER BY blocks DESC
 FETCH FIRST 10 ROWS ONLY`)
	return res, err
}

func (o *Oracle) GetRACCPUUtilization() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `WITH os_stat AS (
       SELECT inst_id,
              MAX(CASE WHEN stat_name = 'BUSY_TIME' THEN value END) AS busy_time,
              MAX(CASE WHEN stat_name = 'IDLE_TIME' THEN value END) AS idle_time
         FROM gv$osstat
        WHERE stat_name IN ('BUSY_TIME', 'IDLE_TIME')
        GROUP BY inst_id
   )
SELECT inst_id AS INST_ID,
       ROUND(busy_time / 100, 2) AS CPU_BUSY_SECS,
       ROUND((busy_time + idle_time) / 100, 2) AS TOTAL_CPU_SECS,
       ROUND((busy_time / NULLIF(busy_time + idle_time, 0)) * 100, 2) AS CPU_UTIL_PCT
  FROM os_stat
 ORDER BY inst_id`)
	return res, err
}

func (o *Oracle) GetRACEnqueueContention() ([]map[string]string, error) {
	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT event AS EVENT,
       COUNT(*) AS SAMPLES
  FROM gv$active_session_history
 WHERE event LIKE 'ges%'
   AND sample_time > SYSDATE - INTERVAL '1' HOUR
 GROUP BY event
 ORDER BY samples DESC`)
	return res, err
}
