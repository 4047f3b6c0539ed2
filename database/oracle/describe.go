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
	"context"
	"database/sql"
	"fmt"
)

const (
	BindingNamed      = "NAMED"
	BindingPositional = "POSITIONAL"

	OutputCLOB = "CLOB"
	OutputFile = "FILE"
)

// DescribeStrategy 描述 DBMS_PDB.DESCRIBE 的一种调用约定
// Oracle 版本之间该过程的签名不一致，按固定优先级逐一尝试
type DescribeStrategy struct {
	ID      int
	Name    string
	Binding string
	Output  string
	Block   string
}

// 策略顺序固定：最新约定优先，文件回读兜底
// all_arguments 元数据并不能可靠预测哪种签名实际可调用，因此不做元数据分支
var describeStrategies = []DescribeStrategy{
	{
		ID:      1,
		Name:    "named two-argument CLOB",
		Binding: BindingNamed,
		Output:  OutputCLOB,
		Block: `BEGIN
	DBMS_PDB.DESCRIBE(
		pdb_descr_xml => :xml_output,
		pdb_name => :pdb_name
	);
END;`,
	},
	{
		ID:      2,
		Name:    "named CLOB with declared pdb variable",
		Binding: BindingNamed,
		Output:  OutputCLOB,
		Block: `DECLARE
	v_pdb_name VARCHAR2(128) := :pdb_name;
BEGIN
	DBMS_PDB.DESCRIBE(
		pdb_descr_xml => :xml_output,
		pdb_name => v_pdb_name
	);
END;`,
	},
	{
		ID:      3,
		Name:    "positional CLOB",
		Binding: BindingPositional,
		Output:  OutputCLOB,
		Block: `BEGIN
	DBMS_PDB.DESCRIBE(:1, :2);
END;`,
	},
	{
		ID:      4,
		Name:    "file-based with read-back",
		Binding: BindingNamed,
		Output:  OutputFile,
		Block: `DECLARE
	v_pdb_name VARCHAR2(128) := :pdb_name;
	v_filename VARCHAR2(100) := 'pdb_describe_' || TO_CHAR(SYSDATE, 'YYYYMMDDHH24MISS') || '.xml';
	v_dir VARCHAR2(30) := 'DATA_PUMP_DIR';
	v_file_handle UTL_FILE.FILE_TYPE;
	v_clob CLOB;
	v_line VARCHAR2(32767);
BEGIN
	DBMS_PDB.DESCRIBE(
		pdb_descr_file => v_filename,
		pdb_name => v_pdb_name
	);

	DBMS_LOB.CREATETEMPORARY(v_clob, TRUE);
	v_file_handle := UTL_FILE.FOPEN(v_dir, v_filename, 'R', 32767);

	BEGIN
		LOOP
			UTL_FILE.GET_LINE(v_file_handle, v_line);
			DBMS_LOB.WRITEAPPEND(v_clob, LENGTH(v_line) + 1, v_line || CHR(10));
		END LOOP;
	EXCEPTION
		WHEN NO_DATA_FOUND THEN
			NULL;
	END;

	UTL_FILE.FCLOSE(v_file_handle);
	UTL_FILE.FREMOVE(v_dir, v_filename);

	:xml_output := v_clob;
EXCEPTION
	WHEN OTHERS THEN
		IF UTL_FILE.IS_OPEN(v_file_handle) THEN
			UTL_FILE.FCLOSE(v_file_handle);
		END IF;
		BEGIN
			UTL_FILE.FREMOVE(v_dir, v_filename);
		EXCEPTION
			WHEN OTHERS THEN
				NULL;
		END;
		RAISE;
END;`,
	},
}

// DescribePayload DBMS_PDB.DESCRIBE 成功输出的 XML 描述
type DescribePayload struct {
	XML      string
	Bytes    int
	Strategy int
}

// DescribeUnavailableError 所有调用约定均失败
// 调用方应将其视为可跳过的检查项而非致命错误
type DescribeUnavailableError struct {
	Attempts int
	LastErr  error
}

func (e *DescribeUnavailableError) Error() string {
	return fmt.Sprintf("dbms_pdb.describe unavailable after %d strategies, last error: %v", e.Attempts, e.LastErr)
}

func (e *DescribeUnavailableError) Unwrap() error {
	return e.LastErr
}

type plsqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func describeArgs(strategy DescribeStrategy, pdbName string, xmlOutput *string) []interface{} {
	if strategy.Binding == BindingPositional {
		return []interface{}{sql.Out{Dest: xmlOutput}, pdbName}
	}
	return []interface{}{
		sql.Named("xml_output", sql.Out{Dest: xmlOutput}),
		sql.Named("pdb_name", pdbName),
	}
}

func describeWithExecutor(ctx context.Context, exec plsqlExecutor, pdbName string) (*DescribePayload, error) {
	var lastErr error
	for _, strategy := range describeStrategies {
		// 每次尝试使用新的输出绑定变量，失败的尝试不得污染下一次调用
		var xmlOutput string
		_, err := exec.ExecContext(ctx, strategy.Block, describeArgs(strategy, pdbName, &xmlOutput)...)
		if err == nil {
			return &DescribePayload{
				XML:      xmlOutput,
				Bytes:    len(xmlOutput),
				Strategy: strategy.ID,
			}, nil
		}
		lastErr = err
	}
	return nil, &DescribeUnavailableError{
		Attempts: len(describeStrategies),
		LastErr:  lastErr,
	}
}

// DescribePDB 需要 CDB 根容器上下文，从 PDB 内调用是已知失败场景
func (o *Oracle) DescribePDB(pdbName string) (*DescribePayload, error) {
	return describeWithExecutor(o.Ctx, o.OracleDB, pdbName)
}

type PlugViolation struct {
	Name    string
	Cause   string
	Type    string
	Message string
	Status  string
	Action  string
}

const checkPlugCompatibilityBlock = `DECLARE
	v_compatible BOOLEAN;
BEGIN
	v_compatible := DBMS_PDB.CHECK_PLUG_COMPATIBILITY(
		pdb_descr_xml => :xml_input
	);
	IF v_compatible THEN
		:result := 'TRUE';
	ELSE
		:result := 'FALSE';
	END IF;
END;`

// CheckPlugCompatibility 在目标 CDB 上校验描述 XML 的可插入性
// 不兼容时附带最近未解决的违规明细
func (o *Oracle) CheckPlugCompatibility(describeXML string) (bool, []PlugViolation, error) {
	var result string
	_, err := o.OracleDB.ExecContext(o.Ctx, checkPlugCompatibilityBlock,
		sql.Named("xml_input", describeXML),
		sql.Named("result", sql.Out{Dest: &result}))
	if err != nil {
		return false, nil, err
	}
	if result == "TRUE" {
		return true, nil, nil
	}

	_, res, err := Query(o.Ctx, o.OracleDB, `SELECT name AS NAME,
       cause AS CAUSE,
       type AS TYPE,
       message AS MESSAGE,
       status AS STATUS,
       action AS ACTION
  FROM pdb_plug_in_violations
 WHERE status != 'RESOLVED'
 ORDER BY time DESC
 FETCH FIRST 20 ROWS ONLY`)
	if err != nil {
		return false, nil, err
	}
	var violations []PlugViolation
	for _, r := range res {
		violations = append(violations, PlugViolation{
			Name:    r["NAME"],
			Cause:   r["CAUSE"],
			Type:    r["TYPE"],
			Message: r["MESSAGE"],
			Status:  r["STATUS"],
			Action:  r["ACTION"],
		})
	}
	return false, violations, nil
}
