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
	"os"
	"strings"
	"testing"
	"time"

	"github.com/oradba/pdbtoolkit/common"
	"github.com/oradba/pdbtoolkit/config"
	"github.com/oradba/pdbtoolkit/database/oracle"
	"github.com/oradba/pdbtoolkit/reconcile"
)

func sampleTask(t *testing.T) *Task {
	t.Helper()
	return &Task{
		Cfg: &config.Config{
			AppConfig: config.AppConfig{ReportDir: t.TempDir()},
			SourceConfig: config.EndpointConfig{
				Host: "rac1-scan", Port: 1521, CDBName: "SRCCDB", PDBName: "SRCPDB",
			},
			TargetConfig: config.EndpointConfig{
				Host: "rac2-scan", Port: 1521, CDBName: "TGTCDB", PDBName: "TGTPDB",
			},
		},
	}
}

func sampleMeta(cdb, pdb string) EndpointMeta {
	return EndpointMeta{
		Host:    "rac1-scan",
		Port:    1521,
		CDBName: cdb,
		PDBName: pdb,
		Instances: []oracle.Instance{
			{InstID: "1", InstanceName: cdb + "1", HostName: "rac1"},
		},
		PDBSizeGB: 42.5,
	}
}

func TestGenNewPrecheckReport(t *testing.T) {
	task := sampleTask(t)
	result := &PrecheckResult{
		Results: ValidationResults{
			{Check: "Character Set Compatibility", Status: common.CheckStatusPass, SourceValue: "AL32UTF8", TargetValue: "AL32UTF8"},
			{
				Check: "DBMS_PDB Plug Compatibility", Status: common.CheckStatusFailed,
				SourceValue: "XML generated (CLOB)", TargetValue: "FALSE",
				Violations: []oracle.PlugViolation{
					{Name: "SRCPDB", Type: "ERROR", Message: "APEX mismatch", Action: "Install APEX", Status: "PENDING"},
				},
			},
		},
		SourceMeta: sampleMeta("SRCCDB", "SRCPDB"),
		TargetMeta: sampleMeta("TGTCDB", "TGTPDB"),
		CDBDeltas: []reconcile.ParameterDelta{
			{Name: "sga_target", SourceValue: "8G", TargetValue: "8G", Class: common.ParamClassSame},
			{Name: "processes", SourceValue: "640", TargetValue: "320", Class: common.ParamClassDiff},
		},
		PDBDeltas: []reconcile.ParameterDelta{
			{Name: "open_cursors", SourceValue: "300", TargetValue: common.ValueNotSet, Class: common.ParamClassPending},
		},
		PDBProvisioned: false,
		GeneratedAt:    time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC),
	}

	reportPath, err := GenNewPrecheckReport(task, result)
	if err != nil {
		t.Fatalf("GenNewPrecheckReport failed: %v", err)
	}
	if !strings.HasSuffix(reportPath, "SRCCDB_SRCPDB_TGTCDB_TGTPDB_pdb_validation_report_20240315_093045.html") {
		t.Fatalf("unexpected report path: %s", reportPath)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report failed: %v", err)
	}
	html := string(content)
	for _, want := range []string{
		"PDB Clone Validation Report (Precheck) - <span class=\"fail\">FAIL</span>",
		"Section 1: Connection Metadata",
		"Section 2: Verification Checks",
		"Section 3: ORACLE CDB Parameters Comparison (Non-Default)",
		"Section 4: ORACLE PDB Parameters Comparison (Non-Default)",
		"Plug-in Violations",
		"APEX mismatch",
		"Run postcheck after cloning",
		"processes",
		"</html>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestGenNewPostcheckReport(t *testing.T) {
	task := sampleTask(t)
	result := &PostcheckResult{
		Results: ValidationResults{
			{Check: "Oracle DB Parameters Match", Status: common.CheckStatusPass, SourceValue: "400 parameters", TargetValue: "400 parameters (0 differences)"},
			{Check: "DB Service Names Match", Status: common.CheckStatusPass, SourceValue: "2 services", TargetValue: "2 services"},
		},
		SourceMeta:  sampleMeta("SRCCDB", "SRCPDB"),
		TargetMeta:  sampleMeta("TGTCDB", "TGTPDB"),
		ParamDiffs:  nil,
		GeneratedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	reportPath, err := GenNewPostcheckReport(task, result)
	if err != nil {
		t.Fatalf("GenNewPostcheckReport failed: %v", err)
	}
	if !strings.HasSuffix(reportPath, "SRCCDB_SRCPDB_TGTCDB_TGTPDB_pdb_postcheck_report_20240315_100000.html") {
		t.Fatalf("unexpected report path: %s", reportPath)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report failed: %v", err)
	}
	html := string(content)
	for _, want := range []string{
		"PDB Clone Postcheck Report - <span class=\"pass\">PASS</span>",
		"Section 3: Parameter Differences",
		"All parameters match!",
		"</html>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}
