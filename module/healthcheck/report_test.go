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
	"os"
	"strings"
	"testing"
	"time"

	"github.com/oradba/pdbtoolkit/database/oracle"
)

func sampleHealthData() *HealthData {
	return &HealthData{
		DBName:   "ORCLCDB",
		OpenMode: "READ WRITE",
		Role:     "PRIMARY",
		Version:  "Oracle Database 19c Enterprise Edition Release 19.0.0.0.0",
		Instances: []oracle.Instance{
			{InstID: "1", InstanceName: "ORCLCDB1", HostName: "rac1"},
			{InstID: "2", InstanceName: "ORCLCDB2", HostName: "rac2"},
		},
		DBSizeGB:      123.45,
		MaxPDBStorage: "200G",
		StoragePct:    "61.73",
		Sessions: []map[string]string{
			{"STATUS": "ACTIVE", "SESSION_COUNT": "12"},
			{"STATUS": "INACTIVE", "SESSION_COUNT": "40"},
		},
		Tablespaces: []map[string]string{
			{"TABLESPACE_NAME": "SYSTEM", "USED_GB": "1.20", "TOTAL_GB": "2.00", "PCT_USED": "60.00"},
		},
		PDBs: []map[string]string{
			{"NAME": "ORCLPDB1", "OPEN_MODE": "READ WRITE", "RESTRICTED": "NO", "OPEN_TIME": "2024-03-15 09:00:00", "SIZE_GB": "40.00"},
		},
		WaitEvents: []map[string]string{
			{"EVENT": "db file sequential read", "TOTAL_WAITS": "1000", "TIME_WAITED": "500", "AVERAGE_WAIT": "0.5"},
		},
		AAS:   1.25,
		IsRAC: true,
		InstanceLoad: []map[string]string{
			{"INST_ID": "1", "INSTANCE_NAME": "ORCLCDB1", "DB_TIME_SECONDS": "345.67"},
		},
		GeneratedAt: time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC),
	}
}

func TestGenNewHealthReport(t *testing.T) {
	reportDir := t.TempDir()
	reportPath, err := GenNewHealthReport(sampleHealthData(), reportDir)
	if err != nil {
		t.Fatalf("GenNewHealthReport failed: %v", err)
	}
	if !strings.HasSuffix(reportPath, "ORCLCDB_db_health_report_20240315_093045.html") {
		t.Fatalf("unexpected report path: %s", reportPath)
	}

	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report failed: %v", err)
	}
	html := string(content)
	for _, want := range []string{
		"Oracle Database Health Check Report",
		"ORCLCDB",
		"MAX_PDB_STORAGE",
		"200G",
		"61.73% used",
		"RAC Instance Load Distribution",
		"db file sequential read",
		"</html>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}
}

func TestGenNewHealthReportNonRACOmitsRACSections(t *testing.T) {
	data := sampleHealthData()
	data.IsRAC = false
	reportPath, err := GenNewHealthReport(data, t.TempDir())
	if err != nil {
		t.Fatalf("GenNewHealthReport failed: %v", err)
	}
	content, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report failed: %v", err)
	}
	if strings.Contains(string(content), "RAC Instance Load Distribution") {
		t.Fatal("non-RAC report should not contain RAC sections")
	}
}

func TestSanitizedReportFileName(t *testing.T) {
	data := sampleHealthData()
	data.DBName = "ORCL:CDB/1"
	reportPath, err := GenNewHealthReport(data, t.TempDir())
	if err != nil {
		t.Fatalf("GenNewHealthReport failed: %v", err)
	}
	if !strings.Contains(reportPath, "ORCL_CDB_1_db_health_report_") {
		t.Fatalf("db name should be sanitized in file name, got %s", reportPath)
	}
}
