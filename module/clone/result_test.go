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
	"testing"
	"time"

	"github.com/oradba/pdbtoolkit/common"
)

func TestValidationResultsAllPassed(t *testing.T) {
	cases := []struct {
		name    string
		results ValidationResults
		want    bool
	}{
		{
			name:    "empty results pass",
			results: ValidationResults{},
			want:    true,
		},
		{
			name: "all pass",
			results: ValidationResults{
				{Check: "A", Status: common.CheckStatusPass},
				{Check: "B", Status: common.CheckStatusPass},
			},
			want: true,
		},
		{
			name: "skipped does not block",
			results: ValidationResults{
				{Check: "A", Status: common.CheckStatusPass},
				{Check: "B", Status: common.CheckStatusSkipped},
			},
			want: true,
		},
		{
			name: "single failure blocks",
			results: ValidationResults{
				{Check: "A", Status: common.CheckStatusPass},
				{Check: "B", Status: common.CheckStatusFailed},
				{Check: "C", Status: common.CheckStatusSkipped},
			},
			want: false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.results.AllPassed(); got != c.want {
				t.Fatalf("AllPassed() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestValidationResultsCountByStatus(t *testing.T) {
	results := ValidationResults{
		{Status: common.CheckStatusPass},
		{Status: common.CheckStatusPass},
		{Status: common.CheckStatusFailed},
		{Status: common.CheckStatusSkipped},
	}
	if got := results.CountByStatus(common.CheckStatusPass); got != 2 {
		t.Fatalf("CountByStatus(PASS) = %d, want 2", got)
	}
	if got := results.CountByStatus(common.CheckStatusFailed); got != 1 {
		t.Fatalf("CountByStatus(FAILED) = %d, want 1", got)
	}
}

func TestEqualityCheck(t *testing.T) {
	r := equalityCheck("Character Set Compatibility", "AL32UTF8", "AL32UTF8")
	if r.Status != common.CheckStatusPass {
		t.Fatalf("equal values should pass, got %s", r.Status)
	}
	r = equalityCheck("Character Set Compatibility", "AL32UTF8", "WE8ISO8859P1")
	if r.Status != common.CheckStatusFailed {
		t.Fatalf("unequal values should fail, got %s", r.Status)
	}
	if r.SourceValue != "AL32UTF8" || r.TargetValue != "WE8ISO8859P1" {
		t.Fatalf("values should pass through verbatim, got %s / %s", r.SourceValue, r.TargetValue)
	}
}

func TestReportFileName(t *testing.T) {
	generatedAt := time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)
	got := reportFileName("CDB1", "PDB1", "CDB2", "PDB2", "pdb_validation_report", generatedAt)
	want := "CDB1_PDB1_CDB2_PDB2_pdb_validation_report_20240315_093045.html"
	if got != want {
		t.Fatalf("reportFileName = %s, want %s", got, want)
	}

	// 名称里的路径分隔字符要净化
	got = reportFileName("CDB/1", "PDB:1", "CDB2", "PDB2", "pdb_postcheck_report", generatedAt)
	want = "CDB_1_PDB_1_CDB2_PDB2_pdb_postcheck_report_20240315_093045.html"
	if got != want {
		t.Fatalf("reportFileName = %s, want %s", got, want)
	}
}

func TestOverallOf(t *testing.T) {
	status, class := overallOf(ValidationResults{{Status: common.CheckStatusSkipped}})
	if status != "PASS" || class != "pass" {
		t.Fatalf("skipped-only results should report PASS, got %s/%s", status, class)
	}
	status, class = overallOf(ValidationResults{{Status: common.CheckStatusFailed}})
	if status != "FAIL" || class != "fail" {
		t.Fatalf("failed results should report FAIL, got %s/%s", status, class)
	}
}
