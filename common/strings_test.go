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
package common

import (
	"sort"
	"testing"
)

func TestIsSubsetString(t *testing.T) {
	type args struct {
		originItems []string
		checkItems  []string
	}
	tests := []struct {
		name          string
		args          args
		wantSubset    bool
		wantNotExists []string
	}{
		{
			name:       "subset",
			args:       args{originItems: []string{"CATALOG", "XDB", "JAVAVM"}, checkItems: []string{"CATALOG", "XDB"}},
			wantSubset: true,
		},
		{
			name:       "identical",
			args:       args{originItems: []string{"CATALOG", "XDB"}, checkItems: []string{"xdb", "catalog"}},
			wantSubset: true,
		},
		{
			name:          "missing component",
			args:          args{originItems: []string{"CATALOG"}, checkItems: []string{"CATALOG", "OLS"}},
			wantSubset:    false,
			wantNotExists: []string{"OLS"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubset, gotNotExists := IsSubsetString(tt.args.originItems, tt.args.checkItems)
			if gotSubset != tt.wantSubset {
				t.Errorf("IsSubsetString() subset = %v, want %v", gotSubset, tt.wantSubset)
			}
			if len(tt.wantNotExists) > 0 {
				sort.Strings(gotNotExists)
				if len(gotNotExists) != len(tt.wantNotExists) || gotNotExists[0] != tt.wantNotExists[0] {
					t.Errorf("IsSubsetString() notExists = %v, want %v", gotNotExists, tt.wantNotExists)
				}
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "dsn", in: "scan01:1521/ORCLCDB", want: "scan01_1521_ORCLCDB"},
		{name: "plain", in: "ORCLCDB", want: "ORCLCDB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName() = %v, want %v", got, tt.want)
			}
		})
	}
}
