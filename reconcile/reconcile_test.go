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
package reconcile

import (
	"reflect"
	"testing"

	"github.com/oradba/pdbtoolkit/common"
)

func TestReconcile(t *testing.T) {
	type args struct {
		source      ParameterMap
		target      ParameterMap
		provisioned bool
	}
	tests := []struct {
		name         string
		args         args
		wantDeltas   []ParameterDelta
		wantAllMatch bool
	}{
		{
			name:         "empty maps vacuously match",
			args:         args{source: ParameterMap{}, target: ParameterMap{}, provisioned: true},
			wantDeltas:   []ParameterDelta{},
			wantAllMatch: true,
		},
		{
			name: "same and diff",
			args: args{
				source:      ParameterMap{"A": {Value: "1"}, "B": {Value: "2"}},
				target:      ParameterMap{"A": {Value: "1"}, "B": {Value: "3"}},
				provisioned: true,
			},
			wantDeltas: []ParameterDelta{
				{Name: "A", SourceValue: "1", TargetValue: "1", Class: common.ParamClassSame},
				{Name: "B", SourceValue: "2", TargetValue: "3", Class: common.ParamClassDiff},
			},
			wantAllMatch: false,
		},
		{
			name: "target not provisioned is always pending",
			args: args{
				source:      ParameterMap{"A": {Value: "1"}},
				target:      ParameterMap{},
				provisioned: false,
			},
			wantDeltas: []ParameterDelta{
				{Name: "A", SourceValue: "1", TargetValue: common.ValueNotSet, Class: common.ParamClassPending},
			},
			wantAllMatch: false,
		},
		{
			name: "missing on one side only",
			args: args{
				source:      ParameterMap{"A": {Value: "1"}},
				target:      ParameterMap{"B": {Value: "2"}},
				provisioned: true,
			},
			wantDeltas: []ParameterDelta{
				{Name: "A", SourceValue: "1", TargetValue: common.ValueNotSet, Class: common.ParamClassDiff},
				{Name: "B", SourceValue: common.ValueNotSet, TargetValue: "2", Class: common.ParamClassDiff},
			},
			wantAllMatch: false,
		},
		{
			name: "both not set counts as same",
			args: args{
				source:      ParameterMap{"A": {Value: common.ValueNotSet}},
				target:      ParameterMap{"A": {Value: common.ValueNotSet}},
				provisioned: true,
			},
			wantDeltas: []ParameterDelta{
				{Name: "A", SourceValue: common.ValueNotSet, TargetValue: common.ValueNotSet, Class: common.ParamClassSame},
			},
			wantAllMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotDeltas, gotAllMatch := Reconcile(tt.args.source, tt.args.target, tt.args.provisioned)
			if !reflect.DeepEqual(gotDeltas, tt.wantDeltas) {
				t.Errorf("Reconcile() deltas = %v, want %v", gotDeltas, tt.wantDeltas)
			}
			if gotAllMatch != tt.wantAllMatch {
				t.Errorf("Reconcile() allMatch = %v, want %v", gotAllMatch, tt.wantAllMatch)
			}
		})
	}
}

// 相同输入两次调用输出必须逐项一致
func TestReconcileIdempotent(t *testing.T) {
	source := ParameterMap{"sga_target": {Value: "8G"}, "processes": {Value: "3000"}, "cpu_count": {Value: "16"}}
	target := ParameterMap{"sga_target": {Value: "4G"}, "processes": {Value: "3000"}, "open_cursors": {Value: "500"}}

	first, firstMatch := Reconcile(source, target, true)
	second, secondMatch := Reconcile(source, target, true)
	if !reflect.DeepEqual(first, second) || firstMatch != secondMatch {
		t.Errorf("Reconcile() not deterministic: first %v, second %v", first, second)
	}
}

func TestOnlyDifferences(t *testing.T) {
	deltas, _ := Reconcile(
		ParameterMap{"A": {Value: "1"}, "B": {Value: "2"}},
		ParameterMap{"A": {Value: "1"}, "B": {Value: "9"}},
		true)
	diffs := OnlyDifferences(deltas)
	if len(diffs) != 1 || diffs[0].Name != "B" {
		t.Errorf("OnlyDifferences() = %v, want single B row", diffs)
	}
}
