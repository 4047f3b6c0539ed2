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

import "testing"

func TestParseStorage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want StorageQuantity
	}{
		{name: "gigabytes", raw: "50G", want: StorageQuantity{GB: 50.0}},
		{name: "gigabytes lowercase", raw: "50g", want: StorageQuantity{GB: 50.0}},
		{name: "megabytes", raw: "2048M", want: StorageQuantity{GB: 2.0}},
		{name: "terabytes", raw: "1T", want: StorageQuantity{GB: 1024.0}},
		{name: "raw bytes", raw: "5368709120", want: StorageQuantity{GB: 5.0}},
		{name: "unlimited", raw: "UNLIMITED", want: StorageQuantity{Unlimited: true}},
		{name: "unlimited mixed case", raw: "Unlimited", want: StorageQuantity{Unlimited: true}},
		{name: "empty degrades to unlimited", raw: "", want: StorageQuantity{Unlimited: true}},
		{name: "garbage degrades to ambiguous unlimited", raw: "banana", want: StorageQuantity{Unlimited: true, Ambiguous: true}},
		{name: "negative degrades to ambiguous unlimited", raw: "-5G", want: StorageQuantity{Unlimited: true, Ambiguous: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseStorage(tt.raw); got != tt.want {
				t.Errorf("ParseStorage(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStorageString(t *testing.T) {
	tests := []struct {
		name string
		q    StorageQuantity
		want string
	}{
		{name: "finite", q: StorageGB(50.0), want: "50.00G"},
		{name: "fractional", q: StorageGB(2.5), want: "2.50G"},
		{name: "unlimited", q: UnlimitedStorage(), want: "UNLIMITED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

// 有限值与 UNLIMITED 渲染后再解析应还原原值
func TestStorageRoundTrip(t *testing.T) {
	for _, q := range []StorageQuantity{StorageGB(50.0), StorageGB(2.0), StorageGB(1024.0), StorageGB(0.25), UnlimitedStorage()} {
		got := ParseStorage(q.String())
		if got.Unlimited != q.Unlimited || got.GB != q.GB {
			t.Errorf("round trip %v -> %v", q, got)
		}
	}
}

func TestStorageSufficient(t *testing.T) {
	type args struct {
		usedGB float64
		limit  StorageQuantity
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{name: "unlimited always sufficient", args: args{usedGB: 80.0, limit: UnlimitedStorage()}, want: true},
		{name: "limit below usage", args: args{usedGB: 80.0, limit: StorageGB(50.0)}, want: false},
		{name: "equal is sufficient", args: args{usedGB: 50.0, limit: StorageGB(50.0)}, want: true},
		{name: "ambiguous treated as unlimited", args: args{usedGB: 80.0, limit: ParseStorage("??")}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StorageSufficient(tt.args.usedGB, tt.args.limit); got != tt.want {
				t.Errorf("StorageSufficient() = %v, want %v", got, tt.want)
			}
		})
	}
}
