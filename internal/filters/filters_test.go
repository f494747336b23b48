// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []Filter
	}{
		{
			name: "empty spec",
			spec: "",
			want: nil,
		},
		{
			name: "single equality",
			spec: "state=fresh",
			want: []Filter{{Key: "state", Operand: "=", Target: "fresh"}},
		},
		{
			name: "negated prefix",
			spec: "key!^https://",
			want: []Filter{{Key: "key", Negate: true, Operand: "^", Target: "https://"}},
		},
		{
			name: "multiple filters",
			spec: "size>10,key/\\.json$",
			want: []Filter{
				{Key: "size", Operand: ">", Target: "10"},
				{Key: "key", Operand: "/", Target: "\\.json$"},
			},
		},
		{
			name: "malformed entries are dropped",
			spec: "nooperator,=novalue,key@txt",
			want: []Filter{{Key: "key", Operand: "@", Target: "txt"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFilters(tt.spec))
		})
	}
}

func TestBuildFilters_CustomDelimiter(t *testing.T) {
	t.Setenv("RESLOAD_FILTER_DELIM", ";")
	got := BuildFilters("key@a,b;state=fresh")
	assert.Equal(t, []Filter{
		{Key: "key", Operand: "@", Target: "a,b"},
		{Key: "state", Operand: "=", Target: "fresh"},
	}, got)
}

func TestCheckString(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{"equal", "a.txt", Filter{Operand: "=", Target: "a.txt"}, true},
		{"not equal", "a.txt", Filter{Operand: "=", Target: "a.txt", Negate: true}, false},
		{"fold", "A.TXT", Filter{Operand: "~", Target: "a.txt"}, true},
		{"prefix", "https://x/a", Filter{Operand: "^", Target: "https://"}, true},
		{"contains", "dir/a.json", Filter{Operand: "@", Target: "a.j"}, true},
		{"greater", "b", Filter{Operand: ">", Target: "a"}, true},
		{"less", "b", Filter{Operand: "<", Target: "a"}, false},
		{"regex", "a.yaml", Filter{Operand: "/", Target: `\.ya?ml$`}, true},
		{"bad regex", "a", Filter{Operand: "/", Target: "("}, false},
		{"unknown operand", "a", Filter{Operand: "?", Target: "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkString(tt.value, tt.filter))
		})
	}
}

func TestCheckNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{"equal", 5, Filter{Operand: "=", Target: "5"}, true},
		{"greater", 5, Filter{Operand: ">", Target: "4"}, true},
		{"not greater", 5, Filter{Operand: ">", Target: "4", Negate: true}, false},
		{"less", 5, Filter{Operand: "<", Target: " 10 "}, true},
		{"bad target", 5, Filter{Operand: "=", Target: "five"}, false},
		{"string operand", 5, Filter{Operand: "^", Target: "5"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNumber(tt.value, tt.filter))
		})
	}
}

func TestFilterRows(t *testing.T) {
	rows := []map[string]interface{}{
		{"key": "a.txt", "size": 5, "state": "fresh", "cached": true},
		{"key": "b.json", "size": 120, "state": "expired", "cached": true},
		{"key": "https://x/c.yaml", "size": int64(40), "state": "fresh", "cached": false},
		{"key": "d.hcl", "size": nil, "state": "fresh", "cached": true},
	}

	keys := func(rs []map[string]interface{}) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r["key"].(string))
		}
		return out
	}

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{"no filter", "", []string{"a.txt", "b.json", "https://x/c.yaml", "d.hcl"}},
		{"by state", "state=fresh", []string{"a.txt", "https://x/c.yaml", "d.hcl"}},
		{"numeric", "size>10", []string{"b.json", "https://x/c.yaml"}},
		{"combined", "state=fresh,size<100", []string{"a.txt", "https://x/c.yaml"}},
		{"bool", "cached=false", []string{"https://x/c.yaml"}},
		{"unknown column ignored", "nope=1,key^a", []string{"a.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(FilterRows(rows, tt.spec)))
		})
	}
}
