// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// filterRegex splits an expression into column, operator and target. The
// operator is one of = ^ ~ < > @ / and may be negated with a leading '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a comma separated filter spec. Malformed expressions
// are logged and dropped.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	delim := ","
	if d, ok := os.LookupEnv("RESLOAD_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	//nolint:prealloc
	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil || parts[1] == "" {
			log.Error("invalid filter: " + expr)
			continue
		}

		op := parts[2]
		negate := strings.HasPrefix(op, "!")
		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: strings.TrimPrefix(op, "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// FilterRows returns the rows that match every filter in spec. Rows are
// flat maps; filter keys name their columns.
func FilterRows(rows []map[string]interface{}, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return rows
	}

	//nolint:prealloc
	var kept []map[string]interface{}
	for _, row := range rows {
		if matches(row, filters) {
			kept = append(kept, row)
		}
	}
	return kept
}

// matches reports whether row passes all filters. A filter on an unknown
// column is reported and ignored rather than rejecting every row.
func matches(row map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		value, ok := row[f.Key]
		if !ok {
			msg := fmt.Sprintf("filter key not found: %s", f.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		var pass bool
		switch v := value.(type) {
		case nil:
			pass = false
		case string:
			pass = checkString(v, f)
		case bool:
			pass = checkString(strconv.FormatBool(v), f)
		case int:
			pass = checkNumber(float64(v), f)
		case int64:
			pass = checkNumber(float64(v), f)
		case float64:
			pass = checkNumber(v, f)
		default:
			pass = checkString(fmt.Sprint(v), f)
		}

		if !pass {
			return false
		}
	}
	return true
}

// checkString applies a string operator. Negation flips the outcome.
func checkString(value string, f Filter) bool {
	var result bool
	switch f.Operand {
	case "=":
		result = value == f.Target
	case "~":
		result = strings.EqualFold(value, f.Target)
	case "^":
		result = strings.HasPrefix(value, f.Target)
	case ">":
		result = value > f.Target
	case "<":
		result = value < f.Target
	case "@":
		result = strings.Contains(value, f.Target)
	case "/":
		re, err := regexp.Compile(f.Target)
		if err != nil {
			log.Error("invalid regex: " + f.Target)
			return false
		}
		result = re.MatchString(value)
	default:
		log.Error("unsupported filtering operand: " + f.Operand)
		return false
	}
	return result != f.Negate
}

// checkNumber compares numerically; only =, > and < apply.
func checkNumber(value float64, f Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + f.Target)
		return false
	}

	var result bool
	switch f.Operand {
	case "=":
		result = value == tgt
	case ">":
		result = value > tgt
	case "<":
		result = value < tgt
	default:
		log.Error("unsupported numeric operand: " + f.Operand)
		return false
	}
	return result != f.Negate
}
