// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/staranto/resload/internal/cache"
	"github.com/staranto/resload/internal/config"
	"github.com/staranto/resload/internal/filters"
)

// Columns are the row keys, in display order.
var Columns = []string{"key", "size", "expires", "state"}

// Options controls how a listing is rendered.
type Options struct {
	Filter string
	Sort   string
	Color  bool
	Titles bool
	// Format is "text" or "json".
	Format string
}

// IsTerminal reports whether f is attached to a terminal. It is the default
// for --color.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Rows flattens entries into filterable rows relative to now.
func Rows(entries []cache.Entry, now time.Time) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		state := "expired"
		if e.Fresh {
			state = "fresh"
		}
		rows = append(rows, map[string]interface{}{
			"key":       e.Key,
			"size":      e.Size,
			"expires":   humanize.RelTime(e.ExpireAt, now, "ago", "from now"),
			"expire_at": e.ExpireAt.UnixMilli(),
			"state":     state,
		})
	}
	return rows
}

// SortRows orders rows by a comma separated list of columns. A leading '-'
// sorts that column descending.
func SortRows(rows []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}
	keys := strings.Split(spec, ",")

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			desc := strings.HasPrefix(k, "-")
			k = strings.TrimPrefix(k, "-")

			// Sorting "expires" by its text would put "10 seconds" before "2".
			if k == "expires" {
				k = "expire_at"
			}

			c := compare(rows[i][k], rows[j][k])
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compare(a, b interface{}) int {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return av - bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(InterfaceToString(a), InterfaceToString(b))
}

// InterfaceToString renders a cell value.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// WriteEntries filters, sorts and writes entries in the requested format.
func WriteEntries(w io.Writer, entries []cache.Entry, now time.Time, opts Options) error {
	rows := filters.FilterRows(Rows(entries, now), opts.Filter)
	SortRows(rows, opts.Sort)

	switch opts.Format {
	case "json":
		return JSONWriter(rows, w)
	case "", "text":
		TableWriter(rows, opts, w)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

// JSONWriter writes rows as an indented JSON array.
func JSONWriter(rows []map[string]interface{}, w io.Writer) error {
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// TableWriter renders rows as a borderless table, sizes humanized.
func TableWriter(rows []map[string]interface{}, opts Options, w io.Writer) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 2)

	var cells [][]string
	for _, row := range rows {
		line := make([]string, 0, len(Columns))
		for _, col := range Columns {
			v := row[col]
			if col == "size" {
				if n, ok := v.(int); ok {
					v = humanize.Bytes(uint64(n))
				}
			}
			line = append(line, InterfaceToString(v, "-"))
		}
		cells = append(cells, line)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if opts.Titles {
		t = t.Headers(Columns...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}
