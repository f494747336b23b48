// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/tidwall/gjson"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gopkg.in/yaml.v3"
)

// UnknownExtension is displayed for identifiers no extractor handles.
const UnknownExtension = "unknown extension"

// textField is the field every structured format carries its text in.
const textField = "text"

// Func turns the raw text behind an identifier into display text. It never
// fails: extraction errors come back as the display value.
type Func func(id, raw string) string

// Extractor pulls the display text out of one format.
type Extractor func(raw string) (string, error)

// Parser dispatches on the identifier's extension.
type Parser struct {
	extractors map[string]Extractor
}

// New returns a parser for txt, json, js, yaml/yml and hcl.
func New() *Parser {
	return &Parser{extractors: map[string]Extractor{
		"txt":  Text,
		"json": JSON,
		"js":   JSONP,
		"yaml": YAML,
		"yml":  YAML,
		"hcl":  HCL,
	}}
}

// Register adds or replaces the extractor for ext.
func (p *Parser) Register(ext string, fn Extractor) {
	p.extractors[strings.ToLower(ext)] = fn
}

// Parse implements Func.
func (p *Parser) Parse(id, raw string) string {
	ext := Extension(id)
	fn, ok := p.extractors[ext]
	if !ok {
		log.Debugf("no extractor for %q (%s)", ext, id)
		return UnknownExtension
	}

	text, err := fn(raw)
	if err != nil {
		log.WithError(err).Debugf("extraction failed: %s", id)
		return err.Error()
	}
	return text
}

// Extension returns the lowercased text after the last dot in id's path.
// Query strings and fragments are ignored.
func Extension(id string) string {
	p := id
	if u, err := url.Parse(id); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := path.Ext(p)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Text returns raw unchanged.
func Text(raw string) (string, error) {
	return raw, nil
}

// JSON returns the top-level "text" field of a JSON document.
func JSON(raw string) (string, error) {
	if !gjson.Valid(raw) {
		return "", errors.New("invalid json")
	}
	return gjson.Get(raw, textField).String(), nil
}

// jsonpRegex matches a single cb(...) call, optionally ;-terminated.
var jsonpRegex = regexp.MustCompile(`(?s)^\s*cb\s*\((.*)\)\s*;?\s*$`)

// JSONP handles scripts of the form cb({...}). The script is not executed:
// the callback argument is decoded as JSON and its "text" field returned.
func JSONP(raw string) (string, error) {
	parts := jsonpRegex.FindStringSubmatch(raw)
	if parts == nil {
		return "", errors.New("script is not a cb(...) call")
	}
	return JSON(parts[1])
}

// YAML returns the top-level "text" key of a YAML document.
func YAML(raw string) (string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return "", fmt.Errorf("invalid yaml: %w", err)
	}
	v, ok := doc[textField]
	if !ok || v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// HCL returns the top-level "text" attribute of an HCL body. The attribute
// is evaluated without variables or functions.
func HCL(raw string) (string, error) {
	file, diags := hclsyntax.ParseConfig([]byte(raw), "resource.hcl", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return "", diags
	}

	attr, ok := attrs[textField]
	if !ok {
		return "", nil
	}

	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() {
		return "", nil
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("text attribute: %w", err)
	}
	if !str.IsKnown() {
		return "", errors.New("text attribute is not known")
	}
	return str.AsString(), nil
}
