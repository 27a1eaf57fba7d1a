// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package sketch

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed templates/sketch.ino
var firmwareTemplate string

// Config carries the session parameters that are substituted into the
// firmware template alongside the per-device accumulators.
type Config struct {
	BaudRate       int
	CmdTerminator  string
	DataTerminator string
	WhitespaceSub  string
}

// Generate assembles a complete firmware source file from the registered
// descriptors in attachment order. Include lines are intentionally not
// deduplicated; the target toolchain's include guards make repeats harmless.
//
// Generation is deterministic: the same descriptors and config always
// produce byte-identical output, which the upload pipeline relies on for
// hash-based change detection.
func Generate(cfg Config, descriptors []*Descriptor) (string, error) {
	var headers, globals, setups, methods, loop strings.Builder

	for i, d := range descriptors {
		if err := d.validate(); err != nil {
			return "", err
		}

		for _, lib := range d.libraries {
			fmt.Fprintf(&headers, "#include <%s>\n", lib)
		}
		globals.WriteString(d.global)
		setups.WriteString(d.setup)

		for _, method := range d.methods {
			name := dispatchName(method, d.kind, i)
			fmt.Fprintf(&methods, "void %s() {\n %s }\n", name, d.bodies[method])
		}

		// Dispatch branches follow attachment order, then per-kind method
		// order. Branches are exclusive else-if arms keyed on distinct
		// codes, so the order only affects readability and the content hash.
		for _, method := range d.methods {
			name := dispatchName(method, d.kind, i)
			fmt.Fprintf(&loop, "else if(currentCommand == %d){ %s(); currentCommand = -1;}\n\n", d.commands[method], name)
		}
	}

	return expandTemplate(firmwareTemplate, map[string]string{
		"header":          headers.String(),
		"global_vars":     globals.String(),
		"baudrate":        strconv.Itoa(cfg.BaudRate),
		"cmd_terminator":  EscapeWhitespace(cfg.CmdTerminator),
		"data_terminator": EscapeWhitespace(cfg.DataTerminator),
		"whitespace_sub":  EscapeWhitespace(cfg.WhitespaceSub),
		"setup":           setups.String(),
		"loop":            loop.String(),
		"methods":         methods.String(),
	})
}

// dispatchName synthesizes the firmware function name for one (device,
// method) pair: method, kind tag, and attachment index joined in snake
// style, then converted to camel style.
func dispatchName(method string, kind Kind, index int) string {
	return SnakeToCamel(fmt.Sprintf("%s_%s_%d", method, kind, index))
}

// expandTemplate substitutes named placeholders of the form $name or
// ${name}. There is deliberately no control flow here; an unknown
// placeholder is an error rather than a silent empty expansion.
func expandTemplate(template string, vars map[string]string) (string, error) {
	var missing []string
	expanded := os.Expand(template, func(name string) string {
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return ""
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("template references unknown placeholders: %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}
