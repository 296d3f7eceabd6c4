// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the host manifest: the HCL files that tell the host which
// native libraries must be present before any module can run, and which
// options each compiled-in feature module is constructed with.
//
// The module list itself is not part of the manifest. Which modules exist,
// and in what order, is fixed at compile time; the manifest only configures
// them. A manifest that configures a module the binary does not contain is
// rejected by the application at startup.
package manifest

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flightdrop/internal/ctxlog"
	"github.com/vk/flightdrop/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Manifest is the merged content of every manifest file.
type Manifest struct {
	Native  Native
	Modules Options

	// EvalContext is used to evaluate module option expressions. It exposes
	// `build.debug` and `env.<NAME>`.
	EvalContext *hcl.EvalContext
}

// Native lists the shared libraries the host needs before startup.
type Native struct {
	SearchPaths []string
	Libraries   []string
}

// Options maps a module name to its unevaluated `module` block body.
type Options map[string]hcl.Body

// Decode evaluates the options block for the named module into target, which
// must be a pointer to a struct with `hcl` tags. A module without a block
// keeps whatever defaults target already holds.
func (o Options) Decode(name string, evalCtx *hcl.EvalContext, target any) error {
	body, ok := o[name]
	if !ok {
		return nil
	}
	if diags := gohcl.DecodeBody(body, evalCtx, target); diags.HasErrors() {
		return fmt.Errorf("failed to decode options for module %q: %w", name, diags)
	}
	return nil
}

// Names returns the configured module names, sorted.
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hclManifestFile is the top-level structure of a manifest file for decoding.
type hclManifestFile struct {
	Native  []*hclNative `hcl:"native,block"`
	Modules []*hclModule `hcl:"module,block"`
}

type hclNative struct {
	SearchPaths []string `hcl:"search_paths,optional"`
	Libraries   []string `hcl:"libraries,optional"`
}

type hclModule struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// NewEvalContext builds the variables available to manifest expressions.
func NewEvalContext(debug bool) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && pair[0] != "" {
			env[pair[0]] = cty.StringVal(pair[1])
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"build": cty.ObjectVal(map[string]cty.Value{
				"debug": cty.BoolVal(debug),
			}),
			"env": cty.ObjectVal(env),
		},
	}
}

// Load finds every .hcl file under paths and merges them into one Manifest.
// With no paths the result is an empty manifest.
func Load(ctx context.Context, debug bool, paths ...string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	m := &Manifest{
		Modules:     make(Options),
		EvalContext: NewEvalContext(debug),
	}

	var files []string
	for _, p := range paths {
		found, err := fsutil.FindFilesByExtension(p, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find manifest files in %s: %w", p, err)
		}
		if len(found) == 0 {
			logger.Warn("No .hcl manifest files found in path.", "path", p)
		}
		files = append(files, found...)
	}

	parser := hclparse.NewParser()
	nativeFrom := ""
	moduleFrom := make(map[string]string)

	for _, filePath := range files {
		file, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var parsed hclManifestFile
		if diags := gohcl.DecodeBody(file.Body, m.EvalContext, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
		}

		for _, n := range parsed.Native {
			if nativeFrom != "" {
				return nil, fmt.Errorf("duplicate native block in %s, already declared in %s", filePath, nativeFrom)
			}
			nativeFrom = filePath
			m.Native = Native{SearchPaths: n.SearchPaths, Libraries: n.Libraries}
		}

		for _, mod := range parsed.Modules {
			if prev, exists := moduleFrom[mod.Name]; exists {
				return nil, fmt.Errorf("duplicate module block %q in %s, already declared in %s", mod.Name, filePath, prev)
			}
			moduleFrom[mod.Name] = filePath
			m.Modules[mod.Name] = mod.Body
		}

		logger.Debug("Manifest file loaded.", "file", filePath, "modules", len(parsed.Modules))
	}

	logger.Debug("Manifest loaded.", "files", len(files), "libraries", len(m.Native.Libraries), "configured_modules", m.Modules.Names())
	return m, nil
}
