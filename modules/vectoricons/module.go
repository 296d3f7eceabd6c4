// Package vectoricons serves vector icon fonts to the script bundle.
package vectoricons

import (
	"fmt"
	"slices"

	"github.com/vk/flightdrop/internal/module"
)

// Name is the module's registry name.
const Name = "vectoricons"

// Fonts bundled with the host.
var bundledFonts = []string{
	"Entypo",
	"FontAwesome",
	"Ionicons",
	"MaterialCommunityIcons",
	"MaterialIcons",
}

type options struct {
	Fonts []string `hcl:"fonts,optional"`
}

// Module implements module.Module for this package.
type Module struct {
	module.Static
	fonts []string
}

// New constructs the module. The optional `fonts` option restricts the
// bundled fonts; naming a font that is not bundled is an error.
func New(mc *module.Context) (module.Module, error) {
	opts := options{Fonts: bundledFonts}
	if err := mc.DecodeOptions(Name, &opts); err != nil {
		return nil, err
	}
	for _, f := range opts.Fonts {
		if !slices.Contains(bundledFonts, f) {
			return nil, fmt.Errorf("icon font %q is not bundled", f)
		}
	}

	return &Module{
		Static: module.NewStatic(Name, module.Service("RNVectorIconsManager")),
		fonts:  slices.Clone(opts.Fonts),
	}, nil
}

// Fonts returns the enabled icon fonts.
func (m *Module) Fonts() []string {
	return slices.Clone(m.fonts)
}
