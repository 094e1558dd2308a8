// Package builtin embeds the scenes shipped with the overworld and
// registers them with the scene registry.
package builtin

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/vovakirdan/tui-overworld/internal/registry"
	"github.com/vovakirdan/tui-overworld/internal/scene"
)

//go:embed scenes/*.yaml
var scenesFS embed.FS

func init() {
	entries, err := fs.ReadDir(scenesFS, "scenes")
	if err != nil {
		panic(fmt.Sprintf("builtin: %v", err))
	}

	for _, e := range entries {
		data, err := scenesFS.ReadFile(path.Join("scenes", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("builtin: %v", err))
		}
		// Parse once up front so a broken embedded scene fails at startup.
		s, err := scene.Parse(data)
		if err != nil {
			panic(fmt.Sprintf("builtin: %s: %v", e.Name(), err))
		}
		registry.Register(s.ID, func() *scene.Scene {
			fresh, _ := scene.Parse(data)
			return fresh
		})
	}
}
