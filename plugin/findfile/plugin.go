package findfile

import (
	"context"

	"github.com/kbukum/speechkit/plugin"
)

// PluginName is the name the plugin is registered under.
const PluginName = "FindFilePlugin"

// NewPlugin exposes l as a plugin with a single LocateFile function.
func NewPlugin(l *Locator) *plugin.Plugin {
	if l == nil {
		l = NewLocator()
	}
	return &plugin.Plugin{
		Name:        PluginName,
		Description: "Locate local files for transcription.",
		Functions: []plugin.Function{{
			Name:        "LocateFile",
			Description: "Find files in common folders.",
			Parameters: []plugin.Parameter{
				{Name: "fileName", Description: "The name of the file", Type: plugin.TypeString, Required: true},
				{Name: "commonFolderName", Description: "The name of the common folder", Type: plugin.TypeString},
			},
			Handler: func(ctx context.Context, args plugin.Arguments) (string, error) {
				name, err := args.String("fileName")
				if err != nil {
					return "", err
				}
				folder, err := args.String("commonFolderName")
				if err != nil {
					return "", err
				}
				return l.LocateFile(ctx, name, folder)
			},
		}},
	}
}
