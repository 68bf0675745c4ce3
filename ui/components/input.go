package components

import (
	"github.com/Rorical/CosmicDialog/ui/styles"
)

// RenderInput frames the editor view; the frame greys out while busy
func RenderInput(editorView string, loading bool, width int) string {
	inputStyle := styles.InputStyle(width)
	if loading {
		inputStyle = styles.DisabledInputStyle(width)
	}
	return inputStyle.Render(editorView)
}
