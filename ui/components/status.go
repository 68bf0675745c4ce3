package components

import (
	"strings"

	"github.com/Rorical/CosmicDialog/ui/styles"
)

const keyHelp = "enter send · alt+enter newline · ctrl+t logs · ctrl+y copy · ctrl+l clear · ctrl+c quit"

func RenderStatus(status string, loading bool, spinnerView string, width int) string {
	statusStyle := styles.StatusStyle(width)
	if strings.HasPrefix(status, "Error") {
		statusStyle = styles.ErrorStatusStyle(width)
	}

	statusContent := status
	if loading {
		statusContent = spinnerView + " " + statusContent
	}
	if width > len(statusContent)+len(keyHelp)+4 {
		statusContent += "  " + styles.TimestampStyle().Render(keyHelp)
	}

	return statusStyle.Render(statusContent)
}
