package components

import (
	"time"

	"github.com/Rorical/CosmicDialog/internal/models"
	"github.com/Rorical/CosmicDialog/ui/styles"
)

// RenderToast shows the latest tool notification until it expires
func RenderToast(toast *models.Toast, now time.Time, width int) string {
	if toast == nil || !now.Before(toast.Expires) {
		return ""
	}
	text := toast.Title
	if toast.Description != "" {
		text += " · " + oneLine(toast.Description)
	}
	return styles.ToastStyle(width).Render(text)
}
