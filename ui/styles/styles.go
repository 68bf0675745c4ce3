package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/CosmicDialog/internal/models"
)

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Width(max(width-4, 0))
}

// DisabledInputStyle is used while a turn is running
func DisabledInputStyle(width int) lipgloss.Style {
	return InputStyle(width).
		BorderForeground(lipgloss.Color("240")).
		Foreground(lipgloss.Color("240"))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func ErrorStatusStyle(width int) lipgloss.Style {
	return StatusStyle(width).
		Foreground(lipgloss.Color("203"))
}

func SystemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 2)
}

func UserStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("39")).
		Padding(0, 1).
		MarginLeft(2)
}

func AssistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("214")).
		Padding(0, 1).
		MarginLeft(2)
}

func PlannerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("141")).
		Padding(0, 1).
		MarginLeft(2)
}

func ExecutorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("78")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("78")).
		Padding(0, 1).
		MarginLeft(2)
}

// RoleStyle picks the body style for a message role
func RoleStyle(role models.Role) lipgloss.Style {
	switch role {
	case models.User:
		return UserStyle()
	case models.Assistant:
		return AssistantStyle()
	case models.Planner:
		return PlannerStyle()
	case models.Executor:
		return ExecutorStyle()
	}
	return SystemStyle()
}

// HeaderStyle renders the "Label · 15:04" line above a message
func HeaderStyle(role models.Role) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(RoleStyle(role).GetBorderLeftForeground()).
		MarginLeft(2)
}

func TimestampStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
}

func ConsoleStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 1).
		Width(max(width-4, 0))
}

func ConsoleTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252"))
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)
}

// ToolStatusStyle colours a tool log status badge
func ToolStatusStyle(status models.ToolStatus) lipgloss.Style {
	color := lipgloss.Color("214")
	switch status {
	case models.StatusSuccess:
		color = lipgloss.Color("78")
	case models.StatusError:
		color = lipgloss.Color("203")
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(color)
}

func ToolNameStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("81"))
}

func ToastStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Padding(0, 1).
		MaxWidth(width)
}

func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))
}
