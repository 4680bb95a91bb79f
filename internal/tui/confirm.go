package tui

type confirmModel struct {
	message string
}

func (m confirmModel) View() string {
	content := "Delete \"" + m.message + "\" from history?\n\n"
	content += "y yes    n no"
	return overlayBoxStyle.Render(content)
}
