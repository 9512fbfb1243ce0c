package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func Start() {
	fileSelector := CreateFileSelector()
	if err := tea.NewProgram(&fileSelector).Start(); err != nil {
		panic(err)
	}
}
