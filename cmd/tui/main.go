package main

import (
	"fmt"
	"os"

	"github.com/careassist/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

func main() {
	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "careassist tui requires an interactive terminal")
		os.Exit(1)
	}

	env := os.Getenv("CAREASSIST_ENV")

	if env == "" {
		env = "development"
	}

	app := tui.NewApp(env)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Printf("error running careassist: %v\n", err)
		os.Exit(1)
	}
}
