package main

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

var flavor = catppuccin.Mocha

var (
	colorText     = lipgloss.Color(flavor.Text().Hex)
	colorSubtext0 = lipgloss.Color(flavor.Subtext0().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
	colorGreen    = lipgloss.Color(flavor.Green().Hex)
	colorRed      = lipgloss.Color(flavor.Red().Hex)
	colorYellow   = lipgloss.Color(flavor.Yellow().Hex)
	colorMauve    = lipgloss.Color(flavor.Mauve().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(colorText)

	// hiddenStyle marks names an admin has hidden from tournament play.
	hiddenStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Italic(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)
