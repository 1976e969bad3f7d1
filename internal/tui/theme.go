package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors of the terminal editor, as ANSI 256 codes.
type Theme struct {
	NormalText         lipgloss.Color
	FaintText          lipgloss.Color
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	Playing            lipgloss.Color
	Paused             lipgloss.Color
	Error              lipgloss.Color
	HelpText           lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("230"),
	Playing:            lipgloss.Color("42"),
	Paused:             lipgloss.Color("214"),
	Error:              lipgloss.Color("203"),
	HelpText:           lipgloss.Color("241"),
}

type styles struct {
	row      lipgloss.Style
	selected lipgloss.Style
	faint    lipgloss.Style
	playing  lipgloss.Style
	paused   lipgloss.Style
	err      lipgloss.Style
	header   lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		row:      lipgloss.NewStyle().Foreground(theme.NormalText),
		selected: lipgloss.NewStyle().Foreground(theme.SelectedForeground).Background(theme.SelectedBackground).Bold(true),
		faint:    lipgloss.NewStyle().Foreground(theme.FaintText),
		playing:  lipgloss.NewStyle().Foreground(theme.Playing).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(theme.Paused).Bold(true),
		err:      lipgloss.NewStyle().Foreground(theme.Error),
		header:   lipgloss.NewStyle().Foreground(theme.FaintText).Underline(true),
	}
}
