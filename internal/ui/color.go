// Package ui holds terminal styling shared by the CLI and the console sink.
package ui

import (
	"github.com/pterm/pterm"
)

// LightTheme switches to the darker colour set for light terminals.
var LightTheme bool

func Green(a any) string {
	if LightTheme {
		return pterm.Green(a)
	}

	return pterm.LightGreen(a)
}

func Cyan(a any) string {
	if LightTheme {
		return pterm.Cyan(a)
	}

	return pterm.LightCyan(a)
}

func Magenta(a any) string {
	if LightTheme {
		return pterm.Magenta(a)
	}

	return pterm.LightMagenta(a)
}

func Red(a any) string {
	if LightTheme {
		return pterm.Red(a)
	}

	return pterm.LightRed(a)
}
