package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	videoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	extraStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// paint renders text with style on a terminal and leaves it untouched
// otherwise, so piped output and tests see plain text.
func paint(style lipgloss.Style, text string) string {
	if !IsTerminal() {
		return text
	}
	return style.Render(text)
}

// Success prints success text
func Success(text string) string {
	return paint(successStyle, text)
}

// Error prints error text
func Error(text string) string {
	return paint(errorStyle, text)
}

// Warning prints warning text
func Warning(text string) string {
	return paint(warningStyle, text)
}

// Info prints info text
func Info(text string) string {
	return paint(infoStyle, text)
}

// Dim prints dim text
func Dim(text string) string {
	return paint(dimStyle, text)
}

func Video(text string) string {
	return paint(videoStyle, text)
}

func Subtitle(text string) string {
	return paint(subtitleStyle, text)
}

func Extra(text string) string {
	return paint(extraStyle, text)
}

// SuccessMsg prints a success message
func SuccessMsg(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Success("✓")+" "+fmt.Sprintf(format, args...))
}

// ErrorMsg prints an error message
func ErrorMsg(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Error("✗")+" "+fmt.Sprintf(format, args...))
}

// WarningMsg prints a warning message
func WarningMsg(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Warning("⚠")+" "+fmt.Sprintf(format, args...))
}

// InfoMsg prints an info message
func InfoMsg(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, Info("ℹ")+" "+fmt.Sprintf(format, args...))
}
