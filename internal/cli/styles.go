package cli

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#0969DA")
	accentColor  = lipgloss.Color("#2DA44E")
	warningColor = lipgloss.Color("#D29922")
	errorColor   = lipgloss.Color("#CF222E")
	dimColor     = lipgloss.Color("#6E7681")
	linkColor    = lipgloss.Color("#58A6FF")
	scoreColor   = lipgloss.Color("#F778BA")
	titleColor   = lipgloss.Color("#39D353")
	dateColor    = lipgloss.Color("#A371F7")
	sourceColor  = lipgloss.Color("#FFA657")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(titleColor).
			Bold(true)

	CategoryStyle = lipgloss.NewStyle().
			Foreground(sourceColor)

	PriceStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	StrikeStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Strikethrough(true)

	RatingStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(scoreColor).
			Bold(true)

	DateStyle = lipgloss.NewStyle().
			Foreground(dateColor).
			Italic(true)

	LinkStyle = lipgloss.NewStyle().
			Foreground(linkColor).
			Underline(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)
)

var HighlightStyle = lipgloss.NewStyle().
	Foreground(scoreColor).
	Bold(true).
	Underline(true)
