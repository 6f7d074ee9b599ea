package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const Width = 80

const (
	PanelTitle  = "Ai Generated Commit Message"
	Description = "CheekyAI utilizes artificial intelligence to suggest and/or examine commit messages, " +
		"ensuring that the provided commit message aligns with the content of the commit.\n\n" +
		"Use -h for the help menu"
)

const (
	rainbowBegin = "⬛🟫🟥🟧🟨🟩🟦🟪⬜ "
	rainbowEnd   = " ⬜🟪🟦🟩🟨🟧🟥🟫⬛"
)

var (
	white = lipgloss.Color("15")
	red   = lipgloss.Color("9")
	green = lipgloss.Color("10")
	cyan  = lipgloss.Color("14")
	blue  = lipgloss.Color("4")

	horizontals = lipgloss.Border{Top: "─", Bottom: "─"}

	bannerStyle = lipgloss.NewStyle().
			Width(Width).
			Bold(true).
			Foreground(white).
			Border(horizontals, true, false)
	labelStyle = lipgloss.NewStyle().Width(20).Align(lipgloss.Right).PaddingRight(1)
	valueStyle = lipgloss.NewStyle().Width(50)

	rowStyle = lipgloss.NewStyle().
			Width(Width).
			Border(horizontals, false, false, true, false)

	whiteText = lipgloss.NewStyle().Foreground(white)
	redText   = lipgloss.NewStyle().Foreground(red)
	greenText = lipgloss.NewStyle().Foreground(green)
	cyanText  = lipgloss.NewStyle().Foreground(cyan)
	boldText  = lipgloss.NewStyle().Bold(true)
	reverse   = lipgloss.NewStyle().Reverse(true)
)

// Banner shows where requests go. A custom server is highlighted so it is not mistaken for OpenAI.
func Banner(uri, model string) string {
	style := bannerStyle
	connectingTo := "OpenAI"
	if uri != "" {
		style = style.Background(blue)
		connectingTo = uri
	}

	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Connecting to:"), valueStyle.Render(connectingTo)),
	}
	if model != "" {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Model:"), valueStyle.Render(model)))
	}

	title := lipgloss.PlaceHorizontal(Width, lipgloss.Center, "CheekyAI 😀")
	body := style.Render(lipgloss.JoinVertical(lipgloss.Left,
		Description,
		"",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	))

	return "\n" + title + "\n" + body + "\n"
}

// Panel shows a generated message. Silent mode prints the bare message so it can be piped.
func Panel(message string, silent bool) string {
	if silent {
		return message + "\n"
	}

	return "\n" +
		lipgloss.PlaceHorizontal(Width, lipgloss.Center, rainbowBegin+PanelTitle+rainbowEnd) +
		"\n\n" +
		whiteText.Width(Width).Render(message) +
		"\n\n"
}

// Comparison puts the original message next to the generated one, one row each.
func Comparison(original, generated string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		rowStyle.BorderTop(true).Render(whiteText.Render("Original Commit Message:")),
		rowStyle.Render(redText.Render(strings.TrimSpace(original))),
		rowStyle.Render(whiteText.Render(PanelTitle)),
		rowStyle.Render(cyanText.Render(strings.TrimSpace(generated))),
	) + "\n"
}

func Tip() string {
	return "\n" + whiteText.Render(boldText.Render("Tip:")+" Use "+reverse.Render("git commit --amend")+" to update the commit message.") + "\n\n"
}

func Confidence(confidence int) string {
	return fmt.Sprintf("\n%v %v\n", greenText.Render("Inference Confidence Level:"), whiteText.Render(fmt.Sprintf("%v%%", confidence)))
}

func Passed() string {
	return "\n" + greenText.Render("🟢 Commit Message Check Passed") + "\n"
}

func Failed() string {
	return "\n" + redText.Render("🔴 Commit Message Check Failed") + "\n\n"
}

func Error(err error) string {
	return fmt.Sprintf("\n\n%v %v\n", redText.Render("🚨 An error occurred:"), whiteText.Render(err.Error()))
}

func Exiting(code int) string {
	return fmt.Sprintf("🛑 Exiting with status code %v.\n", code)
}

func CurrentCommit(hash string) string {
	return fmt.Sprintf("Current Commit: %v\n\n", hash)
}
