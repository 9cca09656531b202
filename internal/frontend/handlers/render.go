package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/fortune/internal/frontend/telnet"
	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/locale"
	"github.com/cory-johannsen/fortune/internal/game/rotation"
	"github.com/cory-johannsen/fortune/internal/game/widget"
)

const barWidth = 20

// RenderWheel formats the option list and any shown result.
func RenderWheel(loc *locale.Locale, v widget.WheelView) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.Bold+telnet.BrightYellow, loc.Wheel.Title))
	b.WriteString(telnet.Colorf(telnet.Dim, "  (%s)", loc.OptionsCount(len(v.Labels))))
	b.WriteString("\r\n")
	if len(v.Labels) == 0 {
		b.WriteString(telnet.Colorize(telnet.Yellow, "  "+loc.Wheel.Empty))
		b.WriteString("\r\n")
	}
	for i, label := range v.Labels {
		marker := "  "
		color := telnet.White
		if v.HasResult && i == v.LastSelected {
			marker = telnet.Colorize(telnet.BrightGreen, "▶ ")
			color = telnet.BrightGreen
		}
		fmt.Fprintf(&b, "%s%s %s\r\n", marker, telnet.Colorf(telnet.Dim, "%2d.", i+1), telnet.Colorize(color, label))
	}
	if v.HasResult {
		b.WriteString(RenderResult(loc.Wheel.ResultTitle, v.Result))
	}
	return b.String()
}

// RenderCoin formats the coin face and any shown result.
func RenderCoin(loc *locale.Locale, v widget.CoinView) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.Bold+telnet.BrightYellow, loc.Coin.Title))
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "  ( %s )\r\n", telnet.Colorize(telnet.BrightWhite, loc.Face(v.Face)))
	if v.HasResult {
		b.WriteString(RenderResult(loc.Coin.Title, v.Result))
	}
	b.WriteString(telnet.Colorize(telnet.Dim, "  "+loc.Coin.Footer))
	b.WriteString("\r\n")
	return b.String()
}

// RenderNumber formats the generator's last value.
func RenderNumber(loc *locale.Locale, v widget.NumberView) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.Bold+telnet.BrightYellow, loc.Number.Title))
	b.WriteString("\r\n")
	switch {
	case v.Invalid && v.HasValue:
		fmt.Fprintf(&b, "  %s %s\r\n", telnet.Colorize(telnet.BrightRed, loc.Number.Invalid), telnet.Colorf(telnet.Dim, "%d", v.Value))
	case v.Invalid:
		fmt.Fprintf(&b, "  %s\r\n", telnet.Colorize(telnet.BrightRed, loc.Number.Invalid))
	case v.HasValue:
		fmt.Fprintf(&b, "  %s\r\n", telnet.Colorf(telnet.Bold+telnet.BrightGreen, "%d", v.Value))
	default:
		fmt.Fprintf(&b, "  %s\r\n", telnet.Colorize(telnet.Dim, "-"))
	}
	b.WriteString(telnet.Colorize(telnet.Dim, "  "+loc.Number.Tip))
	b.WriteString("\r\n")
	return b.String()
}

// RenderResult formats a highlighted result line.
func RenderResult(title, value string) string {
	return fmt.Sprintf("%s %s\r\n",
		telnet.Colorize(telnet.BrightCyan, title+":"),
		telnet.Colorize(telnet.Bold+telnet.BrightGreen, value))
}

// WheelFrame renders one animation frame as a single line: a progress bar
// and the option currently under the pointer.
func WheelFrame(labels []string, dial rotation.Wheel, f animation.Frame) string {
	label := ""
	if len(labels) > 0 {
		label = labels[dial.SectorAt(f.Rotation)]
	}
	return fmt.Sprintf("%s %s %s", progressBar(f.Progress),
		telnet.Colorize(telnet.BrightYellow, "▶"), telnet.Colorize(telnet.BrightWhite, label))
}

// CoinFrame renders one coin animation frame as the face currently shown.
func CoinFrame(loc *locale.Locale, f animation.Frame) string {
	face := rotation.Coin{}.FaceAt(f.Rotation)
	return fmt.Sprintf("%s ( %s )", progressBar(f.Progress), telnet.Colorize(telnet.BrightWhite, loc.Face(face)))
}

func progressBar(p float64) string {
	filled := int(p * barWidth)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return telnet.Colorize(telnet.Cyan, "["+strings.Repeat("#", filled)+strings.Repeat(".", barWidth-filled)+"]")
}

// RenderLanguages lists the available locales, marking the active one.
func RenderLanguages(table *locale.Table, active string) string {
	var b strings.Builder
	for _, code := range table.Codes() {
		marker := "  "
		if code == active {
			marker = telnet.Colorize(telnet.BrightGreen, "* ")
		}
		fmt.Fprintf(&b, "%s%-4s %s\r\n", marker, code, table.Lookup(code).Name)
	}
	return b.String()
}

const helpText = `Commands:
  wheel | coin | number     switch mode
  <enter>                   spin, flip or generate again in the current mode
  spin                      spin the wheel
  add <option>              add a wheel option
  remove <n>                remove wheel option n
  again                     remove the last result and spin again
  close                     hide the wheel result
  flip                      flip the coin
  gen <min> <max>           pick a whole number in [min, max]
  reset                     reset the current wheel or coin
  show                      redraw the current mode
  lang [code]               list languages or switch language
  profile [name]            show or switch the settings profile
  quit                      disconnect
`

// RenderHelp returns the command reference.
func RenderHelp() string {
	return strings.ReplaceAll(helpText, "\n", "\r\n")
}
