package app

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/bittlabs/chatdock/internal/chat"
	"github.com/bittlabs/chatdock/internal/config"
	"github.com/bittlabs/chatdock/internal/i18n"
	"github.com/bittlabs/chatdock/internal/theme"
	"github.com/bittlabs/chatdock/internal/widget"
)

// GetCanvas composes every visible layer for the current state.
func (m *Model) GetCanvas() *lipgloss.Canvas {
	if m.Width <= 0 || m.Height <= 0 {
		return lipgloss.NewCanvas()
	}

	layers := []*lipgloss.Layer{m.backdropLayer()}
	layers = m.appendLayer(layers, m.renderAnchor(), m.Widget.Anchor().Min, config.ZIndexAnchor, "anchor")

	if m.Widget.Open() {
		popup := m.Widget.Popup()
		layers = m.appendLayer(layers, m.renderPopup(), popup.Min, config.ZIndexPopup, "popup")
		if m.Widget.PickerOpen() {
			layers = m.appendLayer(layers, m.renderPicker(), m.Widget.PickerRect().Min, config.ZIndexPicker, "picker")
		}
	}

	if config.ShowTooltip && m.Widget.Tooltip() {
		content, at := m.renderTooltip()
		layers = m.appendLayer(layers, content, at, config.ZIndexTooltip, "tooltip")
	}

	if m.ShowHelp {
		help := m.renderHelp()
		x := (m.Width - lipgloss.Width(help)) / 2
		y := (m.Height - lipgloss.Height(help)) / 2
		layers = m.appendLayer(layers, help, uv.Pos(x, y), config.ZIndexHelp, "help")
	}

	layers = append(layers, m.notificationLayers()...)

	// the full-screen backdrop sizes the canvas
	return lipgloss.NewCanvas(layers...)
}

// Render returns the composed frame as a string.
func (m *Model) Render() string {
	return lipgloss.Sprint(m.GetCanvas().Render())
}

// View renders the program's view.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(m.Render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

func (m *Model) appendLayer(layers []*lipgloss.Layer, content string, at uv.Position, z int, id string) []*lipgloss.Layer {
	content, x, y := clipContent(content, at.X, at.Y, m.Width, m.Height)
	if content == "" {
		return layers
	}
	return append(layers, lipgloss.NewLayer(content).X(x).Y(y).Z(z).ID(id))
}

func (m *Model) backdropLayer() *lipgloss.Layer {
	glyph := config.GetBackdropGlyph()
	var b strings.Builder
	for y := 0; y < m.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < m.Width; x++ {
			if glyph != "" && x%4 == 0 && y%2 == 0 {
				b.WriteString(glyph)
			} else {
				b.WriteByte(' ')
			}
		}
	}

	style := lipgloss.NewStyle().Foreground(theme.Backdrop())
	content := style.Render(b.String())

	hint := fmt.Sprintf(" %s help  %s quit ",
		m.Keys.GetKeysForDisplay(config.ActionToggleHelp),
		m.Keys.GetKeysForDisplay(config.ActionQuit))
	if m.Height > 1 && lipgloss.Width(hint) < m.Width {
		lines := strings.Split(content, "\n")
		lines[len(lines)-1] = style.Render(fit(hint, m.Width))
		content = strings.Join(lines, "\n")
	}
	return lipgloss.NewLayer(content).X(0).Y(0).Z(config.ZIndexBackdrop).ID("backdrop")
}

func (m *Model) renderAnchor() string {
	size := m.Widget.Config().Anchor
	bg := theme.AnchorBg()
	if m.Widget.Dragging() {
		bg = theme.AnchorDragging()
	}
	return lipgloss.NewStyle().
		Width(size.Width).
		Height(size.Height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Background(bg).
		Foreground(theme.AnchorFg()).
		Bold(true).
		Render(config.GetAnchorIcon())
}

func (m *Model) renderTooltip() (string, uv.Position) {
	box := lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(theme.TooltipBg()).
		Foreground(theme.TooltipFg()).
		Background(theme.TooltipBg()).
		Padding(0, 1).
		Render(m.T(i18n.KeyTooltip))

	anchor := m.Widget.Anchor()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	x := min(max(anchor.Min.X+anchor.Dx()/2-w/2, 0), max(m.Width-w, 0))
	y := anchor.Min.Y - h
	if y < 0 {
		y = anchor.Max.Y
	}
	return box, uv.Pos(x, y)
}

func (m *Model) renderPopup() string {
	popup := m.Widget.Popup()
	width := popup.Dx()

	header := lipgloss.NewStyle().
		Background(theme.HeaderBg()).
		Foreground(theme.HeaderFg()).
		Bold(true).
		Render(fit(" "+m.T(i18n.KeyTitle), width-len(m.Widget.Side().String())-1) + m.Widget.Side().String() + " ")

	lines := []string{header}
	lines = append(lines, m.renderBody(width, m.Widget.BodyRect().Dy())...)
	lines = append(lines, m.renderInputRow(width))
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(width, rows int) []string {
	if rows <= 0 {
		return nil
	}
	blank := lipgloss.NewStyle().Background(theme.PopupBg()).Render(strings.Repeat(" ", width))
	out := make([]string, rows)
	for i := range out {
		out[i] = blank
	}

	msgs := m.Widget.Messages()
	if len(msgs) == 0 {
		out[rows-1] = lipgloss.NewStyle().
			Background(theme.PopupBg()).
			Foreground(theme.Placeholder()).
			Italic(true).
			Render(fit(" "+m.T(i18n.KeyEmpty), width))
		return out
	}

	end := len(msgs) - m.Widget.Scroll()
	start := max(end-rows, 0)
	row := rows - (end - start)
	for _, msg := range msgs[start:end] {
		out[row] = renderMessageLine(msg, width)
		row++
	}
	return out
}

func renderMessageLine(msg chat.Message, width int) string {
	bg := theme.PopupBg()
	ts := lipgloss.NewStyle().Background(bg).Foreground(theme.Timestamp()).
		Render(" " + msg.Timestamp.Format(config.TimestampFormat) + " ")
	author := lipgloss.NewStyle().Background(bg).Foreground(theme.AuthorColor(msg.Author)).Bold(true).
		Render(msg.Author)
	text := lipgloss.NewStyle().Background(bg).Foreground(theme.PopupFg()).
		Render(": " + strings.ReplaceAll(msg.Text, "\n", " "))

	line := ansi.Truncate(ts+author+text, width, "…")
	if pad := width - ansi.StringWidth(line); pad > 0 {
		line += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", pad))
	}
	return line
}

func (m *Model) renderInputRow(width int) string {
	bg := theme.InputBg()
	toggle := lipgloss.NewStyle().Background(bg).Foreground(theme.PopupFg()).
		Render(center(config.GetEmojiToggleIcon(), widget.EmojiToggleWidth))

	fieldWidth := m.Widget.InputRect().Dx()
	var field string
	if input := m.Widget.Input(); input == "" {
		field = lipgloss.NewStyle().Background(bg).Foreground(theme.Placeholder()).
			Render(fit(m.T(i18n.KeyPlaceholder), fieldWidth))
	} else {
		field = lipgloss.NewStyle().Background(bg).Foreground(theme.PopupFg()).
			Render(fit(tail(input+cursorGlyph(), fieldWidth), fieldWidth))
	}

	sendWidth := min(widget.SendWidth, width-widget.EmojiToggleWidth-fieldWidth)
	label, sendBg := m.T(i18n.KeySend), theme.SendBg()
	if m.Widget.Pending() {
		label, sendBg = m.T(i18n.KeySending), theme.SendPending()
	}
	send := lipgloss.NewStyle().Background(sendBg).Foreground(theme.AnchorFg()).Bold(true).
		Render(center(ansi.Truncate(label, sendWidth, ""), sendWidth))

	return toggle + field + send
}

func cursorGlyph() string {
	return pickGlyph("█", "_")
}

func (m *Model) renderPicker() string {
	r := m.Widget.PickerRect()
	cols := m.Widget.PickerColumns()
	style := lipgloss.NewStyle().Background(theme.PickerBg()).Foreground(theme.PopupFg())

	var lines []string
	for row := 0; row < r.Dy(); row++ {
		var b strings.Builder
		for col := 0; col < cols; col++ {
			i := row*cols + col
			if i >= len(widget.Emojis) {
				break
			}
			b.WriteString(fit(widget.Emojis[i], widget.EmojiCellWidth))
		}
		lines = append(lines, style.Render(fit(b.String(), r.Dx())))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader())
	key := lipgloss.NewStyle().Foreground(theme.CLITableKey())

	var b strings.Builder
	for i, section := range config.GetKeybindings(m.Keys) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(title.Render(section.Title))
		for _, kb := range section.Bindings {
			b.WriteString("\n")
			b.WriteString(key.Render(fit(kb.Key, 22)))
			b.WriteString(kb.Description)
		}
	}

	return lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(theme.CLITableDim()).
		Padding(1, 2).
		Render(b.String())
}

func (m *Model) notificationLayers() []*lipgloss.Layer {
	if len(m.Notifications) == 0 {
		return nil
	}

	var layers []*lipgloss.Layer
	y := 1
	for i, notif := range m.Notifications {
		if i >= config.MaxNotifications {
			break
		}

		bg, icon := notificationStyle(notif.Type)

		maxWidth := min(max(m.Width-4, 10), config.NotificationWidth)
		box := lipgloss.NewStyle().
			Background(bg).
			Foreground(theme.NotificationFg()).
			Padding(0, 1).
			Bold(true).
			Render(ansi.Truncate(icon+" "+notif.Message, maxWidth-2, "…"))

		x := max(m.Width-lipgloss.Width(box)-2, 0)
		layers = append(layers, lipgloss.NewLayer(box).
			X(x).Y(y).Z(config.ZIndexNotifications).
			ID("notif-"+notif.ID))
		y += lipgloss.Height(box) + 1
	}
	return layers
}

func notificationStyle(notifType string) (color.Color, string) {
	switch notifType {
	case NotifyError:
		return theme.NotificationError(), pickGlyph("✗", "x")
	case NotifyWarning:
		return theme.NotificationWarning(), "!"
	case NotifySuccess:
		return theme.NotificationSuccess(), pickGlyph("✓", "+")
	default:
		return theme.NotificationInfo(), "i"
	}
}

func pickGlyph(unicode, ascii string) string {
	if config.UseASCIIOnly {
		return ascii
	}
	return unicode
}
