package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/muesli/reflow/truncate"

	"profview/internal/state"
	"profview/internal/tiles"
	"profview/internal/tree"
)

type uiStyles struct {
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
	statusStyle lipgloss.Style
	warnStyle   lipgloss.Style
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	panelBorder lipgloss.Style
	sparkColor  plot.Color
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.state.Prefs.Theme) == "light" {
		return uiStyles{
			headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			activeTab:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("25")).Bold(true).Padding(0, 1),
			inactiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Padding(0, 1),
			panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			sparkColor:  plot.Black,
		}
	}
	return uiStyles{
		headerStyle: lipgloss.NewStyle().Bold(true),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		activeTab:   lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true).Padding(0, 1),
		inactiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		sparkColor:  plot.Red,
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHelp {
		return renderHelpView(model, styles)
	}
	tabs := renderTabs(model, styles)
	body := renderTimeline(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{tabs, body, footer}, "\n")
}

func renderTabs(model Model, styles uiStyles) string {
	names := model.state.Names()
	if len(names) == 0 {
		return styles.headerStyle.Render("profview")
	}
	parts := make([]string, 0, len(names)+1)
	for i, name := range names {
		if i == model.state.ActiveIndex() {
			parts = append(parts, styles.activeTab.Render(name))
		} else {
			parts = append(parts, styles.inactiveTab.Render(name))
		}
	}
	if model.loading > 0 {
		parts = append(parts, styles.mutedStyle.Render(fmt.Sprintf(" loading %d…", model.loading)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderTimeline(model Model, styles uiStyles) string {
	width, laneHeight := model.laneArea()
	opts := model.renderer.Options()
	height := laneHeight + opts.AxisHeight
	session := model.state.Active()
	if session == nil || session.Profile.Empty() {
		message := "Loading…"
		if session != nil {
			message = "Empty profile: no intervals to show"
		} else if model.loading == 0 {
			message = "No profile loaded. Pass profile files or -demo."
		}
		return lipgloss.Place(model.width, height, lipgloss.Center, lipgloss.Center, styles.mutedStyle.Render(message))
	}
	if vp := session.Controller.Viewport(); vp.Width != width || vp.Height != laneHeight {
		session.Controller.Resize(width, laneHeight)
	}
	frame := session.Controller.FrameLayout()
	grid := newCanvas(opts.LabelWidth+width, height)
	model.renderer.WithUtilization(session.Utilization).Frame(grid, frame, session.Cursor, session.Hover)
	return grid.String()
}

func renderFooter(model Model, styles uiStyles) string {
	statusStyle := styles.statusStyle
	if strings.Contains(strings.ToLower(model.status), "error") {
		statusStyle = styles.warnStyle
	}
	detail := ""
	session := model.state.Active()
	if session != nil {
		detail = detailLine(session)
	}
	helpLine := model.help.View(model.keys)

	textWidth := model.width
	spark := ""
	if session != nil && !session.Profile.Empty() && model.width >= 80 {
		spark = sparkline(session, styles)
		textWidth = model.width - sparkWidth - 1
	}
	lines := []string{
		statusStyle.Render(trimStatus(model.status, textWidth)),
		styles.mutedStyle.Render(trimStatus(detail, textWidth)),
		helpLine,
	}
	left := lipgloss.NewStyle().Width(textWidth).Render(strings.Join(lines, "\n"))
	if spark == "" {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", spark)
}

// detailLine shows the hovered interval, or the cursor time and view range.
func detailLine(session *state.Session) string {
	if session.Hover != nil {
		return describeItem(session.Tree().LongName(session.Hover.Entry.Node.ID), session.Hover.Item)
	}
	vp := session.Controller.Viewport()
	view := fmt.Sprintf("view %s  %.1f ns/px", vp.Visible(), vp.NsPerPixel())
	if at, ok := session.Cursor.Time(); ok {
		return fmt.Sprintf("cursor %s  %s", at, view)
	}
	return view
}

// sparkline plots utilization of the hovered lane, or of the whole profile,
// across the visible range in braille.
func sparkline(session *state.Session, styles uiStyles) string {
	node := tree.RootID
	if session.Hover != nil {
		node = session.Hover.Entry.Node.ID
	}
	vp := session.Controller.Viewport()
	view := vp.Visible()
	points := sparkWidth * 2
	width := tiles.BucketWidth(float64(view.Duration())/float64(points), 1)
	samples := session.Utilization.Curve(node, width, view)
	if len(samples) < 2 {
		return ""
	}
	data := make([]float64, len(samples))
	for i, sample := range samples {
		data[i] = sample.Fraction
	}
	p := plot.NewCanvas(sparkWidth, footerHeight)
	p.NumDataPoints = len(data)
	p.ShowAxis = false
	p.LineColors = []plot.Color{styles.sparkColor}
	p.Fill([][]float64{data})
	return p.String()
}

func renderHelpView(model Model, styles uiStyles) string {
	lines := []string{styles.headerStyle.Render("profview help"), ""}
	lines = append(lines, styles.headerStyle.Render("Mouse"))
	lines = append(lines,
		"move            cursor + hover details",
		"click label     expand / collapse",
		"click interval  show details in status",
		"wheel           scroll rows",
		"shift+wheel     pan",
		"ctrl+wheel      zoom around pointer",
	)
	if session := model.state.Active(); session != nil {
		lines = append(lines, "", styles.headerStyle.Render("Kinds"))
		for i, kind := range session.Tree().Kinds() {
			if i >= 9 {
				break
			}
			description := model.state.Styles.Lookup(kind).Description
			lines = append(lines, strings.TrimSpace(fmt.Sprintf("%d  %s  %s", i+1, kind, description)))
		}
	}
	lines = append(lines, "", styles.headerStyle.Render("Keys"), model.help.View(model.keys))
	return styles.panelBorder.Render(strings.Join(lines, "\n"))
}

func trimStatus(message string, width int) string {
	if width <= 4 {
		return message
	}
	return truncate.StringWithTail(message, uint(width-1), "...")
}
