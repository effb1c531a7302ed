package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"profview/internal/domain"
	"profview/internal/interact"
	"profview/internal/profile"
	"profview/internal/render"
	"profview/internal/state"
	"profview/internal/tree"
	"profview/internal/viewport"
)

const (
	tabBarHeight = 1
	footerHeight = 3
	sparkWidth   = 28
	wheelZoom    = 1.25
	wheelPan     = 8
	wheelScroll  = 3
	keyPan       = 16
)

type Model struct {
	state    *state.State
	requests []profile.Request
	loadOpts profile.Options
	renderer *render.Renderer
	keys     KeyMap
	help     help.Model
	showHelp bool
	status   string
	loading  int
	width    int
	height   int
	logger   *zap.Logger
}

func NewModel(appState *state.State, requests []profile.Request, loadOpts profile.Options, keys KeyMap, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := render.DefaultOptions()
	opts.LabelWidth = appState.Prefs.LabelWidth
	if strings.ToLower(appState.Prefs.Theme) == "light" {
		opts.AxisColor = "240"
		opts.CursorColor = "0"
		opts.HoverColor = "16"
	}
	status := "No profile loaded"
	if len(requests) > 0 {
		status = fmt.Sprintf("Loading %d profile(s)...", len(requests))
	}
	return Model{
		state:    appState,
		requests: requests,
		loadOpts: loadOpts,
		renderer: render.New(opts, appState.Styles, nil),
		keys:     keys,
		help:     help.New(),
		status:   status,
		loading:  len(requests),
		width:    100,
		height:   30,
		logger:   logger,
	}
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(model.requests))
	for _, req := range model.requests {
		cmds = append(cmds, model.loadCmd(req))
	}
	return tea.Batch(cmds...)
}

func (model Model) loadCmd(req profile.Request) tea.Cmd {
	return func() tea.Msg {
		p, err := profile.Load(context.Background(), req.Source, req.Request, model.loadOpts, model.logger)
		return profileLoadedMsg{profile: p, source: describeRequest(req), err: err}
	}
}

func describeRequest(req profile.Request) string {
	if req.Request.Path != "" {
		return req.Request.Path
	}
	return fmt.Sprintf("demo seed %d", req.Request.Seed)
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.MouseMsg:
		return model.handleMouse(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.help.Width = typed.Width
		model.resize()
		return model, nil
	case profileLoadedMsg:
		model.loading--
		if typed.err != nil {
			model.status = fmt.Sprintf("Load error: %v", typed.err)
			return model, nil
		}
		session := model.state.Add(typed.profile)
		model.resize()
		summary := typed.profile.Summary
		model.status = fmt.Sprintf("Loaded %s: %d intervals in %d rows", typed.profile.Name, summary.Accepted, summary.Rows)
		if summary.Dropped > 0 {
			model.status += fmt.Sprintf(", %d malformed dropped", summary.Dropped)
		}
		if session.Status != "" {
			model.status = fmt.Sprintf("%s: %s", typed.profile.Name, session.Status)
		}
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		model.help.ShowAll = model.showHelp
		return model, nil
	case key.Matches(msg, model.keys.NextProfile):
		if session := model.state.Next(); session != nil {
			model.resize()
			model.status = fmt.Sprintf("Profile %s", session.Profile.Name)
		}
		return model, nil
	case key.Matches(msg, model.keys.PrevProfile):
		if session := model.state.Prev(); session != nil {
			model.resize()
			model.status = fmt.Sprintf("Profile %s", session.Profile.Name)
		}
		return model, nil
	}

	session := model.state.Active()
	if session == nil {
		return model, nil
	}
	controller := session.Controller
	vp := controller.Viewport()
	switch {
	case key.Matches(msg, model.keys.Up):
		controller.ScrollBy(-1)
	case key.Matches(msg, model.keys.Down):
		controller.ScrollBy(1)
	case key.Matches(msg, model.keys.PageUp):
		controller.ScrollBy(-max(vp.Height-1, 1))
	case key.Matches(msg, model.keys.PageDown):
		controller.ScrollBy(max(vp.Height-1, 1))
	case key.Matches(msg, model.keys.PanLeft):
		controller.Pan(-keyPan)
	case key.Matches(msg, model.keys.PanRight):
		controller.Pan(keyPan)
	case key.Matches(msg, model.keys.ZoomIn):
		controller.ZoomAt(float64(vp.Width)/2, 2)
	case key.Matches(msg, model.keys.ZoomOut):
		controller.ZoomAt(float64(vp.Width)/2, 0.5)
	case key.Matches(msg, model.keys.Fit):
		controller.Fit()
		model.status = "Fit to profile"
	case key.Matches(msg, model.keys.ExpandKind):
		n := int(msg.String()[0] - '0')
		kind, matched := session.ExpandKind(n)
		if matched == 0 {
			model.status = fmt.Sprintf("No kind bound to %d", n)
		} else {
			model.status = fmt.Sprintf("Expanded %d %s node(s)", matched, kind)
		}
	case key.Matches(msg, model.keys.CollapseAll):
		session.Tree().CollapseAll()
		model.status = "Collapsed all"
	}
	session.Hover = nil
	return model, nil
}

// canvasPoint converts terminal coordinates to timeline column and lane-area
// row.
func (model Model) canvasPoint(x, y int) (int, int) {
	opts := model.renderer.Options()
	return x - opts.LabelWidth, y - tabBarHeight - opts.AxisHeight
}

func (model Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	session := model.state.Active()
	if session == nil {
		return model, nil
	}
	controller := session.Controller
	vp := controller.Viewport()
	tx, ly := model.canvasPoint(msg.X, msg.Y)
	inLanes := ly >= 0 && ly < vp.Height
	inTimeline := inLanes && tx >= 0 && tx < vp.Width

	if tea.MouseEvent(msg).IsWheel() {
		switch {
		case msg.Ctrl && msg.Button == tea.MouseButtonWheelUp:
			controller.ZoomAt(float64(max(tx, 0)), wheelZoom)
		case msg.Ctrl && msg.Button == tea.MouseButtonWheelDown:
			controller.ZoomAt(float64(max(tx, 0)), 1/wheelZoom)
		case msg.Button == tea.MouseButtonWheelLeft, msg.Shift && msg.Button == tea.MouseButtonWheelUp:
			controller.Pan(-wheelPan)
		case msg.Button == tea.MouseButtonWheelRight, msg.Shift && msg.Button == tea.MouseButtonWheelDown:
			controller.Pan(wheelPan)
		case msg.Button == tea.MouseButtonWheelUp:
			controller.ScrollBy(-wheelScroll)
		case msg.Button == tea.MouseButtonWheelDown:
			controller.ScrollBy(wheelScroll)
		}
		model.track(session, tx, ly, inTimeline)
		return model, nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		model.track(session, tx, ly, inTimeline)
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inLanes {
			return model, nil
		}
		frame := controller.FrameLayout()
		if tx < 0 {
			if entry, ok := interact.HitLabel(frame, ly); ok {
				verb := "Collapsed"
				if session.Tree().ToggleExpand(entry.Node.ID) {
					verb = "Expanded"
				}
				model.status = fmt.Sprintf("%s %s", verb, session.Tree().LongName(entry.Node.ID))
				session.Hover = nil
			}
			return model, nil
		}
		if inTimeline {
			model.status = model.describeHit(session, frame, tx, ly)
		}
	}
	return model, nil
}

// track moves the cursor and hover target with the pointer.
func (model Model) track(session *state.Session, tx, ly int, inTimeline bool) {
	if !inTimeline {
		session.Cursor.Clear()
		session.Hover = nil
		return
	}
	frame := session.Controller.FrameLayout()
	session.Cursor.Set(frame.Viewport, tx)
	session.Hover = nil
	if hit, ok := interact.HitTest(frame, tx, ly); ok && hit.Found() {
		session.Hover = &hit
	}
}

func (model Model) describeHit(session *state.Session, frame viewport.Frame, tx, ly int) string {
	hit, ok := interact.HitTest(frame, tx, ly)
	if !ok {
		return ""
	}
	name := session.Tree().LongName(hit.Entry.Node.ID)
	if !hit.Found() {
		if hit.Entry.Kind == tree.EntryRow {
			return fmt.Sprintf("%s at %s: idle", name, hit.Time)
		}
		window := session.Controller.Viewport().Visible()
		busy := session.Utilization.Average(hit.Entry.Node.ID, window)
		return fmt.Sprintf("%s: %.1f%% busy in view", name, busy*100)
	}
	return describeItem(name, hit.Item)
}

func describeItem(lane string, item domain.Item) string {
	parts := []string{}
	if item.Label != "" {
		parts = append(parts, item.Label)
	}
	parts = append(parts, item.Interval.String(), lane)
	for _, field := range item.Fields {
		parts = append(parts, fmt.Sprintf("%s=%s", field.Name, field.Value))
	}
	return strings.Join(parts, "  ")
}

// resize fits the active session's viewport to the terminal.
func (model Model) resize() {
	session := model.state.Active()
	if session == nil {
		return
	}
	width, height := model.laneArea()
	session.Controller.Resize(width, height)
}

func (model Model) laneArea() (int, int) {
	opts := model.renderer.Options()
	width := max(model.width-opts.LabelWidth, 1)
	height := max(model.height-tabBarHeight-footerHeight-opts.AxisHeight, 1)
	return width, height
}
