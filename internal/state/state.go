package state

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"profview/internal/config"
	"profview/internal/domain"
	"profview/internal/interact"
	"profview/internal/profile"
	"profview/internal/tiles"
	"profview/internal/tree"
	"profview/internal/viewport"
)

var ErrUnknownProfile = errors.New("unknown profile")

type Preferences struct {
	Theme      string
	LabelWidth int
}

// Session is the per-profile interactive state. Switching profiles keeps
// each session's viewport, tiles, cursor and expansion untouched.
type Session struct {
	Profile     *profile.Profile
	Controller  *viewport.Controller
	Tiles       *tiles.Cache
	Utilization *interact.Utilization
	Cursor      interact.Cursor
	Hover       *interact.Hit
	Status      string
}

func (session *Session) Tree() *tree.Tree {
	return session.Profile.Tree
}

// ExpandKind expands every node of the n-th kind (1-based) in first-seen
// order and returns the kind and the number of matched nodes.
func (session *Session) ExpandKind(n int) (domain.KindTag, int) {
	kinds := session.Tree().Kinds()
	if n < 1 || n > len(kinds) {
		return "", 0
	}
	kind := kinds[n-1]
	return kind, session.Tree().ExpandAllOfKind(kind)
}

type State struct {
	Prefs    Preferences
	Styles   *domain.StyleTable
	sessions []*Session
	active   int
	viewOpts viewport.Options
	maxTiles int
	logger   *zap.Logger
}

func NewState(cfg config.Config, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		Prefs: Preferences{
			Theme:      cfg.Theme,
			LabelWidth: cfg.LabelWidth,
		},
		Styles: StylesFor(cfg),
		viewOpts: viewport.Options{
			TileColumns:   cfg.TileColumns,
			MinNsPerPixel: cfg.MinNsPerPixel,
		},
		maxTiles: cfg.MaxTiles,
		logger:   logger,
	}
}

// StylesFor applies configured kind colors over the default style table.
func StylesFor(cfg config.Config) *domain.StyleTable {
	styles := domain.DefaultStyleTable()
	for kind, color := range cfg.KindColors {
		styles.SetColor(domain.NormalizeKind(kind), domain.ColorTag(color))
	}
	return styles
}

// ProfileOptions derives loader options from the configuration.
func ProfileOptions(cfg config.Config, styles *domain.StyleTable) profile.Options {
	return profile.Options{
		KindLevel: cfg.KindLevel,
		Metrics: tree.Metrics{
			RowHeight:       cfg.RowHeight,
			CollapsedHeight: cfg.CollapsedHeight,
			SummaryHeight:   cfg.SummaryHeight,
			HeaderHeight:    1,
		},
		Styles: styles,
	}
}

// Add registers a loaded profile. The first profile becomes active; a name
// already in use gets a numeric suffix.
func (appState *State) Add(p *profile.Profile) *Session {
	name := p.Name
	for i := 2; appState.find(name) >= 0; i++ {
		name = fmt.Sprintf("%s (%d)", p.Name, i)
	}
	p.Name = name
	cache := tiles.NewCache(appState.maxTiles, appState.logger.Named("tiles"))
	session := &Session{
		Profile:     p,
		Controller:  viewport.NewController(p.Tree, cache, p.Span(), appState.viewOpts),
		Tiles:       cache,
		Utilization: interact.NewUtilization(p.Tree, appState.logger.Named("utilization")),
	}
	if p.Empty() {
		session.Status = "empty profile: no intervals loaded"
	}
	appState.sessions = append(appState.sessions, session)
	appState.logger.Info("profile added", zap.String("name", name), zap.Int("profiles", len(appState.sessions)))
	return session
}

func (appState *State) find(name string) int {
	for i, session := range appState.sessions {
		if session.Profile.Name == name {
			return i
		}
	}
	return -1
}

func (appState *State) Select(name string) error {
	index := appState.find(name)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	appState.active = index
	appState.logger.Info("profile selected", zap.String("name", name))
	return nil
}

func (appState *State) Next() *Session {
	if len(appState.sessions) == 0 {
		return nil
	}
	appState.active = (appState.active + 1) % len(appState.sessions)
	return appState.Active()
}

func (appState *State) Prev() *Session {
	if len(appState.sessions) == 0 {
		return nil
	}
	appState.active = (appState.active - 1 + len(appState.sessions)) % len(appState.sessions)
	return appState.Active()
}

// Active returns the selected session or nil before any profile is loaded.
func (appState *State) Active() *Session {
	if appState.active < 0 || appState.active >= len(appState.sessions) {
		return nil
	}
	return appState.sessions[appState.active]
}

func (appState *State) ActiveIndex() int {
	return appState.active
}

func (appState *State) Names() []string {
	names := make([]string, 0, len(appState.sessions))
	for _, session := range appState.sessions {
		names = append(names, session.Profile.Name)
	}
	return names
}

func (appState *State) Len() int {
	return len(appState.sessions)
}
