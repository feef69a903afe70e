package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rebeliceyang/lazyseg/internal/config"
	"github.com/rebeliceyang/lazyseg/internal/export"
	"github.com/rebeliceyang/lazyseg/internal/filter"
	"github.com/rebeliceyang/lazyseg/internal/history"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/schema"
	"github.com/rebeliceyang/lazyseg/internal/segments"
	"github.com/rebeliceyang/lazyseg/internal/ui/components"
	"github.com/rebeliceyang/lazyseg/internal/ui/help"
	"github.com/rebeliceyang/lazyseg/internal/ui/icons"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

// MatchCounter counts rows matching a WHERE clause
type MatchCounter interface {
	CountMatches(ctx context.Context, table, where string, args []interface{}) (int64, error)
}

// Deps are the optional collaborators of the app. Nil fields disable the
// features that need them.
type Deps struct {
	Library *segments.Manager
	History *history.Store
	Counter MatchCounter
}

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	schema *schema.Registry
	sql    *filter.Builder

	builder        *components.SegmentBuilder
	segmentsDialog *components.SegmentsDialog

	library *segments.Manager
	history *history.Store
	counter MatchCounter

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	status              string
	releaseOutsideClick func()

	copyToClipboard func(string) error
	now             func() time.Time
}

// ErrorMsg is sent to show the error overlay
type ErrorMsg struct {
	Title   string
	Message string
}

// MatchCountMsg carries the result of a match count
type MatchCountMsg struct {
	Count int64
	Err   error
}

// New creates the application model
func New(cfg *config.Config, deps Deps) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}

	th := theme.GetTheme(cfg.UI.Theme)
	reg := schema.Default()

	app := &App{
		state:           models.NewAppState(),
		config:          cfg,
		theme:           th,
		schema:          reg,
		sql:             filter.NewBuilder(reg),
		builder:         components.NewSegmentBuilder(reg, th, icons.NewRenderer(cfg.UI.ASCIIIcons)),
		segmentsDialog:  components.NewSegmentsDialog(th),
		library:         deps.Library,
		history:         deps.History,
		counter:         deps.Counter,
		errorOverlay:    components.NewErrorOverlay(th),
		copyToClipboard: clipboard.WriteAll,
		now:             time.Now,
	}
	app.updateDimensions()
	return app
}

// LoadSegment replaces the builder contents with seg
func (a *App) LoadSegment(seg models.Segment) error {
	return a.builder.LoadSegment(seg)
}

// Builder returns the segment builder
func (a *App) Builder() *components.SegmentBuilder {
	return a.builder
}

// Status returns the status bar message
func (a *App) Status() string {
	return a.status
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.config.UI.MouseEnabled {
		a.releaseOutsideClick = a.builder.MountOutsideClick()
	}
	return nil
}

// Close releases the outside-click watcher. It is safe to call more than once.
func (a *App) Close() {
	if a.releaseOutsideClick != nil {
		a.releaseOutsideClick()
	}
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Close()
	return a, tea.Quit
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updateDimensions()
		return a, nil

	case tea.MouseMsg:
		if !a.config.UI.MouseEnabled || a.showError || a.state.ViewMode != models.NormalMode {
			return a, nil
		}
		_, cmd := a.builder.HandleMouse(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case components.SaveSegmentMsg:
		a.saveSegment(msg.Segment)
		return a, nil

	case components.LoadSavedSegmentMsg:
		if err := a.builder.LoadSegment(msg.Segment.Segment); err != nil {
			a.ShowError("Cannot Load Segment", fmt.Sprintf("%q is not valid for this schema:\n\n%v", msg.Segment.Name, err))
			return a, nil
		}
		if a.library != nil {
			if err := a.library.RecordUsage(msg.Segment.ID); err != nil {
				slog.Warn("failed to record segment usage", "id", msg.Segment.ID, "error", err)
			}
		}
		a.state.ViewMode = models.NormalMode
		a.status = fmt.Sprintf("Loaded %q", msg.Segment.Name)
		return a, nil

	case components.DeleteSavedSegmentMsg:
		if a.library == nil {
			return a, nil
		}
		if err := a.library.Delete(msg.ID); err != nil {
			a.ShowError("Delete Failed", err.Error())
			return a, nil
		}
		a.segmentsDialog.SetSegments(a.library.GetAll())
		a.status = fmt.Sprintf("Deleted %q", msg.Name)
		return a, nil

	case components.ExportSegmentsMsg:
		if a.library == nil {
			return a, nil
		}
		path, err := a.library.ExportToJSON()
		if err != nil {
			a.ShowError("Export Failed", err.Error())
			return a, nil
		}
		a.status = "Exported library to " + path
		return a, nil

	case components.CloseSegmentsDialogMsg:
		a.state.ViewMode = models.NormalMode
		return a, nil

	case MatchCountMsg:
		if msg.Err != nil {
			a.status = ""
			a.ShowError("Database Error", fmt.Sprintf("Failed to count matching rows:\n\n%v", msg.Err))
			return a, nil
		}
		a.status = fmt.Sprintf("%d matching rows in %s", msg.Count, a.config.Database.Table)
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Handle error overlay dismissal first if visible
	if a.showError {
		switch key {
		case "esc", "enter":
			a.DismissError()
		case "q", "ctrl+c":
			return a.quit()
		}
		return a, nil
	}

	if key == "ctrl+c" {
		return a.quit()
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		if key == "?" || key == "esc" || key == "q" {
			a.state.ViewMode = models.NormalMode
		}
		return a, nil

	case models.LibraryMode:
		var cmd tea.Cmd
		a.segmentsDialog, cmd = a.segmentsDialog.Update(msg)
		return a, cmd
	}

	// Flyouts take every key so values can contain any character
	if a.builder.FlyoutOpen() {
		var cmd tea.Cmd
		a.builder, cmd = a.builder.Update(msg)
		return a, cmd
	}

	switch key {
	case "q":
		return a.quit()
	case "?":
		a.state.ViewMode = models.HelpMode
		return a, nil
	case "o":
		a.openLibrary()
		return a, nil
	case "y":
		a.copySQL()
		return a, nil
	case "p":
		return a, a.countMatches()
	}

	var cmd tea.Cmd
	a.builder, cmd = a.builder.Update(msg)
	return a, cmd
}

func (a *App) openLibrary() {
	if a.library == nil {
		a.status = "Segment library is not available"
		return
	}
	a.segmentsDialog.SetSegments(a.library.GetAll())
	a.state.ViewMode = models.LibraryMode
}

// saveSegment logs the segment and stores it in the library and history
func (a *App) saveSegment(seg models.Segment) {
	segJSON, err := export.SegmentJSON(seg)
	if err != nil {
		a.ShowError("Save Failed", err.Error())
		return
	}
	slog.Info("save segment", "segment", segJSON)

	where, _, buildErr := a.sql.BuildWhere(seg)
	if buildErr != nil {
		slog.Warn("segment saved without SQL", "error", buildErr)
		where = ""
	}
	summary := filter.Describe(a.schema, seg)
	name := a.autoName()

	if a.library != nil {
		if _, err := a.library.Add(name, summary, where, seg); err != nil {
			a.ShowError("Save Failed", fmt.Sprintf("Could not add segment to the library:\n\n%v", err))
			return
		}
	}

	if a.history != nil && a.config.Storage.HistoryEnabled {
		err := a.history.Add(history.Entry{
			SegmentName: name,
			SegmentJSON: segJSON,
			WhereSQL:    where,
			FilterCount: seg.FilterCount(),
			SavedAt:     a.now(),
		})
		if err != nil {
			slog.Error("failed to record save history", "error", err)
		}
	}

	a.status = fmt.Sprintf("Saved %q", name)
	if missing := seg.MissingValues(); missing > 0 {
		a.status += fmt.Sprintf(" (%d filters without a value)", missing)
	}
}

// autoName returns a library name not yet in use
func (a *App) autoName() string {
	base := "Segment " + a.now().Format("2006-01-02 15:04:05")
	if a.library == nil {
		return base
	}
	name := base
	for i := 2; ; i++ {
		if _, err := a.library.FindByName(name); err != nil {
			return name
		}
		name = fmt.Sprintf("%s (%d)", base, i)
	}
}

func (a *App) copySQL() {
	where, args, err := a.builder.SQL()
	if err != nil {
		a.status = "Nothing to copy: " + err.Error()
		return
	}
	text := where
	if len(args) > 0 {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = fmt.Sprintf("$%d = %v", i+1, arg)
		}
		text += "\n-- " + strings.Join(parts, ", ")
	}
	if err := a.copyToClipboard(text); err != nil {
		a.ShowError("Clipboard Error", fmt.Sprintf("Could not copy SQL:\n\n%v", err))
		return
	}
	a.status = "Copied SQL to clipboard"
}

func (a *App) countMatches() tea.Cmd {
	if a.counter == nil {
		a.status = "No database configured (set database.dsn)"
		return nil
	}
	where, args, err := a.builder.SQL()
	if err != nil {
		a.status = "Cannot count: " + err.Error()
		return nil
	}

	counter := a.counter
	table := a.config.Database.Table
	timeout := time.Duration(max(a.config.Database.TimeoutSeconds, 1)) * time.Second
	a.status = "Counting matching rows..."

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := counter.CountMatches(ctx, table, where, args)
		return MatchCountMsg{Count: n, Err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	return zone.Scan(a.render())
}

func (a *App) render() string {
	// If error overlay is showing, render it centered on top of everything
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		return help.Render(a.state.Width, a.state.Height, a.theme)
	case models.LibraryMode:
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.segmentsDialog.View(),
		)
	}

	return a.renderNormalView()
}

// renderNormalView renders the builder between a title bar and a status bar
func (a *App) renderNormalView() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(a.theme.BorderFocused).
		Bold(true).
		Padding(0, 2)
	title := titleStyle.Render(a.formatStatusBar("lazyseg", a.config.Database.Table))

	statusStyle := lipgloss.NewStyle().
		Foreground(a.theme.Muted).
		Padding(0, 2)
	left := a.status
	if left == "" {
		left = fmt.Sprintf("%d groups, %d filters", len(a.builder.State().FilterGroups), a.builder.Segment().FilterCount())
	}
	status := statusStyle.Render(a.formatStatusBar(left, "?: help  s: save  o: library  q: quit"))

	body := a.builder.View()
	bodyHeight := max(a.state.Height-2, lipgloss.Height(body))
	body = lipgloss.NewStyle().Height(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, title, body, status)
}

// updateDimensions sizes the components to the window
func (a *App) updateDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}
	a.builder.Width = max(a.state.Width, 40)
	a.segmentsDialog.Width = max(min(a.state.Width-10, 100), 40)
	a.segmentsDialog.Height = max(a.state.Height-6, 10)
	a.errorOverlay.Width = max(min(a.state.Width-10, 70), 30)
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := max(a.state.Width-4, 0)

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)

	if leftLen+rightLen+1 > availableWidth {
		return left
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	slog.Error(title, "message", message)
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
