package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyseg/internal/models"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

// LoadSavedSegmentMsg is sent when a saved segment should replace the builder state
type LoadSavedSegmentMsg struct {
	Segment models.SavedSegment
}

// DeleteSavedSegmentMsg is sent when a saved segment should be deleted
type DeleteSavedSegmentMsg struct {
	ID   string
	Name string
}

// ExportSegmentsMsg is sent when the library should be exported
type ExportSegmentsMsg struct{}

// CloseSegmentsDialogMsg is sent when dialog should close
type CloseSegmentsDialogMsg struct{}

// SegmentsDialog lists the saved segment library
type SegmentsDialog struct {
	Width  int
	Height int
	Theme  theme.Theme

	segments []models.SavedSegment
	visible  []int // indices into segments matching the search
	selected int
	offset   int

	searching bool
	search    textinput.Model
}

// NewSegmentsDialog creates a new segment library dialog
func NewSegmentsDialog(th theme.Theme) *SegmentsDialog {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search name or summary"
	search.CharLimit = 64

	return &SegmentsDialog{
		Width:  80,
		Height: 24,
		Theme:  th,
		search: search,
	}
}

// SetSegments updates the segment list
func (sd *SegmentsDialog) SetSegments(segments []models.SavedSegment) {
	sd.segments = segments
	sd.refilter()
}

// Selected returns the highlighted segment
func (sd *SegmentsDialog) Selected() (models.SavedSegment, bool) {
	if sd.selected < 0 || sd.selected >= len(sd.visible) {
		return models.SavedSegment{}, false
	}
	return sd.segments[sd.visible[sd.selected]], true
}

func (sd *SegmentsDialog) refilter() {
	query := strings.ToLower(strings.TrimSpace(sd.search.Value()))
	sd.visible = sd.visible[:0]
	for i, s := range sd.segments {
		if query == "" ||
			strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.Summary), query) {
			sd.visible = append(sd.visible, i)
		}
	}
	if sd.selected >= len(sd.visible) {
		sd.selected = max(len(sd.visible)-1, 0)
	}
	if sd.offset > sd.selected {
		sd.offset = sd.selected
	}
}

func (sd *SegmentsDialog) pageSize() int {
	// two lines per entry
	return max((sd.Height-8)/2, 1)
}

// Update handles keyboard input
func (sd *SegmentsDialog) Update(msg tea.KeyMsg) (*SegmentsDialog, tea.Cmd) {
	if sd.searching {
		return sd.handleSearchMode(msg)
	}
	return sd.handleListMode(msg)
}

func (sd *SegmentsDialog) handleSearchMode(msg tea.KeyMsg) (*SegmentsDialog, tea.Cmd) {
	switch msg.String() {
	case "esc":
		sd.searching = false
		sd.search.Blur()
		sd.search.SetValue("")
		sd.refilter()
		return sd, nil
	case "enter":
		sd.searching = false
		sd.search.Blur()
		return sd, nil
	}

	var cmd tea.Cmd
	sd.search, cmd = sd.search.Update(msg)
	sd.selected = 0
	sd.offset = 0
	sd.refilter()
	return sd, cmd
}

func (sd *SegmentsDialog) handleListMode(msg tea.KeyMsg) (*SegmentsDialog, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return sd, func() tea.Msg {
			return CloseSegmentsDialogMsg{}
		}
	case "up", "k":
		if sd.selected > 0 {
			sd.selected--
			if sd.selected < sd.offset {
				sd.offset = sd.selected
			}
		}
	case "down", "j":
		if sd.selected < len(sd.visible)-1 {
			sd.selected++
			if sd.selected >= sd.offset+sd.pageSize() {
				sd.offset = sd.selected - sd.pageSize() + 1
			}
		}
	case "enter":
		if seg, ok := sd.Selected(); ok {
			return sd, func() tea.Msg {
				return LoadSavedSegmentMsg{Segment: seg}
			}
		}
	case "d", "x":
		if seg, ok := sd.Selected(); ok {
			return sd, func() tea.Msg {
				return DeleteSavedSegmentMsg{ID: seg.ID, Name: seg.Name}
			}
		}
	case "e":
		return sd, func() tea.Msg {
			return ExportSegmentsMsg{}
		}
	case "/":
		sd.searching = true
		return sd, sd.search.Focus()
	}
	return sd, nil
}

// View renders the dialog
func (sd *SegmentsDialog) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(sd.Theme.Background).
		Background(sd.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Segment Library (%d)", len(sd.segments))))

	instrStyle := lipgloss.NewStyle().
		Foreground(sd.Theme.Muted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  Enter: Load  d: Delete  /: Search  e: Export  Esc: Close"))

	if sd.searching || sd.search.Value() != "" {
		sections = append(sections, " "+sd.search.View())
	}

	contentWidth := max(sd.Width-6, 20)
	if len(sd.visible) == 0 {
		if len(sd.segments) == 0 {
			sections = append(sections, "\nNo saved segments yet. Press 's' in the builder to save one.")
		} else {
			sections = append(sections, "\nNo segments match the search.")
		}
	} else {
		sections = append(sections, "")
		end := min(sd.offset+sd.pageSize(), len(sd.visible))
		for i := sd.offset; i < end; i++ {
			seg := sd.segments[sd.visible[i]]

			name := runewidth.Truncate(seg.Name, contentWidth-20, "...")
			meta := fmt.Sprintf("%d filters", seg.Segment.FilterCount())
			if seg.UseCount > 0 {
				meta += fmt.Sprintf(", used %d×", seg.UseCount)
			}
			summary := runewidth.Truncate(seg.Summary, contentWidth-2, "...")

			line := fmt.Sprintf("%s  %s\n  %s", name,
				lipgloss.NewStyle().Foreground(sd.Theme.Muted).Render(meta), summary)

			style := lipgloss.NewStyle().Padding(0, 1).Width(contentWidth)
			if i == sd.selected {
				style = style.Background(sd.Theme.Selection).Foreground(sd.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(sd.Theme.BorderFocused).
		Width(sd.Width).
		Height(sd.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
