// Package tui renders the catalog list and detail views with bubbletea.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/format"
)

// chrome is the number of lines used by the header, footer and help
const chrome = 5

type listViewMsg catalog.ListView

type detailViewMsg catalog.DetailView

type openURLMsg struct {
	url string
	err error
}

// Options configures the browser
type Options struct {
	// Title is shown in the header, e.g. the movie list name
	Title string
	// WebURL is prefixed to a movie id for the open-in-browser key
	WebURL string
	// PrefetchThreshold requests the next page once the cursor is this
	// close to the last loaded row
	PrefetchThreshold int
	Formatter         *format.Formatter
}

// Model is the bubbletea model for the browse command
type Model struct {
	ctx    context.Context
	list   *catalog.List
	detail *catalog.Detail

	listCh      <-chan catalog.ListView
	detailCh    <-chan catalog.DetailView
	unsubscribe []func()

	listView   catalog.ListView
	detailView catalog.DetailView

	opts      Options
	fmt       *format.Formatter
	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	openURLFn func(string) error

	cursor   int
	offset   int
	inDetail bool
	width    int
	height   int
	status   string
}

// New creates the model and subscribes to both machines. Call Close once the
// program has exited.
func New(ctx context.Context, list *catalog.List, detail *catalog.Detail, opts Options) *Model {
	if opts.Formatter == nil {
		opts.Formatter = format.New("en")
	}

	m := &Model{
		ctx:       ctx,
		list:      list,
		detail:    detail,
		opts:      opts,
		fmt:       opts.Formatter,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		openURLFn: openURLInBrowser,
		height:    24,
	}

	var unsubList, unsubDetail func()
	m.listCh, unsubList = list.Subscribe()
	m.detailCh, unsubDetail = detail.Subscribe()
	m.unsubscribe = []func(){unsubList, unsubDetail}

	return m
}

// Close unsubscribes from the machines
func (m *Model) Close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
}

// Init starts the first page load and the subscription readers
func (m *Model) Init() tea.Cmd {
	m.list.Start(m.ctx)
	return tea.Batch(
		m.spinner.Tick,
		waitForList(m.listCh),
		waitForDetail(m.detailCh),
	)
}

func waitForList(ch <-chan catalog.ListView) tea.Cmd {
	return func() tea.Msg {
		view, ok := <-ch
		if !ok {
			return nil
		}
		return listViewMsg(view)
	}
}

func waitForDetail(ch <-chan catalog.DetailView) tea.Cmd {
	return func() tea.Msg {
		view, ok := <-ch
		if !ok {
			return nil
		}
		return detailViewMsg(view)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollIntoView()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listViewMsg:
		m.listView = catalog.ListView(msg)
		if n := len(m.listView.Items); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
		m.scrollIntoView()
		// a short page is followed up without waiting for a key; a failed
		// page waits for R
		if m.listView.Kind == catalog.ViewContent && m.listView.Err == nil {
			m.maybePrefetch()
		}
		return m, waitForList(m.listCh)

	case detailViewMsg:
		m.detailView = catalog.DetailView(msg)
		return m, waitForDetail(m.detailCh)

	case openURLMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not open %s: %v", msg.url, msg.err)
		} else {
			m.status = "Opened " + msg.url
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.status = ""
		if m.inDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.listView.Items

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(items)-1, 0)
	case key.Matches(msg, m.keys.Refresh):
		m.list.Refresh(m.ctx)
	case key.Matches(msg, m.keys.Retry):
		if !m.list.Retry(m.ctx) {
			m.status = "Nothing to retry"
		}
	case key.Matches(msg, m.keys.Open):
		if len(items) == 0 {
			return m, nil
		}
		m.detail.Start(m.ctx, items[m.cursor].ID)
		m.inDetail = true
		return m, nil
	default:
		return m, nil
	}

	m.scrollIntoView()
	m.maybePrefetch()
	return m, nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.inDetail = false
	case key.Matches(msg, m.keys.Retry):
		if m.detailView.Kind == catalog.ViewError {
			m.detail.Start(m.ctx, m.detailView.ID)
		}
	case key.Matches(msg, m.keys.Browser):
		if m.opts.WebURL == "" || m.detailView.ID == 0 {
			return m, nil
		}
		url := m.opts.WebURL + strconv.FormatInt(m.detailView.ID, 10)
		open := m.openURLFn
		return m, func() tea.Msg {
			return openURLMsg{url: url, err: open(url)}
		}
	}
	return m, nil
}

// maybePrefetch is the scroll-to-bottom trigger. The list ignores it while
// a page is in flight or the last page is loaded.
func (m *Model) maybePrefetch() {
	n := len(m.listView.Items)
	if n == 0 {
		return
	}
	if n-1-m.cursor <= m.opts.PrefetchThreshold {
		m.list.ScrollToBottom(m.ctx)
	}
}

func (m *Model) visibleRows() int {
	return max(m.height-chrome, 1)
}

func (m *Model) scrollIntoView() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *Model) View() string {
	var body, helpView string
	if m.inDetail {
		body = m.detailBody()
		helpView = m.help.View(detailKeys{m.keys})
	} else {
		body = m.listBody()
		helpView = m.help.View(listKeys{m.keys})
	}

	footer := helpView
	if m.status != "" {
		footer = mutedStyle.Render(m.status) + "\n" + helpView
	}

	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.header(), body, footer))
}

func (m *Model) header() string {
	title := titleStyle.Render("marquee")
	if m.opts.Title != "" {
		title += mutedStyle.Render(" · " + m.opts.Title)
	}

	v := m.listView
	switch {
	case !m.inDetail && v.Kind == catalog.ViewLoadingRefresh:
		title += " " + m.spinner.View() + mutedStyle.Render("refreshing")
	case !m.inDetail && v.Kind == catalog.ViewContent:
		title += mutedStyle.Render(fmt.Sprintf("  %d movies · page %d/%d", len(v.Items), v.CurrentPage, v.TotalPages))
	}
	return title
}

func (m *Model) listBody() string {
	v := m.listView

	switch v.Kind {
	case catalog.ViewIdle:
		return ""
	case catalog.ViewLoadingFull:
		return m.spinner.View() + "Loading movies..."
	case catalog.ViewError:
		return errorStyle.Render("Could not load movies.") + mutedStyle.Render(" Press R to retry.")
	}

	if len(v.Items) == 0 {
		return mutedStyle.Render("No movies found")
	}

	var sb strings.Builder
	end := min(m.offset+m.visibleRows(), len(v.Items))
	for i := m.offset; i < end; i++ {
		item := v.Items[i]
		line := fmt.Sprintf("%-*s %s  %s",
			titleWidth(m.width), truncate(item.Title, titleWidth(m.width)),
			format.Release(item.ReleaseDate),
			mutedStyle.Render("★ "+format.Popularity(item.Popularity)))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	switch {
	case v.Paging:
		sb.WriteString(m.spinner.View() + mutedStyle.Render("Loading more..."))
	case v.Err != nil:
		sb.WriteString(errorStyle.Render("Could not load more.") + mutedStyle.Render(" Press R to retry."))
	case !v.HasMore:
		sb.WriteString(mutedStyle.Render("End of list"))
	}

	return sb.String()
}

func (m *Model) detailBody() string {
	v := m.detailView

	switch v.Kind {
	case catalog.ViewLoadingFull:
		return m.spinner.View() + "Loading details..."
	case catalog.ViewError:
		return errorStyle.Render("Could not load this movie.") + mutedStyle.Render(" Press R to retry.")
	case catalog.ViewContent:
	default:
		return ""
	}

	item := v.Item
	image := v.ImageURL
	if image == "" {
		image = format.Placeholder
	}

	rows := []string{
		titleStyle.Render(item.Title) + mutedStyle.Render(" ("+format.Release(item.ReleaseDate)+")"),
		"",
		labelStyle.Render("Runtime") + m.fmt.Duration(item.RuntimeMinutes),
		labelStyle.Render("Genres") + format.Genres(item.Genres),
		labelStyle.Render("Languages") + format.Languages(item.SpokenLanguages),
		labelStyle.Render("Popularity") + format.Popularity(item.Popularity),
		labelStyle.Render("Rating") + format.Rating(item.VoteAverage),
		labelStyle.Render("Image") + image,
		"",
		lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(format.Overview(item.Overview)),
	}
	return strings.Join(rows, "\n")
}

func titleWidth(width int) int {
	return min(max(width-24, 16), 60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
