package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nissyi-gh/duedeck/internal/calendar"
	"github.com/nissyi-gh/duedeck/internal/countdown"
	"github.com/nissyi-gh/duedeck/internal/filter"
	"github.com/nissyi-gh/duedeck/internal/importer"
	"github.com/nissyi-gh/duedeck/internal/model"
	"github.com/nissyi-gh/duedeck/internal/prompt"
	"github.com/nissyi-gh/duedeck/internal/render"
	"github.com/nissyi-gh/duedeck/internal/store"
)

type appState int

const (
	stateList appState = iota
	stateAdd
	stateConfirm
	stateCalendar
	stateImport
)

var (
	appStyle     = lipgloss.NewStyle().Padding(1, 2)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	filterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	detailStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
	descBoxStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))

	tagColorPalette = []string{"39", "205", "148", "214", "141", "81", "203", "227"}
)

type extraKeyMap struct {
	Add        key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Status     key.Binding
	Category   key.Binding
	Priority   key.Binding
	Date       key.Binding
	ResetAll   key.Binding
	Calendar   key.Binding
	Copy       key.Binding
	CopyPrompt key.Binding
	Export     key.Binding
	Import     key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "complete"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Date: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "date"),
		),
		ResetAll: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear filters"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "calendar"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		CopyPrompt: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "copy prompt"),
		),
		Export: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy yaml"),
		),
		Import: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import"),
		),
	}
}

func (k extraKeyMap) bindings() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Status, k.Category, k.Priority, k.Date,
		k.ResetAll, k.Calendar, k.Copy, k.CopyPrompt, k.Export, k.Import}
}

// Options carries the settings the model needs from the config.
type Options struct {
	Criteria filter.Criteria
	Strict   bool
	Labels   countdown.Labels
	Tick     time.Duration
	Logger   *zap.Logger
	Now      func() time.Time
}

// Model is the top-level BubbleTea model for the duedeck TUI.
type Model struct {
	ctx         context.Context
	state       appState
	list        list.Model
	form        taskForm
	importInput textarea.Model
	store       *store.TaskStore
	timers      *countdown.Registry
	ticks       <-chan countdown.Tick
	keys        extraKeyMap
	criteria    filter.Criteria
	strict      bool
	labels      countdown.Labels
	categories  []string
	calYear     int
	calMonth    time.Month
	status      string
	err         error
	width       int
	height      int
	now         func() time.Time
	logger      *zap.Logger
}

type tasksLoadedMsg []model.Task
type tickMsg countdown.Tick
type statusMsg string
type importedMsg int
type errMsg struct{ error }

// NewModel creates a new TUI model. Countdown ticks are read from ticks.
func NewModel(ctx context.Context, s *store.TaskStore, timers *countdown.Registry, ticks <-chan countdown.Tick, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Labels == (countdown.Labels{}) {
		opts.Labels = countdown.DefaultLabels()
	}

	keys := newExtraKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "duedeck"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Calendar}
	}
	l.AdditionalFullHelpKeys = keys.bindings

	ta := textarea.New()
	ta.Placeholder = "Paste tasks YAML here..."
	ta.CharLimit = 64 * 1024
	ta.ShowLineNumbers = false

	now := opts.Now()
	return Model{
		ctx:         ctx,
		state:       stateList,
		list:        l,
		form:        newTaskForm(opts.Now),
		importInput: ta,
		store:       s,
		timers:      timers,
		ticks:       ticks,
		keys:        keys,
		criteria:    opts.Criteria.Normalize(),
		strict:      opts.Strict,
		labels:      opts.Labels,
		categories:  []string{filter.All},
		calYear:     now.Year(),
		calMonth:    now.Month(),
		now:         opts.Now,
		logger:      opts.Logger,
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, s *store.TaskStore, opts Options) error {
	ticks := make(chan countdown.Tick, 64)
	done := make(chan struct{})
	sink := func(t countdown.Tick) {
		select {
		case ticks <- t:
		case <-done:
		}
	}
	spec := fmt.Sprintf("@every %s", opts.Tick)
	if opts.Tick <= 0 {
		spec = "@every 1s"
	}
	timerOpts := []countdown.Option{countdown.WithSpec(spec)}
	if opts.Logger != nil {
		timerOpts = append(timerOpts, countdown.WithLogger(opts.Logger))
	}
	if opts.Now != nil {
		timerOpts = append(timerOpts, countdown.WithClock(opts.Now))
	}
	timers := countdown.NewRegistry(s.Completed, sink, timerOpts...)
	timers.Start()
	defer func() {
		close(done)
		timers.Stop()
	}()

	p := tea.NewProgram(NewModel(ctx, s, timers, ticks, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTasks, m.waitForTick)
}

// loadTasks reloads the store from storage; every render starts here.
func (m Model) loadTasks() tea.Msg {
	if err := m.store.Reload(m.ctx); err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg(m.store.Tasks())
}

func (m Model) waitForTick() tea.Msg {
	if m.ticks == nil {
		return nil
	}
	t, ok := <-m.ticks
	if !ok {
		return nil
	}
	return tickMsg(t)
}

func (m Model) apply(cmd model.Command) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.Apply(m.ctx, cmd); err != nil {
			m.logger.Warn("command failed", zap.Stringer("kind", cmd.Kind), zap.Int64("id", cmd.ID), zap.Error(err))
			return errMsg{err}
		}
		return m.loadTasks()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		contentWidth := msg.Width - h
		leftWidth := contentWidth * 60 / 100
		m.list.SetSize(leftWidth, msg.Height-v-2)
		m.form.SetWidth(contentWidth - 16)
		m.importInput.SetWidth(contentWidth)
		m.importInput.SetHeight(msg.Height - v - 6)
		return m, nil

	case tasksLoadedMsg:
		m.renderTasks([]model.Task(msg))
		m.err = nil
		return m, nil

	case tickMsg:
		m.applyTick(countdown.Tick(msg))
		return m, m.waitForTick

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case importedMsg:
		m.status = fmt.Sprintf("Imported %d tasks", int(msg))
		return m, m.loadTasks

	case errMsg:
		m.err = msg.error
		return m, nil
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateAdd:
		return m.updateAdd(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateCalendar:
		return m.updateCalendar(msg)
	case stateImport:
		return m.updateImport(msg)
	}

	return m, nil
}

// renderTasks rebuilds the whole list from tasks: filter, project, restart
// every countdown.
func (m *Model) renderTasks(tasks []model.Task) {
	now := m.now()
	visible := filter.Pipeline{Criteria: m.criteria, Now: now, Strict: m.strict}.Apply(tasks)
	view := render.Build(tasks, visible, now)

	m.categories = view.CategoryOptions
	if !contains(m.categories, m.criteria.Category) {
		m.criteria.Category = filter.All
	}

	var initial map[int64]countdown.Display
	if m.timers != nil {
		initial = m.timers.Reset(visible)
	} else {
		initial = make(map[int64]countdown.Display, len(visible))
		for _, t := range visible {
			initial[t.ID] = countdown.Evaluate(t.Completed, t.Deadline, now)
		}
	}

	items := make([]list.Item, len(view.Items))
	for i, it := range view.Items {
		d := initial[it.Task.ID]
		items[i] = TaskItem{Item: it, Countdown: d.Text(m.labels), Terminal: d.State.Terminal()}
	}
	m.list.SetItems(items)
}

// applyTick updates the countdown text of the matching row.
func (m *Model) applyTick(t countdown.Tick) {
	for i, li := range m.list.Items() {
		item, ok := li.(TaskItem)
		if !ok || item.Task.ID != t.ID {
			continue
		}
		if item.Terminal {
			return
		}
		item.Countdown = t.Display.Text(m.labels)
		item.Terminal = t.Display.State.Terminal()
		m.list.SetItem(i, item)
		return
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch {
		case key.Matches(keyMsg, m.keys.Add):
			m.state = stateAdd
			m.form = newTaskForm(m.now)
			m.form.SetWidth(m.width - 20)
			cmd := m.form.Focus()
			return m, cmd
		case key.Matches(keyMsg, m.keys.Toggle):
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				return m, m.apply(model.Toggle(item.Task.ID))
			}
		case key.Matches(keyMsg, m.keys.Delete):
			if m.list.SelectedItem() != nil {
				m.state = stateConfirm
				return m, nil
			}
		case key.Matches(keyMsg, m.keys.Status):
			m.criteria.Status = filter.Cycle(filter.StatusValues(), m.criteria.Status)
			return m, m.loadTasks
		case key.Matches(keyMsg, m.keys.Category):
			m.criteria.Category = filter.Cycle(m.categories, m.criteria.Category)
			return m, m.loadTasks
		case key.Matches(keyMsg, m.keys.Priority):
			m.criteria.Priority = filter.Cycle(filter.PriorityValues(), m.criteria.Priority)
			return m, m.loadTasks
		case key.Matches(keyMsg, m.keys.Date):
			m.criteria.Date = filter.Cycle(filter.DateValues(), m.criteria.Date)
			return m, m.loadTasks
		case key.Matches(keyMsg, m.keys.ResetAll):
			m.criteria = filter.Default()
			return m, m.loadTasks
		case key.Matches(keyMsg, m.keys.Calendar):
			m.state = stateCalendar
			now := m.now()
			m.calYear, m.calMonth = now.Year(), now.Month()
			return m, nil
		case key.Matches(keyMsg, m.keys.Copy):
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				return m, copyToClipboard(taskSummary(item), "Copied task")
			}
		case key.Matches(keyMsg, m.keys.CopyPrompt):
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				return m, copyToClipboard(prompt.GenerateFromTask(item.Task), "Copied breakdown prompt")
			}
			return m, copyToClipboard(prompt.GenerateNew(m.categories[1:]), "Copied planning prompt")
		case key.Matches(keyMsg, m.keys.Export):
			return m, m.exportYAML
		case key.Matches(keyMsg, m.keys.Import):
			m.state = stateImport
			m.importInput.Reset()
			if text, err := clipboard.ReadAll(); err == nil {
				m.importInput.SetValue(text)
			}
			cmd := m.importInput.Focus()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		submit := keyMsg.String() == "ctrl+s" ||
			(keyMsg.String() == "enter" && m.form.focus != formDescription)
		switch {
		case submit:
			in, err := m.form.Value()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.state = stateList
			m.form.description.Blur()
			return m, m.apply(model.Add(in))
		case keyMsg.String() == "esc":
			m.state = stateList
			m.err = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			m.state = stateList
			if item, ok := m.list.SelectedItem().(TaskItem); ok {
				return m, m.apply(model.Delete(item.Task.ID))
			}
			return m, nil
		case "n", "esc":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateCalendar(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "h", "left":
			m.calYear, m.calMonth = calendar.Shift(m.calYear, m.calMonth, -1)
		case "l", "right":
			m.calYear, m.calMonth = calendar.Shift(m.calYear, m.calMonth, 1)
		case "t":
			now := m.now()
			m.calYear, m.calMonth = now.Year(), now.Month()
		case "esc", "C", "q":
			m.state = stateList
		case "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s":
			text := m.importInput.Value()
			m.state = stateList
			m.importInput.Blur()
			return m, m.importYAML(text)
		case "esc":
			m.state = stateList
			m.importInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m Model) importYAML(text string) tea.Cmd {
	return func() tea.Msg {
		n, err := importer.Import(m.ctx, m.store, text)
		if err != nil {
			m.logger.Warn("import failed", zap.Int("imported", n), zap.Error(err))
			return errMsg{err}
		}
		return importedMsg(n)
	}
}

func (m Model) exportYAML() tea.Msg {
	text, err := importer.Export(m.store.Tasks())
	if err != nil {
		return errMsg{err}
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errMsg{fmt.Errorf("copy: %w", err)}
	}
	return statusMsg("Copied all tasks as YAML")
}

func copyToClipboard(text, done string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return errMsg{fmt.Errorf("copy: %w", err)}
		}
		return statusMsg(done)
	}
}

func taskSummary(item TaskItem) string {
	var sb strings.Builder
	sb.WriteString(item.Task.Name)
	sb.WriteString("\n")
	if item.Task.Description != "" {
		sb.WriteString(item.Task.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("Deadline: " + item.Deadline + "\n")
	if item.Task.Priority != "" {
		sb.WriteString("Priority: " + string(item.Task.Priority) + "\n")
	}
	if item.Task.Category != "" {
		sb.WriteString("Category: " + item.Task.Category + "\n")
	}
	if item.FileLink != "" {
		sb.WriteString(item.FileLink + "\n")
	}
	return sb.String()
}

func (m Model) renderFilters() string {
	c := m.criteria
	return filterStyle.Render(fmt.Sprintf("status:%s  category:%s  priority:%s  date:%s",
		c.Status, c.Category, c.Priority, c.Date))
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return statusStyle.Render("(no task selected)")
	}
	t := item.Task

	descContent := statusStyle.Render("(no description)")
	if t.Description != "" {
		descContent = t.Description
	}
	desc := descBoxStyle.Render(descContent)

	name := t.Name
	switch item.PriorityClass {
	case render.ClassHighPriority:
		name = highPriorityStyle.Render(name)
	case render.ClassMediumPriority:
		name = mediumPriorityStyle.Render(name)
	}

	deadline := "deadline:  " + item.Deadline
	if item.Relative != "" {
		deadline += statusStyle.Render("  (" + item.Relative + ")")
	}
	if t.IsOverdue(m.now()) {
		deadline = errorStyle.Render(deadline)
	}

	lines := []string{
		name,
		"",
		desc,
		"",
		deadline,
		"timer:     " + item.Countdown,
		"priority:  " + emptyPlaceholder(string(t.Priority)),
		"category:  " + categoryStyle(t.Category).Render(emptyPlaceholder(t.Category)),
	}
	if item.FileLink != "" {
		lines = append(lines, item.FileLink)
	}
	lines = append(lines, "", statusStyle.Render("y: copy  P: breakdown prompt  C: calendar"))
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	var errView string
	if m.err != nil {
		errView = "\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	switch m.state {
	case stateAdd:
		return appStyle.Render(
			titleStyle.Render("New Task") + "\n\n" +
				m.form.View() + "\n" +
				statusStyle.Render("tab/shift+tab: next/prev field • ←/→: priority • enter/ctrl+s: save • esc: cancel") +
				errView,
		)
	case stateConfirm:
		item, _ := m.list.SelectedItem().(TaskItem)
		return appStyle.Render(
			confirmStyle.Render("Delete Task?") + "\n\n" +
				"  " + item.Task.Name + "\n\n" +
				statusStyle.Render("y: delete • n/esc: cancel") +
				errView,
		)
	case stateCalendar:
		month := calendar.NewMonth(m.calYear, m.calMonth, time.Local, calendar.Events(m.store.Tasks()))
		return appStyle.Render(
			renderMonth(month, m.now(), m.width) + "\n" +
				statusStyle.Render("h/←: prev month • l/→: next month • t: today • esc: back") +
				errView,
		)
	case stateImport:
		return appStyle.Render(
			titleStyle.Render("Import Tasks (YAML)") + "\n\n" +
				m.importInput.View() + "\n\n" +
				statusStyle.Render("ctrl+s: import • esc: cancel") +
				errView,
		)
	default:
		h, v := appStyle.GetFrameSize()
		contentWidth := m.width - h
		contentHeight := m.height - v - 2
		leftWidth := contentWidth * 60 / 100
		rightWidth := contentWidth - leftWidth

		leftPane := m.list.View()
		rightPane := detailStyle.
			Width(rightWidth).
			Height(contentHeight).
			Render(m.renderDetail())
		content := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
		footer := m.renderFilters()
		if m.status != "" {
			footer += "  " + statusStyle.Render(m.status)
		}
		return appStyle.Render(content + "\n" + footer + errView)
	}
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
