package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"studyhall/internal/chat"
	"studyhall/internal/config"
	"studyhall/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig() *config.Config {
	return &config.Config{Model: "gpt-3.5-turbo", BaseURL: "https://api.openai.com/v1"}
}

// stubCompleter returns a fixed reply or error.
type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	return s.reply, s.err
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 8 {
		t.Fatalf("expected 8 view names, got %d", len(viewNames))
	}
	expected := []string{"Dashboard", "AI Chat", "Planner", "Flashcards", "Exams", "Mood", "Groups", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewChat != 1 || viewPlanner != 2 ||
		viewFlashcards != 3 || viewExams != 4 || viewMood != 5 ||
		viewGroups != 6 || viewSettings != 7 {
		t.Fatal("view state constants out of order")
	}
}

func TestSelectViewFallback(t *testing.T) {
	if selectView(viewMood) != viewMood {
		t.Fatal("in-range views should pass through")
	}
	if selectView(viewState(-1)) != viewDashboard {
		t.Fatal("negative views should fall back to dashboard")
	}
	if selectView(viewGroups+1) != viewDashboard {
		t.Fatal("out-of-range views should fall back to dashboard")
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "0h 00m"},
		{45, "0h 45m"},
		{60, "1h 00m"},
		{90, "1h 30m"},
		{605, "10h 05m"},
	}
	for _, tt := range tests {
		got := formatMinutes(tt.mins)
		if got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		target time.Time
		want   int
	}{
		{time.Date(2026, 9, 10, 1, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 9, 18, 23, 0, 0, 0, time.UTC), 8},
		{time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC), -1},
	}
	for _, tt := range tests {
		got := daysUntil(today, tt.target)
		if got != tt.want {
			t.Errorf("daysUntil(%v) = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status, want string
	}{
		{store.StatusNotStarted, "not started"},
		{store.StatusInProgress, "in progress"},
		{store.StatusCompleted, "completed"},
		{"weird", "weird"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if min(3, 5) != 3 || min(5, 3) != 3 {
		t.Fatal("min broken")
	}
	if max(3, 5) != 5 || max(5, 3) != 5 {
		t.Fatal("max broken")
	}
}

// ============================================================
// Chat model
// ============================================================

func TestChatModelLockedWithoutKey(t *testing.T) {
	c := newChatModel(testConfig())
	if !c.locked() {
		t.Fatal("chat should be locked without an API key")
	}
	if !c.inputActive() {
		t.Fatal("locked chat captures keystrokes for the key prompt")
	}
}

func TestChatModelUnlockedWithKey(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "sk-test"
	c := newChatModel(cfg)
	if c.locked() {
		t.Fatal("chat should be unlocked when the config has a key")
	}
}

func TestChatModelSeedsGreeting(t *testing.T) {
	c := newChatModel(testConfig())
	msgs := c.session.Messages()
	if len(msgs) != 1 || msgs[0].Content != chat.Greeting {
		t.Fatalf("fresh chat should hold only the greeting, got %+v", msgs)
	}
}

func TestChatSubmitAndResolve(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "sk-test"
	c := newChatModel(cfg)
	c.completer = stubCompleter{reply: "Photosynthesis is..."}

	c.textarea.SetValue("Explain photosynthesis")
	c, cmd := c.submit()
	if cmd == nil {
		t.Fatal("submit should issue a completion command")
	}
	if c.session.State() != chat.StatePending {
		t.Fatal("session should be pending after submit")
	}
	if c.textarea.Value() != "" {
		t.Fatal("textarea should be cleared on submit")
	}

	c, _ = c.update(chatReplyMsg{content: "Photosynthesis is..."})
	if c.session.State() != chat.StateAwaitingInput {
		t.Fatal("reply should resolve the session")
	}
	msgs := c.session.Messages()
	if len(msgs) != 3 || msgs[2].Content != "Photosynthesis is..." {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestChatSubmitEmptyNoOp(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "sk-test"
	c := newChatModel(cfg)

	c.textarea.SetValue("   ")
	c, cmd := c.submit()
	if cmd != nil {
		t.Fatal("blank input should not issue a command")
	}
	if c.session.Len() != 1 {
		t.Fatal("blank input should not touch the log")
	}
}

func TestChatFailureKeepsUserTurn(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "sk-test"
	c := newChatModel(cfg)

	c.textarea.SetValue("Q")
	c, _ = c.submit()
	c, _ = c.update(chatErrMsg{err: errors.New("service unavailable")})

	if c.session.State() != chat.StateError {
		t.Fatal("failure should put the session in the error state")
	}
	msgs := c.session.Messages()
	if len(msgs) != 2 || msgs[1].Content != "Q" {
		t.Fatalf("failure must keep the user's turn: %+v", msgs)
	}
}

func TestChatEnterKeyUnlocks(t *testing.T) {
	c := newChatModel(testConfig())
	c.keyInput.SetValue("sk-typed")

	c, _ = c.update(tea.KeyMsg{Type: tea.KeyEnter})
	if c.locked() {
		t.Fatal("entering a key should unlock the chat")
	}
	// The typed key is consumed, not kept in the prompt
	if c.keyInput.Value() != "" {
		t.Fatal("key prompt should be cleared")
	}
	// The config is not mutated: the key lives in the client only
	if c.cfg.APIKey != "" {
		t.Fatal("a typed key must not be written back to the config")
	}
}

func TestChatEnterWithoutKeyStaysLocked(t *testing.T) {
	c := newChatModel(testConfig())
	c, _ = c.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !c.locked() {
		t.Fatal("an empty key prompt should not unlock the chat")
	}
}

// ============================================================
// Planner model
// ============================================================

func TestPlannerRefreshToday(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.CreateTask("Today", "A", now, store.PriorityLow, 10)
	s.CreateTask("Next month", "A", now.AddDate(0, 1, 0), store.PriorityLow, 10)

	p := newPlannerModel(s)
	msg := p.refresh()()
	data, ok := msg.(plannerDataMsg)
	if !ok {
		t.Fatalf("expected plannerDataMsg, got %T", msg)
	}
	if len(data.tasks) != 1 || data.tasks[0].Title != "Today" {
		t.Fatalf("today mode should only list today's tasks: %+v", data.tasks)
	}
}

func TestPlannerAllMode(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	s.CreateTask("Today", "A", now, store.PriorityLow, 10)
	s.CreateTask("Next month", "A", now.AddDate(0, 1, 0), store.PriorityLow, 10)

	p := newPlannerModel(s)
	p.mode = plannerAll
	msg := p.refresh()()
	data := msg.(plannerDataMsg)
	if len(data.tasks) != 2 {
		t.Fatalf("all mode should list everything, got %d", len(data.tasks))
	}
}

func TestPlannerCreateTaskCommitsBeforeRefresh(t *testing.T) {
	s := newTestStore(t)
	p := newPlannerModel(s)
	*p.formTitle = "History essay"
	*p.formSubject = "History"
	*p.formDue = time.Now().Format("2006-01-02")
	*p.formPriority = store.PriorityHigh
	*p.formMinutes = "45"

	cmd := p.createTask()

	tasks, _ := s.ListTasks()
	if len(tasks) != 1 || tasks[0].Title != "History essay" {
		t.Fatalf("task should be inserted before the refresh runs: %+v", tasks)
	}
	if _, ok := cmd().(taskCreatedMsg); !ok {
		t.Fatal("expected a taskCreatedMsg")
	}
}

func TestPlannerAdvanceStatusReloads(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask("Lab prep", "Chemistry", time.Now(), store.PriorityLow, 20)

	p := newPlannerModel(s)
	p.mode = plannerAll
	data := p.refresh()().(plannerDataMsg)
	p, _ = p.update(data)

	p, cmd := p.update(tea.KeyMsg{Type: tea.KeyEnter})

	got, _ := s.GetTask(task.ID)
	if got.Status != store.StatusInProgress {
		t.Fatalf("status should advance before the reload runs, got %q", got.Status)
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("advancing should batch the status with a reload")
	}
	var reloaded bool
	for _, sub := range batch {
		if data, ok := sub().(plannerDataMsg); ok {
			reloaded = true
			if data.tasks[0].Status != store.StatusInProgress {
				t.Fatalf("reload should see the new status, got %q", data.tasks[0].Status)
			}
		}
	}
	if !reloaded {
		t.Fatal("expected a plannerDataMsg in the batch")
	}
}

// ============================================================
// Mood model
// ============================================================

func TestMoodSave(t *testing.T) {
	s := newTestStore(t)
	m := newMoodModel(s)
	m.score = 9

	_, cmd := m.save()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("save should batch the insert with a refresh")
	}

	var saved bool
	for _, sub := range batch {
		if _, ok := sub().(moodSavedMsg); ok {
			saved = true
		}
	}
	if !saved {
		t.Fatal("expected a moodSavedMsg in the batch")
	}

	latest, _ := s.LatestMood()
	if latest == nil || latest.Score != 9 {
		t.Fatalf("mood should be persisted, got %+v", latest)
	}
}

func TestMoodSaveCommitsBeforeCommands(t *testing.T) {
	s := newTestStore(t)
	m := newMoodModel(s)
	m.score = 6

	m, cmd := m.save()

	// The row must be visible before any of the batched commands run,
	// Batch gives no ordering guarantee between them.
	latest, _ := s.LatestMood()
	if latest == nil || latest.Score != 6 {
		t.Fatalf("save should write synchronously, got %+v", latest)
	}

	msg := m.refresh()()
	data, ok := msg.(moodDataMsg)
	if !ok {
		t.Fatalf("expected moodDataMsg, got %T", msg)
	}
	if len(data.history) != 1 || data.history[0].Score != 6 {
		t.Fatalf("a refresh racing the save should still see the row: %+v", data.history)
	}
	if _, ok := cmd().(tea.BatchMsg); !ok {
		t.Fatal("save should batch the saved message with a refresh")
	}
}

// ============================================================
// Flashcards model
// ============================================================

func TestFlashcardReviewCommitsBeforeReload(t *testing.T) {
	s := newTestStore(t)
	if err := s.Seed(time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := newFlashcardsModel(s)
	f.decks = []string{"Physics Basics"}
	f.viewingDeck = true
	if data, ok := f.loadDeck()().(cardsDataMsg); ok {
		f, _ = f.update(data)
	} else {
		t.Fatal("expected cardsDataMsg")
	}

	before := f.cards[0].ReviewCount
	f, cmd := f.recordReview(true)

	cards, _ := s.FlashcardsInDeck("Physics Basics")
	if cards[0].ReviewCount != before+1 {
		t.Fatalf("review should be recorded before the reload runs, got %d", cards[0].ReviewCount)
	}
	if _, ok := cmd().(tea.BatchMsg); !ok {
		t.Fatal("recordReview should batch the status with a reload")
	}
}

// ============================================================
// Countdown model
// ============================================================

func TestExamCreateCommitsBeforeRefresh(t *testing.T) {
	s := newTestStore(t)
	c := newCountdownModel(s)
	*c.formSubject = "Chemistry"
	*c.formName = "Midterm"
	*c.formDate = time.Now().AddDate(0, 0, 14).Format("2006-01-02")

	cmd := c.createExam()

	exams, _ := s.UpcomingExams()
	if len(exams) != 1 || exams[0].ExamName != "Midterm" {
		t.Fatalf("exam should be inserted before the refresh runs: %+v", exams)
	}
	if _, ok := cmd().(examCreatedMsg); !ok {
		t.Fatal("expected an examCreatedMsg")
	}
}

func TestExamCreateInvalidInput(t *testing.T) {
	s := newTestStore(t)
	c := newCountdownModel(s)
	*c.formSubject = ""
	*c.formName = "Midterm"
	*c.formDate = "not-a-date"

	msg := c.createExam()()
	status, ok := msg.(statusMsg)
	if !ok || !status.isError {
		t.Fatalf("invalid input should produce an error status, got %#v", msg)
	}
	if exams, _ := s.UpcomingExams(); len(exams) != 0 {
		t.Fatal("nothing should be inserted for invalid input")
	}
}

// ============================================================
// App model
// ============================================================

func newTestApp(t *testing.T) App {
	t.Helper()
	return NewApp(newTestStore(t), testConfig(), t.TempDir())
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
}

func TestAppIsInputActiveDefault(t *testing.T) {
	app := newTestApp(t)
	if app.isInputActive() {
		t.Fatal("nothing should capture input on the dashboard")
	}
}

func TestAppIsInputActiveOnLockedChat(t *testing.T) {
	app := newTestApp(t)
	app.activeView = viewChat
	if !app.isInputActive() {
		t.Fatal("a locked chat page captures input for its key prompt")
	}
}

func TestAppNumberKeyNavigation(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	app = model.(App)
	if app.activeView != viewPlanner {
		t.Fatalf("expected planner after '3', got %d", app.activeView)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	app = model.(App)
	if app.activeView != viewDashboard {
		t.Fatalf("expected dashboard after '1', got %d", app.activeView)
	}
}

func TestAppTabWrapsAround(t *testing.T) {
	app := newTestApp(t)
	app.activeView = viewSettings

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewDashboard {
		t.Fatalf("tab from the last page should wrap to the dashboard, got %d", app.activeView)
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	for v := viewDashboard; v <= viewSettings; v++ {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := newTestApp(t)
	if app.View() != "Loading..." {
		t.Fatalf("unsized app should show the loading screen, got %q", app.View())
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40
	app.status = "test status"

	footer := app.renderFooter()
	if !strings.Contains(footer, "test status") {
		t.Fatal("footer should contain the status message")
	}
}

func TestAppStatusFromMessages(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(statusMsg{text: "something happened"})
	app = model.(App)
	if app.status != "something happened" {
		t.Fatalf("unexpected status: %q", app.status)
	}

	model, _ = app.Update(moodSavedMsg{})
	app = model.(App)
	if app.status != "Mood saved" {
		t.Fatalf("unexpected status: %q", app.status)
	}
}

func TestAppExportPickerToggle(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("'e' should open the export picker")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(App)
	if app.exportPicking {
		t.Fatal("esc should close the export picker")
	}
}

// ============================================================
// Settings model
// ============================================================

func TestSettingsFormToggle(t *testing.T) {
	s := newSettingsModel(newTestStore(t), testConfig(), t.TempDir())

	s, _ = s.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !s.formActive {
		t.Fatal("enter should open the settings form")
	}

	s, _ = s.update(tea.KeyMsg{Type: tea.KeyEsc})
	if s.formActive {
		t.Fatal("esc should close the settings form")
	}
}

func TestSettingsRefresh(t *testing.T) {
	s := newSettingsModel(newTestStore(t), testConfig(), t.TempDir())

	msg := s.refresh()()
	data, ok := msg.(settingsDataMsg)
	if !ok {
		t.Fatalf("expected settingsDataMsg, got %T", msg)
	}
	if len(data.settings) == 0 || data.settings[0].Key != store.SettingWeekStart {
		t.Fatalf("defaults should include week_start: %+v", data.settings)
	}
}

func TestSettingsSavePersists(t *testing.T) {
	st := newTestStore(t)
	cfg := testConfig()
	cfg.APIKey = "sk-secret"
	dir := t.TempDir()

	s := newSettingsModel(st, cfg, dir)
	*s.weekStart = store.WeekStartSunday
	*s.chatModel = "gpt-4"
	*s.baseURL = "https://example.test/v1"

	if err := s.saveSettings(); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	if v, _ := st.GetSetting(store.SettingWeekStart); v != store.WeekStartSunday {
		t.Fatalf("week_start should be stored, got %q", v)
	}
	if cfg.Model != "gpt-4" || cfg.BaseURL != "https://example.test/v1" {
		t.Fatalf("chat defaults should be updated: %+v", cfg)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("config should be written: %v", err)
	}
	if !strings.Contains(string(data), "gpt-4") {
		t.Fatal("written config should carry the new model")
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Fatal("the API key must never reach disk")
	}
}

func TestSettingsSaveBlankChatFieldsKeepDefaults(t *testing.T) {
	cfg := testConfig()
	s := newSettingsModel(newTestStore(t), cfg, t.TempDir())
	*s.weekStart = store.WeekStartMonday
	*s.chatModel = "   "
	*s.baseURL = ""

	if err := s.saveSettings(); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if cfg.Model != "gpt-3.5-turbo" || cfg.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("blank fields should not clobber the defaults: %+v", cfg)
	}
}

// ============================================================
// Status footer
// ============================================================

func TestAppErrorStatusStyled(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(statusMsg{text: "boom", isError: true})
	app = model.(App)
	if !app.statusErr {
		t.Fatal("an error status should be flagged for the footer")
	}

	model, _ = app.Update(moodSavedMsg{})
	app = model.(App)
	if app.statusErr {
		t.Fatal("a normal status should clear the error flag")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"metricValue", func() string { return metricValueStyle.Render("test") }},
		{"metricLabel", func() string { return metricLabelStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"chatUser", func() string { return chatUserStyle.Render("test") }},
		{"chatAssistant", func() string { return chatAssistantStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
