// Package ui drives the application: a closed set of view variants, one
// transition function, and the asynchronous tasks whose results feed back
// into it as messages.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nextart/internal/clipboard"
	"nextart/internal/config"
	"nextart/internal/imaging"
	"nextart/internal/index"
	"nextart/internal/logging"
)

// view is the closed set of screens. Exactly one is active at any time;
// the variants that carry collection state own it exclusively, and
// transitions relocate it rather than copy it.
type view interface {
	viewName() string
}

type setupView struct {
	input   textinput.Model
	errText string
	picker  filepicker.Model
	picking bool
}

type loadingView struct {
	state   *index.State
	message string
	spin    spinner.Model
}

type collectionListView struct {
	state  *index.State
	cursor int
}

type romListView struct {
	state      *index.State
	title      string
	romIndices []int // indices into state.Index.Roms, discovery order
	rows       []int // romIndices sorted by rom name, display order
	cursor     int   // position within rows
	selected   int   // rom index shown in the detail pane; -1 for none
	preview    *imaging.Buffer
	picker     filepicker.Model
	picking    bool
}

type errorListView struct {
	state  *index.State
	cursor int
}

type fatalErrorView struct {
	desc string
}

func (*setupView) viewName() string          { return "setup" }
func (*loadingView) viewName() string        { return "loading" }
func (*collectionListView) viewName() string { return "collection list" }
func (*romListView) viewName() string        { return "rom list" }
func (*errorListView) viewName() string      { return "error list" }
func (*fatalErrorView) viewName() string     { return "fatal error" }

var (
	_ view = (*setupView)(nil)
	_ view = (*loadingView)(nil)
	_ view = (*collectionListView)(nil)
	_ view = (*romListView)(nil)
	_ view = (*errorListView)(nil)
	_ view = (*fatalErrorView)(nil)
)

func newSetupView(chosenPath, errText string) *setupView {
	input := textinput.New()
	input.Placeholder = "Path to Roms/"
	input.SetValue(chosenPath)
	input.Focus()
	return &setupView{input: input, errText: errText}
}

func newRomListView(st *index.State, title string, romIndices []int) *romListView {
	rows := make([]int, 0, len(romIndices))
	for _, i := range romIndices {
		if i >= 0 && i < len(st.Index.Roms) {
			rows = append(rows, i)
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return st.Index.Roms[rows[a]].Name < st.Index.Roms[rows[b]].Name
	})

	return &romListView{
		state:      st,
		title:      title,
		romIndices: romIndices,
		rows:       rows,
		selected:   -1,
	}
}

// Model is the Bubble Tea model for the whole application. Update runs
// synchronously per message; all blocking work happens inside dispatched
// tasks, each of which reports back with exactly one message.
type Model struct {
	view  view
	store config.Store
	clip  clipboard.Clipboard

	width  int
	height int
}

// NewModel starts at the setup view, optionally pre-filled from the
// persisted config. loadErr carries a non-fatal config load failure.
func NewModel(store config.Store, clip clipboard.Clipboard, chosenPath, loadErr string) Model {
	return Model{
		view:  newSetupView(chosenPath, loadErr),
		store: store,
		clip:  clip,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model. It is the single transition function over
// (active variant, message).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case dirChosenMsg:
		if v, ok := m.view.(*setupView); ok {
			v.input.SetValue(msg.path)
		}
		return m, nil

	case indexDoneMsg:
		// Loading is the only view a scan completes into, and the roms
		// folder identifies which session dispatched it. A result arriving
		// anywhere else, or carrying another session's folder, is stale.
		v, ok := m.view.(*loadingView)
		if !ok || v.state.RomsFolder != msg.state.RomsFolder {
			logging.Warnf("dropping index result for '%s': %s view active", msg.state.RomsFolder, m.view.viewName())
			return m, nil
		}
		m.view = &collectionListView{state: msg.state}
		return m, nil

	case previewLoadedMsg:
		// A preview for a rom that is no longer selected, or that arrives
		// after navigating away, is absorbed without any mutation.
		if v, ok := m.view.(*romListView); ok && v.selected == msg.romIndex {
			v.preview = msg.buf
			return m, nil
		}
		logging.Debugf("dropping stale preview for rom %d: %s view active", msg.romIndex, m.view.viewName())
		return m, nil

	case imageWrittenMsg:
		return m.applyImageWritten(msg)

	case recordErrorMsg:
		m.recordError(msg.text)
		return m, nil

	case fatalMsg:
		m.view = &fatalErrorView{desc: msg.desc}
		return m, nil

	case openCollectionListMsg:
		return m.openCollectionList()

	case openErrorListMsg:
		return m.openErrorList()

	case openRomListMsg:
		return m.openRomList(msg)

	case resetMsg:
		m.view = newSetupView("", "")
		return m, textinput.Blink

	case spinner.TickMsg:
		if v, ok := m.view.(*loadingView); ok {
			var cmd tea.Cmd
			v.spin, cmd = v.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m.updateComponents(msg)
}

// handleKey routes keys by active variant. Global bindings first.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		return m.Update(resetMsg{})
	}

	switch v := m.view.(type) {
	case *setupView:
		return m.handleSetupKey(v, msg)
	case *loadingView:
		return m, nil
	case *collectionListView:
		return m.handleCollectionListKey(v, msg)
	case *romListView:
		return m.handleRomListKey(v, msg)
	case *errorListView:
		return m.handleErrorListKey(v, msg)
	case *fatalErrorView:
		return m.handleFatalKey(v, msg)
	}
	return m, nil
}

func (m Model) handleSetupKey(v *setupView, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.picking {
		switch msg.String() {
		case "esc", "q":
			// Dialog cancelled: silent no-op, not an error.
			v.picking = false
			return m, nil
		}
		var cmd tea.Cmd
		v.picker, cmd = v.picker.Update(msg)
		if ok, path := v.picker.DidSelectFile(msg); ok {
			v.picking = false
			return m, func() tea.Msg { return dirChosenMsg{path: path} }
		}
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(v.input.Value())
		if path == "" {
			return m.Update(fatalMsg{desc: errNoPath})
		}
		return m.confirmSetup(path)
	case "ctrl+p":
		return m.openDirPicker(v)
	case "esc":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return m, cmd
}

// confirmSetup constructs a fresh collection state, moves into the loading
// view and dispatches the scan task. The task works on its own state; the
// one held by the loading view only collects errors until the scan result
// replaces it.
func (m Model) confirmSetup(path string) (tea.Model, tea.Cmd) {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statStyle))
	m.view = &loadingView{
		state:   index.NewState(path),
		message: setupIndexing,
		spin:    spin,
	}
	return m, tea.Batch(spin.Tick, scanCmd(path, m.store))
}

func (m Model) handleCollectionListKey(v *collectionListView, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.state.Index.Collections)-1 {
			v.cursor++
		}
	case "enter":
		if v.cursor < len(v.state.Index.Collections) {
			c := v.state.Index.Collections[v.cursor]
			return m.Update(openRomListMsg{title: c.Name, romIndices: c.RomIndices})
		}
	case "e":
		return m.Update(openErrorListMsg{})
	}
	return m, nil
}

func (m Model) handleRomListKey(v *romListView, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.picking {
		switch msg.String() {
		case "esc", "q":
			v.picking = false
			return m, nil
		}
		var cmd tea.Cmd
		v.picker, cmd = v.picker.Update(msg)
		if ok, path := v.picker.DidSelectFile(msg); ok {
			v.picking = false
			if rom, exists := v.selectedRom(); exists {
				return m, copyFileCmd(v.selected, path, rom.BoxartPath)
			}
			return m, nil
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m.Update(openCollectionListMsg{})
	case "e":
		return m.Update(openErrorListMsg{})
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case "enter":
		return m.selectRom(v)
	case "c":
		if rom, ok := v.selectedRom(); ok {
			return m, copyTextCmd(m.clip, rom.BoxartPath)
		}
	case "y":
		if rom, ok := v.selectedRom(); ok && rom.BoxartSize != 0 {
			return m, copyImageCmd(m.clip, rom.BoxartPath)
		}
	case "p":
		if rom, ok := v.selectedRom(); ok {
			return m, pasteImageCmd(m.clip, v.selected, rom.BoxartPath)
		}
	case "o":
		if _, ok := v.selectedRom(); ok {
			return m.openPNGPicker(v)
		}
	}
	return m, nil
}

func (m Model) handleErrorListKey(v *errorListView, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m.Update(openCollectionListMsg{})
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.state.Errors)-1 {
			v.cursor++
		}
	case "c", "enter":
		if v.cursor < len(v.state.Errors) {
			return m, copyTextCmd(m.clip, v.state.Errors[v.cursor])
		}
	}
	return m, nil
}

func (m Model) handleFatalKey(v *fatalErrorView, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "c":
		return m, copyTextCmd(m.clip, v.desc)
	case "r", "enter":
		return m.Update(resetMsg{})
	}
	return m, nil
}

// selectRom picks the rom under the cursor. Existing box art starts a
// preview load; a rom without box art clears the pane.
func (m Model) selectRom(v *romListView) (tea.Model, tea.Cmd) {
	if v.cursor >= len(v.rows) {
		return m, nil
	}
	v.selected = v.rows[v.cursor]
	v.preview = nil

	rom := v.state.Index.Roms[v.selected]
	if rom.BoxartSize != 0 {
		return m, loadPreviewCmd(v.selected, rom.BoxartPath)
	}
	return m, nil
}

// selectedRom returns the rom the detail pane refers to.
func (v *romListView) selectedRom() (*index.Rom, bool) {
	if v.selected < 0 || v.selected >= len(v.state.Index.Roms) {
		return nil, false
	}
	return &v.state.Index.Roms[v.selected], true
}

// applyImageWritten installs the on-disk size reported by a write task,
// then unconditionally reloads the preview from disk. The in-memory buffer
// is never assumed to match the file that was just written.
func (m Model) applyImageWritten(msg imageWrittenMsg) (tea.Model, tea.Cmd) {
	v, ok := m.view.(*romListView)
	if !ok {
		logging.Debugf("dropping stale write result for rom %d: %s view active", msg.romIndex, m.view.viewName())
		return m, nil
	}
	if msg.romIndex < 0 || msg.romIndex >= len(v.state.Index.Roms) {
		m.recordError(fmt.Sprintf("image write completed for unknown rom index %d", msg.romIndex))
		return m, nil
	}

	rom := &v.state.Index.Roms[msg.romIndex]
	rom.BoxartSize = msg.size
	if v.selected == msg.romIndex {
		v.preview = nil
	}
	return m, loadPreviewCmd(msg.romIndex, rom.BoxartPath)
}

// Navigation transitions. Each moves the collection state out of the
// current variant and into the next one in a single step; when the current
// variant is not a legal source the variant is left untouched and the
// failure re-enters the loop as a recorded error. Never a panic.

func (m Model) openCollectionList() (tea.Model, tea.Cmd) {
	switch v := m.view.(type) {
	case *romListView:
		m.view = &collectionListView{state: v.state}
	case *errorListView:
		m.view = &collectionListView{state: v.state}
	default:
		return m, m.guardFailed()
	}
	return m, nil
}

func (m Model) openErrorList() (tea.Model, tea.Cmd) {
	switch v := m.view.(type) {
	case *romListView:
		m.view = &errorListView{state: v.state}
	case *collectionListView:
		m.view = &errorListView{state: v.state}
	default:
		return m, m.guardFailed()
	}
	return m, nil
}

func (m Model) openRomList(msg openRomListMsg) (tea.Model, tea.Cmd) {
	switch v := m.view.(type) {
	case *collectionListView:
		m.view = newRomListView(v.state, msg.title, msg.romIndices)
	case *errorListView:
		m.view = newRomListView(v.state, msg.title, msg.romIndices)
	default:
		return m, m.guardFailed()
	}
	return m, nil
}

func (m Model) guardFailed() tea.Cmd {
	logging.Warnf("%s (%s view active)", errCannotNavigate, m.view.viewName())
	return func() tea.Msg { return recordErrorMsg{text: errCannotNavigate} }
}

// recordError appends text to the active state's error log. Variants
// without collection state only log it.
func (m Model) recordError(text string) {
	if st, ok := m.currentState(); ok {
		st.RecordError(text)
		return
	}
	logging.Warnf("dropping error outside collection state: %s", text)
}

// currentState returns the collection state owned by the active variant.
func (m Model) currentState() (*index.State, bool) {
	switch v := m.view.(type) {
	case *loadingView:
		return v.state, true
	case *collectionListView:
		return v.state, true
	case *romListView:
		return v.state, true
	case *errorListView:
		return v.state, true
	}
	return nil, false
}

// updateComponents forwards runtime messages (cursor blinks, directory
// listing results) to whichever embedded component is active.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := m.view.(type) {
	case *setupView:
		var cmd tea.Cmd
		if v.picking {
			v.picker, cmd = v.picker.Update(msg)
			return m, cmd
		}
		v.input, cmd = v.input.Update(msg)
		return m, cmd
	case *romListView:
		if v.picking {
			var cmd tea.Cmd
			v.picker, cmd = v.picker.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// openDirPicker replaces the setup input with a directory picker overlay.
func (m Model) openDirPicker(v *setupView) (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.CurrentDirectory = startDir(v.input.Value())
	fp.Height = pickerHeight(m.height)
	v.picker = fp
	v.picking = true
	return m, fp.Init()
}

// openPNGPicker opens the replacement-image picker, filtered to PNG files.
func (m Model) openPNGPicker(v *romListView) (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.AllowedTypes = []string{".png"}
	fp.CurrentDirectory = startDir("")
	fp.Height = pickerHeight(m.height)
	v.picker = fp
	v.picking = true
	return m, fp.Init()
}

// startDir picks a sensible directory for a picker to open in.
func startDir(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint != "" {
		if info, err := os.Stat(hint); err == nil && info.IsDir() {
			return hint
		}
		if parent := filepath.Dir(hint); parent != "" {
			if info, err := os.Stat(parent); err == nil && info.IsDir() {
				return parent
			}
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func pickerHeight(windowHeight int) int {
	if windowHeight <= 0 {
		return 12
	}
	h := windowHeight - 8
	if h < 8 {
		h = 8
	}
	if h > 20 {
		h = 20
	}
	return h
}
