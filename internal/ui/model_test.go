package ui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextart/internal/config"
	"nextart/internal/imaging"
	"nextart/internal/index"
)

type memStore struct {
	cfg     *config.Config
	saves   int
	saveErr error
}

func (s *memStore) Load() (*config.Config, error) { return s.cfg, nil }

func (s *memStore) Save(cfg *config.Config) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cfg = cfg
	return nil
}

type memClipboard struct {
	text       string
	image      *imaging.Buffer
	readImgErr error
}

func (c *memClipboard) WriteText(text string) error { c.text = text; return nil }

func (c *memClipboard) ReadImage() (*imaging.Buffer, error) {
	if c.readImgErr != nil {
		return nil, c.readImgErr
	}
	return c.image, nil
}

func (c *memClipboard) WriteImage(buf *imaging.Buffer) error { c.image = buf; return nil }

func newTestModel(t *testing.T) (Model, *memStore, *memClipboard) {
	t.Helper()
	store := &memStore{}
	clip := &memClipboard{}
	return NewModel(store, clip, "", ""), store, clip
}

// step runs one Update and returns the resulting Model.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok, "Update must return a Model")
	return got, cmd
}

// drain runs cmd (and any batch it expands to) synchronously and feeds every
// produced message back into the model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	var next tea.Cmd
	m, next = step(t, m, msg)
	return drain(t, m, next)
}

func testState(romNames ...string) *index.State {
	st := index.NewState("/sd/Roms")
	indices := make([]int, 0, len(romNames))
	for i, name := range romNames {
		st.Index.Roms = append(st.Index.Roms, index.Rom{
			Name:       name,
			BoxartPath: fmt.Sprintf("/sd/Roms/GBA/.media/%s.png", name),
		})
		indices = append(indices, i)
	}
	st.Index.Collections = append(st.Index.Collections, index.Collection{
		Name:       "GBA",
		RomIndices: indices,
	})
	return st
}

// withCollectionList puts a model directly into the collection list view.
func withCollectionList(m Model, st *index.State) Model {
	m.view = &collectionListView{state: st}
	return m
}

func TestSetupConfirmMovesToLoading(t *testing.T) {
	m, _, _ := newTestModel(t)

	v := m.view.(*setupView)
	v.input.SetValue("/sd/Roms")
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	loading, ok := m.view.(*loadingView)
	require.True(t, ok, "confirm with a path should enter the loading view")
	assert.Equal(t, "/sd/Roms", loading.state.RomsFolder)
	assert.NotNil(t, cmd, "confirm should dispatch the scan task")
}

func TestSetupConfirmWithoutPathIsFatal(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	fatal, ok := m.view.(*fatalErrorView)
	require.True(t, ok, "confirm with no path should enter the fatal view")
	assert.Equal(t, errNoPath, fatal.desc)
}

func TestDirChosenOnlyAppliesDuringSetup(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = step(t, m, dirChosenMsg{path: "/sd/Roms"})
	assert.Equal(t, "/sd/Roms", m.view.(*setupView).input.Value())

	m = withCollectionList(m, testState("Alpha"))
	m, _ = step(t, m, dirChosenMsg{path: "/elsewhere"})
	_, ok := m.view.(*collectionListView)
	assert.True(t, ok, "a late folder choice must not disturb other views")
}

func TestIndexDoneOnlyCompletesIntoLoading(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha", "Beta")

	// Not loading: result is stale and must be dropped.
	m, _ = step(t, m, indexDoneMsg{state: st})
	_, ok := m.view.(*setupView)
	require.True(t, ok, "stale scan result must not leave setup")

	m.view = &loadingView{state: index.NewState("/sd/Roms")}
	m, _ = step(t, m, indexDoneMsg{state: st})
	cl, ok := m.view.(*collectionListView)
	require.True(t, ok)
	assert.Same(t, st, cl.state, "the scan's state is adopted wholesale")
}

func TestScanResultFromBeforeResetIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t)

	// Confirm a first folder, reset mid-scan, confirm a second one.
	m.view.(*setupView).input.SetValue("/sd/first")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m.view.(*setupView).input.SetValue("/sd/second")
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	firstResult := index.NewState("/sd/first")
	secondResult := index.NewState("/sd/second")

	// The first scan finishes late; its session no longer exists and it
	// must not displace the one now loading.
	m, _ = step(t, m, indexDoneMsg{state: firstResult})
	loading, ok := m.view.(*loadingView)
	require.True(t, ok, "a superseded scan result must not end the newer session")
	assert.Equal(t, "/sd/second", loading.state.RomsFolder)

	// The second session's own result still lands.
	m, _ = step(t, m, indexDoneMsg{state: secondResult})
	cl, ok := m.view.(*collectionListView)
	require.True(t, ok)
	assert.Same(t, secondResult, cl.state)
}

func TestNavigationRoundTripKeepsState(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Beta", "Alpha")
	m = withCollectionList(m, st)

	m, _ = step(t, m, openRomListMsg{title: "GBA", romIndices: []int{0, 1}})
	rl, ok := m.view.(*romListView)
	require.True(t, ok)
	assert.Same(t, st, rl.state)
	assert.Equal(t, []int{1, 0}, rl.rows, "display order is sorted by name")

	m, _ = step(t, m, openErrorListMsg{})
	el, ok := m.view.(*errorListView)
	require.True(t, ok)
	assert.Same(t, st, el.state)

	m, _ = step(t, m, openCollectionListMsg{})
	cl, ok := m.view.(*collectionListView)
	require.True(t, ok)
	assert.Same(t, st, cl.state, "the same state instance travels the whole loop")
}

func TestNavigationGuardRecordsErrorAndNeverPanics(t *testing.T) {
	for _, msg := range []tea.Msg{openCollectionListMsg{}, openErrorListMsg{}, openRomListMsg{title: "GBA"}} {
		m, _, _ := newTestModel(t)

		var cmd tea.Cmd
		assert.NotPanics(t, func() { m, cmd = step(t, m, msg) })

		_, ok := m.view.(*setupView)
		require.True(t, ok, "a guarded navigation leaves the view untouched")
		require.NotNil(t, cmd, "the guard reports the failure as an error message")
		assert.Equal(t, recordErrorMsg{text: errCannotNavigate}, cmd())
	}
}

func TestRecordErrorAppendsInStateCarryingViews(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha")

	m.view = &errorListView{state: st}
	m, _ = step(t, m, recordErrorMsg{text: "first"})
	m.view = &collectionListView{state: st}
	m, _ = step(t, m, recordErrorMsg{text: "second"})

	assert.Equal(t, []string{"first", "second"}, st.Errors)
}

func TestRecordErrorDroppedWithoutState(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.NotPanics(t, func() {
		m, _ = step(t, m, recordErrorMsg{text: "orphaned"})
	})
	_, ok := m.view.(*setupView)
	assert.True(t, ok)
}

func TestStalePreviewIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha", "Beta")
	m = withCollectionList(m, st)
	m, _ = step(t, m, openRomListMsg{title: "GBA", romIndices: []int{0, 1}})

	rl := m.view.(*romListView)
	rl.selected = 0

	buf, err := imaging.NewBuffer(1, 1, []byte{1, 2, 3, 255})
	require.NoError(t, err)

	// Reply for a rom that is no longer selected.
	m, _ = step(t, m, previewLoadedMsg{romIndex: 1, buf: buf})
	assert.Nil(t, m.view.(*romListView).preview)

	// Reply for the selected rom lands.
	m, _ = step(t, m, previewLoadedMsg{romIndex: 0, buf: buf})
	assert.Same(t, buf, m.view.(*romListView).preview)

	// Reply arriving after navigating away mutates nothing.
	m, _ = step(t, m, openCollectionListMsg{})
	assert.NotPanics(t, func() {
		m, _ = step(t, m, previewLoadedMsg{romIndex: 0, buf: buf})
	})
	_, ok := m.view.(*collectionListView)
	assert.True(t, ok)
}

func TestImageWrittenUpdatesSizeAndReloadsPreview(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha")
	m = withCollectionList(m, st)
	m, _ = step(t, m, openRomListMsg{title: "GBA", romIndices: []int{0}})

	rl := m.view.(*romListView)
	rl.selected = 0
	stale, err := imaging.NewBuffer(1, 1, []byte{0, 0, 0, 255})
	require.NoError(t, err)
	rl.preview = stale

	m, cmd := step(t, m, imageWrittenMsg{romIndex: 0, size: 4096})

	rl = m.view.(*romListView)
	assert.Equal(t, uint64(4096), st.Index.Roms[0].BoxartSize, "recorded size comes from the write result")
	assert.Nil(t, rl.preview, "the stale preview is discarded until the reload lands")
	assert.NotNil(t, cmd, "a fresh preview load is dispatched from disk")
}

func TestImageWrittenOutOfRangeRecordsError(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha")
	m = withCollectionList(m, st)
	m, _ = step(t, m, openRomListMsg{title: "GBA", romIndices: []int{0}})

	m, cmd := step(t, m, imageWrittenMsg{romIndex: 7, size: 1})
	assert.Nil(t, cmd)
	require.Len(t, st.Errors, 1)
	assert.Contains(t, st.Errors[0], "unknown rom index 7")
}

func TestImageWrittenOutsideRomListIsDropped(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha")
	m = withCollectionList(m, st)

	m, cmd := step(t, m, imageWrittenMsg{romIndex: 0, size: 9})
	assert.Nil(t, cmd)
	assert.Zero(t, st.Index.Roms[0].BoxartSize)
	assert.Empty(t, st.Errors)
}

func TestSelectRomWithBoxartStartsPreviewLoad(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha", "Beta")
	st.Index.Roms[0].BoxartSize = 128
	m = withCollectionList(m, st)
	m, _ = step(t, m, openRomListMsg{title: "GBA", romIndices: []int{0, 1}})

	// Sorted rows: Alpha (rom 0) first.
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	rl := m.view.(*romListView)
	assert.Equal(t, 0, rl.selected)
	assert.NotNil(t, cmd, "existing box art triggers a preview load")

	// Move to Beta, which has no box art.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	rl = m.view.(*romListView)
	assert.Equal(t, 1, rl.selected)
	assert.Nil(t, rl.preview)
	assert.Nil(t, cmd, "no box art means nothing to load")
}

func TestCopyPathUsesClipboard(t *testing.T) {
	m, _, clip := newTestModel(t)
	st := testState("Alpha")
	m = withCollectionList(m, st)
	m, _ = step(t, m, openRomListMsg{title: "GBA", romIndices: []int{0}})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = drain(t, m, cmd)

	assert.Equal(t, st.Index.Roms[0].BoxartPath, clip.text)
}

func TestErrorListCopyUsesClipboard(t *testing.T) {
	m, _, clip := newTestModel(t)
	st := testState("Alpha")
	st.RecordError("could not read 'foo'")
	m.view = &errorListView{state: st}

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = drain(t, m, cmd)

	assert.Equal(t, "could not read 'foo'", clip.text)
}

func TestFatalCopyAndRestart(t *testing.T) {
	m, _, clip := newTestModel(t)
	m.view = &fatalErrorView{desc: "disk on fire"}

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = drain(t, m, cmd)
	assert.Equal(t, "disk on fire", clip.text)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	v, ok := m.view.(*setupView)
	require.True(t, ok, "restart returns to a fresh setup")
	assert.Empty(t, v.input.Value())
	assert.Empty(t, v.errText)
}

func TestGlobalResetDiscardsState(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha")
	m = withCollectionList(m, st)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	_, ok := m.view.(*setupView)
	assert.True(t, ok)
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _, _ := newTestModel(t)
	st := testState("Alpha", "Beta")
	m = withCollectionList(m, st)

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}

	for i := 0; i < 5; i++ {
		m, _ = step(t, m, down)
	}
	assert.Equal(t, 0, m.view.(*collectionListView).cursor, "one collection only")

	m, _ = step(t, m, openRomListMsg{title: "GBA", romIndices: []int{0, 1}})
	for i := 0; i < 5; i++ {
		m, _ = step(t, m, down)
	}
	assert.Equal(t, 1, m.view.(*romListView).cursor)
	for i := 0; i < 5; i++ {
		m, _ = step(t, m, up)
	}
	assert.Equal(t, 0, m.view.(*romListView).cursor)
}

func TestEveryNavigationMessageHandledInEveryView(t *testing.T) {
	variants := func() []view {
		st := testState("Alpha")
		return []view{
			newSetupView("", ""),
			&loadingView{state: index.NewState("/sd/Roms")},
			&collectionListView{state: st},
			newRomListView(st, "GBA", []int{0}),
			&errorListView{state: st},
			&fatalErrorView{desc: "boom"},
		}
	}

	messages := []tea.Msg{
		dirChosenMsg{path: "/sd/Roms"},
		previewLoadedMsg{romIndex: 0},
		imageWrittenMsg{romIndex: 0, size: 1},
		recordErrorMsg{text: "x"},
		fatalMsg{desc: "x"},
		openCollectionListMsg{},
		openErrorListMsg{},
		openRomListMsg{title: "GBA", romIndices: []int{0}},
		resetMsg{},
	}

	for _, msg := range messages {
		for _, v := range variants() {
			m, _, _ := newTestModel(t)
			m.view = v
			assert.NotPanics(t, func() {
				m.Update(msg)
			}, "message %T in %s view", msg, v.viewName())
		}
	}
}

func TestViewRendersForEveryVariant(t *testing.T) {
	st := testState("Alpha", "Beta")
	st.Index.Roms[0].BoxartSize = 2048
	st.RecordError("could not read 'foo'")

	for _, v := range []view{
		newSetupView("/sd/Roms", "bad config"),
		&loadingView{state: st, message: setupIndexing},
		&collectionListView{state: st},
		newRomListView(st, "GBA", []int{0, 1}),
		&errorListView{state: st},
		&fatalErrorView{desc: "boom"},
	} {
		m, _, _ := newTestModel(t)
		m.view = v
		out := m.View()
		assert.NotEmpty(t, out, "%s view renders", v.viewName())
	}
}
