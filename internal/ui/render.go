package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// View implements tea.Model.
func (m Model) View() string {
	switch v := m.view.(type) {
	case *setupView:
		return m.renderSetup(v)
	case *loadingView:
		return m.renderLoading(v)
	case *collectionListView:
		return m.renderCollectionList(v)
	case *romListView:
		return m.renderRomList(v)
	case *errorListView:
		return m.renderErrorList(v)
	case *fatalErrorView:
		return m.renderFatal(v)
	}
	return ""
}

func (m Model) renderSetup(v *setupView) string {
	var b strings.Builder
	b.WriteString(formatHeader(titleSetup))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(setupWelcome))
	b.WriteString("\n\n")

	if v.picking {
		b.WriteString(v.picker.View())
		b.WriteString("\n")
		b.WriteString(formatFooter(
			formatKeybinding("enter", "select"),
			formatKeybinding("esc", "cancel"),
		))
		return b.String()
	}

	b.WriteString(v.input.View())
	b.WriteString("\n")
	if v.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(v.errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatFooter(
		formatKeybinding("enter", "index"),
		formatKeybinding("ctrl+p", "browse"),
		formatKeybinding("esc", "quit"),
	))
	return b.String()
}

func (m Model) renderLoading(v *loadingView) string {
	var b strings.Builder
	b.WriteString(formatHeader(titleLoading))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s", v.spin.View(), contentStyle.Render(v.message)))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(v.state.RomsFolder))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCollectionList(v *collectionListView) string {
	var b strings.Builder
	b.WriteString(formatHeader(titleMain))
	b.WriteString("\n\n")

	collections := v.state.Index.Collections
	if len(collections) == 0 {
		b.WriteString(mutedStyle.Render("No collections found in " + v.state.RomsFolder))
		b.WriteString("\n")
	}

	first, last := visibleRange(v.cursor, len(collections), m.listHeight())
	for i := first; i < last; i++ {
		c := collections[i]
		line := fmt.Sprintf("%-30s %s", c.Name,
			statStyle.Render(fmt.Sprintf("%d %s", len(c.RomIndices), labelRoms)))
		if i == v.cursor {
			b.WriteString(highlightStyle.Render("> " + line))
		} else {
			b.WriteString(contentStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderErrorHint(len(v.state.Errors)))
	b.WriteString("\n")
	b.WriteString(formatFooter(
		formatKeybinding("↑/↓", "move"),
		formatKeybinding("enter", "open"),
		formatKeybinding("e", "errors"),
		formatKeybinding("q", "quit"),
	))
	return b.String()
}

func (m Model) renderRomList(v *romListView) string {
	var b strings.Builder
	b.WriteString(formatHeader(v.title))
	b.WriteString("\n\n")

	if v.picking {
		b.WriteString(v.picker.View())
		b.WriteString("\n")
		b.WriteString(formatFooter(
			formatKeybinding("enter", "select"),
			formatKeybinding("esc", "cancel"),
		))
		return b.String()
	}

	var list strings.Builder
	first, last := visibleRange(v.cursor, len(v.rows), m.listHeight())
	for i := first; i < last; i++ {
		rom := v.state.Index.Roms[v.rows[i]]
		line := rom.Name
		if v.rows[i] == v.selected {
			line = successStyle.Render(line)
		}
		if i == v.cursor {
			list.WriteString(highlightStyle.Render("> ") + line)
		} else {
			list.WriteString("  " + line)
		}
		list.WriteString("\n")
	}

	detail := m.renderRomDetail(v)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().MarginRight(2).Render(list.String()),
		detail,
	))

	b.WriteString("\n")
	b.WriteString(m.renderErrorHint(len(v.state.Errors)))
	b.WriteString("\n")
	b.WriteString(formatFooter(
		formatKeybinding("enter", "select"),
		formatKeybinding("c", "copy path"),
		formatKeybinding("y", "copy image"),
		formatKeybinding("p", "paste image"),
		formatKeybinding("o", "choose file"),
		formatKeybinding("esc", "back"),
	))
	return b.String()
}

// renderRomDetail draws the right-hand pane for the selected rom.
func (m Model) renderRomDetail(v *romListView) string {
	rom, ok := v.selectedRom()
	if !ok {
		return mutedStyle.Render(labelNoRomSelected)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(rom.Name))
	b.WriteString("\n")
	if rom.BoxartSize == 0 {
		b.WriteString(mutedStyle.Render(labelNoBoxArt))
		return b.String()
	}

	b.WriteString(statStyle.Render(fmt.Sprintf("%s: %s", labelBoxArt, humanize.IBytes(rom.BoxartSize))))
	b.WriteString("\n\n")
	if v.preview == nil {
		b.WriteString(mutedStyle.Render(labelLoadingImage))
	} else {
		b.WriteString(renderImage(v.preview, m.previewCols(), m.listHeight()))
	}
	return b.String()
}

func (m Model) renderErrorList(v *errorListView) string {
	var b strings.Builder
	b.WriteString(formatHeader(titleErrors))
	b.WriteString("\n\n")

	if len(v.state.Errors) == 0 {
		b.WriteString(mutedStyle.Render(labelNoErrors))
		b.WriteString("\n")
	}

	first, last := visibleRange(v.cursor, len(v.state.Errors), m.listHeight())
	for i := first; i < last; i++ {
		line := fmt.Sprintf("%3d. %s", i+1, v.state.Errors[i])
		if i == v.cursor {
			b.WriteString(highlightStyle.Render("> ") + warningStyle.Render(line))
		} else {
			b.WriteString("  " + contentStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatFooter(
		formatKeybinding("↑/↓", "move"),
		formatKeybinding("c", "copy"),
		formatKeybinding("esc", "back"),
		formatKeybinding("q", "quit"),
	))
	return b.String()
}

func (m Model) renderFatal(v *fatalErrorView) string {
	var b strings.Builder
	b.WriteString(formatHeader(titleFatal))
	b.WriteString("\n\n")
	b.WriteString(errorStyle.Render(v.desc))
	b.WriteString("\n\n")
	b.WriteString(formatFooter(
		formatKeybinding("r", "restart"),
		formatKeybinding("c", "copy"),
		formatKeybinding("q", "quit"),
	))
	return b.String()
}

func (m Model) renderErrorHint(count int) string {
	if count == 0 {
		return mutedStyle.Render(labelNoErrors)
	}
	noun := "errors"
	if count == 1 {
		noun = "error"
	}
	return warningStyle.Render(fmt.Sprintf("%d %s recorded, press e to review", count, noun))
}

// listHeight is the number of rows available for scrolling lists.
func (m Model) listHeight() int {
	if m.height <= 0 {
		return 16
	}
	h := m.height - 8
	if h < 4 {
		h = 4
	}
	return h
}

// previewCols is the cell width reserved for the box-art preview.
func (m Model) previewCols() int {
	if m.width <= 0 {
		return 40
	}
	cols := m.width/2 - 4
	if cols < 16 {
		cols = 16
	}
	if cols > 64 {
		cols = 64
	}
	return cols
}

// visibleRange windows a list of total rows around cursor so it fits in
// height rows.
func visibleRange(cursor, total, height int) (first, last int) {
	if total <= height {
		return 0, total
	}
	first = cursor - height/2
	if first < 0 {
		first = 0
	}
	last = first + height
	if last > total {
		last = total
		first = last - height
	}
	return first, last
}
