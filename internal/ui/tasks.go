package ui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"nextart/internal/clipboard"
	"nextart/internal/config"
	"nextart/internal/imaging"
	"nextart/internal/index"
	"nextart/internal/logging"
)

// Task constructors. Each returns a tea.Cmd that runs off the update loop
// and delivers exactly one completion message. Tasks never touch the view
// state directly: the scan task works on its own private index.State and
// hands it back wholesale.

// scanCmd persists the chosen roms path, then indexes it. Both the config
// save failure and a fatal scan failure are recorded in the returned
// state's error log rather than aborting the session.
func scanCmd(romsFolder string, store config.Store) tea.Cmd {
	return func() tea.Msg {
		st := index.NewState(romsFolder)

		if err := store.Save(&config.Config{RomsPath: romsFolder}); err != nil {
			st.RecordError(err.Error())
		}

		logging.Infof("indexing %s", romsFolder)
		if err := st.ScanRoot(); err != nil {
			st.RecordError(err.Error())
		}
		logging.Infof("indexed %d roms in %d collections, %d errors",
			len(st.Index.Roms), len(st.Index.Collections), len(st.Errors))

		return indexDoneMsg{state: st}
	}
}

// loadPreviewCmd decodes the box art at path for on-screen display.
func loadPreviewCmd(romIndex int, path string) tea.Cmd {
	return func() tea.Msg {
		buf, err := imaging.DecodeFile(path)
		if err != nil {
			return recordErrorMsg{text: err.Error()}
		}
		return previewLoadedMsg{romIndex: romIndex, buf: buf}
	}
}

// pasteImageCmd reads an image off the clipboard and writes it to the
// rom's box-art path as PNG. An empty clipboard is an error, not a no-op.
func pasteImageCmd(clip clipboard.Clipboard, romIndex int, dst string) tea.Cmd {
	return func() tea.Msg {
		buf, err := clip.ReadImage()
		if err != nil {
			return recordErrorMsg{text: err.Error()}
		}
		size, err := imaging.WriteFile(buf, dst)
		if err != nil {
			return recordErrorMsg{text: err.Error()}
		}
		return imageWrittenMsg{romIndex: romIndex, size: size}
	}
}

// copyFileCmd replaces a rom's box art with a picked file via a byte copy.
func copyFileCmd(romIndex int, src, dst string) tea.Cmd {
	return func() tea.Msg {
		size, err := copyFile(src, dst)
		if err != nil {
			return recordErrorMsg{text: fmt.Sprintf("failed to copy '%s' to '%s': %v", src, dst, err)}
		}
		return imageWrittenMsg{romIndex: romIndex, size: size}
	}
}

// copyImageCmd places a rom's box art on the clipboard.
// Success produces no message.
func copyImageCmd(clip clipboard.Clipboard, path string) tea.Cmd {
	return func() tea.Msg {
		buf, err := imaging.DecodeFile(path)
		if err != nil {
			return recordErrorMsg{text: err.Error()}
		}
		if err := clip.WriteImage(buf); err != nil {
			return recordErrorMsg{text: err.Error()}
		}
		return nil
	}
}

// copyTextCmd places text on the clipboard. Success produces no message.
func copyTextCmd(clip clipboard.Clipboard, text string) tea.Cmd {
	return func() tea.Msg {
		if err := clip.WriteText(text); err != nil {
			return recordErrorMsg{text: err.Error()}
		}
		return nil
	}
}

func copyFile(src, dst string) (uint64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return uint64(written), nil
}
