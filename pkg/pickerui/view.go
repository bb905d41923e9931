// Package pickerui draws picker frames with tview and turns tcell key events into picker buttons.
package pickerui

import (
	"errors"
	"fmt"

	"github.com/filetug/filepick/pkg/chroma2tcell"
	"github.com/filetug/filepick/pkg/files"
	"github.com/filetug/filepick/pkg/fsutils"
	"github.com/filetug/filepick/pkg/picker"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const keyHelp = "[yellow]↑/k[-] up  [yellow]↓/j[-] down  [yellow]Enter/l[-] open  [yellow]Backspace/h[-] back  [yellow]Esc/q[-] quit"

const (
	colMarker = iota
	colName
	colSize
)

// View shows one picker frame: a header with the location, the entries table and a footer.
// Show must be called from the tview event loop.
type View struct {
	*tview.Flex
	location  *tview.TextView
	counter   *tview.TextView
	table     *tview.Table
	footer    *tview.TextView
	colorizer chroma2tcell.Colorizer
}

func NewView() *View {
	v := &View{
		Flex:      tview.NewFlex().SetDirection(tview.FlexRow),
		location:  tview.NewTextView().SetDynamicColors(true),
		counter:   tview.NewTextView().SetTextAlign(tview.AlignRight),
		table:     tview.NewTable(),
		footer:    tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		colorizer: chroma2tcell.NewColorizer(chroma2tcell.DefaultStyle),
	}
	v.table.SetSelectable(true, false)
	v.table.SetFixed(1, 0)
	v.table.SetSelectedStyle(tcell.StyleDefault.Background(tcell.ColorDarkSlateGray))

	header := tview.NewFlex().
		AddItem(v.location, 0, 1, false).
		AddItem(v.counter, 12, 0, false)

	v.AddItem(header, 1, 0, false)
	v.AddItem(v.table, 0, 1, true)
	v.AddItem(v.footer, 2, 0, false)
	return v
}

func counterText(frame picker.Frame) string {
	n := frame.Entries.Len()
	if n == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", frame.Selected+1, n)
}

func sizeText(entry files.DirEntry) string {
	switch entry.Kind() {
	case files.KindDirectory:
		return "Directory"
	case files.KindFile:
		return fsutils.GetSizeShortText(entry.Size())
	default:
		return fsutils.GetSizeShortText(entry.Size()) + " ?"
	}
}

func failureText(frame picker.Frame) string {
	location := tview.Escape(frame.Device + ":" + frame.Path)
	if errors.Is(frame.Err, picker.ErrPathCapacityExceeded) {
		return fmt.Sprintf("[red]Path too long in '%s'[-]\n%s", location, tview.Escape(frame.Err.Error()))
	}
	var listingErr *picker.ListingError
	if errors.As(frame.Err, &listingErr) {
		return fmt.Sprintf("[red]Failed to open '%s'[-]\n%s: %s",
			location, listingErr.Stage, tview.Escape(fmt.Sprint(listingErr.Err)))
	}
	return fmt.Sprintf("[red]Failed to open '%s'[-]\n%s", location, tview.Escape(fmt.Sprint(frame.Err)))
}

func (v *View) footerText(frame picker.Frame) string {
	switch frame.State {
	case picker.StateFailed:
		return failureText(frame)
	case picker.StateConfirmed:
		entry := frame.Entries.At(frame.Selected)
		return fmt.Sprintf("[green]Selected[-] %s", tview.Escape(frame.Device+":"+frame.Path+entry.Name()))
	}
	text := keyHelp
	if frame.Entries.Len() > 0 {
		if entry := frame.Entries.At(frame.Selected); entry.Kind() == files.KindFile {
			text = fmt.Sprintf("%s: %s bytes\n%s", tview.Escape(entry.Name()), fsutils.GetSizeExactText(entry.Size()), keyHelp)
		}
	}
	return text
}

// Show replaces everything on screen with frame.
func (v *View) Show(frame picker.Frame) {
	v.location.SetText(fmt.Sprintf("[::b]%s[::-]", tview.Escape(frame.Device+":"+frame.Path)))
	v.counter.SetText(counterText(frame))
	v.footer.SetText(v.footerText(frame))

	v.table.Clear()
	for col, title := range []string{" ", "NAME", "SIZE"} {
		v.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	v.table.GetCell(0, colSize).SetAlign(tview.AlignRight)

	if frame.State == picker.StateFailed {
		return
	}
	if frame.Entries.Len() == 0 {
		v.table.SetCell(1, colName, tview.NewTableCell("Empty directory").
			SetTextColor(tcell.ColorGray).
			SetSelectable(false))
		return
	}
	for i, entry := range frame.Entries.All() {
		row := i + 1
		marker := " "
		if i == frame.Selected {
			marker = ">"
		}
		color := v.colorizer.NameColor(entry.Name(), entry.Kind() == files.KindDirectory, entry.Kind() == files.KindOther)
		v.table.SetCell(row, colMarker, tview.NewTableCell(marker))
		v.table.SetCell(row, colName, tview.NewTableCell(tview.Escape(entry.Name())).
			SetTextColor(color).
			SetExpansion(1))
		v.table.SetCell(row, colSize, tview.NewTableCell(sizeText(entry)).
			SetAlign(tview.AlignRight))
	}
	v.table.Select(frame.Selected+1, colName)
}
