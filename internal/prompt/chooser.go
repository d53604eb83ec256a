package prompt

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ErrCancelled is returned when the user leaves a prompt without choosing.
var ErrCancelled = errors.New("selection cancelled")

// Chooser asks the user to pick one of items.
type Chooser interface {
	Choose(title string, items []string) (string, error)
}

// TUIChooser is a full-screen filterable list: typing narrows the list,
// arrows move, Enter picks and Esc cancels.
type TUIChooser struct {
	// Screen overrides the terminal; nil uses the default screen.
	Screen tcell.Screen
}

// Choose runs the list until the user picks an item or cancels.
func (t *TUIChooser) Choose(title string, items []string) (string, error) {
	if len(items) == 0 {
		return "", errors.New("nothing to choose from")
	}

	c := newChooser(title, items)
	if t.Screen != nil {
		c.app.SetScreen(t.Screen)
	}
	if err := c.app.Run(); err != nil {
		return "", err
	}
	if !c.ok {
		return "", ErrCancelled
	}
	return c.choice, nil
}

type chooser struct {
	app    *tview.Application
	input  *tview.InputField
	list   *tview.List
	status *tview.TextView
	items  []string
	choice string
	ok     bool
}

func newChooser(title string, items []string) *chooser {
	c := &chooser{
		app:   tview.NewApplication(),
		items: items,
	}

	c.list = tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	c.list.SetBorder(true).SetTitle(" " + title + " ")

	c.input = tview.NewInputField().
		SetLabel("Search: ").
		SetFieldBackgroundColor(tcell.ColorDefault)
	c.input.SetChangedFunc(c.refill)
	c.input.SetInputCapture(c.handleKey)

	c.status = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]type[-] filter  [yellow]↑↓[-] move  [yellow]Enter[-] select  [yellow]Esc[-] cancel")

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(c.list, 0, 1, false).
		AddItem(c.input, 1, 0, true).
		AddItem(c.status, 1, 0, false)

	c.app.SetRoot(layout, true).SetFocus(c.input)
	c.refill("")
	return c
}

func (c *chooser) refill(query string) {
	c.list.Clear()
	for _, item := range Filter(c.items, query) {
		item := item
		c.list.AddItem(item, "", 0, func() { c.pick(item) })
	}
}

func (c *chooser) pick(item string) {
	c.choice = item
	c.ok = true
	c.app.Stop()
}

func (c *chooser) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyPgUp, tcell.KeyPgDn:
		if handler := c.list.InputHandler(); handler != nil {
			handler(event, func(tview.Primitive) {})
		}
		return nil
	case tcell.KeyEnter:
		if c.list.GetItemCount() > 0 {
			main, _ := c.list.GetItemText(c.list.GetCurrentItem())
			c.pick(main)
		}
		return nil
	case tcell.KeyEsc:
		c.app.Stop()
		return nil
	}
	return event
}
