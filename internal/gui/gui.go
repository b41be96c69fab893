package gui

import (
	"os"

	"github.com/FlagBrew/local-pokedex/internal/models"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	footerContinue = "[red]ESC - exit[-:-:-:-] [yellow] Enter - continue"
	footerForm     = "[red]ESC - exit[-:-:-:-] [yellow] Enter - next input/submit [orange] (Shift+)Tab - switch inputs"
	formHelp       = "Please fill out the form below. Values already in your config file are pre-filled."
)

// Gui is the first-run wizard that writes config.json.
type Gui struct {
	app    *tview.Application
	config *models.Config
}

func New(config *models.Config) *Gui {
	app := &Gui{
		app:    tview.NewApplication(),
		config: &models.Config{},
	}

	if config != nil {
		app.config = config
	}

	app.app.EnableMouse(true)

	app.Init()

	return app
}

func (g *Gui) Init() {
	pages := tview.NewPages()
	pages.AddPage("setup", g.introPage(pages), true, true)
	pages.AddPage("database-type", g.databaseSelection(pages), true, false)

	pages.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEscape:
			g.app.Stop()
			os.Exit(0)
		}
		return event
	})

	g.app.SetRoot(pages, true)
}

// Start blocks until the wizard is saved or the terminal is closed.
func (g *Gui) Start() error {
	return g.app.Run()
}

func (g *Gui) Stop() {
	g.app.Stop()
}

// framed wraps a primitive the way every wizard page looks.
func framed(p tview.Primitive, title, help, footer string) *tview.Frame {
	frame := tview.NewFrame(p)
	frame.SetBorder(true)
	frame.SetTitle("Local Pokedex - " + title)
	if help != "" {
		frame.AddText(help, true, tview.AlignLeft, tcell.ColorYellow)
	}
	frame.AddText(footer, false, tview.AlignLeft, tcell.ColorYellow)
	return frame
}

// showErrors redraws frame with its header text followed by errs.
func showErrors(frame *tview.Frame, help string, errs []string) {
	frame.Clear()
	frame.AddText(help, true, tview.AlignLeft, tcell.ColorYellow)
	frame.AddText(footerForm, false, tview.AlignLeft, tcell.ColorYellow)
	if len(errs) == 0 {
		return
	}

	frame.AddText("Errors: ", true, tview.AlignLeft, tcell.ColorYellow)
	for _, v := range errs {
		frame.AddText(v, true, tview.AlignLeft, tcell.ColorRed)
	}
}
