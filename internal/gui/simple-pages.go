package gui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

func (g *Gui) introPage(p *tview.Pages) tview.Primitive {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetText(`Welcome to Local Pokedex, the back-office for the Pokémon, regions and packs of your catalog.

No configuration file was found, so this wizard will walk you through creating one: where the catalog is stored, where the API listens, and how requests are authorized.

[::b]It is strongly recommended that you maximize this terminal window to avoid text being cut-off[-:-:-:-]

If you would like to exit the wizard early, please press the [red]esc key[-:-:-:-], otherwise please press [yellow]enter[-:-:-:-] to continue

`)

	textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			p.SwitchToPage("database-type")
		}
		return event
	})

	frame := tview.NewFrame(textView)
	frame.AddText(footerContinue, false, tview.AlignLeft, tcell.ColorYellow)
	frame.SetBorder(true).SetTitle("Local Pokedex")
	return frame
}

func (g *Gui) confirmationPage(p *tview.Pages) tview.Primitive {
	form := tview.NewForm()

	rateLimit := "unlimited"
	if g.config.HTTP.RateLimit > 0 {
		rateLimit = fmt.Sprintf("%d requests per minute per IP", g.config.HTTP.RateLimit)
	}

	seed := "none"
	if g.config.Misc.SeedFile != "" {
		seed = fmt.Sprintf("%s (import on start: %t)", g.config.Misc.SeedFile, g.config.Misc.SeedOnStart)
	}

	form.AddTextView("Database Settings", describeDSN(g.config.Database.DBType, g.config.Database.ConnectionString), 0, 0, true, true)
	form.AddTextView("HTTP Settings", fmt.Sprintf(`Listening Address: %s
Listening Port: %d
Rate Limit: %s
Max Upload: %d MB
`, g.config.HTTP.ListeningAddr, g.config.HTTP.Port, rateLimit, g.config.HTTP.UploadLimit()>>20), 0, 0, true, true)
	form.AddTextView("Access", fmt.Sprintf(`Issuer: %s
Admin Role: %s
Seed File: %s
`, g.config.Auth.Issuer, g.config.Auth.AdminRole, seed), 0, 0, true, true)

	form.AddButton("Save", func() {
		g.Stop()
	})
	form.AddButton("Edit", func() {
		p.SwitchToPage("database-type")
	})

	return framed(form, "Settings Review",
		"Please review the details below. Save writes the config file, Edit goes back to the first page with your answers kept.",
		"[red]ESC - exit[-:-:-:-] [yellow] Enter - submit [orange] (Shift+)Tab - switch buttons")
}
