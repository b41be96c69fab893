package gui

import (
	"github.com/rivo/tview"
)

func (g *Gui) databaseSelection(p *tview.Pages) tview.Primitive {
	list := tview.NewList()

	choose := func(dbType string) func() {
		return func() {
			p.AddPage("db-config", g.databaseConfigPage(p, dbType), true, false)
			p.SwitchToPage("db-config")
		}
	}

	list.AddItem("sqlite", "Creates a database file on disk, good for a single back-office user, [::b]if you have no experience with databases, use this option", '1', choose("sqlite"))
	list.AddItem("MySql", "Requires a running MySql server, recommended if several people manage the catalog", '2', choose("mysql"))
	list.AddItem("Postgres", "Requires a running Postgres server, recommended if several people manage the catalog", '3', choose("postgres"))

	return framed(list, "Choosing Database", "Please select below what database you would like to store the catalog in", footerContinue)
}
