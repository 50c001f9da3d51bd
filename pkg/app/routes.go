// Package app assembles the CarlsCalendar shell: the application's route
// table, its navigation chrome, the auth overlay, and the controller
// wiring. The packages below this one are generic; everything
// CarlsCalendar-specific lives here.
package app

import (
	"context"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/loader"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/router"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
)

// staticPage builds a page module rendering a heading and body text.
// The real pages fetch their data over the HTTP API; for the headless
// shell (and the dev CLI) this stand-in keeps navigation observable.
func staticPage(heading string) loader.LoaderFunc {
	return loader.Static(loader.ModuleFunc(func(ctx context.Context, mount *dom.Element) error {
		h := dom.NewElement("h1", "")
		h.SetText(heading)
		mount.Append(h)
		return nil
	}))
}

// Routes is the CarlsCalendar route table, first-match-wins, catch-all
// last. Role requirements mirror the backend: the admin area is
// admin-only and the child planner is child-only; everything else
// behind auth accepts any logged-in user.
func Routes() []router.Route {
	return []router.Route{
		{Pattern: "/", Loader: staticPage("Welcome to CarlsCalendar"), Title: "Home"},
		{Pattern: "/about", Loader: staticPage("About"), Title: "About"},
		{Pattern: "/consent", Loader: staticPage("Consent"), Title: "Consent"},

		{Pattern: "/dashboard", Loader: staticPage("Dashboard"), Title: "Dashboard", RequiresAuth: true},
		{Pattern: "/calendar", Loader: staticPage("Calendar"), Title: "Calendar", RequiresAuth: true},
		{Pattern: "/calendar/:day", Loader: staticPage("Day plan"), Title: "Day plan", RequiresAuth: true},
		{Pattern: "/schedules", Loader: staticPage("Schedules"), Title: "Schedules", RequiresAuth: true},
		{Pattern: "/schedules/:id", Loader: staticPage("Schedule"), Title: "Schedule", RequiresAuth: true},
		{Pattern: "/pictograms", Loader: staticPage("Pictogram search"), Title: "Pictograms", RequiresAuth: true},
		{Pattern: "/children", Loader: staticPage("Children"), Title: "Children", RequiresRole: session.RoleParent},
		{Pattern: "/planner", Loader: staticPage("My day"), Title: "My day", RequiresRole: session.RoleChild},
		{Pattern: "/settings", Loader: staticPage("Settings"), Title: "Settings", RequiresAuth: true},
		{Pattern: "/admin", Loader: staticPage("Administration"), Title: "Administration", RequiresRole: session.RoleAdmin},
		{Pattern: "/admin/users", Loader: staticPage("User management"), Title: "User management", RequiresRole: session.RoleAdmin},
		{Pattern: "^/documents/.+$", Loader: staticPage("Visual document"), Title: "Visual document", RequiresAuth: true},

		{Pattern: "*", Loader: staticPage("Page not found"), Title: "Page not found", CatchAll: true},
	}
}
