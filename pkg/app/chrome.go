package app

import (
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/dom"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/shell"
)

// navEntry is one link in a chrome component.
type navEntry struct {
	href  string
	label string
}

var publicNav = []navEntry{
	{"/", "Home"},
	{"/about", "About"},
	{"/login", "Log in"},
}

var sideNav = []navEntry{
	{"/dashboard", "Dashboard"},
	{"/calendar", "Calendar"},
	{"/schedules", "Schedules"},
	{"/pictograms", "Pictograms"},
	{"/settings", "Settings"},
}

var bottomNav = []navEntry{
	{"/dashboard", "Today"},
	{"/calendar", "Calendar"},
	{"/pictograms", "Find"},
}

// renderLinks renders anchor elements, marking the active one. Chrome
// re-renders in place on every completed navigation, so the highlight
// follows the current path without any skeleton work.
func renderLinks(mount *dom.Element, entries []navEntry, activePath string) {
	for _, e := range entries {
		a := dom.NewElement("a", "")
		a.SetAttr("href", e.href)
		a.SetAttr("data-link", "true")
		if e.href == activePath {
			a.SetAttr("class", "active")
			a.SetAttr("aria-current", "page")
		}
		a.SetText(e.label)
		mount.Append(a)
	}
}

// NavBar is the public top navigation.
func NavBar() shell.Chrome {
	return shell.ChromeFunc(func(mount *dom.Element, snap session.Snapshot, activePath string) {
		renderLinks(mount, publicNav, activePath)
	})
}

// Footer is the public footer.
func Footer() shell.Chrome {
	return shell.ChromeFunc(func(mount *dom.Element, snap session.Snapshot, activePath string) {
		mount.SetText("CarlsCalendar")
	})
}

// TopBar is the authenticated top bar with the role badge.
func TopBar() shell.Chrome {
	return shell.ChromeFunc(func(mount *dom.Element, snap session.Snapshot, activePath string) {
		title := dom.NewElement("span", "")
		title.SetText("CarlsCalendar")
		badge := dom.NewElement("span", "role-badge")
		badge.SetText(string(snap.Role))
		mount.Append(title, badge)
	})
}

// SideBar is the authenticated sidebar. Parents see the children area,
// admins see administration, children see their planner.
func SideBar() shell.Chrome {
	return shell.ChromeFunc(func(mount *dom.Element, snap session.Snapshot, activePath string) {
		entries := sideNav
		switch snap.Role {
		case session.RoleParent:
			entries = append(append([]navEntry{}, entries...), navEntry{"/children", "Children"})
		case session.RoleAdmin:
			entries = append(append([]navEntry{}, entries...), navEntry{"/admin", "Administration"})
		case session.RoleChild:
			entries = []navEntry{{"/planner", "My day"}, {"/pictograms", "Find"}}
		}
		renderLinks(mount, entries, activePath)
	})
}

// BottomNav is the authenticated mobile bottom navigation.
func BottomNav() shell.Chrome {
	return shell.ChromeFunc(func(mount *dom.Element, snap session.Snapshot, activePath string) {
		renderLinks(mount, bottomNav, activePath)
	})
}
