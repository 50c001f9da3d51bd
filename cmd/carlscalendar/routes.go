package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ranrar/CarlsCalendar-sub000/pkg/app"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/router"
	"github.com/Ranrar/CarlsCalendar-sub000/pkg/session"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the shell's route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := router.NewTable(app.Routes())
			if err != nil {
				return err
			}

			for _, r := range table.Routes() {
				pattern := r.Pattern
				if r.CatchAll {
					pattern = "(catch-all)"
				}
				fmt.Printf("%-24s %-18s %s\n", pattern, guardLabel(r), r.Title)
			}
			return nil
		},
	}
}

func guardLabel(r router.Route) string {
	switch {
	case r.RequiresRole != session.RoleNone:
		return "role:" + string(r.RequiresRole)
	case r.RequiresAuth:
		return "auth"
	default:
		return "public"
	}
}
