package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"confdesk-cli/ledger"
	"confdesk-cli/model"
	"confdesk-cli/service"
	"confdesk-cli/store"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List rooms available for a date range",
	Long:  `Query the backend for rooms free across a whole date range, grouped by venue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		city := strings.TrimSpace(cmd.Flag("city").Value.String())
		if city == "" {
			var err error
			if city, err = service.PromptCity(); err != nil {
				return err
			}
		}

		start, err := flagOrPromptDate(cmd, "start", "First day")
		if err != nil {
			return err
		}
		end, err := flagOrPromptDate(cmd, "end", "Last day")
		if err != nil {
			return err
		}
		if end.Before(start) {
			return fmt.Errorf("end %s is before start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
		}
		destination := strings.TrimSpace(cmd.Flag("destination").Value.String())

		rooms, err := loadRooms(cmd.Context(), city, destination, start, end)
		if err != nil {
			return err
		}
		if len(rooms) == 0 {
			fmt.Printf("No rooms available in %s between %s and %s.\n", city, start.Format(time.DateOnly), end.Format(time.DateOnly))
			return nil
		}

		renderRoomsTable(rooms)
		return nil
	},
}

func loadRooms(ctx context.Context, city, destination string, start, end time.Time) ([]model.Room, error) {
	// The cache only covers plain city queries; filtered searches always
	// hit the backend.
	if destination == "" {
		if cached, fresh, err := store.LoadRoomCache(city); err == nil && fresh && len(cached) > 0 {
			return cached, nil
		}
	}
	client := service.NewClient(nil)
	rooms, err := client.AvailableRooms(ctx, start, end, city, destination)
	if err != nil {
		return nil, err
	}
	if destination == "" && len(rooms) > 0 {
		_ = store.SaveRoomCache(city, rooms)
	}
	return rooms, nil
}

func renderRoomsTable(rooms []model.Room) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Venue", "Room", "Capacity", "Id"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 24},
	})
	t.Style().Options.SeparateRows = true

	for _, room := range rooms {
		t.AppendRow(table.Row{room.Venue, room.Name, room.Capacity, room.Id}, rowConfigAutoMerge)
	}
	t.Render()
}

func flagOrPromptDate(cmd *cobra.Command, flag, label string) (time.Time, error) {
	raw := strings.TrimSpace(cmd.Flag(flag).Value.String())
	if raw == "" {
		var err error
		if raw, err = service.PromptDate(label); err != nil {
			return time.Time{}, err
		}
	}
	return ledger.ParseDate(raw)
}
