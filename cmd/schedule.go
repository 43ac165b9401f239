package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"confdesk-cli/service"
	"confdesk-cli/store"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show a room's bookings and free slots for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID := strings.TrimSpace(cmd.Flag("room").Value.String())
		if roomID == "" {
			return fmt.Errorf("--room is required, find ids with the rooms command")
		}
		date, err := flagOrPromptDate(cmd, "date", "Day")
		if err != nil {
			return err
		}

		client := service.NewClient(nil)
		ctx := cmd.Context()

		sessions, err := client.SessionsInRoom(ctx, roomID, date)
		if err != nil {
			return err
		}

		dateKey := date.Format(time.DateOnly)
		slots, fresh, cacheErr := store.LoadSlotCache(roomID, dateKey)
		if cacheErr != nil || !fresh || len(slots) == 0 {
			if slots, err = client.AvailableTimesInRoom(ctx, roomID, date); err != nil {
				return err
			}
			if len(slots) > 0 {
				_ = store.SaveSlotCache(roomID, dateKey, slots)
			}
		}

		fmt.Printf("Room %s on %s\n\n", roomID, dateKey)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Start", "End", "Session"})
		for _, session := range sessions {
			t.AppendRow(table.Row{session.Start.Format("15:04"), session.End.Format("15:04"), session.Title})
		}
		for _, slot := range slots {
			t.AppendRow(table.Row{slot.Start.Format("15:04"), slot.End.Format("15:04"), "free"})
		}
		t.SortBy([]table.SortBy{{Number: 1, Mode: table.Asc}})
		t.Render()
		return nil
	},
}
