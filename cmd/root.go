package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"confdesk-cli/tui"
)

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "confdesk",
	Short: "Conference organizer CLI",
	Long:  `Plan tickets, price phases, sessions and rooms for a conference from the terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := tea.NewProgram(tui.New(), tea.WithAltScreen()).Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the confdesk version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("confdesk %s", version)
		if commit != "none" && commit != "" {
			fmt.Printf(" (%s)", commit)
		}
		fmt.Println()
	},
}

func Execute() {
	rootCmd.AddCommand(roomsCmd, scheduleCmd, versionCmd)

	roomsCmd.Flags().String("city", "", "city to search rooms in")
	roomsCmd.Flags().String("destination", "", "preferred venue or neighborhood")
	roomsCmd.Flags().String("start", "", "first day the rooms must be free (YYYY-MM-DD)")
	roomsCmd.Flags().String("end", "", "last day the rooms must be free (YYYY-MM-DD)")

	scheduleCmd.Flags().String("room", "", "room id")
	scheduleCmd.Flags().String("date", "", "day to inspect (YYYY-MM-DD)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
