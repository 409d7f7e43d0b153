package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmarler/opsdesk/internal/core"
	"github.com/kmarler/opsdesk/internal/observability"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Manage known station codes",
}

var stationsAddCmd = &cobra.Command{
	Use:   "add <code>",
	Short: "Register a station code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("services not initialized")
		}
		code := strings.ToUpper(args[0])
		if !core.ValidStationCode(code) {
			return fmt.Errorf("%q is not a valid station code", args[0])
		}
		if err := Store.AddStation(code); err != nil {
			return err
		}
		record(observability.StationAddedEvent(code))
		fmt.Printf("Added station %s\n", code)
		return nil
	},
}

var stationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered station codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("services not initialized")
		}
		codes, err := Store.Stations()
		if err != nil {
			return err
		}
		if len(codes) == 0 {
			fmt.Println("No stations registered.")
			return nil
		}
		for _, code := range codes {
			marker := "  "
			if Config != nil && code == Config.DefaultStation {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, code)
		}
		return nil
	},
}

var stationsRemoveCmd = &cobra.Command{
	Use:   "remove <code>",
	Short: "Remove a station code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("services not initialized")
		}
		code := strings.ToUpper(args[0])
		if err := Store.RemoveStation(code); err != nil {
			return err
		}
		fmt.Printf("Removed station %s\n", code)
		return nil
	},
}

func init() {
	stationsCmd.AddCommand(stationsAddCmd, stationsListCmd, stationsRemoveCmd)
	rootCmd.AddCommand(stationsCmd)
}
