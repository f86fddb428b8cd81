package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/zhidateam/zdgotools/feishu"

	"github.com/spf13/cobra"
)

var (
	searchAppToken string
	searchTableID  string
	searchField    string
	searchValue    string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search records of a bitable table",
	Long: `Search fetches records of a table and prints them as JSON lines.
When --field and --value are given, only records whose field equals the
value are returned; otherwise the whole table is listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()

		client, err := feishu.NewClient(cfg.Feishu, l)
		if err != nil {
			return err
		}
		defer client.Close()

		table := feishu.NewTable(client, searchAppToken, searchTableID)

		var records []feishu.Record
		if searchField != "" {
			records = table.GetRecordsByKey(cmd.Context(), searchField, searchValue)
		} else {
			records = table.GetAll(cmd.Context(), nil)
		}

		for _, record := range records {
			line, err := json.Marshal(record)
			if err != nil {
				return err
			}
			fmt.Println(string(line))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchAppToken, "app-token", "", "bitable app token (required)")
	searchCmd.Flags().StringVar(&searchTableID, "table-id", "", "table ID (required)")
	searchCmd.Flags().StringVar(&searchField, "field", "", "field name for an equality filter")
	searchCmd.Flags().StringVar(&searchValue, "value", "", "field value for an equality filter")
	_ = searchCmd.MarkFlagRequired("app-token")
	_ = searchCmd.MarkFlagRequired("table-id")
	RootCmd.AddCommand(searchCmd)
}
