package cmd

import (
	"fmt"

	"github.com/zhidateam/zdgotools/feishu"

	"github.com/spf13/cobra"
)

var tablesAppToken string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the data tables of a bitable app",
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

		pageToken := ""
		for {
			page, err := client.ListTables(cmd.Context(), tablesAppToken, pageToken, 100)
			if err != nil {
				return err
			}
			for _, table := range page.Items {
				fmt.Printf("%s\trev=%d\t%s\n", table.TableID, table.Revision, table.Name)
			}
			if !page.HasMore || len(page.Items) == 0 {
				return nil
			}
			pageToken = page.PageToken
		}
	},
}

func init() {
	tablesCmd.Flags().StringVar(&tablesAppToken, "app-token", "", "bitable app token (required)")
	_ = tablesCmd.MarkFlagRequired("app-token")
	RootCmd.AddCommand(tablesCmd)
}
