package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shouni/go-amazebook-kit/internal/config"
	"github.com/shouni/go-amazebook-kit/internal/store"
	"github.com/shouni/go-amazebook-kit/pkg/settings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "管理画面のプロンプトと調整値を操作するのだ。",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "設定値を表示するのだ。キーを省略すると一覧になるのだ。",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSettings(func(cmd *cobra.Command, svc *settings.Service, args []string) error {
		if len(args) == 1 {
			v, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		}

		entries, err := svc.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tMODIFIED\tVALUE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%t\t%s\n", e.Key, e.Modified, preview(e.Value))
		}
		return tw.Flush()
	}),
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "設定値を保存するのだ。",
	Args:  cobra.ExactArgs(2),
	RunE: withSettings(func(cmd *cobra.Command, svc *settings.Service, args []string) error {
		return svc.Save(cmd.Context(), args[0], args[1])
	}),
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "すべての設定を既定値に戻すのだ。",
	Args:  cobra.NoArgs,
	RunE: withSettings(func(cmd *cobra.Command, svc *settings.Service, _ []string) error {
		return svc.Reset(cmd.Context())
	}),
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd, settingsResetCmd)
}

// withSettings は SQLite の設定ストアを開いてから fn を呼ぶのだ。
func withSettings(fn func(*cobra.Command, *settings.Service, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		db, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		svc, err := settings.NewService(db)
		if err != nil {
			return err
		}
		return fn(cmd, svc, args)
	}
}

func preview(s string) string {
	const limit = 60
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= limit {
		return string(r)
	}
	return string(r[:limit]) + "..."
}
