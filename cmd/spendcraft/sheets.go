package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/spendcraft/internal/cli"
	"github.com/Veraticus/spendcraft/internal/common"
	"github.com/Veraticus/spendcraft/internal/config"
	"github.com/Veraticus/spendcraft/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func sheetsCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Publish a report to Google Sheets",
		Long: `Publish the summary, category breakdown, monthly trend and transactions of
the current view to a Google Sheets spreadsheet.

Authenticate once with "spendcraft sheets auth", or configure a service
account with sheets.service_account_path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
			if err != nil {
				return common.NewUserError(`Google Sheets is not configured, run "spendcraft sheets auth" first`, err)
			}

			a, snap, err := openView(cmd, &flags)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			writer, err := sheets.NewWriter(ctx, *sheetsCfg, a.logger)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(fmt.Sprintf("Uploading %d transactions...", len(snap.Filtered))))
			id, err := writer.Write(ctx, sheets.NewReport(snap, time.Now()))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Report published: https://docs.google.com/spreadsheets/d/"+id))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize spendcraft to write to Google Sheets",
		Long: `Run the browser consent flow for a desktop OAuth2 client and save the
resulting token. The client comes from sheets.client_id and
sheets.client_secret, or GOOGLE_SHEETS_CLIENT_ID and
GOOGLE_SHEETS_CLIENT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.GetViper()
			clientID := firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
			clientSecret := firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
			if clientID == "" || clientSecret == "" {
				return common.NewUserError("set sheets.client_id and sheets.client_secret first", common.ErrInvalidConfig)
			}

			out := cmd.OutOrStdout()
			tokenFile := config.SheetsTokenFile(v)
			_, err := sheets.Authenticate(cmd.Context(), sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    tokenFile,
				ListenAddr:   listen,
			}, func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize spendcraft:"))
				fmt.Fprintln(out, url)
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatSuccess("Authorized. Token saved to "+tokenFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "localhost:8080", "address of the local callback server")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
