package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/paypal-ofx/internal/cli"
	"github.com/Veraticus/paypal-ofx/internal/common"
	"github.com/Veraticus/paypal-ofx/internal/config"
	"github.com/Veraticus/paypal-ofx/internal/model"
	"github.com/Veraticus/paypal-ofx/internal/ofx"
	"github.com/Veraticus/paypal-ofx/internal/paypal"
	"github.com/Veraticus/paypal-ofx/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func convertCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <path>",
		Short: "Convert a PayPal CSV export to OFX",
		Long: `Convert a PayPal activity export (CSV) to an OFX statement.

The statement is written next to the input with an .ofx extension. Only
transactions in the configured currency are converted.

Examples:
  # Convert using settings from the config file
  paypal-ofx convert ~/Downloads/Download.csv

  # Show what would be written
  paypal-ofx convert --debug ~/Downloads/Download.csv

  # German export, euro account
  paypal-ofx convert --account-id me@example.com --currency EUR --locale de_DE Download.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, v, args[0])
		},
	}

	cmd.Flags().Bool("debug", false, "Print parsed transactions instead of writing the OFX file")
	cmd.Flags().String("account-id", "", "Account ID written to the statement")
	cmd.Flags().String("currency", "", "Currency of the transactions to convert (e.g. EUR)")
	cmd.Flags().String("locale", "", "Locale of the numbers in the export (e.g. de_DE)")
	cmd.Flags().String("encoding", "", "Character encoding of the export (default iso8859-1)")
	cmd.Flags().String("analyze", "", "Add item titles to Steam purchase memos (true/false)")

	_ = v.BindPFlag(config.KeyAccountID, cmd.Flags().Lookup("account-id"))
	_ = v.BindPFlag(config.KeyCurrency, cmd.Flags().Lookup("currency"))
	_ = v.BindPFlag(config.KeyLocale, cmd.Flags().Lookup("locale"))
	_ = v.BindPFlag(config.KeyEncoding, cmd.Flags().Lookup("encoding"))
	_ = v.BindPFlag(config.KeyAnalyze, cmd.Flags().Lookup("analyze"))

	return cmd
}

func runConvert(cmd *cobra.Command, v *viper.Viper, arg string) error {
	debug, _ := cmd.Flags().GetBool("debug")

	settings, err := config.Load(v)
	if err != nil {
		return err
	}

	path := config.ExpandPath(arg)
	stmt, err := parseExport(path, settings)
	if err != nil {
		return err
	}

	if debug {
		return cli.PrintStatement(cmd.OutOrStdout(), stmt)
	}

	data, err := renderStatement(cmd.Context(), ofx.NewWriter(), stmt)
	if err != nil {
		return err
	}

	output := config.OutputPath(path)
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return common.NewUserError("cannot write OFX statement", err)
	}

	slog.Info("Wrote OFX statement",
		"file", output,
		"transactions", len(stmt.Records),
		"skipped", stmt.Skipped)

	return nil
}

// renderStatement serializes the whole statement before anything touches disk.
func renderStatement(ctx context.Context, w service.StatementWriter, stmt *model.Statement) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(ctx, &buf, stmt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseExport(path string, settings *config.Settings) (*model.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewUserError("cannot open PayPal export", err)
	}
	defer f.Close()

	parser, err := paypal.NewParser(f, settings.ParserOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	stmt, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stmt, nil
}
