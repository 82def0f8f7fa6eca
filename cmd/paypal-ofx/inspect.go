package main

import (
	"os"

	"github.com/Veraticus/paypal-ofx/internal/cli"
	"github.com/Veraticus/paypal-ofx/internal/common"
	"github.com/Veraticus/paypal-ofx/internal/config"
	"github.com/Veraticus/paypal-ofx/internal/ofx"
	"github.com/Veraticus/paypal-ofx/internal/service"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.ofx>",
		Short: "Print the transactions of an OFX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(config.ExpandPath(args[0]))
			if err != nil {
				return common.NewUserError("cannot open OFX file", err)
			}
			defer f.Close()

			var reader service.StatementReader = ofx.NewParser()
			statements, err := reader.ParseFile(cmd.Context(), f)
			if err != nil {
				return err
			}

			for _, stmt := range statements {
				if err := cli.PrintStatement(cmd.OutOrStdout(), stmt); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
