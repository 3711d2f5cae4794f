package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"payment-engine/config"
	httpLayer "payment-engine/http"
)

func recommendCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compute payment recommendations for a request file",
		Long:  "Reads a recommendation request in the API's JSON format (use - for stdin) and prints the result.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var input httpLayer.RecommendationRequest
			if err := readJSON(file, cmd.InOrStdin(), &input); err != nil {
				return err
			}
			if err := httpLayer.ValidateRequest(input); err != nil {
				return err
			}

			eng, err := buildEngine(cfg, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			result, err := eng.recommendations.Recommend(cmd.Context(), input.ToDomain())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), httpLayer.NewRecommendationResponse(result))
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "request JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func payoffCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var input httpLayer.PayoffRequest

	cmd := &cobra.Command{
		Use:   "payoff",
		Short: "Simulate paying off one card",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := httpLayer.ValidateRequest(input); err != nil {
				return err
			}

			eng, err := buildEngine(cfg, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			result, err := eng.payoff.SimulatePayoff(input.ToDomain())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), httpLayer.NewPayoffResponse(result))
		},
	}
	cmd.Flags().StringVar(&input.CardID, "card", "", "card identifier echoed in the output")
	cmd.Flags().Float64Var(&input.CurrentBalance, "balance", 0, "current balance")
	cmd.Flags().Float64Var(&input.InterestRate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().Float64Var(&input.MinimumPayment, "minimum", 0, "minimum monthly payment")
	cmd.Flags().Float64Var(&input.ExtraPayment, "extra", 0, "extra monthly payment")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("minimum")
	return cmd
}

func readJSON(path string, stdin io.Reader, dst any) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open request: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
