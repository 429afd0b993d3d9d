package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/service"
	"github.com/spf13/cobra"
)

type serviceOpener func(ctx context.Context) (service.ConversionServiceInterface, func() error, error)

func newRootCommand(ctx context.Context, open serviceOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "converter",
		Short:        "Convert amounts between currencies at live exchange rates",
		SilenceUsage: true,
	}
	rootCmd.SetContext(ctx)

	rootCmd.AddCommand(
		convertCommand(open),
		historyCommand(open),
		currenciesCommand(open),
	)
	return rootCmd
}

func withService(cmd *cobra.Command, open serviceOpener, fn func(svc service.ConversionServiceInterface) error) (err error) {
	svc, closeFn, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeFn(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(svc)
}

func convertCommand(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:     "convert <amount> <from> <to>",
		Short:   "Convert an amount and record it in the history",
		Example: "  converter convert 100 USD EUR",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(strings.Replace(args[0], ",", ".", 1), 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: must be a number", args[0])
			}
			from, err := model.ParseCurrency(args[1])
			if err != nil {
				return err
			}
			to, err := model.ParseCurrency(args[2])
			if err != nil {
				return err
			}

			return withService(cmd, open, func(svc service.ConversionServiceInterface) error {
				result, err := svc.Convert(cmd.Context(), model.ConversionRequest{Amount: amount, Source: from, Target: to})
				var writeErr *model.HistoryWriteError
				if err != nil && !(errors.As(err, &writeErr) && result != nil) {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%v %s = %s %s (rate %.6f)\n", result.Amount, result.Source, result.Display, result.Target, result.RateUsed)
				printQuickRates(cmd, result)
				if writeErr != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: conversion succeeded but not logged: %v\n", writeErr.Err)
				}
				return nil
			})
		},
	}
}

func printQuickRates(cmd *cobra.Command, result *model.ConversionResult) {
	if len(result.QuickRates) == 0 {
		return
	}
	codes := make([]string, 0, len(result.QuickRates))
	for code := range result.QuickRates {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, fmt.Sprintf("%s %.4f", code, result.QuickRates[model.Currency(code)]))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "1 %s = %s\n", result.Source, strings.Join(parts, " | "))
}

func historyCommand(open serviceOpener) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent conversions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("invalid limit %d, must not be negative", limit)
			}
			return withService(cmd, open, func(svc service.ConversionServiceInterface) error {
				records, err := svc.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no conversions recorded")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tAMOUNT\tRESULT\tRATE")
				for _, r := range records {
					target, _ := model.LookupCurrency(r.Target)
					fmt.Fprintf(w, "%s\t%v %s\t%s %s\t%.6f\n",
						r.Timestamp.Local().Format(time.DateTime), r.Amount, r.Source,
						target.Format(r.ConvertedAmount), r.Target, r.RateUsed)
				}
				return w.Flush()
			})
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", commons.DefaultHistoryLimit, "Number of records to show, 0 for all")

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded conversion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(svc service.ConversionServiceInterface) error {
				if err := svc.ClearHistory(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			})
		},
	})
	return historyCmd
}

func currenciesCommand(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List supported currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(svc service.ConversionServiceInterface) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, info := range svc.Currencies() {
					fmt.Fprintf(w, "%s\t%s\t%s\n", info.Code, info.Symbol, info.Name)
				}
				return w.Flush()
			})
		},
	}
}
