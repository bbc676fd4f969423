package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DoyleJ11/ironsworn-play/internal/roster"
)

func (a *app) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Create a session and print its id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := roster.New(a.cfg.APIURL, nil).Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return roster.New(a.cfg.APIURL, nil).Delete(cmd.Context(), args[0])
		},
	}
}
