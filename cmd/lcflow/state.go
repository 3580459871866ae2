package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lcflow/internal/usecase/snapshot"
)

// stdio marks stdin or stdout for --in / --out.
const stdio = "-"

func exportCmd(a *app) *cobra.Command {
	var out, sessionID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the lc-store snapshot as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := a.snapshotUsecase(sessionID)
			if err != nil {
				return err
			}
			st, err := uc.Export(cmd.Context(), sessionID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != stdio {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			if err := snapshot.Encode(w, *st); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			logrus.WithFields(logrus.Fields{"lcs": len(st.LCs), "notifications": len(st.Notifications)}).Info("snapshot exported")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", stdio, "output file")
	cmd.Flags().StringVar(&sessionID, "session", "", "include this session's user and role")
	return cmd
}

func importCmd(a *app) *cobra.Command {
	var in, sessionID string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the store with a snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if in != stdio {
				f, err := os.Open(in)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}
			st, err := snapshot.Decode(r)
			if err != nil {
				return err
			}

			uc, err := a.snapshotUsecase(sessionID)
			if err != nil {
				return err
			}
			if err := uc.Import(cmd.Context(), sessionID, st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d lcs, %d notifications\n", len(st.LCs), len(st.Notifications))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", stdio, "input file")
	cmd.Flags().StringVar(&sessionID, "session", "", "restore user and role into this session")
	return cmd
}
