package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/spf13/cobra"
)

func (a *App) newFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage a user's health files",
	}
	cmd.AddCommand(
		a.newFilesListCommand(),
		a.newFilesAddCommand(),
		a.newFilesExportCommand(),
		a.newFilesDeleteCommand(),
	)
	return cmd
}

func (a *App) newFilesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list EMAIL",
		Short: "List health files of a user, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd.Context(), func(l *local) error {
				files, err := l.ledger.List(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				renderFiles(cmd.OutOrStdout(), files)
				return nil
			})
		},
	}
}

func (a *App) newFilesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add EMAIL PATH",
		Short: "Upload a local file on behalf of a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			return a.withLocal(cmd.Context(), func(l *local) error {
				if _, err := l.directory.FindByEmail(cmd.Context(), args[0]); err != nil {
					return userError(err)
				}
				rec, err := l.intake.Store(cmd.Context(), args[0], filepath.Base(args[1]), f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s as %s\n", rec.OriginalFilename, rec.Filename)
				return nil
			})
		},
	}
}

func (a *App) newFilesExportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export EMAIL FILENAME",
		Short: "Copy a stored file to the local disk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd.Context(), func(l *local) error {
				rec, rc, err := l.ledger.Open(cmd.Context(), args[0], args[1])
				if err != nil {
					return fileError(err)
				}
				defer rc.Close()

				dst := out
				if dst == "" {
					dst = rec.OriginalFilename
				}
				f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
				if err != nil {
					return err
				}
				n, err := io.Copy(f, rc)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", n, dst)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination path (default: original filename)")

	return cmd
}

func (a *App) newFilesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete EMAIL FILENAME",
		Short: "Delete a stored file and its record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd.Context(), func(l *local) error {
				if err := l.ledger.Delete(cmd.Context(), args[0], args[1]); err != nil {
					return fileError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[1])
				return nil
			})
		},
	}
}

func fileError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errors.New("file not found")
	}
	return err
}
