package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type remoteFlags struct {
	addr  string
	email string
}

func (a *App) newRemoteCommand() *cobra.Command {
	var f remoteFlags

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Act as a user against a running server",
	}
	cmd.PersistentFlags().StringVar(&f.addr, "addr", "localhost:50051", "gRPC address of the server")
	cmd.PersistentFlags().StringVar(&f.email, "email", "", "account email")
	_ = cmd.MarkPersistentFlagRequired("email")

	profile := &cobra.Command{
		Use:   "profile",
		Short: "Show the profile of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRemote(cmd, f, func(ctx context.Context, c RemoteClient) error {
				u, err := c.Profile(ctx)
				if err != nil {
					return remoteError(err)
				}
				renderUser(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}

	var pf profileFlags
	setProfile := &cobra.Command{
		Use:   "set-profile",
		Short: "Replace the profile of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRemote(cmd, f, func(ctx context.Context, c RemoteClient) error {
				u, err := c.UpdateProfile(ctx, pf.age, pf.sex, pf.race)
				if err != nil {
					return remoteError(err)
				}
				renderUser(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}
	pf.bind(setProfile)

	files := &cobra.Command{
		Use:   "files",
		Short: "List the account's health files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withRemote(cmd, f, func(ctx context.Context, c RemoteClient) error {
				list, err := c.ListFiles(ctx)
				if err != nil {
					return remoteError(err)
				}
				renderFiles(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete FILENAME",
		Short: "Delete one of the account's health files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRemote(cmd, f, func(ctx context.Context, c RemoteClient) error {
				if err := c.DeleteFile(ctx, args[0]); err != nil {
					return remoteError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(profile, setProfile, files, del)
	return cmd
}

// withRemote dials the server, prompts for the password and logs in before
// running fn.
func (a *App) withRemote(cmd *cobra.Command, f remoteFlags, fn func(context.Context, RemoteClient) error) error {
	ctx := cmd.Context()

	c, closeFn, err := a.dial(f.addr)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			a.logger.Warn(ctx, "close connection", "error", err)
		}
	}()

	password, err := GetPassword(a.reader, "Password", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	name, err := c.Login(ctx, f.email, password)
	if err != nil {
		return remoteError(err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Logged in as %s\n", name)

	return fn(ctx, c)
}

// remoteError keeps only the server's message for well-known codes.
func remoteError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.NotFound, codes.InvalidArgument, codes.AlreadyExists:
		return fmt.Errorf("%s", st.Message())
	}
	return err
}
