package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/services"
	"github.com/spf13/cobra"
)

type profileFlags struct {
	age, sex, race string
}

func (p *profileFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.age, "age", "", "age in years")
	cmd.Flags().StringVar(&p.sex, "sex", "", "sex")
	cmd.Flags().StringVar(&p.race, "race", "", "race")
}

func (a *App) newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(a.newUserCreateCommand(), a.newUserShowCommand(), a.newUserProfileCommand())
	return cmd
}

func (a *App) newUserCreateCommand() *cobra.Command {
	var (
		name, email string
		profile     profileFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account; the password is prompted for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := services.ParseProfile(profile.age, profile.sex, profile.race)
			if err != nil {
				return userError(err)
			}

			password, err := GetPassword(a.reader, "Password", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			confirm, err := GetPassword(a.reader, "Repeat password", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			return a.withLocal(cmd.Context(), func(l *local) error {
				u, err := l.directory.Create(cmd.Context(), models.NewUser{
					Name: name, Email: email, Password: password, Profile: p,
				})
				if err != nil {
					return userError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", u.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	profile.bind(cmd)

	return cmd
}

func (a *App) newUserShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show EMAIL",
		Short: "Show an account and its profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLocal(cmd.Context(), func(l *local) error {
				u, err := l.directory.FindByEmail(cmd.Context(), args[0])
				if err != nil {
					return userError(err)
				}
				renderUser(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}
}

func (a *App) newUserProfileCommand() *cobra.Command {
	var profile profileFlags

	cmd := &cobra.Command{
		Use:   "set-profile EMAIL",
		Short: "Replace the profile of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := services.ParseProfile(profile.age, profile.sex, profile.race)
			if err != nil {
				return userError(err)
			}
			return a.withLocal(cmd.Context(), func(l *local) error {
				u, err := l.directory.UpdateProfile(cmd.Context(), args[0], p)
				if err != nil {
					return userError(err)
				}
				renderUser(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}
	profile.bind(cmd)

	return cmd
}

// userError turns domain errors into messages suitable for the terminal.
func userError(err error) error {
	if msg := services.ValidationMessage(err); msg != "" {
		return errors.New(msg)
	}
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return errors.New("user not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return errors.New("email already registered")
	}
	return err
}
