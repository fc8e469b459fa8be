package cmd

import (
	"github.com/spf13/cobra"

	"laborctl/internal/clix"
)

var (
	userRoleFilter string
	userEmail      string
	userPassword   string
	userRole       string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage admin users",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := clix.ParseList(cmd.Flags())
		if err != nil {
			return err
		}
		params.Status = userRoleFilter

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		page, err := appInstance.UserService.ListUsers(cmd.Context(), params)
		if err != nil {
			return err
		}
		printer(cmd).Users(page)
		return nil
	},
}

var showUserCmd = &cobra.Command{
	Use:   "show [user_id]",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		user, err := appInstance.UserService.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printer(cmd).User(user)
		return nil
	},
}

// userFields merges the shortcut flags into the --set fields.
func userFields(cmd *cobra.Command) (map[string]any, error) {
	fields, err := clix.ParseFields(cmd.Flags(), "set")
	if err != nil {
		return nil, err
	}
	if userEmail != "" {
		fields["email"] = userEmail
	}
	if userPassword != "" {
		fields["password"] = userPassword
	}
	if userRole != "" {
		fields["roleId"] = userRole
	}
	return fields, nil
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := userFields(cmd)
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		user, err := appInstance.UserService.CreateUser(cmd.Context(), fields)
		if err != nil {
			return err
		}
		printer(cmd).Message("Successfully created user %s.", user.ID)
		printer(cmd).User(user)
		return nil
	},
}

var updateUserCmd = &cobra.Command{
	Use:   "update [user_id]",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := userFields(cmd)
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		user, err := appInstance.UserService.UpdateUser(cmd.Context(), args[0], fields)
		if err != nil {
			return err
		}
		printer(cmd).User(user)
		return nil
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete [user_id]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := appInstance.UserService.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		printer(cmd).Message("Successfully deleted user %s.", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(listUsersCmd, showUserCmd, createUserCmd, updateUserCmd, deleteUserCmd)

	clix.AddListFlags(listUsersCmd.Flags(), "")
	listUsersCmd.Flags().StringVar(&userRoleFilter, "role", "", "Filter by role id")

	for _, c := range []*cobra.Command{createUserCmd, updateUserCmd} {
		c.Flags().StringArray("set", nil, "User field as key=value (repeatable)")
		c.Flags().StringVar(&userEmail, "email", "", "Email address")
		c.Flags().StringVar(&userPassword, "password", "", "Password")
		c.Flags().StringVar(&userRole, "role", "", "Role id")
	}
}
