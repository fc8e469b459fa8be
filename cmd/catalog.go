package cmd

import (
	"github.com/spf13/cobra"

	"laborctl/internal/clix"
)

var (
	categoryName        string
	categoryDescription string
	categoryActive      string
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Inspect user roles",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var listRolesCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := clix.ParseList(cmd.Flags())
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		page, err := appInstance.UserService.ListRoles(cmd.Context(), params)
		if err != nil {
			return err
		}
		printer(cmd).Refs("roles", page)
		return nil
	},
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect the skill catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var listSkillsCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := clix.ParseList(cmd.Flags())
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		page, err := appInstance.CategoryService.ListSkills(cmd.Context(), params)
		if err != nil {
			return err
		}
		printer(cmd).Refs("skills", page)
		return nil
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage job categories",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var listCategoriesCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := clix.ParseList(cmd.Flags())
		if err != nil {
			return err
		}
		params.Status = categoryActive

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		page, err := appInstance.CategoryService.ListCategories(cmd.Context(), params)
		if err != nil {
			return err
		}
		printer(cmd).Categories(page)
		return nil
	},
}

var showCategoryCmd = &cobra.Command{
	Use:   "show [category_id]",
	Short: "Show a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		category, err := appInstance.CategoryService.GetCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printer(cmd).Category(category)
		return nil
	},
}

var createCategoryCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		category, err := appInstance.CategoryService.CreateCategory(cmd.Context(), categoryName, categoryDescription)
		if err != nil {
			return err
		}
		printer(cmd).Message("Successfully created category %s (%s).", category.Name, category.ID)
		return nil
	},
}

var updateCategoryCmd = &cobra.Command{
	Use:   "update [category_id]",
	Short: "Update a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := clix.ParseFields(cmd.Flags(), "set")
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			fields["categoryName"] = categoryName
		}
		if cmd.Flags().Changed("description") {
			fields["description"] = categoryDescription
		}

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		category, err := appInstance.CategoryService.UpdateCategory(cmd.Context(), args[0], fields)
		if err != nil {
			return err
		}
		printer(cmd).Category(category)
		return nil
	},
}

var deleteCategoryCmd = &cobra.Command{
	Use:   "delete [category_id]",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := appInstance.CategoryService.DeleteCategory(cmd.Context(), args[0]); err != nil {
			return err
		}
		printer(cmd).Message("Successfully deleted category %s.", args[0])
		return nil
	},
}

var toggleCategoryCmd = &cobra.Command{
	Use:   "toggle [category_id]",
	Short: "Activate or deactivate a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		category, err := appInstance.CategoryService.ToggleCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		state := "inactive"
		if category.IsActive {
			state = "active"
		}
		printer(cmd).Message("Category %s is now %s.", category.Name, state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roleCmd, skillCmd, categoryCmd)

	roleCmd.AddCommand(listRolesCmd)
	clix.AddListFlags(listRolesCmd.Flags(), "")

	skillCmd.AddCommand(listSkillsCmd)
	clix.AddListFlags(listSkillsCmd.Flags(), "")

	categoryCmd.AddCommand(listCategoriesCmd, showCategoryCmd, createCategoryCmd,
		updateCategoryCmd, deleteCategoryCmd, toggleCategoryCmd)
	clix.AddListFlags(listCategoriesCmd.Flags(), "")
	listCategoriesCmd.Flags().StringVar(&categoryActive, "active", "", "Filter by active state (true or false)")

	createCategoryCmd.Flags().StringVarP(&categoryName, "name", "n", "", "Category name")
	createCategoryCmd.Flags().StringVarP(&categoryDescription, "description", "d", "", "Category description")
	createCategoryCmd.MarkFlagRequired("name")

	updateCategoryCmd.Flags().StringVarP(&categoryName, "name", "n", "", "New category name")
	updateCategoryCmd.Flags().StringVarP(&categoryDescription, "description", "d", "", "New category description")
	updateCategoryCmd.Flags().StringArray("set", nil, "Category field as key=value (repeatable)")
}
