package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"laborctl/internal/api"
	"laborctl/internal/clix"
	"laborctl/internal/services"
)

// newProfileCmd builds the worker or employer command tree. Both kinds share
// the same KYC workflow.
func newProfileCmd(kind api.ProfileKind, short string) *cobra.Command {
	root := &cobra.Command{
		Use:   string(kind),
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss", kind),
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

			profiles := appInstance.ProfileService
			if kind == api.KindWorker {
				page, err := profiles.ListWorkers(cmd.Context(), params)
				if err != nil {
					return err
				}
				printer(cmd).Workers(page)
				return nil
			}
			page, err := profiles.ListEmployers(cmd.Context(), params)
			if err != nil {
				return err
			}
			printer(cmd).Employers(page)
			return nil
		},
	}
	clix.AddListFlags(list.Flags(), "Filter by KYC status (PENDING, APPROVED, REJECTED)")

	show := &cobra.Command{
		Use:   fmt.Sprintf("show [%s_id]", kind),
		Short: fmt.Sprintf("Show a %s with its KYC state", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			profile, view, err := appInstance.ProfileService.GetProfile(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}

			p := printer(cmd)
			switch {
			case profile.Worker != nil:
				p.Worker(profile.Worker)
			case profile.Employer != nil:
				p.Employer(profile.Employer)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			p.Kyc(view)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   fmt.Sprintf("delete [%s_id]", kind),
		Short: fmt.Sprintf("Delete a %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := appInstance.ProfileService.DeleteProfile(cmd.Context(), kind, args[0]); err != nil {
				return err
			}
			printer(cmd).Message("Successfully deleted %s %s.", kind, args[0])
			return nil
		},
	}

	approve := &cobra.Command{
		Use:   fmt.Sprintf("approve-kyc [%s_id]", kind),
		Short: "Approve the KYC record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			view, err := appInstance.ProfileService.ApproveKyc(cmd.Context(), kind, args[0])
			if err != nil {
				return err
			}
			printer(cmd).Message("KYC approved for %s.", view.Name)
			printer(cmd).Kyc(view)
			return nil
		},
	}

	review := &cobra.Command{
		Use:   fmt.Sprintf("review [%s_id]", kind),
		Short: "Verify or reject the uploaded KYC images",
		Long: `Reviews the KYC images without prompting. Either verify every image:
  laborctl ` + string(kind) + ` review <id> --approve
or reject a selection with a reason:
  laborctl ` + string(kind) + ` review <id> --reject --image FRONT:1 --image selfie --reason "Photo is blurry"
Image ids are shown by 'show'. A bare type such as "front" means its first image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			approveFlag, _ := cmd.Flags().GetBool("approve")
			rejectFlag, _ := cmd.Flags().GetBool("reject")
			reason, _ := cmd.Flags().GetString("reason")
			images, err := clix.ParseImageIDs(cmd.Flags())
			if err != nil {
				return err
			}
			if approveFlag == rejectFlag {
				return errors.New("choose exactly one of --approve or --reject")
			}

			appInstance, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}

			var view *services.KycView
			if approveFlag {
				view, err = appInstance.ProfileService.VerifyImages(cmd.Context(), kind, args[0])
			} else {
				view, err = appInstance.ProfileService.RejectImages(cmd.Context(), kind, args[0], images, reason)
			}
			if err != nil {
				return err
			}

			if approveFlag {
				printer(cmd).Message("Images verified for %s.", view.Name)
			} else {
				printer(cmd).Message("Images rejected for %s.", view.Name)
			}
			printer(cmd).Kyc(view)
			return nil
		},
	}
	review.Flags().Bool("approve", false, "Verify every uploaded image")
	review.Flags().Bool("reject", false, "Reject the images given with --image")
	review.Flags().StringSlice("image", nil, "Image to reject, e.g. FRONT:1 (repeatable or comma-separated)")
	review.Flags().String("reason", "", "Reason shown to the "+string(kind)+" (required with --reject)")

	root.AddCommand(list, show, del, approve, review)
	return root
}

func init() {
	rootCmd.AddCommand(newProfileCmd(api.KindWorker, "Manage workers and their KYC"))
	rootCmd.AddCommand(newProfileCmd(api.KindEmployer, "Manage employers and their KYC"))
}
