package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"laborctl/internal/clix"
	"laborctl/internal/models"
	"laborctl/internal/workflow"
)

var (
	hireWorker       string
	hireEmployer     string
	completeNow      bool
	cancelReason     string
	cancelNote       string
	cancelEmployer   string
	auditActionField string
)

// jobCmd represents the base command when called without any subcommands
var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Review and move jobs through their lifecycle",
	Long: `List and inspect jobs and run the admin actions their current status
allows: approve, reject, go-live, close, hire, complete, cancel, pay and delete.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
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

		page, err := appInstance.JobService.ListJobs(cmd.Context(), params)
		if err != nil {
			return err
		}
		printer(cmd).Jobs(page)
		return nil
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show [job_id]",
	Short: "Show a job with its status and allowed actions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		view, err := appInstance.JobService.GetJob(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printer(cmd).Job(view)
		return nil
	},
}

// newJobActionCmd builds the command for one lifecycle action. payload reads
// the action's flags; nil means the action takes none.
func newJobActionCmd(action workflow.JobAction, use, short string, payload func() (workflow.JobPayload, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [job_id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p workflow.JobPayload
			if payload != nil {
				var err error
				if p, err = payload(); err != nil {
					return err
				}
			}
			appInstance, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}

			view, err := appInstance.JobService.Perform(cmd.Context(), args[0], action, p)
			if err != nil {
				return err
			}
			if view == nil {
				printer(cmd).Message("Job %s deleted.", args[0])
				return nil
			}
			printer(cmd).Message("%s: job %s is now %s.", action.Label(), args[0], view.StatusLabel)
			printer(cmd).Job(view)
			return nil
		},
	}
}

var (
	approveJobCmd = newJobActionCmd(workflow.ActionApprove, "approve", "Approve a pending or rejected job", nil)
	rejectJobCmd  = newJobActionCmd(workflow.ActionReject, "reject", "Reject a pending job", nil)
	goLiveJobCmd  = newJobActionCmd(workflow.ActionGoLive, "go-live", "Publish an approved job", nil)
	closeJobCmd   = newJobActionCmd(workflow.ActionClose, "close", "Close an approved or live job", nil)
	payJobCmd     = newJobActionCmd(workflow.ActionPayServiceCharge, "pay", "Pay the service charge of an unpaid inactive job", nil)
	deleteJobCmd  = newJobActionCmd(workflow.ActionDelete, "delete", "Delete a job", nil)

	hireJobCmd = newJobActionCmd(workflow.ActionHire, "hire", "Hire a worker for a live job", func() (workflow.JobPayload, error) {
		return workflow.JobPayload{WorkerID: strings.TrimSpace(hireWorker), EmployerID: hireEmployer}, nil
	})
	completeJobCmd = newJobActionCmd(workflow.ActionComplete, "complete", "Mark a hired job complete", func() (workflow.JobPayload, error) {
		return workflow.JobPayload{CompleteImmediately: completeNow}, nil
	})
	cancelJobCmd = newJobActionCmd(workflow.ActionCancel, "cancel", "Cancel the hired worker of a job", func() (workflow.JobPayload, error) {
		p := workflow.JobPayload{CancellationNote: cancelNote, EmployerID: cancelEmployer}
		if cancelReason != "" {
			reason, ok := models.ParseCancellationReason(cancelReason)
			if !ok {
				return p, fmt.Errorf("unknown cancellation reason %q (expected one of %s)", cancelReason, cancellationReasons())
			}
			p.CancellationReason = reason
		}
		return p, nil
	})
)

func cancellationReasons() string {
	names := make([]string, len(models.AllCancellationReasons))
	for i, r := range models.AllCancellationReasons {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job from --set key=value fields",
	Long: `Creates a job. Fields are sent as given, e.g.
  laborctl job create --set jobTitle="Warehouse loading" --set employerId=<id> --set workersRequired=4`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := clix.ParseFields(cmd.Flags(), "set")
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		view, err := appInstance.JobService.CreateJob(cmd.Context(), fields)
		if err != nil {
			return err
		}
		printer(cmd).Message("Successfully created job %s.", view.Job.ID)
		printer(cmd).Job(view)
		return nil
	},
}

var updateJobCmd = &cobra.Command{
	Use:   "update [job_id]",
	Short: "Edit job fields with --set key=value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := clix.ParseFields(cmd.Flags(), "set")
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		view, err := appInstance.JobService.UpdateJob(cmd.Context(), args[0], fields)
		if err != nil {
			return err
		}
		printer(cmd).Job(view)
		return nil
	},
}

var applicantsJobCmd = &cobra.Command{
	Use:   "applicants [job_id]",
	Short: "List the applicants of a live job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		applicants, err := appInstance.JobService.Applicants(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printer(cmd).Applicants(applicants)
		return nil
	},
}

var auditJobCmd = &cobra.Command{
	Use:   "audit [job_id]",
	Short: "Show the status history of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := clix.ParseList(cmd.Flags())
		if err != nil {
			return err
		}
		params.Status = strings.TrimSpace(auditActionField)

		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		page, err := appInstance.JobService.Audit(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}
		printer(cmd).Audit(page)
		return nil
	},
}

var assignJobCmd = &cobra.Command{
	Use:   "assign [job_id] [worker_id]",
	Short: "Assign a worker to a job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		view, err := appInstance.JobService.AssignWorker(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printer(cmd).Message("Assigned worker %s to job %s.", args[1], args[0])
		printer(cmd).Job(view)
		return nil
	},
}

var unassignJobCmd = &cobra.Command{
	Use:   "unassign [job_id] [worker_id]",
	Short: "Remove a worker from a job",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		view, err := appInstance.JobService.UnassignWorker(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		printer(cmd).Message("Removed worker %s from job %s.", args[1], args[0])
		printer(cmd).Job(view)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)

	jobCmd.AddCommand(listJobsCmd, showJobCmd, createJobCmd, updateJobCmd,
		approveJobCmd, rejectJobCmd, goLiveJobCmd, closeJobCmd, hireJobCmd,
		completeJobCmd, cancelJobCmd, payJobCmd, deleteJobCmd,
		applicantsJobCmd, auditJobCmd, assignJobCmd, unassignJobCmd)

	clix.AddListFlags(listJobsCmd.Flags(), "Filter by status (e.g. PENDING, live, inactive-pending-payment)")
	clix.AddListFlags(auditJobCmd.Flags(), "")
	auditJobCmd.Flags().StringVar(&auditActionField, "action", "", "Filter by audited action")

	createJobCmd.Flags().StringArray("set", nil, "Job field as key=value (repeatable)")
	updateJobCmd.Flags().StringArray("set", nil, "Job field as key=value (repeatable)")

	hireJobCmd.Flags().StringVarP(&hireWorker, "worker", "w", "", "Worker to hire")
	hireJobCmd.Flags().StringVar(&hireEmployer, "employer", "", "Act for this employer instead of the job's own")
	hireJobCmd.MarkFlagRequired("worker")

	completeJobCmd.Flags().BoolVar(&completeNow, "immediately", false, "Complete without waiting for the end date")

	cancelJobCmd.Flags().StringVar(&cancelReason, "reason", "", "Cancellation reason: "+cancellationReasons())
	cancelJobCmd.Flags().StringVar(&cancelNote, "note", "", "Free-text note stored with the cancellation")
	cancelJobCmd.Flags().StringVar(&cancelEmployer, "employer", "", "Act for this employer instead of the job's own")
	cancelJobCmd.MarkFlagRequired("reason")
}
