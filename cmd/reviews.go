package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matija2209/alexa-maxa-reviews-sdk/filter"
	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

// listOptions holds the flags shared by the listing commands
type listOptions struct {
	page       int
	limit      int
	sortBy     string
	order      string
	rating     int
	filterExpr string
	preset     string
	jsonOutput bool
}

func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.page, "page", 0, "page number (default 1)")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "reviews per page")
	cmd.Flags().StringVar(&o.sortBy, "sort-by", "", "sort field: submittedAt or rating")
	cmd.Flags().StringVar(&o.order, "order", "", "sort order: asc or desc")
	cmd.Flags().IntVar(&o.rating, "rating", reviews.RatingAll, "only reviews with this exact rating (1-5)")
	cmd.Flags().StringVarP(&o.filterExpr, "filter", "f", "", "client-side filter expression")
	cmd.Flags().StringVarP(&o.preset, "preset", "p", "", "use a preset filter from config")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "print the raw JSON response")
}

func (o *listOptions) filters() reviews.Filters {
	return reviews.Filters{
		Rating:    o.rating,
		SortBy:    reviews.SortField(o.sortBy),
		SortOrder: reviews.SortOrder(o.order),
		Page:      o.page,
		Limit:     o.limit,
	}
}

// resolveFilter picks the filter to apply. Priority: --filter > --preset > config default.
func (o *listOptions) resolveFilter() (filter.Filter, error) {
	if o.filterExpr != "" {
		return filters.Resolve(o.filterExpr)
	}
	if o.preset != "" {
		f, ok := filters.GetFilter(o.preset)
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", o.preset)
		}
		return f, nil
	}
	return filters.Resolve(cfg.Filter.Expression(""))
}

var (
	listOpts     listOptions
	adminAllOpts listOptions
	pendingOpts  listOptions
)

var listCmd = &cobra.Command{
	Use:   "list <productId>",
	Short: "List approved reviews of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetByProduct(cmd.Context(), args[0], listOpts.filters())
		if err != nil {
			return err
		}
		return printList(cmd, &listOpts, resp)
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative listings",
}

var adminAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List all reviews regardless of approval state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetAll(cmd.Context(), adminAllOpts.filters())
		if err != nil {
			return err
		}
		return printList(cmd, &adminAllOpts, resp)
	},
}

var adminPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List reviews awaiting approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetPending(cmd.Context(), pendingOpts.filters())
		if err != nil {
			return err
		}
		return printList(cmd, &pendingOpts, resp)
	},
}

func init() {
	listOpts.register(listCmd)
	adminAllOpts.register(adminAllCmd)
	pendingOpts.register(adminPendingCmd)

	adminCmd.AddCommand(adminAllCmd)
	adminCmd.AddCommand(adminPendingCmd)
}

func printList(cmd *cobra.Command, opts *listOptions, resp *reviews.ReviewsResponse) error {
	f, err := opts.resolveFilter()
	if err != nil {
		return fmt.Errorf("invalid filter expression: %w", err)
	}

	before := len(resp.Data.Reviews)
	resp.Data.Reviews = filter.Apply(f, resp.Data.Reviews)
	if dropped := before - len(resp.Data.Reviews); dropped > 0 {
		logger.Debug().Int("dropped", dropped).Msg("Reviews removed by filter")
	}

	if wantJSON(opts.jsonOutput) {
		return printJSON(cmd, resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReviewList(resp.Data))
	return nil
}

var getJSON bool

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printReview(cmd, getJSON, resp)
	},
}

var createInput reviews.CreateReviewInput
var createJSON bool

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a new review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := client.Create(cmd.Context(), createInput)
		if err != nil {
			return err
		}
		logger.Info().Str("id", resp.Data.Review.ID).Msg("Review created")
		return printReview(cmd, createJSON, resp)
	},
}

var (
	updateRating      int
	updateTitle       string
	updateDescription string
	updateJSON        bool
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the rating, title or description of a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input reviews.UpdateReviewInput
		if cmd.Flags().Changed("rating") {
			input.Rating = &updateRating
		}
		if cmd.Flags().Changed("title") {
			input.Title = &updateTitle
		}
		if cmd.Flags().Changed("description") {
			input.Description = &updateDescription
		}

		resp, err := client.Update(cmd.Context(), args[0], input)
		if err != nil {
			return err
		}
		logger.Info().Str("id", args[0]).Msg("Review updated")
		return printReview(cmd, updateJSON, resp)
	},
}

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "print the raw JSON response")

	createCmd.Flags().StringVar(&createInput.ProductID, "product", "", "product ID (required)")
	createCmd.Flags().StringVar(&createInput.ProductHandle, "handle", "", "product handle")
	createCmd.Flags().StringVar(&createInput.CustomerName, "name", "", "customer name (required)")
	createCmd.Flags().StringVar(&createInput.CustomerEmail, "email", "", "customer email")
	createCmd.Flags().IntVar(&createInput.Rating, "rating", 0, "rating from 1 to 5 (required)")
	createCmd.Flags().StringVar(&createInput.Title, "title", "", "review title")
	createCmd.Flags().StringVar(&createInput.Description, "description", "", "review text")
	createCmd.Flags().BoolVar(&createJSON, "json", false, "print the raw JSON response")

	updateCmd.Flags().IntVar(&updateRating, "rating", 0, "new rating")
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	updateCmd.Flags().BoolVar(&updateJSON, "json", false, "print the raw JSON response")
}

func printReview(cmd *cobra.Command, jsonFlag bool, resp *reviews.ReviewResponse) error {
	if wantJSON(jsonFlag) {
		return printJSON(cmd, resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatReview(resp.Data.Review))
	return nil
}

var assumeYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more reviews",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !assumeYes && !confirm(cmd, fmt.Sprintf("Delete %d review(s)? [y/N]: ", len(args))) {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}

		if len(args) == 1 {
			if _, err := client.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted review %s\n", args[0])
			return nil
		}

		result := reviews.BatchDelete(cmd.Context(), client, args)
		return reportBatch(cmd, "Deleted", result)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve <id>...",
	Short: "Approve one or more pending reviews",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if _, err := client.Approve(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Approved review %s\n", args[0])
			return nil
		}

		result := reviews.BatchApprove(cmd.Context(), client, args)
		return reportBatch(cmd, "Approved", result)
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompt")
}

func reportBatch(cmd *cobra.Command, action string, result reviews.BatchResult) error {
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBatchResult(action, result))
	if result.HasFailures() {
		return fmt.Errorf("%d of %d review(s) failed", len(result.Failed), result.Requested)
	}
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	var response string
	fmt.Fscanln(cmd.InOrStdin(), &response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to the reviews API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Testing connection to %s...\n", cfg.Reviews.BaseURL)

		all, err := client.GetAll(cmd.Context(), reviews.Filters{Limit: 1})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "✓ Connection successful!")

		pending, err := client.GetPending(cmd.Context(), reviews.Filters{Limit: 1})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\nReview Statistics:\n")
		fmt.Fprintf(out, "- Total reviews: %d\n", all.Data.TotalCount)
		fmt.Fprintf(out, "- Pending approval: %d\n", pending.Data.TotalCount)
		return nil
	},
}

func wantJSON(flag bool) bool {
	return flag || (cfg != nil && cfg.Output.Format == "json")
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
