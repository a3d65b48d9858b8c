package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/paper-portal/paperctl/internal/model"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("courses"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		courses, err := st.ListCourses(ctx)
		if err != nil {
			return eris.Wrap(err, "courses list")
		}
		if len(courses) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No courses found.")
			return nil
		}

		formatCourses(cmd.OutOrStdout(), courses)
		return nil
	},
}

func formatCourses(w io.Writer, courses []model.Course) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tCREATED")
	for _, c := range courses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Code, c.Name, c.CreatedAt.UTC().Format("2006-01-02 15:04"))
	}
	tw.Flush() //nolint:errcheck
}

func init() {
	rootCmd.AddCommand(coursesCmd)
}
