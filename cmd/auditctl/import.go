package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"degreeaudit/internal/catalog"
	"degreeaudit/internal/catalog/store"
)

func newImportCmd(g *globalFlags) *cobra.Command {
	var coursesFile string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a course catalog JSON file into the catalog store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(coursesFile)
			if err != nil {
				return fmt.Errorf("open courses: %w", err)
			}
			defer f.Close()
			courses, err := catalog.DecodeCourses(f)
			if err != nil {
				return err
			}

			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := store.ImportCourses(cmd.Context(), a.Store, courses, a.CatalogMetrics)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d courses\n", n)
			return err
		},
	}
	cmd.Flags().StringVar(&coursesFile, "courses", "", "course catalog JSON file")
	_ = cmd.MarkFlagRequired("courses")
	return cmd
}
