package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbwedev/phil-iri/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <student-id>",
	Short: "Show a student's reading profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		student, err := st.Students().Get(ctx, args[0])
		if err != nil {
			return err
		}
		if student == nil {
			return fmt.Errorf("no student with id %s", args[0])
		}

		assessments, err := st.Assessments().ListForStudent(ctx, student.ID)
		if err != nil {
			return err
		}
		records := make([]report.StudentRecord, 0, len(assessments))
		for _, a := range assessments {
			gsts, err := st.GSTResults().ListForAssessment(ctx, a.ID)
			if err != nil {
				return err
			}
			passages, err := st.PassageResults().ListForAssessment(ctx, a.ID)
			if err != nil {
				return err
			}
			records = append(records, report.StudentRecord{
				Assessment: a,
				GSTResults: gsts,
				Passages:   passages,
			})
		}

		fmt.Println(report.Student(student, records))
		return nil
	},
}
