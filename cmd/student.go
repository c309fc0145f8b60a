package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nbwedev/phil-iri/internal/roster"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage the class roster",
}

var studentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a student to the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		first, _ := cmd.Flags().GetString("first")
		last, _ := cmd.Flags().GetString("last")
		lrn, _ := cmd.Flags().GetString("lrn")
		grade, _ := cmd.Flags().GetInt("grade")
		section, _ := cmd.Flags().GetString("section")

		now := time.Now()
		s := &roster.Student{
			ID:         uuid.New().String(),
			FirstName:  first,
			LastName:   last,
			LRN:        lrn,
			GradeLevel: grade,
			Section:    section,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.Validate(); err != nil {
			return err
		}
		if err := st.Students().Create(cmd.Context(), s); err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", s.FullName(), s.ID)
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all students",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		students, err := st.Students().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(students) == 0 {
			fmt.Println("No students on the roster.")
			return nil
		}
		for _, s := range students {
			lrn := s.LRN
			if lrn == "" {
				lrn = "-"
			}
			fmt.Printf("%s  %-24s grade %d  %-12s LRN %s\n",
				s.ID, s.LastName+", "+s.FirstName, s.GradeLevel, s.Section, lrn)
		}
		return nil
	},
}

var studentRmCmd = &cobra.Command{
	Use:   "rm <student-id>",
	Short: "Remove a student and all their assessment records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		s, err := st.Students().Get(ctx, args[0])
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("no student with id %s", args[0])
		}
		if err := st.Students().Delete(ctx, s.ID); err != nil {
			return err
		}
		fmt.Printf("Removed %s and all their records.\n", s.FullName())
		return nil
	},
}

func init() {
	studentAddCmd.Flags().String("first", "", "First name")
	studentAddCmd.Flags().String("last", "", "Last name")
	studentAddCmd.Flags().String("lrn", "", "Learner Reference Number (12 digits, optional)")
	studentAddCmd.Flags().Int("grade", 0, "Grade level (1-7)")
	studentAddCmd.Flags().String("section", "", "Section name")
	studentAddCmd.MarkFlagRequired("first")
	studentAddCmd.MarkFlagRequired("last")
	studentAddCmd.MarkFlagRequired("grade")

	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentListCmd)
	studentCmd.AddCommand(studentRmCmd)
}
