package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbwedev/phil-iri/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		e := export.New(st.Students(), st.Assessments(), st.GSTResults(), st.PassageResults())
		if err := e.WriteFile(cmd.Context(), out); err != nil {
			return err
		}
		fmt.Println("Wrote", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "phil-iri.xlsx", "Output workbook path")
}
