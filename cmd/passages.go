package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbwedev/phil-iri/internal/library"
	"github.com/nbwedev/phil-iri/internal/philiri"
)

var passagesCmd = &cobra.Command{
	Use:   "passages",
	Short: "List the graded passages in the built-in library",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library.Default()
		if err != nil {
			return err
		}
		for _, lang := range philiri.Languages() {
			fmt.Printf("%s (grades %v)\n", lang, lib.AvailableGrades(lang))
			for _, p := range lib.All() {
				if p.Language != lang {
					continue
				}
				fmt.Printf("  grade %d set %s  %-28s %s, %d words, %d questions\n",
					p.GradeLevel, p.Set, p.Title, p.Type, p.TotalWords, len(p.Questions))
			}
		}
		return nil
	},
}
