package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/library"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/philiri"
	"github.com/nbwedev/phil-iri/internal/store"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run Phil-IRI assessments",
}

var assessStartCmd = &cobra.Command{
	Use:   "start <student-id>",
	Short: "Start a new assessment for a student",
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

		stage := philiri.Pretest
		if post, _ := cmd.Flags().GetBool("posttest"); post {
			stage = philiri.Posttest
		}

		svc := newAssessmentService(st)
		a, err := svc.Start(ctx, student.ID, stage)
		if err != nil {
			return err
		}
		fmt.Printf("Started %s assessment %s for %s.\n", a.Stage, a.ID, student.FullName())

		langs := philiri.EligibleGSTLanguages(student.GradeLevel)
		if len(langs) == 0 {
			fmt.Printf("No GST is administered at grade %d; proceed directly to passages.\n", student.GradeLevel)
			return nil
		}
		fmt.Print("Administer the GST in: ")
		names := make([]string, len(langs))
		for i, l := range langs {
			names[i] = string(l)
		}
		fmt.Println(strings.Join(names, ", "))
		return nil
	},
}

var assessGSTCmd = &cobra.Command{
	Use:   "gst <assessment-id>",
	Short: "Record a Group Screening Test answer sheet",
	Long: "Records the 20-item GST sheet for one language. --answers takes one\n" +
		"character per item: + correct, - incorrect.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		lang, err := languageFlag(cmd)
		if err != nil {
			return err
		}
		answers, _ := cmd.Flags().GetString("answers")
		if len(answers) != philiri.GSTTotalItems {
			return fmt.Errorf("--answers needs exactly %d characters, got %d", philiri.GSTTotalItems, len(answers))
		}

		s, err := gst.NewSession(ctx, st.GSTResults(), args[0], lang)
		if err != nil {
			return err
		}
		if s.Submitted() {
			s.Reset()
		}
		for i, c := range answers {
			switch c {
			case '+':
				s.SetAnswer(i, true)
			case '-':
				s.SetAnswer(i, false)
			default:
				return fmt.Errorf("item %d: %q is not + or -", i+1, c)
			}
		}

		r, err := s.Submit(ctx)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("answer sheet incomplete")
		}
		fmt.Printf("%s GST: %d/%d.\n", r.Language, r.Score, r.TotalItems)
		if r.TriggersIndividual {
			fmt.Println("Below the cutoff: administer individual passage testing.")
		} else {
			fmt.Println("At or above the cutoff: no individual testing needed.")
		}
		return printNextStep(cmd, st, args[0])
	},
}

var assessPassageCmd = &cobra.Command{
	Use:   "passage <assessment-id>",
	Short: "Record a graded-passage oral reading",
	Long: "Records one oral-reading administration from the paper marking sheet:\n" +
		"reading time, miscues by word index, and comprehension answers.\n\n" +
		"  --miscues   index:type pairs, e.g. 3:omission,17:substitution\n" +
		"  --self-corrections   word indices, e.g. 5,21\n" +
		"  --answers   one character per question: + correct, - incorrect",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		lang, err := languageFlag(cmd)
		if err != nil {
			return err
		}
		grade, _ := cmd.Flags().GetInt("grade")
		set, _ := cmd.Flags().GetString("set")
		timeMs, _ := cmd.Flags().GetInt64("time-ms")
		miscuesArg, _ := cmd.Flags().GetString("miscues")
		selfCorrArg, _ := cmd.Flags().GetString("self-corrections")
		answers, _ := cmd.Flags().GetString("answers")

		lib, err := library.Default()
		if err != nil {
			return err
		}
		p := lib.FindPassage(lang, grade, set)
		if p == nil {
			return fmt.Errorf("no %s passage at grade %d set %s; available grades: %v",
				lang, grade, set, lib.AvailableGrades(lang))
		}
		if timeMs <= 0 {
			return fmt.Errorf("--time-ms must be positive")
		}
		if len(answers) != len(p.Questions) {
			return fmt.Errorf("--answers needs exactly %d characters for %s, got %d",
				len(p.Questions), p.Title, len(answers))
		}

		// Replay the paper sheet through a session with a stepped clock so
		// the stored timing matches the stopwatch reading.
		clock := time.Now()
		now := func() time.Time { return clock }
		s := passage.NewSession(*p, args[0], passage.Options{
			Results:  st.PassageResults(),
			Recorder: st.Assessments(),
			Now:      now,
		})
		s.Timer().Start()
		clock = clock.Add(time.Duration(timeMs) * time.Millisecond)
		s.Timer().Stop()

		if miscuesArg != "" {
			for _, pair := range strings.Split(miscuesArg, ",") {
				idxStr, typeID, ok := strings.Cut(pair, ":")
				if !ok {
					return fmt.Errorf("miscue %q: want index:type", pair)
				}
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					return fmt.Errorf("miscue %q: bad index", pair)
				}
				if _, ok := philiri.MiscueTypeByID(typeID); !ok {
					return fmt.Errorf("miscue %q: unknown type %q", pair, typeID)
				}
				s.TapWord(idx)
				s.ApplyMiscue(typeID)
				s.Deselect()
			}
		}
		if selfCorrArg != "" {
			for _, idxStr := range strings.Split(selfCorrArg, ",") {
				idx, err := strconv.Atoi(idxStr)
				if err != nil {
					return fmt.Errorf("self-correction %q: bad index", idxStr)
				}
				s.TapWord(idx)
				s.MarkSelfCorrection()
				s.Deselect()
			}
		}
		for i, c := range answers {
			switch c {
			case '+':
				s.SetCompAnswer(p.Questions[i].ID, true)
			case '-':
				s.SetCompAnswer(p.Questions[i].ID, false)
			default:
				return fmt.Errorf("question %d: %q is not + or -", i+1, c)
			}
		}

		r, err := s.Submit(ctx)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("session not ready to submit")
		}

		fmt.Printf("%s grade %d set %s: %s\n", r.Language, r.GradeLevel, r.PassageSet, r.ReadingLevel)
		fmt.Printf("  %.1f%% word accuracy (%d miscues), %d/%d comprehension (%.0f%%), %d wpm\n",
			r.WordAccuracyPct, r.MiscueCount, r.CorrectCompCount, r.TotalQuestions, r.ComprehensionPct, r.WPM)

		if lower, ok := assessment.NextRetryGrade(r, lib.AvailableGrades(lang)); ok {
			fmt.Printf("Not yet Independent: a grade %d %s passage may be re-administered.\n", lower, lang)
		}
		return printNextStep(cmd, st, args[0])
	},
}

var assessNextCmd = &cobra.Command{
	Use:   "next <assessment-id>",
	Short: "Show what remains for an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		return printNextStep(cmd, st, args[0])
	},
}

func newAssessmentService(st *store.Store) *assessment.Service {
	resolver := assessment.NewResolver(st.GSTResults(), st.PassageResults())
	return assessment.NewService(st.Assessments(), resolver)
}

func printNextStep(cmd *cobra.Command, st *store.Store, assessmentID string) error {
	route, err := newAssessmentService(st).Advance(cmd.Context(), assessmentID)
	if err != nil {
		return err
	}
	if route.Kind == assessment.RouteToPassage {
		fmt.Printf("Next: individual %s passage testing.\n", route.Language)
		return nil
	}
	fmt.Println("Nothing outstanding; the assessment is complete.")
	return nil
}

func languageFlag(cmd *cobra.Command) (philiri.Language, error) {
	raw, _ := cmd.Flags().GetString("language")
	for _, lang := range philiri.Languages() {
		if strings.EqualFold(raw, string(lang)) {
			return lang, nil
		}
	}
	return "", fmt.Errorf("--language must be Filipino or English, got %q", raw)
}

func init() {
	assessStartCmd.Flags().Bool("posttest", false, "Start a posttest instead of a pretest")

	assessGSTCmd.Flags().String("language", "", "Assessment language (Filipino or English)")
	assessGSTCmd.Flags().String("answers", "", "20 characters, + or - per item")
	assessGSTCmd.MarkFlagRequired("language")
	assessGSTCmd.MarkFlagRequired("answers")

	assessPassageCmd.Flags().String("language", "", "Assessment language (Filipino or English)")
	assessPassageCmd.Flags().Int("grade", 0, "Passage grade level")
	assessPassageCmd.Flags().String("set", "A", "Passage set")
	assessPassageCmd.Flags().Int64("time-ms", 0, "Reading time in milliseconds")
	assessPassageCmd.Flags().String("miscues", "", "index:type pairs, comma separated")
	assessPassageCmd.Flags().String("self-corrections", "", "Word indices, comma separated")
	assessPassageCmd.Flags().String("answers", "", "One character per question, + or -")
	assessPassageCmd.MarkFlagRequired("language")
	assessPassageCmd.MarkFlagRequired("grade")
	assessPassageCmd.MarkFlagRequired("time-ms")
	assessPassageCmd.MarkFlagRequired("answers")

	assessCmd.AddCommand(assessStartCmd)
	assessCmd.AddCommand(assessGSTCmd)
	assessCmd.AddCommand(assessPassageCmd)
	assessCmd.AddCommand(assessNextCmd)

	rootCmd.AddCommand(assessCmd)
}
