package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"ai-interview-be/internal/entity"
	"ai-interview-be/pkg/interview/planner"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type planOptions struct {
	style       string
	level       string
	years       float64
	position    string
	duration    int
	catalogPath string
	asJSON      bool
}

type planOutput struct {
	Style            entity.InterviewStyle `json:"style"`
	ExperienceYears  float64               `json:"experience_years"`
	Phases           []entity.Phase        `json:"phases"`
	PlannedQuestions int                   `json:"planned_questions"`
	PlannedMinutes   int                   `json:"planned_minutes"`
}

func newPlanCommand() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the phase plan for a candidate",
		Long: `Preview the phases, difficulties and question counts the service would
plan for a candidate, without starting a session or calling a model.

--years overrides the experience implied by --level, the same way a parsed
resume would.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.style, "style", string(entity.StyleMixed), "Interview style (technical, behavioral, mixed, leadership)")
	cmd.Flags().StringVar(&opts.level, "level", string(entity.SeniorityMid), "Declared seniority (junior, mid-level, senior, lead)")
	cmd.Flags().Float64Var(&opts.years, "years", 0, "Resume-derived years of experience")
	cmd.Flags().StringVar(&opts.position, "position", "Software Engineer", "Position title")
	cmd.Flags().IntVar(&opts.duration, "duration", 60, "Interview length in minutes")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to a YAML phase catalog (defaults to the built-in one)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the plan as JSON")

	return cmd
}

func runPlan(w io.Writer, opts *planOptions) error {
	style := entity.InterviewStyle(opts.style)
	if !style.IsValid() {
		return fmt.Errorf("unknown interview style %q", opts.style)
	}
	level := entity.SeniorityBand(opts.level)
	if !level.IsValid() {
		return fmt.Errorf("unknown seniority %q", opts.level)
	}
	if opts.duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", opts.duration)
	}

	catalog := planner.DefaultCatalog()
	if opts.catalogPath != "" {
		var err error
		if catalog, err = planner.LoadCatalog(opts.catalogPath); err != nil {
			return err
		}
	}

	candidate := entity.CandidateRecord{Position: opts.position, Seniority: level, Style: style}
	var profile entity.SkillProfile
	if opts.years > 0 {
		profile = entity.SkillProfile{ExperienceYears: opts.years, Confidence: 1}
	}

	phases := planner.NewPlanner(catalog).Plan(candidate, profile, style, opts.duration)
	out := planOutput{
		Style:            style,
		ExperienceYears:  planner.ExperienceYears(candidate, profile),
		Phases:           phases,
		PlannedQuestions: planner.TotalQuestions(phases),
		PlannedMinutes:   planner.TotalMinutes(phases),
	}

	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printPlan(w, out)
}

func printPlan(w io.Writer, out planOutput) error {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(w, "%s interview, %.1f years of experience\n\n", out.Style, out.ExperienceYears)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPHASE\tCATEGORY\tDIFFICULTY\tQUESTIONS\tMINUTES")
	for i, p := range out.Phases {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n",
			i+1, p.Name, p.Category, difficultyLabel(p.TargetDifficulty), p.QuestionCount, p.DurationMinutes)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	color.New(color.Bold).Fprintf(w, "\n%d questions over %d minutes\n", out.PlannedQuestions, out.PlannedMinutes)
	return nil
}

func difficultyLabel(d entity.Difficulty) string {
	switch d {
	case entity.DifficultyEasy:
		return color.GreenString(string(d))
	case entity.DifficultyHard:
		return color.RedString(string(d))
	default:
		return color.YellowString(string(d))
	}
}
