package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/careerapi"
	"github.com/careercrafted/careercrafted/internal/filtering"
	"github.com/careercrafted/careercrafted/internal/jobs"
	"github.com/careercrafted/careercrafted/internal/logger"
	"github.com/careercrafted/careercrafted/internal/session"
)

const (
	PromptShowJobs            = "Show jobs"
	PromptSortJobs            = "Sort jobs"
	PromptFilterSource        = "Filter jobs by source"
	PromptLoadMore            = "Load more jobs"
	PromptSaveJob             = "Save a job"
	PromptSaveSearch          = "Save this search"
	PromptExport              = "Export results to CSV"
	PromptReportByEmployers   = "Report by employers"
	PromptJobsToFile          = "Dump jobs to file"
	PromptAppendToExcludeFile = "Append all jobs to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run the career assessment and browse the matching jobs",
	Run: func(cmd *cobra.Command, _ []string) {
		assess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)

	assessCmd.Flags().BoolP("survey", "s", false, "ask the assessment questions even if the config has answers")
	assessCmd.Flags().Bool("local", false, "do not call the remote service, match locally")
	assessCmd.Flags().StringP("exclude-file", "e", "", "special file with jobs to exclude. Default is unset.")
	assessCmd.Flags().String("export-dir", "", "directory for CSV exports. Default is the current directory.")
	assessCmd.Flags().StringSlice("skip-filter", nil, "filter steps to turn off for this run, e.g. ai_fit")

	viper.BindPFlag("exclude-file", assessCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("export-dir", assessCmd.Flags().Lookup("export-dir"))
}

// assessRun holds everything the action menu works on.
type assessRun struct {
	ctx     context.Context
	logger  *zap.Logger
	config  *Config
	api     *careerapi.Client
	sess    *session.Session
	filters *filtering.Filtering
	out     io.Writer
	now     func() time.Time

	// view settings only change what is shown, never the session jobs.
	sortKey jobs.SortKey
	source  string
}

func assess(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	zlog.Info("starting the careercrafted", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	zlog.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	assessment := config.Assessment
	if forced, _ := cmd.Flags().GetBool("survey"); forced || assessment == nil {
		assessment, err = runSurvey(assessment)
		if err != nil {
			zlog.Fatal("running the survey", zap.Error(err))
		}
	}

	if err := assessment.Validate(); err != nil {
		zlog.Fatal("invalid assessment answers", zap.Error(err))
	}

	var api *careerapi.Client
	if local, _ := cmd.Flags().GetBool("local"); !local {
		api, err = newAPIClient(config, zlog)
		if err != nil {
			zlog.Fatal(
				"loading api token",
				zap.Error(err),
				zap.String("hint", "set CAREERCRAFTED_API_TOKEN_FILE environment variable or the 'api.token-file' key in the configuration file"),
			)
		}
	}

	sess := session.New(assessment)
	zlog = logger.WithSession(zlog, sess.ID, "")

	if err := submit(ctx, sess, api, zlog, time.Now()); err != nil {
		zlog.Fatal("matching the assessment", zap.Error(err))
	}

	zlog = logger.WithSession(zlog, "", sess.Insight.CareerMatch)
	sess.Search = config.Search
	if sess.Search == nil {
		sess.Search = sess.SearchFromInsight()
	}

	r := &assessRun{
		ctx:     ctx,
		logger:  zlog,
		config:  config,
		api:     api,
		sess:    sess,
		filters: prepareFilters(ctx, config, assessment, zlog),
		out:     cmd.OutOrStdout(),
		now:     time.Now,
		sortKey: jobs.SortRelevance,
	}

	skip, _ := cmd.Flags().GetStringSlice("skip-filter")
	disableFilters(r.filters, skip, zlog)
	logFilterStatuses(r.filters, zlog)

	r.printInsight()

	filtered, err := r.filters.RunFilters(ctx, sess.Jobs)
	if err != nil {
		zlog.Fatal("filtering failed", zap.Error(err))
	}
	sess.Jobs = filtered

	for {
		items := r.menuItems()
		prompt := promptui.Select{
			Label: fmt.Sprintf("%d jobs for %s. What next?", sess.Jobs.Len(), sess.Insight.CareerMatch),
			Items: items,
			Size:  len(items),
		}

		_, action, err := prompt.Run()
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}

		if err := r.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			zlog.Fatal("exiting", zap.Error(err))
		}
	}
}

func disableFilters(filters *filtering.Filtering, names []string, log *zap.Logger) {
	for _, name := range names {
		if !filters.DisableByName(name, "skipped by flag") {
			log.Warn("unknown filter to skip", zap.String("name", name))
		}
	}
}

func logFilterStatuses(filters *filtering.Filtering, log *zap.Logger) {
	for _, status := range filters.Describe() {
		fields := []zap.Field{
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
		}
		if status.Reason != "" {
			fields = append(fields, zap.String("reason", status.Reason))
		}
		if len(status.Details) > 0 {
			fields = append(fields, zap.Any("details", status.Details))
		}
		log.Debug("filter status", fields...)
	}
}

func (r *assessRun) menuItems() []string {
	items := []string{PromptShowJobs, PromptSortJobs, PromptFilterSource}
	if r.canLoadMore() {
		items = append(items, PromptLoadMore)
	}
	if r.api != nil {
		items = append(items, PromptSaveJob, PromptSaveSearch)
	}
	items = append(items, PromptExport, PromptReportByEmployers, PromptJobsToFile)
	if r.config.ExcludeFile != "" && r.sess.Jobs.Len() != 0 {
		items = append(items, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func (r *assessRun) canLoadMore() bool {
	return r.api != nil && !r.sess.Local && r.sess.HasMore
}

func (r *assessRun) handleAction(action string) error {
	switch action {
	case PromptShowJobs:
		r.printJobs()
		return nil
	case PromptSortJobs:
		return r.chooseSort()
	case PromptFilterSource:
		source, err := askText("Show only jobs whose source contains (empty for all)", r.source)
		if err != nil {
			return err
		}
		r.source = source
		r.printJobs()
		return nil
	case PromptLoadMore:
		return r.loadMore()
	case PromptSaveJob:
		return r.saveJob()
	case PromptSaveSearch:
		return r.saveSearch()
	case PromptExport:
		path, err := r.export()
		if err != nil {
			return err
		}
		r.logger.Info("exported results", zap.String("filename", path))
		return nil
	case PromptReportByEmployers:
		pretty, _ := json.MarshalIndent(r.sess.Jobs.ReportByEmployer(), "", "  ")
		r.logger.Info(string(pretty), zap.Int("jobs count", r.sess.Jobs.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := r.sess.Jobs.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		r.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return r.appendToExcludeFile()
	case PromptExit:
		r.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// view returns the session jobs as currently shown: source filtered and sorted.
func (r *assessRun) view() *jobs.Jobs {
	v := r.sess.Jobs.Clone()
	v.KeepSource(r.source)
	v.Sort(r.sortKey)
	return v
}

func (r *assessRun) printInsight() {
	in := r.sess.Insight
	fmt.Fprintf(r.out, "\nCareer match: %s\n%s\n%s\n", in.CareerMatch, in.MatchReason, in.PersonalityInsight)
	if len(in.Recommendations) > 0 {
		fmt.Fprintln(r.out, "\nRecommended:")
		for _, rec := range in.Recommendations {
			fmt.Fprintf(r.out, "  %s at %s: %s\n", rec.Role, rec.Company, rec.Reason)
		}
	}
	fmt.Fprintln(r.out)
}

func (r *assessRun) printJobs() {
	v := r.view()
	for _, job := range v.Items {
		fmt.Fprintln(r.out, jobLabel(job))
	}
	fmt.Fprintf(r.out, "Showing %d jobs\n", v.Len())
}

func jobLabel(job *jobs.Job) string {
	parts := []string{job.ID, job.Title, job.Company, job.Location}
	if job.MatchScore > 0 {
		parts = append(parts, fmt.Sprintf("%d%% match", job.MatchScore))
	}
	if job.Salary > 0 {
		parts = append(parts, fmt.Sprintf("$%d/year", job.Salary))
	}
	parts = append(parts, job.URL)
	return strings.Join(parts, " / ")
}

func (r *assessRun) chooseSort() error {
	keys := make([]string, 0, len(jobs.SortKeys))
	for _, key := range jobs.SortKeys {
		keys = append(keys, string(key))
	}

	choice, err := askChoice("Sort by", keys, string(r.sortKey))
	if err != nil {
		return err
	}

	key, err := jobs.ParseSortKey(choice)
	if err != nil {
		return err
	}
	r.sortKey = key
	r.printJobs()
	return nil
}

// loadMore fetches the next search page. A failed page leaves the position
// unchanged. Transport errors can be retried; a reply refused by the service
// ends paging.
func (r *assessRun) loadMore() error {
	err := r.sess.Do(func() error {
		next := r.sess.Page + 1
		result, err := r.api.Search(r.ctx, r.sess.Search, next)
		if err != nil {
			return err
		}

		page := &jobs.Jobs{Items: result.Jobs}
		if page.Len() > 0 {
			page, err = r.filters.RunFilters(r.ctx, page)
			if err != nil {
				return err
			}
		}

		r.sess.AppendPage(next, page.Items, result.HasMore)
		r.logger.Info("loaded more jobs",
			zap.Int("page", next),
			zap.Int("received", len(result.Jobs)),
			zap.Int("kept", page.Len()),
			zap.Bool("has_more", result.HasMore),
		)
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, careerapi.ErrUnsuccessful) {
			r.sess.HasMore = false
		}
		r.logger.Warn("failed to load more jobs", zap.Error(err), zap.Bool("has_more", r.sess.HasMore))
		return nil
	}
	return err
}

func (r *assessRun) pickJob() (*jobs.Job, error) {
	v := r.view()
	items := make([]string, 0, v.Len()+1)
	for _, job := range v.Items {
		items = append(items, jobLabel(job))
	}

	p := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := p.Run()
	if err != nil {
		return nil, err
	}
	return jobFromLabel(v, selected), nil
}

// jobFromLabel resolves a menu label back to its job. The label starts with
// the job ID; anything else, like the back item, resolves to nil.
func jobFromLabel(v *jobs.Jobs, label string) *jobs.Job {
	id, _, _ := strings.Cut(label, " / ")
	return v.FindByID(id)
}

func (r *assessRun) saveJob() error {
	job, err := r.pickJob()
	if err != nil || job == nil {
		return err
	}

	if err := r.api.SaveJob(r.ctx, job.ID); err != nil {
		r.logger.Warn("failed to save job", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	r.logger.Info("job saved successfully", zap.String("job_id", job.ID))
	return nil
}

func (r *assessRun) saveSearch() error {
	if err := r.api.SaveSearch(r.ctx, r.sess.Search); err != nil {
		r.logger.Warn("failed to save search", zap.Error(err))
		return nil
	}

	r.logger.Info("search saved successfully", zap.String("keywords", r.sess.Search.Keywords))
	return nil
}

// export writes the session jobs to a dated CSV file. The remote rendering is
// preferred; the local writer is used when the service is absent or fails.
func (r *assessRun) export() (string, error) {
	dir := r.config.ExportDir
	if dir == "" {
		dir = "."
	}
	now := r.now()

	if r.api != nil {
		path := filepath.Join(dir, jobs.ExportFileName(now))
		err := r.exportRemote(path)
		if err == nil {
			return path, nil
		}
		r.logger.Warn("remote export failed, writing CSV locally", zap.Error(err))
	}

	return r.sess.Jobs.ExportCSV(dir, now)
}

func (r *assessRun) exportRemote(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := r.api.Export(r.ctx, r.sess.Jobs, file); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	return file.Close()
}

func (r *assessRun) appendToExcludeFile() error {
	excludeFile := r.config.ExcludeFile

	excluded, err := jobs.ReadExcludedFile(excludeFile)
	if err != nil {
		return err
	}

	excluded.Append(r.sess.Jobs.ToExcluded(jobs.ExcludeActorUser, "", r.now()))

	if err = excluded.ToFile(excludeFile); err != nil {
		return err
	}

	r.logger.Info("appended to exclude file", zap.String("filename", excludeFile))

	r.sess.Jobs.Exclude(jobs.JobIDField, excluded.IDs())
	return nil
}
