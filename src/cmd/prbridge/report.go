package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hv-doan/prbridge/src/internal/report"
	"github.com/hv-doan/prbridge/src/pkg/template"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var output string
	var post bool
	var templatePath string
	var noPatch bool

	cmd := &cobra.Command{
		Use:   "report <number>",
		Short: "Generate a markdown report for a pull request",
		Long: `Generate a markdown report covering a pull request's metadata,
discussion, reviews and diff. The report goes to stdout by default, to
a file with --output, or onto the pull request itself with --post,
where a previous report comment is updated in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parsePRNumber(args[0])
			if err != nil {
				return err
			}

			client, err := newClient(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if templatePath == "" {
				templatePath = opts.cfg.Defaults.TemplatePath
			}

			generator, err := report.NewGenerator(client, template.NewRenderer(), report.Options{
				PRNumber:     number,
				TemplatePath: templatePath,
				IncludePatch: !noPatch,
			})
			if err != nil {
				return err
			}

			data, err := generator.Collect(cmd.Context())
			if err != nil {
				return err
			}
			body, err := generator.Render(cmd.Context(), data)
			if err != nil {
				return err
			}

			var sink report.Sink
			if post {
				sink = &report.CommentSink{Client: client, PRNumber: number}
			} else {
				sink = &report.FileSink{Path: output, Stdout: os.Stdout}
			}
			return sink.Write(cmd.Context(), body)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&post, "post", false, "Post the report as a comment on the pull request")
	cmd.Flags().StringVar(&templatePath, "template", "", "Custom report template file")
	cmd.Flags().BoolVar(&noPatch, "no-patch", false, "Skip fetching and embedding the diff")

	return cmd
}
