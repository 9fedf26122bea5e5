package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akolanti/docqa/internal/adapter"
	"github.com/akolanti/docqa/internal/adapter/utils"
	"github.com/akolanti/docqa/internal/api"
	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/job"
)

type askOptions struct {
	*rootOptions
	files     []string
	returnAll bool
	json      bool
}

func newAskCmd(root *rootOptions) *cobra.Command {
	opts := &askOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question from local files",
		Long: `Indexes the given files and answers one question about them.
Each source is printed with its file name and "<page>-<chunk>" key.`,
		Example: `  docqa ask -f report.pdf -f notes.txt "What was the Q3 revenue?"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringArrayVarP(&opts.files, "file", "f", nil, "file to index, repeat for several files")
	cmd.Flags().BoolVar(&opts.returnAll, "return-all", false, "print every retrieved chunk, not only the cited ones")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output the answer as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runAsk(cmd *cobra.Command, opts *askOptions, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return errors.New("question is empty")
	}

	service, err := opts.loadService(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	files := make([]jobModel.UploadedFile, len(opts.files))
	for i, f := range opts.files {
		files[i] = jobModel.UploadedFile{Name: filepath.Base(f), Path: f}
	}
	indexId := utils.GetNewUUID()

	trace := utils.GetNewUUID()
	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, trace)

	ingest := service.IngestFiles(ctx, job.NewIngestJob(utils.GetNewUUID(), trace, indexId, files))
	for _, skipped := range ingest.JobPayload.FileErrors {
		cmd.PrintErrf("skipped %s: %s\n", skipped.Name, skipped.Message)
	}
	if ingest.Status == jobModel.JobStatusError {
		return fmt.Errorf("indexing failed: %s", ingest.Error.Message)
	}

	query := service.ProcessRequest(ctx, job.NewQueryJob(utils.GetNewUUID(), trace, indexId, question, opts.returnAll))
	if query.Status == jobModel.JobStatusError {
		return fmt.Errorf("answering failed: %s", query.Error.Message)
	}

	res := adapter.ToQAResponse(query.JobPayload)
	if res == nil {
		res = &api.QAResponse{Question: question, Citations: []string{}, Sources: []api.SourceResponse{}}
	}
	if opts.json {
		return outputAskJSON(cmd, res)
	}
	outputAskText(cmd, res)
	return nil
}

func outputAskJSON(cmd *cobra.Command, res *api.QAResponse) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, res *api.QAResponse) {
	cmd.Println(res.Answer)
	if len(res.Sources) == 0 {
		cmd.Println()
		cmd.Println("No sources.")
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for _, s := range res.Sources {
		cmd.Printf("  [%s] %s\n", s.Source, s.FileName)
		cmd.Printf("      %s\n", snippet(s.Content, 120))
	}
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
