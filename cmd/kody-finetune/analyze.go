package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	kodyfinetune "github.com/kodustech/kody-finetune"
	"github.com/kodustech/kody-finetune/domain/review"
	"github.com/spf13/cobra"
)

// suggestionInput is the JSON shape of one new suggestion to gate.
type suggestionInput struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	RepositoryID   string `json:"repositoryId"`
	RepositoryName string `json:"repositoryName"`
	PRNumber       int    `json:"prNumber"`
	Language       string `json:"language"`
	Content        string `json:"content"`
	Label          string `json:"label"`
	Severity       string `json:"severity"`
}

func (in suggestionInput) toDomain() review.Suggestion {
	repo := review.NewRepositoryRef(in.RepositoryID, in.RepositoryName)
	return review.NewSuggestion(in.ID, in.OrganizationID, repo, in.PRNumber,
		in.Language, in.Content, in.Label, in.Severity)
}

func analyzeCmd() *cobra.Command {
	var (
		envFile string
		input   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Gate a batch of new suggestions against the feedback history",
		Long: `Read a JSON array of suggestions, compare each against the clustered
feedback history for its organization, repository, and language, and print
the decision per suggestion. Uncertain decisions keep the suggestion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(envFile, input)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&input, "input", "-", "Path to a JSON array of suggestions ('-' for stdin)")

	return cmd
}

func runAnalyze(envFile, input string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	suggestions, err := readSuggestions(input)
	if err != nil {
		return err
	}

	opts, err := clientOptions(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := kodyfinetune.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result := client.Analysis.Run(ctx, suggestions)
	for _, s := range suggestions {
		decision, _ := result.Decision(s.ID())
		fmt.Printf("%s: %s\n", s.ID(), decision)
	}
	fmt.Printf("kept=%d discarded=%d\n", len(result.Kept()), len(result.Discarded()))
	return nil
}

func readSuggestions(path string) ([]review.Suggestion, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read suggestions: %w", err)
	}

	var inputs []suggestionInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	suggestions := make([]review.Suggestion, len(inputs))
	for i, in := range inputs {
		suggestions[i] = in.toDomain()
	}
	return suggestions, nil
}
