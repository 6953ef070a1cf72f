package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gogotex/docstore/internal/document"
	"github.com/gogotex/docstore/internal/document/service"
	"github.com/gogotex/docstore/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		file     string
		logLevel string
	)
	root := &cobra.Command{
		Use:   "docsearch",
		Short: "Search a JSON file of documents",
		Long:  `Loads documents from a JSON array into an in-memory store and runs lookups or searches against it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			logger.Init(logLevel)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&file, "file", "f", "", "JSON file holding an array of documents")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(newSearchCmd(&file), newGetCmd(&file))
	return root
}

func newSearchCmd(file *string) *cobra.Command {
	var (
		prefixes, contains, authors []string
		from, to                    string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print documents matching every given criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := document.SearchRequest{TitlePrefixes: prefixes, ContainsContents: contains, AuthorIDs: authors}
			var err error
			if req.CreatedFrom, err = parseTime("from", from); err != nil {
				return err
			}
			if req.CreatedTo, err = parseTime("to", to); err != nil {
				return err
			}
			svc, err := load(cmd.Context(), *file)
			if err != nil {
				return err
			}
			docs, err := svc.Search(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			return writeJSON(cmd, docs)
		},
	}
	cmd.Flags().StringArrayVar(&prefixes, "title-prefix", nil, "title prefix (repeatable, any may match)")
	cmd.Flags().StringArrayVar(&contains, "contains", nil, "content substring (repeatable, any may match)")
	cmd.Flags().StringArrayVar(&authors, "author", nil, "author id (repeatable, any may match)")
	cmd.Flags().StringVar(&from, "from", "", "earliest created time, RFC3339, inclusive")
	cmd.Flags().StringVar(&to, "to", "", "latest created time, RFC3339, inclusive")
	return cmd
}

func newGetCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the document with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := load(cmd.Context(), *file)
			if err != nil {
				return err
			}
			d, err := svc.FindByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("document %q not found", args[0])
			}
			return writeJSON(cmd, d)
		},
	}
}

// load saves every document from path into a fresh memory-backed service.
func load(ctx context.Context, path string) (service.Service, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var docs []document.Document
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	svc := service.NewMemoryService()
	for _, d := range docs {
		if _, err := svc.Save(ctx, d); err != nil {
			return nil, err
		}
	}
	logger.Infow("documents loaded", "file", path, "count", len(docs))
	return svc, nil
}

func parseTime(flag, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &t, nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
