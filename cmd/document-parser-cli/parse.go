package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/paultsoi1014/document-parser/internal/config"
	"github.com/paultsoi1014/document-parser/internal/convert"
	"github.com/paultsoi1014/document-parser/internal/domain"
	"github.com/paultsoi1014/document-parser/internal/observability"
	"github.com/paultsoi1014/document-parser/internal/parse"
	"github.com/paultsoi1014/document-parser/internal/vision"
)

var (
	parseTaskPrompt string
	parseOutput     string
	parseOutFile    string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a document into text and extracted images",
	Long: `Parse a PDF, DOC/DOCX/PPT/PPTX or image file and print the result.
Office documents are converted to PDF via headless LibreOffice first;
embedded images are described inline by the captioning model.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseTaskPrompt, "prompt", "p", "", "task prompt for image captioning")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "text", "output format: text or json")
	parseCmd.Flags().StringVar(&parseOutFile, "out-file", "", "write output to a file instead of stdout")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := "error"
	if verbose {
		logLevel = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       logLevel,
		Format:      "console",
		ServiceName: "document-parser-cli",
	})

	svc := parse.NewService(
		logger,
		convert.NewPDFConverter(logger, cfg.Converter.PDFImagesBin),
		convert.NewOfficeConverter(logger, cfg.Converter.LibreOfficeBin),
		vision.NewClient(vision.Config{
			BaseURL: cfg.Vision.BaseURL,
			APIKey:  cfg.Vision.APIKey,
			Model:   cfg.Vision.Model,
			Timeout: cfg.Vision.RequestTimeout,
		}),
		cfg.Vision.TaskPrompt,
	)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Parsing " + filepath.Base(inputPath) + "..."
	s.Writer = os.Stderr
	s.Start()

	result, err := dispatchParse(ctx, svc, inputPath)
	s.Stop()

	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	color.Green("✓ Parsed %s (%d images)", filepath.Base(inputPath), len(result.Images))

	return writeResult(result)
}

// dispatchParse selects the orchestrator path by file extension.
func dispatchParse(ctx context.Context, svc *parse.Service, inputPath string) (*domain.DocumentResponse, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))
	switch {
	case ext == ".pdf":
		return svc.ParsePDF(ctx, parse.PDFInput{Path: inputPath})
	case convert.IsOfficeName(inputPath):
		return svc.ParseDocPPT(ctx, parse.DocumentInput{Path: inputPath})
	default:
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, err
		}
		return svc.ParseImage(ctx, parse.ImageInput{Data: data}, filepath.Base(inputPath), parseTaskPrompt)
	}
}

func writeResult(result *domain.DocumentResponse) error {
	var rendered []byte
	switch parseOutput {
	case "json":
		var err error
		rendered, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	case "text":
		rendered = []byte(result.Text)
	default:
		return fmt.Errorf("unknown output format: %s", parseOutput)
	}

	if parseOutFile != "" {
		if err := os.WriteFile(parseOutFile, rendered, 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		color.Cyan("Output written to %s", parseOutFile)
		return nil
	}

	fmt.Println(string(rendered))
	return nil
}
