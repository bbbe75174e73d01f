// parsecli runs the parse pipeline once against a URL, a text file or an
// image, printing the response envelope as JSON. It talks to the real LLM
// API but uses an in-memory cache, so it needs LLM_API_KEY and nothing else.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ejjsharpe/cook-club-sub004/config"
	"github.com/ejjsharpe/cook-club-sub004/internal/service"
	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

var flagMime string

var rootCmd = &cobra.Command{
	Use:   "parsecli",
	Short: "Run the recipe parse pipeline against a single input",
}

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Parse a recipe from a web page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(types.ParseInput{Type: types.InputTypeURL, Data: args[0]})
	},
}

var textCmd = &cobra.Command{
	Use:   "text <file|->",
	Short: "Parse a recipe from free text (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		return runParse(types.ParseInput{Type: types.InputTypeText, Data: string(data)})
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Parse a recipe from a photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return runParse(types.ParseInput{
			Type:     types.InputTypeImage,
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: flagMime,
		})
	},
}

func init() {
	imageCmd.Flags().StringVar(&flagMime, "mime", "image/jpeg", "Image mime type (image/jpeg, image/png, image/webp)")
	rootCmd.AddCommand(urlCmd, textCmd, imageCmd)
}

func runParse(input types.ParseInput) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	llm, err := service.NewLLMService(cfg)
	if err != nil {
		return err
	}

	parser := service.NewParserService(
		service.NewPageFetcher(cfg.FetchTimeout),
		service.NewContentNormalizer(),
		llm,
		llm,
		service.NewMemoryParseCache(),
		nil,
	)

	resp := parser.Parse(context.Background(), input)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !resp.Success {
		os.Exit(1)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
