// Command htmlspan is a CLI tool for parsing and querying HTML documents.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/havenwisp/htmlspan"
	"github.com/havenwisp/htmlspan/dom"
	// Import selector package to register selector functions via init()
	_ "github.com/havenwisp/htmlspan/selector"
	"github.com/havenwisp/htmlspan/serialize"
)

// Output format constants.
const (
	outputFormatHTML     = "html"
	outputFormatText     = "text"
	outputFormatMarkdown = "markdown"
)

var version = "dev"

// config holds the CLI configuration.
type config struct {
	selector  string
	format    string
	first     bool
	separator string
	strip     bool
	pretty    bool
	indent    int
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var cfg config

// RootCmd is the main command for the htmlspan CLI.
var RootCmd = &cobra.Command{
	Use:     "htmlspan [options] <file>",
	Short:   "Parse and query HTML documents",
	Long:    "htmlspan parses and queries HTML documents with CSS selectors, emitting HTML, text, or Markdown.",
	Version: version,
	Args:    cobra.ExactArgs(1),
	Example: strings.TrimSpace(`
  htmlspan index.html                    Parse and pretty-print HTML
  htmlspan -s 'p' index.html             Extract all <p> elements
  htmlspan -s 'h1' -f text index.html    Extract h1 text content
  curl -s URL | htmlspan -s 'title' -    Extract title from piped HTML`),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch cfg.format {
		case outputFormatHTML, outputFormatText, outputFormatMarkdown:
		default:
			return fmt.Errorf("invalid format %q: must be html, text, or markdown", cfg.format)
		}
		return run(args[0], cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	flags := RootCmd.Flags()
	flags.StringVarP(&cfg.selector, "selector", "s", "", "CSS selector to filter output")
	flags.StringVarP(&cfg.format, "format", "f", outputFormatHTML, "Output format: html, text, markdown")
	flags.BoolVar(&cfg.first, "first", false, "Output only first match")
	flags.StringVar(&cfg.separator, "separator", " ", "Separator for text output")
	flags.BoolVar(&cfg.strip, "strip", true, "Strip whitespace from text")
	flags.BoolVar(&cfg.pretty, "pretty", true, "Pretty-print HTML output")
	flags.IntVar(&cfg.indent, "indent", 2, "Indentation size for pretty-print")
}

func run(inputPath string, stdin io.Reader, stdout io.Writer) error {
	input, err := readInput(inputPath, stdin)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	doc, err := htmlspan.ParseBytes(input)
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}

	var nodes []dom.Node
	if cfg.selector != "" {
		elements, err := doc.Query(cfg.selector)
		if err != nil {
			return fmt.Errorf("invalid selector: %w", err)
		}
		if cfg.first && len(elements) > 0 {
			elements = elements[:1]
		}
		for _, elem := range elements {
			nodes = append(nodes, elem)
		}
	} else {
		nodes = []dom.Node{doc}
	}

	output := formatNodes(nodes, &cfg)
	_, err = fmt.Fprint(stdout, output)
	return err
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func formatNodes(nodes []dom.Node, cfg *config) string {
	if len(nodes) == 0 {
		return ""
	}

	var results []string

	for _, node := range nodes {
		var result string
		switch cfg.format {
		case outputFormatHTML:
			result = formatHTML(node, cfg)
		case outputFormatText:
			result = formatText(node, cfg)
		case outputFormatMarkdown:
			result = formatMarkdown(node, cfg)
		}
		if result != "" {
			results = append(results, result)
		}
	}

	output := strings.Join(results, "\n")
	if output != "" && !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	return output
}

func formatHTML(node dom.Node, cfg *config) string {
	opts := serialize.Options{
		Pretty:     cfg.pretty,
		IndentSize: cfg.indent,
	}
	return serialize.ToHTML(node, opts)
}

func formatText(node dom.Node, cfg *config) string {
	text := extractText(node)
	if cfg.strip {
		text = collapseWhitespace(text)
	}
	return text
}

func formatMarkdown(node dom.Node, _ *config) string {
	return serialize.ToMarkdown(node)
}

// extractText extracts all text content from a node.
func extractText(node dom.Node) string {
	var sb strings.Builder
	extractTextRecursive(node, &sb)
	return sb.String()
}

func extractTextRecursive(node dom.Node, sb *strings.Builder) {
	switch n := node.(type) {
	case *dom.Text:
		sb.WriteString(n.Data)
	case *dom.Element:
		for _, child := range n.Children() {
			extractTextRecursive(child, sb)
		}
	case *dom.Document:
		for _, child := range n.Children() {
			extractTextRecursive(child, sb)
		}
	}
}

// collapseWhitespace collapses runs of whitespace into single spaces and trims.
func collapseWhitespace(s string) string {
	var sb strings.Builder
	inWhitespace := true // Start true to trim leading whitespace
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			if !inWhitespace {
				sb.WriteByte(' ')
				inWhitespace = true
			}
		} else {
			sb.WriteRune(r)
			inWhitespace = false
		}
	}
	result := sb.String()
	// Trim trailing space
	if len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

