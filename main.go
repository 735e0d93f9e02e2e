/*
File    : go-flow/main.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// GoFlow interprets dialog-flow scripts for customer service scenarios
// and drives interactive conversations against them. Run it with a
// script file and talk to it on the terminal:
//
//	go-flow --script path/to/script.flow --mock
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/akashmaji946/go-flow/agent"
	"github.com/akashmaji946/go-flow/config"
	"github.com/akashmaji946/go-flow/history"
	"github.com/akashmaji946/go-flow/intent"
	"github.com/akashmaji946/go-flow/parser"
	"github.com/akashmaji946/go-flow/repl"
)

// VERSION is the interpreter version reported by the banner.
const VERSION = "v1.0.0"

// BANNER is shown when the interactive loop starts.
const BANNER = "GoFlow - dialog flow interpreter"

// LINE is the visual separator used by the banner.
const LINE = "============================================================"

// Options defines the command-line surface. Empty api-key/base-url values
// fall back to the OPENAI_API_KEY / OPENAI_BASE_URL environment variables.
type Options struct {
	Script    string `long:"script" short:"s" required:"true" description:"Path to the dialog script file"`
	Mock      bool   `long:"mock" short:"m" description:"Use the built-in keyword classifier instead of a remote model"`
	APIKey    string `long:"api-key" env:"OPENAI_API_KEY" description:"LLM API key"`
	BaseURL   string `long:"base-url" env:"OPENAI_BASE_URL" description:"API base URL for OpenAI-compatible services"`
	Model     string `long:"model" description:"Model name to use for intent classification"`
	UserID    string `long:"user-id" default:"default" description:"Session id for this terminal"`
	HistoryDB string `long:"history-db" description:"Record conversation transcripts to this sqlite file"`
	Config    string `long:"config" description:"YAML file with api_key/base_url/model defaults"`
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		// go-flags already printed the diagnostic (or the help text)
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Load the script source
	source, err := os.ReadFile(opts.Script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: script file not found: %s\n", opts.Script)
		os.Exit(1)
	}

	// Parse it into the shared immutable AST
	script, err := parser.NewParser(string(source)).Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Optional YAML defaults fill in whatever the flags left empty
	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot load config %s: %v\n", opts.Config, err)
			os.Exit(1)
		}
		if opts.APIKey == "" {
			opts.APIKey = cfg.APIKey
		}
		if opts.BaseURL == "" {
			opts.BaseURL = cfg.BaseURL
		}
		if opts.Model == "" {
			opts.Model = cfg.Model
		}
	}

	// Pick the classifier: mock on request, otherwise the LLM analyzer
	// with a fallback to mock when no credentials are available
	var analyzer intent.Analyzer
	if opts.Mock {
		analyzer = intent.NewMockAnalyzer()
	} else {
		llm, err := intent.NewLLMAnalyzer(opts.APIKey, opts.BaseURL, opts.Model)
		if err != nil {
			log.Warnf("cannot initialize LLM classifier, falling back to mock: %v", err)
			analyzer = intent.NewMockAnalyzer()
		} else {
			analyzer = llm
		}
	}

	system := agent.NewAgentSystem(script, analyzer)

	// Optional transcript recording
	if opts.HistoryDB != "" {
		recorder, err := history.Open(opts.HistoryDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot open history database %s: %v\n", opts.HistoryDB, err)
			os.Exit(1)
		}
		system.Recorder = recorder
	}

	repl.NewRepl(BANNER, VERSION, LINE, "you > ").Start(system, opts.UserID, os.Stdout)
}
