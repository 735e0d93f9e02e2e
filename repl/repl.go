/*
File    : go-flow/repl/repl.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)

Package repl implements the interactive terminal loop for GoFlow
conversations. It provides the environment where a user can:
- Talk to a running dialog script line by line
- See the system's replies immediately
- Navigate input history using arrow keys
- Receive colored feedback for different kinds of output

The loop uses the readline library for enhanced line editing and drives
the session agent to execute user input.
*/
package repl

import (
	"io"
	"strings"

	"github.com/akashmaji946/go-flow/agent"
	"github.com/akashmaji946/go-flow/eval"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// Color definitions for terminal output:
// - blueColor: Decorative lines and separators
// - yellowColor: System utterances
// - redColor: Error messages
// - greenColor: Banner
// - cyanColor: Informational messages and instructions
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl represents one interactive conversation session.
// It encapsulates the visual configuration for the terminal loop.
type Repl struct {
	Banner  string // Banner displayed at startup
	Version string // Version string
	Line    string // Separator line for visual formatting
	Prompt  string // Command prompt shown to the user (e.g., "you > ")
}

// NewRepl creates and initializes a new Repl instance.
//
// Parameters:
//
//	banner  - Banner text to display at startup
//	version - Version string
//	line    - Separator line for formatting
//	prompt  - Command prompt string
//
// Returns:
//
//	A pointer to a newly created Repl instance
func NewRepl(banner string, version string, line string, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Line: line, Prompt: prompt}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
//
// Parameters:
//
//	writer - The io.Writer to output the banner to (typically os.Stdout)
func (r *Repl) PrintBannerInfo(writer io.Writer) {

	// Print top separator line in blue
	blueColor.Fprintf(writer, "%s\n", r.Line)

	// Print the banner in green
	greenColor.Fprintf(writer, "%s\n", r.Banner)

	// Print separator line
	blueColor.Fprintf(writer, "%s\n", r.Line)

	// Print version info in yellow
	yellowColor.Fprintln(writer, "Version: "+r.Version)

	// Print separator line
	blueColor.Fprintf(writer, "%s\n", r.Line)

	// Print welcome message and usage instructions in cyan
	cyanColor.Fprintf(writer, "%s\n", "Type your message and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type 'quit' or 'exit' to leave")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate input history")

	// Print bottom separator line
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start begins the interactive conversation loop.
// This is the core function that handles the session:
// 1. Displays the welcome banner
// 2. Starts the conversation to emit the opening utterances
// 3. Sets up readline for line editing and history
// 4. Feeds each user line into the agent and prints the result
//
// The loop continues until:
// - User types 'quit', 'exit', or 'q'
// - EOF is encountered (Ctrl+D)
// - The script hits an interpreter error
//
// Parameters:
//
//	system - The session driver executing the conversation
//	userID - The session id this terminal drives
//	writer - Output destination (typically os.Stdout)
func (r *Repl) Start(system *agent.AgentSystem, userID string, writer io.Writer) {

	// Print the welcome banner and usage instructions
	r.PrintBannerInfo(writer)

	// Open the conversation and print the opening utterances
	result := system.StartConversation(userID)
	r.printResult(writer, result)
	if result.Status == eval.StatusError {
		return
	}

	// Create a new readline instance for enhanced line editing
	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close() // Ensure readline is properly closed on exit

	// Main loop - continues until user exits or error occurs
	for {
		// Read a line of input from the user
		// This blocks until the user presses Enter
		line, err := rl.Readline()
		if err != nil {
			// EOF or error occurred (e.g., Ctrl+D pressed)
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		// Trim whitespace from the input
		line = strings.Trim(line, " \n\t\r")

		// Skip empty lines
		if line == "" {
			continue
		}

		// Check for exit command
		if line == "quit" || line == "exit" || line == "q" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		// Save the input to history for up/down arrow navigation
		rl.SaveHistory(line)

		// Advance the conversation with this input
		result := system.ProcessInput(userID, line)
		r.printResult(writer, result)
		if result.Status == eval.StatusError {
			break
		}
	}
}

// printResult renders one interpreter result to the terminal.
// System utterances print line by line in yellow; errors print in red.
// A finished conversation does not close the loop - the user may keep
// talking, which re-runs the script's current step.
func (r *Repl) printResult(writer io.Writer, result eval.Result) {
	if result.Status == eval.StatusError {
		redColor.Fprintf(writer, "[ERROR] %s\n", result.Message)
		return
	}

	for _, line := range strings.Split(result.Message, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		yellowColor.Fprintf(writer, "system: %s\n", line)
	}
}
