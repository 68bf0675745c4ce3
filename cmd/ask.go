package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/Rorical/CosmicDialog/internal/app"
	"github.com/Rorical/CosmicDialog/internal/core"
	"github.com/Rorical/CosmicDialog/internal/models"
	"github.com/Rorical/CosmicDialog/internal/utils"
)

const askWidth = 80

var (
	askRaw  bool
	askJSON bool
)

// askCmd runs a single turn without the TUI
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Run one turn and print the transcript",
	Long: `Runs a single message through the planner and the simulated tools, then
prints the transcript. Finished tools are reported on stderr.

Example:
  cosmic ask "search for go generics and calculate 12*7"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// transcript is the --json output
type transcript struct {
	Messages  []openai.ChatCompletionMessage `json:"messages"`
	ToolCalls []openai.ToolCall              `json:"tool_calls"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stderr := cmd.ErrOrStderr()
	opts := app.ServiceOptions(cfg, logger)
	opts.Notify = func(tool, output string) {
		fmt.Fprintf(stderr, "Tool finished: %s\n", tool)
	}

	service := core.NewChatService(opts, nil)
	defer service.Stop()

	if err := service.RunTurn(ctx, strings.Join(args, " ")); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if askJSON {
		return writeJSON(out, transcript{
			Messages:  service.OpenAIHistory(),
			ToolCalls: service.OpenAIToolCalls(),
		})
	}

	var renderer *utils.MarkdownRenderer
	if !askRaw {
		renderer = utils.NewMarkdownRenderer(cfg.MarkdownStyle, askWidth)
	}
	writeTranscript(out, service.Messages(), renderer)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return nil
}

// writeTranscript prints each message under a "Label · 15:04" header. User
// messages and a nil renderer print the raw text.
func writeTranscript(w io.Writer, messages []models.Message, renderer *utils.MarkdownRenderer) {
	for i, msg := range messages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s · %s\n", msg.Role.Label(), models.FormatClock(msg.Timestamp))

		body := msg.Content
		if renderer != nil && msg.Role != models.User {
			body = renderer.Render(body)
		}
		fmt.Fprintln(w, body)
	}
}

func init() {
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "print markdown without rendering")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the transcript as OpenAI chat messages and tool calls")
}
