package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mindcare-bot/internal/app"
	"mindcare-bot/internal/chatbot"
)

const (
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

func newChatCmd(opts *rootOptions) *cobra.Command {
	var showMeta bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the bot in the terminal",
		Long:  `Start an interactive conversation. Type 'exit' or 'quit' to leave and 'reset' to forget the conversation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadEnv()
			if err != nil {
				return err
			}
			logger := opts.logger()
			defer logger.Sync()

			engine, err := app.BuildEngine(cfg, logger, nil)
			if err != nil {
				return err
			}
			bot := chatbot.New(engine.Orchestrator)
			fmt.Fprintf(cmd.OutOrStdout(), "%sBot >%s %s\n", colorGreen, colorReset, engine.Orchestrator.Greeting())
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), bot, showMeta)
		},
	}
	cmd.Flags().BoolVar(&showMeta, "meta", false, "print route, category and sentiment for every reply")
	return cmd
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, bot *chatbot.Chatbot, showMeta bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "You > ")
		text, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read input: %w", err)
		}
		eof := err == io.EOF
		text = strings.TrimSpace(text)

		switch strings.ToLower(text) {
		case "":
			if eof {
				return nil
			}
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Take care. Goodbye!")
			return nil
		case "reset":
			bot.Reset()
			fmt.Fprintln(out, "Conversation reset.")
			continue
		}

		res := bot.Respond(ctx, text)
		fmt.Fprintf(out, "%sBot >%s %s\n", colorGreen, colorReset, res.Message)
		if res.Warning != "" {
			fmt.Fprintf(out, "%s[warning]%s %s\n", colorYellow, colorReset, res.Warning)
		}
		if showMeta {
			sentiment := 0.0
			if res.Sentiment != nil {
				sentiment = *res.Sentiment
			}
			fmt.Fprintf(out, "%s[route=%s category=%s branch=%s sentiment=%.2f crisis=%t]%s\n",
				colorCyan, res.Route, res.Category, res.Branch, sentiment, res.IsCrisis, colorReset)
		}
		if eof {
			return nil
		}
	}
}
