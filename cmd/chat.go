package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/studygen/studygen/internal/chat"
	"github.com/studygen/studygen/internal/llm"
	"github.com/studygen/studygen/internal/ratelimit"
)

var chatCmd = &cobra.Command{
	Use:   "chat <question...>",
	Short: "Ask a question, optionally grounded in a study document",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().String("doc", "", "Answer only from this document file")
	chatCmd.Flags().String("html", "", "Also write the answer as an HTML page to this path")
}

func runChat(cmd *cobra.Command, args []string) error {
	docPath, _ := cmd.Flags().GetString("doc")
	htmlPath, _ := cmd.Flags().GetString("html")

	req := chat.Request{
		Message: strings.Join(args, " "),
		Mode:    chat.ModeAskAnything,
	}
	if docPath != "" {
		doc, err := os.ReadFile(docPath)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		req.Mode = chat.ModeAskDocument
		req.Document = string(doc)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	provider, err := llm.NewProvider(ctx, cfg, limiter, s.Events())
	if err != nil {
		return err
	}

	ans, err := chat.NewService(provider, chat.DefaultConfig()).Ask(ctx, req)
	if err != nil {
		return err
	}

	fmt.Println(ans.Markdown)

	if htmlPath != "" {
		html, err := chat.RenderHTML(ans)
		if err != nil {
			return err
		}
		if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		fmt.Fprintln(os.Stderr, "wrote", htmlPath)
	}
	return nil
}
