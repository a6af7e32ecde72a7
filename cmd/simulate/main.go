package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"commerce-assistant-be/internal/config"
	"commerce-assistant-be/internal/constant"
	"commerce-assistant-be/internal/pkg/logger"
	"commerce-assistant-be/pkg/assistant"
	"commerce-assistant-be/pkg/gateway"
	"commerce-assistant-be/pkg/store"
	"commerce-assistant-be/pkg/visitor"

	"github.com/fatih/color"
)

// Interactive widget simulator. Drives the session manager against a
// running backend through the cache gateway, so offline behavior can be
// exercised by stopping the server mid-conversation.

const defaultBaseURL = "http://localhost:3000"

func main() {
	cfg := config.Load()

	baseURL := defaultBaseURL
	if v := os.Getenv("ASSISTANT_BASE_URL"); v != "" {
		baseURL = v
	}

	identity, err := visitor.NewProvider(cfg.Cache.IdentityPath)
	if err != nil {
		log.Fatalf("Failed to open identity store: %v", err)
	}
	defer identity.Close()

	visitorID, err := identity.GetOrCreateVisitorID()
	if err != nil {
		log.Fatalf("Failed to resolve visitor id: %v", err)
	}

	gwLogger := logger.NewIsolatedLogger("logs/simulate-gateway.log")
	gw, err := gateway.New(gateway.NewMemoryStore(), nil, gateway.Config{
		Origin:                  baseURL,
		ChatPathPrefix:          assistant.ChatPath,
		KnowledgePaths:          constant.KnowledgePaths,
		StaticManifest:          constant.StaticManifest,
		ChatOfflineText:         constant.OfflineChatApology,
		ChatOfflineQuickReplies: []string{constant.QuickReplyTryAgain, constant.QuickReplyContactUs},
		OfflineErrorMessage:     constant.OfflineErrorMessage,
	}, gwLogger)
	if err != nil {
		log.Fatalf("Failed to initialize gateway: %v", err)
	}

	ctx := context.Background()
	gw.Install(ctx)
	if err := gw.Activate(ctx); err != nil {
		log.Printf("Gateway activation warning: %v", err)
	}

	client := assistant.NewHTTPClient(baseURL, gw)
	manager := assistant.NewManager(client, visitorID, logger.NewNopLogger())

	title := color.New(color.FgCyan, color.Bold)
	botC := color.New(color.FgGreen)
	metaC := color.New(color.FgHiBlack)
	errC := color.New(color.FgRed)

	title.Println("=== Assistant Widget Simulator ===")
	fmt.Printf("Visitor: %s\n", visitorID)
	fmt.Println("Type a message, or /open /close /min /clear /quit")

	manager.ToggleChat()
	printNewMessages(manager, 0, botC, metaC, errC)

	scanner := bufio.NewScanner(os.Stdin)
	seen := len(manager.Session().Messages)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit":
			return
		case "/open":
			manager.Maximize()
			continue
		case "/min":
			sess := manager.Session()
			manager.Minimize()
			metaC.Printf("minimized (unread %d)\n", sess.Unread)
			continue
		case "/close":
			manager.Close()
			metaC.Println("closed")
			continue
		case "/clear":
			manager.ClearChat()
			seen = 0
			metaC.Println("conversation cleared")
			continue
		}

		manager.SendMessage(ctx, line)
		seen = printNewMessages(manager, seen, botC, metaC, errC)
	}
}

func printNewMessages(m *assistant.Manager, seen int, botC, metaC, errC *color.Color) int {
	sess := m.Session()
	for _, msg := range sess.Messages[seen:] {
		if msg.Role != store.RoleBot {
			continue
		}
		if msg.IsError {
			errC.Printf("BOT: %s\n", msg.Content)
		} else {
			botC.Printf("BOT: %s\n", msg.Content)
		}
		if msg.Intent != "" {
			metaC.Printf("     intent=%s confidence=%.2f\n", msg.Intent, msg.Confidence)
		}
		if len(msg.QuickReplies) > 0 {
			metaC.Printf("     [%s]\n", strings.Join(msg.QuickReplies, " | "))
		}
	}
	if sess.Offline {
		metaC.Println("     (offline)")
	}
	return len(sess.Messages)
}
