package main

import (
	"EllaBooking/internal/api/assistant"
	"EllaBooking/internal/entity"
	"EllaBooking/pkg/log"
	websocketPkg "EllaBooking/pkg/websocket"
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	_ = godotenv.Load()
	logger := log.NewLogger()

	apiURL := flag.String("api", envOr("ELLA_API_URL", "http://localhost:3000"), "assistant API base URL")
	sessionID := flag.String("session", "", "resume an existing session")
	userID := flag.String("user", "", "user id attached to a new session")
	flag.Parse()

	if *sessionID == "" {
		id, err := startSession(*apiURL, *userID)
		if err != nil {
			logger.Fatalf("Failed to start session: %v", err)
		}
		*sessionID = id
	}

	wsURL, err := websocketPkg.TranscriptURL(*apiURL, *sessionID)
	if err != nil {
		logger.Fatalf("Invalid API URL: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := websocketPkg.Dial(ctx, wsURL)
	cancel()
	if err != nil {
		logger.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	fmt.Printf("Session %s. Type a reply, a quick-reply number, or /quit.\n\n", *sessionID)

	replies := &quickReplies{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			frame, err := client.ReadFrame()
			if err != nil {
				fmt.Println("\nConnection closed.")
				return
			}
			render(frame, replies)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			break
		}

		if err := client.Send(replies.resolve(line)); err != nil {
			logger.Errorf("Failed to send message: %v", err)
			break
		}

		select {
		case <-done:
			return
		default:
		}
	}
}

func startSession(apiURL, userID string) (string, error) {
	agent := fiber.Post(strings.TrimRight(apiURL, "/") + "/api/v1/assistant/sessions")
	agent.JSON(assistant.StartSessionRequest{UserID: userID, Channel: "cli"})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	if code != fiber.StatusCreated {
		return "", fmt.Errorf("unexpected status %d: %s", code, body)
	}

	var res assistant.SessionResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", err
	}
	return res.SessionID, nil
}

// quickReplies remembers the options of the latest assistant message so the
// user can answer with their number.
type quickReplies struct {
	mu      sync.Mutex
	options []entity.QuickReply
}

func (q *quickReplies) set(options []entity.QuickReply) {
	q.mu.Lock()
	q.options = options
	q.mu.Unlock()
}

func (q *quickReplies) resolve(line string) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(q.options) {
		return line
	}
	return q.options[n-1].Value
}

func render(frame *assistant.StreamFrame, replies *quickReplies) {
	if frame.Type == assistant.FrameError {
		fmt.Printf("! %s\n", frame.Error)
		return
	}
	if frame.Message == nil {
		return
	}

	m := frame.Message
	if m.Role == entity.RoleUser {
		fmt.Printf("you: %s\n", m.Text)
		return
	}

	fmt.Printf("ella: %s\n", m.Text)
	if a := m.Attachment; a != nil {
		switch {
		case a.Service != nil:
			fmt.Printf("      %s  $%.2f\n      %s\n", a.Service.Name, a.Service.Price, a.Service.Description)
		case a.Summary != nil:
			t := a.Summary.Totals
			fmt.Printf("      base $%.2f  add-ons $%.2f  discount -$%.2f  tip $%.2f  total $%.2f\n",
				t.BasePrice, t.AddOnsTotal, t.Discount, t.Tip, t.Total)
		}
	}
	for i, r := range m.QuickReplies {
		fmt.Printf("  [%d] %s\n", i+1, r.Label)
	}
	fmt.Println()
	replies.set(m.QuickReplies)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
