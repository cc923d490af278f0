package middleware

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestEnsurePlayerID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	app.Get("/who", EnsurePlayerID(), func(c *fiber.Ctx) error {
		return c.SendString(PlayerID(c))
	})

	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"header", "/who", "alice", fiber.StatusOK, "alice"},
		{"query", "/who?playerId=bob", "", fiber.StatusOK, "bob"},
		{"header wins", "/who?playerId=bob", "alice", fiber.StatusOK, "alice"},
		{"missing", "/who", "", fiber.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body, _ := io.ReadAll(resp.Body)
			if tt.body != "" && string(body) != tt.body {
				t.Fatalf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestWebSocketUpgradeRejectsPlainRequests(t *testing.T) {
	app := fiber.New()
	app.Get("/ws", EnsurePlayerID(), WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/ws?playerId=alice", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("status = %d, want 426", resp.StatusCode)
	}
}

func TestPlayerIDOutlivesRequest(t *testing.T) {
	app := fiber.New()
	var kept []string
	app.Get("/who", EnsurePlayerID(), func(c *fiber.Ctx) error {
		kept = append(kept, PlayerID(c))
		return c.SendStatus(fiber.StatusOK)
	})

	for _, target := range []string{"/who?playerId=alice", "/who?playerId=zzzzz", "/who?playerId=bob"} {
		if _, err := app.Test(httptest.NewRequest("GET", target, nil)); err != nil {
			t.Fatalf("app.Test: %v", err)
		}
	}
	want := []string{"alice", "zzzzz", "bob"}
	for i := range want {
		if kept[i] != want[i] {
			t.Fatalf("kept IDs = %q, want %q", kept, want)
		}
	}
}
