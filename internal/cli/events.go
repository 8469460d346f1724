package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		useWS bool
		count int
		until string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream your notifications",
		Long: `Stream your notifications in real time over Server-Sent Events, or a
WebSocket with --ws.

Events include match_found, queue_update, game_started, dice_committed,
bid_made, liar_called, dice_revealed, player_eliminated, round_result,
round_ended, game_result, game_ended, leaderboard_update and
profile_update.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not logged in")
			}

			ctx := cmd.Context()

			sink := &eventPrinter{json: cfg.Output == "json", limit: count, until: until}
			var err error
			if useWS {
				err = streamWebSocket(ctx, sink)
			} else {
				err = streamSSE(ctx, sink)
			}
			if err != nil && ctx.Err() == nil && !sink.done() {
				return err
			}
			if !sink.json {
				fmt.Println("Disconnected")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useWS, "ws", false, "Use the WebSocket endpoint")
	cmd.Flags().IntVar(&count, "count", 0, "Exit after this many events (0 streams forever)")
	cmd.Flags().StringVar(&until, "until", "", "Exit after the first event of this type")

	return cmd
}

// Event is one received notification
type Event struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type eventPrinter struct {
	json  bool
	limit int
	until string
	seen  int
	hit   bool
}

func (p *eventPrinter) done() bool {
	return p.hit || (p.limit > 0 && p.seen >= p.limit)
}

// print writes one event and reports whether the stream should continue
func (p *eventPrinter) print(event string, data []byte) bool {
	p.seen++
	if p.until != "" && event == p.until {
		p.hit = true
	}
	now := time.Now()

	if p.json {
		if !json.Valid(data) {
			data, _ = json.Marshal(string(data))
		}
		line, _ := json.Marshal(Event{Time: now, Event: event, Data: data})
		fmt.Println(string(line))
	} else {
		display := strings.ReplaceAll(string(data), "\n", " ")
		if len(display) > 120 {
			display = display[:120] + "..."
		}
		fmt.Printf("[%s] %s: %s\n", now.Format("15:04:05"), event, display)
	}
	return !p.done()
}

func streamSSE(ctx context.Context, sink *eventPrinter) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(cfg.ServerURL, "/")+"/api/v1/events", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Authorization", "Bearer "+cfg.Token)

	// No client timeout, the stream is long lived
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	var (
		event     string
		dataLines []string
	)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if event != "" {
				if !sink.print(event, []byte(strings.Join(dataLines, "\n"))) {
					return nil
				}
			}
			event = ""
			dataLines = nil
		}
	}
	return scanner.Err()
}

func streamWebSocket(ctx context.Context, sink *eventPrinter) error {
	u, err := url.Parse(strings.TrimSuffix(cfg.ServerURL, "/") + "/api/v1/events/ws")
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.Token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial failed (%d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if !sink.print(frame.Event, frame.Data) {
			return nil
		}
	}
}
