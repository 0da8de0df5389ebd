package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/danielgatis/go-termcore"
)

var (
	serveListen string
	serveStatic string
	serveDetail string
)

var serveCmd = &cobra.Command{
	Use:   "serve [command [args...]]",
	Short: "Serve emulated terminals over WebSocket",
	Long: `Starts an HTTP server. Every WebSocket connection to /ws runs its own
command (default: $SHELL) on a new PTY.

The server sends JSON messages: "screen" with a snapshot after output,
"title", "bell" and "exit". The client sends binary messages with raw input
bytes, or JSON text messages:

  {"type":"resize","rows":24,"cols":80}
  {"type":"paste","data":"..."}
  {"type":"scroll","delta":-3}`,
	Args: cobra.ArbitraryArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "Listen address (default from config or :8080)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "Directory served at /")
	serveCmd.Flags().StringVar(&serveDetail, "detail", string(termcore.SnapshotDetailStyled), "Snapshot detail: text, styled or full")
	serveCmd.Flags().SetInterspersed(false)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is a control message from the browser.
type clientMessage struct {
	Type  string `json:"type"`
	Rows  int    `json:"rows,omitempty"`
	Cols  int    `json:"cols,omitempty"`
	Data  string `json:"data,omitempty"`
	Delta int    `json:"delta,omitempty"`
}

// serverMessage is a notification to the browser.
type serverMessage struct {
	Type     string             `json:"type"`
	Snapshot *termcore.Snapshot `json:"snapshot,omitempty"`
	Title    string             `json:"title,omitempty"`
	Code     *int               `json:"code,omitempty"`
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := serveListen
	if addr == "" {
		addr = cfg.Listen
	}
	if addr == "" {
		addr = ":8080"
	}

	mux := http.NewServeMux()
	if serveStatic != "" {
		mux.Handle("/", http.FileServer(http.Dir(serveStatic)))
	}
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, baseOptions(cfg, args))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	slog.Warn("server starting", "addr", addr, "ws", "/ws")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, opts []termcore.Option) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	t, err := termcore.Open(opts...)
	if err != nil {
		conn.WriteMessage(websocket.TextMessage, []byte("Error starting command: "+err.Error()))
		return
	}
	defer t.Close()

	log := slog.Default().With("session", t.ID(), "remote", r.RemoteAddr)
	log.Info("session started", "pid", t.PID())

	done := make(chan struct{})
	go func() {
		defer close(done)
		streamEvents(conn, t, log)
	}()

	readClient(conn, t, log)
	t.Close()
	<-done
	log.Info("session ended")
}

// streamEvents is the connection's only writer.
func streamEvents(conn *websocket.Conn, t *termcore.Terminal, log *slog.Logger) {
	for ev := range t.Events() {
		var msg serverMessage
		switch ev := ev.(type) {
		case termcore.Woken:
			snap, err := t.Snapshot(termcore.SnapshotDetail(serveDetail))
			if err != nil {
				return
			}
			msg = serverMessage{Type: "screen", Snapshot: snap}
		case termcore.TitleChanged:
			msg = serverMessage{Type: "title", Title: ev.Title}
		case termcore.BellRung:
			msg = serverMessage{Type: "bell"}
		case termcore.ProcessExited:
			code := ev.Code
			msg = serverMessage{Type: "exit", Code: &code}
		default:
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug("websocket write", "err", err)
			return
		}
	}
}

func readClient(conn *websocket.Conn, t *termcore.Terminal, log *slog.Logger) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("websocket read", "err", err)
			}
			return
		}

		switch msgType {
		case websocket.TextMessage:
			var msg clientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Debug("bad client message", "err", err)
				continue
			}
			switch msg.Type {
			case "resize":
				if err := t.Resize(msg.Rows, msg.Cols); err != nil {
					log.Warn("resize", "rows", msg.Rows, "cols", msg.Cols, "err", err)
				}
			case "paste":
				err = t.Paste(msg.Data)
			case "scroll":
				err = t.ScrollView(msg.Delta)
			}
		case websocket.BinaryMessage:
			err = t.Send(data)
		}
		if err != nil {
			log.Debug("terminal input", "err", err)
			return
		}
	}
}
