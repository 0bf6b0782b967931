package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/edgebot/edgecoach/internal/ai"
	"github.com/edgebot/edgecoach/internal/coach"
	"github.com/edgebot/edgecoach/internal/config"
	"github.com/edgebot/edgecoach/internal/journal"
	"github.com/edgebot/edgecoach/internal/nudges"
	"github.com/edgebot/edgecoach/internal/storage"
)

func main() {
	log.Println("[INFO] Starting EdgeCoach...")

	cfg := config.New()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	jrnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Fatal(err)
	}
	defer jrnl.Close()

	picker := nudges.NewPicker(nil)

	session := coach.NewSession(coach.Options{
		Picker:      picker,
		IdleTimeout: cfg.IdleTimeout,
		OnNudge: func(n coach.Nudge) error {
			fmt.Printf("\n  [coach] %s\n\n", n.Message)
			if err := jrnl.RecordNudge(n); err != nil {
				log.Printf("[JOURNAL] %v", err)
			}
			return nil
		},
		OnIdle: func() {
			fmt.Printf("\n  [coach] %s\n\n", picker.Pick(nudges.TypeIdle))
		},
	})
	defer session.Close()

	if snap, ok, err := store.LoadSnapshot(cfg.SessionID); err != nil {
		log.Printf("[ERR] resume failed, starting fresh: %v", err)
	} else if ok {
		session.Restore(snap)
		log.Printf("[INFO] resumed session %s (%d messages)", cfg.SessionID, len(snap.Messages))
	}

	provider, err := ai.NewProvider(cfg.AIProvider)
	if err != nil {
		log.Fatal(err)
	}
	requester := ai.NewRequester(provider, session, cfg.AIRatePerMin, cfg.AIRequestBurst)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Type messages to chat. Commands: /mood <score>, /summary, /recap, /reset, /quit")

loop:
	for {
		select {
		case s := <-sig:
			log.Printf("[INFO] Received signal %s, shutting down...", s)
			break loop
		case line, open := <-lines:
			if !open {
				break loop
			}
			if done := handleLine(line, session, requester, jrnl); done {
				break loop
			}
		}
	}

	if err := store.SaveSnapshot(cfg.SessionID, session.Snapshot()); err != nil {
		log.Printf("[ERR] snapshot save failed: %v", err)
	}
	log.Println("[INFO] EdgeCoach exited cleanly")
}

// handleLine processes one stdin line. Returns true on /quit.
func handleLine(line string, session *coach.Session, requester *ai.Requester, jrnl *journal.Journal) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	switch {
	case line == "/quit":
		return true
	case line == "/reset":
		session.Reset()
		fmt.Println("session cleared")
	case line == "/summary":
		if !requester.RequestSummary() {
			fmt.Println("summary unavailable right now")
		}
	case line == "/recap":
		printRecap(jrnl)
	case strings.HasPrefix(line, "/mood "):
		score, err := strconv.ParseFloat(strings.TrimPrefix(line, "/mood "), 64)
		if err != nil {
			fmt.Println("usage: /mood <score in -1..1>")
			return false
		}
		session.RecordEvidence(coach.PerformanceEvidence{Score: score, Source: "self_report"})
		state := session.State()
		if err := jrnl.RecordMood(state); err != nil {
			log.Printf("[JOURNAL] %v", err)
		}
		fmt.Printf("mood: %s (momentum %.2f, stability %.2f)\n", state.MoodLabel, state.Momentum, state.Stability)
	default:
		err := session.AppendMessage(coach.Message{
			ID:      uuid.NewString(),
			Sender:  coach.SenderUser,
			Content: line,
		})
		if err != nil {
			log.Printf("[ERR] %v", err)
		}
	}
	return false
}

func printRecap(jrnl *journal.Journal) {
	entries, err := jrnl.RecentNudges(5)
	if err != nil {
		log.Printf("[JOURNAL] %v", err)
		return
	}
	trend, err := jrnl.MoodTrend(5)
	if err != nil {
		log.Printf("[JOURNAL] %v", err)
		return
	}
	fmt.Printf("mood trend: %s\n", trend)
	if len(entries) == 0 {
		fmt.Println("no coaching nudges recorded yet")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %s  [%s] %s\n", e.At.Local().Format("15:04"), e.TriggerTag, e.Message)
	}
}
