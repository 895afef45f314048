// Package cli runs an interactive query shell over a built trie, for trying
// out n-grams without preparing a test file.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bastiangx/ngramserve/internal/logger"
	"github.com/bastiangx/ngramserve/pkg/query"
	"github.com/bastiangx/ngramserve/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
)

// InputHandler reads query lines from a readline prompt and prints the
// suffix frequencies of each.
type InputHandler struct {
	engine       *query.Engine
	trie         trie.ITrie
	prompt       string
	historyFile  string
	out          io.Writer
	log          *log.Logger
	reportTime   bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters.
// An empty historyFile disables history.
func NewInputHandler(engine *query.Engine, t trie.ITrie, prompt, historyFile string, reportTime bool) *InputHandler {
	return &InputHandler{
		engine:      engine,
		trie:        t,
		prompt:      prompt,
		historyFile: historyFile,
		out:         os.Stdout,
		log:         logger.New("shell"),
		reportTime:  reportTime,
	}
}

// Start begins the interface loop.
// Ctrl-D or ":q" ends it, Ctrl-C clears the current line.
func (h *InputHandler) Start() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          h.prompt,
		HistoryFile:     h.historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()
	h.out = rl.Stdout()

	h.log.Printf("ngramserve shell: enter %d words per line, :help for commands", h.engine.Order())
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !h.handleInput(line) {
			return nil
		}
	}
}

// handleInput runs one line and reports whether the loop should continue.
func (h *InputHandler) handleInput(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	switch line {
	case ":q", ":quit", ":exit":
		return false
	case ":help":
		fmt.Fprintln(h.out, "  <w1 .. wN>  query the frequency of every suffix")
		fmt.Fprintln(h.out, "  :stats      show trie and cache counters")
		fmt.Fprintln(h.out, "  :q          exit")
		return true
	case ":stats":
		h.printStats("trie", h.trie.Stats())
		h.printStats("engine", h.engine.Stats())
		fmt.Fprintf(h.out, "requests: %d\n", h.requestCount)
		return true
	}

	h.requestCount++
	res, err := h.engine.QueryLine(line)
	if err != nil {
		h.log.Error(err)
		return true
	}
	if err := query.WriteResult(h.out, res, h.reportTime); err != nil {
		h.log.Errorf("Writing result: %v", err)
	}
	return true
}

func (h *InputHandler) printStats(title string, stats map[string]int) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(h.out, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(h.out, "  %-12s %d\n", k, stats[k])
	}
}
