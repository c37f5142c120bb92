// Package main implements an interactive debugging client for the
// chess LLM server API.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"chessllm/internal/client/api"
	"chessllm/internal/client/display"
)

func main() {
	baseURL := flag.String("api", "http://localhost:8080", "API base URL")
	flag.Parse()

	client := api.New(*baseURL)
	modelID := ""

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("chess"),
		HistoryFile:     ".chessllm_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sChess LLM Debug Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, *baseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help", "h":
			printHelp()
		case "state", "s":
			st, err := client.GetState()
			if err != nil {
				printError(err)
				continue
			}
			printState(st)
		case "board", "b":
			st, err := client.GetState()
			if err != nil {
				printError(err)
				continue
			}
			fmt.Println(display.Board(st.FEN))
		case "reset", "new":
			st, err := client.Reset()
			if err != nil {
				printError(err)
				continue
			}
			fmt.Printf("%sNew game%s\n", display.Green, display.Reset)
			fmt.Println(display.Board(st.FEN))
		case "model":
			if len(args) == 0 {
				fmt.Printf("model: %s\n", orDefault(modelID, "(server default)"))
				continue
			}
			modelID = args[0]
			fmt.Printf("model set to %s\n", modelID)
		case "url":
			if len(args) == 0 {
				fmt.Printf("api: %s\n", client.BaseURL)
				continue
			}
			client.SetBaseURL(args[0])
			fmt.Printf("api set to %s\n", client.BaseURL)
		case "move", "m":
			from, to, promotion, ok := parseMoveArgs(args)
			if !ok {
				fmt.Printf("%susage: move e2e4 | move e2 e4 [q]%s\n", display.Yellow, display.Reset)
				continue
			}
			fmt.Printf("%sThinking...%s\n", display.Yellow, display.Reset)
			out, err := client.Move(from, to, promotion, modelID)
			if err != nil {
				printError(err)
				continue
			}
			fmt.Println(display.Board(out.FEN))
			fmt.Printf("%s%s%s\n", display.Green, out.StatusText, display.Reset)
			if out.Rationale != "" {
				fmt.Printf("%s%s%s\n", display.Magenta, out.Rationale, display.Reset)
			}
		default:
			// Bare UCI token is shorthand for move
			if from, to, promotion, ok := parseMoveArgs(fields); ok {
				out, err := client.Move(from, to, promotion, modelID)
				if err != nil {
					printError(err)
					continue
				}
				fmt.Println(display.Board(out.FEN))
				fmt.Printf("%s%s%s\n", display.Green, out.StatusText, display.Reset)
				continue
			}
			fmt.Printf("unknown command: %s (try 'help')\n", cmd)
		}
	}
}

// parseMoveArgs accepts "e2e4", "e2e4q", or "e2 e4 [q]".
func parseMoveArgs(args []string) (from, to, promotion string, ok bool) {
	switch len(args) {
	case 1:
		tok := strings.ToLower(args[0])
		if len(tok) != 4 && len(tok) != 5 {
			return "", "", "", false
		}
		from, to = tok[0:2], tok[2:4]
		if len(tok) == 5 {
			promotion = tok[4:5]
		}
		return from, to, promotion, true
	case 2, 3:
		from, to = strings.ToLower(args[0]), strings.ToLower(args[1])
		if len(from) != 2 || len(to) != 2 {
			return "", "", "", false
		}
		if len(args) == 3 {
			promotion = strings.ToLower(args[2])
		}
		return from, to, promotion, true
	default:
		return "", "", "", false
	}
}

func printState(st *api.State) {
	fmt.Printf("FEN: %s\n", st.FEN)
	fmt.Printf("Turn: %s\n", st.Turn)
	fmt.Printf("Status: %s\n", st.Status)
	if len(st.MovesSAN) > 0 {
		fmt.Printf("Moves: %s\n", strings.Join(st.MovesSAN, " "))
	}
}

func printError(err error) {
	fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
	if apiErr, ok := err.(*api.APIError); ok && apiErr.FEN != "" {
		fmt.Println(display.Board(apiErr.FEN))
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func printHelp() {
	fmt.Println(`Commands:
  state, s          show FEN, turn and status
  board, b          draw the board
  move, m <uci>     play a move (e2e4, e7e8q, or "move e2 e4 q")
  reset, new        start a new game
  model [id]        show or set the model override
  url [base]        show or set the API base URL
  exit, quit, x     leave`)
}
