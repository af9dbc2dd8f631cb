// Package main provides the planr CLI, a terminal client for planr-service.
//
// Usage:
//
//	planr plan "<goal>" [--deadline D] [--constraints C]  - Generate a plan
//	planr history                                         - List recent plans
//	planr replay <id>                                     - Re-render a stored plan
//	planr clear                                           - Clear plan history
//	planr health                                          - Check service health
//	planr version                                         - Show version
//
// The backend address defaults to http://127.0.0.1:8520 and can be overridden
// with --url or the PLANR_URL environment variable.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ternarybob/planr/pkg/client"
	"github.com/ternarybob/planr/pkg/history"
	"github.com/ternarybob/planr/pkg/plan"
)

// version is set via -ldflags at build time
var version = "dev"

const defaultURL = "http://127.0.0.1:8520"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "plan", "generate":
		err = cmdPlan(args[1:])
	case "history", "ls":
		err = cmdHistory(args[1:])
	case "replay", "show":
		err = cmdReplay(args[1:])
	case "clear":
		err = cmdClear(args[1:])
	case "health":
		err = cmdHealth(args[1:])
	case "version", "-v", "--version":
		fmt.Printf("planr version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Bare goal shorthand: planr "Launch a product in 2 weeks"
		err = cmdPlan(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`planr - Generate task plans from goals

Usage:
  planr plan "<goal>" [options]    Generate a plan (or: planr "<goal>")
  planr history                    List recent plans
  planr replay <id>                Re-render a stored plan without regenerating
  planr clear                      Clear plan history
  planr health                     Check service health
  planr version                    Show version

Options:
  --deadline <text>      Deadline or timebox (e.g. "2 weeks")
  --constraints <text>   Comma-separated constraints
  --url <address>        Backend address (default http://127.0.0.1:8520)
  --timeout <duration>   Request timeout (default 120s)

Examples:
  planr "Launch a product in 2 weeks"
  planr plan "Plan a team offsite" --deadline "1 month" --constraints "team of 2, limited budget"`)
}

// cliArgs holds flag values shared across subcommands.
type cliArgs struct {
	url         string
	deadline    string
	constraints string
	timeout     time.Duration
	rest        []string
}

func parseArgs(args []string) (*cliArgs, error) {
	parsed := &cliArgs{url: defaultURL, timeout: client.DefaultTimeout}
	if env := os.Getenv("PLANR_URL"); env != "" {
		parsed.url = env
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			parsed.rest = append(parsed.rest, arg)
			continue
		}

		if i+1 >= len(args) {
			return nil, fmt.Errorf("%s requires a value", arg)
		}
		value := args[i+1]
		i++

		switch arg {
		case "--url":
			parsed.url = value
		case "--deadline":
			parsed.deadline = value
		case "--constraints":
			parsed.constraints = value
		case "--timeout":
			d, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("invalid timeout %q: %w", value, err)
			}
			parsed.timeout = d
		default:
			return nil, fmt.Errorf("unknown option: %s", arg)
		}
	}

	return parsed, nil
}

func cmdPlan(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(parsed.rest) == 0 {
		return errors.New("goal is required")
	}
	goal := strings.Join(parsed.rest, " ")

	ctx, cancel := context.WithTimeout(context.Background(), parsed.timeout)
	defer cancel()

	requester := client.New(parsed.url)
	p, err := requester.Submit(ctx, goal, parsed.deadline, parsed.constraints)
	if err != nil {
		var genErr *client.GeneratorError
		if errors.As(err, &genErr) {
			fmt.Print(plan.RenderErrorText(genErr.Payload))
			os.Exit(1)
		}
		return err
	}

	fmt.Print(plan.RenderText(p))
	return nil
}

func cmdHistory(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	var items []history.Item
	if err := getJSON(parsed, "/history", &items); err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No plans in history")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%s  %s  %s\n",
			item.ID,
			item.Timestamp.Local().Format("2006-01-02 15:04"),
			item.Goal)
	}
	return nil
}

func cmdReplay(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}
	if len(parsed.rest) == 0 {
		return errors.New("plan id is required")
	}

	var item history.Item
	if err := getJSON(parsed, "/history/"+parsed.rest[0], &item); err != nil {
		return err
	}
	if item.Plan == nil {
		return errors.New("stored item has no plan")
	}

	fmt.Print(plan.RenderText(item.Plan))
	return nil
}

func cmdClear(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodDelete, parsed.url+"/history", nil)
	if err != nil {
		return err
	}
	resp, err := (&http.Client{Timeout: parsed.timeout}).Do(req)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	fmt.Println("History cleared")
	return nil
}

func cmdHealth(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	var health struct {
		Status string `json:"status"`
		Model  string `json:"model"`
	}
	if err := getJSON(parsed, "/health", &health); err != nil {
		return err
	}

	fmt.Printf("planr-service: %s (model %s) at %s\n", health.Status, health.Model, parsed.url)
	return nil
}

func getJSON(parsed *cliArgs, path string, out any) error {
	resp, err := (&http.Client{Timeout: parsed.timeout}).Get(parsed.url + path)
	if err != nil {
		return fmt.Errorf("request failed: %v (check that planr-service is running at %s)", err, parsed.url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.Unmarshal(body, out)
}
