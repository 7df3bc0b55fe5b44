// Command kiloctl is a small operator CLI for a running kilod instance.
// It reads aggregation outcomes, triggers briefing runs, and clears the
// cache over the service's HTTP API.
//
// Usage:
//
//	kiloctl -addr http://localhost:8080 status
//	kiloctl -addr http://localhost:8080 get weather -island maui
//	kiloctl -addr http://localhost:8080 -token $ADMIN_TOKEN briefing-run
//	kiloctl -addr http://localhost:8080 -token $ADMIN_TOKEN cache-clear
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the running service")
	token := flag.String("token", os.Getenv("ADMIN_TOKEN"), "admin bearer token for admin commands")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	client := resty.New().
		SetBaseURL(*addr).
		SetTimeout(*timeout)
	if *token != "" {
		client.SetAuthToken(*token)
	}

	if code := run(client, flag.Args()); code != 0 {
		os.Exit(code)
	}
}

func run(client *resty.Client, args []string) int {
	switch args[0] {
	case "status":
		return printGet(client, "/healthz", "/readyz")
	case "get":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: kiloctl get <domain> [-island name]")
			return 1
		}
		return getDomain(client, args[1], args[2:])
	case "briefing-run":
		return postAdmin(client, "/admin/briefing/run")
	case "cache-clear":
		return postAdmin(client, "/admin/cache/clear")
	default:
		usage()
		return 1
	}
}

func getDomain(client *resty.Client, name string, rest []string) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	island := fs.String("island", "oahu", "island to query")
	if err := fs.Parse(rest); err != nil {
		return 1
	}

	resp, err := client.R().
		SetQueryParam("island", *island).
		Get("/api/v1/" + name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		return 1
	}
	if resp.IsError() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", resp.Status(), resp.Body())
		return 1
	}
	prettyPrint(resp.Body())
	return 0
}

func printGet(client *resty.Client, paths ...string) int {
	code := 0
	for _, path := range paths {
		resp, err := client.R().Get(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			code = 1
			continue
		}
		fmt.Printf("%s %s %s\n", path, resp.Status(), resp.Body())
		if resp.IsError() {
			code = 1
		}
	}
	return code
}

func postAdmin(client *resty.Client, path string) int {
	resp, err := client.R().Post(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		return 1
	}
	if resp.IsError() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", resp.Status(), resp.Body())
		return 1
	}
	fmt.Println(string(resp.Body()))
	return 0
}

func prettyPrint(body []byte) {
	var buf map[string]any
	if err := json.Unmarshal(body, &buf); err != nil {
		fmt.Println(string(body))
		return
	}
	out, _ := json.MarshalIndent(buf, "", "  ")
	fmt.Println(string(out))
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: kiloctl [flags] <command>

commands:
  status            print /healthz and /readyz
  get <domain>      fetch one domain outcome (-island name)
  briefing-run      compose and publish briefings now (requires -token)
  cache-clear       drop all cache entries (requires -token)`)
	flag.PrintDefaults()
}
