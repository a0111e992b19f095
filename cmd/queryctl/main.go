// queryctl submits a query to a running queryd instance and prints the
// outcome payload.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr         string
		sqlText      string
		maxAttempts  int
		pollInterval string
	)

	cmd := &cobra.Command{
		Use:           "queryctl",
		Short:         "Run a query against queryd and wait for its outcome",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runQuery(addr, sqlText, maxAttempts, pollInterval)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:8080", "base URL of the queryd server")
	cmd.Flags().StringVar(&sqlText, "sql", "SELECT * FROM users LIMIT 10", "SQL text to submit")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", -1, "override the server's polling attempt budget")
	cmd.Flags().StringVar(&pollInterval, "poll-interval", "", "override the wait between status checks, e.g. 2s")

	return cmd
}

func runQuery(addr, sqlText string, maxAttempts int, pollInterval string) error {
	payload := map[string]any{"sql": sqlText}
	if maxAttempts >= 0 {
		payload["max_attempts"] = maxAttempts
	}
	if pollInterval != "" {
		payload["poll_interval"] = pollInterval
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, addr+"/v1/queries", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", uuid.NewString())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoking queryd: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		// Not JSON, print as-is
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("queryd returned %s", resp.Status)
	}
	return nil
}
