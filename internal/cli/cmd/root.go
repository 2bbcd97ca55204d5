// Package cmd implements the contrack admin CLI. Read commands talk to a
// running server over HTTP; seed writes reference documents straight to
// the database.
package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contrack",
	Short: "CLI for the contrack request tracking server",
	Long:  `contrack is a command-line tool for administering the inspection request tracking server.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "server URL")
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// getJSON fetches a path from the server and decodes the response body.
func getJSON(path string, dest any) error {
	resp, err := httpClient.Get(serverURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("server error: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// postJSON posts a body to a path and decodes the response.
func postJSON(path string, body, dest any) error {
	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	resp, err := httpClient.Post(serverURL+path, "application/json", strings.NewReader(buf.String()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Error != "" {
			return fmt.Errorf("%s", errBody.Error)
		}
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func deleteJSON(path string, dest any) error {
	req, err := http.NewRequest(http.MethodDelete, serverURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
