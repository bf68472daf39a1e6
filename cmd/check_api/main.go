// Command check_api verifies that the admin API is reachable and that the
// given credentials can list the query templates.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"queryadmin/internal/client"
	"queryadmin/internal/config"
	"queryadmin/internal/core"
)

func main() {
	_ = godotenv.Load()

	base := os.Getenv("API_BASE_URL")
	if base == "" {
		base = config.DefaultAPIBaseURL
	}

	apiURL := flag.String("api", base, "Admin API base URL")
	username := flag.String("u", "", "Username")
	password := flag.String("p", "", "Password")
	timeout := flag.Duration("timeout", 10*time.Second, "Overall timeout")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Println("Usage: check_api -u <username> -p <password> [-api <url>]")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := client.New(*apiURL, nil)
	resp, err := c.Login(ctx, *username, *password)
	if err != nil {
		fmt.Printf("Login failed (%s): %v\n", core.Kind(err), err)
		os.Exit(1)
	}
	fmt.Printf("Logged in as %s (admin: %t)\n", resp.Username, resp.IsAdmin)

	if exp, ok := core.TokenExpiry(resp.AccessToken); ok {
		fmt.Printf("Token expires at %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}

	queries, err := c.ListQueries(ctx, resp.AccessToken)
	if err != nil {
		fmt.Printf("Listing queries failed (%s): %v\n", core.Kind(err), err)
		os.Exit(1)
	}

	fmt.Printf("%d query templates:\n", len(queries))
	for _, q := range queries {
		state := "customised"
		if q.IsDefault() {
			state = "default"
		}
		fmt.Printf("  %-20s %-10s %s\n", q.QueryName, state, q.Description)
	}
}
