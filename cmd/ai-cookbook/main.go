package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"ai-cookbook/internal/app"
	"ai-cookbook/internal/config"
)

// namespace is the session namespace used by the command line client.
const namespace = "local"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, cleanup, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer cleanup()

	if err := run(ctx, application, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if err == errUsage {
			printUsage()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		cleanup()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: ai-cookbook <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  login -name NAME [-email EMAIL]   Sign in as the local user")
	fmt.Println("  choose create|join                Pick how to start")
	fmt.Println("  join CODE                         Join a family with an invite code")
	fmt.Println("  onboard ['key=value; ...']        Save the profile and finish setup")
	fmt.Println("  stage                             Show the current stage and tab")
	fmt.Println("  generate [-dessert] [-people N] [-budget B]   Generate and review recipes")
	fmt.Println("  library [-q TERM] [-cuisine C] [-fav]   List saved recipes")
	fmt.Println("  lists                             Show shopping lists")
	fmt.Println("  newlist NAME                      Create and select a list")
	fmt.Println("  uselist N                         Select list number N")
	fmt.Println("  additem NAME [QUANTITY]           Add an item to the active list")
	fmt.Println("  show                              Show the active list by category")
	fmt.Println("  import URL                        Clip a recipe from a web page")
	fmt.Println("  publish ID                        Post a library recipe to Ghost as a draft")
	fmt.Println("  invite                            Print a family invite code")
	fmt.Println("  metrics-cleanup [-days N]         Remove old metric records")
	fmt.Println("  logout                            Sign out and delete local data")
}
