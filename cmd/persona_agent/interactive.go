package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/textutil"
)

// runInteractive loops over profile URLs entered at the prompt until the
// user quits. Analysis failures print a summary line, never a stack trace.
func runInteractive(ctx context.Context) error {
	cfg, err := resolveConfig()
	if err != nil {
		fmt.Println("Configuration is incomplete:")
		fmt.Printf("  %v\n\n", err)
		fmt.Println("Set up your environment:")
		fmt.Println("  1. Create a .env file in the working directory")
		fmt.Println("  2. Add your Reddit API credentials and Gemini API key")
		fmt.Println("  3. Run the tool again")
		return nil
	}

	analyzer, cleanup, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	reader := bufio.NewReader(os.Stdin)
	printBanner()

	for {
		username, ok := promptForUsername(reader)
		if !ok {
			fmt.Println("Goodbye!")
			return nil
		}

		fmt.Printf("\nAnalyzing u/%s...\n", username)
		fmt.Println("This may take a minute...")

		result, err := analyzer.Run(ctx, username)
		if err != nil {
			logger.Error("analysis failed", zap.String("username", username), zap.Error(err))
			fmt.Println("\n" + strings.Repeat("=", 60))
			fmt.Println("Analysis failed. Please try again with a different URL.")
			fmt.Println(strings.Repeat("=", 60))
		} else {
			fmt.Println("\n" + strings.Repeat("=", 60))
			fmt.Println("Analysis completed successfully!")
			fmt.Println(strings.Repeat("=", 60))
			printResult(result)
		}

		if !promptYesNo(reader, "\nWould you like to analyze another profile? (y/n): ") {
			fmt.Println("Goodbye!")
			return nil
		}
	}
}

func printBanner() {
	banner := strings.Repeat("=", 60)
	fmt.Println("\n" + banner)
	fmt.Println("REDDIT USER PERSONA ANALYZER")
	fmt.Println(banner)
	fmt.Println("\nThis tool analyzes Reddit user profiles to generate personas.")
	fmt.Println("Enter a Reddit profile URL to analyze, or 'quit' to exit.")
	fmt.Println("\nExample URLs:")
	fmt.Println("  https://www.reddit.com/user/spez/")
	fmt.Println("  https://www.reddit.com/user/kn0thing/")
	fmt.Println()
}

// promptForUsername reads profile URLs until one yields a username or the
// user quits. Returns false on quit or EOF.
func promptForUsername(reader *bufio.Reader) (string, bool) {
	for {
		fmt.Print("Enter Reddit profile URL (or 'quit' to exit): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", false
		}

		input := strings.TrimSpace(line)
		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			return "", false
		case "":
			fmt.Println("Please enter a valid URL.")
			continue
		}

		if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
			input = "https://" + input
		}

		username := textutil.ExtractUsername(input)
		if username == "" || !strings.Contains(input, "reddit.com") {
			fmt.Println("Please enter a valid Reddit user profile URL.")
			continue
		}
		return username, true
	}
}

func promptYesNo(reader *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
