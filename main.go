package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bedtime_story_generator/server"
	"bedtime_story_generator/story"
)

var (
	configPath string
	moodFlag   string
	attempts   int
	addr       string
	verbose    bool
	useMock    bool
)

var rootCmd = &cobra.Command{
	Use:   "bedtime-story [request...]",
	Short: "Generate judged, age-appropriate bedtime stories",
	Long: `Generates short bedtime stories for ages 5-10, scores each one with a
second model call, and rewrites it until it passes or the attempt budget
runs out. With no arguments an interactive session starts.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pipeline, _, err := buildPipeline(false)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			return runOnce(cmd, pipeline, cfg, strings.Join(args, " "))
		}
		return runInteractive(cmd, pipeline, cfg)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the story pipeline as a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pipeline, logger, err := buildPipeline(true)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		srv, err := server.New(pipeline, cfg, logger)
		if err != nil {
			return err
		}
		listen := addr
		if listen == "" {
			listen = cfg.ServerAddr
		}
		if listen == "" {
			listen = ":8080"
		}
		logger.Info("starting server", zap.String("addr", listen))
		return http.ListenAndServe(listen, srv.Routes())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable progress logs")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the canned offline model")
	rootCmd.Flags().StringVar(&moodFlag, "mood", story.DefaultMood, "story mood: calm, adventurous, silly, cozy")
	rootCmd.Flags().IntVar(&attempts, "attempts", 0, "judged attempt budget (default from config)")
	serveCmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config.server_addr)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLogger(serverMode bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	if serverMode {
		return zap.NewProduction()
	}
	return zap.NewNop(), nil
}

func buildPipeline(serverMode bool) (story.Config, *story.Pipeline, *zap.Logger, error) {
	cfg, err := story.LoadConfig(configPath)
	if err != nil {
		return story.Config{}, nil, nil, err
	}
	logger, err := buildLogger(serverMode)
	if err != nil {
		return story.Config{}, nil, nil, err
	}
	llm, err := buildLLM(cfg)
	if err != nil {
		return story.Config{}, nil, nil, err
	}
	gwOpts := []story.GatewayOption{
		story.WithRetries(cfg.Retries),
		story.WithLogger(logger),
	}
	if cfg.RateLimit > 0 {
		gwOpts = append(gwOpts, story.WithRateLimit(rate.Limit(cfg.RateLimit), 1))
	}
	gw, err := story.NewGateway(llm, gwOpts...)
	if err != nil {
		return story.Config{}, nil, nil, err
	}
	return cfg, story.NewPipeline(gw, logger), logger, nil
}

func buildLLM(cfg story.Config) (story.LLMClient, error) {
	if useMock {
		return story.MockLLM{}, nil
	}
	switch cfg.LLM.Provider {
	case "openai":
		return story.NewOpenAILLMFromConfig(&story.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible endpoint; base_url is required.
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return story.NewOpenAILLMFromConfig(&story.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func runOnce(cmd *cobra.Command, pipeline *story.Pipeline, cfg story.Config, request string) error {
	budget := attempts
	if budget < 1 {
		budget = cfg.MaxAttempts
	}
	text, eval, err := pipeline.CreateStory(cmd.Context(), request, moodFlag, budget)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(text)
	fmt.Printf("\n[Score: %d/10 | %s]\n", eval.Score, story.EstimateReadingTime(text))
	return nil
}

func runInteractive(cmd *cobra.Command, pipeline *story.Pipeline, cfg story.Config) error {
	fmt.Println("=============================")
	fmt.Println("  Bedtime Story Generator")
	fmt.Println("=============================")
	fmt.Println("\nMoods: calm (default), adventurous, silly, cozy")
	fmt.Println("Example: 'a story about a bunny --mood silly'")
	fmt.Println("(Type 'quit' to exit, 'new' for a different story)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	var sess *story.Session

	for {
		if sess == nil {
			fmt.Print("Story request: ")
		} else {
			fmt.Print("\nChanges? (or 'new'/'quit'): ")
		}
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit":
			fmt.Println("\nSweet dreams!")
			return nil
		case "new":
			sess = nil
			fmt.Println("\nWhat story would you like?")
			continue
		}

		if sess == nil {
			request, mood := parseMood(input)
			budget := attempts
			if budget < 1 {
				budget = cfg.MaxAttempts
			}
			sess = story.NewSession("interactive", request, mood, budget, pipeline)
			text, eval, err := sess.Propose(cmd.Context())
			if err != nil {
				sess = nil
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			printStory(text)
			fmt.Printf("\nScore: %d/10 | %s\n", eval.Score, story.EstimateReadingTime(text))
			continue
		}

		fmt.Println("\nUpdating story...")
		text, err := sess.Revise(cmd.Context(), input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		printStory(text)
		fmt.Printf("\n%s\n", story.EstimateReadingTime(text))
	}
}

// parseMood splits an optional "--mood <label>" suffix off a request line.
// Unknown labels keep the default mood.
func parseMood(input string) (request, mood string) {
	mood = story.DefaultMood
	request = input
	if idx := strings.Index(input, "--mood"); idx >= 0 {
		request = strings.TrimSpace(input[:idx])
		rest := strings.Fields(input[idx+len("--mood"):])
		if len(rest) > 0 && story.KnownMood(rest[0]) {
			mood = rest[0]
		}
	}
	return request, mood
}

func printStory(text string) {
	fmt.Println("=============================")
	fmt.Println(text)
	fmt.Println("=============================")
}
