package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/arbor/pkg/events"
	"github.com/go-go-golems/arbor/pkg/generate"
	"github.com/go-go-golems/arbor/pkg/inference"
	"github.com/go-go-golems/arbor/pkg/inference/openai"
	"github.com/go-go-golems/arbor/pkg/models"
	"github.com/go-go-golems/arbor/pkg/session"
	"github.com/go-go-golems/arbor/pkg/threads"
	"github.com/go-go-golems/arbor/pkg/ui"
)

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "arbor is a terminal UI for branching AI conversations",
	RunE:  run,
}

func init() {
	rootCmd.Flags().String("openai-api-key", "", "OpenAI API key")
	rootCmd.Flags().String("base-url", "", "OpenAI-compatible API base URL")
	rootCmd.Flags().String("models-file", "", "YAML file with model configurations")
	rootCmd.Flags().Bool("offline", false, "use the offline echo engine instead of calling an API")
	rootCmd.Flags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().String("log-file", "", "write logs to this file instead of stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix("ARBOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home + "/.config/arbor")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return viper.BindPFlags(cmd.Flags())
}

func initLogger() error {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	var w *os.File = os.Stderr
	if logFile := viper.GetString("log-file"); logFile != "" {
		w, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
	}

	if isatty.IsTerminal(w.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	} else {
		log.Logger = log.Output(w)
	}

	return nil
}

func loadRegistry() (*models.Registry, error) {
	modelsFile := viper.GetString("models-file")
	if modelsFile == "" {
		return models.NewRegistry(), nil
	}
	if _, err := os.Stat(modelsFile); os.IsNotExist(err) {
		return models.NewRegistry(), nil
	}
	return models.LoadFromFile(modelsFile)
}

func buildEngine() inference.Engine {
	if viper.GetBool("offline") {
		return inference.NewEchoEngine()
	}

	apiKey := viper.GetString("openai-api-key")
	if apiKey == "" {
		log.Warn().Msg("no API key configured, falling back to the offline echo engine")
		return inference.NewEchoEngine()
	}

	return openai.NewEngine(apiKey, openai.WithBaseURL(viper.GetString("base-url")))
}

func run(cmd *cobra.Command, _ []string) error {
	if err := initConfig(cmd); err != nil {
		return err
	}
	if err := initLogger(); err != nil {
		return err
	}

	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	router, err := events.NewEventRouter()
	if err != nil {
		return err
	}
	defer func() {
		_ = router.Close()
	}()

	publisher := events.NewPublisherManager()
	publisher.SubscribePublisher(events.TopicUI, router.Publisher)

	store := threads.NewStore(registry, threads.WithPublisherManager(publisher))
	sess := session.New(store)
	sess.NewThread()

	orchestrator := generate.NewOrchestrator(
		store, registry, buildEngine(),
		generate.WithPublisherManager(publisher),
	)

	p := tea.NewProgram(
		ui.InitialModel(sess, orchestrator),
		tea.WithAltScreen(),
	)

	router.AddHandler("ui-forward", events.TopicUI, func(msg *message.Message) error {
		e, err := events.NewEventFromJSON(msg.Payload)
		if err != nil {
			log.Warn().Err(err).Msg("could not decode event")
			return nil
		}
		p.Send(ui.EventMsg{Event: e})
		return nil
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		return router.Run(ctx)
	})
	eg.Go(func() error {
		defer cancel()
		<-router.Running()
		_, err := p.Run()
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		p.Quit()
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	if modelsFile := viper.GetString("models-file"); modelsFile != "" {
		if err := registry.SaveToFile(modelsFile); err != nil {
			log.Warn().Err(err).Msg("could not save models file")
		}
	}

	return nil
}
