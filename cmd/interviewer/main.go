package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	interview "github.com/interviewkit/jordan/core"
	"github.com/interviewkit/jordan/core/audio/miniaudio"
	"github.com/interviewkit/jordan/core/audio/portaudio"
	"github.com/interviewkit/jordan/core/conversationalai"
	"github.com/interviewkit/jordan/core/conversationalai/elevenlabs"
	"github.com/interviewkit/jordan/core/events"
	"github.com/interviewkit/jordan/internal/config"
	"github.com/interviewkit/jordan/tui"
)

func main() {
	headless := flag.Bool("headless", false, "start a session immediately and end it on interrupt, without the terminal UI")
	flag.Parse()

	cfg := config.Load()

	if *headless {
		if err := runHeadless(cfg); err != nil {
			log.Fatalf("Failed to run voice session: %v", err)
		}
		return
	}

	controllerOpts := []interview.ControllerOption{
		interview.WithAudioInterfaceFactory(audioInterfaceFactory(cfg.Audio)),
	}

	if cfg.HasCredentials() {
		client, err := newProviderClient(cfg.Agent)
		if err != nil {
			log.Fatalf("Failed to construct provider client: %v", err)
		}
		controllerOpts = append(controllerOpts, interview.WithProvider(
			interview.SessionProviderFunc(func(audioInterface conversationalai.AudioInterface, opts ...conversationalai.SessionOption) conversationalai.Session {
				return client.NewConversation(audioInterface, opts...)
			}),
		))
	}

	sessionEvents := make(chan events.Event, 16)
	controllerOpts = append(controllerOpts, interview.WithEventEmitter(events.ChannelEmitter(sessionEvents)))

	controller := interview.NewController(controllerOpts...)

	program := tea.NewProgram(tui.New(controller, cfg, sessionEvents), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("Failed to run interview console: %v", err)
	}
}

func newProviderClient(cfg config.AgentConfig) (*elevenlabs.Client, error) {
	return elevenlabs.NewClient(cfg.ID,
		elevenlabs.WithAPIKey(cfg.APIKey),
		elevenlabs.WithAPIBase(cfg.APIBaseURL),
		elevenlabs.WithWSBase(cfg.WSBaseURL),
	)
}

func audioInterfaceFactory(cfg config.AudioConfig) interview.AudioInterfaceFactory {
	return func() (conversationalai.AudioInterface, error) {
		switch cfg.Backend {
		case config.BackendMiniaudio:
			return miniaudio.NewInterface()
		default:
			return portaudio.NewInterface(cfg.BufferSize)
		}
	}
}

// runHeadless mirrors the console workflow: one session, printed transcript,
// SIGINT to end, conversation ID on exit.
func runHeadless(cfg config.Config) error {
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}

	client, err := newProviderClient(cfg.Agent)
	if err != nil {
		return err
	}

	audioInterface, err := audioInterfaceFactory(cfg.Audio)()
	if err != nil {
		return fmt.Errorf("failed to acquire audio devices: %w", err)
	}

	conversation := client.NewConversation(audioInterface,
		conversationalai.WithUserTranscriptCallback(func(transcript string) {
			fmt.Printf("User: %s\n", transcript)
		}),
		conversationalai.WithAgentResponseCallback(func(response string) {
			fmt.Printf("Agent: %s\n", response)
		}),
		conversationalai.WithAgentResponseCorrectionCallback(func(original, corrected string) {
			fmt.Printf("Agent: %s -> %s\n", original, corrected)
		}),
	)

	if err := conversation.StartSession(context.Background()); err != nil {
		for _, releaseErr := range audioInterface.Release() {
			log.Printf("Audio cleanup warning: %v", releaseErr)
		}
		return err
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		if err := conversation.EndSession(); err != nil {
			log.Printf("Cleanup warning: %v", err)
		}
	}()

	conversationID, err := conversation.WaitForSessionEnd()
	if err != nil {
		log.Printf("Session ended: %v", err)
	}
	if conversationID != "" {
		fmt.Printf("Conversation ID: %s\n", conversationID)
	}
	return nil
}
