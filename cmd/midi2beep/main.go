// Package main is the entry point for the midi2beep CLI
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dottspace12/midi2beep/pkg/api"
	"github.com/dottspace12/midi2beep/pkg/converter"
	"github.com/dottspace12/midi2beep/pkg/player"
	"github.com/dottspace12/midi2beep/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	policyName string
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "midi2beep",
	Short: "Convert MIDI files into beep command scripts",
	Long: `midi2beep converts a MIDI performance into a monophonic script of
timed beep invocations for the PC speaker.

Simultaneous notes collapse to one pitch under a selectable policy
(highest, lowest or average).

Examples:
  midi2beep convert song.mid
  midi2beep convert song.mid -o song.sh -p average
  midi2beep play song.mid
  midi2beep tui
  midi2beep serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var convertCmd = &cobra.Command{
	Use:   "convert <input.mid>",
	Short: "Convert a MIDI file to an executable beep script",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var playCmd = &cobra.Command{
	Use:   "play <input.mid>",
	Short: "Convert a MIDI file and play it through the beeper",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&policyName, "policy", "p", "highest", "Overlap policy (highest, lowest, average)")

	// convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output script path (default: input with .sh)")

	// serve command
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getConverter() (*converter.Converter, error) {
	policy, err := converter.ParsePolicy(policyName)
	if err != nil {
		return nil, err
	}
	return converter.New(policy)
}

func getOutputPath(input string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".sh"
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input)

	conv, err := getConverter()
	if err != nil {
		return err
	}

	if err := conv.ConvertFile(input, output); err != nil {
		if errors.Is(err, converter.ErrNoSoundableEvents) {
			fmt.Fprintf(os.Stderr, "warning: %s has no note events, nothing to play\n", input)
			return nil
		}
		return err
	}

	fmt.Printf("Converted %s -> %s\n", input, output)
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	input := args[0]

	conv, err := getConverter()
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "midi2beep")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	script := filepath.Join(tmpDir, "playback.sh")
	if err := conv.ConvertFile(input, script); err != nil {
		if errors.Is(err, converter.ErrNoSoundableEvents) {
			fmt.Fprintf(os.Stderr, "warning: %s has no note events, nothing to play\n", input)
			return nil
		}
		return err
	}

	p := player.New()
	if err := p.Start(script); err != nil {
		return err
	}

	fmt.Printf("Playing %s (ctrl+c to stop)\n", input)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	doneCh := make(chan struct{})
	go func() {
		p.Wait()
		close(doneCh)
	}()

	select {
	case <-sigCh:
		p.Stop()
		fmt.Println("Playback stopped")
	case <-doneCh:
		fmt.Println("Playback finished")
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
