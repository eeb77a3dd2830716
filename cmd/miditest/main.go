package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"music-controls/midi"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], midi.GomidiSource{})
	stop()
	os.Exit(code)
}

// run returns the exit code so the registry is closed before exiting
func run(ctx context.Context, args []string, source midi.PortSource) int {
	if len(args) < 1 {
		usage()
		return 0
	}

	registry := midi.NewPortRegistry(source, 2*time.Second, 3*time.Second)
	defer registry.Close()

	var err error
	switch args[0] {
	case "list":
		err = listPorts(registry)
	case "poll":
		pollDevices(ctx, registry)
	case "monitor":
		err = monitor(ctx, registry, args[1:])
	case "send":
		err = sendNote(registry, args[1:])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                 - List all MIDI ports")
	fmt.Println("  poll                 - Poll for device changes")
	fmt.Println("  monitor <input>      - Print notes played on an input")
	fmt.Println("  send <output> [note] - Play a test note (default 60)")
}

func listPorts(r *midi.PortRegistry) error {
	fmt.Println("(waiting up to 3 seconds...)")
	if err := r.Update(); err != nil {
		fmt.Println("\nTIMEOUT! The MIDI service is hung.")
		fmt.Println("Fix (macOS): sudo killall coreaudiod midiserver")
		return err
	}
	printPorts(r)
	return nil
}

func printPorts(r *midi.PortRegistry) {
	fmt.Println("=== MIDI Input Ports ===")
	for _, d := range r.Inputs() {
		fmt.Printf("  %d: %s\n", d.Index, d.Name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for _, d := range r.Outputs() {
		fmt.Printf("  %d: %s\n", d.Index, d.Name)
	}
}

func pollDevices(ctx context.Context, r *midi.PortRegistry) {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a keyboard to test. Ctrl+C to exit.")

	r.Subscribe(func(midi.Registry) {
		fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
		printPorts(r)
	})
	r.Run(ctx)
}

func monitor(ctx context.Context, r *midi.PortRegistry, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("monitor needs an input port name")
	}
	if err := r.Update(); err != nil {
		return err
	}
	if err := r.SelectInputByName(args[0]); err != nil {
		return err
	}

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", args[0])
	notes := r.Notes()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-notes:
			if !ok {
				return nil
			}
			kind := "on "
			if ev.Type == midi.NoteOff {
				kind = "off"
			}
			fmt.Printf("  %s ch%-2d %-4s vel %d\n", kind, ev.Channel+1, ev.Name(), ev.Velocity)
		}
	}
}

func sendNote(r *midi.PortRegistry, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("send needs an output port name")
	}
	note := 60
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 || n > 127 {
			return fmt.Errorf("bad note %q", args[1])
		}
		note = n
	}

	if err := r.Update(); err != nil {
		return err
	}
	if err := r.SelectOutputByName(args[0]); err != nil {
		return err
	}

	fmt.Printf("Sending note %d to %s\n", note, args[0])
	if err := r.Send(gomidi.NoteOn(0, uint8(note), 100)); err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond)
	return r.Send(gomidi.NoteOff(0, uint8(note)))
}
