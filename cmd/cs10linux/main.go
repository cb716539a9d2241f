// Command cs10linux bridges a CS-10 control surface to an MMC/MTC-speaking
// host over two MIDI ports.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	midi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters the ALSA/CoreMIDI driver

	"github.com/atom-bomb/cs10-linux/devices"
	"github.com/atom-bomb/cs10-linux/logging"
	"github.com/atom-bomb/cs10-linux/surface"
)

const (
	defaultControlPortName = "cs10 control"
	defaultHostPortName    = "cs10 host"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cs10linux [options]

Options:
  -v, --verbose       enable debug-level tracing on every log category
  -f, --file PATH     override the persistence file path
  -p, --port NAME     connect the control port to a specific MIDI source
                       (by name; ALSA clients appear as "client:port")
  -h, --help          show this message and exit
`)
}

func main() {
	var (
		verbose  bool
		filePath string
		portName string
		help     bool
	)
	flag.BoolVar(&verbose, "v", false, "enable debug-level tracing")
	flag.BoolVar(&verbose, "verbose", false, "enable debug-level tracing")
	flag.StringVar(&filePath, "f", "", "override the persistence file path")
	flag.StringVar(&filePath, "file", "", "override the persistence file path")
	flag.StringVar(&portName, "p", "", "connect the control port to CLIENT:PORT")
	flag.StringVar(&portName, "port", "", "connect the control port to CLIENT:PORT")
	flag.BoolVar(&help, "h", false, "show usage")
	flag.BoolVar(&help, "help", false, "show usage")
	flag.Usage = usage
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	if verbose {
		logging.SetAllVerbose()
	}
	log := logging.Get(logging.APP)

	if filePath == "" {
		var err error
		filePath, err = defaultSettingsPath()
		if err != nil {
			log.Error("failed to resolve settings path", "error", err)
			os.Exit(1)
		}
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		log.Error("failed to create settings directory", "path", filepath.Dir(filePath), "error", err)
		os.Exit(1)
	}

	controlName := defaultControlPortName
	if portName != "" {
		controlName = resolvePortName(portName)
	}

	defer midi.CloseDriver()

	control, err := openDevice("control", controlName, controlName)
	if err != nil {
		log.Error("failed to open control port", "error", err)
		os.Exit(1)
	}
	host, err := openDevice("host", defaultHostPortName, defaultHostPortName)
	if err != nil {
		log.Error("failed to open host port", "error", err)
		os.Exit(1)
	}

	engine := surface.NewEngine(control, host, filePath)
	if err := engine.Load(); err != nil {
		log.Warn("failed to load persisted settings, starting fresh", "error", err)
	}

	go func() {
		if err := logging.StartRemoteControl(); err != nil {
			log.Warn("remote log-level control unavailable", "error", err)
		}
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- engine.Run() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-runErr:
		if err != nil {
			log.Error("engine stopped with error", "error", err)
			os.Exit(1)
		}
	case s := <-sig:
		log.Info("received signal, shutting down", "signal", s)
		engine.Stop()
		<-runErr
	}
}

func openDevice(name, inName, outName string) (*devices.MidiDevice, error) {
	in, err := midi.FindInPort(inName)
	if err != nil {
		return nil, fmt.Errorf("find %s in port %q: %w", name, inName, err)
	}
	out, err := midi.FindOutPort(outName)
	if err != nil {
		return nil, fmt.Errorf("find %s out port %q: %w", name, outName, err)
	}
	return devices.NewMidiDevice(name, in, out), nil
}

// resolvePortName accepts either a bare port name or a "CLIENT:PORT" pair
// and returns the name to search for. original_source takes the same
// CLIENT:PORT string but splits it to address an ALSA client/port pair
// numerically; rtmididrv exposes ports by name only, so a CLIENT:PORT
// argument here just selects the PORT half and CLIENT is informational.
func resolvePortName(arg string) string {
	if _, port, ok := strings.Cut(arg, ":"); ok {
		return port
	}
	return arg
}

// defaultSettingsPath resolves $XDG_DATA_HOME/cs10/cs10-linux.dat, falling
// back to $HOME/.local/share/cs10/cs10-linux.dat.
func defaultSettingsPath() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cs10", "cs10-linux.dat"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "cs10", "cs10-linux.dat"), nil
}
