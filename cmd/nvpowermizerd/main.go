package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"nvpowermizerd/internal/daemon"
	"nvpowermizerd/internal/logging"
	"nvpowermizerd/internal/power"
)

const version = "1.0.0"

type options struct {
	verbose     bool
	gpuID       int
	showHelp    bool
	showVersion bool
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		printUsage()
		os.Exit(1)
	}

	if opts.showHelp {
		printUsage()
		return
	}
	if opts.showVersion {
		fmt.Printf("nvpowermizerd version %s\n", version)
		return
	}

	level := logging.LevelInfo
	if opts.verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLogger(level)

	cfg := power.DefaultConfig()
	cfg.GPUID = opts.gpuID
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", e)
		}
		os.Exit(1)
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("main.startup.failed", "Daemon startup failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	if err := d.Run(); err != nil {
		logger.Error("main.run.failed", "Daemon terminated with error", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}

// parseArgs handles the small flags-only surface by hand: a verbosity
// toggle and the target GPU index.
func parseArgs(args []string) (options, error) {
	opts := options{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			opts.verbose = true
		case arg == "-h" || arg == "--help":
			opts.showHelp = true
		case arg == "--version":
			opts.showVersion = true
		case arg == "-g" || arg == "--gpuid":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", arg)
			}
			i++
			id, err := strconv.Atoi(args[i])
			if err != nil {
				return opts, fmt.Errorf("invalid GPU ID %q", args[i])
			}
			opts.gpuID = id
		case strings.HasPrefix(arg, "--gpuid="):
			value := strings.TrimPrefix(arg, "--gpuid=")
			id, err := strconv.Atoi(value)
			if err != nil {
				return opts, fmt.Errorf("invalid GPU ID %q", value)
			}
			opts.gpuID = id
		default:
			return opts, fmt.Errorf("unknown argument: %s", arg)
		}
	}

	return opts, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "nvpowermizerd - a daemon to improve nVidia PowerMizer mode behavior\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Keeps the GPU in maximum-performance mode while the session is in use\n")
	fmt.Fprintf(os.Stderr, "and drops it to adaptive power saving after %s of idle time.\n", power.DefaultConfig().IdleThreshold)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Usage: nvpowermizerd [flags]\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	fmt.Fprintf(os.Stderr, "  -v, --verbose      Show debugging logs\n")
	fmt.Fprintf(os.Stderr, "  -g, --gpuid <id>   GPU ID as shown by 'nvidia-settings -q gpus' (default 0)\n")
	fmt.Fprintf(os.Stderr, "      --version      Print version and exit\n")
	fmt.Fprintf(os.Stderr, "  -h, --help         Show this help\n")
}
