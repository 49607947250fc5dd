// Command timelapse records still frames from a video capture device at a
// fixed interval, writing them to a directory as numbered image files.
//
// Examples:
//
//	# List available capture devices.
//	timelapse devices
//
//	# Record one frame per second into capture-YYYYMMDD-HHMMSS/.
//	timelapse start
//
//	# Record the Anker webcam every 5 seconds into frames/.
//	timelapse start -d anker -i 5 frames
//
//	# Record from /dev/video2 through ffmpeg, as png.
//	timelapse start -b ffmpeg -d 2 -f png
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	flag "github.com/spf13/pflag"

	"github.com/framegrab/timelapse/capture"
	"github.com/framegrab/timelapse/device"
	"github.com/framegrab/timelapse/session"
	"github.com/framegrab/timelapse/status"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: timelapse devices [flags]\n")
	fmt.Fprintf(os.Stderr, "       timelapse start [flags] [output-dir]\n")
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}
	os.Exit(main0(os.Args[1], os.Args[2:]))
}

func main0(cmd string, args []string) int {
	switch cmd {
	case "devices":
		return devicesCmd(args)
	case "start":
		return startCmd(args)
	default:
		usage()
		return 2
	}
}

func commonFlags(fs *flag.FlagSet) (backend *string, verbose *bool) {
	backend = fs.StringP("backend", "b", defaultBackend, fmt.Sprintf("capture backend, one of %v", capture.Names()))
	verbose = fs.BoolP("verbose", "v", false, "print verbose output")
	return backend, verbose
}

func devicesCmd(args []string) int {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	backend, verbose := commonFlags(fs)
	fs.Parse(args)
	setVerbose(*verbose)

	src, err := capture.Get(*backend)
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	fmt.Println("Scanning for devices...")
	catalog, err := src.ListDevices()
	if err != nil {
		log.Printf("listing devices: %v", err)
		return 1
	}
	if len(catalog) == 0 {
		fmt.Println("No devices found.")
		return 1
	}

	fmt.Printf("Found %d device(s):\n", len(catalog))
	for _, d := range catalog {
		fmt.Printf("  [%d] %d: %s\n", d.Index, d.ID, d.Name)
	}
	return 0
}

func startCmd(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	backend, verbose := commonFlags(fs)
	selector := fs.StringP("device", "d", "0", "device ID, catalog index or name substring")
	interval := fs.Float64P("interval", "i", 1.0, "seconds between captures")
	format := fs.StringP("format", "f", "jpg", "image format for frame files (jpg, png, gif, tif, bmp)")
	fs.Parse(args)
	setVerbose(*verbose)

	if *interval < 0 {
		log.Printf("invalid interval %g, must be >= 0", *interval)
		return 2
	}
	if _, err := imaging.FormatFromExtension(*format); err != nil {
		log.Printf("unsupported image format %q", *format)
		return 2
	}
	if fs.NArg() > 1 {
		usage()
	}
	outputDir := fs.Arg(0)
	if outputDir == "" {
		outputDir = time.Now().Format("capture-20060102-150405")
	}

	src, err := capture.Get(*backend)
	if err != nil {
		log.Printf("%v", err)
		return 2
	}

	catalog, err := src.ListDevices()
	if err != nil {
		log.Printf("listing devices: %v", err)
		return 1
	}
	id, err := device.Resolve(*selector, catalog)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	line := status.NewLine(os.Stdout, 0)
	sess := session.New(session.Config{
		Source:    src,
		DeviceID:  id,
		OutputDir: outputDir,
		Interval:  time.Duration(*interval * float64(time.Second)),
		Format:    *format,
		Reporter:  line,
		Verbose:   *verbose,
	})

	// The first interrupt requests a graceful stop; a frame already in
	// flight still completes.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		fmt.Fprintln(os.Stderr, "\nStopping recording...")
		sess.RequestStop()
	}()

	fmt.Printf("Recording from device %d to %s\n", id, outputDir)
	fmt.Printf("Capture interval: %g second(s)\n", *interval)
	fmt.Println("Press Ctrl-C to stop")

	line.Start()
	reason, runErr := sess.Run()
	line.Stop()

	fmt.Printf("Recording stopped. Captured %d frame(s).\n", sess.Frames())
	if reason != session.ReasonOperatorStop {
		if runErr != nil {
			log.Printf("%v", runErr)
		}
		return 1
	}
	return 0
}
