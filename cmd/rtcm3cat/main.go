// Command rtcm3cat decodes an RTCM3 byte stream from a file or serial
// port and prints a line per updated record, or dumps the per-message-type
// counters of spec.md §4.F.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.bug.st/serial"

	"github.com/fxb-gnss/rtcm3decode/decode"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
)

func main() {
	app := &cli.App{
		Name:      "rtcm3cat",
		Usage:     "decode an RTCM3 byte stream from a file or serial port",
		Version:   "v0.1.0",
		Compiled:  time.Now(),
		HelpName:  "rtcm3cat",
		ArgsUsage: "<file|serial-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "opt", Usage: "RTCM3 decoder options string, e.g. \"-EPHALL -STA=1234\""},
			&cli.IntFlag{Name: "baud", Value: 115200, Usage: "serial baud rate, only used with --serial"},
			&cli.BoolFlag{Name: "serial", Usage: "treat the argument as a serial port path instead of a file"},
			&cli.BoolFlag{Name: "verbose", Usage: "log at debug level instead of warn"},
		},
		Commands: []*cli.Command{
			{
				Name:  "decode",
				Usage: "decode a stream and print one line per updated record",
				Action: runDecode,
			},
			{
				Name:  "stats",
				Usage: "decode a stream to EOF and print the per-message-type counters",
				Action: runStats,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "rtcm3cat:", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if c.Bool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(log)
}

func openStream(c *cli.Context) (*bufio.Reader, func() error, error) {
	path := c.Args().First()
	if path == "" {
		return nil, nil, fmt.Errorf("missing <file|serial-path> argument")
	}
	if c.Bool("serial") {
		mode := &serial.Mode{BaudRate: c.Int("baud"), DataBits: 8, StopBits: serial.OneStopBit, Parity: serial.NoParity}
		port, err := serial.Open(path, mode)
		if err != nil {
			return nil, nil, fmt.Errorf("open serial port %s: %w", path, err)
		}
		return bufio.NewReader(port), port.Close, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open file %s: %w", path, err)
	}
	return bufio.NewReader(f), f.Close, nil
}

func runDecode(c *cli.Context) error {
	log := newLogger(c)
	br, closeFn, err := openStream(c)
	if err != nil {
		return err
	}
	defer closeFn()

	sess, err := decode.NewSession(c.String("opt"), gnsstime.SystemClock{}, log)
	if err != nil {
		return fmt.Errorf("parse options: %w", err)
	}

	w := c.App.Writer
	for {
		switch status := sess.ReadFile(br); status {
		case decode.StatusEOF:
			return nil
		case decode.StatusError:
			continue
		case decode.StatusObs:
			e := sess.Epoch()
			fmt.Fprintf(w, "obs sats=%d\n", len(e.Data))
		case decode.StatusEphemeris:
			fmt.Fprintf(w, "ephemeris station=%d\n", sess.Station().ID)
		case decode.StatusStation:
			sta := sess.Station()
			fmt.Fprintf(w, "station id=%d pos=%v\n", sta.ID, sta.Pos)
		case decode.StatusSSR:
			fmt.Fprintf(w, "ssr station=%d\n", sess.Station().ID)
		}
	}
}

func runStats(c *cli.Context) error {
	log := newLogger(c)
	br, closeFn, err := openStream(c)
	if err != nil {
		return err
	}
	defer closeFn()

	sess, err := decode.NewSession(c.String("opt"), gnsstime.SystemClock{}, log)
	if err != nil {
		return fmt.Errorf("parse options: %w", err)
	}

	for sess.ReadFile(br) != decode.StatusEOF {
	}

	w := c.App.Writer
	var lines []string
	for i, n := range sess.Stats.ByType {
		if n > 0 {
			lines = append(lines, fmt.Sprintf("%d: %d", i+1000, n))
		}
	}
	for i, n := range sess.Stats.ByIgs {
		if n > 0 {
			lines = append(lines, fmt.Sprintf("%d: %d", i+4070, n))
		}
	}
	if sess.Stats.CatchAll > 0 {
		lines = append(lines, fmt.Sprintf("other: %d", sess.Stats.CatchAll))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
	return nil
}
