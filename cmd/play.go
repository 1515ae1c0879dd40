package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/PeterBaptista/piano-midi/model"
	"github.com/PeterBaptista/piano-midi/player"
	"github.com/PeterBaptista/piano-midi/sink"
	"github.com/PeterBaptista/piano-midi/smf"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	playSpeed  float64
	playDryRun bool
)

func init() {
	playCmd.Flags().Float64Var(&playSpeed, "speed", 1.0, "playback speed multiplier")
	playCmd.Flags().BoolVar(&playDryRun, "dry-run", false, "decode and schedule without making sound")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Plays a midi file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defer midi.CloseDriver()

		res, err := smf.DecodeFile(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to parse file, select another")
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		logrus.Infof("decoded %v: %v notes, %.2fs", args[0], len(res.Notes), res.Duration)

		if playDryRun {
			dryRun(res)
			return
		}

		out, err := openSink()
		if err != nil {
			logrus.Fatalf("could not open output: %v", err)
		}

		p := player.New(res, out)
		p.SetSpeed(playSpeed)
		p.SetVolume(outVolume)
		p.Play()

		// wall-clock drive loop: the player itself owns no timer
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		prev := time.Now()
		for range ticker.C {
			now := time.Now()
			p.Tick(now.Sub(prev).Seconds())
			prev = now
			if p.State() == player.Idle {
				break
			}
		}

		// let release tails ring out before the driver closes
		time.Sleep(500 * time.Millisecond)
		out.StopAll()
		logrus.Info("playback finished")
	},
}

// openSink picks the audible output: a soundfont synthesizer if one is
// configured, a MIDI out port otherwise.
func openSink() (sink.Sink, error) {
	if outSoundFont != "" {
		return sink.NewSynth(outSoundFont, 0)
	}
	if outMidiPort >= 0 {
		return sink.OpenMidiPort(outMidiPort, 0)
	}
	return nil, fmt.Errorf("no output configured: pass --soundfont or --midi-out")
}

// dryRun drives the whole schedule with synthetic ticks and reports what
// would have been dispatched.
func dryRun(res model.DecodedFile) {
	rec := sink.NewRecorder()
	p := player.New(res, rec)
	p.SetSpeed(playSpeed)
	p.Play()
	for p.State() == player.Playing {
		p.Tick(0.01)
	}
	logrus.Infof("dry run dispatched %v of %v notes", len(rec.Starts()), len(res.Notes))
}
