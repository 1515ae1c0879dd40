package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/PeterBaptista/piano-midi/model"
	"github.com/PeterBaptista/piano-midi/pitch"
	"github.com/PeterBaptista/piano-midi/player"
	"github.com/bep/debounce"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var listenIn int

func init() {
	listenCmd.Flags().IntVar(&listenIn, "in", 0, "MIDI input port number")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Routes a MIDI input port through the manual key path",
	Long:  `Listens on a MIDI input port, sounds each pressed key on the output and prints the currently held chord.`,
	Run: func(cmd *cobra.Command, args []string) {
		defer midi.CloseDriver()

		in, err := midi.InPort(listenIn)
		if err != nil {
			logrus.Fatalf("can't find input port %v: %v", listenIn, err)
		}

		out, err := openSink()
		if err != nil {
			logrus.Fatalf("could not open output: %v", err)
		}

		// no file loaded: only the manual press/release path is exercised
		p := player.New(model.DecodedFile{}, out)
		p.SetVolume(outVolume)

		// coalesce the chord display while keys settle
		deb := debounce.New(50 * time.Millisecond)
		printChord := func() {
			held := p.ActivePitches()
			if len(held) == 0 {
				return
			}
			names := make([]string, len(held))
			for i, key := range held {
				names[i] = pitch.Name(key)
			}
			fmt.Println(strings.Join(names, " "))
		}

		stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				p.Press(key, vel)
				deb(printChord)
			case msg.GetNoteEnd(&ch, &key):
				p.Release(key)
				deb(printChord)
			default:
				// ignore
			}
		})
		if err != nil {
			logrus.Fatalf("could not listen: %v", err)
		}
		defer stop()

		logrus.Infof("listening on %v, ctrl-c to quit", in.String())
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		out.StopAll()
	},
}
