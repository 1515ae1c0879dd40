package cmd

import (
	"github.com/PeterBaptista/piano-midi/constants"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Output selection is shared by every command that makes sound.
var (
	outVolume    float64
	outMidiPort  int
	outSoundFont string
)

func init() {
	rootCmd.PersistentFlags().Float64Var(&outVolume, "volume", 1.0, "output level, 0..1")
	rootCmd.PersistentFlags().IntVar(&outMidiPort, "midi-out", -1, "MIDI output port number")
	rootCmd.PersistentFlags().StringVar(&outSoundFont, "soundfont", constants.GetSoundFontPath(), "path to a .sf2 soundfont")
}

var rootCmd = &cobra.Command{
	Use:   "pianomidi",
	Short: "Decode and play Standard MIDI Files",
	Long:  `Decodes Standard MIDI Files into note lists and plays them against a MIDI port or a SoundFont synthesizer.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(constants.GetLogLevel())
		if err != nil {
			level = logrus.InfoLevel
		}
		logrus.SetLevel(level)
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
