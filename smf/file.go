package smf

import (
	"os"

	"github.com/PeterBaptista/piano-midi/model"
	"github.com/pkg/errors"
)

// DecodeFile reads and decodes the SMF at the given path.
func DecodeFile(path string) (model.DecodedFile, error) {
	var blank model.DecodedFile

	dat, err := os.ReadFile(path)
	if err != nil {
		return blank, errors.Wrap(err, "error reading midi file")
	}

	res, err := Decode(dat)
	if err != nil {
		return blank, errors.Wrap(err, "error parsing midi file")
	}

	return res, nil
}
