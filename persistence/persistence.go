// Package persistence dumps and restores the nine saved positions and
// mixer snapshots to a single flat file, the way the original settings
// file worked: a raw byte dump with no header, version or length prefix
// (§4.9, §7). A file shorter than expected is tolerated; whatever wasn't
// read is left at its zero value, matching a short fread leaving the rest
// of a zero-initialized struct alone.
package persistence

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/atom-bomb/cs10-linux/logging"
	"github.com/atom-bomb/cs10-linux/mixer"
	"github.com/atom-bomb/cs10-linux/protocol"
)

const NumSavedSlots = 9

// Data is the exact on-disk layout.
type Data struct {
	SavedSnapshots [NumSavedSlots]mixer.State
	SavedPositions [NumSavedSlots]protocol.SmpteTime
}

var log = logging.Get(logging.PERSIST)

// Save overwrites path with the raw byte dump of d.
func Save(path string, d *Data) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, d); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		log.Warn("failed to write settings file", "path", path, "error", err)
		return err
	}
	log.Info("saved settings", "path", path)
	return nil
}

// Load reads path into d. A missing file leaves d untouched. A
// short file leaves whatever wasn't read at its zero value too, rather
// than erroring out.
func Load(path string, d *Data) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("no settings file, starting fresh", "path", path)
			return nil
		}
		return err
	}
	defer f.Close()

	size := binary.Size(d)
	buf := make([]byte, size)
	if _, err := io.ReadFull(f, buf); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}

	log.Info("loaded settings", "path", path)
	return binary.Read(bytes.NewReader(buf), binary.LittleEndian, d)
}
