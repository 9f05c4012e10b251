package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/radsim/internal/transport"
)

type ExportData struct {
	Run       RunMetadata              `json:"run"`
	Histories []transport.HistoryTally `json:"histories,omitempty"`
}

// ExportJSON writes meta and tallies to path, or to stdout when path is "-".
func ExportJSON(path string, meta *RunMetadata, tallies []transport.HistoryTally) error {
	if path == "-" {
		return WriteJSON(os.Stdout, meta, tallies)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, meta, tallies); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func WriteJSON(w io.Writer, meta *RunMetadata, tallies []transport.HistoryTally) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Histories: tallies})
}

var csvHeader = []string{
	"history", "collisions", "electrons", "photons", "positrons", "probes",
	"deposited", "escaped", "transitions", "truncated", "first_cosine",
}

// WriteCSV writes one row per history.
func WriteCSV(w io.Writer, tallies []transport.HistoryTally) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range tallies {
		row := []string{
			strconv.FormatInt(t.History, 10),
			strconv.Itoa(t.Collisions),
			strconv.Itoa(t.Electrons),
			strconv.Itoa(t.Photons),
			strconv.Itoa(t.Positrons),
			strconv.Itoa(t.Probes),
			strconv.FormatFloat(t.Deposited, 'g', -1, 64),
			strconv.FormatFloat(t.Escaped, 'g', -1, 64),
			strconv.Itoa(t.Transitions),
			strconv.Itoa(t.Truncated),
			"",
		}
		if t.Scattered {
			row[len(row)-1] = strconv.FormatFloat(t.FirstCosine, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
