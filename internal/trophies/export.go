package trophies

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/youruser/bithunter/internal/slug"
)

var csvHeader = []string{"Name", "Description", "Type"}

// CSVFilename is "{id}-{slug(name)}.csv".
func CSVFilename(g Game) string {
	return fmt.Sprintf("%s-%s.csv", g.ID, slug.Make(g.Name))
}

// WriteCSV writes one row per trophy, in page order.
func WriteCSV(w io.Writer, g Game) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range g.Trophies {
		if err := cw.Write([]string{t.Name, t.Description, t.Type}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the game's trophy info into dir and returns the file path.
func ExportCSV(dir string, g Game) (string, error) {
	path := filepath.Join(dir, CSVFilename(g))
	if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, g) }); err != nil {
		return "", err
	}
	return path, nil
}

// writeFile creates path and fills it with write. A file that could not be
// fully written or closed is removed.
func writeFile(path string, write func(io.Writer) error) (err error) {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cErr := fp.Close(); err == nil && cErr != nil {
			err = fmt.Errorf("closing %s: %w", path, cErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := write(fp); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
