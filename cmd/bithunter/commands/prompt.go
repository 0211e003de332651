package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/youruser/bithunter/internal/apperr"
	"github.com/youruser/bithunter/internal/pipeline"
)

const banner = `
-----------------------
__________________       ______  __             _____
___  __ )__(_)_  /_      ___  / / /___  __________  /_____________
__  __  |_  /_  __/________  /_/ /_  / / /_  __ \  __/  _ \_  ___/
_  /_/ /_  / / /_ _/_____/  __  / / /_/ /_  / / / /_ /  __/  /
/_____/ /_/  \__/        /_/ /_/  \__,_/ /_/ /_/\__/ \___//_/

-----------------------
`

const promptText = "\nInput Game ID or type 0 to consume local images:\n"

const invalidInput = "Please enter a valid GameID or type `exit` to quit"

type jobs interface {
	ProcessGame(ctx context.Context, gameID string) (*pipeline.Report, error)
	ConsumeLocal(ctx context.Context) (*pipeline.Report, error)
}

// parseGameID accepts non-negative integers. 0 selects the consume folder.
func parseGameID(input string) (string, error) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 0 {
		return "", apperr.Validation(invalidInput, "gameID", input)
	}
	return strconv.Itoa(n), nil
}

// runPrompt reads one command per line until exit, q, EOF or cancellation.
// Lines are read on a separate goroutine so a cancelled ctx ends an idle
// prompt without waiting for input.
func runPrompt(ctx context.Context, in io.Reader, out io.Writer, j jobs) error {
	fmt.Fprint(out, banner)
	lines, readErr := readLines(ctx, in)
	for {
		fmt.Fprint(out, promptText)

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-readErr
			}
			line = l
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "exit" || input == "q" {
			return nil
		}
		gameID, err := parseGameID(input)
		if err != nil {
			fmt.Fprintln(out, invalidInput)
			continue
		}

		if gameID == "0" {
			err = runConsume(ctx, out, j)
		} else {
			err = runGame(ctx, out, j, gameID)
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
	}
}

// readLines scans in until EOF or ctx is done. The error channel receives
// the scanner error (possibly nil) before lines is closed, unless ctx ended
// the scan.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func runGame(ctx context.Context, out io.Writer, j jobs, gameID string) error {
	report, err := j.ProcessGame(ctx, gameID)
	if report != nil {
		report.Render(out)
	}
	switch {
	case apperr.IsKind(err, apperr.KindNotFound):
		fmt.Fprintln(out, "\nERROR: Could not find any game with the selected ID")
		return err
	case err != nil:
		fmt.Fprintf(out, "\nERROR: %v\n", err)
		return err
	}
	if report.CSVPath != "" {
		fmt.Fprintf(out, "Game trophies info exported to %s\n", report.CSVPath)
	}
	fmt.Fprintf(out, "\n\nAll the trophy images for %s have been processed!\n\n", report.Game.Name)
	return nil
}

func runConsume(ctx context.Context, out io.Writer, j jobs) error {
	report, err := j.ConsumeLocal(ctx)
	if report != nil {
		report.Render(out)
	}
	if err != nil {
		fmt.Fprintf(out, "\nERROR: %v\n", err)
		return err
	}
	fmt.Fprint(out, "\nAll the trophy images have been processed!\n\n")
	return nil
}
