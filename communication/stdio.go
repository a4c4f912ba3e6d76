package communication

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Pump reads newline-delimited lines from r into q and closes q when r is
// exhausted. Trailing carriage returns are dropped.
func Pump(r io.Reader, q *Queue) error {
	defer q.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := q.Send(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Drain writes every line received from src to w until src is closed.
func Drain(ctx context.Context, src Source, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for {
		line, err := src.Recv(ctx)
		if err == ErrClosed {
			return bw.Flush()
		}
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
}
