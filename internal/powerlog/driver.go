package powerlog

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Drive feeds lines to the parser until the channel closes or ctx is done.
// A fatal attribution error is logged; Drive returns it only when stopOnFatal is set.
func Drive(ctx context.Context, p *Parser, lines <-chan string, stopOnFatal bool, logger *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				logger.Info("log stream closed", zap.Int("lines", p.LinesProcessed()))
				return nil
			}
			if err := p.Process(line); err != nil {
				logger.Error("fatal parse inconsistency",
					zap.Error(err),
					zap.Bool("no_first_player", errors.Is(err, ErrNoFirstPlayer)),
					zap.String("match_id", p.MatchID()),
				)
				if stopOnFatal {
					return err
				}
			}
		}
	}
}
