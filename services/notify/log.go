package notifysvc

import (
	"context"

	"github.com/trezcool/cptracker/core"
)

// LogNotifier writes notifications to the app logger.
type LogNotifier struct {
	logger core.Logger
}

func NewLogNotifier(logger core.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg string) error {
	n.logger.Info(msg)
	return nil
}
