package main

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// newLogger 创建 logger
func newLogger() log.Logger {
	return log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.name", "billing-cron",
	)
}
