package dlog

import (
	"github.com/robfig/cron/v3"
	slogmulti "github.com/samber/slog-multi"
	"log/slog"
	"os"
)

var Log *slog.Logger
var archiver = &Archiver{dir: "logs"}

func init() {
	Log = createLogger()

	spec := os.Getenv("ARCHIVE_CRON")
	if spec == "" {
		return
	}
	c := cron.New()
	entryID, err := c.AddFunc(spec, archiver.process)
	if err != nil {
		panic(err)
	}
	c.Start()
	Info("Created archive cron", "entryID", entryID)
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func createLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
	}

	handlers := []slog.Handler{NewPrettyHandler(os.Stdout, opts)}

	if err := os.MkdirAll("logs", os.ModePerm); err == nil {
		if fileJson, err := os.OpenFile("logs/default.json", os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600); err == nil {
			archiver.track(fileJson)
			handlers = append(handlers, slog.NewJSONHandler(fileJson, opts))
		}
		if fileText, err := os.OpenFile("logs/default.txt", os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600); err == nil {
			archiver.track(fileText)
			handlers = append(handlers, slog.NewTextHandler(fileText, opts))
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}
